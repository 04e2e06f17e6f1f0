package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/repository"
	"toolshare-booking-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*domain.User, string, string, error) {
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(user)
	return user, access, refresh, err
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", "", ErrUnauthorized
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", ErrUnauthorized
	}

	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
