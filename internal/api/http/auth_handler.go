package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"toolshare-booking-backend/internal/service"
)

type AuthHandler struct {
	auth     service.AuthService
	validate *validator.Validate
}

func NewAuthHandler(auth service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{auth: auth, validate: validate}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type signupResponse struct {
	UserID int32  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	tokenResponse
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid JSON body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: "validation", Message: err.Error()})
		return
	}

	user, access, refresh, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		tokenResponse: tokenResponse{AccessToken: access, RefreshToken: refresh},
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid JSON body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: "validation", Message: err.Error()})
		return
	}

	access, refresh, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid JSON body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: "validation", Message: err.Error()})
		return
	}

	access, refresh, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}
