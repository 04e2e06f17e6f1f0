package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/payment"
)

// MockToolRepo
type MockToolRepo struct {
	mock.Mock
}

func (m *MockToolRepo) GetByID(ctx context.Context, id int32) (*domain.Tool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByTool(ctx context.Context, toolID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, toolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByRenter(ctx context.Context, renterID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListStartingOn(ctx context.Context, day time.Time, status domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, day, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockDraftRepo
type MockDraftRepo struct {
	mock.Mock
}

func (m *MockDraftRepo) Get(ctx context.Context, toolID, userID int32) (*domain.BookingDraft, error) {
	args := m.Called(ctx, toolID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}
func (m *MockDraftRepo) Upsert(ctx context.Context, draft *domain.BookingDraft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}
func (m *MockDraftRepo) Delete(ctx context.Context, toolID, userID int32) error {
	args := m.Called(ctx, toolID, userID)
	return args.Error(0)
}
func (m *MockDraftRepo) DeleteOthers(ctx context.Context, userID, keepToolID int32) error {
	args := m.Called(ctx, userID, keepToolID)
	return args.Error(0)
}
func (m *MockDraftRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, req payment.CreateIntentRequest) (*domain.PaymentSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentSession), args.Error(1)
}
func (m *MockGateway) ConfirmCard(ctx context.Context, clientSecret string, billing payment.BillingDetails) (domain.IntentStatus, error) {
	args := m.Called(ctx, clientSecret, billing)
	return args.Get(0).(domain.IntentStatus), args.Error(1)
}
func (m *MockGateway) IntentStatus(ctx context.Context, intentID string) (domain.IntentStatus, error) {
	args := m.Called(ctx, intentID)
	return args.Get(0).(domain.IntentStatus), args.Error(1)
}
func (m *MockGateway) ChallengeStatus(ctx context.Context, sessionID string) (domain.ChallengeStatus, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.ChallengeStatus), args.Error(1)
}
func (m *MockGateway) ExpireChallenge(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockRemoteQuoter
type MockRemoteQuoter struct {
	mock.Mock
}

func (m *MockRemoteQuoter) Quote(ctx context.Context, toolID int32, start, end time.Time) (*domain.PricingQuote, error) {
	args := m.Called(ctx, toolID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PricingQuote), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, int32(args.Int(1)), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), int32(args.Int(1)), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, email, name, toolTitle string, totalCents int32) error {
	args := m.Called(ctx, email, name, toolTitle, totalCents)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingNotice(ctx context.Context, ownerEmail, renterName, toolTitle string) error {
	args := m.Called(ctx, ownerEmail, renterName, toolTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendPickupReminder(ctx context.Context, email, name, toolTitle string, startDate time.Time, pickupHour int32) error {
	args := m.Called(ctx, email, name, toolTitle, startDate, pickupHour)
	return args.Error(0)
}
