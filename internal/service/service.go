package service

import (
	"context"
	"time"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/payment"
	"toolshare-booking-backend/internal/utils"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)                      // access, refresh
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type BookingService interface {
	GetTool(ctx context.Context, toolID int32) (*domain.Tool, error)
	ListToolBookings(ctx context.Context, toolID int32) ([]domain.Booking, error)
	GetToolAvailability(ctx context.Context, toolID int32) (*utils.AvailabilityCalendar, error)
	CreateBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, userID int32) ([]domain.Booking, error)
}

// PricingService prefers the remote pricing endpoint and falls back to
// the deterministic local formula on any error.
type PricingService interface {
	Quote(ctx context.Context, tool *domain.Tool, start, end time.Time) (*domain.PricingQuote, error)
}

// DraftService owns the mutable reservation form state for a
// (tool, user) pair, including its persistence window.
type DraftService interface {
	Load(ctx context.Context, toolID, userID int32) (*domain.BookingDraft, error)
	SetStartDate(ctx context.Context, toolID, userID int32, date time.Time) (*domain.BookingDraft, error)
	SetEndDate(ctx context.Context, toolID, userID int32, date time.Time) (*domain.BookingDraft, error)
	UpdateDetails(ctx context.Context, toolID, userID int32, pickupHour int32, message string, method domain.PaymentMethod) (*domain.BookingDraft, error)
	// ValidateForSubmit re-checks every invariant and returns the quote
	// the checkout will charge. Each failing condition yields a distinct
	// error.
	ValidateForSubmit(ctx context.Context, toolID, userID int32) (*domain.BookingDraft, *domain.PricingQuote, error)
	Clear(ctx context.Context, toolID, userID int32) error
}

// CheckoutRequest carries the submit-time inputs that are not part of
// the persisted draft.
type CheckoutRequest struct {
	Billing         payment.BillingDetails
	DisplayCurrency string
	DisplayAmount   string
}

// CheckoutResult reports a completed flow.
type CheckoutResult struct {
	BookingID       int32  `json:"booking_id"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// CheckoutService sequences payment-intent creation, optional 3DS
// challenge, confirmation, and booking creation for one draft at a time.
type CheckoutService interface {
	Submit(ctx context.Context, toolID, userID int32, req CheckoutRequest) (*CheckoutResult, error)
	State(toolID, userID int32) CheckoutState
	// CancelChallenge aborts an in-flight 3DS challenge. Returns false
	// when no challenge is running for the pair.
	CancelChallenge(toolID, userID int32) bool
}

type NotificationService interface {
	List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, email, name, toolTitle string, totalCents int32) error
	SendBookingNotice(ctx context.Context, ownerEmail, renterName, toolTitle string) error
	SendPickupReminder(ctx context.Context, email, name, toolTitle string, startDate time.Time, pickupHour int32) error
}
