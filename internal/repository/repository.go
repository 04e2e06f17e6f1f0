package repository

import (
	"context"
	"time"

	"toolshare-booking-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ToolRepository is read-only: listings are managed by a separate system.
type ToolRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Tool, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	ListByTool(ctx context.Context, toolID int32) ([]domain.Booking, error)
	ListByRenter(ctx context.Context, renterID int32) ([]domain.Booking, error)
	// ListStartingOn returns bookings in the given status whose start date
	// falls on the given calendar day. Used by the pickup-reminder job.
	ListStartingOn(ctx context.Context, day time.Time, status domain.BookingStatus) ([]domain.Booking, error)
}

// DraftRepository persists at most one draft per (tool, user) pair.
type DraftRepository interface {
	// Get returns (nil, nil) when no draft exists for the pair.
	Get(ctx context.Context, toolID, userID int32) (*domain.BookingDraft, error)
	Upsert(ctx context.Context, draft *domain.BookingDraft) error
	Delete(ctx context.Context, toolID, userID int32) error
	// DeleteOthers removes every draft of the user except the one for
	// keepToolID, so switching tools cannot leak stale selections.
	DeleteOthers(ctx context.Context, userID, keepToolID int32) error
	// DeleteExpired removes drafts saved before the cutoff and reports
	// how many rows were removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
