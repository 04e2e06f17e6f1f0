package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/events"
	"toolshare-booking-backend/internal/logger"
	"toolshare-booking-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
	userRepo repository.UserRepository
	email    EmailService
}

func NewNotificationService(noteRepo repository.NotificationRepository, userRepo repository.UserRepository, email EmailService) *notificationService {
	return &notificationService{
		noteRepo: noteRepo,
		userRepo: userRepo,
		email:    email,
	}
}

func (s *notificationService) List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	err := s.noteRepo.MarkAsRead(ctx, notificationID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// HandleBookingCreated writes in-app notifications for both parties and
// sends the confirmation emails. Failures are logged, never propagated:
// the booking is already committed by the time this runs.
func (s *notificationService) HandleBookingCreated(e events.BookingCreated) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	attrs := map[string]string{
		"booking_id": strconv.Itoa(int(e.BookingID)),
		"tool_id":    strconv.Itoa(int(e.ToolID)),
	}

	renterNote := &domain.Notification{
		UserID:     e.RenterID,
		Title:      "Booking confirmed",
		Message:    fmt.Sprintf("Your booking for %s is confirmed.", e.ToolTitle),
		Attributes: attrs,
	}
	if err := s.noteRepo.Create(ctx, renterNote); err != nil {
		logger.Error("failed to create renter notification", "booking_id", e.BookingID, "error", err)
	}

	ownerNote := &domain.Notification{
		UserID:     e.OwnerID,
		Title:      "New booking",
		Message:    fmt.Sprintf("Your %s has a new booking.", e.ToolTitle),
		Attributes: attrs,
	}
	if err := s.noteRepo.Create(ctx, ownerNote); err != nil {
		logger.Error("failed to create owner notification", "booking_id", e.BookingID, "error", err)
	}

	renter, err := s.userRepo.GetByID(ctx, e.RenterID)
	if err != nil {
		logger.Error("failed to load renter for booking emails", "booking_id", e.BookingID, "error", err)
		return
	}
	if err := s.email.SendBookingConfirmation(ctx, renter.Email, renter.Name, e.ToolTitle, e.TotalCents); err != nil {
		logger.Error("failed to send booking confirmation email", "booking_id", e.BookingID, "error", err)
	}

	owner, err := s.userRepo.GetByID(ctx, e.OwnerID)
	if err != nil {
		logger.Error("failed to load owner for booking emails", "booking_id", e.BookingID, "error", err)
		return
	}
	if err := s.email.SendBookingNotice(ctx, owner.Email, renter.Name, e.ToolTitle); err != nil {
		logger.Error("failed to send booking notice email", "booking_id", e.BookingID, "error", err)
	}
}
