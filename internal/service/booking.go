package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/events"
	"toolshare-booking-backend/internal/repository"
	"toolshare-booking-backend/internal/utils"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	toolRepo    repository.ToolRepository
	bus         *events.Bus
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	toolRepo repository.ToolRepository,
	bus *events.Bus,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		toolRepo:    toolRepo,
		bus:         bus,
	}
}

func (s *bookingService) GetTool(ctx context.Context, toolID int32) (*domain.Tool, error) {
	tool, err := s.toolRepo.GetByID(ctx, toolID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return tool, err
}

func (s *bookingService) ListToolBookings(ctx context.Context, toolID int32) ([]domain.Booking, error) {
	return s.bookingRepo.ListByTool(ctx, toolID)
}

// GetToolAvailability resolves the tool's bookings into per-day buckets.
// A fetch failure propagates instead of masquerading as a fully free
// calendar: callers must be able to tell "no data" from "no conflicts".
func (s *bookingService) GetToolAvailability(ctx context.Context, toolID int32) (*utils.AvailabilityCalendar, error) {
	bookings, err := s.bookingRepo.ListByTool(ctx, toolID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for tool %d: %w", toolID, err)
	}
	return utils.ComputeAvailability(bookings), nil
}

func (s *bookingService) CreateBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	tool, err := s.toolRepo.GetByID(ctx, b.ToolID)
	if err != nil {
		return nil, err
	}
	b.OwnerID = tool.OwnerID
	if b.Currency == "" {
		b.Currency = tool.Currency
	}

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.bus.PublishBookingCreated(events.BookingCreated{
		BookingID:  b.ID,
		ToolID:     b.ToolID,
		RenterID:   b.RenterID,
		OwnerID:    b.OwnerID,
		ToolTitle:  tool.Title,
		TotalCents: b.TotalPriceCents,
	})

	return b, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, ErrUnauthorized
	}
	return b, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, userID int32) ([]domain.Booking, error) {
	return s.bookingRepo.ListByRenter(ctx, userID)
}
