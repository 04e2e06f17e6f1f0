package service

import (
	"context"
	"time"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/logger"
	"toolshare-booking-backend/internal/repository"
	"toolshare-booking-backend/internal/utils"
)

type draftService struct {
	draftRepo     repository.DraftRepository
	bookingRepo   repository.BookingRepository
	toolRepo      repository.ToolRepository
	pricing       PricingService
	ttl           time.Duration
	maxRentalDays int
}

func NewDraftService(
	draftRepo repository.DraftRepository,
	bookingRepo repository.BookingRepository,
	toolRepo repository.ToolRepository,
	pricing PricingService,
	ttl time.Duration,
	maxRentalDays int,
) DraftService {
	return &draftService{
		draftRepo:     draftRepo,
		bookingRepo:   bookingRepo,
		toolRepo:      toolRepo,
		pricing:       pricing,
		ttl:           ttl,
		maxRentalDays: maxRentalDays,
	}
}

// Load restores the persisted draft for the pair when it is younger than
// the TTL, discarding it silently otherwise. Loading also purges the
// user's drafts for other tools so switching tools cannot leak stale
// selections.
func (s *draftService) Load(ctx context.Context, toolID, userID int32) (*domain.BookingDraft, error) {
	if err := s.draftRepo.DeleteOthers(ctx, userID, toolID); err != nil {
		// Cleanup failure is not fatal to the load itself.
		logger.Warn("failed to purge stale drafts", "user_id", userID, "error", err)
	}

	d, err := s.draftRepo.Get(ctx, toolID, userID)
	if err != nil {
		return nil, err
	}
	if d != nil && time.Since(d.SavedAt) <= s.ttl {
		return d, nil
	}
	if d != nil {
		_ = s.draftRepo.Delete(ctx, toolID, userID)
	}

	return s.freshDraft(toolID, userID), nil
}

func (s *draftService) freshDraft(toolID, userID int32) *domain.BookingDraft {
	return &domain.BookingDraft{
		ToolID:        toolID,
		UserID:        userID,
		PaymentMethod: domain.PaymentMethodCard,
	}
}

func (s *draftService) SetStartDate(ctx context.Context, toolID, userID int32, date time.Time) (*domain.BookingDraft, error) {
	d, err := s.Load(ctx, toolID, userID)
	if err != nil {
		return nil, err
	}

	day := utils.DayStart(date)
	if d.EndDate != nil && day.After(utils.DayStart(*d.EndDate)) {
		d.EndDate = nil
	}
	d.StartDate = &day

	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SetEndDate rejects the change, leaving the draft untouched, when the
// proposed range contains any unavailable day. The duration cap is not
// enforced here; selection UIs disable over-long candidates and
// ValidateForSubmit re-checks it regardless.
func (s *draftService) SetEndDate(ctx context.Context, toolID, userID int32, date time.Time) (*domain.BookingDraft, error) {
	d, err := s.Load(ctx, toolID, userID)
	if err != nil {
		return nil, err
	}
	if d.StartDate == nil {
		return d, ErrStartDateRequired
	}

	day := utils.DayStart(date)
	if day.Before(utils.DayStart(*d.StartDate)) {
		return d, ErrStartAfterEnd
	}

	cal, err := s.availability(ctx, toolID)
	if err != nil {
		return nil, err
	}
	if cal.IsPeriodUnavailable(*d.StartDate, day) {
		return d, ErrPeriodUnavailable
	}

	d.EndDate = &day
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *draftService) UpdateDetails(ctx context.Context, toolID, userID int32, pickupHour int32, message string, method domain.PaymentMethod) (*domain.BookingDraft, error) {
	d, err := s.Load(ctx, toolID, userID)
	if err != nil {
		return nil, err
	}

	if method != "" {
		if !method.IsValid() {
			return d, ErrInvalidPaymentMethod
		}
		d.PaymentMethod = method
	}
	d.PickupHour = pickupHour
	d.Message = message

	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ValidateForSubmit re-checks every invariant before money moves:
// both dates set and ordered, duration within the cap, no day of the
// range blocked by any live booking, and a finite positive quote total.
func (s *draftService) ValidateForSubmit(ctx context.Context, toolID, userID int32) (*domain.BookingDraft, *domain.PricingQuote, error) {
	d, err := s.Load(ctx, toolID, userID)
	if err != nil {
		return nil, nil, err
	}

	if d.StartDate == nil {
		return d, nil, ErrStartDateRequired
	}
	if d.EndDate == nil {
		return d, nil, ErrEndDateRequired
	}
	start, end := *d.StartDate, *d.EndDate
	if utils.DayStart(end).Before(utils.DayStart(start)) {
		return d, nil, ErrStartAfterEnd
	}
	if utils.InclusiveDayCount(start, end) > s.maxRentalDays {
		return d, nil, ErrDurationExceeded
	}
	if !d.PaymentMethod.IsValid() {
		return d, nil, ErrInvalidPaymentMethod
	}

	cal, err := s.availability(ctx, toolID)
	if err != nil {
		return nil, nil, err
	}
	if cal.IsPeriodUnavailable(start, end) {
		return d, nil, ErrPeriodUnavailable
	}

	tool, err := s.toolRepo.GetByID(ctx, toolID)
	if err != nil {
		return nil, nil, err
	}
	quote, err := s.pricing.Quote(ctx, tool, start, end)
	if err != nil {
		return nil, nil, err
	}
	if quote.TotalCents <= 0 {
		return d, nil, ErrInvalidQuote
	}

	return d, quote, nil
}

func (s *draftService) Clear(ctx context.Context, toolID, userID int32) error {
	return s.draftRepo.Delete(ctx, toolID, userID)
}

func (s *draftService) availability(ctx context.Context, toolID int32) (*utils.AvailabilityCalendar, error) {
	bookings, err := s.bookingRepo.ListByTool(ctx, toolID)
	if err != nil {
		return nil, err
	}
	return utils.ComputeAvailability(bookings), nil
}

func (s *draftService) save(ctx context.Context, d *domain.BookingDraft) error {
	d.SavedAt = time.Now()
	return s.draftRepo.Upsert(ctx, d)
}
