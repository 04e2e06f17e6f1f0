package jobs

import (
	"context"
	"time"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/logger"
)

// SendPickupReminders emails every renter whose confirmed booking starts
// today. Runs each morning; failures on one booking do not stop the rest.
func (jr *JobRunner) SendPickupReminders() {
	jr.runWithRecovery("SendPickupReminders", func() {
		ctx := context.Background()

		today := time.Now().UTC()
		bookings, err := jr.store.BookingRepository.ListStartingOn(ctx, today, domain.BookingStatusConfirmed)
		if err != nil {
			logger.Error("Failed to list bookings starting today", "error", err)
			return
		}

		sent := 0
		for _, b := range bookings {
			renter, err := jr.store.UserRepository.GetByID(ctx, b.RenterID)
			if err != nil {
				logger.Error("Failed to load renter for reminder", "booking_id", b.ID, "error", err)
				continue
			}

			tool, err := jr.store.ToolRepository.GetByID(ctx, b.ToolID)
			if err != nil {
				logger.Error("Failed to load tool for reminder", "booking_id", b.ID, "error", err)
				continue
			}

			if err := jr.services.Email.SendPickupReminder(ctx, renter.Email, renter.Name, tool.Title, b.StartDate, b.PickupHour); err != nil {
				logger.Error("Failed to send pickup reminder", "booking_id", b.ID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Sent pickup reminders", "count", sent, "eligible", len(bookings))
	})
}
