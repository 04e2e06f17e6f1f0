package jobs

import (
	"context"
	"time"

	"toolshare-booking-backend/internal/logger"
)

// PurgeExpiredDrafts deletes booking drafts older than the configured TTL.
// Drafts are also checked lazily on load; this job keeps the table from
// accumulating rows for users who never come back.
func (jr *JobRunner) PurgeExpiredDrafts() {
	jr.runWithRecovery("PurgeExpiredDrafts", func() {
		ctx := context.Background()

		ttl := time.Duration(jr.config.Checkout.DraftTTLHours) * time.Hour
		cutoff := time.Now().Add(-ttl)

		count, err := jr.store.DraftRepository.DeleteExpired(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to purge expired drafts", "error", err)
			return
		}

		logger.Info("Purged expired drafts", "count", count, "cutoff", cutoff.Format(time.RFC3339))
	})
}
