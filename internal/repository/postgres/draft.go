package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/repository"
)

type draftRepository struct {
	db *sql.DB
}

func NewDraftRepository(db *sql.DB) repository.DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Get(ctx context.Context, toolID, userID int32) (*domain.BookingDraft, error) {
	d := &domain.BookingDraft{}
	query := `SELECT tool_id, user_id, start_date, end_date, pickup_hour, message, payment_method, saved_at
	          FROM booking_drafts WHERE tool_id = $1 AND user_id = $2`
	err := r.db.QueryRowContext(ctx, query, toolID, userID).Scan(
		&d.ToolID, &d.UserID, &d.StartDate, &d.EndDate, &d.PickupHour, &d.Message, &d.PaymentMethod, &d.SavedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *draftRepository) Upsert(ctx context.Context, draft *domain.BookingDraft) error {
	query := `INSERT INTO booking_drafts (tool_id, user_id, start_date, end_date, pickup_hour, message, payment_method, saved_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (tool_id, user_id) DO UPDATE SET
	            start_date = EXCLUDED.start_date,
	            end_date = EXCLUDED.end_date,
	            pickup_hour = EXCLUDED.pickup_hour,
	            message = EXCLUDED.message,
	            payment_method = EXCLUDED.payment_method,
	            saved_at = EXCLUDED.saved_at`
	_, err := r.db.ExecContext(ctx, query,
		draft.ToolID, draft.UserID, draft.StartDate, draft.EndDate,
		draft.PickupHour, draft.Message, draft.PaymentMethod, draft.SavedAt,
	)
	return err
}

func (r *draftRepository) Delete(ctx context.Context, toolID, userID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM booking_drafts WHERE tool_id = $1 AND user_id = $2`, toolID, userID)
	return err
}

func (r *draftRepository) DeleteOthers(ctx context.Context, userID, keepToolID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM booking_drafts WHERE user_id = $1 AND tool_id <> $2`, userID, keepToolID)
	return err
}

func (r *draftRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM booking_drafts WHERE saved_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
