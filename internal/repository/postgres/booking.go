package postgres

import (
	"context"
	"database/sql"
	"time"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, tool_id, renter_id, owner_id, start_date, end_date, status, pickup_hour, message, total_price_cents, currency, payment_intent_id, created_on, updated_on`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (tool_id, renter_id, owner_id, start_date, end_date, status, pickup_hour, message, total_price_cents, currency, payment_intent_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		b.ToolID, b.RenterID, b.OwnerID, b.StartDate, b.EndDate, b.Status,
		b.PickupHour, b.Message, b.TotalPriceCents, b.Currency, b.PaymentIntentID, now, now,
	).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.ToolID, &b.RenterID, &b.OwnerID, &b.StartDate, &b.EndDate, &b.Status,
		&b.PickupHour, &b.Message, &b.TotalPriceCents, &b.Currency, &b.PaymentIntentID,
		&b.CreatedOn, &b.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) ListByTool(ctx context.Context, toolID int32) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tool_id = $1 ORDER BY start_date`
	return r.list(ctx, query, toolID)
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int32) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE renter_id = $1 ORDER BY created_on DESC`
	return r.list(ctx, query, renterID)
}

func (r *bookingRepository) ListStartingOn(ctx context.Context, day time.Time, status domain.BookingStatus) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE start_date::date = $1::date AND status = $2 ORDER BY pickup_hour`
	return r.list(ctx, query, day, status)
}

func (r *bookingRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.ToolID, &b.RenterID, &b.OwnerID, &b.StartDate, &b.EndDate, &b.Status,
			&b.PickupHour, &b.Message, &b.TotalPriceCents, &b.Currency, &b.PaymentIntentID,
			&b.CreatedOn, &b.UpdatedOn,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
