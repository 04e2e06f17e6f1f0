package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"toolshare-booking-backend/internal/domain"
)

var bookingCols = []string{"id", "tool_id", "renter_id", "owner_id", "start_date", "end_date", "status", "pickup_hour", "message", "total_price_cents", "currency", "payment_intent_id", "created_on", "updated_on"}

func TestBookingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		b := &domain.Booking{
			ToolID:          1,
			RenterID:        7,
			OwnerID:         2,
			StartDate:       time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
			EndDate:         time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC),
			Status:          domain.BookingStatusConfirmed,
			PickupHour:      9,
			TotalPriceCents: 12800,
			Currency:        "USD",
			PaymentIntentID: "pi_1",
		}

		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(b.ToolID, b.RenterID, b.OwnerID, b.StartDate, b.EndDate, b.Status,
				b.PickupHour, b.Message, b.TotalPriceCents, b.Currency, b.PaymentIntentID,
				sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

		err := repo.Create(ctx, b)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), b.ID)
	})
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(bookingCols).
			AddRow(42, 1, 7, 2, now, now, "confirmed", 9, "", 12800, "USD", "pi_1", now, now)

		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
			WithArgs(int32(42)).
			WillReturnRows(rows)

		b, err := repo.GetByID(ctx, 42)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), b.ID)
		assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
		assert.Equal(t, int32(12800), b.TotalPriceCents)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
			WithArgs(int32(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestBookingRepository_ListByTool(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(bookingCols).
			AddRow(1, 1, 7, 2, now, now, "confirmed", 9, "", 12800, "USD", "pi_1", now, now).
			AddRow(2, 1, 8, 2, now, now, "pending", 10, "hi", 5300, "USD", "", now, now)

		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE tool_id").
			WithArgs(int32(1)).
			WillReturnRows(rows)

		bookings, err := repo.ListByTool(ctx, 1)
		assert.NoError(t, err)
		assert.Len(t, bookings, 2)
		assert.Equal(t, domain.BookingStatusPending, bookings[1].Status)
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE tool_id").
			WithArgs(int32(5)).
			WillReturnRows(sqlmock.NewRows(bookingCols))

		bookings, err := repo.ListByTool(ctx, 5)
		assert.NoError(t, err)
		assert.Empty(t, bookings)
	})
}

func TestBookingRepository_ListStartingOn(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(bookingCols).
		AddRow(1, 1, 7, 2, day, day, "confirmed", 9, "", 12800, "USD", "pi_1", day, day)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE start_date").
		WithArgs(day, domain.BookingStatusConfirmed).
		WillReturnRows(rows)

	bookings, err := repo.ListStartingOn(ctx, day, domain.BookingStatusConfirmed)
	assert.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, int32(7), bookings[0].RenterID)
}
