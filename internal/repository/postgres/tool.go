package postgres

import (
	"context"
	"database/sql"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/repository"
)

type toolRepository struct {
	db *sql.DB
}

func NewToolRepository(db *sql.DB) repository.ToolRepository {
	return &toolRepository{db: db}
}

func (r *toolRepository) GetByID(ctx context.Context, id int32) (*domain.Tool, error) {
	t := &domain.Tool{}
	query := `SELECT id, owner_id, title, description, price_per_day_cents, deposit_cents, currency, status, created_on
	          FROM tools WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description,
		&t.PricePerDayCents, &t.DepositCents, &t.Currency, &t.Status, &t.CreatedOn,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}
