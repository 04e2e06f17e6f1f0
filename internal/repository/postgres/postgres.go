package postgres

import (
	"database/sql"

	"toolshare-booking-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ToolRepository
	repository.BookingRepository
	repository.DraftRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		ToolRepository:         NewToolRepository(db),
		BookingRepository:      NewBookingRepository(db),
		DraftRepository:        NewDraftRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
