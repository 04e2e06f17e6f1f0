package events

import (
	"sync"

	"toolshare-booking-backend/internal/logger"
)

// BookingCreated is published once a checkout flow has written its
// booking. Consumers (notifications, list refreshes) subscribe instead of
// watching shared storage keys.
type BookingCreated struct {
	BookingID  int32
	ToolID     int32
	RenterID   int32
	OwnerID    int32
	ToolTitle  string
	TotalCents int32
}

type BookingCreatedHandler func(BookingCreated)

// Bus is a small in-process publish/subscribe bus. Handlers run
// synchronously in subscription order; a panicking handler is isolated
// so it cannot break the publishing flow.
type Bus struct {
	mu       sync.RWMutex
	handlers []BookingCreatedHandler
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SubscribeBookingCreated(h BookingCreatedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

func (b *Bus) PublishBookingCreated(e BookingCreated) {
	b.mu.RLock()
	handlers := make([]BookingCreatedHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("booking-created handler panicked", "panic", r, "booking_id", e.BookingID)
				}
			}()
			h(e)
		}()
	}
}
