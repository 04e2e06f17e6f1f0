package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	var first, second []BookingCreated
	bus.SubscribeBookingCreated(func(e BookingCreated) { first = append(first, e) })
	bus.SubscribeBookingCreated(func(e BookingCreated) { second = append(second, e) })

	event := BookingCreated{BookingID: 42, ToolID: 1, RenterID: 7, OwnerID: 2, ToolTitle: "Drill", TotalCents: 12800}
	bus.PublishBookingCreated(event)

	assert.Equal(t, []BookingCreated{event}, first)
	assert.Equal(t, []BookingCreated{event}, second)
}

func TestBus_PublishWithNoSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.PublishBookingCreated(BookingCreated{BookingID: 1})
	})
}

func TestBus_PanickingHandlerIsIsolated(t *testing.T) {
	bus := NewBus()

	var delivered bool
	bus.SubscribeBookingCreated(func(e BookingCreated) { panic("boom") })
	bus.SubscribeBookingCreated(func(e BookingCreated) { delivered = true })

	assert.NotPanics(t, func() {
		bus.PublishBookingCreated(BookingCreated{BookingID: 1})
	})
	assert.True(t, delivered)
}
