package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAccepted   BookingStatus = "accepted"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusRejected   BookingStatus = "rejected"
)

// Blocks reports whether a booking in this status makes its dates
// unavailable to other renters.
func (s BookingStatus) Blocks() bool {
	return s != BookingStatusCancelled && s != BookingStatusRejected
}

// Booking is a reservation of a tool for an inclusive date range.
// Bookings are created only after a successful payment confirmation;
// the confirmed payment intent id is kept for reconciliation.
type Booking struct {
	ID              int32         `json:"id"`
	ToolID          int32         `json:"tool_id"`
	RenterID        int32         `json:"renter_id"`
	OwnerID         int32         `json:"owner_id"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	Status          BookingStatus `json:"status"`
	PickupHour      int32         `json:"pickup_hour"`
	Message         string        `json:"message,omitempty"`
	TotalPriceCents int32         `json:"total_price_cents"`
	Currency        string        `json:"currency"`
	PaymentIntentID string        `json:"payment_intent_id,omitempty"`
	CreatedOn       time.Time     `json:"created_on"`
	UpdatedOn       time.Time     `json:"updated_on"`
}
