package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCard      PaymentMethod = "card"
	PaymentMethodGooglePay PaymentMethod = "google_pay"
	PaymentMethodApplePay  PaymentMethod = "apple_pay"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodGooglePay, PaymentMethodApplePay:
		return true
	}
	return false
}

// BookingDraft is the mutable reservation form state for one (tool, user)
// pair. It is persisted on every edit and restored on load while younger
// than the configured TTL, so an interrupted checkout can be resumed.
type BookingDraft struct {
	ToolID        int32         `json:"tool_id"`
	UserID        int32         `json:"user_id"`
	StartDate     *time.Time    `json:"start_date,omitempty"`
	EndDate       *time.Time    `json:"end_date,omitempty"`
	PickupHour    int32         `json:"pickup_hour"`
	Message       string        `json:"message,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	SavedAt       time.Time     `json:"saved_at"`
}
