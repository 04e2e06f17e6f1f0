package domain

type ToolStatus string

const (
	ToolStatusListed   ToolStatus = "LISTED"
	ToolStatusUnlisted ToolStatus = "UNLISTED"
)

// Tool is a rental listing. This service treats tools as read-only:
// listing management happens elsewhere, bookings only reference them.
type Tool struct {
	ID               int32      `json:"id"`
	OwnerID          int32      `json:"owner_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	PricePerDayCents int32      `json:"price_per_day_cents"`
	DepositCents     int32      `json:"deposit_cents"`
	Currency         string     `json:"currency"`
	Status           ToolStatus `json:"status"`
	CreatedOn        string     `json:"created_on"`
}
