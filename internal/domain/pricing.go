package domain

type QuoteSource string

const (
	QuoteSourceRemote   QuoteSource = "remote"
	QuoteSourceFallback QuoteSource = "fallback"
)

// PricingQuote is a cost breakdown for a rental period. All amounts are
// integer cents. Invariant: TotalCents == SubtotalCents + ServiceFeeCents
// + DepositCents, and every amount is non-negative.
type PricingQuote struct {
	BasePriceCents  int32       `json:"base_price_cents"`
	Days            int32       `json:"days"`
	SubtotalCents   int32       `json:"subtotal_cents"`
	ServiceFeeCents int32       `json:"service_fee_cents"`
	DepositCents    int32       `json:"deposit_cents"`
	TotalCents      int32       `json:"total_cents"`
	Currency        string      `json:"currency"`
	Source          QuoteSource `json:"source"`
}
