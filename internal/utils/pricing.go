package utils

import (
	"math"
	"time"

	"toolshare-booking-backend/internal/domain"
)

// DefaultServiceFeePercent is the marketplace fee applied when the
// remote pricing endpoint cannot be reached.
const DefaultServiceFeePercent = 6

// FallbackQuote computes a deterministic local cost breakdown:
// subtotal = base daily price × days, service fee = feePercent of the
// subtotal, deposit passed through, total = subtotal + fee + deposit.
//
// It never fails: negative or missing inputs are treated as zero and a
// day count below one is clamped to one.
func FallbackQuote(basePriceCents, depositCents int32, days int, feePercent int) domain.PricingQuote {
	if basePriceCents < 0 {
		basePriceCents = 0
	}
	if depositCents < 0 {
		depositCents = 0
	}
	if days < 1 {
		days = 1
	}
	if feePercent < 0 {
		feePercent = 0
	}

	subtotal := basePriceCents * int32(days)
	fee := int32(math.Round(float64(subtotal) * float64(feePercent) / 100.0))

	return domain.PricingQuote{
		BasePriceCents:  basePriceCents,
		Days:            int32(days),
		SubtotalCents:   subtotal,
		ServiceFeeCents: fee,
		DepositCents:    depositCents,
		TotalCents:      subtotal + fee + depositCents,
		Source:          domain.QuoteSourceFallback,
	}
}

// FallbackQuoteForRange is FallbackQuote with the day count derived from
// an inclusive date range.
func FallbackQuoteForRange(tool *domain.Tool, start, end time.Time, feePercent int) domain.PricingQuote {
	q := FallbackQuote(tool.PricePerDayCents, tool.DepositCents, InclusiveDayCount(start, end), feePercent)
	q.Currency = tool.Currency
	return q
}
