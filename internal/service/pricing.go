package service

import (
	"context"
	"time"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/logger"
	"toolshare-booking-backend/internal/utils"
)

// RemoteQuoter is the backend pricing endpoint collaborator.
type RemoteQuoter interface {
	Quote(ctx context.Context, toolID int32, start, end time.Time) (*domain.PricingQuote, error)
}

type pricingService struct {
	remote     RemoteQuoter // nil disables the remote path
	feePercent int
}

func NewPricingService(remote RemoteQuoter, feePercent int) PricingService {
	if feePercent <= 0 {
		feePercent = utils.DefaultServiceFeePercent
	}
	return &pricingService{
		remote:     remote,
		feePercent: feePercent,
	}
}

// Quote returns the remote breakdown verbatim when the endpoint answers,
// and the deterministic local fallback on any error. The fallback path
// cannot fail.
func (s *pricingService) Quote(ctx context.Context, tool *domain.Tool, start, end time.Time) (*domain.PricingQuote, error) {
	if s.remote != nil {
		q, err := s.remote.Quote(ctx, tool.ID, start, end)
		if err == nil {
			return q, nil
		}
		logger.Warn("remote pricing failed, using local fallback", "tool_id", tool.ID, "error", err)
	}

	q := utils.FallbackQuoteForRange(tool, start, end, s.feePercent)
	return &q, nil
}
