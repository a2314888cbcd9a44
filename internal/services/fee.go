package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
	"github.com/shopspring/decimal"
)

// RateFeePolicy charges a percentage of the requested amount plus a fixed part.
type RateFeePolicy struct {
	rate  decimal.Decimal
	fixed decimal.Decimal
}

// NewRateFeePolicy creates a new RateFeePolicy
func NewRateFeePolicy(rate, fixed decimal.Decimal) *RateFeePolicy {
	return &RateFeePolicy{
		rate:  rate,
		fixed: fixed,
	}
}

// Fee returns the processing fee for a withdrawal of requestedAmount, rounded to the amount scale.
func (p *RateFeePolicy) Fee(ctx context.Context, requesterID uuid.UUID, requestedAmount decimal.Decimal) (decimal.Decimal, error) {
	return requestedAmount.Mul(p.rate).Add(p.fixed).Round(models.AmountScale), nil
}
