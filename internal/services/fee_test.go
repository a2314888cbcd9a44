package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateFeePolicy_Fee(t *testing.T) {
	tests := []struct {
		name      string
		rate      string
		fixed     string
		requested string
		want      string
	}{
		{"percentage only", "0.02", "0", "1000000", "20000"},
		{"fixed only", "0", "1.50", "250", "1.5"},
		{"rate and fixed", "0.01", "5", "1000", "15"},
		{"rounded to cents", "0.015", "0", "10.01", "0.15"},
		{"free", "0", "0", "999", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewRateFeePolicy(decimal.RequireFromString(tt.rate), decimal.RequireFromString(tt.fixed))

			fee, err := policy.Fee(context.Background(), uuid.New(), decimal.RequireFromString(tt.requested))
			require.NoError(t, err)
			assert.True(t, fee.Equal(decimal.RequireFromString(tt.want)), "got %s", fee)
		})
	}
}
