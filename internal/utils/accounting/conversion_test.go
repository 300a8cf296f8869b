package accounting

import (
	"math/rand"
	"testing"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBase(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		rate    string
		op      domain.ExchangeOperator
		want    string
		wantErr error
	}{
		{"multiply", "100", "10.85", domain.Multiply, "1085", nil},
		{"divide", "1085", "10.85", domain.Divide, "100", nil},
		{"zero rate", "100", "0", domain.Multiply, "", apperrors.ErrRateMissing},
		{"negative rate", "100", "-1", domain.Divide, "", apperrors.ErrRateMissing},
		{"unknown operator", "100", "2", domain.ExchangeOperator("pow"), "", apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBase(decimal.RequireFromString(tt.amount), decimal.RequireFromString(tt.rate), tt.op)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestDisplayRateRoundTrip(t *testing.T) {
	epsilon := decimal.New(1, -5)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		display := decimal.New(int64(1+rng.Intn(5_000_000)), -4)
		for _, op := range []domain.ExchangeOperator{domain.Multiply, domain.Divide} {
			stored, err := RateFromDisplay(display, op)
			require.NoError(t, err)
			back, err := DisplayRate(stored, op)
			require.NoError(t, err)
			assert.True(t, back.Sub(display).Abs().LessThan(epsilon), "display %s -> %s via %s", display, back, op)
		}
	}
}

func TestToBase_DivideByInvertedDisplayRate(t *testing.T) {
	epsilon := decimal.New(1, -4)
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		amount := decimal.New(int64(rng.Intn(100_000_000)), -2)
		display := decimal.New(int64(1+rng.Intn(2_000_000)), -4)

		stored, err := RateFromDisplay(display, domain.Divide)
		require.NoError(t, err)
		got, err := ToBase(amount, stored, domain.Divide)
		require.NoError(t, err)

		want := amount.Mul(display)
		assert.True(t, got.Sub(want).Abs().LessThan(epsilon), "amount %s display %s: got %s want %s", amount, display, got, want)
	}
}

func TestRateFromDisplay_RejectsNonPositive(t *testing.T) {
	_, err := RateFromDisplay(decimal.Zero, domain.Divide)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = DisplayRate(decimal.Zero, domain.Multiply)
	assert.ErrorIs(t, err, apperrors.ErrRateMissing)
}
