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

func debit(account string, amount string) domain.JournalLine {
	return domain.JournalLine{AccountID: account, DebitAmount: decimal.RequireFromString(amount)}
}

func credit(account string, amount string) domain.JournalLine {
	return domain.JournalLine{AccountID: account, CreditAmount: decimal.RequireFromString(amount)}
}

func TestValidateEntryLines(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.JournalLine
		wantErr error
	}{
		{
			name:  "balanced two lines",
			lines: []domain.JournalLine{debit("a", "500"), credit("b", "500")},
		},
		{
			name:  "difference below tolerance",
			lines: []domain.JournalLine{debit("a", "100.004"), credit("b", "100")},
		},
		{
			name:    "difference at tolerance",
			lines:   []domain.JournalLine{debit("a", "100.01"), credit("b", "100")},
			wantErr: apperrors.ErrUnbalancedEntry,
		},
		{
			name:    "single line",
			lines:   []domain.JournalLine{debit("a", "1")},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "line with both sides",
			lines: []domain.JournalLine{
				{AccountID: "a", DebitAmount: decimal.NewFromInt(1), CreditAmount: decimal.NewFromInt(1)},
				credit("b", "0.5"),
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "negative amount",
			lines:   []domain.JournalLine{debit("a", "-5"), credit("b", "-5")},
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntryLines(tt.lines, DefaultEntryTolerance)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateEntryLines_RandomizedBalance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		n := 2 + rng.Intn(6)
		lines := make([]domain.JournalLine, 0, n)
		debits := decimal.Zero
		credits := decimal.Zero
		for j := 0; j < n; j++ {
			amount := decimal.New(int64(1+rng.Intn(1_000_000)), -2)
			if j%2 == 0 {
				lines = append(lines, domain.JournalLine{AccountID: "a", DebitAmount: amount})
				debits = debits.Add(amount)
			} else {
				lines = append(lines, domain.JournalLine{AccountID: "b", CreditAmount: amount})
				credits = credits.Add(amount)
			}
		}

		err := ValidateEntryLines(lines, DefaultEntryTolerance)
		if debits.Sub(credits).Abs().LessThan(DefaultEntryTolerance) {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
		}

		// Closing the gap on the lighter side always yields a valid entry.
		gap := debits.Sub(credits)
		if gap.IsPositive() {
			lines = append(lines, domain.JournalLine{AccountID: "c", CreditAmount: gap})
		} else if gap.IsNegative() {
			lines = append(lines, domain.JournalLine{AccountID: "c", DebitAmount: gap.Neg()})
		}
		require.NoError(t, ValidateEntryLines(lines, DefaultEntryTolerance))
	}
}

func TestCalculateSignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		want        string
	}{
		{"debit asset", debit("a", "10"), domain.Asset, "10"},
		{"credit asset", credit("a", "10"), domain.Asset, "-10"},
		{"debit liability", debit("a", "10"), domain.Liability, "-10"},
		{"credit revenue", credit("a", "10"), domain.Revenue, "10"},
		{"debit expense", debit("a", "10"), domain.Expense, "10"},
		{
			name: "multi-currency uses foreign amount",
			line: domain.JournalLine{
				AccountID:     "a",
				DebitAmount:   decimal.NewFromInt(1085),
				ForeignAmount: decimalPtr(decimal.NewFromInt(100)),
				ExchangeRate:  decimalPtr(decimal.RequireFromString("10.85")),
			},
			accountType: domain.Asset,
			want:        "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSignedAmount(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}

	_, err := CalculateSignedAmount(debit("a", "1"), domain.AccountType("BOGUS"))
	assert.Error(t, err)
}

func TestBalanceChanges(t *testing.T) {
	lines := []domain.JournalLine{debit("cash", "300"), debit("cash", "200"), credit("payable", "500")}
	types := map[string]domain.AccountType{"cash": domain.Asset, "payable": domain.Liability}

	changes, err := BalanceChanges(lines, types)
	require.NoError(t, err)
	assert.True(t, changes["cash"].Equal(decimal.NewFromInt(500)))
	assert.True(t, changes["payable"].Equal(decimal.NewFromInt(500)))

	negated := NegateChanges(changes)
	assert.True(t, negated["cash"].Equal(decimal.NewFromInt(-500)))

	_, err = BalanceChanges(lines, map[string]domain.AccountType{"cash": domain.Asset})
	assert.Error(t, err)
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
