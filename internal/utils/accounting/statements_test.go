package accounting

import (
	"math/rand"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAccount struct {
	id, code, name string
	kind           domain.AccountType
	currency       string
}

var (
	cashAcc     = testAccount{"acc-cash", "1101", "Cash", domain.Asset, "MAD"}
	bankEURAcc  = testAccount{"acc-bank-eur", "1201", "Bank EUR", domain.Asset, "EUR"}
	payableAcc  = testAccount{"acc-payable", "2101", "Suppliers payable", domain.Liability, "MAD"}
	capitalAcc  = testAccount{"acc-capital", "3101", "Share capital", domain.Equity, "MAD"}
	salesAcc    = testAccount{"acc-sales", "4101", "Sales", domain.Revenue, "MAD"}
	purchaseAcc = testAccount{"acc-purchases", "5101", "Purchases", domain.Expense, "MAD"}
)

func posted(entry string, acc testAccount, debitAmt, creditAmt string) domain.PostedLine {
	return domain.PostedLine{
		EntryID:      entry,
		EntryDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		AccountID:    acc.id,
		AccountCode:  acc.code,
		AccountName:  acc.name,
		AccountType:  acc.kind,
		CurrencyCode: acc.currency,
		DebitAmount:  decimal.RequireFromString(debitAmt),
		CreditAmount: decimal.RequireFromString(creditAmt),
	}
}

func TestFoldTrialBalance(t *testing.T) {
	lines := []domain.PostedLine{
		posted("e1", capitalAcc, "0", "10000"),
		posted("e1", cashAcc, "10000", "0"),
		posted("e2", purchaseAcc, "500", "0"),
		posted("e2", payableAcc, "0", "500"),
		posted("e3", cashAcc, "0", "200"),
		posted("e3", payableAcc, "200", "0"),
	}

	report := FoldTrialBalance(lines)

	require.Len(t, report.Rows, 4)
	assert.Equal(t, []string{"1101", "2101", "3101", "5101"}, []string{
		report.Rows[0].AccountCode, report.Rows[1].AccountCode, report.Rows[2].AccountCode, report.Rows[3].AccountCode,
	})
	assert.True(t, report.Rows[0].NetBalance.Equal(decimal.NewFromInt(9800)))
	assert.True(t, report.Rows[1].NetBalance.Equal(decimal.NewFromInt(-300)))
	assert.True(t, report.TotalDebit.Equal(report.TotalCredit))
	assert.True(t, report.IsBalanced)
}

func TestFoldTrialBalance_ExactClosure(t *testing.T) {
	tests := []struct {
		name     string
		debit    string
		credit   string
		balanced bool
	}{
		{"equal totals", "100.50", "100.5", true},
		{"debit ahead by less than a unit", "100.50", "100", false},
		{"credit ahead by a cent", "100", "100.01", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := FoldTrialBalance([]domain.PostedLine{
				posted("e1", cashAcc, tt.debit, "0"),
				posted("e1", salesAcc, "0", tt.credit),
			})
			assert.Equal(t, tt.balanced, report.IsBalanced)
			assert.True(t, report.TotalDebit.Equal(decimal.RequireFromString(tt.debit)))
			assert.True(t, report.TotalCredit.Equal(decimal.RequireFromString(tt.credit)))
		})
	}
}

func TestFoldTrialBalance_Empty(t *testing.T) {
	report := FoldTrialBalance(nil)
	assert.NotNil(t, report.Rows)
	assert.Empty(t, report.Rows)
	assert.True(t, report.IsBalanced)
}

func TestPartitionProfitAndLoss(t *testing.T) {
	lines := []domain.PostedLine{
		posted("e1", cashAcc, "1200", "0"),
		posted("e1", salesAcc, "0", "1200"),
		posted("e2", purchaseAcc, "500", "0"),
		posted("e2", cashAcc, "0", "500"),
	}
	tb := FoldTrialBalance(lines)

	pl := PartitionProfitAndLoss(tb.Rows)

	require.Len(t, pl.Revenue, 1)
	require.Len(t, pl.Expenses, 1)
	assert.True(t, pl.Revenue[0].NetAmount.Equal(decimal.NewFromInt(1200)))
	assert.True(t, pl.Expenses[0].NetAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, pl.NetProfit.Equal(decimal.NewFromInt(700)))
}

func TestPartitionBalanceSheet_ClosesWithCurrentEarnings(t *testing.T) {
	lines := []domain.PostedLine{
		posted("e1", capitalAcc, "0", "10000"),
		posted("e1", cashAcc, "10000", "0"),
		posted("e2", cashAcc, "1200", "0"),
		posted("e2", salesAcc, "0", "1200"),
		posted("e3", purchaseAcc, "500", "0"),
		posted("e3", payableAcc, "0", "500"),
	}
	tb := FoldTrialBalance(lines)

	bs := PartitionBalanceSheet(tb.Rows, DefaultStatementTolerance)

	assert.True(t, bs.TotalAssets.Equal(decimal.NewFromInt(11200)))
	assert.True(t, bs.TotalLiabilities.Equal(decimal.NewFromInt(500)))
	assert.True(t, bs.TotalEquity.Equal(decimal.NewFromInt(10700)))
	require.Len(t, bs.Equity, 2)
	assert.Equal(t, domain.CurrentEarningsAccountID, bs.Equity[1].AccountID)
	assert.True(t, bs.IsBalanced)
	assert.True(t, bs.Difference.IsZero())
}

func TestPartitionBalanceSheet_ReportsImbalance(t *testing.T) {
	rows := []domain.TrialBalanceRow{
		{AccountID: cashAcc.id, AccountType: domain.Asset, NetBalance: decimal.NewFromInt(100)},
		{AccountID: capitalAcc.id, AccountType: domain.Equity, NetBalance: decimal.NewFromInt(-90)},
	}

	bs := PartitionBalanceSheet(rows, DefaultStatementTolerance)

	assert.False(t, bs.IsBalanced)
	assert.True(t, bs.Difference.Equal(decimal.NewFromInt(10)))
}

func TestStatements_RandomBalancedLedgerCloses(t *testing.T) {
	accounts := []testAccount{cashAcc, payableAcc, capitalAcc, salesAcc, purchaseAcc}
	rng := rand.New(rand.NewSource(99))
	for run := 0; run < 50; run++ {
		var lines []domain.PostedLine
		for e := 0; e < 40; e++ {
			amount := decimal.New(int64(1+rng.Intn(10_000_000)), -2).String()
			from := accounts[rng.Intn(len(accounts))]
			to := accounts[rng.Intn(len(accounts))]
			lines = append(lines, posted("e", from, amount, "0"), posted("e", to, "0", amount))
		}

		tb := FoldTrialBalance(lines)
		assert.True(t, tb.TotalDebit.Equal(tb.TotalCredit))

		bs := PartitionBalanceSheet(tb.Rows, DefaultStatementTolerance)
		assert.True(t, bs.IsBalanced, "difference %s", bs.Difference)
	}
}

func TestRevalueForeignBalances(t *testing.T) {
	foreign := decimal.NewFromInt(100)
	lines := []domain.PostedLine{
		func() domain.PostedLine {
			l := posted("e1", bankEURAcc, "1085", "0")
			l.ForeignAmount = &foreign
			return l
		}(),
		posted("e1", capitalAcc, "0", "1085"),
		{AccountID: "acc-usd", AccountCode: "1202", AccountType: domain.Asset, CurrencyCode: "USD", DebitAmount: decimal.NewFromInt(50), CreditAmount: decimal.Zero},
	}
	tb := FoldTrialBalance(lines)
	rates := map[string]domain.CurrencyRate{
		"EUR": {CurrencyCode: "EUR", RateToBase: decimal.RequireFromString("11.00"), Operator: domain.Multiply},
	}

	report := RevalueForeignBalances(tb.Rows, "MAD", rates, 2)

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.True(t, row.ForeignBalance.Equal(decimal.NewFromInt(100)))
	assert.True(t, row.BookedBalance.Equal(decimal.NewFromInt(1085)))
	assert.True(t, row.RevaluedBalance.Equal(decimal.NewFromInt(1100)))
	assert.True(t, row.UnrealizedGain.Equal(decimal.NewFromInt(15)))
	assert.True(t, report.TotalGain.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, []string{"USD"}, report.MissingRates)
}
