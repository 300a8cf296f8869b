package accounting

import (
	"sort"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultStatementTolerance bounds the acceptable balance sheet difference.
var DefaultStatementTolerance = decimal.NewFromInt(1)

// FoldTrialBalance groups posted lines by account. Rows are sorted by account code.
// The report is balanced only when total debits equal total credits exactly.
func FoldTrialBalance(lines []domain.PostedLine) domain.TrialBalanceReport {
	byAccount := make(map[string]*domain.TrialBalanceRow)
	for _, line := range lines {
		row, ok := byAccount[line.AccountID]
		if !ok {
			row = &domain.TrialBalanceRow{
				AccountID:    line.AccountID,
				AccountCode:  line.AccountCode,
				AccountName:  line.AccountName,
				AccountType:  line.AccountType,
				CurrencyCode: line.CurrencyCode,
			}
			byAccount[line.AccountID] = row
		}
		row.TotalDebit = row.TotalDebit.Add(line.DebitAmount)
		row.TotalCredit = row.TotalCredit.Add(line.CreditAmount)
		if line.ForeignAmount != nil {
			if line.DebitAmount.IsPositive() {
				row.ForeignBalance = row.ForeignBalance.Add(*line.ForeignAmount)
			} else {
				row.ForeignBalance = row.ForeignBalance.Sub(*line.ForeignAmount)
			}
		}
	}

	report := domain.TrialBalanceReport{
		Rows:        make([]domain.TrialBalanceRow, 0, len(byAccount)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, row := range byAccount {
		row.NetBalance = row.TotalDebit.Sub(row.TotalCredit)
		report.TotalDebit = report.TotalDebit.Add(row.TotalDebit)
		report.TotalCredit = report.TotalCredit.Add(row.TotalCredit)
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		if report.Rows[i].AccountCode != report.Rows[j].AccountCode {
			return report.Rows[i].AccountCode < report.Rows[j].AccountCode
		}
		return report.Rows[i].AccountID < report.Rows[j].AccountID
	})
	report.IsBalanced = report.TotalDebit.Equal(report.TotalCredit)
	return report
}

// PartitionProfitAndLoss splits trial balance rows by their stored account type.
// Revenue rows carry credit − debit, expense rows debit − credit.
func PartitionProfitAndLoss(rows []domain.TrialBalanceRow) domain.PAndLReport {
	report := domain.PAndLReport{
		Revenue:       []domain.AccountAmount{},
		Expenses:      []domain.AccountAmount{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, row := range rows {
		switch row.AccountType {
		case domain.Revenue:
			amount := row.NetBalance.Neg()
			report.Revenue = append(report.Revenue, toAccountAmount(row, amount))
			report.TotalRevenue = report.TotalRevenue.Add(amount.Abs())
		case domain.Expense:
			amount := row.NetBalance
			report.Expenses = append(report.Expenses, toAccountAmount(row, amount))
			report.TotalExpenses = report.TotalExpenses.Add(amount.Abs())
		}
	}
	report.NetProfit = report.TotalRevenue.Sub(report.TotalExpenses)
	return report
}

// PartitionBalanceSheet builds a balance sheet from cumulative trial balance rows.
// Profit not yet closed into equity is reported as a synthetic equity line so the
// sheet closes; any remaining difference is reported, never absorbed.
func PartitionBalanceSheet(rows []domain.TrialBalanceRow, tolerance decimal.Decimal) domain.BalanceSheetReport {
	report := domain.BalanceSheetReport{
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	earnings := decimal.Zero
	for _, row := range rows {
		switch row.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, toAccountAmount(row, row.NetBalance))
			report.TotalAssets = report.TotalAssets.Add(row.NetBalance)
		case domain.Liability:
			amount := row.NetBalance.Neg()
			report.Liabilities = append(report.Liabilities, toAccountAmount(row, amount))
			report.TotalLiabilities = report.TotalLiabilities.Add(amount)
		case domain.Equity:
			amount := row.NetBalance.Neg()
			report.Equity = append(report.Equity, toAccountAmount(row, amount))
			report.TotalEquity = report.TotalEquity.Add(amount)
		case domain.Revenue, domain.Expense:
			earnings = earnings.Sub(row.NetBalance)
		}
	}
	if !earnings.IsZero() {
		report.Equity = append(report.Equity, domain.AccountAmount{
			AccountID: domain.CurrentEarningsAccountID,
			Name:      "Current period earnings",
			NetAmount: earnings,
		})
		report.TotalEquity = report.TotalEquity.Add(earnings)
	}
	report.Difference = report.TotalAssets.Sub(report.TotalLiabilities.Add(report.TotalEquity))
	report.IsBalanced = report.Difference.Abs().LessThan(tolerance)
	return report
}

// RevalueForeignBalances computes the unrealized gain of each account held in a
// currency other than base. Currencies with no rate are listed, not defaulted.
func RevalueForeignBalances(rows []domain.TrialBalanceRow, baseCurrency string, rates map[string]domain.CurrencyRate, places int32) domain.CurrencyDifferenceReport {
	report := domain.CurrencyDifferenceReport{
		Rows:         []domain.CurrencyDifferenceRow{},
		TotalGain:    decimal.Zero,
		MissingRates: []string{},
	}
	missing := make(map[string]struct{})
	for _, row := range rows {
		if row.CurrencyCode == "" || row.CurrencyCode == baseCurrency {
			continue
		}
		rate, ok := rates[row.CurrencyCode]
		if !ok {
			missing[row.CurrencyCode] = struct{}{}
			continue
		}
		revalued, err := ToBase(row.ForeignBalance, rate.RateToBase, rate.Operator)
		if err != nil {
			missing[row.CurrencyCode] = struct{}{}
			continue
		}
		revalued = revalued.Round(places)
		gain := revalued.Sub(row.NetBalance).Round(places)
		report.Rows = append(report.Rows, domain.CurrencyDifferenceRow{
			AccountID:       row.AccountID,
			AccountCode:     row.AccountCode,
			AccountName:     row.AccountName,
			CurrencyCode:    row.CurrencyCode,
			ForeignBalance:  row.ForeignBalance,
			BookedBalance:   row.NetBalance,
			RevaluedBalance: revalued,
			UnrealizedGain:  gain,
		})
		report.TotalGain = report.TotalGain.Add(gain)
	}
	for code := range missing {
		report.MissingRates = append(report.MissingRates, code)
	}
	sort.Strings(report.MissingRates)
	return report
}

func toAccountAmount(row domain.TrialBalanceRow, amount decimal.Decimal) domain.AccountAmount {
	return domain.AccountAmount{
		AccountID: row.AccountID,
		Code:      row.AccountCode,
		Name:      row.AccountName,
		NetAmount: amount,
	}
}
