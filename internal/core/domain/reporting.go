package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostedLine is one line of a POSTED entry joined with its account, the raw
// input of every report fold.
type PostedLine struct {
	EntryID       string
	EntryDate     time.Time
	AccountID     string
	AccountCode   string
	AccountName   string
	AccountType   AccountType
	CurrencyCode  string
	DebitAmount   decimal.Decimal
	CreditAmount  decimal.Decimal
	ForeignAmount *decimal.Decimal
}

// TrialBalanceRow represents a single row in a trial balance report.
// NetBalance is positive for a net debit.
type TrialBalanceRow struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	AccountType    AccountType     `json:"accountType"`
	CurrencyCode   string          `json:"currencyCode"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	NetBalance     decimal.Decimal `json:"netBalance"`
	ForeignBalance decimal.Decimal `json:"foreignBalance"` // Net foreign amount, zero for base currency accounts
}

// TrialBalanceReport is the folded trial balance with its totals.
type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss report
type PAndLReport struct {
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"` // Σ|revenue| − Σ|expense|
}

// CurrentEarningsAccountID identifies the synthetic equity line carrying
// undistributed profit on the balance sheet.
const CurrentEarningsAccountID = "current-earnings"

// BalanceSheetReport represents a balance sheet report
type BalanceSheetReport struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	Difference       decimal.Decimal `json:"difference"` // assets − (liabilities + equity)
	IsBalanced       bool            `json:"isBalanced"`
}

// CurrencyDifferenceRow is the unrealized gain or loss of one foreign-currency account.
type CurrencyDifferenceRow struct {
	AccountID       string          `json:"accountID"`
	AccountCode     string          `json:"accountCode"`
	AccountName     string          `json:"accountName"`
	CurrencyCode    string          `json:"currencyCode"`
	ForeignBalance  decimal.Decimal `json:"foreignBalance"`
	BookedBalance   decimal.Decimal `json:"bookedBalance"`   // Base currency, as posted
	RevaluedBalance decimal.Decimal `json:"revaluedBalance"` // Base currency at the current rate
	UnrealizedGain  decimal.Decimal `json:"unrealizedGain"`  // Revalued − booked
}

// CurrencyDifferenceReport is computed on demand and never persisted.
type CurrencyDifferenceReport struct {
	Rows         []CurrencyDifferenceRow `json:"rows"`
	TotalGain    decimal.Decimal         `json:"totalGain"`
	MissingRates []string                `json:"missingRates"` // Currencies excluded because no rate is stored
}
