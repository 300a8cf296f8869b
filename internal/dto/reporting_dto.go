package dto

import (
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

const reportDateLayout = "2006-01-02"

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	AccountType    string          `json:"accountType"`
	CurrencyCode   string          `json:"currencyCode"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	NetBalance     decimal.Decimal `json:"netBalance"`
	ForeignBalance decimal.Decimal `json:"foreignBalance"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	FromDate   string                    `json:"fromDate,omitempty"`
	ToDate     string                    `json:"toDate,omitempty"`
	Rows       []TrialBalanceRowResponse `json:"rows"`
	IsBalanced bool                      `json:"isBalanced"`
	Totals     struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	FromDate string                  `json:"fromDate,omitempty"`
	ToDate   string                  `json:"toDate,omitempty"`
	Revenue  []AccountAmountResponse `json:"revenue"`
	Expenses []AccountAmountResponse `json:"expenses"`
	Summary  struct {
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetProfit     decimal.Decimal `json:"netProfit"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		Difference       decimal.Decimal `json:"difference"`
		IsBalanced       bool            `json:"isBalanced"`
	} `json:"summary"`
}

// CurrencyDifferencesResponse wraps the unrealized gain report.
type CurrencyDifferencesResponse struct {
	AsOf         string                         `json:"asOf"`
	Rows         []domain.CurrencyDifferenceRow `json:"rows"`
	TotalGain    decimal.Decimal                `json:"totalGain"`
	MissingRates []string                       `json:"missingRates"`
}

// ToTrialBalanceResponse converts a trial balance report to its response DTO.
func ToTrialBalanceResponse(report *domain.TrialBalanceReport, period domain.DateRange) TrialBalanceResponse {
	var response TrialBalanceResponse
	if period.From != nil {
		response.FromDate = period.From.Format(reportDateLayout)
	}
	if period.To != nil {
		response.ToDate = period.To.Format(reportDateLayout)
	}
	response.Rows = make([]TrialBalanceRowResponse, len(report.Rows))
	for i, row := range report.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:      row.AccountID,
			AccountCode:    row.AccountCode,
			AccountName:    row.AccountName,
			AccountType:    string(row.AccountType),
			CurrencyCode:   row.CurrencyCode,
			TotalDebit:     row.TotalDebit,
			TotalCredit:    row.TotalCredit,
			NetBalance:     row.NetBalance,
			ForeignBalance: row.ForeignBalance,
		}
	}
	response.IsBalanced = report.IsBalanced
	response.Totals.Debit = report.TotalDebit
	response.Totals.Credit = report.TotalCredit
	return response
}

// ToProfitAndLossResponse converts a P&L report to its response DTO.
func ToProfitAndLossResponse(report *domain.PAndLReport, period domain.DateRange) ProfitAndLossResponse {
	var response ProfitAndLossResponse
	if period.From != nil {
		response.FromDate = period.From.Format(reportDateLayout)
	}
	if period.To != nil {
		response.ToDate = period.To.Format(reportDateLayout)
	}
	response.Revenue = toAccountAmountResponses(report.Revenue)
	response.Expenses = toAccountAmountResponses(report.Expenses)
	response.Summary.TotalRevenue = report.TotalRevenue
	response.Summary.TotalExpenses = report.TotalExpenses
	response.Summary.NetProfit = report.NetProfit
	return response
}

// ToBalanceSheetResponse converts a balance sheet to its response DTO.
func ToBalanceSheetResponse(report *domain.BalanceSheetReport, asOf string) BalanceSheetResponse {
	var response BalanceSheetResponse
	response.AsOf = asOf
	response.Assets = toAccountAmountResponses(report.Assets)
	response.Liabilities = toAccountAmountResponses(report.Liabilities)
	response.Equity = toAccountAmountResponses(report.Equity)
	response.Summary.TotalAssets = report.TotalAssets
	response.Summary.TotalLiabilities = report.TotalLiabilities
	response.Summary.TotalEquity = report.TotalEquity
	response.Summary.Difference = report.Difference
	response.Summary.IsBalanced = report.IsBalanced
	return response
}

// ToCurrencyDifferencesResponse converts the currency difference report.
func ToCurrencyDifferencesResponse(report *domain.CurrencyDifferenceReport, asOf string) CurrencyDifferencesResponse {
	return CurrencyDifferencesResponse{
		AsOf:         asOf,
		Rows:         report.Rows,
		TotalGain:    report.TotalGain,
		MissingRates: report.MissingRates,
	}
}

func toAccountAmountResponses(amounts []domain.AccountAmount) []AccountAmountResponse {
	res := make([]AccountAmountResponse, len(amounts))
	for i, a := range amounts {
		res[i] = AccountAmountResponse{
			AccountID: a.AccountID,
			Code:      a.Code,
			Name:      a.Name,
			Amount:    a.NetAmount,
		}
	}
	return res
}
