package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/handlers"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
)

const (
	testCompanyID = "company-1"
	testUserID    = "user-1"
)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string
	token     string

	companies      *MockCompanyService
	accounts       *MockAccountService
	rates          *MockCurrencyRateService
	journal        *MockJournalService
	reporting      *MockReportingService
	reconciliation *MockReconciliationService
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		dto.RegisterValidators(v)
	}

	s.jwtSecret = "test-secret-key-that-is-long-enough"
	token, err := middleware.IssueToken(s.jwtSecret, testUserID, time.Hour)
	s.Require().NoError(err)
	s.token = token

	s.companies = new(MockCompanyService)
	s.accounts = new(MockAccountService)
	s.rates = new(MockCurrencyRateService)
	s.journal = new(MockJournalService)
	s.reporting = new(MockReportingService)
	s.reconciliation = new(MockReconciliationService)

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, &config.Config{JWTSecret: s.jwtSecret}, &portssvc.ServiceContainer{
		Company:        s.companies,
		Account:        s.accounts,
		CurrencyRate:   s.rates,
		Journal:        s.journal,
		Reporting:      s.reporting,
		Reconciliation: s.reconciliation,
	})
}

func (s *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, "/api/v1/companies/"+testCompanyID+path, reader)
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder, into any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

// --- Test Cases ---

func (s *HandlerTestSuite) TestHealthIsPublic() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestMissingTokenIsUnauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/companies/"+testCompanyID+"/accounts", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.accounts.AssertNotCalled(s.T(), "ListAccounts")
}

func (s *HandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1101", Name: "Cash", AccountType: domain.Asset}
	s.accounts.On("CreateAccount", mock.Anything, testCompanyID, req, testUserID).
		Return(&domain.Account{AccountID: "acc-1", CompanyID: testCompanyID, Code: "1101", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "SEK"}, nil).Once()

	w := s.do(http.MethodPost, "/accounts", req)
	s.Equal(http.StatusCreated, w.Code)

	var res dto.AccountResponse
	s.decode(w, &res)
	s.Equal("acc-1", res.AccountID)
	s.Equal("SEK", res.CurrencyCode)
	s.accounts.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestCreateAccount_BindingAndServiceErrors() {
	w := s.do(http.MethodPost, "/accounts", map[string]string{"code": "1101"})
	s.Equal(http.StatusBadRequest, w.Code)

	req := dto.CreateAccountRequest{Code: "1101", Name: "Cash", AccountType: domain.Asset}
	s.accounts.On("CreateAccount", mock.Anything, testCompanyID, req, testUserID).
		Return(nil, fmt.Errorf("%w: code 1101", apperrors.ErrDuplicate)).Once()
	w = s.do(http.MethodPost, "/accounts", req)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestGetAccount_NotFound() {
	s.accounts.On("GetAccountByID", mock.Anything, testCompanyID, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	w := s.do(http.MethodGet, "/accounts/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestListAccounts_DefaultPaging() {
	s.accounts.On("ListAccounts", mock.Anything, testCompanyID, 50, 0).
		Return([]domain.Account{{AccountID: "a"}, {AccountID: "b"}}, nil).Once()

	w := s.do(http.MethodGet, "/accounts", nil)
	s.Equal(http.StatusOK, w.Code)

	var res []dto.AccountResponse
	s.decode(w, &res)
	s.Len(res, 2)
}

func (s *HandlerTestSuite) TestWellKnownAccount_MissingIsUnprocessable() {
	s.accounts.On("FindWellKnown", mock.Anything, testCompanyID, domain.RolePrimaryCash).
		Return(nil, fmt.Errorf("%w: primary_cash", apperrors.ErrAccountNotFound)).Once()

	w := s.do(http.MethodGet, "/account-roles/primary_cash", nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *HandlerTestSuite) TestEnsureChildAccounts() {
	specs := []domain.ChildAccountSpec{{Key: "EUR", Name: "Payables EUR", CurrencyCode: "EUR"}}
	s.accounts.On("EnsureChildAccounts", mock.Anything, testCompanyID, "2101", specs, testUserID).
		Return([]domain.Account{{AccountID: "child", Code: "2101-EUR"}}, nil).Once()

	w := s.do(http.MethodPost, "/account-codes/2101/children", dto.EnsureChildAccountsRequest{
		Children: []dto.ChildAccountRequest{{CurrencyCode: "EUR", Name: "Payables EUR"}},
	})
	s.Equal(http.StatusCreated, w.Code)

	var res dto.EnsureChildAccountsResponse
	s.decode(w, &res)
	s.Require().Len(res.Created, 1)
	s.Equal("2101-EUR", res.Created[0].Code)
}

func (s *HandlerTestSuite) TestConvert() {
	s.rates.On("ConvertToBase", mock.Anything, testCompanyID, "EUR", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(100))
	})).Return(decimal.NewFromInt(1100), nil).Once()

	w := s.do(http.MethodGet, "/currency-rates/eur/convert?amount=100", nil)
	s.Equal(http.StatusOK, w.Code)

	var res dto.ConvertAmountResponse
	s.decode(w, &res)
	s.True(res.BaseAmount.Equal(decimal.NewFromInt(1100)))

	s.rates.On("ConvertToBase", mock.Anything, testCompanyID, "GBP", mock.Anything).
		Return(decimal.Zero, apperrors.ErrRateMissing).Once()
	w = s.do(http.MethodGet, "/currency-rates/GBP/convert?amount=1", nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodGet, "/currency-rates/EUR/convert?amount=abc", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestSetRate_RejectsBothForms() {
	one := decimal.NewFromInt(1)
	w := s.do(http.MethodPut, "/currency-rates", dto.SetCurrencyRateRequest{
		CurrencyCode: "EUR", Operator: domain.Multiply, Rate: &one, DisplayRate: &one,
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.rates.AssertNotCalled(s.T(), "SetRate")
}

func (s *HandlerTestSuite) journalRequest(debit, credit string) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Description: "Cash sale",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: "cash", DebitAmount: decimal.RequireFromString(debit)},
			{AccountID: "sales", CreditAmount: decimal.RequireFromString(credit)},
		},
	}
}

func (s *HandlerTestSuite) TestCreateJournalEntry() {
	s.journal.On("CreateBalancedEntry", mock.Anything, testCompanyID, mock.AnythingOfType("dto.CreateJournalEntryRequest"), testUserID).
		Return(&domain.JournalEntry{EntryID: "entry-1", Status: domain.Posted}, nil).Once()

	w := s.do(http.MethodPost, "/journal-entries", s.journalRequest("100", "100"))
	s.Equal(http.StatusCreated, w.Code)

	var res dto.JournalEntryResponse
	s.decode(w, &res)
	s.Equal("entry-1", res.EntryID)
	s.Equal(domain.Posted, res.Status)
}

func (s *HandlerTestSuite) TestCreateJournalEntry_Rejections() {
	// both sides on one line fails struct validation before the service
	bad := s.journalRequest("100", "100")
	bad.Lines[0].CreditAmount = decimal.NewFromInt(5)
	w := s.do(http.MethodPost, "/journal-entries", bad)
	s.Equal(http.StatusBadRequest, w.Code)

	s.journal.On("CreateBalancedEntry", mock.Anything, testCompanyID, mock.Anything, testUserID).
		Return(nil, fmt.Errorf("%w: debit 100 credit 99", apperrors.ErrUnbalancedEntry)).Once()
	w = s.do(http.MethodPost, "/journal-entries", s.journalRequest("100", "99"))
	s.Equal(http.StatusBadRequest, w.Code)
	s.journal.AssertNumberOfCalls(s.T(), "CreateBalancedEntry", 1)
}

func (s *HandlerTestSuite) TestListJournalEntries_PassesToken() {
	next := "page-2"
	s.journal.On("ListEntries", mock.Anything, testCompanyID, mock.MatchedBy(func(p dto.ListJournalEntriesParams) bool {
		return p.Limit == 2 && p.NextToken != nil && *p.NextToken == "page-1"
	})).Return([]domain.JournalEntry{{EntryID: "e1"}, {EntryID: "e2"}}, &next, nil).Once()

	w := s.do(http.MethodGet, "/journal-entries?limit=2&nextToken=page-1", nil)
	s.Equal(http.StatusOK, w.Code)

	var res dto.ListJournalEntriesResponse
	s.decode(w, &res)
	s.Len(res.Entries, 2)
	s.Require().NotNil(res.NextToken)
	s.Equal("page-2", *res.NextToken)
}

func (s *HandlerTestSuite) TestVoidJournalEntry() {
	s.journal.On("VoidEntry", mock.Anything, testCompanyID, "entry-1", testUserID).Return(nil).Once()
	s.journal.On("VoidEntry", mock.Anything, testCompanyID, "gone", testUserID).Return(apperrors.ErrNotFound).Once()

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/journal-entries/entry-1", nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/journal-entries/gone", nil).Code)
}

func (s *HandlerTestSuite) TestTrialBalance_Period() {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	s.reporting.On("TrialBalance", mock.Anything, testCompanyID, mock.MatchedBy(func(r domain.DateRange) bool {
		return r.From != nil && r.From.Equal(from) && r.To != nil && r.To.Equal(to)
	})).Return(&domain.TrialBalanceReport{IsBalanced: true}, nil).Once()

	w := s.do(http.MethodGet, "/reports/trial-balance?fromDate=2026-01-01&toDate=2026-01-31", nil)
	s.Equal(http.StatusOK, w.Code)

	var res dto.TrialBalanceResponse
	s.decode(w, &res)
	s.True(res.IsBalanced)
	s.Equal("2026-01-01", res.FromDate)
}

func (s *HandlerTestSuite) TestReports_BadDates() {
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/reports/trial-balance?fromDate=01/01/2026", nil).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/reports/profit-and-loss?fromDate=2026-02-01&toDate=2026-01-01", nil).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/reports/balance-sheet?asOf=yesterday", nil).Code)
	s.reporting.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestBalanceSheet() {
	asOf := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	s.reporting.On("BalanceSheet", mock.Anything, testCompanyID, asOf).
		Return(&domain.BalanceSheetReport{IsBalanced: true}, nil).Once()

	w := s.do(http.MethodGet, "/reports/balance-sheet?asOf=2026-01-31", nil)
	s.Equal(http.StatusOK, w.Code)

	var res dto.BalanceSheetResponse
	s.decode(w, &res)
	s.Equal("2026-01-31", res.AsOf)
	s.True(res.Summary.IsBalanced)
}

func (s *HandlerTestSuite) TestReconciliationBatches() {
	s.reconciliation.On("ReconcileMissingCashPayments", mock.Anything, testCompanyID, testUserID).
		Return(&domain.BatchResult{Count: 1, Scanned: 2, Message: "1 cash invoice(s) corrected"}, nil).Once()

	w := s.do(http.MethodPost, "/reconciliation/cash-payments", nil)
	s.Equal(http.StatusOK, w.Code)

	var res dto.BatchResultResponse
	s.decode(w, &res)
	s.Equal("cash-payments", res.Batch)
	s.Equal(1, res.Count)
	s.NotNil(res.Failures)

	s.reconciliation.On("LinkSourceInvoices", mock.Anything, testCompanyID, testUserID).
		Return(nil, fmt.Errorf("%w: company", apperrors.ErrForbidden)).Once()
	s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/reconciliation/source-links", nil).Code)

	s.Equal(http.StatusNotFound, s.do(http.MethodPost, "/reconciliation/everything", nil).Code)
	s.reconciliation.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestReconciliationBatch_StoppedEarlyKeepsCount() {
	partial := &domain.BatchResult{Count: 2, Scanned: 3, Message: "Deleted 2 duplicate entries across 3 invoices"}
	s.reconciliation.On("RemoveDuplicateEntries", mock.Anything, testCompanyID, testUserID).
		Return(partial, context.DeadlineExceeded).Once()

	w := s.do(http.MethodPost, "/reconciliation/duplicates", nil)
	s.Equal(http.StatusGatewayTimeout, w.Code)

	var res dto.BatchResultResponse
	s.decode(w, &res)
	s.Equal("duplicates", res.Batch)
	s.Equal(2, res.Count)
	s.Equal(3, res.Scanned)
	s.Contains(res.Error, "deadline exceeded")
	s.reconciliation.AssertExpectations(s.T())
}
