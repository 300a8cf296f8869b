package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers routes related to accounts under a company group.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:account_id", h.getAccount)
	}

	codes := rg.Group("/account-codes/:code")
	{
		codes.GET("", h.getAccountByCode)
		codes.POST("/children", h.ensureChildAccounts)
	}

	roles := rg.Group("/account-roles/:role")
	{
		roles.GET("", h.getWellKnownAccount)
		roles.PUT("", h.setRoleMapping)
	}
}

// createAccount adds an account to the company's chart.
//
// POST /companies/{company_id}/accounts
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateAccountRequest
	if !bindJSON(c, &req, "CreateAccount") {
		return
	}
	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create account",
		slog.String("code", req.Code),
		slog.String("account_type", string(req.AccountType)))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("company_id"), c.Param("account_id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccountByCode(c *gin.Context) {
	account, err := h.accountService.FindByCode(c.Request.Context(), c.Param("company_id"), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts returns a page of accounts ordered by code.
//
// GET /companies/{company_id}/accounts?limit=&offset=
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("company_id"), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}

	logger.Info("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// ensureChildAccounts creates the missing per-currency children of the
// account holding {code}. Only newly created children are returned.
func (h *accountHandler) ensureChildAccounts(c *gin.Context) {
	var req dto.EnsureChildAccountsRequest
	if !bindJSON(c, &req, "EnsureChildAccounts") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	created, err := h.accountService.EnsureChildAccounts(c.Request.Context(), c.Param("company_id"), c.Param("code"), req.ToChildAccountSpecs(), userID)
	if err != nil {
		respondError(c, err, "Failed to ensure child accounts")
		return
	}

	status := http.StatusOK
	if len(created) > 0 {
		status = http.StatusCreated
	}
	c.JSON(status, dto.EnsureChildAccountsResponse{Created: dto.ToListAccountResponse(created)})
}

func (h *accountHandler) getWellKnownAccount(c *gin.Context) {
	role := domain.AccountRole(c.Param("role"))
	account, err := h.accountService.FindWellKnown(c.Request.Context(), c.Param("company_id"), role)
	if err != nil {
		respondError(c, err, "Failed to resolve account role")
		return
	}
	c.JSON(http.StatusOK, dto.AccountRoleResponse{Role: role, Account: dto.ToAccountResponse(account)})
}

func (h *accountHandler) setRoleMapping(c *gin.Context) {
	var req dto.SetAccountRoleRequest
	if !bindJSON(c, &req, "SetRoleMapping") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	role := domain.AccountRole(c.Param("role"))
	account, err := h.accountService.SetRoleMapping(c.Request.Context(), c.Param("company_id"), role, req.AccountCode, userID)
	if err != nil {
		respondError(c, err, "Failed to set account role")
		return
	}
	c.JSON(http.StatusOK, dto.AccountRoleResponse{Role: role, Account: dto.ToAccountResponse(account)})
}
