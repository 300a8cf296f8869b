package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	// Routes for reports are nested under a specific company
	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/profit-and-loss", h.getProfitAndLoss)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/currency-differences", h.getCurrencyDifferences)
	}
}

// periodQuery reads the optional fromDate/toDate bounds.
func periodQuery(c *gin.Context) (domain.DateRange, bool) {
	from, err := dateQuery(c, "fromDate")
	if err == nil {
		var to *time.Time
		to, err = dateQuery(c, "toDate")
		if err == nil {
			if from != nil && to != nil && to.Before(*from) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "toDate must not be before fromDate"})
				return domain.DateRange{}, false
			}
			return domain.DateRange{From: from, To: to}, true
		}
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid report period", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
	return domain.DateRange{}, false
}

// asOfQuery reads asOf, defaulting to today.
func asOfQuery(c *gin.Context) (time.Time, string, bool) {
	asOfStr := c.DefaultQuery("asOf", time.Now().UTC().Format(dateLayout))
	asOf, err := time.Parse(dateLayout, asOfStr)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid asOf date format", slog.String("asOf", asOfStr))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return time.Time{}, "", false
	}
	return asOf, asOfStr, true
}

// getTrialBalance folds posted lines within the optional period.
// GET /companies/{company_id}/reports/trial-balance?fromDate=&toDate=
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("company_id"), period)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance report")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Trial balance report generated successfully",
		slog.Int("row_count", len(report.Rows)),
		slog.Bool("balanced", report.IsBalanced))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report, period))
}

func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), c.Param("company_id"), period)
	if err != nil {
		respondError(c, err, "Failed to generate profit and loss report")
		return
	}
	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report, period))
}

func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	asOf, asOfStr, ok := asOfQuery(c)
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), c.Param("company_id"), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate balance sheet report")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report, asOfStr))
}

func (h *reportingHandler) getCurrencyDifferences(c *gin.Context) {
	asOf, asOfStr, ok := asOfQuery(c)
	if !ok {
		return
	}

	report, err := h.reportingService.CurrencyDifferences(c.Request.Context(), c.Param("company_id"), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate currency differences report")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyDifferencesResponse(report, asOfStr))
}
