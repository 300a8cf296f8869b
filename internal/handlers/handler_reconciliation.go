package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Batch names, shared with ledgerctl.
const (
	BatchCashPayments = "cash-payments"
	BatchDuplicates   = "duplicates"
	BatchSourceLinks  = "source-links"
)

type batchFunc func(ctx context.Context, companyID string, userID string) (*domain.BatchResult, error)

// reconciliationHandler exposes the repair batches. Each batch is idempotent,
// so retrying a request is safe.
type reconciliationHandler struct {
	batches map[string]batchFunc
}

func newReconciliationHandler(rs portssvc.ReconciliationService) *reconciliationHandler {
	return &reconciliationHandler{
		batches: map[string]batchFunc{
			BatchCashPayments: rs.ReconcileMissingCashPayments,
			BatchDuplicates:   rs.RemoveDuplicateEntries,
			BatchSourceLinks:  rs.LinkSourceInvoices,
		},
	}
}

func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationService) {
	h := newReconciliationHandler(reconciliationService)
	rg.POST("/reconciliation/:batch", h.runBatch)
}

func (h *reconciliationHandler) runBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("batch")

	run, found := h.batches[name]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown reconciliation batch " + name})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("batch", name))
	logger.Info("Reconciliation batch started")

	result, err := run(c.Request.Context(), c.Param("company_id"), userID)
	if err != nil && result == nil {
		respondError(c, err, "Reconciliation batch failed")
		return
	}
	if err != nil {
		// stopped early: report what was already touched
		logger.Warn("Reconciliation batch stopped early",
			slog.Int("count", result.Count),
			slog.Int("scanned", result.Scanned),
			slog.String("error", err.Error()))
		res := dto.ToBatchResultResponse(name, result)
		res.Error = err.Error()
		c.JSON(statusFor(err), res)
		return
	}

	logger.Info("Reconciliation batch finished",
		slog.Int("count", result.Count),
		slog.Int("scanned", result.Scanned),
		slog.Int("failures", len(result.Failures)))
	c.JSON(http.StatusOK, dto.ToBatchResultResponse(name, result))
}
