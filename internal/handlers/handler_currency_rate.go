package handlers

import (
	"net/http"
	"strings"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// currencyRateHandler handles stored exchange rates and conversions.
type currencyRateHandler struct {
	rateService portssvc.CurrencyRateSvcFacade
}

func newCurrencyRateHandler(rs portssvc.CurrencyRateSvcFacade) *currencyRateHandler {
	return &currencyRateHandler{rateService: rs}
}

func registerCurrencyRateRoutes(rg *gin.RouterGroup, rateService portssvc.CurrencyRateSvcFacade) {
	h := newCurrencyRateHandler(rateService)

	rates := rg.Group("/currency-rates")
	{
		rates.PUT("", h.setRate)
		rates.GET("", h.listRates)
		rates.GET("/:currency", h.getRate)
		rates.GET("/:currency/convert", h.convert)
	}
}

func toRateResponse(rate *domain.CurrencyRate) dto.CurrencyRateResponse {
	display, err := accounting.DisplayRate(rate.RateToBase, rate.Operator)
	if err != nil {
		display = decimal.Zero
	}
	return dto.ToCurrencyRateResponse(rate, display)
}

func (h *currencyRateHandler) setRate(c *gin.Context) {
	var req dto.SetCurrencyRateRequest
	if !bindJSON(c, &req, "SetRate") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rate, err := h.rateService.SetRate(c.Request.Context(), c.Param("company_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to set currency rate")
		return
	}
	c.JSON(http.StatusOK, toRateResponse(rate))
}

func (h *currencyRateHandler) listRates(c *gin.Context) {
	rates, err := h.rateService.ListRates(c.Request.Context(), c.Param("company_id"))
	if err != nil {
		respondError(c, err, "Failed to list currency rates")
		return
	}
	res := make([]dto.CurrencyRateResponse, len(rates))
	for i := range rates {
		res[i] = toRateResponse(&rates[i])
	}
	c.JSON(http.StatusOK, res)
}

func (h *currencyRateHandler) getRate(c *gin.Context) {
	rate, err := h.rateService.GetRate(c.Request.Context(), c.Param("company_id"), c.Param("currency"))
	if err != nil {
		respondError(c, err, "Failed to retrieve currency rate")
		return
	}
	c.JSON(http.StatusOK, toRateResponse(rate))
}

// convert answers GET /currency-rates/{currency}/convert?amount=12.50
func (h *currencyRateHandler) convert(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a decimal number"})
		return
	}

	currency := strings.ToUpper(c.Param("currency"))
	base, err := h.rateService.ConvertToBase(c.Request.Context(), c.Param("company_id"), currency, amount)
	if err != nil {
		respondError(c, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, dto.ConvertAmountResponse{CurrencyCode: currency, Amount: amount, BaseAmount: base})
}
