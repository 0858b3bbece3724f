// internal/handlers/pricing/pricing_handler.go
package pricing

import (
	"net/http"

	xerrors "esim-pricing-service/internal/pkg/errors"
	"esim-pricing-service/internal/pkg/response"
	service "esim-pricing-service/internal/service/pricing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PricingHandler struct {
	pricingService *service.Service
	logger         *zap.Logger
}

func NewPricingHandler(pricingService *service.Service, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
		logger:         logger,
	}
}

// GetDisplayPrice returns the resolved price of one plan in the requested
// currency. An unsupported currency falls back to USD, as the storefront
// must always render something.
func (h *PricingHandler) GetDisplayPrice(c *gin.Context) {
	packageCode := c.Param("code")
	if packageCode == "" {
		response.ValidationError(c, "package code is required", nil)
		return
	}
	currency := c.DefaultQuery("currency", "USD")

	price, err := h.pricingService.GetDisplayPrice(c.Request.Context(), packageCode, currency)
	if xerrors.Is(err, xerrors.ErrUnsupportedCurrency) {
		h.logger.Warn("unsupported display currency, falling back to USD",
			zap.String("currency", currency),
		)
		price, err = h.pricingService.GetDisplayPrice(c.Request.Context(), packageCode, "USD")
	}
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "plan not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to resolve price", err)
		return
	}

	response.Success(c, http.StatusOK, "price resolved", price)
}

// ListDisplayPrices returns every catalog plan priced in the requested
// currency.
func (h *PricingHandler) ListDisplayPrices(c *gin.Context) {
	currency := c.DefaultQuery("currency", "USD")

	prices, err := h.pricingService.ListDisplayPrices(c.Request.Context(), currency)
	if xerrors.Is(err, xerrors.ErrUnsupportedCurrency) {
		h.logger.Warn("unsupported display currency, falling back to USD",
			zap.String("currency", currency),
		)
		prices, err = h.pricingService.ListDisplayPrices(c.Request.Context(), "USD")
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to resolve prices", err)
		return
	}

	response.Success(c, http.StatusOK, "prices resolved", prices)
}
