// internal/handlers/admin/pricing_admin_handler.go
package admin

import (
	"io"
	"net/http"

	domain "esim-pricing-service/internal/domain/pricing"
	"esim-pricing-service/internal/middleware"
	xerrors "esim-pricing-service/internal/pkg/errors"
	"esim-pricing-service/internal/pkg/response"
	"esim-pricing-service/internal/service/discount"
	"esim-pricing-service/internal/service/override"

	"github.com/gin-gonic/gin"
)

const maxImportBytes = 1 << 20

type PricingAdminHandler struct {
	overrideService *override.Service
	discountService *discount.Resolver
}

func NewPricingAdminHandler(overrideService *override.Service, discountService *discount.Resolver) *PricingAdminHandler {
	return &PricingAdminHandler{
		overrideService: overrideService,
		discountService: discountService,
	}
}

// ListOverrides returns the current override map (cache-backed).
func (h *PricingAdminHandler) ListOverrides(c *gin.Context) {
	overrides := h.overrideService.FetchAll(c.Request.Context())
	response.Success(c, http.StatusOK, "overrides retrieved", overrides)
}

// SetOverride upserts the override price for one plan. A price of zero or
// below clears the override.
func (h *PricingAdminHandler) SetOverride(c *gin.Context) {
	packageCode := c.Param("code")

	var req domain.SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	adminID, _ := middleware.GetAdminID(c)
	if err := h.overrideService.SetPrice(c.Request.Context(), packageCode, req.PriceUSD, adminID); err != nil {
		respondError(c, "failed to set override", err)
		return
	}

	response.Success(c, http.StatusOK, "override saved", nil)
}

// RemoveOverride clears the override for one plan.
func (h *PricingAdminHandler) RemoveOverride(c *gin.Context) {
	packageCode := c.Param("code")

	adminID, _ := middleware.GetAdminID(c)
	if err := h.overrideService.RemovePrice(c.Request.Context(), packageCode, adminID); err != nil {
		respondError(c, "failed to remove override", err)
		return
	}

	response.Success(c, http.StatusOK, "override removed", nil)
}

// ClearOverrides removes every override.
func (h *PricingAdminHandler) ClearOverrides(c *gin.Context) {
	adminID, _ := middleware.GetAdminID(c)
	if err := h.overrideService.ClearAll(c.Request.Context(), adminID); err != nil {
		respondError(c, "failed to clear overrides", err)
		return
	}

	response.Success(c, http.StatusOK, "overrides cleared", nil)
}

// ExportOverrides streams the override map as a JSON document.
func (h *PricingAdminHandler) ExportOverrides(c *gin.Context) {
	raw, err := h.overrideService.Export(c.Request.Context())
	if err != nil {
		respondError(c, "failed to export overrides", err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// ImportOverrides validates the posted JSON document and atomically
// replaces the whole override map.
func (h *PricingAdminHandler) ImportOverrides(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		response.ValidationError(c, "failed to read request body", err)
		return
	}

	adminID, _ := middleware.GetAdminID(c)
	result, err := h.overrideService.Import(c.Request.Context(), raw, adminID)
	if err != nil {
		respondError(c, "failed to import overrides", err)
		return
	}

	response.Success(c, http.StatusOK, "overrides imported", result)
}

// GetDiscountRules returns the current discount rule set.
func (h *PricingAdminHandler) GetDiscountRules(c *gin.Context) {
	rules := h.discountService.Rules(c.Request.Context())
	response.Success(c, http.StatusOK, "discount rules retrieved", rules)
}

// UpdateDiscountRules validates and replaces the discount rule set.
func (h *PricingAdminHandler) UpdateDiscountRules(c *gin.Context) {
	var req domain.UpdateRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	adminID, _ := middleware.GetAdminID(c)
	rules := domain.DiscountRules{Plans: req.Plans, Tiers: req.Tiers}
	if err := h.discountService.UpdateRules(c.Request.Context(), rules, adminID); err != nil {
		respondError(c, "failed to update discount rules", err)
		return
	}

	response.Success(c, http.StatusOK, "discount rules updated", nil)
}

func respondError(c *gin.Context, message string, err error) {
	switch {
	case xerrors.Is(err, xerrors.ErrAuthorization):
		response.Unauthorized(c, message)
	case xerrors.Is(err, xerrors.ErrValidation):
		response.ValidationError(c, message, err)
	case xerrors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, message)
	case xerrors.Is(err, xerrors.ErrUpstreamUnavailable):
		response.Error(c, http.StatusBadGateway, message, err)
	default:
		response.Error(c, http.StatusInternalServerError, message, err)
	}
}
