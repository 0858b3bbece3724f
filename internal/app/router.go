// internal/app/router.go
package app

import (
	"net/http"

	adminHandler "esim-pricing-service/internal/handlers/admin"
	eventsHandler "esim-pricing-service/internal/handlers/events"
	pricingHandler "esim-pricing-service/internal/handlers/pricing"
	"esim-pricing-service/internal/middleware"
	"esim-pricing-service/internal/pkg/jwt"
	"esim-pricing-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	PricingHandler *pricingHandler.PricingHandler
	AdminHandler   *adminHandler.PricingAdminHandler
	WSHandler      *eventsHandler.WSHandler
	AuthMiddleware *middleware.AuthMiddleware
	JWTManager     *jwt.Manager
	DevMode        bool
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws/pricing", h.WSHandler.HandleConnection)

	// ==================== Public Pricing ====================
	pricing := api.Group("/pricing")
	{
		pricing.GET("/plans", h.PricingHandler.ListDisplayPrices)
		pricing.GET("/plans/:code", h.PricingHandler.GetDisplayPrice)
	}

	// ==================== Admin Pricing ====================
	admin := api.Group("/admin/pricing")
	admin.Use(h.AuthMiddleware.AdminAuth())
	{
		admin.GET("/overrides", h.AdminHandler.ListOverrides)
		admin.PUT("/overrides/:code", h.AdminHandler.SetOverride)
		admin.DELETE("/overrides/:code", h.AdminHandler.RemoveOverride)
		admin.DELETE("/overrides", h.AdminHandler.ClearOverrides)
		admin.GET("/export", h.AdminHandler.ExportOverrides)
		admin.POST("/import", h.AdminHandler.ImportOverrides)
		admin.GET("/discounts", h.AdminHandler.GetDiscountRules)
		admin.PUT("/discounts", h.AdminHandler.UpdateDiscountRules)
	}

	// ==================== Dev Token ====================
	// Dev mode only: issues an admin token so the write paths can be
	// exercised without the upstream identity service.
	if h.DevMode {
		api.POST("/auth/dev-token", func(c *gin.Context) {
			token, err := h.JWTManager.Sign("dev-admin", []string{"super_admin"})
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "failed to sign token", err)
				return
			}
			response.Success(c, http.StatusOK, "dev token issued", gin.H{"token": token})
		})
		logger.Warn("dev token endpoint enabled")
	}
}
