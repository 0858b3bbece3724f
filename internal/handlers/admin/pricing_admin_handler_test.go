package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"esim-pricing-service/internal/middleware"
	"esim-pricing-service/internal/pkg/jwt"
	"esim-pricing-service/internal/repository/memory"
	"esim-pricing-service/internal/service/discount"
	"esim-pricing-service/internal/service/override"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *jwt.Manager, *memory.AdminSettingsRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewAdminSettingsRepository()
	overrideService := override.NewService(store, time.Minute, nil, nil)
	discountService := discount.NewResolver(store, time.Minute, nil)
	handler := NewPricingAdminHandler(overrideService, discountService)

	jwtManager := jwt.NewManager(jwt.Config{
		Secret:   "test-secret",
		Issuer:   "esim-pricing",
		Audience: "esim-admins",
		TTL:      time.Hour,
	})
	auth := middleware.NewAuthMiddleware(jwtManager)

	r := gin.New()
	admin := r.Group("/api/v1/admin/pricing")
	admin.Use(auth.AdminAuth())
	{
		admin.GET("/overrides", handler.ListOverrides)
		admin.PUT("/overrides/:code", handler.SetOverride)
		admin.DELETE("/overrides/:code", handler.RemoveOverride)
		admin.POST("/import", handler.ImportOverrides)
		admin.GET("/discounts", handler.GetDiscountRules)
	}
	return r, jwtManager, store
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRoutes_RequireBearerToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/v1/admin/pricing/overrides", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/v1/admin/pricing/overrides", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutes_RejectNonAdminRole(t *testing.T) {
	r, jwtManager, _ := newTestRouter(t)

	token, err := jwtManager.Sign("user-1", []string{"customer"})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodGet, "/api/v1/admin/pricing/overrides", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSetOverride_Authorized(t *testing.T) {
	r, jwtManager, store := newTestRouter(t)

	token, err := jwtManager.Sign("admin-1", []string{"admin"})
	require.NoError(t, err)

	body := []byte(`{"price_usd": 8.00}`)
	w := doRequest(t, r, http.MethodPut, "/api/v1/admin/pricing/overrides/EU7-5GB", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	persisted := store.Overrides()
	require.Contains(t, persisted, "EU7-5GB")
	assert.True(t, persisted["EU7-5GB"].Equal(decimal.RequireFromString("8")))

	entries := store.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "admin-1", entries[0].Actor)
}

func TestSetOverride_BadBody(t *testing.T) {
	r, jwtManager, _ := newTestRouter(t)

	token, err := jwtManager.Sign("admin-1", []string{"admin"})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodPut, "/api/v1/admin/pricing/overrides/EU7-5GB", token, []byte(`{`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportOverrides_RejectsInvalidDocument(t *testing.T) {
	r, jwtManager, store := newTestRouter(t)

	token, err := jwtManager.Sign("admin-1", []string{"super_admin"})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodPost, "/api/v1/admin/pricing/import", token, []byte(`{"A": 5, "B": -1}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `\"B\"`)
	assert.Empty(t, store.Overrides())
}

func TestImportOverrides_ReportsCounts(t *testing.T) {
	r, jwtManager, _ := newTestRouter(t)

	token, err := jwtManager.Sign("admin-1", []string{"super_admin"})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodPost, "/api/v1/admin/pricing/import", token, []byte(`{"A": 5, "B": 0}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Imported int `json:"imported"`
			Skipped  int `json:"skipped"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Imported)
	assert.Equal(t, 1, resp.Data.Skipped)
}
