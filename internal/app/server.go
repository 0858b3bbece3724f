// internal/app/server.go
package app

import (
	"context"
	"fmt"

	"esim-pricing-service/internal/config"
	"esim-pricing-service/internal/db"
	currencydom "esim-pricing-service/internal/domain/currency"
	"esim-pricing-service/internal/domain/plan"
	pricingdom "esim-pricing-service/internal/domain/pricing"
	"esim-pricing-service/internal/events"
	adminHandler "esim-pricing-service/internal/handlers/admin"
	eventsHandler "esim-pricing-service/internal/handlers/events"
	pricingHandler "esim-pricing-service/internal/handlers/pricing"
	"esim-pricing-service/internal/middleware"
	"esim-pricing-service/internal/pkg/jwt"
	"esim-pricing-service/internal/repository/exchange"
	"esim-pricing-service/internal/repository/memory"
	"esim-pricing-service/internal/repository/postgres"
	"esim-pricing-service/internal/repository/redisstore"
	currencysvc "esim-pricing-service/internal/service/currency"
	"esim-pricing-service/internal/service/discount"
	"esim-pricing-service/internal/service/override"
	pricingsvc "esim-pricing-service/internal/service/pricing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- Stores -----
	settingsStore, catalog, err := s.buildStores(ctx)
	if err != nil {
		return err
	}
	rateSource := s.buildRateSource()

	// ----- JWT Manager -----
	jwtSecret := s.cfg.JWT.Secret
	if jwtSecret == "" {
		if !s.cfg.DevMode {
			return fmt.Errorf("JWT_SECRET is required outside dev mode")
		}
		jwtSecret = "dev-secret"
		logger.Warn("JWT_SECRET not set, using dev default")
	}
	jwtCfg := s.cfg.JWT
	jwtCfg.Secret = jwtSecret
	jwtManager := jwt.NewManager(jwtCfg)

	// ----- Events Hub -----
	hub := events.NewHub(logger)
	go hub.Run(ctx)

	// ----- Services -----
	overrideService := override.NewService(settingsStore, s.cfg.CacheTTL, hub, logger)
	discountService := discount.NewResolver(settingsStore, s.cfg.CacheTTL, logger)
	converter := currencysvc.NewConverter(rateSource, s.cfg.CacheTTL, logger)
	pricingService := pricingsvc.NewService(catalog, overrideService, discountService, converter, logger)

	// ----- Handlers -----
	pricingHandlerInst := pricingHandler.NewPricingHandler(pricingService, logger)
	adminHandlerInst := adminHandler.NewPricingAdminHandler(overrideService, discountService)
	wsHandlerInst := eventsHandler.NewWSHandler(hub, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		PricingHandler: pricingHandlerInst,
		AdminHandler:   adminHandlerInst,
		WSHandler:      wsHandlerInst,
		AuthMiddleware: authMiddleware,
		JWTManager:     jwtManager,
		DevMode:        s.cfg.DevMode,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	logger.Info("server starting", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}

func (s *Server) buildStores(ctx context.Context) (pricingdom.SettingsStore, plan.Catalog, error) {
	if s.cfg.DevMode {
		s.logger.Warn("dev mode: using in-memory stores")
		return memory.NewAdminSettingsRepository(), memory.NewPlanCatalogRepository(devPlans()...), nil
	}

	pool, err := postgres.Connect(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	catalog := postgres.NewPlanCatalogRepository(pool)

	switch s.cfg.SettingsBackend {
	case "redis":
		redisClient, err := db.NewRedisClient(db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			DB:       0,
			PoolSize: 10,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewAdminSettingsRepository(redisClient), catalog, nil
	case "postgres":
		return postgres.NewAdminSettingsRepository(pool), catalog, nil
	default:
		return nil, nil, fmt.Errorf("unknown settings backend %q", s.cfg.SettingsBackend)
	}
}

func (s *Server) buildRateSource() currencydom.Source {
	if s.cfg.RatesURL == "" {
		s.logger.Warn("RATES_URL not set, using static exchange rates")
		return exchange.NewStaticSource(defaultRates())
	}
	return exchange.NewHTTPSource(s.cfg.RatesURL, s.cfg.RatesTimeout)
}

func defaultRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.92"),
		"GBP": decimal.RequireFromString("0.79"),
		"JPY": decimal.RequireFromString("155"),
		"CNY": decimal.RequireFromString("7.25"),
		"AUD": decimal.RequireFromString("1.52"),
		"CAD": decimal.RequireFromString("1.36"),
		"CHF": decimal.RequireFromString("0.88"),
		"KES": decimal.RequireFromString("129"),
		"SEK": decimal.RequireFromString("10.6"),
	}
}

func devPlans() []plan.Plan {
	return []plan.Plan{
		{
			PackageCode:  "EU7-5GB",
			Name:         "Europe 5GB / 7 Days",
			BasePriceUSD: decimal.RequireFromString("10.00"),
			VolumeBytes:  5 << 30,
			Duration:     7,
			DurationUnit: plan.DurationDay,
		},
		{
			PackageCode:  "US30-20GB",
			Name:         "USA 20GB / 30 Days",
			BasePriceUSD: decimal.RequireFromString("25.00"),
			VolumeBytes:  20 << 30,
			Duration:     30,
			DurationUnit: plan.DurationDay,
		},
		{
			PackageCode:  "GLOBAL-UNL-10D",
			Name:         "Global Unlimited / 10 Days",
			BasePriceUSD: decimal.RequireFromString("2.00"),
			VolumeBytes:  plan.VolumeUnlimited,
			Duration:     10,
			DurationUnit: plan.DurationDay,
		},
	}
}
