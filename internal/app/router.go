package app

import (
	"context"
	"time"

	"github.com/storeforge/appcore/config"
	"github.com/storeforge/appcore/internal/http"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	runtime *RuntimeComponents,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	handlerCfg := http.HandlerConfig{
		Store:         runtime.Store,
		Initializer:   runtime.Initializer,
		Injector:      runtime.Injector,
		Permissions:   runtime.Permissions,
		Analytics:     runtime.Analytics,
		Push:          runtime.Push,
		Notifications: runtime.Notifications,
	}
	if dbComponents != nil {
		handlerCfg.Recorder = dbComponents.Recorder
		handlerCfg.AppRequests = dbComponents.AppRequestsRepo
	}

	handler := http.NewHandler(handlerCfg)
	healthHandler := http.NewHealthHandler()

	healthHandler.RegisterCircuitBreaker("asset_downloads", runtime.AssetsBreaker)
	if dbComponents != nil {
		healthHandler.RegisterCircuitBreaker("mongodb", dbComponents.MongoCircuitBreaker)
		healthHandler.RegisterChecker("mongodb", http.HealthCheckerFunc(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return dbComponents.DB.HealthCheck(ctx)
		}))
	}

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		RequestTimeout:    cfg.Server.RequestTimeout,
		EnableAuth:        cfg.Auth.Enabled,
		APIKeys:           cfg.Auth.APIKeys,
		EnableIdempotency: true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		AdminKeyHash:      cfg.Auth.AdminKeyHash,
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
