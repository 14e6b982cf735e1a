package app

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/storeforge/appcore/config"
	"github.com/storeforge/appcore/internal/http"
	"github.com/storeforge/appcore/internal/injector"
	"github.com/storeforge/appcore/internal/repository"
)

// InitializeApp creates and wires all application dependencies.
// This is the main orchestration function that initializes all components.
func InitializeApp(cfg config.Config) (*gin.Engine, *DatabaseComponents) {
	// Initialize logger first (needed by other components)
	InitializeLogger()

	// Initialize the configuration runtime (store, managers, initializer)
	runtime := InitializeRuntime(cfg)

	// Initialize database components (MongoDB repository and async recorder)
	dbComponents := InitializeDatabase(cfg.Database)

	// Replay the last stored tenant request so a restart comes back with the
	// previous configuration instead of an empty store
	restoreLatestAppRequest(runtime, dbComponents)

	// Initialize router components (handlers and configuration)
	routerComponents := InitializeRouter(runtime, dbComponents, cfg)

	router := http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config)
	return router, dbComponents
}

// restoreLatestAppRequest injects the most recently persisted app request, if
// any, into the configuration store.
func restoreLatestAppRequest(runtime *RuntimeComponents, dbComponents *DatabaseComponents) {
	if dbComponents == nil || dbComponents.AppRequestsRepo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record, err := dbComponents.AppRequestsRepo.Latest(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNoAppRequests) {
			log.Warn().Err(err).Msg("Failed to load stored app request")
		}
		return
	}

	req := injector.AppRequest{
		AppName: record.AppName,
		LogoURL: record.LogoURL,
		Colors:  record.Colors,
		Request: record.Request,
	}
	if errs := runtime.Injector.Inject(ctx, req); len(errs) > 0 {
		log.Warn().
			Str("app_name", record.AppName).
			Int("stage_errors", len(errs)).
			Msg("Restored stored app request with stage errors")
		return
	}
	log.Info().Str("app_name", record.AppName).Msg("Restored stored app request")
}
