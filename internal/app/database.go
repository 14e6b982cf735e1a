package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/storeforge/appcore/config"
	"github.com/storeforge/appcore/internal/circuitbreaker"
	"github.com/storeforge/appcore/internal/repository"
	"github.com/storeforge/appcore/internal/service"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                  *repository.MongoDB
	AppRequestsRepo     repository.AppRequestsRepositoryInterface
	Recorder            *service.Recorder
	MongoCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase initializes the MongoDB connection, the app requests
// repository behind its circuit breaker, and the async recorder.
// Returns nil if the database is disabled or the connection fails; the
// service runs without persistence in that case.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without persistence")
		return nil
	}

	log.Info().Msg("Connected to MongoDB")

	ttlDays := int(cfg.RequestsTTL.Hours() / 24)
	if err := db.SetRequestsTTL(context.Background(), ttlDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set app requests TTL index (may already exist)")
	}

	mongoCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-app-requests",
	})

	repo := repository.NewAppRequestsRepository(db)
	repoWithCB := repository.NewAppRequestsRepositoryWithCircuitBreaker(repo, mongoCB)

	recorder := service.NewRecorder(repoWithCB, service.DefaultRecorderConfig())

	return &DatabaseComponents{
		DB:                  db,
		AppRequestsRepo:     repoWithCB,
		Recorder:            recorder,
		MongoCircuitBreaker: mongoCB,
	}
}

// Close shuts down the recorder and the database connection.
func (d *DatabaseComponents) Close(ctx context.Context) {
	if d == nil {
		return
	}
	d.Recorder.Stop()
	if err := d.DB.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to close MongoDB connection")
	}
}
