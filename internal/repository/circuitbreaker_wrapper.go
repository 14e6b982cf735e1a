// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"
	"errors"

	"github.com/storeforge/appcore/internal/circuitbreaker"
	"github.com/storeforge/appcore/internal/domain/model"
)

// AppRequestsRepositoryWithCircuitBreaker wraps AppRequestsRepository with
// circuit breaker protection.
type AppRequestsRepositoryWithCircuitBreaker struct {
	repo           *AppRequestsRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewAppRequestsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewAppRequestsRepositoryWithCircuitBreaker(repo *AppRequestsRepository, cb *circuitbreaker.CircuitBreaker) *AppRequestsRepositoryWithCircuitBreaker {
	return &AppRequestsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores an app request record with circuit breaker protection.
// If the circuit is open, the write is silently dropped: persistence is an
// audit trail, not part of the injection contract.
func (r *AppRequestsRepositoryWithCircuitBreaker) Create(ctx context.Context, record *model.AppRequestRecord) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, record)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Latest returns the most recent record with circuit breaker protection.
// An empty collection is not a storage failure and does not count against
// the breaker.
func (r *AppRequestsRepositoryWithCircuitBreaker) Latest(ctx context.Context) (*model.AppRequestRecord, error) {
	var result *model.AppRequestRecord
	var notFound bool
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Latest(ctx)
		if errors.Is(cbErr, ErrNoAppRequests) {
			notFound = true
			return nil
		}
		return cbErr
	})
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, ErrNoAppRequests
	}
	return result, nil
}

// List queries stored records with circuit breaker protection.
func (r *AppRequestsRepositoryWithCircuitBreaker) List(ctx context.Context, opts model.AppRequestQueryOptions) ([]*model.AppRequestRecord, error) {
	var result []*model.AppRequestRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.List(ctx, opts)
		return cbErr
	})
	return result, err
}

// Count counts stored records with circuit breaker protection.
func (r *AppRequestsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts model.AppRequestQueryOptions) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Count(ctx, opts)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *AppRequestsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
