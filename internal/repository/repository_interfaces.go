// Package repository provides interfaces for repository operations.
package repository

import (
	"context"

	"github.com/storeforge/appcore/internal/domain/model"
)

// AppRequestsRepositoryInterface defines the interface for app request
// repository operations.
type AppRequestsRepositoryInterface interface {
	Create(ctx context.Context, record *model.AppRequestRecord) error
	Latest(ctx context.Context) (*model.AppRequestRecord, error)
	List(ctx context.Context, opts model.AppRequestQueryOptions) ([]*model.AppRequestRecord, error)
	Count(ctx context.Context, opts model.AppRequestQueryOptions) (int64, error)
}
