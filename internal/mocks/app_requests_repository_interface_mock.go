// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/storeforge/appcore/internal/domain/model"
)

type MockAppRequestsRepositoryInterface struct {
	mock.Mock
}

func (m *MockAppRequestsRepositoryInterface) Create(ctx context.Context, record *model.AppRequestRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAppRequestsRepositoryInterface) Latest(ctx context.Context) (*model.AppRequestRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AppRequestRecord), args.Error(1)
}

func (m *MockAppRequestsRepositoryInterface) List(ctx context.Context, opts model.AppRequestQueryOptions) ([]*model.AppRequestRecord, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.AppRequestRecord), args.Error(1)
}

func (m *MockAppRequestsRepositoryInterface) Count(ctx context.Context, opts model.AppRequestQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}
