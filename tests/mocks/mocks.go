package mocks

import (
	"context"
	"time"

	"ipresolver/internal/model"
)

type MockRepository struct {
	SaveResolutionFunc     func(ctx context.Context, res model.Resolution) error
	RecentResolutionsFunc  func(ctx context.Context, limit int) ([]model.Resolution, error)
	PruneResolutionsFunc   func(ctx context.Context, olderThan time.Time) (int64, error)
	GetResolutionCountFunc func(ctx context.Context) (int64, error)
}

func (m *MockRepository) SaveResolution(ctx context.Context, res model.Resolution) error {
	return m.SaveResolutionFunc(ctx, res)
}

func (m *MockRepository) RecentResolutions(ctx context.Context, limit int) ([]model.Resolution, error) {
	return m.RecentResolutionsFunc(ctx, limit)
}

func (m *MockRepository) PruneResolutions(ctx context.Context, olderThan time.Time) (int64, error) {
	return m.PruneResolutionsFunc(ctx, olderThan)
}

func (m *MockRepository) GetResolutionCount(ctx context.Context) (int64, error) {
	return m.GetResolutionCountFunc(ctx)
}

type MockCache struct {
	SetResultFunc func(ctx context.Context, cidr string, result model.AddressResult) error
	GetResultFunc func(ctx context.Context, cidr string) (model.AddressResult, error)
}

func (m *MockCache) SetResult(ctx context.Context, cidr string, result model.AddressResult) error {
	return m.SetResultFunc(ctx, cidr, result)
}

func (m *MockCache) GetResult(ctx context.Context, cidr string) (model.AddressResult, error) {
	return m.GetResultFunc(ctx, cidr)
}
