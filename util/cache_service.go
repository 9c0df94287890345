// util/cache_service.go

package util

import (
	"context"

	"github.com/stationgate/api/db"
	"github.com/stationgate/api/model"
)

// CacheService wraps the shared (cross-process) Redis snapshot of the
// directory and registry. It is an optimization layer only: in-process
// coherence never depends on it.
type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) SetStationDirectory(ctx context.Context, stations []model.Station) error {
	return db.CacheStationDirectory(ctx, stations)
}

func (c *CacheService) GetStationDirectory(ctx context.Context) ([]model.Station, error) {
	return db.GetCachedStationDirectory(ctx)
}

func (c *CacheService) InvalidateStationDirectory(ctx context.Context) error {
	return db.InvalidateStationDirectory(ctx)
}

func (c *CacheService) SetModulePermissions(ctx context.Context, rows []model.ModulePermission) error {
	return db.CacheModulePermissions(ctx, rows)
}

func (c *CacheService) InvalidateModulePermissions(ctx context.Context) error {
	return db.InvalidateModulePermissions(ctx)
}

func (c *CacheService) PublishDirectoryChanged(ctx context.Context, entity string) error {
	return db.PublishDirectoryChanged(ctx, entity)
}
