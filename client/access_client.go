// client/access_client.go
package client

import (
	"context"

	"github.com/stationgate/api/model"
	"github.com/stationgate/api/resolver"
	"github.com/stationgate/api/service"
)

// AccessClient binds one user's raw access profile to the shared directory
// and module registry. It is what UI consumers hold: every read lazily loads
// the caches, re-normalizes the raw profile (the profile is never mutated),
// and projects a fresh answer. Nothing returned here is cached independently
// of its inputs.
type AccessClient struct {
	directory service.IStationDirectoryService
	modules   service.IModuleAccessService
	profile   model.UserAccessContext
}

func NewAccessClient(
	directory service.IStationDirectoryService,
	modules service.IModuleAccessService,
	profile model.UserAccessContext,
) *AccessClient {
	return &AccessClient{
		directory: directory,
		modules:   modules,
		profile:   profile,
	}
}

// StationOptions returns the selector options for this user, the aggregate
// option first when requested and eligible. A load error with a usable stale
// directory still yields options; the error is returned alongside them.
func (c *AccessClient) StationOptions(ctx context.Context, includeAggregate bool) ([]model.StationOption, error) {
	err := c.directory.Load(ctx, false)
	normalized := resolver.NormalizeContext(c.profile)
	return resolver.StationOptions(normalized, c.directory.Stations(), includeAggregate), err
}

// AccessibleStationNames returns the station names this user may see, in
// directory order.
func (c *AccessClient) AccessibleStationNames(ctx context.Context) ([]string, error) {
	err := c.directory.Load(ctx, false)
	normalized := resolver.NormalizeContext(c.profile)
	return resolver.AccessibleStationNames(normalized, c.directory.Stations()), err
}

// CanPerform answers whether this user's portal may offer an action in a
// module right now.
func (c *AccessClient) CanPerform(ctx context.Context, moduleKey string, action model.Action) (bool, error) {
	err := c.modules.Load(ctx, false)
	return c.modules.CanPerform(moduleKey, action), err
}

// Project returns the full capability projection for a module.
func (c *AccessClient) Project(ctx context.Context, moduleKey string) (model.CapabilityProjection, error) {
	if err := c.directory.Load(ctx, false); err != nil {
		return model.CapabilityProjection{}, err
	}
	if err := c.modules.Load(ctx, false); err != nil {
		return model.CapabilityProjection{}, err
	}
	normalized := resolver.NormalizeContext(c.profile)
	return resolver.Project(normalized, c.directory.Stations(), moduleKey, c.modules.Rows(), c.modules.Enabled()), nil
}

// Subscribe fans in change notifications from both the directory and the
// registry. The returned disposer detaches from both; call it on teardown.
func (c *AccessClient) Subscribe(onChange func()) func() {
	unsubDirectory := c.directory.Subscribe(onChange)
	unsubModules := c.modules.Subscribe(onChange)
	return func() {
		unsubDirectory()
		unsubModules()
	}
}
