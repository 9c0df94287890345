// test/mock/dao.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stationgate/api/model"
)

// MockStationDAO is a mock implementation of dao.IStationDAO
type MockStationDAO struct {
	mock.Mock
}

func (m *MockStationDAO) ListStations(ctx context.Context) ([]model.Station, error) {
	args := m.Called(ctx)
	var stations []model.Station
	if v := args.Get(0); v != nil {
		stations = v.([]model.Station)
	}
	return stations, args.Error(1)
}

func (m *MockStationDAO) InsertStation(ctx context.Context, st model.Station, userID string) (model.Station, error) {
	args := m.Called(ctx, st, userID)
	var created model.Station
	if v := args.Get(0); v != nil {
		created = v.(model.Station)
	}
	return created, args.Error(1)
}

func (m *MockStationDAO) UpdateStation(ctx context.Context, st model.Station, userID string) (model.Station, error) {
	args := m.Called(ctx, st, userID)
	var updated model.Station
	if v := args.Get(0); v != nil {
		updated = v.(model.Station)
	}
	return updated, args.Error(1)
}

func (m *MockStationDAO) DeleteStation(ctx context.Context, id string, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockModulePermissionDAO is a mock implementation of dao.IModulePermissionDAO
type MockModulePermissionDAO struct {
	mock.Mock
}

func (m *MockModulePermissionDAO) ListModulePermissions(ctx context.Context) ([]model.ModulePermission, error) {
	args := m.Called(ctx)
	var rows []model.ModulePermission
	if v := args.Get(0); v != nil {
		rows = v.([]model.ModulePermission)
	}
	return rows, args.Error(1)
}

func (m *MockModulePermissionDAO) InsertModulePermission(ctx context.Context, row model.ModulePermission, userID string) (model.ModulePermission, error) {
	args := m.Called(ctx, row, userID)
	var created model.ModulePermission
	if v := args.Get(0); v != nil {
		created = v.(model.ModulePermission)
	}
	return created, args.Error(1)
}

func (m *MockModulePermissionDAO) UpdateModulePermission(ctx context.Context, id string, patch map[string]interface{}, userID string) (model.ModulePermission, error) {
	args := m.Called(ctx, id, patch, userID)
	var updated model.ModulePermission
	if v := args.Get(0); v != nil {
		updated = v.(model.ModulePermission)
	}
	return updated, args.Error(1)
}

func (m *MockModulePermissionDAO) DeleteModulePermission(ctx context.Context, id string, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
