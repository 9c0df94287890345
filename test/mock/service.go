// test/mock/service.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/stationgate/api/model"
)

// MockStationDirectoryService is a mock implementation of
// service.IStationDirectoryService
type MockStationDirectoryService struct {
	mock.Mock
}

func (m *MockStationDirectoryService) Load(ctx context.Context, force bool) error {
	args := m.Called(ctx, force)
	return args.Error(0)
}

func (m *MockStationDirectoryService) Stations() []model.Station {
	args := m.Called()
	var stations []model.Station
	if v := args.Get(0); v != nil {
		stations = v.([]model.Station)
	}
	return stations
}

func (m *MockStationDirectoryService) Err() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStationDirectoryService) LastUpdated() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

func (m *MockStationDirectoryService) IsLoading() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockStationDirectoryService) AddStation(ctx context.Context, st model.Station, userID string) (model.Station, error) {
	args := m.Called(ctx, st, userID)
	var created model.Station
	if v := args.Get(0); v != nil {
		created = v.(model.Station)
	}
	return created, args.Error(1)
}

func (m *MockStationDirectoryService) UpdateStation(ctx context.Context, st model.Station, userID string) (model.Station, error) {
	args := m.Called(ctx, st, userID)
	var updated model.Station
	if v := args.Get(0); v != nil {
		updated = v.(model.Station)
	}
	return updated, args.Error(1)
}

func (m *MockStationDirectoryService) RemoveStation(ctx context.Context, id string, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockStationDirectoryService) Subscribe(fn func()) func() {
	args := m.Called(fn)
	if v := args.Get(0); v != nil {
		return v.(func())
	}
	return func() {}
}

// MockModuleAccessService is a mock implementation of
// service.IModuleAccessService
type MockModuleAccessService struct {
	mock.Mock
}

func (m *MockModuleAccessService) Load(ctx context.Context, force bool) error {
	args := m.Called(ctx, force)
	return args.Error(0)
}

func (m *MockModuleAccessService) Rows() []model.ModulePermission {
	args := m.Called()
	var rows []model.ModulePermission
	if v := args.Get(0); v != nil {
		rows = v.([]model.ModulePermission)
	}
	return rows
}

func (m *MockModuleAccessService) Err() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockModuleAccessService) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockModuleAccessService) CanPerform(moduleKey string, action model.Action) bool {
	args := m.Called(moduleKey, action)
	return args.Bool(0)
}

func (m *MockModuleAccessService) InitializeDefaults(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockModuleAccessService) SetFlag(ctx context.Context, moduleKey string, action model.Action, value bool, userID string) error {
	args := m.Called(ctx, moduleKey, action, value, userID)
	return args.Error(0)
}

func (m *MockModuleAccessService) Subscribe(fn func()) func() {
	args := m.Called(fn)
	if v := args.Get(0); v != nil {
		return v.(func())
	}
	return func() {}
}
