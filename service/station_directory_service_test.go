// service/station_directory_service_test.go
package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	stationgate_errors "github.com/stationgate/api/errors"
	"github.com/stationgate/api/model"
	"github.com/stationgate/api/service"
	mocks "github.com/stationgate/api/test/mock"
	"github.com/stationgate/api/util"
)

func newDirectoryService(dao *mocks.MockStationDAO) *service.StationDirectoryService {
	return service.NewStationDirectoryService(
		dao,
		util.NewValidationUtil(),
		util.NewCacheService(),
		util.NewNotificationService(),
		util.NewEventBus(),
	)
}

func TestDirectoryLoadPopulatesCache(t *testing.T) {
	ctx := context.Background()
	mockDAO := new(mocks.MockStationDAO)
	mockDAO.On("ListStations", mock.Anything).
		Return([]model.Station{{ID: "s1", Name: "North"}}, nil).Once()

	svc := newDirectoryService(mockDAO)
	assert.True(t, svc.LastUpdated().IsZero())

	err := svc.Load(ctx, false)
	assert.NoError(t, err)
	assert.NoError(t, svc.Err())
	assert.False(t, svc.LastUpdated().IsZero())

	stations := svc.Stations()
	assert.Len(t, stations, 1)
	assert.Equal(t, "North", stations[0].Name)
	mockDAO.AssertExpectations(t)
}

func TestDirectoryLoadRespectsFreshnessWindow(t *testing.T) {
	ctx := context.Background()
	mockDAO := new(mocks.MockStationDAO)
	mockDAO.On("ListStations", mock.Anything).
		Return([]model.Station{{ID: "s1", Name: "North"}}, nil)

	svc := newDirectoryService(mockDAO)
	assert.NoError(t, svc.Load(ctx, false))
	assert.NoError(t, svc.Load(ctx, false))
	assert.NoError(t, svc.Load(ctx, false))

	mockDAO.AssertNumberOfCalls(t, "ListStations", 1)
}

func TestDirectoryLoadForceBypassesFreshness(t *testing.T) {
	ctx := context.Background()
	mockDAO := new(mocks.MockStationDAO)
	mockDAO.On("ListStations", mock.Anything).
		Return([]model.Station{{ID: "s1", Name: "North"}}, nil)

	svc := newDirectoryService(mockDAO)
	assert.NoError(t, svc.Load(ctx, false))
	assert.NoError(t, svc.Load(ctx, true))

	mockDAO.AssertNumberOfCalls(t, "ListStations", 2)
}

func TestDirectoryConcurrentLoadsCollapse(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})

	mockDAO := new(mocks.MockStationDAO)
	mockDAO.On("ListStations", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return([]model.Station{{ID: "s1", Name: "North"}}, nil).Once()

	svc := newDirectoryService(mockDAO)

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Load(ctx, false) }()

	<-entered
	assert.True(t, svc.IsLoading())

	// A second non-forced load while the first is in flight returns
	// immediately without a second backend read.
	assert.NoError(t, svc.Load(ctx, false))

	close(release)
	assert.NoError(t, <-errCh)
	assert.False(t, svc.IsLoading())
	mockDAO.AssertNumberOfCalls(t, "ListStations", 1)
}

func TestDirectoryForcedLoadWaitsOutInFlightLoad(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})

	mockDAO := new(mocks.MockStationDAO)
	mockDAO.On("ListStations", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return([]model.Station{{ID: "s1", Name: "North"}}, nil).Once()
	mockDAO.On("ListStations", mock.Anything).
		Return([]model.Station{
			{ID: "s1", Name: "North"},
			{ID: "s2", Name: "South"},
		}, nil).Once()

	svc := newDirectoryService(mockDAO)

	go func() { _ = svc.Load(ctx, false) }()
	<-entered

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()

	// The forced load cannot reuse the in-flight fetch: it waits it out and
	// fetches again, observing anything written in between.
	assert.NoError(t, svc.Load(ctx, true))
	assert.Len(t, svc.Stations(), 2)
	mockDAO.AssertNumberOfCalls(t, "ListStations", 2)
}

func TestDirectoryForcedLoadHonorsContextCancellation(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	mockDAO := new(mocks.MockStationDAO)
	mockDAO.On("ListStations", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return([]model.Station{}, nil).Once()

	svc := newDirectoryService(mockDAO)

	go func() { _ = svc.Load(context.Background(), false) }()
	<-entered

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	err := svc.Load(cancelled, true)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
}

func TestDirectoryLoadFailureKeepsStaleData(t *testing.T) {
	ctx := context.Background()
	mockDAO := new(mocks.MockStationDAO)
	mockDAO.On("ListStations", mock.Anything).
		Return([]model.Station{{ID: "s1", Name: "North"}}, nil).Once()
	mockDAO.On("ListStations", mock.Anything).
		Return(nil, errors.New("backend down")).Once()
	mockDAO.On("ListStations", mock.Anything).
		Return([]model.Station{{ID: "s1", Name: "North"}}, nil).Once()

	svc := newDirectoryService(mockDAO)
	assert.NoError(t, svc.Load(ctx, false))

	err := svc.Load(ctx, true)
	assert.Error(t, err)
	assert.Error(t, svc.Err())
	// The last good directory stays visible alongside the sticky error.
	assert.Len(t, svc.Stations(), 1)

	assert.NoError(t, svc.Load(ctx, true))
	assert.NoError(t, svc.Err())
}

func TestDirectorySubscribersNotifiedOnTransitions(t *testing.T) {
	ctx := context.Background()
	mockDAO := new(mocks.MockStationDAO)
	mockDAO.On("ListStations", mock.Anything).
		Return([]model.Station{{ID: "s1", Name: "North"}}, nil)

	svc := newDirectoryService(mockDAO)

	notified := 0
	dispose := svc.Subscribe(func() { notified++ })

	assert.NoError(t, svc.Load(ctx, false))
	assert.Equal(t, 1, notified)

	assert.NoError(t, svc.Load(ctx, true))
	assert.Equal(t, 2, notified)

	dispose()
	assert.NoError(t, svc.Load(ctx, true))
	assert.Equal(t, 2, notified)
}

func TestAddStation(t *testing.T) {
	t.Run("validation failure surfaces invalid data", func(t *testing.T) {
		mockDAO := new(mocks.MockStationDAO)
		svc := newDirectoryService(mockDAO)

		_, err := svc.AddStation(context.Background(), model.Station{Name: "  "}, "tester")
		assert.ErrorIs(t, err, stationgate_errors.ErrInvalidStationData)
		mockDAO.AssertNotCalled(t, "InsertStation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reserved aggregate name rejected", func(t *testing.T) {
		mockDAO := new(mocks.MockStationDAO)
		svc := newDirectoryService(mockDAO)

		_, err := svc.AddStation(context.Background(), model.Station{Name: model.AllStationsValue}, "tester")
		assert.ErrorIs(t, err, stationgate_errors.ErrInvalidStationData)
	})

	t.Run("duplicate name rejected case-insensitively", func(t *testing.T) {
		mockDAO := new(mocks.MockStationDAO)
		mockDAO.On("ListStations", mock.Anything).
			Return([]model.Station{{ID: "s1", Name: "North"}}, nil)

		svc := newDirectoryService(mockDAO)
		_, err := svc.AddStation(context.Background(), model.Station{Name: "nOrTh"}, "tester")
		assert.ErrorIs(t, err, stationgate_errors.ErrStationConflict)
		mockDAO.AssertNotCalled(t, "InsertStation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("write forces a refresh before returning", func(t *testing.T) {
		created := model.Station{ID: "s2", Name: "South", Label: "South"}

		mockDAO := new(mocks.MockStationDAO)
		mockDAO.On("ListStations", mock.Anything).
			Return([]model.Station{{ID: "s1", Name: "North"}}, nil).Once()
		mockDAO.On("InsertStation", mock.Anything, mock.Anything, "tester").
			Return(created, nil).Once()
		mockDAO.On("ListStations", mock.Anything).
			Return([]model.Station{{ID: "s1", Name: "North"}, created}, nil).Once()

		svc := newDirectoryService(mockDAO)
		got, err := svc.AddStation(context.Background(), model.Station{Name: "South", Label: "South"}, "tester")
		assert.NoError(t, err)
		assert.Equal(t, created, got)

		// Read-after-write: the new station is already visible.
		assert.Len(t, svc.Stations(), 2)
		mockDAO.AssertExpectations(t)
	})

	t.Run("backend failure leaves cached directory untouched", func(t *testing.T) {
		mockDAO := new(mocks.MockStationDAO)
		mockDAO.On("ListStations", mock.Anything).
			Return([]model.Station{{ID: "s1", Name: "North"}}, nil).Once()
		mockDAO.On("InsertStation", mock.Anything, mock.Anything, "tester").
			Return(model.Station{}, errors.New("insert failed")).Once()

		svc := newDirectoryService(mockDAO)

		notified := 0
		assert.NoError(t, svc.Load(context.Background(), false))
		defer svc.Subscribe(func() { notified++ })()

		_, err := svc.AddStation(context.Background(), model.Station{Name: "South"}, "tester")
		assert.Error(t, err)
		assert.Len(t, svc.Stations(), 1)
		// No transition happened, so no notification went out.
		assert.Equal(t, 0, notified)
	})
}

func TestUpdateStation(t *testing.T) {
	t.Run("missing id rejected", func(t *testing.T) {
		svc := newDirectoryService(new(mocks.MockStationDAO))
		_, err := svc.UpdateStation(context.Background(), model.Station{Name: "North"}, "tester")
		assert.ErrorIs(t, err, stationgate_errors.ErrInvalidStationData)
	})

	t.Run("rename onto another station's name rejected", func(t *testing.T) {
		mockDAO := new(mocks.MockStationDAO)
		mockDAO.On("ListStations", mock.Anything).
			Return([]model.Station{
				{ID: "s1", Name: "North"},
				{ID: "s2", Name: "South"},
			}, nil)

		svc := newDirectoryService(mockDAO)
		_, err := svc.UpdateStation(context.Background(), model.Station{ID: "s2", Name: "North"}, "tester")
		assert.ErrorIs(t, err, stationgate_errors.ErrStationConflict)
	})

	t.Run("renaming a station to its own name is not a conflict", func(t *testing.T) {
		updated := model.Station{ID: "s1", Name: "North", Color: "#000"}

		mockDAO := new(mocks.MockStationDAO)
		mockDAO.On("ListStations", mock.Anything).
			Return([]model.Station{{ID: "s1", Name: "North"}}, nil).Once()
		mockDAO.On("UpdateStation", mock.Anything, mock.Anything, "tester").
			Return(updated, nil).Once()
		mockDAO.On("ListStations", mock.Anything).
			Return([]model.Station{updated}, nil).Once()

		svc := newDirectoryService(mockDAO)
		got, err := svc.UpdateStation(context.Background(), model.Station{ID: "s1", Name: "North", Color: "#000"}, "tester")
		assert.NoError(t, err)
		assert.Equal(t, updated, got)
		assert.Equal(t, "#000", svc.Stations()[0].Color)
	})
}

func TestRemoveStation(t *testing.T) {
	t.Run("missing id rejected", func(t *testing.T) {
		svc := newDirectoryService(new(mocks.MockStationDAO))
		err := svc.RemoveStation(context.Background(), "", "tester")
		assert.ErrorIs(t, err, stationgate_errors.ErrInvalidStationData)
	})

	t.Run("delete forces a refresh before returning", func(t *testing.T) {
		mockDAO := new(mocks.MockStationDAO)
		mockDAO.On("ListStations", mock.Anything).
			Return([]model.Station{{ID: "s1", Name: "North"}}, nil).Once()
		mockDAO.On("DeleteStation", mock.Anything, "s1", "tester").Return(nil).Once()
		mockDAO.On("ListStations", mock.Anything).
			Return([]model.Station{}, nil).Once()

		svc := newDirectoryService(mockDAO)
		assert.NoError(t, svc.Load(context.Background(), false))

		assert.NoError(t, svc.RemoveStation(context.Background(), "s1", "tester"))
		assert.Empty(t, svc.Stations())
		mockDAO.AssertExpectations(t)
	})

	t.Run("backend failure skips the refresh", func(t *testing.T) {
		mockDAO := new(mocks.MockStationDAO)
		mockDAO.On("ListStations", mock.Anything).
			Return([]model.Station{{ID: "s1", Name: "North"}}, nil).Once()
		mockDAO.On("DeleteStation", mock.Anything, "s1", "tester").
			Return(errors.New("delete failed")).Once()

		svc := newDirectoryService(mockDAO)
		assert.NoError(t, svc.Load(context.Background(), false))

		assert.Error(t, svc.RemoveStation(context.Background(), "s1", "tester"))
		assert.Len(t, svc.Stations(), 1)
	})
}
