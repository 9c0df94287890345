// service/station_directory_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stationgate/api/config"
	"github.com/stationgate/api/dao"
	stationgate_errors "github.com/stationgate/api/errors"
	logger "github.com/stationgate/api/logging"
	"github.com/stationgate/api/model"
	"github.com/stationgate/api/util"
)

// IStationDirectoryService is the single shared source of truth for the
// station directory. One instance per process, passed by reference to every
// consumer; nothing else reads or writes the directory.
type IStationDirectoryService interface {
	Load(ctx context.Context, force bool) error
	Stations() []model.Station
	Err() error
	LastUpdated() time.Time
	IsLoading() bool
	AddStation(ctx context.Context, st model.Station, userID string) (model.Station, error)
	UpdateStation(ctx context.Context, st model.Station, userID string) (model.Station, error)
	RemoveStation(ctx context.Context, id string, userID string) error
	Subscribe(fn func()) func()
}

// StationDirectoryService caches the directory for a bounded freshness
// window, collapses concurrent loads onto one backend read, and forces a
// refresh after every successful mutation so a write is never followed by a
// stale read.
type StationDirectoryService struct {
	stationDAO      dao.IStationDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	notifier        *util.Notifier
	freshness       time.Duration

	mu          sync.Mutex
	stations    []model.Station
	lastUpdated time.Time
	lastErr     error
	loading     bool
	loadDone    chan struct{}
}

// NewStationDirectoryService creates the directory service and wires its
// side-effect handlers onto the event bus.
func NewStationDirectoryService(
	stationDAO dao.IStationDAO,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *StationDirectoryService {
	service := &StationDirectoryService{
		stationDAO:      stationDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		notifier:        util.NewNotifier(),
		freshness:       config.GetDuration("access.freshnessWindow"),
	}

	// Set up event subscriptions
	eventBus.Subscribe("station.created", service.handleStationChanged)
	eventBus.Subscribe("station.updated", service.handleStationChanged)
	eventBus.Subscribe("station.deleted", service.handleStationChanged)

	return service
}

// Load refreshes the cached directory from the backend. Without force it is a
// no-op while a load is in flight (concurrent callers collapse onto one
// fetch and observe the result via notification) and a no-op while the cache
// is fresh and non-empty. With force it always fetches, waiting out any
// in-flight load first so the fetch it performs observes prior writes.
func (s *StationDirectoryService) Load(ctx context.Context, force bool) error {
	for {
		s.mu.Lock()
		if s.loading {
			done := s.loadDone
			s.mu.Unlock()
			if !force {
				return nil
			}
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		if !force && len(s.stations) > 0 && time.Since(s.lastUpdated) < s.freshness {
			s.mu.Unlock()
			return nil
		}
		s.loading = true
		s.loadDone = make(chan struct{})
		s.mu.Unlock()
		return s.fetch(ctx)
	}
}

func (s *StationDirectoryService) fetch(ctx context.Context) error {
	stations, err := s.stationDAO.ListStations(ctx)

	s.mu.Lock()
	s.loading = false
	close(s.loadDone)
	if err != nil {
		// Keep the stale directory visible; the error is sticky until a
		// later load succeeds.
		s.lastErr = err
		s.mu.Unlock()
		logger.Error("Failed to load station directory", zap.Error(err))
		s.notifier.Notify()
		return err
	}
	s.stations = stations
	s.lastErr = nil
	s.lastUpdated = time.Now()
	s.mu.Unlock()

	if cacheErr := s.cacheService.SetStationDirectory(ctx, stations); cacheErr != nil {
		logger.Warn("Failed to update shared directory snapshot", zap.Error(cacheErr))
	}

	s.notifier.Notify()
	return nil
}

// Stations returns a copy of the cached directory.
func (s *StationDirectoryService) Stations() []model.Station {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Station, len(s.stations))
	copy(out, s.stations)
	return out
}

func (s *StationDirectoryService) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *StationDirectoryService) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdated
}

func (s *StationDirectoryService) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Subscribe registers a synchronous observer of directory state transitions
// and returns its disposer.
func (s *StationDirectoryService) Subscribe(fn func()) func() {
	return s.notifier.Subscribe(fn)
}

// AddStation validates, rejects duplicate names case-insensitively, writes
// through the backend and forces a refresh before returning, so every
// subscriber observes the new station as soon as this call resolves.
func (s *StationDirectoryService) AddStation(ctx context.Context, st model.Station, userID string) (model.Station, error) {
	if err := s.validationUtil.ValidateStation(st); err != nil {
		return model.Station{}, fmt.Errorf("%w: %v", stationgate_errors.ErrInvalidStationData, err)
	}

	if err := s.Load(ctx, false); err != nil {
		logger.Warn("Duplicate check running against stale directory", zap.Error(err))
	}
	if s.nameTaken(st.Name, "") {
		return model.Station{}, stationgate_errors.ErrStationConflict
	}

	created, err := s.stationDAO.InsertStation(ctx, st, userID)
	if err != nil {
		// Cached directory untouched; subscribers are not told about a
		// directory change that did not happen.
		return model.Station{}, err
	}

	s.eventBus.Publish(ctx, "station.created", created)

	if err := s.Load(ctx, true); err != nil {
		logger.Warn("Forced refresh after station insert failed", zap.Error(err), zap.String("stationID", created.ID))
	}
	return created, nil
}

// UpdateStation mirrors AddStation for an existing row; the duplicate check
// excludes the station being renamed.
func (s *StationDirectoryService) UpdateStation(ctx context.Context, st model.Station, userID string) (model.Station, error) {
	if st.ID == "" {
		return model.Station{}, fmt.Errorf("%w: missing station id", stationgate_errors.ErrInvalidStationData)
	}
	if err := s.validationUtil.ValidateStation(st); err != nil {
		return model.Station{}, fmt.Errorf("%w: %v", stationgate_errors.ErrInvalidStationData, err)
	}

	if err := s.Load(ctx, false); err != nil {
		logger.Warn("Duplicate check running against stale directory", zap.Error(err))
	}
	if s.nameTaken(st.Name, st.ID) {
		return model.Station{}, stationgate_errors.ErrStationConflict
	}

	updated, err := s.stationDAO.UpdateStation(ctx, st, userID)
	if err != nil {
		return model.Station{}, err
	}

	s.eventBus.Publish(ctx, "station.updated", updated)

	if err := s.Load(ctx, true); err != nil {
		logger.Warn("Forced refresh after station update failed", zap.Error(err), zap.String("stationID", updated.ID))
	}
	return updated, nil
}

// RemoveStation deletes a row and forces a refresh before returning.
func (s *StationDirectoryService) RemoveStation(ctx context.Context, id string, userID string) error {
	if id == "" {
		return fmt.Errorf("%w: missing station id", stationgate_errors.ErrInvalidStationData)
	}

	var removed model.Station
	s.mu.Lock()
	for _, st := range s.stations {
		if st.ID == id {
			removed = st
			break
		}
	}
	s.mu.Unlock()

	if err := s.stationDAO.DeleteStation(ctx, id, userID); err != nil {
		return err
	}

	removed.ID = id
	s.eventBus.Publish(ctx, "station.deleted", removed)

	if err := s.Load(ctx, true); err != nil {
		logger.Warn("Forced refresh after station delete failed", zap.Error(err), zap.String("stationID", id))
	}
	return nil
}

// nameTaken reports a case-insensitive name collision in the cached
// directory, ignoring the row with excludeID.
func (s *StationDirectoryService) nameTaken(name, excludeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stations {
		if st.ID != excludeID && strings.EqualFold(st.Name, name) {
			return true
		}
	}
	return false
}

func (s *StationDirectoryService) handleStationChanged(ctx context.Context, event util.Event) error {
	station, ok := event.Payload.(model.Station)
	if !ok {
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	changeType := strings.TrimPrefix(event.Type, "station.")
	if err := s.notificationSvc.NotifyStationChange(ctx, changeType, station); err != nil {
		logger.Warn("Failed to send station change notification",
			zap.Error(err), zap.String("stationID", station.ID))
	}

	// Wake other portal processes so their in-process caches refresh.
	if err := s.cacheService.PublishDirectoryChanged(ctx, "station"); err != nil {
		logger.Warn("Failed to publish directory change", zap.Error(err))
	}
	return nil
}
