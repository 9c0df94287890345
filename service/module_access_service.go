// service/module_access_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stationgate/api/config"
	"github.com/stationgate/api/dao"
	stationgate_errors "github.com/stationgate/api/errors"
	logger "github.com/stationgate/api/logging"
	"github.com/stationgate/api/model"
	"github.com/stationgate/api/resolver"
	"github.com/stationgate/api/util"
)

// IModuleAccessService is the live-updatable per-module CRUD flag registry.
// Shares the directory service's state machine: freshness window, in-flight
// dedup, sticky error, synchronous ordered notifications.
type IModuleAccessService interface {
	Load(ctx context.Context, force bool) error
	Rows() []model.ModulePermission
	Err() error
	Enabled() bool
	CanPerform(moduleKey string, action model.Action) bool
	InitializeDefaults(ctx context.Context, userID string) error
	SetFlag(ctx context.Context, moduleKey string, action model.Action, value bool, userID string) error
	Subscribe(fn func()) func()
}

type ModuleAccessService struct {
	moduleDAO       dao.IModulePermissionDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	notifier        *util.Notifier
	freshness       time.Duration
	enabled         bool
	moduleKeys      []string

	mu          sync.Mutex
	rows        []model.ModulePermission
	lastUpdated time.Time
	lastErr     error
	loading     bool
	loadDone    chan struct{}
}

func NewModuleAccessService(
	moduleDAO dao.IModulePermissionDAO,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *ModuleAccessService {
	service := &ModuleAccessService{
		moduleDAO:       moduleDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		notifier:        util.NewNotifier(),
		freshness:       config.GetDuration("access.freshnessWindow"),
		enabled:         config.GetBool("access.moduleRegistryEnabled"),
		moduleKeys:      config.GetStringSlice("access.modules"),
	}

	// Set up event subscriptions
	eventBus.Subscribe("module_permission.updated", service.handleModulePermissionUpdated)

	return service
}

// Load mirrors the directory service's load: coalescing without force,
// wait-then-fetch with force, freshness window otherwise.
func (s *ModuleAccessService) Load(ctx context.Context, force bool) error {
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
		if !force && len(s.rows) > 0 && time.Since(s.lastUpdated) < s.freshness {
			s.mu.Unlock()
			return nil
		}
		s.loading = true
		s.loadDone = make(chan struct{})
		s.mu.Unlock()
		return s.fetch(ctx)
	}
}

func (s *ModuleAccessService) fetch(ctx context.Context) error {
	rows, err := s.moduleDAO.ListModulePermissions(ctx)

	s.mu.Lock()
	s.loading = false
	close(s.loadDone)
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		logger.Error("Failed to load module permissions", zap.Error(err))
		s.notifier.Notify()
		return err
	}
	s.rows = rows
	s.lastErr = nil
	s.lastUpdated = time.Now()
	s.mu.Unlock()

	if cacheErr := s.cacheService.SetModulePermissions(ctx, rows); cacheErr != nil {
		logger.Warn("Failed to update shared module permission snapshot", zap.Error(cacheErr))
	}

	s.notifier.Notify()
	return nil
}

// Rows returns a copy of the cached registry.
func (s *ModuleAccessService) Rows() []model.ModulePermission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ModulePermission, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *ModuleAccessService) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *ModuleAccessService) Enabled() bool {
	return s.enabled
}

func (s *ModuleAccessService) Subscribe(fn func()) func() {
	return s.notifier.Subscribe(fn)
}

// CanPerform answers from the cached registry: fail-open when the registry is
// disabled or empty, fail-closed for a module missing from a populated
// registry.
func (s *ModuleAccessService) CanPerform(moduleKey string, action model.Action) bool {
	return resolver.ActionAllowances(moduleKey, s.Rows(), s.enabled).Allows(action)
}

// InitializeDefaults bulk-inserts one conservative row per known module key
// (view only). Any single insert failing fails the whole operation. The
// forced reload still runs so the cache reflects whatever landed.
func (s *ModuleAccessService) InitializeDefaults(ctx context.Context, userID string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, key := range s.moduleKeys {
		key := key
		g.Go(func() error {
			row := model.ModulePermission{
				ModuleKey:   key,
				DisplayName: displayNameForModule(key),
				CanCreate:   false,
				CanEdit:     false,
				CanDelete:   false,
				CanView:     true,
			}
			if err := s.validationUtil.ValidateModulePermission(row); err != nil {
				return fmt.Errorf("%w: %v", stationgate_errors.ErrInvalidModuleData, err)
			}
			if _, err := s.moduleDAO.InsertModulePermission(gctx, row, userID); err != nil {
				return fmt.Errorf("module %q: %w", key, err)
			}
			return nil
		})
	}

	insertErr := g.Wait()

	if err := s.Load(ctx, true); err != nil {
		logger.Warn("Forced refresh after registry initialization failed", zap.Error(err))
	}

	if insertErr != nil {
		logger.Error("Module registry initialization failed", zap.Error(insertErr))
		return fmt.Errorf("%w: %v", stationgate_errors.ErrModuleRegistryInit, insertErr)
	}
	return nil
}

// SetFlag applies the change optimistically (flag flipped locally, row marked
// updating, subscribers notified), then performs the backend write. On
// failure the local flag rolls back and the error is surfaced; client and
// server are never left divergent.
func (s *ModuleAccessService) SetFlag(ctx context.Context, moduleKey string, action model.Action, value bool, userID string) error {
	if err := s.Load(ctx, false); err != nil {
		logger.Warn("Flag lookup running against stale registry", zap.Error(err))
	}

	s.mu.Lock()
	idx := -1
	for i := range s.rows {
		if s.rows[i].ModuleKey == moduleKey {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return stationgate_errors.ErrModulePermissionNotFound
	}
	id := s.rows[idx].ID
	previous := s.rows[idx].Flag(action)
	s.rows[idx].SetFlagValue(action, value)
	s.rows[idx].Updating = true
	s.mu.Unlock()

	s.notifier.Notify()

	updated, err := s.moduleDAO.UpdateModulePermission(ctx, id, map[string]interface{}{
		columnForAction(action): value,
	}, userID)
	if err != nil {
		s.mu.Lock()
		for i := range s.rows {
			if s.rows[i].ID == id {
				s.rows[i].SetFlagValue(action, previous)
				s.rows[i].Updating = false
				break
			}
		}
		s.mu.Unlock()
		s.notifier.Notify()
		logger.Error("Module flag write failed, rolled back",
			zap.Error(err),
			zap.String("moduleKey", moduleKey),
			zap.String("action", string(action)))
		return err
	}

	s.eventBus.Publish(ctx, "module_permission.updated", updated)

	if err := s.Load(ctx, true); err != nil {
		logger.Warn("Forced refresh after module flag write failed", zap.Error(err), zap.String("moduleKey", moduleKey))
	}
	return nil
}

func (s *ModuleAccessService) handleModulePermissionUpdated(ctx context.Context, event util.Event) error {
	row, ok := event.Payload.(model.ModulePermission)
	if !ok {
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	if err := s.notificationSvc.NotifyModulePermissionChange(ctx, row); err != nil {
		logger.Warn("Failed to send module permission notification",
			zap.Error(err), zap.String("moduleKey", row.ModuleKey))
	}

	if err := s.cacheService.PublishDirectoryChanged(ctx, "module_permission"); err != nil {
		logger.Warn("Failed to publish module permission change", zap.Error(err))
	}
	return nil
}

func columnForAction(action model.Action) string {
	switch action {
	case model.ActionCreate:
		return "can_create"
	case model.ActionEdit:
		return "can_edit"
	case model.ActionDelete:
		return "can_delete"
	default:
		return "can_view"
	}
}

func displayNameForModule(key string) string {
	if key == "" {
		return ""
	}
	return strings.ToUpper(key[:1]) + key[1:]
}
