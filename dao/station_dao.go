// dao/station_dao.go
package dao

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stationgate/api/audit"
	stationgate_errors "github.com/stationgate/api/errors"
	logger "github.com/stationgate/api/logging"
	"github.com/stationgate/api/model"
)

// IStationDAO is the backend boundary for the station directory: a generic
// list/insert/update/delete contract over a remote relational store. Calls
// carry no timeout of their own; the store's latency is the caller's to wait
// out.
type IStationDAO interface {
	ListStations(ctx context.Context) ([]model.Station, error)
	InsertStation(ctx context.Context, st model.Station, userID string) (model.Station, error)
	UpdateStation(ctx context.Context, st model.Station, userID string) (model.Station, error)
	DeleteStation(ctx context.Context, id string, userID string) error
}

type StationDAO struct {
	DB           *gorm.DB
	AuditService audit.Service
}

func NewStationDAO(db *gorm.DB, auditService audit.Service) *StationDAO {
	return &StationDAO{DB: db, AuditService: auditService}
}

// ListStations returns the full directory in creation order.
func (dao *StationDAO) ListStations(ctx context.Context) ([]model.Station, error) {
	var stations []model.Station
	if err := dao.DB.WithContext(ctx).Order("created_at asc").Find(&stations).Error; err != nil {
		logger.Error("Failed to list stations", zap.Error(err))
		return nil, stationgate_errors.ErrDatabaseOperation
	}
	return stations, nil
}

func (dao *StationDAO) InsertStation(ctx context.Context, st model.Station, userID string) (model.Station, error) {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}

	if err := dao.DB.WithContext(ctx).Create(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Station{}, stationgate_errors.ErrStationConflict
		}
		logger.Error("Failed to insert station", zap.Error(err), zap.String("name", st.Name))
		return model.Station{}, stationgate_errors.ErrDatabaseOperation
	}

	dao.logChange(ctx, "station.created", st.ID, userID, st)
	return st, nil
}

func (dao *StationDAO) UpdateStation(ctx context.Context, st model.Station, userID string) (model.Station, error) {
	result := dao.DB.WithContext(ctx).Model(&model.Station{}).
		Where("id = ?", st.ID).
		Updates(map[string]interface{}{
			"name":  st.Name,
			"label": st.Label,
			"color": st.Color,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.Station{}, stationgate_errors.ErrStationConflict
		}
		logger.Error("Failed to update station", zap.Error(result.Error), zap.String("stationID", st.ID))
		return model.Station{}, stationgate_errors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return model.Station{}, stationgate_errors.ErrStationNotFound
	}

	var updated model.Station
	if err := dao.DB.WithContext(ctx).First(&updated, "id = ?", st.ID).Error; err != nil {
		logger.Error("Failed to reload station after update", zap.Error(err), zap.String("stationID", st.ID))
		return model.Station{}, stationgate_errors.ErrDatabaseOperation
	}

	dao.logChange(ctx, "station.updated", updated.ID, userID, updated)
	return updated, nil
}

func (dao *StationDAO) DeleteStation(ctx context.Context, id string, userID string) error {
	result := dao.DB.WithContext(ctx).Delete(&model.Station{}, "id = ?", id)
	if result.Error != nil {
		logger.Error("Failed to delete station", zap.Error(result.Error), zap.String("stationID", id))
		return stationgate_errors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return stationgate_errors.ErrStationNotFound
	}

	dao.logChange(ctx, "station.deleted", id, userID, nil)
	return nil
}

// logChange records the mutation with the audit collaborator. Audit delivery
// is best-effort; a failure must not fail the mutation itself.
func (dao *StationDAO) logChange(ctx context.Context, action, entityID, userID string, details interface{}) {
	if dao.AuditService == nil {
		return
	}
	var raw json.RawMessage
	if details != nil {
		raw, _ = json.Marshal(details)
	}
	entry := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        action,
		EntityType:    "station",
		EntityID:      entityID,
		ChangeDetails: raw,
	}
	if err := dao.AuditService.LogChange(ctx, entry); err != nil {
		logger.Warn("Failed to write audit log", zap.Error(err), zap.String("action", action))
	}
}
