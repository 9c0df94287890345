// dao/module_permission_dao.go
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

// IModulePermissionDAO is the backend boundary for the module CRUD-flag
// registry.
type IModulePermissionDAO interface {
	ListModulePermissions(ctx context.Context) ([]model.ModulePermission, error)
	InsertModulePermission(ctx context.Context, row model.ModulePermission, userID string) (model.ModulePermission, error)
	UpdateModulePermission(ctx context.Context, id string, patch map[string]interface{}, userID string) (model.ModulePermission, error)
	DeleteModulePermission(ctx context.Context, id string, userID string) error
}

type ModulePermissionDAO struct {
	DB           *gorm.DB
	AuditService audit.Service
}

func NewModulePermissionDAO(db *gorm.DB, auditService audit.Service) *ModulePermissionDAO {
	return &ModulePermissionDAO{DB: db, AuditService: auditService}
}

func (dao *ModulePermissionDAO) ListModulePermissions(ctx context.Context) ([]model.ModulePermission, error) {
	var rows []model.ModulePermission
	if err := dao.DB.WithContext(ctx).Order("module_key asc").Find(&rows).Error; err != nil {
		logger.Error("Failed to list module permissions", zap.Error(err))
		return nil, stationgate_errors.ErrDatabaseOperation
	}
	return rows, nil
}

func (dao *ModulePermissionDAO) InsertModulePermission(ctx context.Context, row model.ModulePermission, userID string) (model.ModulePermission, error) {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}

	if err := dao.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.ModulePermission{}, stationgate_errors.ErrModulePermissionConflict
		}
		logger.Error("Failed to insert module permission", zap.Error(err), zap.String("moduleKey", row.ModuleKey))
		return model.ModulePermission{}, stationgate_errors.ErrDatabaseOperation
	}

	dao.logChange(ctx, "module_permission.created", row.ID, userID, row)
	return row, nil
}

func (dao *ModulePermissionDAO) UpdateModulePermission(ctx context.Context, id string, patch map[string]interface{}, userID string) (model.ModulePermission, error) {
	result := dao.DB.WithContext(ctx).Model(&model.ModulePermission{}).
		Where("id = ?", id).
		Updates(patch)
	if result.Error != nil {
		logger.Error("Failed to update module permission", zap.Error(result.Error), zap.String("id", id))
		return model.ModulePermission{}, stationgate_errors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return model.ModulePermission{}, stationgate_errors.ErrModulePermissionNotFound
	}

	var updated model.ModulePermission
	if err := dao.DB.WithContext(ctx).First(&updated, "id = ?", id).Error; err != nil {
		logger.Error("Failed to reload module permission after update", zap.Error(err), zap.String("id", id))
		return model.ModulePermission{}, stationgate_errors.ErrDatabaseOperation
	}

	dao.logChange(ctx, "module_permission.updated", updated.ID, userID, updated)
	return updated, nil
}

func (dao *ModulePermissionDAO) DeleteModulePermission(ctx context.Context, id string, userID string) error {
	result := dao.DB.WithContext(ctx).Delete(&model.ModulePermission{}, "id = ?", id)
	if result.Error != nil {
		logger.Error("Failed to delete module permission", zap.Error(result.Error), zap.String("id", id))
		return stationgate_errors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return stationgate_errors.ErrModulePermissionNotFound
	}

	dao.logChange(ctx, "module_permission.deleted", id, userID, nil)
	return nil
}

func (dao *ModulePermissionDAO) logChange(ctx context.Context, action, entityID, userID string, details interface{}) {
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
		EntityType:    "module_permission",
		EntityID:      entityID,
		ChangeDetails: raw,
	}
	if err := dao.AuditService.LogChange(ctx, entry); err != nil {
		logger.Warn("Failed to write audit log", zap.Error(err), zap.String("action", action))
	}
}
