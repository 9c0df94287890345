// service/services.go
package service

import (
	"gorm.io/gorm"

	"github.com/stationgate/api/audit"
	"github.com/stationgate/api/dao"
	"github.com/stationgate/api/util"
)

type Services struct {
	Directory IStationDirectoryService
	Modules   IModuleAccessService
}

func InitializeServices(
	db *gorm.DB,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) (*Services, error) {
	stationDAO := dao.NewStationDAO(db, auditService)
	moduleDAO := dao.NewModulePermissionDAO(db, auditService)

	services := &Services{
		Directory: NewStationDirectoryService(stationDAO, validationUtil, cacheService, notificationSvc, eventBus),
		Modules:   NewModuleAccessService(moduleDAO, validationUtil, cacheService, notificationSvc, eventBus),
	}

	return services, nil
}
