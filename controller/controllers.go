// controller/controllers.go
package controller

import (
	"github.com/stationgate/api/audit"
	"github.com/stationgate/api/service"
)

type Controllers struct {
	Station          *StationController
	ModulePermission *ModulePermissionController
	Access           *AccessController
	Audit            *AuditController
}

func InitializeControllers(services *service.Services, auditService audit.Service) *Controllers {
	return &Controllers{
		Station:          NewStationController(services.Directory),
		ModulePermission: NewModulePermissionController(services.Modules),
		Access:           NewAccessController(services.Directory, services.Modules),
		Audit:            NewAuditController(auditService),
	}
}
