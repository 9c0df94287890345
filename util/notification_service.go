// util/notification_service.go

package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/stationgate/api/logging"
	"github.com/stationgate/api/model"
)

// NotificationService is the boundary to the portal's outbound messaging
// (SMS digests, admin alerts). Delivery itself belongs to an external
// collaborator; this implementation records the intent.
type NotificationService struct {
	// You might want to add dependencies here, such as a message queue client
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyStationChange(ctx context.Context, changeType string, station model.Station) error {
	switch changeType {
	case "created":
		logger.Info("NOTIFICATION: New station created",
			zap.String("stationID", station.ID),
			zap.String("stationName", station.Name))
	case "updated":
		logger.Info("NOTIFICATION: Station updated",
			zap.String("stationID", station.ID),
			zap.String("stationName", station.Name))
	case "deleted":
		logger.Info("NOTIFICATION: Station deleted",
			zap.String("stationID", station.ID))
	}
	return nil
}

func (n *NotificationService) NotifyModulePermissionChange(ctx context.Context, row model.ModulePermission) error {
	logger.Info("NOTIFICATION: Module permissions changed",
		zap.String("moduleKey", row.ModuleKey),
		zap.Bool("canCreate", row.CanCreate),
		zap.Bool("canEdit", row.CanEdit),
		zap.Bool("canDelete", row.CanDelete),
		zap.Bool("canView", row.CanView))
	return nil
}
