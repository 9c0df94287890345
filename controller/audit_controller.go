// controller/audit_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stationgate/api/audit"
	"github.com/stationgate/api/util"
	helper_util "github.com/stationgate/api/util/helper"
)

type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AuditController) RegisterRoutes(r *gin.RouterGroup) {
	logs := r.Group("/audit-logs")
	{
		logs.GET("", ac.QueryLogs)
	}
}

// QueryLogs endpoint returns the audit trail for a time window, optionally
// filtered by user or entity. Defaults to the last 24 hours.
func (ac *AuditController) QueryLogs(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	to := time.Now()
	from := to.Add(-24 * time.Hour)
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse(time.RFC3339, raw); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' timestamp", err)
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = time.Parse(time.RFC3339, raw); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' timestamp", err)
			return
		}
	}

	logs, err := ac.auditService.QueryLogs(c, from, to, c.Query("user_id"), c.Query("entity_id"), limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusBadGateway, "Failed to query audit logs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audit_logs": logs,
		"limit":      limit,
		"offset":     offset,
	})
}
