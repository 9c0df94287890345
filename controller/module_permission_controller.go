// controller/module_permission_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	stationgate_errors "github.com/stationgate/api/errors"
	"github.com/stationgate/api/model"
	"github.com/stationgate/api/service"
	"github.com/stationgate/api/util"
	helper_util "github.com/stationgate/api/util/helper"
)

type ModulePermissionController struct {
	moduleService service.IModuleAccessService
}

func NewModulePermissionController(moduleService service.IModuleAccessService) *ModulePermissionController {
	return &ModulePermissionController{
		moduleService: moduleService,
	}
}

// RegisterRoutes registers the API routes
func (mc *ModulePermissionController) RegisterRoutes(r *gin.RouterGroup) {
	modules := r.Group("/module-permissions")
	{
		modules.GET("", mc.ListModulePermissions)
		modules.POST("/initialize", mc.InitializeDefaults)
		modules.PUT("/:module/flags", mc.SetFlag)
	}
}

// ListModulePermissions endpoint
func (mc *ModulePermissionController) ListModulePermissions(c *gin.Context) {
	forceRefresh := helper_util.GetBoolQuery(c, "refresh", false)
	if err := mc.moduleService.Load(c, forceRefresh); err != nil {
		if len(mc.moduleService.Rows()) == 0 {
			util.RespondWithError(c, http.StatusBadGateway, "Failed to load module permissions", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled":            mc.moduleService.Enabled(),
		"module_permissions": mc.moduleService.Rows(),
	})
}

// InitializeDefaults endpoint
func (mc *ModulePermissionController) InitializeDefaults(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", stationgate_errors.ErrUnauthorized)
		return
	}

	if err := mc.moduleService.InitializeDefaults(c, userID); err != nil {
		// Partial success is reported as whole-operation failure; the caller
		// must not assume a consistent registry.
		util.RespondWithError(c, http.StatusInternalServerError, "Module registry initialization failed", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"module_permissions": mc.moduleService.Rows(),
	})
}

type setFlagRequest struct {
	Action string `json:"action" binding:"required"`
	Value  *bool  `json:"value" binding:"required"`
}

// SetFlag endpoint
func (mc *ModulePermissionController) SetFlag(c *gin.Context) {
	var req setFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid flag data", stationgate_errors.ErrInvalidModuleData)
		return
	}

	action, ok := model.ParseAction(req.Action)
	if !ok {
		util.RespondWithError(c, http.StatusBadRequest, "Unknown module action", stationgate_errors.ErrUnknownAction)
		return
	}
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", stationgate_errors.ErrUnauthorized)
		return
	}

	if err := mc.moduleService.SetFlag(c, c.Param("module"), action, *req.Value, userID); err != nil {
		if errors.Is(err, stationgate_errors.ErrModulePermissionNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Module permission not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update module flag", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"module_permissions": mc.moduleService.Rows(),
	})
}
