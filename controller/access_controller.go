// controller/access_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stationgate/api/client"
	stationgate_errors "github.com/stationgate/api/errors"
	"github.com/stationgate/api/model"
	"github.com/stationgate/api/service"
	"github.com/stationgate/api/util"
)

type AccessController struct {
	directoryService service.IStationDirectoryService
	moduleService    service.IModuleAccessService
}

func NewAccessController(
	directoryService service.IStationDirectoryService,
	moduleService service.IModuleAccessService,
) *AccessController {
	return &AccessController{
		directoryService: directoryService,
		moduleService:    moduleService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AccessController) RegisterRoutes(r *gin.RouterGroup) {
	access := r.Group("/access")
	{
		access.POST("/resolve", ac.Resolve)
	}
}

type resolveRequest struct {
	Profile   model.UserAccessContext `json:"profile"`
	ModuleKey string                  `json:"module_key"`
}

// Resolve endpoint computes the full capability projection for a supplied
// profile and module. This is a resolution convenience for UI consumers, not
// an enforcement point.
func (ac *AccessController) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access profile", err)
		return
	}

	accessClient := client.NewAccessClient(ac.directoryService, ac.moduleService, req.Profile)
	projection, err := accessClient.Project(c, req.ModuleKey)
	if err != nil {
		util.RespondWithError(c, http.StatusBadGateway, "Failed to resolve capabilities", stationgate_errors.ErrDatabaseOperation)
		return
	}

	c.JSON(http.StatusOK, projection)
}
