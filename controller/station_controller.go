// controller/station_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	stationgate_errors "github.com/stationgate/api/errors"
	"github.com/stationgate/api/model"
	"github.com/stationgate/api/resolver"
	"github.com/stationgate/api/service"
	"github.com/stationgate/api/util"
	helper_util "github.com/stationgate/api/util/helper"
)

type StationController struct {
	directoryService service.IStationDirectoryService
}

func NewStationController(directoryService service.IStationDirectoryService) *StationController {
	return &StationController{
		directoryService: directoryService,
	}
}

// RegisterRoutes registers the API routes
func (sc *StationController) RegisterRoutes(r *gin.RouterGroup) {
	stations := r.Group("/stations")
	{
		stations.GET("", sc.ListStations)
		stations.GET("/options", sc.StationOptions)
		stations.POST("", sc.CreateStation)
		stations.PUT("/:id", sc.UpdateStation)
		stations.DELETE("/:id", sc.DeleteStation)
	}
}

// ListStations endpoint
func (sc *StationController) ListStations(c *gin.Context) {
	forceRefresh := helper_util.GetBoolQuery(c, "refresh", false)
	if err := sc.directoryService.Load(c, forceRefresh); err != nil {
		// Stale-but-available data beats blank data; only fail the request
		// when there is nothing to serve.
		if len(sc.directoryService.Stations()) == 0 {
			util.RespondWithError(c, http.StatusBadGateway, "Failed to load station directory", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"stations":     sc.directoryService.Stations(),
		"last_updated": sc.directoryService.LastUpdated(),
	})
}

// StationOptions endpoint resolves selector options for the profile supplied
// in the query. Permission payloads arrive in their raw historical shapes and
// are normalized here, never rejected.
func (sc *StationController) StationOptions(c *gin.Context) {
	if err := sc.directoryService.Load(c, false); err != nil && len(sc.directoryService.Stations()) == 0 {
		util.RespondWithError(c, http.StatusBadGateway, "Failed to load station directory", err)
		return
	}

	normalized := resolver.Normalize(
		c.Query("role"),
		c.Query("permissions"),
		c.QueryArray("station_access"),
	)
	includeAggregate := helper_util.GetBoolQuery(c, "include_aggregate", true)

	c.JSON(http.StatusOK, gin.H{
		"options": resolver.StationOptions(normalized, sc.directoryService.Stations(), includeAggregate),
	})
}

// CreateStation endpoint
func (sc *StationController) CreateStation(c *gin.Context) {
	var station model.Station
	if err := c.ShouldBindJSON(&station); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid station data", stationgate_errors.ErrInvalidStationData)
		return
	}
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", stationgate_errors.ErrUnauthorized)
		return
	}

	created, err := sc.directoryService.AddStation(c, station, userID)
	if err != nil {
		switch {
		case errors.Is(err, stationgate_errors.ErrStationConflict):
			util.RespondWithError(c, http.StatusConflict, "Station name already in use", err)
		case errors.Is(err, stationgate_errors.ErrInvalidStationData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid station data", err)
		case errors.Is(err, stationgate_errors.ErrDatabaseOperation):
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create station", stationgate_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateStation endpoint
func (sc *StationController) UpdateStation(c *gin.Context) {
	var station model.Station
	if err := c.ShouldBindJSON(&station); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid station data", err)
		return
	}
	station.ID = c.Param("id")
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", stationgate_errors.ErrUnauthorized)
		return
	}

	updated, err := sc.directoryService.UpdateStation(c, station, userID)
	if err != nil {
		switch {
		case errors.Is(err, stationgate_errors.ErrStationNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Station not found", err)
		case errors.Is(err, stationgate_errors.ErrStationConflict):
			util.RespondWithError(c, http.StatusConflict, "Station name already in use", err)
		case errors.Is(err, stationgate_errors.ErrInvalidStationData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid station data", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update station", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteStation endpoint
func (sc *StationController) DeleteStation(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", stationgate_errors.ErrUnauthorized)
		return
	}

	if err := sc.directoryService.RemoveStation(c, c.Param("id"), userID); err != nil {
		if errors.Is(err, stationgate_errors.ErrStationNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Station not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete station", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
