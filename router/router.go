// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stationgate/api/controller"
	"github.com/stationgate/api/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Identity())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	api := router.Group("/api/v1")

	controllers.Station.RegisterRoutes(api)
	controllers.ModulePermission.RegisterRoutes(api)
	controllers.Access.RegisterRoutes(api)
	controllers.Audit.RegisterRoutes(api)

	return router
}
