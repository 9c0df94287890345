// util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	stationgate_errors "github.com/stationgate/api/errors"
	logger "github.com/stationgate/api/logging"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// GetUserIDFromContext returns the caller identity placed on the request by
// the identity middleware. Empty when the gateway supplied none.
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", nil
	}
	s, ok := userID.(string)
	if !ok {
		return "", stationgate_errors.ErrUnauthorized
	}
	return s, nil
}
