package middleware

import "github.com/gin-gonic/gin"

// Identity copies the gateway-supplied caller id onto the request context so
// handlers can attribute mutations. The portal trusts its gateway; this is
// attribution, not authentication.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	}
}
