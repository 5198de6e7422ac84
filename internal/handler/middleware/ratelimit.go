package middleware

import (
	"net/http"

	"food-rescue-api/internal/handler/httperr"
	"food-rescue-api/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitByIP keys the limiter on the client address.
func RateLimitByIP(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), c.ClientIP()) {
			httperr.AbortWithError(c, http.StatusTooManyRequests, nil, "rate_limited", "Too many attempts, try again later")
			return
		}
		c.Next()
	}
}
