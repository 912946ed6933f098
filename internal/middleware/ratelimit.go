package middleware

import (
	"math"
	"net/http"
	"strconv"

	"toklen/internal/pkg/ratelimit"
	"toklen/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RateLimit throttles by client IP. Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			log.Error().Err(err).Str("client_ip", ip).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			secs := int(math.Ceil(retryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			response.AbortWithError(c, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded")
			return
		}
		c.Next()
	}
}
