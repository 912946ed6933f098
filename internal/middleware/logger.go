package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"toklen/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const requestIDKey = "request_id"

// RequestID propagates X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// RequestLogger logs one line per request and recovers from panics.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequest(c, start, zerolog.ErrorLevel).
					Err(err).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")
				response.AbortWithError(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
				return
			}

			level := zerolog.InfoLevel
			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				level = zerolog.ErrorLevel
			case status >= http.StatusBadRequest:
				level = zerolog.WarnLevel
			}

			ev := logRequest(c, start, level)
			if len(c.Errors) > 0 {
				ev = ev.Str("error", c.Errors.String())
			}
			ev.Msg("request")
		}()

		c.Next()
	}
}

func logRequest(c *gin.Context, start time.Time, level zerolog.Level) *zerolog.Event {
	return log.WithLevel(level).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Int64("user_id", c.GetInt64(userIDKey)).
		Str("request_id", c.GetString(requestIDKey))
}
