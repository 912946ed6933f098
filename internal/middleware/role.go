package middleware

import (
	"toklen/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireProfessional admits callers holding a professional capability.
func RequireProfessional() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := MustPrincipal(c)
		if !ok {
			return
		}
		if _, err := p.Professional(); err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminOnly admits callers holding the admin capability.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := MustPrincipal(c)
		if !ok {
			return
		}
		if _, err := p.Admin(); err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
