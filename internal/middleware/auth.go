package middleware

import (
	"errors"
	"net/http"
	"strings"

	"toklen/internal/domain"
	"toklen/internal/identity"
	"toklen/internal/pkg/response"
	"toklen/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	identityKey  = "identity"
	principalKey = "principal"
	userIDKey    = "user_id"
)

// Authenticate verifies the bearer token and stores the caller's identity.
func Authenticate(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		id, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// LoadPrincipal resolves the verified identity to an internal user. It must
// run after Authenticate.
func LoadPrincipal(store *repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.AbortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
			return
		}

		p, err := ResolvePrincipal(c, store, id.UID)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.Set(principalKey, p)
		c.Set(userIDKey, p.UserID())
		c.Next()
	}
}

// ResolvePrincipal loads the user behind uid and, for professionals, the id
// of their profile.
func ResolvePrincipal(c *gin.Context, store *repository.Store, uid string) (*domain.Principal, error) {
	ctx := c.Request.Context()

	u, err := store.Users.GetByFirebaseUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	p := &domain.Principal{User: *u}
	if u.UserType == domain.RoleProfessional {
		pro, err := store.Professionals.GetByUserID(ctx, u.ID)
		switch {
		case err == nil:
			p.ProfessionalID = &pro.ID
		case errors.Is(err, domain.ErrNotFound):
			log.Warn().Int64("user_id", u.ID).Msg("professional user without profile")
		default:
			return nil, err
		}
	}
	return p, nil
}

func IdentityFrom(c *gin.Context) (*identity.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*identity.Identity)
	return id, ok && id != nil
}

func PrincipalFrom(c *gin.Context) (*domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok && p != nil
}

// MustPrincipal writes a 401 and returns false when no principal is loaded.
func MustPrincipal(c *gin.Context) (*domain.Principal, bool) {
	p, ok := PrincipalFrom(c)
	if !ok {
		response.AbortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return nil, false
	}
	return p, true
}
