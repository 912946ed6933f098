package server

import (
	"context"
	"net/http"
	"time"

	"toklen/internal/identity"
	"toklen/internal/middleware"
	"toklen/internal/modules/admin"
	"toklen/internal/modules/events"
	"toklen/internal/modules/matching"
	"toklen/internal/modules/notification"
	"toklen/internal/modules/professional"
	"toklen/internal/modules/rating"
	"toklen/internal/modules/servicereq"
	"toklen/internal/modules/user"
	"toklen/internal/pkg/ratelimit"
	"toklen/internal/pkg/response"
	"toklen/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const healthTimeout = 2 * time.Second

// Deps is everything the router needs. Limiter and Hub are optional.
type Deps struct {
	Store          *repository.Store
	Verifier       identity.Verifier
	Limiter        ratelimit.Limiter
	Hub            *events.Hub
	AllowedOrigins []string
}

// NewRouter wires every module onto a fresh gin engine.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.CORS(d.AllowedOrigins),
	)

	r.GET("/health", health(d.Store))

	// inbox first, then live push
	publisher := events.Fanout{notification.NewRecorder(d.Store.Notifications)}
	if d.Hub != nil {
		publisher = append(publisher, d.Hub)
	}

	api := r.Group("/api")
	authOnly := api.Group("", middleware.Authenticate(d.Verifier))
	protected := api.Group("", middleware.Authenticate(d.Verifier), middleware.LoadPrincipal(d.Store))
	adminGroup := protected.Group("/admin", middleware.AdminOnly())

	var nearbyGuards []gin.HandlerFunc
	if d.Limiter != nil {
		nearbyGuards = append(nearbyGuards, middleware.RateLimit(d.Limiter))
	}

	user.NewHandler(user.NewService(d.Store.Users)).RegisterRoutes(authOnly, protected)

	// matching first: /professionals/nearby and /services/nearby are static
	// siblings of the :id routes below
	matching.NewHandler(matching.NewService(d.Store)).RegisterRoutes(api, protected, nearbyGuards...)
	professional.NewHandler(professional.NewService(d.Store)).RegisterRoutes(api, protected)
	servicereq.NewHandler(servicereq.NewService(d.Store, publisher)).RegisterRoutes(api, protected)
	rating.NewHandler(rating.NewService(d.Store, publisher)).RegisterRoutes(protected)

	admin.NewHandler(admin.NewService(d.Store.Services, d.Store.Professionals, d.Store.Users, publisher)).
		RegisterRoutes(adminGroup)

	notification.NewHandler(notification.NewService(d.Store.Notifications)).RegisterRoutes(protected)

	if d.Hub != nil {
		events.NewHandler(d.Hub, d.Verifier, d.Store, d.AllowedOrigins).RegisterRoutes(api)
	}

	return r
}

func health(store *repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("health check failed")
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	}
}
