package matching

import (
	"fmt"
	"net/http"
	"testing"

	"toklen/internal/domain"
	"toklen/internal/identity"
	"toklen/internal/middleware"
	"toklen/internal/pkg/validator"
	"toklen/internal/testsupport"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_NearbyProfessionals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator.UseJSONNames()
	store := testsupport.NewStore(t)
	tokens := testsupport.DevTokens()

	router := gin.New()
	api := router.Group("/api")
	protected := api.Group("", middleware.Authenticate(identity.NewDevVerifier(tokens)), middleware.LoadPrincipal(store))
	NewHandler(NewService(store)).RegisterRoutes(api, protected)

	testsupport.CreateProfessional(t, store, testsupport.ProfessionalOpts{Lat: limaLat, Lng: limaLng, Available: true, Verified: true})

	w := testsupport.DoJSON(t, router, http.MethodGet, fmt.Sprintf("/api/professionals/nearby?latitude=%v&longitude=%v", limaLat, limaLng), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := testsupport.Decode(t, w)
	assert.Equal(t, 1.0, body["count"])
	assert.Equal(t, 10.0, body["radius_km"])

	w = testsupport.DoJSON(t, router, http.MethodGet, "/api/professionals/nearby?longitude=-77.03", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "latitude")

	w = testsupport.DoJSON(t, router, http.MethodGet, "/api/professionals/nearby?latitude=-12&longitude=-77&radius=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testsupport.DoJSON(t, router, http.MethodGet, "/api/professionals/nearby?latitude=-12&longitude=-77&radius=501", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testsupport.DoJSON(t, router, http.MethodGet, "/api/professionals/nearby?latitude=-12&longitude=-77&radius=500", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// feed requires a professional
	client := testsupport.CreateUser(t, store, domain.RoleClient)
	w = testsupport.DoJSON(t, router, http.MethodGet, "/api/services/nearby", testsupport.Token(t, tokens, client), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_NearbyProfessionals_RateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := testsupport.NewStore(t)

	router := gin.New()
	blocked := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTooManyRequests)
	}
	NewHandler(NewService(store)).RegisterRoutes(router.Group("/api"), nil, blocked)

	w := testsupport.DoJSON(t, router, http.MethodGet, "/api/professionals/nearby?latitude=1&longitude=1", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
