package user

import (
	"context"
	"net/http"
	"testing"

	"toklen/internal/domain"
	"toklen/internal/identity"
	"toklen/internal/middleware"
	"toklen/internal/pkg/jwt"
	"toklen/internal/pkg/validator"
	"toklen/internal/repository"
	"toklen/internal/testsupport"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *repository.Store, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.UseJSONNames()

	store := testsupport.NewStore(t)
	tokens := testsupport.DevTokens()
	verifier := identity.NewDevVerifier(tokens)

	router := gin.New()
	api := router.Group("/api")
	authOnly := api.Group("", middleware.Authenticate(verifier))
	protected := api.Group("", middleware.Authenticate(verifier), middleware.LoadPrincipal(store))
	NewHandler(NewService(store.Users)).RegisterRoutes(authOnly, protected)

	return router, store, tokens
}

func TestSync_CreatesThenRefreshes(t *testing.T) {
	router, store, tokens := setupRouter(t)
	token, err := tokens.GenerateToken("fb-ana", "Ana@Example.com", true)
	require.NoError(t, err)

	w := testsupport.DoJSON(t, router, http.MethodPost, "/api/users/sync", token, SyncRequest{DisplayName: "Ana"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := testsupport.Decode(t, w)
	assert.Equal(t, "User created successfully", body["message"])
	u := body["user"].(map[string]any)
	assert.Equal(t, "client", u["user_type"])
	assert.Equal(t, "ana@example.com", u["email"])

	w = testsupport.DoJSON(t, router, http.MethodPost, "/api/users/sync", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := store.Users.GetByFirebaseUID(context.Background(), "fb-ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.DisplayName)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestSync_RejectsShortDisplayName(t *testing.T) {
	router, _, tokens := setupRouter(t)
	token, _ := tokens.GenerateToken("fb-x", "x@example.com", true)

	w := testsupport.DoJSON(t, router, http.MethodPost, "/api/users/sync", token, SyncRequest{DisplayName: "A"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "displayName")
}

func TestMe_RequiresSyncedUser(t *testing.T) {
	router, _, tokens := setupRouter(t)
	token, _ := tokens.GenerateToken("fb-ghost", "ghost@example.com", true)

	w := testsupport.DoJSON(t, router, http.MethodGet, "/api/users/me", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", testsupport.Decode(t, w)["error"])
}

func TestUpdateMe(t *testing.T) {
	router, store, tokens := setupRouter(t)
	u := testsupport.CreateUser(t, store, domain.RoleClient)
	token := testsupport.Token(t, tokens, u)

	w := testsupport.DoJSON(t, router, http.MethodPatch, "/api/users/me", token, UpdateMeRequest{DisplayName: "María Quispe"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := store.Users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "María Quispe", got.DisplayName)
}

func TestService_Sync_DisabledUser(t *testing.T) {
	store := testsupport.NewStore(t)
	u := testsupport.CreateUser(t, store, domain.RoleClient)
	require.NoError(t, store.DB().Table("users").Where("id = ?", u.ID).Update("is_active", false).Error)

	_, _, err := NewService(store.Users).Sync(context.Background(), &identity.Identity{UID: u.FirebaseUID, Email: u.Email}, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
