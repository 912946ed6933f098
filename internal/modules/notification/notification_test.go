package notification

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"toklen/internal/domain"
	"toklen/internal/identity"
	"toklen/internal/middleware"
	"toklen/internal/modules/events"
	"toklen/internal/testsupport"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_StoresOnePerRecipient(t *testing.T) {
	store := testsupport.NewStore(t)
	client := testsupport.CreateUser(t, store, domain.RoleClient)
	proUser, _ := testsupport.CreateProfessional(t, store, testsupport.ProfessionalOpts{Available: true})

	rec := NewRecorder(store.Notifications)
	ev := events.Event{Type: events.ServiceStatusChanged, ServiceID: 42, Status: "completed", OccurredAt: time.Now()}
	rec.Publish(ev, client.ID, proUser.ID, client.ID, 0)

	ctx := context.Background()
	list, err := store.Notifications.ListByUser(ctx, client.ID, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "service.status_changed", list[0].Type)
	assert.Equal(t, "Service completed", list[0].Title)
	require.NotNil(t, list[0].ServiceID)
	assert.Equal(t, int64(42), *list[0].ServiceID)
	assert.False(t, list[0].IsRead)

	list, err = store.Notifications.ListByUser(ctx, proUser.ID, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDescribe(t *testing.T) {
	title, _ := describe(events.Event{Type: events.ServiceModerated, Status: "rejected"})
	assert.Equal(t, "Service rejected", title)

	title, _ = describe(events.Event{Type: events.ServiceModerated, Status: "approved"})
	assert.Equal(t, "Service approved", title)

	title, msg := describe(events.Event{Type: events.ServiceStatusChanged, Status: "weird"})
	assert.Equal(t, "Service updated", title)
	assert.Contains(t, msg, "weird")
}

func TestService_MarkRead(t *testing.T) {
	store := testsupport.NewStore(t)
	owner := testsupport.CreateUser(t, store, domain.RoleClient)
	other := testsupport.CreateUser(t, store, domain.RoleClient)
	NewRecorder(store.Notifications).Publish(events.Event{Type: events.ServiceCreated, ServiceID: 1}, owner.ID)
	NewRecorder(store.Notifications).Publish(events.Event{Type: events.ServiceAccepted, ServiceID: 1}, owner.ID)

	svc := NewService(store.Notifications)
	ctx := context.Background()

	list, unread, err := svc.List(ctx, owner.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), unread)
	assert.Equal(t, "service.accepted", list[0].Type, "newest first")

	assert.ErrorIs(t, svc.MarkRead(ctx, other.ID, list[0].ID), domain.ErrNotificationNotFound)

	require.NoError(t, svc.MarkRead(ctx, owner.ID, list[0].ID))
	require.NoError(t, svc.MarkRead(ctx, owner.ID, list[0].ID))
	_, unread, err = svc.List(ctx, owner.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	n, err := svc.MarkAllRead(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCleaner_RemovesOldReadOnly(t *testing.T) {
	store := testsupport.NewStore(t)
	u := testsupport.CreateUser(t, store, domain.RoleClient)
	rec := NewRecorder(store.Notifications)
	rec.Publish(events.Event{Type: events.ServiceCreated, ServiceID: 1}, u.ID)
	rec.Publish(events.Event{Type: events.ServiceCreated, ServiceID: 2}, u.ID)

	ctx := context.Background()
	list, err := store.Notifications.ListByUser(ctx, u.ID, 10)
	require.NoError(t, err)
	require.NoError(t, store.Notifications.MarkRead(ctx, list[0].ID, u.ID, time.Now()))

	cleaner := NewCleaner(store.Notifications, 24*time.Hour)
	cleaner.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	deleted, err := cleaner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	list, err = store.Notifications.ListByUser(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsRead)
}

func TestCleaner_StartStopsWithContext(t *testing.T) {
	store := testsupport.NewStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := NewCleaner(store.Notifications, time.Hour).Start(ctx, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}

func TestHandler_Notifications(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := testsupport.NewStore(t)
	tokens := testsupport.DevTokens()
	u := testsupport.CreateUser(t, store, domain.RoleClient)
	NewRecorder(store.Notifications).Publish(events.Event{Type: events.ServiceCreated, ServiceID: 9}, u.ID)

	router := gin.New()
	protected := router.Group("/api", middleware.Authenticate(identity.NewDevVerifier(tokens)), middleware.LoadPrincipal(store))
	NewHandler(NewService(store.Notifications)).RegisterRoutes(protected)
	token := testsupport.Token(t, tokens, u)

	w := testsupport.DoJSON(t, router, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := testsupport.Decode(t, w)
	assert.Equal(t, 1.0, body["unread_count"])
	items := body["notifications"].([]any)
	require.Len(t, items, 1)
	id := int64(items[0].(map[string]any)["id"].(float64))

	w = testsupport.DoJSON(t, router, http.MethodGet, "/api/notifications?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testsupport.DoJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testsupport.DoJSON(t, router, http.MethodPatch, "/api/notifications/999999/read", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testsupport.DoJSON(t, router, http.MethodPatch, "/api/notifications/read-all", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, testsupport.Decode(t, w)["updated"])
}
