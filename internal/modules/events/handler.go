package events

import (
	"net/http"
	"time"

	"toklen/internal/identity"
	"toklen/internal/middleware"
	"toklen/internal/pkg/response"
	"toklen/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type Handler struct {
	hub      *Hub
	verifier identity.Verifier
	store    *repository.Store
	upgrader websocket.Upgrader
}

// NewHandler builds the websocket endpoint. An empty allowedOrigins list
// accepts any origin.
func NewHandler(hub *Hub, verifier identity.Verifier, store *repository.Store, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Handler{
		hub:      hub,
		verifier: verifier,
		store:    store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/ws", h.Connect)
}

// Connect authenticates with ?token= (browsers cannot set headers on a
// websocket handshake) and upgrades the connection.
func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "token query parameter is required")
		return
	}

	id, err := h.verifier.Verify(c.Request.Context(), token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	p, err := middleware.ResolvePrincipal(c, h.store, id.UID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", p.UserID()).Msg("websocket upgrade failed")
		return
	}

	userID := p.UserID()
	conn := h.hub.Register(userID, ws)
	log.Info().Int64("user_id", userID).Int("online", h.hub.OnlineCount()).Msg("websocket connected")

	h.readLoop(userID, conn)
}

// readLoop drains client frames until the socket closes. Clients only
// receive events; anything they send is ignored.
func (h *Handler) readLoop(userID int64, c *Client) {
	done := make(chan struct{})
	go h.pingLoop(c, done)

	defer func() {
		close(done)
		h.hub.Unregister(userID, c)
		log.Info().Int64("user_id", userID).Msg("websocket disconnected")
	}()

	c.ws.SetReadLimit(4096)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (h *Handler) pingLoop(c *Client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
