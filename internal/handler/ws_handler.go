package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/middleware"
	"github.com/stemsi/erp-portal/internal/response"
	"github.com/stemsi/erp-portal/internal/session"
	ws "github.com/stemsi/erp-portal/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams session changes to every open tab of a client.
type WSHandler struct {
	bus      session.Bus
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(bus session.Bus, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		bus:      bus,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/session
// Sends a snapshot of the client's session on connect and a "changed"
// event whenever the session is set or cleared, so other tabs can reload.
func (h *WSHandler) SessionStream(c *gin.Context) {
	store := middleware.GetStore(c)
	if store == nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidClientID)
		return
	}
	clientID := store.ClientID()

	// Subscribe before upgrading so no change between snapshot and
	// subscription is lost.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, unsubscribe, err := h.bus.Subscribe(ctx, clientID)
	if err != nil {
		h.log.Error().Err(err).Msg("Session subscription failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("client_id", clientID).Logger()
	wsLog.Debug().Msg("Session stream connected")

	if err := h.writeSnapshot(ctx, conn, store); err != nil {
		return
	}

	actions := make(chan ws.Action)
	go func() {
		defer cancel()
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			select {
			case actions <- msg.Action:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.ChangedResponse{
				Event:  ws.EventChanged,
				Change: string(ev.Type),
				Role:   string(ev.Role),
				At:     ev.At,
			}); err != nil {
				return
			}

		case action := <-actions:
			var err error
			switch action {
			case ws.ActionPing:
				err = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			case ws.ActionSnapshot:
				err = h.writeSnapshot(ctx, conn, store)
			default:
				wsLog.Warn().Str("action", string(action)).Msg("Unknown action")
				err = ws.WriteError(conn, "unknown action: "+string(action))
			}
			if err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) writeSnapshot(ctx context.Context, conn *websocket.Conn, store *session.Store) error {
	snap := ws.SnapshotResponse{Event: ws.EventSnapshot}
	if sess, ok := store.Session(ctx); ok {
		snap.LoggedIn = true
		snap.Role = string(sess.Role)
		snap.Identity = sess.IdentityLabel
	}
	return ws.WriteTyped(conn, snap)
}
