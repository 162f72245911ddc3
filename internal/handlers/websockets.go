package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"fhemview/internal/projection"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	readWait   = 120 * time.Second
	maxMsgSize = 1 << 12 // 4 KB
)

// wsRequest is one client message: a request for a projection. The token
// rides in the message because websocket clients cannot set headers after
// the upgrade.
type wsRequest struct {
	Type  string `json:"type"` // fetch | room
	Token string `json:"token"`
	Room  string `json:"room,omitempty"`
}

// wsEnvelope wraps every server reply.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket. Consider tightening CheckOrigin in production.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConnect serves projections on demand over one websocket connection.
// Every reply answers a client request; nothing is pushed unsolicited.
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
		if err := h.answer(conn, req); err != nil {
			if h.log != nil {
				h.log.Infow("ws_write_failed", "err", err)
			}
			return
		}
	}
}

// answer resolves one request and writes exactly one reply envelope.
func (h *Handler) answer(conn *websocket.Conn, req wsRequest) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

	_, tags, err := h.services.ParseToken(req.Token)
	if err != nil {
		return conn.WriteJSON(wsEnvelope{Type: "error", Error: "invalid or expired token"})
	}
	perms := projection.NewPermissionSet(tags...)

	switch req.Type {
	case "fetch":
		v, err := h.services.View(perms)
		if err != nil {
			return conn.WriteJSON(wsEnvelope{Type: "error", Error: errNoSnapshot})
		}
		return conn.WriteJSON(wsEnvelope{Type: "model", Data: v})
	case "room":
		rv, ok, err := h.services.Room(req.Room, perms)
		if err != nil {
			return conn.WriteJSON(wsEnvelope{Type: "error", Error: errNoSnapshot})
		}
		if !ok {
			return conn.WriteJSON(wsEnvelope{Type: "error", Error: errRoomNotFound})
		}
		return conn.WriteJSON(wsEnvelope{Type: "room", Data: rv})
	default:
		return conn.WriteJSON(wsEnvelope{Type: "error", Error: "unknown request type"})
	}
}
