package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// AdminResolver reports whether token belongs to an admin.
type AdminResolver func(token string) (bool, error)

type inbound struct {
	Event string `json:"event"`
}

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	isAdmin  AdminResolver
}

// NewHandler accepts upgrades from allowedOrigins and from clients that
// send no Origin header.
func NewHandler(hub *Hub, isAdmin AdminResolver, allowedOrigins ...string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub:     hub,
		isAdmin: isAdmin,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// ServeWS upgrades the request and runs the client's read loop.
func (h *Handler) ServeWS(c *gin.Context) {
	admin := false
	if token := c.Query("token"); token != "" && h.isAdmin != nil {
		ok, err := h.isAdmin(token)
		admin = err == nil && ok
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}

	client := newClient(conn, admin)
	if !h.hub.Register(client) {
		_ = conn.Close()
		return
	}
	go client.writePump()

	h.readLoop(client)
}

func (h *Handler) readLoop(client *Client) {
	defer h.hub.Unregister(client)

	conn := client.conn
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("websocket read error", "error", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reply(client, "error", gin.H{"message": "Malformed message"})
			continue
		}

		switch msg.Event {
		case "join-admin":
			if !client.isAdmin {
				h.reply(client, "error", gin.H{"message": "Admin access required"})
				continue
			}
			h.hub.Join(client, RoomAdmin)
			h.reply(client, "joined", gin.H{"room": RoomAdmin})
		case "join-user":
			h.hub.Join(client, RoomUser)
			h.reply(client, "joined", gin.H{"room": RoomUser})
		case "ping":
			h.reply(client, "pong", nil)
		default:
			h.reply(client, "error", gin.H{"message": "Unknown event"})
		}
	}
}

func (h *Handler) reply(client *Client, event string, data any) {
	frame, err := encodeEvent(event, data)
	if err != nil {
		return
	}
	h.hub.SendTo(client, frame)
}
