package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	resolver := func(token string) (bool, error) {
		return token == "admin-token", nil
	}
	h := NewHandler(hub, resolver, "http://localhost:3000")

	r := gin.New()
	r.GET("/ws", h.ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestHandler_JoinAdminRequiresAdminToken(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv, "")

	require.NoError(t, conn.WriteJSON(map[string]string{"event": "join-admin"}))
	ev := readEvent(t, conn)
	assert.Equal(t, "error", ev.Name)
	assert.Equal(t, "Admin access required", ev.Data.(map[string]any)["message"])
}

func TestHandler_EventsReachJoinedClients(t *testing.T) {
	hub, srv := newTestServer(t)
	admin := dial(t, srv, "?token=admin-token")
	user := dial(t, srv, "")

	require.NoError(t, admin.WriteJSON(map[string]string{"event": "join-admin"}))
	assert.Equal(t, "joined", readEvent(t, admin).Name)
	require.NoError(t, user.WriteJSON(map[string]string{"event": "join-user"}))
	assert.Equal(t, "joined", readEvent(t, user).Name)

	NewLocalBroadcaster(hub).Emit("news-created", map[string]string{"title": "T"}, AllRooms...)

	for _, conn := range []*websocket.Conn{admin, user} {
		ev := readEvent(t, conn)
		assert.Equal(t, "news-created", ev.Name)
		assert.Equal(t, "T", ev.Data.(map[string]any)["title"])
	}

	NewLocalBroadcaster(hub).Emit("admin-profile-updated", map[string]string{"name": "A"}, RoomAdmin)
	assert.Equal(t, "admin-profile-updated", readEvent(t, admin).Name)

	require.NoError(t, user.WriteJSON(map[string]string{"event": "ping"}))
	assert.Equal(t, "pong", readEvent(t, user).Name)
}

func TestHandler_RejectsForeignOrigin(t *testing.T) {
	_, srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	header := map[string][]string{"Origin": {"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
}
