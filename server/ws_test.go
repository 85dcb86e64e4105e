package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hassaanj79/MoneyDesk.co-sub001/insight"
)

func dialTestServer(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketInsight(t *testing.T) {
	conn := dialTestServer(t, newTestServer(t, Config{}))

	req := sampleRequest()
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "insight", Request: &req}))

	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "insight", msg.Type)
	require.NotNil(t, msg.Insight)
	assert.NotEmpty(t, msg.Insight.Summary)
	assert.LessOrEqual(t, len(msg.Insight.Highlights), insight.MaxHighlights)
}

func TestWebSocketInsightValidation(t *testing.T) {
	conn := dialTestServer(t, newTestServer(t, Config{}))

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "insight"}))

	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Content, "required")
}

func TestWebSocketPing(t *testing.T) {
	conn := dialTestServer(t, newTestServer(t, Config{}))

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "ping"}))

	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "pong", msg.Type)
}

func TestWebSocketUnknownType(t *testing.T) {
	conn := dialTestServer(t, newTestServer(t, Config{}))

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "mystery"}))

	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Content, "mystery")
}
