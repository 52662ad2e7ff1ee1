package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PatternScan/internal/domain/models"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(nil)
	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/scan"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) models.ScanSnapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var snap models.ScanSnapshot
	require.NoError(t, json.Unmarshal(msg, &snap))
	return snap
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, url)
	b := dial(t, url)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 5*time.Millisecond)

	hub.Broadcast(&models.ScanSnapshot{Timeframe: "15m", Rows: []models.ScanRow{{Symbol: "BTCUSDT"}}})

	for _, conn := range []*websocket.Conn{a, b} {
		snap := readSnapshot(t, conn)
		assert.Equal(t, "15m", snap.Timeframe)
		require.Len(t, snap.Rows, 1)
		assert.Equal(t, "BTCUSDT", snap.Rows[0].Symbol)
	}
}

func TestHub_ReplaysLatestOnConnect(t *testing.T) {
	hub, url := startHub(t)
	hub.Broadcast(&models.ScanSnapshot{Timeframe: "1h"})

	conn := dial(t, url)
	assert.Equal(t, "1h", readSnapshot(t, conn).Timeframe)
}

func TestHub_ForgetsClosedClients(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)
}
