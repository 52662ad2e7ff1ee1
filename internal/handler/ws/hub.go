package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"PatternScan/internal/domain/models"
	drepo "PatternScan/internal/domain/repository"
	svcmetrics "PatternScan/internal/service/metrics"
	"PatternScan/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 4
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes every completed scan snapshot to connected websocket clients.
// A client that cannot keep up is dropped rather than blocking the scan loop.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	log     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	svcmetrics.Register()
	return &Hub{clients: make(map[*client]struct{}), log: log}
}

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/scan", h.Serve)
}

// Serve upgrades the connection and replays the latest snapshot, if any.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", logger.Error(err))
		return nil
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	if h.last != nil {
		cl.send <- h.last
	}
	n := len(h.clients)
	h.mu.Unlock()
	svcmetrics.WSClients.Inc()
	h.log.Info("websocket client connected", logger.String("remote", c.RealIP()), logger.Int("clients", n))

	go h.writePump(cl)
	h.readPump(cl)
	return nil
}

// Broadcast encodes snap once and queues it for every client.
func (h *Hub) Broadcast(snap *models.ScanSnapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		h.log.Error("encode snapshot", logger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = b
	for cl := range h.clients {
		select {
		case cl.send <- b:
		default:
			h.log.Warn("dropping slow websocket client")
			h.removeLocked(cl)
		}
	}
}

// Clients reports the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		h.removeLocked(cl)
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	h.removeLocked(cl)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(cl *client) {
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	close(cl.send)
	svcmetrics.WSClients.Dec()
}

// readPump discards client frames; it exists to process control frames and
// notice disconnects.
func (h *Hub) readPump(cl *client) {
	defer func() {
		h.remove(cl)
		_ = cl.conn.Close()
	}()
	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var _ drepo.SnapshotSink = (*Hub)(nil)
