package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/zynerotech/apiserver/logger"
)

const (
	// writeTimeout is the deadline for a single write to a peer.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong before treating the peer as gone.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-peer outgoing queue depth.
	sendBufSize = 16

	maxMessageSize = 512
)

// Message is the frame written to peers.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub manages WebSocket peers joined to the default room.
type Hub struct {
	origins []string
	log     *logger.Logger

	mu    sync.RWMutex
	peers map[*peer]struct{}
}

type peer struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a Hub accepting upgrades from origins ("*" or empty = any).
func NewHub(cfg Config, log *logger.Logger) *Hub {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &Hub{
		origins: cfg.Origins,
		log:     log.WithField("component", "notify"),
		peers:   make(map[*peer]struct{}),
	}
}

// Handler returns the Fiber handler that upgrades a request to a peer
// connection. Plain HTTP requests get 426 Upgrade Required.
func (h *Hub) Handler() fiber.Handler {
	upgrade := websocket.New(h.serve, websocket.Config{
		Origins:          h.origins,
		HandshakeTimeout: writeTimeout,
	})
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}

// Emit writes payload to every peer in room. Peers whose queue is full are
// disconnected.
func (h *Hub) Emit(room string, payload any) error {
	if room != DefaultRoom {
		return fmt.Errorf("%w: %s", ErrUnknownRoom, room)
	}

	data, err := sonic.Marshal(Message{Event: room, Data: payload})
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	var slow []*peer
	h.mu.RLock()
	for p := range h.peers {
		select {
		case p.send <- data:
		default:
			slow = append(slow, p)
		}
	}
	h.mu.RUnlock()

	for _, p := range slow {
		h.log.Warn().Str("peer", p.id).Msg("Dropping slow peer")
		h.unregister(p)
	}
	return nil
}

// Count returns the number of connected peers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Close disconnects every peer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		close(p.send)
		delete(h.peers, p)
	}
}

// serve runs for the lifetime of one connection. The connection is released
// by the websocket middleware when serve returns, so the write pump must have
// stopped by then.
func (h *Hub) serve(conn *websocket.Conn) {
	p := &peer{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	h.register(p)
	h.log.Debug().Str("peer", p.id).Str("ip", conn.IP()).Msg("Peer joined room " + DefaultRoom)

	done := make(chan struct{})
	go func() {
		p.writePump()
		close(done)
	}()

	p.readPump()
	h.unregister(p)
	<-done
	h.log.Debug().Str("peer", p.id).Msg("Peer left")
}

func (h *Hub) register(p *peer) {
	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(p *peer) {
	h.mu.Lock()
	if _, ok := h.peers[p]; ok {
		delete(h.peers, p)
		close(p.send)
	}
	h.mu.Unlock()
}

func (p *peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump handles pong and close frames. Peers are not expected to send data.
func (p *peer) readPump() {
	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			return
		}
	}
}
