// Package stream broadcasts JSON snapshots to WebSocket clients.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	// ErrClosed is returned by Publish after Close.
	ErrClosed = errors.New("stream: hub closed")
	// ErrBacklogged is returned when the broadcast queue is full and the
	// message was dropped.
	ErrBacklogged = errors.New("stream: broadcast queue full")
)

const writeWait = 5 * time.Second

// Hub fans messages out to every connected client. The client set is owned
// by a single goroutine.
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	done       chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
	clients    atomic.Int32
}

// NewHub starts a hub. A nil logger discards output.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int { return int(h.clients.Load()) }

// Publish queues v, encoded as JSON, for every client. It never waits on
// slow clients: when the queue is full the message is dropped.
func (h *Hub) Publish(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	select {
	case <-h.done:
		return ErrClosed
	default:
	}
	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBacklogged
	}
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}
	// Clients only listen; reading detects the disconnect.
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

func (h *Hub) run() {
	defer h.wg.Done()
	clients := make(map[*websocket.Conn]struct{})
	drop := func(conn *websocket.Conn) {
		if _, ok := clients[conn]; ok {
			delete(clients, conn)
			conn.Close()
			h.clients.Store(int32(len(clients)))
		}
	}
	for {
		select {
		case <-h.done:
			for conn := range clients {
				drop(conn)
			}
			return
		case conn := <-h.register:
			clients[conn] = struct{}{}
			h.clients.Store(int32(len(clients)))
			h.log.Debug("websocket client connected", zap.String("remote", conn.RemoteAddr().String()))
		case conn := <-h.unregister:
			drop(conn)
		case msg := <-h.broadcast:
			for conn := range clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					h.log.Debug("websocket write failed", zap.Error(err))
					drop(conn)
				}
			}
		}
	}
}

// Close disconnects every client and stops the hub.
func (h *Hub) Close() error {
	h.closeOnce.Do(func() { close(h.done) })
	h.wg.Wait()
	return nil
}
