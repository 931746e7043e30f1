// SPDX-License-Identifier: MIT
package transport

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"player/internal/log"
)

// WebSocketTransport broadcasts status events as JSON to every connected
// websocket client. Slow clients are disconnected rather than allowed to
// stall the broadcast loop.
type WebSocketTransport struct {
	addr      string
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan any
	server    *http.Server
	done      chan struct{}
}

// NewWebSocketTransport starts an HTTP server on addr serving /status and
// returns the running transport.
func NewWebSocketTransport(addr string) *WebSocketTransport {
	t := &WebSocketTransport{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan any, 256),
		done:      make(chan struct{}),
	}
	t.start()
	return t
}

func (t *WebSocketTransport) start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", t.handleStatus)
	t.server = &http.Server{Addr: t.addr, Handler: mux}

	go func() {
		log.Infof("transport: status server listening on %s", t.addr)
		if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("transport: server error: %v", err)
		}
	}()
	go t.broadcastLoop()
}

func (t *WebSocketTransport) handleStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("transport: upgrade error: %v", err)
		return
	}

	t.clientsMu.Lock()
	t.clients[conn] = true
	n := len(t.clients)
	t.clientsMu.Unlock()
	log.Debugf("transport: client connected, total: %d", n)

	go func() {
		// Block until the peer goes away, then unregister.
		_, _, err := conn.ReadMessage()
		if err != nil {
			t.clientsMu.Lock()
			delete(t.clients, conn)
			t.clientsMu.Unlock()
			conn.Close()
			log.Debugf("transport: client disconnected")
		}
	}()
}

func (t *WebSocketTransport) broadcastLoop() {
	for {
		select {
		case <-t.done:
			return
		case data := <-t.broadcast:
			t.clientsMu.Lock()
			for client := range t.clients {
				if err := client.WriteJSON(data); err != nil {
					client.Close()
					delete(t.clients, client)
				}
			}
			t.clientsMu.Unlock()
		}
	}
}

// Send queues an event for broadcast. Drops the event if the queue is full
// so the playback thread never blocks on observers.
func (t *WebSocketTransport) Send(data any) error {
	select {
	case t.broadcast <- data:
	default:
	}
	return nil
}

// Close shuts down the server and every client connection.
func (t *WebSocketTransport) Close() error {
	close(t.done)

	t.clientsMu.Lock()
	for client := range t.clients {
		client.Close()
	}
	t.clients = make(map[*websocket.Conn]bool)
	t.clientsMu.Unlock()

	if t.server != nil {
		return t.server.Close()
	}
	return nil
}

var _ Transport = (*WebSocketTransport)(nil)
