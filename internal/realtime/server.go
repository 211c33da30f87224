// Package realtime pushes bus events to browser clients over WebSocket.
//
// fasthttp cannot hand a hijacked connection to the websocket library, so
// the realtime feed runs on its own net/http listener next to the API
// server.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/bus"
)

const writeTimeout = 5 * time.Second

// Message is the frame sent to every connected client.
type Message struct {
	Collection string          `json:"collection"`
	Source     string          `json:"source"`
	Timestamp  time.Time       `json:"timestamp"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// Server accepts WebSocket clients and fans bus events out to them.
type Server struct {
	addr     string
	listener net.Listener
	server   *http.Server

	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	broadcast   chan Message
	unsubscribe []func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *zap.Logger
}

func NewServer(port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      fmt.Sprintf(":%d", port),
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Message, 100),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}
}

// Attach subscribes the server to every collection on the bus. Events from
// other processes are forwarded too, so a browser sees cross-node changes.
func (s *Server) Attach(b *bus.Bus) {
	for _, collection := range domain.Collections() {
		collection := collection
		unsub := b.Subscribe(collection, func(ev bus.Event) {
			s.enqueue(Message{
				Collection: string(ev.Collection),
				Source:     string(ev.Source),
				Timestamp:  time.Now().UTC(),
				Data:       ev.Data,
			})
		})
		s.unsubscribe = append(s.unsubscribe, unsub)
	}
}

// Start opens the listener and begins serving.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/realtime", s.handleWebSocket)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go s.broadcastLoop()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("realtime server listening", zap.String("addr", ln.Addr().String()))
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("realtime server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the bound listen address. Valid after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop detaches from the bus, closes clients, and shuts the listener down.
func (s *Server) Stop() error {
	for _, unsub := range s.unsubscribe {
		unsub()
	}
	s.unsubscribe = nil

	s.cancel()

	s.clientsMu.Lock()
	for conn := range s.clients {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(s.clients, conn)
	}
	s.clientsMu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("realtime shutdown: %w", err)
		}
	}

	s.wg.Wait()
	return nil
}

func (s *Server) enqueue(msg Message) {
	select {
	case s.broadcast <- msg:
	case <-s.ctx.Done():
	default:
		s.logger.Warn("realtime broadcast channel full, dropping message",
			zap.String("collection", msg.Collection))
	}
}

func (s *Server) broadcastLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return

		case msg := <-s.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				s.logger.Error("marshal realtime message", zap.Error(err))
				continue
			}

			s.clientsMu.RLock()
			conns := make([]*websocket.Conn, 0, len(s.clients))
			for conn := range s.clients {
				conns = append(conns, conn)
			}
			s.clientsMu.RUnlock()

			for _, conn := range conns {
				ctx, cancel := context.WithTimeout(s.ctx, writeTimeout)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					s.removeClient(conn)
				}
			}
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	total := len(s.clients)
	s.clientsMu.Unlock()

	s.logger.Info("realtime client connected", zap.Int("total", total))

	// Read loop: clients only listen, but reading surfaces disconnects.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.removeClient(conn)
		for {
			if _, _, err := conn.Read(s.ctx); err != nil {
				return
			}
		}
	}()
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}
	s.clientsMu.Unlock()
}
