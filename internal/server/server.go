package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"nhooyr.io/websocket"

	"github.com/lotas/salonreviews/internal/applog"
	"github.com/lotas/salonreviews/internal/metrics"
)

// Incoming message types sent by the front desk.
const (
	TypeSnapshot      = "snapshot"
	TypeArtistAdded   = "artist.added"
	TypeArtistUpdated = "artist.updated"
	TypeArtistRemoved = "artist.removed"
	TypeReviewAdded   = "review.added"
	TypeReviewHelpful = "review.helpful"
	TypeSelect        = "select"
)

// Outgoing actions.
const (
	ActionSelected = "selected"
	ActionError    = "error"
)

// IncomingMsg is a message from the front desk to the TUI.
type IncomingMsg struct {
	Type     string          `json:"type"`
	Artists  json.RawMessage `json:"artists,omitempty"`
	Reviews  json.RawMessage `json:"reviews,omitempty"`
	Artist   json.RawMessage `json:"artist,omitempty"`
	Review   json.RawMessage `json:"review,omitempty"`
	ArtistID string          `json:"artistId,omitempty"`
	ReviewID string          `json:"reviewId,omitempty"`
}

// OutgoingMsg is an event from the TUI to the front desk.
type OutgoingMsg struct {
	ID       string `json:"id"`
	Action   string `json:"action"`
	ArtistID string `json:"artistId,omitempty"`
	Heading  string `json:"heading,omitempty"`
	Count    int    `json:"count"`
	Average  string `json:"average,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Server manages the WebSocket connection to the front desk.
type Server struct {
	port    int
	msgs    chan IncomingMsg
	mu      sync.Mutex
	conn    *websocket.Conn
	connCtx context.Context
}

// New creates a new Server. Port 0 means the caller manages the listener.
func New(port int) *Server {
	return &Server{
		port: port,
		msgs: make(chan IncomingMsg, 64),
	}
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// Messages returns the channel of incoming messages.
func (s *Server) Messages() <-chan IncomingMsg {
	return s.msgs
}

// Connected reports whether a front desk client is connected.
func (s *Server) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Send sends an event to the connected client. It is a no-op without one.
func (s *Server) Send(msg OutgoingMsg) error {
	s.mu.Lock()
	conn := s.conn
	ctx := s.connCtx
	s.mu.Unlock()

	if conn == nil {
		return nil
	}

	applog.Info("ws.send", "action", msg.Action, "id", msg.ID)
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msg.Action, err)
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

// Handler returns an http.Handler that accepts WebSocket upgrades.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			applog.Error("ws.accept", err)
			return
		}

		conn.SetReadLimit(4 << 20) // 4 MB, enough for a full salon snapshot

		ctx := r.Context()
		s.mu.Lock()
		if s.conn != nil {
			applog.Info("ws.replaced")
			s.conn.CloseNow()
		}
		s.conn = conn
		s.connCtx = ctx
		s.mu.Unlock()

		applog.Info("ws.connected", "remote", r.RemoteAddr)

		defer func() {
			s.mu.Lock()
			if s.conn == conn {
				s.conn = nil
				s.connCtx = nil
			}
			s.mu.Unlock()
			conn.CloseNow()
			applog.Info("ws.disconnected")
		}()

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var msg IncomingMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				applog.Error("ws.parse", err)
				metrics.LiveMessages.WithLabelValues("invalid").Inc()
				continue
			}
			applog.Info("ws.recv", "type", msg.Type)
			metrics.LiveMessages.WithLabelValues(typeLabel(msg.Type)).Inc()
			select {
			case s.msgs <- msg:
			default:
				applog.Warn("ws.dropped", "type", msg.Type)
			}
		}
	})
}

func typeLabel(t string) string {
	switch t {
	case TypeSnapshot, TypeArtistAdded, TypeArtistUpdated, TypeArtistRemoved,
		TypeReviewAdded, TypeReviewHelpful, TypeSelect:
		return t
	}
	return "unknown"
}

// Mux serves the WebSocket feed on / and Prometheus metrics on /metrics.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", s.Handler())
	return mux
}

// ListenAndServe starts the server on the configured port and stops it when
// ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	applog.Info("server.start", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: s.Mux()}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	return srv.ListenAndServe()
}
