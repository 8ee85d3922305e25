package wstest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Server is a scripted room endpoint behind an httptest server. It accepts
// any path of the form /api/v1/{namespace}/ws/{roomID}?token=... and keeps
// every accepted connection until dropped or closed.
type Server struct {
	httpSrv  *httptest.Server
	upgrader websocket.Upgrader

	mu        sync.Mutex
	conns     []*websocket.Conn
	received  [][]byte
	paths     []string
	tokens    []string
	dials     int
	refuse    bool
	dialDelay time.Duration
}

// NewServer starts a scripted room server.
func NewServer() *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.httpSrv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	s.mu.Lock()
	s.dials++
	s.paths = append(s.paths, r.URL.Path)
	s.tokens = append(s.tokens, token)
	refuse := s.refuse
	delay := s.dialDelay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if refuse {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.conns = append(s.conns, conn)
	s.mu.Unlock()

	go s.readLoop(conn)
}

func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.remove(conn)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.received = append(s.received, data)
		s.mu.Unlock()
	}
}

func (s *Server) remove(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.conns {
		if c == conn {
			s.conns = append(s.conns[:i], s.conns[i+1:]...)
			return
		}
	}
}

// URL returns the ws:// origin to use as the client's BaseURL.
func (s *Server) URL() string {
	return "ws" + strings.TrimPrefix(s.httpSrv.URL, "http")
}

// Push broadcasts a JSON frame to every live connection.
func (s *Server) Push(v any) error {
	conns, err := s.waitConns()
	if err != nil {
		return err
	}
	for _, conn := range conns {
		if err := conn.WriteJSON(v); err != nil {
			return err
		}
	}
	return nil
}

// PushRaw broadcasts a raw text frame to every live connection.
func (s *Server) PushRaw(data []byte) error {
	conns, err := s.waitConns()
	if err != nil {
		return err
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return err
		}
	}
	return nil
}

// waitConns returns the live connections, waiting briefly for the first one.
// A client's dial can return before the server goroutine registers the
// connection, so an immediate snapshot would race freshly connected clients.
func (s *Server) waitConns() ([]*websocket.Conn, error) {
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		conns := append([]*websocket.Conn(nil), s.conns...)
		s.mu.Unlock()
		if len(conns) > 0 {
			return conns, nil
		}
		if time.Now().After(deadline) {
			return nil, errors.New("no live connections")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// Received returns copies of the frames clients have sent.
func (s *Server) Received() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.received))
	for i, data := range s.received {
		out[i] = append([]byte(nil), data...)
	}
	return out
}

// ReceivedCount returns the number of frames clients have sent.
func (s *Server) ReceivedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.received)
}

// DialCount returns how many upgrade requests arrived, refused ones included.
func (s *Server) DialCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dials
}

// ConnectionCount returns the number of currently live connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// LastPath returns the path of the most recent upgrade request.
func (s *Server) LastPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.paths) == 0 {
		return ""
	}
	return s.paths[len(s.paths)-1]
}

// LastToken returns the token query value of the most recent upgrade request.
func (s *Server) LastToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tokens) == 0 {
		return ""
	}
	return s.tokens[len(s.tokens)-1]
}

// SetDialDelay stalls upgrade handling, keeping a client's dial in flight
// long enough for tests to observe the connecting state.
func (s *Server) SetDialDelay(d time.Duration) {
	s.mu.Lock()
	s.dialDelay = d
	s.mu.Unlock()
}

// SetRefuse makes subsequent upgrade requests fail with a 503, simulating an
// unreachable server during reconnect attempts.
func (s *Server) SetRefuse(refuse bool) {
	s.mu.Lock()
	s.refuse = refuse
	s.mu.Unlock()
}

// DropConnections abruptly closes every live connection without a close
// handshake, simulating network failure.
func (s *Server) DropConnections() {
	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

// Close shuts the server and all connections down.
func (s *Server) Close() {
	s.DropConnections()
	s.httpSrv.Close()
}
