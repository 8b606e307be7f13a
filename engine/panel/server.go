package panel

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

//go:embed assets/index.html
var indexPage []byte

// Message is the JSON envelope exchanged over /ws. The server sends "state" and "error";
// clients send "set" and "invoke".
type Message struct {
	Type  string    `json:"type"`
	ID    string    `json:"id,omitempty"`
	Value any       `json:"value"`
	State *Snapshot `json:"state,omitempty"`
	Error string    `json:"error,omitempty"`
}

// Server exposes a GUI to browsers: "/" serves the panel page, "/state" the published snapshot
// as JSON, and "/ws" streams snapshots and accepts edits. Edits are queued on the GUI and take
// effect at its next Flush.
type Server struct {
	gui      *GUI
	addr     string
	refresh  time.Duration
	upgrader websocket.Upgrader

	mu       sync.Mutex
	listener net.Listener
	conns    map[*websocket.Conn]struct{}
	closing  bool
	wg       sync.WaitGroup
}

// NewServer creates a panel server for gui. Call ListenAndServe to start it, or mount Handler
// on an existing mux.
//
// Parameters:
//   - gui: the panel to expose
//   - options: variadic list of ServerBuilderOption functions to configure the server
//
// Returns:
//   - *Server: the server
func NewServer(gui *GUI, options ...ServerBuilderOption) *Server {
	s := &Server{
		gui:     gui,
		addr:    "127.0.0.1:8090",
		refresh: 100 * time.Millisecond,
		conns:   make(map[*websocket.Conn]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Handler returns the HTTP routes for the panel.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.HandleFunc("/state", s.serveState)
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// Addr returns the bound address once ListenAndServe is running, or the configured address.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ListenAndServe serves the panel until ctx is cancelled, then closes every client.
//
// Parameters:
//   - ctx: cancelling it shuts the server down
//
// Returns:
//   - error: an error if the listener could not be opened or serving failed
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		// Shutdown does not track hijacked connections; stop accepting them before Serve returns.
		s.closeConns()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[Panel] serving on http://%s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("panel server failed: %w", err)
	}
	s.wg.Wait()
	return nil
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}

func (s *Server) serveState(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.gui.Published()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		log.Printf("[Panel] failed to encode state: %v", err)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Panel] websocket upgrade failed: %v", err)
		return
	}
	if !s.track(conn) {
		conn.Close()
		return
	}
	defer s.untrack(conn)

	// gorilla connections allow one writer; the reader hands replies to this goroutine.
	replies := make(chan Message, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[Panel] client read failed: %v", err)
				}
				return
			}
			if reply, ok := s.handle(msg); ok {
				select {
				case replies <- reply:
				default:
				}
			}
		}
	}()

	snap, sent := s.gui.Published()
	if err := conn.WriteJSON(Message{Type: "state", State: &snap}); err != nil {
		return
	}

	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case reply := <-replies:
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		case <-ticker.C:
			snap, version := s.gui.Published()
			if version == sent {
				continue
			}
			sent = version
			if err := conn.WriteJSON(Message{Type: "state", State: &snap}); err != nil {
				return
			}
		}
	}
}

// handle queues a client edit. It returns a reply when the client should hear back.
func (s *Server) handle(msg Message) (Message, bool) {
	var err error
	switch msg.Type {
	case "set":
		err = s.gui.Enqueue(msg.ID, msg.Value)
	case "invoke":
		err = s.gui.EnqueueInvoke(msg.ID)
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}
	if err != nil {
		return Message{Type: "error", ID: msg.ID, Error: err.Error()}, true
	}
	return Message{}, false
}

// track registers conn for shutdown. It reports false once the server is closing.
func (s *Server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
	s.wg.Done()
}

// closeConns closes every open client and rejects later ones.
func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closing = true
	for conn := range s.conns {
		conn.Close()
	}
}
