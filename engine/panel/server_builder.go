package panel

import (
	"net/http"
	"time"
)

// ServerBuilderOption is a functional option used to configure a Server during construction.
type ServerBuilderOption func(*Server)

// WithAddr sets the listen address. Use "127.0.0.1:0" for an ephemeral port.
//
// Parameters:
//   - addr: the host:port to listen on
//
// Returns:
//   - ServerBuilderOption: a function that sets the listen address
func WithAddr(addr string) ServerBuilderOption {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithRefreshInterval sets how often connected clients are checked for a newer snapshot.
//
// Parameters:
//   - d: the polling interval, ignored if not positive
//
// Returns:
//   - ServerBuilderOption: a function that sets the refresh interval
func WithRefreshInterval(d time.Duration) ServerBuilderOption {
	return func(s *Server) {
		if d > 0 {
			s.refresh = d
		}
	}
}

// WithAllowedOrigin accepts websocket upgrades from any origin when allowAll is set. By default
// only same-origin pages may connect.
func WithAllowedOrigin(allowAll bool) ServerBuilderOption {
	return func(s *Server) {
		if allowAll {
			s.upgrader.CheckOrigin = func(*http.Request) bool { return true }
		}
	}
}
