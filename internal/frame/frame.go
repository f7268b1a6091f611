// Package frame tracks whether the process embedding poapmint has been told
// the client is ready.
//
// A host passes a unix datagram socket path, either as POAP_FRAME_NOTIFY_SOCKET
// or as the systemd NOTIFY_SOCKET; Ready sends READY=1 to it over the
// sd_notify protocol. Without a socket the client runs standalone and
// readiness is local state only.
package frame

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/coreos/go-systemd/v22/daemon"
)

// notifyEnv is read by daemon.SdNotify; it is process-wide, so sends are
// serialized.
const notifyEnv = "NOTIFY_SOCKET"

var notifyMu sync.Mutex

// Host is the embedding environment.
type Host interface {
	IsReady() bool
	Ready(ctx context.Context) error
}

// Session is a Host backed by an optional notify socket.
type Session struct {
	socket string

	mu      sync.Mutex
	ready   bool
	signals int
}

// NewSession creates a session. An empty socket falls back to NOTIFY_SOCKET
// when the process runs under a supervisor that sets it.
func NewSession(socket string) *Session {
	return &Session{socket: socket}
}

// IsReady reports whether readiness has been signalled successfully.
func (s *Session) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Signals returns how many times Ready has notified the host.
func (s *Session) Signals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signals
}

// Ready notifies the host. Every call sends; callers decide when to call.
func (s *Session) Ready(ctx context.Context) error {
	s.mu.Lock()
	s.signals++
	s.mu.Unlock()

	if err := notify(ctx, s.socket, daemon.SdNotifyReady); err != nil {
		return err
	}

	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	return nil
}

func notify(ctx context.Context, socket, state string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	notifyMu.Lock()
	defer notifyMu.Unlock()

	if socket != "" {
		prev, had := os.LookupEnv(notifyEnv)
		if err := os.Setenv(notifyEnv, socket); err != nil {
			return fmt.Errorf("frame notify %s: %w", socket, err)
		}
		defer func() {
			if had {
				_ = os.Setenv(notifyEnv, prev)
			} else {
				_ = os.Unsetenv(notifyEnv)
			}
		}()
	}

	if _, err := daemon.SdNotify(false, state); err != nil {
		return fmt.Errorf("frame notify %s: %w", os.Getenv(notifyEnv), err)
	}
	return nil
}
