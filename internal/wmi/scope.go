package wmi

import (
	"log/slog"
	"sync"
)

// Scope guards the session for one command run. The session is acquired
// on the first Session call, so help output and argument errors never
// touch the service. Close releases whatever was acquired and is safe to
// defer unconditionally.
type Scope struct {
	provider Provider
	logger   *slog.Logger

	mu      sync.Mutex
	session Session
	err     error
	tried   bool
	closed  bool
}

func NewScope(p Provider, logger *slog.Logger) *Scope {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scope{provider: p, logger: logger}
}

// Session returns the live session, acquiring it on first use. A failed
// acquisition is not retried.
func (s *Scope) Session() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errScopeClosed
	}
	if !s.tried {
		s.tried = true
		s.session, s.err = s.provider.Acquire()
		if s.err != nil {
			s.logger.Debug("wmi session acquire failed", "err", s.err)
		} else {
			s.logger.Debug("wmi session acquired")
		}
	}
	return s.session, s.err
}

// Acquired reports whether a session is currently held.
func (s *Scope) Acquired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

func (s *Scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	s.logger.Debug("wmi session released")
	return err
}
