// Package wmitest provides an in-memory wmi.Provider for tests.
package wmitest

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"

	"github.com/zx06/wmicmd/internal/errors"
	"github.com/zx06/wmicmd/internal/wmi"
)

// Host is the canned behaviour of one host.
type Host struct {
	Objects    []wmi.Object
	ConnectErr error
	QueryErr   error
}

// Provider hands out sessions backed by Hosts and counts their lifetime.
// Hosts not in the map fail to connect.
type Provider struct {
	Hosts      map[string]Host
	AcquireErr error

	mu       sync.Mutex
	acquired int
	released int
	queries  []Call
}

// Call records one query.
type Call struct {
	Target wmi.Target
	WQL    string
	Top    int
}

func (p *Provider) Acquire() (wmi.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquired++
	if p.AcquireErr != nil {
		return nil, p.AcquireErr
	}
	return &session{p: p}, nil
}

// Acquired is the number of Acquire calls.
func (p *Provider) Acquired() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquired
}

// Released is the number of sessions closed.
func (p *Provider) Released() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

// Calls returns the queries run so far.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.queries...)
}

type session struct {
	p      *Provider
	closed bool
}

func (s *session) Connect(ctx context.Context, t wmi.Target) (wmi.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, ok := s.p.lookup(t.Host)
	if !ok {
		return nil, errors.Wrap(errors.CodeConnectFailed, "Failed to connect to '"+t.Host+"'", nil, stderrors.New("host unknown"))
	}
	if h.ConnectErr != nil {
		return nil, h.ConnectErr
	}
	return &conn{p: s.p, target: t, host: h}, nil
}

func (s *session) Close() error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.p.released++
	}
	return nil
}

func (p *Provider) lookup(host string) (Host, bool) {
	for name, h := range p.Hosts {
		if strings.EqualFold(name, host) {
			return h, true
		}
	}
	return Host{}, false
}

type conn struct {
	p      *Provider
	target wmi.Target
	host   Host
}

func (c *conn) Query(_ context.Context, wql string, opts wmi.QueryOptions) ([]wmi.Object, error) {
	c.p.mu.Lock()
	c.p.queries = append(c.p.queries, Call{Target: c.target, WQL: wql, Top: opts.Top})
	c.p.mu.Unlock()
	if c.host.QueryErr != nil {
		return nil, c.host.QueryErr
	}
	objs := c.host.Objects
	if opts.Top > 0 && len(objs) > opts.Top {
		objs = objs[:opts.Top]
	}
	return objs, nil
}

func (c *conn) Close() error { return nil }
