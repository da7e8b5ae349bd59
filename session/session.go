// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-ask/flow"
	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/rs/zerolog"
)

const (
	// DefaultTTL is how long an idle session survives.
	DefaultTTL = 30 * time.Minute

	// DefaultSweepInterval is how often expired sessions are removed.
	DefaultSweepInterval = time.Minute
)

type Kind int

const (
	KindAuthoring Kind = iota + 1
	KindManage
)

func (k Kind) String() string {
	switch k {
	case KindAuthoring:
		return "authoring"
	case KindManage:
		return "manage"
	default:
		return "unknown"
	}
}

// Key identifies one operator in one chat.
type Key struct {
	ChatID int64
	UserID int64
}

// Session is the ephemeral state of one operator flow. Fields may only be
// touched between Acquire and Release.
type Session struct {
	mu sync.Mutex

	Kind      Kind
	Authoring flow.Authoring
	Manage    flow.Manage

	// Menu is the message the management flow edits in place.
	Menu models.MessageRef

	touched time.Time
	ended   bool
}

// Registry holds the live sessions keyed by operator.
type Registry struct {
	mu    sync.Mutex
	items map[Key]*Session

	ttl     time.Duration
	now     func() time.Time
	log     zerolog.Logger
	metrics *metrics.Metrics
}

type Options struct {
	TTL     time.Duration
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func NewRegistry(opts Options) *Registry {
	r := &Registry{
		items:   make(map[Key]*Session),
		ttl:     opts.TTL,
		now:     opts.Now,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
	if r.ttl <= 0 {
		r.ttl = DefaultTTL
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Start begins a new session for key, replacing any running one. The new
// session is returned locked; call Release when done with it.
func (r *Registry) Start(key Key, kind Kind) *Session {
	s := &Session{Kind: kind, touched: r.now()}
	s.mu.Lock()

	r.mu.Lock()
	old := r.items[key]
	r.items[key] = s
	n := len(r.items)
	r.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.ended = true
		old.mu.Unlock()
		r.log.Debug().Int64("chat_id", key.ChatID).Int64("user_id", key.UserID).
			Str("replaced", old.Kind.String()).Msg("session replaced")
	}
	r.metrics.SetSessions(n)
	return s
}

// Acquire locks and returns the live session for key. ok is false when there
// is none or it has expired.
func (r *Registry) Acquire(key Key) (*Session, bool) {
	r.mu.Lock()
	s := r.items[key]
	r.mu.Unlock()
	if s == nil {
		return nil, false
	}

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return nil, false
	}
	if r.expired(s) {
		r.endLocked(key, s)
		s.mu.Unlock()
		r.log.Debug().Int64("chat_id", key.ChatID).Int64("user_id", key.UserID).Msg("session expired")
		return nil, false
	}
	return s, true
}

// Release marks activity on s and unlocks it.
func (r *Registry) Release(s *Session) {
	s.touched = r.now()
	s.mu.Unlock()
}

// End removes s if it is still the session for key. s must be held.
func (r *Registry) End(key Key, s *Session) {
	r.endLocked(key, s)
}

func (r *Registry) endLocked(key Key, s *Session) {
	s.ended = true
	r.mu.Lock()
	if r.items[key] == s {
		delete(r.items, key)
	}
	n := len(r.items)
	r.mu.Unlock()
	r.metrics.SetSessions(n)
}

func (r *Registry) expired(s *Session) bool {
	return r.now().Sub(s.touched) > r.ttl
}

// Sweep removes expired sessions and returns how many went. Sessions busy
// handling an event are skipped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, s := range r.items {
		if !s.mu.TryLock() {
			continue
		}
		if s.ended || r.expired(s) {
			s.ended = true
			delete(r.items, key)
			removed++
		}
		s.mu.Unlock()
	}
	r.metrics.SetSessions(len(r.items))
	return removed
}

// EndKind ends every live session of kind and returns how many ended. It
// waits for sessions that are handling an event; the caller must not hold one.
func (r *Registry) EndKind(kind Kind) int {
	type entry struct {
		key Key
		s   *Session
	}
	r.mu.Lock()
	var live []entry
	for key, s := range r.items {
		live = append(live, entry{key, s})
	}
	r.mu.Unlock()

	n := 0
	for _, e := range live {
		e.s.mu.Lock()
		if !e.s.ended && e.s.Kind == kind {
			r.endLocked(e.key, e.s)
			n++
		}
		e.s.mu.Unlock()
	}
	return n
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Info().Int("expired", n).Msg("expired sessions removed")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
