package surface

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"

	"metromap/pkg/metrics"
)

const (
	DefaultSessionTTL  = 10 * time.Minute
	DefaultMaxSessions = 1000
)

type StoreConfig struct {
	TTL         time.Duration
	MaxSessions int
	Session     SessionConfig
}

// Store keeps viewer sessions in an LRU cache. Sessions expire after TTL
// without interaction; an evicted session has its panel loop stopped.
type Store struct {
	base   context.Context
	source PredictionSource
	config StoreConfig
	cache  gcache.Cache
}

func NewStore(base context.Context, source PredictionSource, config StoreConfig) *Store {
	if config.TTL <= 0 {
		config.TTL = DefaultSessionTTL
	}
	if config.MaxSessions <= 0 {
		config.MaxSessions = DefaultMaxSessions
	}

	st := &Store{
		base:   base,
		source: source,
		config: config,
	}
	st.cache = gcache.New(config.MaxSessions).
		LRU().
		Expiration(config.TTL).
		EvictedFunc(func(key, value interface{}) {
			if s, ok := value.(*Session); ok {
				s.Close()
				metrics.SessionsActive.Add(base, -1)
				slog.Debug("Session evicted", "session", key)
			}
		}).
		Build()
	return st
}

// Create starts a new session with a random id.
func (st *Store) Create() *Session {
	s := NewSession(st.base, uuid.NewString(), st.source, st.config.Session)
	_ = st.cache.Set(s.ID, s)
	metrics.SessionsActive.Add(st.base, 1)
	st.config.Session.Collector.SetSessions(st.Len())
	return s
}

// Get returns a live session and extends its lifetime.
func (st *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	v, err := st.cache.Get(id)
	if err != nil {
		if !errors.Is(err, gcache.KeyNotFoundError) {
			slog.Warn("Session lookup failed", "session", id, "error", err)
		}
		return nil, false
	}
	s := v.(*Session)
	_ = st.cache.Set(id, s)
	return s, true
}

// GetOrCreate returns the session for id, or a fresh one when id is
// unknown or expired. created reports which.
func (st *Store) GetOrCreate(id string) (s *Session, created bool) {
	if s, ok := st.Get(id); ok {
		return s, false
	}
	return st.Create(), true
}

// Remove ends a session.
func (st *Store) Remove(id string) {
	st.cache.Remove(id)
	st.config.Session.Collector.SetSessions(st.Len())
}

// Len returns the number of unexpired sessions.
func (st *Store) Len() int {
	return st.cache.Len(true)
}

// Sweep evicts expired sessions so their loops stop even if the viewer
// never comes back.
func (st *Store) Sweep() {
	for _, k := range st.cache.Keys(false) {
		_, _ = st.cache.GetIFPresent(k)
	}
	st.config.Session.Collector.SetSessions(st.Len())
}

// Run sweeps expired sessions every interval until ctx is done, then
// closes every remaining session.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			st.closeAll()
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}

// closeAll ends every session and waits for fetches of their stopped
// panels to return.
func (st *Store) closeAll() {
	var sessions []*Session
	for k, v := range st.cache.GetALL(false) {
		if s, ok := v.(*Session); ok {
			sessions = append(sessions, s)
		}
		st.cache.Remove(k)
	}
	for _, s := range sessions {
		s.Drain()
	}
}
