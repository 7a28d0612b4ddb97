package ops

import (
	"context"
	"crypto/sha1"
	"fmt"
	"sync"
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/luno/netsim/api"
	"github.com/luno/netsim/server/ops/config"
)

// Sessions is the registry of open simulator sessions.
type Sessions struct {
	ctx       context.Context
	cfg       config.Config
	store     NetworkStore
	scenarios *ScenarioCatalog
	opts      []SessionOption

	mu       sync.Mutex
	seq      int64
	sessions map[string]*Session
	seen     map[string]time.Time
	now      func() time.Time
}

// NewSessions returns an empty registry. ctx bounds every session's runner.
func NewSessions(ctx context.Context, cfg config.Config, store NetworkStore,
	scenarios *ScenarioCatalog, opts ...SessionOption,
) *Sessions {
	return &Sessions{
		ctx:       ctx,
		cfg:       cfg,
		store:     store,
		scenarios: scenarios,
		opts:      opts,
		sessions:  make(map[string]*Session),
		seen:      make(map[string]time.Time),
		now:       time.Now,
	}
}

func (ss *Sessions) Scenarios() *ScenarioCatalog {
	return ss.scenarios
}

func (ss *Sessions) newID() string {
	ss.seq++
	h := sha1.New()
	_, _ = fmt.Fprintln(h, ss.seq, time.Now().UnixNano())
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Create opens a session seeded with devices. Their connection sets are
// rebuilt, so any ids they reference are dropped.
func (ss *Sessions) Create(ctx context.Context, devices []api.Device) *Session {
	ss.mu.Lock()
	id := ss.newID()
	for ss.sessions[id] != nil {
		id = ss.newID()
	}
	s := NewSession(ss.ctx, id, ss.cfg, ss.store, ss.scenarios, ss.opts...)
	s.topo.Replace(devices, nil)
	ss.sessions[id] = s
	ss.seen[id] = ss.now()
	activeSessions.Set(float64(len(ss.sessions)))
	ss.mu.Unlock()

	log.Info(ctx, "session created", j.MKV{"session": id, "devices": len(devices)})
	return s
}

func (ss *Sessions) Get(id string) (*Session, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.sessions[id]
	if !ok {
		return nil, errors.Wrap(ErrSessionNotFound, "", j.KV("session", id))
	}
	ss.seen[id] = ss.now()
	return s, nil
}

// Close stops the session's runner and forgets it.
func (ss *Sessions) Close(ctx context.Context, id string) error {
	ss.mu.Lock()
	s, ok := ss.sessions[id]
	delete(ss.sessions, id)
	delete(ss.seen, id)
	activeSessions.Set(float64(len(ss.sessions)))
	ss.mu.Unlock()
	if !ok {
		return errors.Wrap(ErrSessionNotFound, "", j.KV("session", id))
	}

	log.Info(ctx, "session closed", j.KV("session", id))
	return s.Close(ctx)
}

// CloseAll closes every open session.
func (ss *Sessions) CloseAll(ctx context.Context) {
	ss.mu.Lock()
	var ids []string
	for id := range ss.sessions {
		ids = append(ids, id)
	}
	ss.mu.Unlock()

	for _, id := range ids {
		if err := ss.Close(ctx, id); err != nil {
			log.Error(ctx, err)
		}
	}
}

// Sweep closes every session not fetched within the idle timeout and
// returns how many it closed.
func (ss *Sessions) Sweep(ctx context.Context) int {
	timeout := ss.cfg.Sessions.IdleTimeout
	if timeout <= 0 {
		return 0
	}
	ss.mu.Lock()
	now := ss.now()
	var idle []*Session
	for id, t := range ss.seen {
		if now.Sub(t) <= timeout {
			continue
		}
		idle = append(idle, ss.sessions[id])
		delete(ss.sessions, id)
		delete(ss.seen, id)
	}
	activeSessions.Set(float64(len(ss.sessions)))
	ss.mu.Unlock()

	for _, s := range idle {
		log.Info(ctx, "session expired", j.KV("session", s.ID()))
		if err := s.Close(ctx); err != nil {
			log.Error(ctx, errors.Wrap(err, "close idle session", j.KV("session", s.ID())))
		}
	}
	return len(idle)
}

// RunSweeper sweeps idle sessions every sweep period until ctx is done.
func (ss *Sessions) RunSweeper(ctx context.Context) {
	if ss.cfg.Sessions.IdleTimeout <= 0 {
		return
	}
	t := time.NewTicker(ss.cfg.Sessions.SweepPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := ss.Sweep(ctx); n > 0 {
				log.Info(ctx, "swept idle sessions", j.KV("count", n))
			}
		}
	}
}
