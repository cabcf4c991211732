package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/discograph/pkg/controller"
	apperr "github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/gateway"
	"github.com/matzehuels/discograph/pkg/layout"
)

// MemoryStore is an in-process [Store]. Sessions are lost on restart.
type MemoryStore struct {
	gw     gateway.Gateway
	cfg    layout.Config
	ttl    time.Duration
	logger *log.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates a store whose sessions query gw and lay out their
// graphs with cfg. A non-positive ttl uses [DefaultTTL].
func NewMemoryStore(gw gateway.Gateway, cfg layout.Config, ttl time.Duration, logger *log.Logger) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &MemoryStore{
		gw:       gw,
		cfg:      cfg,
		ttl:      ttl,
		logger:   logger,
		sessions: map[string]*Session{},
	}
}

func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	engine := layout.New(m.cfg)
	now := time.Now()
	id := newID()
	sess := &Session{
		ID:         id,
		CreatedAt:  now,
		Layout:     engine,
		Controller: controller.New(m.gw, engine, m.logger.With("session", id)),
		expiresAt:  now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	n := len(m.sessions)
	m.mu.Unlock()

	m.logger.Debug("session created", "id", sess.ID, "active", n)
	return sess, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || sess.IsExpired(time.Now()) {
		return nil, apperr.New(apperr.ErrCodeSessionNotFound, "session %q not found", id)
	}
	sess.touch(m.ttl)
	return sess, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Cleanup(ctx context.Context) (int, error) {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		if sess.IsExpired(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("expired sessions removed", "count", removed, "active", len(m.sessions))
	}
	return removed, nil
}

// Len returns the number of stored sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run calls Cleanup every interval until ctx is cancelled.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := m.Cleanup(ctx); err != nil {
				m.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
