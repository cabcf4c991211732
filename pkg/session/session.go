// Package session keeps one interaction controller and layout engine per
// browser client.
//
// A [Session] pairs a [controller.Controller] with the [layout.Engine] it
// feeds, so every client explores its own graph. Sessions live in memory and
// expire after an idle TTL; any access refreshes the deadline.
//
// # Usage
//
//	store := session.NewMemoryStore(gw, layout.DefaultConfig(), session.DefaultTTL, logger)
//	go store.Run(ctx, time.Minute) // janitor
//
//	sess, _ := store.Create(ctx)
//	sess.Controller.SelectArtist(ctx, "123")
//	sess.Stream(ctx, func(s layout.Snapshot) { ... })
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/discograph/pkg/controller"
	apperr "github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/layout"
)

// DefaultTTL is the default idle lifetime of a session.
const DefaultTTL = 30 * time.Minute

// Session is one client's graph exploration.
type Session struct {
	ID         string
	CreatedAt  time.Time
	Controller *controller.Controller
	Layout     *layout.Engine

	mu        sync.Mutex
	expiresAt time.Time
	streaming bool
}

// ExpiresAt returns the current idle deadline.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// IsExpired reports whether the session has been idle past its deadline.
// A session with a live stream never expires.
func (s *Session) IsExpired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.streaming && now.After(s.expiresAt)
}

func (s *Session) touch(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = time.Now().Add(ttl)
}

// Graph returns the current graph with the engine's positions applied.
func (s *Session) Graph() *graph.State {
	return s.Controller.State().WithPlacements(s.Layout.Placements())
}

// Stream runs the layout simulation and calls fn with each snapshot until
// ctx is cancelled. A session has at most one stream; a second concurrent
// call fails with INVALID_STATE.
func (s *Session) Stream(ctx context.Context, fn func(layout.Snapshot)) error {
	s.mu.Lock()
	if s.streaming {
		s.mu.Unlock()
		return apperr.New(apperr.ErrCodeInvalidState, "session %s already has a live stream", s.ID)
	}
	s.streaming = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.streaming = false
		s.mu.Unlock()
	}()
	return s.Layout.Run(ctx, 0, fn)
}

// Store holds sessions.
type Store interface {
	// Create starts a new session with an empty graph.
	Create(ctx context.Context) (*Session, error)

	// Get returns a live session and refreshes its idle deadline.
	// Unknown or expired ids yield SESSION_NOT_FOUND.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns how many were removed.
	Cleanup(ctx context.Context) (int, error)
}

func newID() string { return uuid.NewString() }
