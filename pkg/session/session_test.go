package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/discograph/pkg/catalog"
	apperr "github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/layout"
)

type stubGateway struct{}

func (stubGateway) SearchArtists(context.Context, string) ([]catalog.ArtistSummary, error) {
	return []catalog.ArtistSummary{{ID: 1, Title: "Aphex Twin"}}, nil
}

func (stubGateway) GetArtistDetail(_ context.Context, id string) (*catalog.ArtistDetail, error) {
	return &catalog.ArtistDetail{ID: 1, Name: "Aphex Twin", Releases: []catalog.ReleaseSummary{
		{ID: 10, Title: "Selected Ambient Works 85-92"},
		{ID: 11, Title: "Drukqs"},
	}}, nil
}

func (stubGateway) GetReleaseVideos(context.Context, string) ([]catalog.VideoRef, error) {
	return []catalog.VideoRef{{Title: "Xtal"}}, nil
}

func newStore(ttl time.Duration) *MemoryStore {
	return NewMemoryStore(stubGateway{}, layout.DefaultConfig(), ttl, log.New(io.Discard))
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newStore(time.Hour)

	a, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids %q and %q must be distinct and non-empty", a.ID, b.ID)
	}

	got, err := store.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != a {
		t.Error("Get returned a different session")
	}
	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2", store.Len())
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newStore(time.Hour)
	a, _ := store.Create(ctx)
	b, _ := store.Create(ctx)

	if _, err := a.Controller.SelectArtist(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	if a.Controller.State().NodeCount() != 3 {
		t.Errorf("session a has %d nodes, want 3", a.Controller.State().NodeCount())
	}
	if b.Controller.State().NodeCount() != 0 {
		t.Error("selecting in one session changed another")
	}
	if len(a.Layout.Snapshot().Nodes) != 3 {
		t.Error("controller did not feed its session's layout engine")
	}
}

func TestGraphCarriesPositions(t *testing.T) {
	ctx := context.Background()
	sess, _ := newStore(time.Hour).Create(ctx)
	if _, err := sess.Controller.SelectArtist(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	for _, n := range sess.Graph().Nodes() {
		if n.Position == nil {
			t.Errorf("node %s has no position", n.ID)
		}
	}
	for _, n := range sess.Controller.State().Nodes() {
		if n.Position != nil {
			t.Error("Graph() mutated the controller's state")
		}
	}
}

func TestGetUnknownOrDeleted(t *testing.T) {
	ctx := context.Background()
	store := newStore(time.Hour)
	sess, _ := store.Create(ctx)

	if _, err := store.Get(ctx, "nope"); !apperr.Is(err, apperr.ErrCodeSessionNotFound) {
		t.Errorf("Get(unknown) = %v, want SESSION_NOT_FOUND", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, sess.ID); !apperr.Is(err, apperr.ErrCodeSessionNotFound) {
		t.Errorf("Get(deleted) = %v, want SESSION_NOT_FOUND", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Errorf("second Delete = %v, want nil", err)
	}
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	store := newStore(20 * time.Millisecond)
	stale, _ := store.Create(ctx)
	time.Sleep(40 * time.Millisecond)
	fresh, _ := store.Create(ctx)

	if _, err := store.Get(ctx, stale.ID); !apperr.Is(err, apperr.ErrCodeSessionNotFound) {
		t.Errorf("Get(expired) = %v, want SESSION_NOT_FOUND", err)
	}
	n, err := store.Cleanup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || store.Len() != 1 {
		t.Errorf("Cleanup removed %d, %d left; want 1 and 1", n, store.Len())
	}
	if _, err := store.Get(ctx, fresh.ID); err != nil {
		t.Errorf("Get(fresh) = %v", err)
	}
}

func TestGetRefreshesDeadline(t *testing.T) {
	ctx := context.Background()
	store := newStore(time.Hour)
	sess, _ := store.Create(ctx)
	before := sess.ExpiresAt()

	time.Sleep(5 * time.Millisecond)
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if !sess.ExpiresAt().After(before) {
		t.Error("Get did not extend the idle deadline")
	}
}

func TestStreamIsExclusive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := newStore(time.Millisecond)
	sess, _ := store.Create(ctx)
	if _, err := sess.Controller.SelectArtist(ctx, "1"); err != nil {
		t.Fatal(err)
	}

	got := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- sess.Stream(ctx, func(layout.Snapshot) {
			select {
			case got <- struct{}{}:
			default:
			}
		})
	}()

	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot streamed")
	}

	if err := sess.Stream(ctx, func(layout.Snapshot) {}); !apperr.Is(err, apperr.ErrCodeInvalidState) {
		t.Errorf("second Stream = %v, want INVALID_STATE", err)
	}

	time.Sleep(5 * time.Millisecond)
	if n, _ := store.Cleanup(ctx); n != 0 {
		t.Error("a streaming session was expired")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Stream = %v, want context.Canceled", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := newStore(time.Millisecond)
	store.Create(ctx)

	done := make(chan error, 1)
	go func() { done <- store.Run(ctx, time.Millisecond) }()

	deadline := time.After(5 * time.Second)
	for store.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("janitor never removed the expired session")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}
