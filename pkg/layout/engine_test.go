package layout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/discograph/pkg/catalog"
	apperr "github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
)

func seeded(t *testing.T, releases int) *graph.State {
	t.Helper()
	a := catalog.ArtistDetail{ID: 123, Name: "Boards of Canada"}
	for i := range releases {
		a.Releases = append(a.Releases, catalog.ReleaseSummary{ID: 100 + i, Title: fmt.Sprint("r", i)})
	}
	return graph.ResetWithArtist(a)
}

func expanded(t *testing.T, s *graph.State, release string, videos int) *graph.State {
	t.Helper()
	refs := make([]catalog.VideoRef, videos)
	for i := range refs {
		refs[i] = catalog.VideoRef{Title: fmt.Sprint("v", i)}
	}
	next, err := s.ExpandRelease(release, refs)
	if err != nil {
		t.Fatalf("ExpandRelease: %v", err)
	}
	return next
}

func positions(snap Snapshot) map[string]NodePosition {
	out := make(map[string]NodePosition, len(snap.Nodes))
	for _, n := range snap.Nodes {
		out[n.ID] = n
	}
	return out
}

func TestNewAppliesDefaults(t *testing.T) {
	e := New(Config{Width: 500})
	cfg := e.Config()

	if cfg.Width != 500 {
		t.Errorf("Width = %v, want 500", cfg.Width)
	}
	if cfg.Height != DefaultHeight || cfg.LinkDistance != DefaultLinkDistance ||
		cfg.Charge != DefaultCharge || cfg.CollideRadius != DefaultCollideRadius {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.FrameInterval != 16*time.Millisecond {
		t.Errorf("FrameInterval = %v, want 16ms", cfg.FrameInterval)
	}
}

func TestSetGraphPlacesAllNodes(t *testing.T) {
	e := New(DefaultConfig())
	s := seeded(t, 5)
	e.SetGraph(s)

	snap := e.Snapshot()
	if len(snap.Nodes) != s.NodeCount() {
		t.Fatalf("snapshot has %d nodes, want %d", len(snap.Nodes), s.NodeCount())
	}
	if len(snap.Links) != s.LinkCount() {
		t.Errorf("snapshot has %d links, want %d", len(snap.Links), s.LinkCount())
	}
	seen := map[[2]float64]bool{}
	for _, n := range snap.Nodes {
		p := [2]float64{n.X, n.Y}
		if seen[p] {
			t.Errorf("two nodes start at the same point %v", p)
		}
		seen[p] = true
	}
}

func TestSettleCools(t *testing.T) {
	e := New(DefaultConfig())
	e.SetGraph(seeded(t, 8))

	ticks := e.Settle(10_000)
	if ticks == 0 || ticks >= 10_000 {
		t.Fatalf("Settle took %d ticks", ticks)
	}
	if e.Hot() {
		t.Error("simulation should be cold after Settle")
	}
	if e.Alpha() >= DefaultAlphaMin {
		t.Errorf("Alpha() = %v, want < %v", e.Alpha(), DefaultAlphaMin)
	}
}

func TestSettledLayoutIsSpreadAndCentered(t *testing.T) {
	cfg := DefaultConfig()
	e := New(cfg)
	s := expanded(t, seeded(t, 6), "release-0", 3)
	e.SetGraph(s)
	e.Settle(10_000)

	snap := e.Snapshot()
	var sx, sy float64
	for i, a := range snap.Nodes {
		if math.IsNaN(a.X) || math.IsNaN(a.Y) || math.IsInf(a.X, 0) || math.IsInf(a.Y, 0) {
			t.Fatalf("node %s has a non-finite position", a.ID)
		}
		sx += a.X
		sy += a.Y
		for _, b := range snap.Nodes[i+1:] {
			if d := math.Hypot(a.X-b.X, a.Y-b.Y); d < cfg.CollideRadius {
				t.Errorf("nodes %s and %s are %.1f apart", a.ID, b.ID, d)
			}
		}
	}

	n := float64(len(snap.Nodes))
	if math.Abs(sx/n-cfg.Width/2) > 5 || math.Abs(sy/n-cfg.Height/2) > 5 {
		t.Errorf("centroid = (%.1f, %.1f), want near (%v, %v)", sx/n, sy/n, cfg.Width/2, cfg.Height/2)
	}
}

func TestSetGraphKeepsKnownPositions(t *testing.T) {
	e := New(DefaultConfig())
	s := seeded(t, 3)
	e.SetGraph(s)
	e.Settle(10_000)
	before := positions(e.Snapshot())

	e.SetGraph(expanded(t, s, "release-1", 2))
	after := positions(e.Snapshot())

	for id, p := range before {
		if after[id] != p {
			t.Errorf("%s moved from %+v to %+v", id, p, after[id])
		}
	}

	parent := after["release-1"]
	for _, id := range []string{"video-release-1-0", "video-release-1-1"} {
		v, ok := after[id]
		if !ok {
			t.Fatalf("%s missing from snapshot", id)
		}
		if d := math.Hypot(v.X-parent.X, v.Y-parent.Y); d > 2*initialRadius {
			t.Errorf("%s placed %.1f away from its release", id, d)
		}
	}
}

func TestSetGraphReheats(t *testing.T) {
	e := New(DefaultConfig())
	s := seeded(t, 2)
	e.SetGraph(s)
	e.Settle(10_000)

	e.SetGraph(s)
	if !e.Hot() || e.Alpha() != 1 {
		t.Errorf("SetGraph should reheat: hot=%v alpha=%v", e.Hot(), e.Alpha())
	}
}

func TestSetGraphDropsRemovedNodes(t *testing.T) {
	e := New(DefaultConfig())
	e.SetGraph(expanded(t, seeded(t, 2), "release-0", 2))

	other := graph.ResetWithArtist(catalog.ArtistDetail{ID: 7, Name: "Autechre"})
	e.SetGraph(other)

	snap := e.Snapshot()
	if len(snap.Nodes) != 1 || snap.Nodes[0].ID != "7" {
		t.Errorf("snapshot = %+v, want only the new artist", snap.Nodes)
	}
	if len(snap.Links) != 0 {
		t.Errorf("links = %v, want none", snap.Links)
	}
}

func TestSetGraphUsesRecordedPlacements(t *testing.T) {
	s := seeded(t, 1).WithPlacements(map[string]graph.Placement{
		"123": {Position: graph.Position{X: 42, Y: 24}, Pinned: true},
	})

	e := New(DefaultConfig())
	e.SetGraph(s)
	e.Settle(50)

	root := positions(e.Snapshot())["123"]
	if root.X != 42 || root.Y != 24 || !root.Pinned {
		t.Errorf("pinned root = %+v, want fixed at (42, 24)", root)
	}
}

func TestDeterministic(t *testing.T) {
	run := func() Snapshot {
		e := New(DefaultConfig())
		e.SetGraph(expanded(t, seeded(t, 4), "release-2", 3))
		e.Settle(200)
		return e.Snapshot()
	}
	if a, b := run(), run(); !reflect.DeepEqual(a, b) {
		t.Error("two runs with the same seed produced different layouts")
	}
}

func TestSeedSeparatesCoincidentNodes(t *testing.T) {
	s := seeded(t, 2).WithPlacements(map[string]graph.Placement{
		"release-0": {Position: graph.Position{X: 100, Y: 100}},
		"release-1": {Position: graph.Position{X: 100, Y: 100}},
	})
	run := func(seed int64) NodePosition {
		cfg := DefaultConfig()
		cfg.Seed = seed
		e := New(cfg)
		e.SetGraph(s)
		e.Tick()
		return positions(e.Snapshot())["release-0"]
	}

	if a, b := run(7), run(7); a != b {
		t.Errorf("same seed: %+v != %+v", a, b)
	}
	if a, b := run(1), run(2); a == b {
		t.Errorf("seeds 1 and 2 separated coincident nodes identically: %+v", a)
	}

	e := New(DefaultConfig())
	e.SetGraph(s)
	e.Tick()
	got := positions(e.Snapshot())
	if a, b := got["release-0"], got["release-1"]; a.X == b.X && a.Y == b.Y {
		t.Error("coincident nodes were not separated")
	}
}

func TestDrag(t *testing.T) {
	e := New(DefaultConfig())
	e.SetGraph(seeded(t, 3))
	e.Settle(10_000)

	if err := e.DragStart("release-0"); err != nil {
		t.Fatalf("DragStart: %v", err)
	}
	if !e.Hot() {
		t.Error("a drag should keep the simulation warm")
	}
	if err := e.Drag("release-0", 10, 20); err != nil {
		t.Fatalf("Drag: %v", err)
	}
	for range 40 {
		e.Tick()
	}

	p := positions(e.Snapshot())["release-0"]
	if p.X != 10 || p.Y != 20 || !p.Pinned {
		t.Errorf("dragged node = %+v, want pinned at (10, 20)", p)
	}
	if a := e.Alpha(); math.Abs(a-DefaultDragAlpha) > 0.2 {
		t.Errorf("alpha = %v, want approaching %v", a, DefaultDragAlpha)
	}

	if err := e.DragEnd("release-0"); err != nil {
		t.Fatalf("DragEnd: %v", err)
	}
	if positions(e.Snapshot())["release-0"].Pinned {
		t.Error("DragEnd should release the pin")
	}
	e.Settle(10_000)
	if e.Hot() {
		t.Error("simulation should cool after the drag ends")
	}
}

func TestDragErrors(t *testing.T) {
	e := New(DefaultConfig())
	e.SetGraph(seeded(t, 1))

	if err := e.DragStart("nope"); !apperr.Is(err, apperr.ErrCodeInvalidTarget) {
		t.Errorf("DragStart(unknown) = %v, want INVALID_TARGET", err)
	}
	if err := e.Drag("release-0", 1, 1); !apperr.Is(err, apperr.ErrCodeInvalidState) {
		t.Errorf("Drag without DragStart = %v, want INVALID_STATE", err)
	}
	if err := e.DragEnd("nope"); !apperr.Is(err, apperr.ErrCodeInvalidTarget) {
		t.Errorf("DragEnd(unknown) = %v, want INVALID_TARGET", err)
	}
}

func TestRunEmitsSnapshotsAndStops(t *testing.T) {
	e := New(DefaultConfig())
	e.SetGraph(seeded(t, 2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Snapshot, 1)
	done := make(chan error, 1)
	go func() {
		done <- e.Run(ctx, time.Millisecond, func(s Snapshot) {
			select {
			case got <- s:
			default:
			}
		})
	}()

	select {
	case s := <-got:
		if len(s.Nodes) != 3 {
			t.Errorf("snapshot has %d nodes, want 3", len(s.Nodes))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot received")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunIdlesWhenCold(t *testing.T) {
	e := New(DefaultConfig())
	e.SetGraph(seeded(t, 2))
	e.Settle(10_000)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var calls int
	err := e.Run(ctx, time.Millisecond, func(Snapshot) { calls++ })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() = %v, want DeadlineExceeded", err)
	}
	if calls != 0 {
		t.Errorf("cold simulation emitted %d snapshots", calls)
	}
}

func TestConcurrentDragAndRun(t *testing.T) {
	e := New(DefaultConfig())
	e.SetGraph(seeded(t, 5))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.Run(ctx, time.Millisecond, func(Snapshot) {})
	}()

	for i := range 50 {
		_ = e.DragStart("release-1")
		_ = e.Drag("release-1", float64(i), float64(i))
		_ = e.DragEnd("release-1")
	}
	cancel()
	wg.Wait()
}
