package controller

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/discograph/pkg/catalog"
	apperr "github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/gateway"
	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/observability"
)

// Layout receives every graph the controller commits.
// [github.com/matzehuels/discograph/pkg/layout.Engine] implements it.
type Layout interface {
	SetGraph(s *graph.State)
}

// Controller translates user actions into gateway calls and graph mutations.
//
// The controller owns the current [graph.State]. Its lock guards only the
// state and generation; it is never held across a gateway call, so a slow
// upstream never blocks a new search or selection.
//
// All methods are safe for concurrent use.
type Controller struct {
	gw     gateway.Gateway
	layout Layout
	logger *log.Logger

	mu         sync.Mutex
	state      *graph.State
	generation uint64
	artistID   string
}

// New creates a controller with an empty graph.
// If layout is nil, committed graphs are not forwarded anywhere.
// If logger is nil, log.Default() is used.
func New(gw gateway.Gateway, layout Layout, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		gw:     gw,
		layout: layout,
		logger: logger,
		state:  graph.New(),
	}
}

// State returns the current graph.
func (c *Controller) State() *graph.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Generation returns the number of artist selections started so far.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Search returns artist candidates for name. The graph is not touched.
//
// A blank name is rejected with INVALID_INPUT before any upstream call.
// Zero candidates is reported as NOT_FOUND.
func (c *Controller) Search(ctx context.Context, name string) ([]catalog.ArtistSummary, error) {
	if err := apperr.ValidateArtistName(name); err != nil {
		return nil, err
	}
	start := time.Now()

	hits, err := c.gw.SearchArtists(ctx, name)
	if err != nil {
		c.fail(ctx, "search", start, err)
		return nil, err
	}
	if len(hits) == 0 {
		err := apperr.New(apperr.ErrCodeNotFound, "No artists found for %q. Try a different search.", name)
		c.fail(ctx, "search", start, err)
		return nil, err
	}
	c.logger.Debug("search", "name", name, "results", len(hits), "duration", time.Since(start))
	return hits, nil
}

// SelectArtist replaces the graph with the artist and its releases.
//
// Every call starts a new generation. If another selection starts before
// this one's upstream response arrives, the response is discarded and
// SUPERSEDED is returned. On any failure the graph keeps its previous state.
func (c *Controller) SelectArtist(ctx context.Context, artistID string) (*graph.State, error) {
	if err := apperr.ValidateID("artist", artistID); err != nil {
		return c.State(), err
	}
	start := time.Now()
	gen := c.nextGeneration()

	detail, err := c.gw.GetArtistDetail(ctx, artistID)
	if err != nil {
		if apperr.Is(err, apperr.ErrCodeNotFound) {
			err = apperr.Wrap(apperr.ErrCodeNotFound, err, "Artist %s was not found. Try a different search.", artistID)
		}
		if c.stale(gen) {
			return c.discard(ctx, "select_artist", gen)
		}
		c.fail(ctx, "select_artist", start, err)
		return c.State(), err
	}

	next := graph.ResetWithArtist(*detail)

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return c.discard(ctx, "select_artist", gen)
	}
	c.commit(next)
	c.artistID = artistID
	c.mu.Unlock()

	observability.Graph().OnReset(ctx, artistID, len(detail.Releases))
	c.logger.Debug("select artist", "id", artistID, "name", detail.Name,
		"releases", len(detail.Releases), "duration", time.Since(start))
	return next, nil
}

// ClickNode handles a click on a graph node.
//
// Clicking a release fetches its videos and merges them into the graph.
// Clicking the artist, a video or an already expanded release does nothing.
// An id that is not in the graph is INVALID_TARGET; that is a client bug,
// so it is logged but produces no user notice (see [NoticeFor]).
func (c *Controller) ClickNode(ctx context.Context, nodeID string) (*graph.State, error) {
	if err := apperr.ValidateNodeID(nodeID); err != nil {
		return c.State(), err
	}
	start := time.Now()

	c.mu.Lock()
	s, gen := c.state, c.generation
	c.mu.Unlock()

	// An empty graph has no nodes to click, so any id is unknown.
	n, ok := s.Node(nodeID)
	if !ok {
		err := apperr.New(apperr.ErrCodeInvalidTarget, "unknown node %q", nodeID)
		c.logger.Warn("click on unknown node", "id", nodeID)
		return s, err
	}
	if n.Kind != graph.KindRelease || s.IsExpanded(nodeID) {
		return s, nil
	}

	releaseID, ok := n.ReleaseID()
	if !ok {
		return s, apperr.New(apperr.ErrCodeInvalidTarget, "release node %q has no release id", nodeID)
	}
	videos, err := c.gw.GetReleaseVideos(ctx, releaseID)
	if err != nil {
		if apperr.Is(err, apperr.ErrCodeNotFound) {
			err = apperr.Wrap(apperr.ErrCodeNotFound, err, "No videos found for %q.", n.Name)
		}
		if c.stale(gen) {
			return c.discard(ctx, "expand_release", gen)
		}
		c.fail(ctx, "expand_release", start, err)
		return c.State(), err
	}

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return c.discard(ctx, "expand_release", gen)
	}
	// Merge into the current state, which may already hold other expansions
	// that finished while this one was in flight.
	before := c.state.NodeCount()
	next, err := c.state.ExpandRelease(nodeID, videos)
	if err != nil {
		c.mu.Unlock()
		c.fail(ctx, "expand_release", start, err)
		return next, err
	}
	c.commit(next)
	c.mu.Unlock()

	added := next.NodeCount() - before
	observability.Graph().OnExpand(ctx, nodeID, added)
	c.logger.Debug("expand release", "node", nodeID, "release", releaseID,
		"videos", added, "duration", time.Since(start))
	return next, nil
}

// Refresh re-selects the current artist, if any.
func (c *Controller) Refresh(ctx context.Context) (*graph.State, error) {
	c.mu.Lock()
	id := c.artistID
	c.mu.Unlock()
	if id == "" {
		return c.State(), apperr.New(apperr.ErrCodeInvalidState, "no artist selected")
	}
	return c.SelectArtist(ctx, id)
}

func (c *Controller) nextGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return c.generation
}

func (c *Controller) stale(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation != gen
}

// commit installs next as the current state. c.mu must be held.
func (c *Controller) commit(next *graph.State) {
	c.state = next
	if c.layout != nil {
		c.layout.SetGraph(next)
	}
}

func (c *Controller) discard(ctx context.Context, op string, gen uint64) (*graph.State, error) {
	observability.Graph().OnDiscard(ctx, op, gen)
	c.logger.Debug("discarded stale response", "op", op, "generation", gen)
	return c.State(), apperr.New(apperr.ErrCodeSuperseded, "%s superseded by a newer selection", op)
}

func (c *Controller) fail(ctx context.Context, op string, start time.Time, err error) {
	observability.Graph().OnFailure(ctx, op, time.Since(start), err)
	c.logger.Debug("action failed", "op", op, "err", err)
}
