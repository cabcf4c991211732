package layout

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	apperr "github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
)

// initialAngle is the golden angle used to place parentless nodes on a
// phyllotaxis spiral.
var initialAngle = math.Pi * (3 - math.Sqrt(5))

const initialRadius = 10

type body struct {
	id     string
	x, y   float64
	vx, vy float64
	fx, fy *float64 // Fixed position while pinned
}

func (b *body) pinned() bool { return b.fx != nil }

type spring struct {
	source, target int // Indices into Engine.bodies
	strength, bias float64
}

// NodePosition is the position of one node in a [Snapshot].
type NodePosition struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned,omitempty"`
}

// Snapshot is the state of the simulation after a tick.
type Snapshot struct {
	Alpha float64        `json:"alpha"`
	Nodes []NodePosition `json:"nodes"`
	Links []graph.Link   `json:"links"`
}

// Engine is a force-directed layout simulation over a [graph.State].
//
// All methods are safe for concurrent use. A single mutex serializes ticks,
// graph updates and drag updates, so a drag never lands on a node mid-tick.
type Engine struct {
	mu          sync.Mutex
	cfg         Config
	rng         *rand.Rand
	bodies      []*body
	index       map[string]int
	springs     []spring
	links       []graph.Link
	alpha       float64
	alphaTarget float64
	dragged     map[string]bool
	wake        chan struct{}
}

// New creates an engine with no nodes.
func New(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:     cfg,
		rng:     rand.New(rand.NewPCG(uint64(cfg.Seed), 0)),
		index:   map[string]int{},
		dragged: map[string]bool{},
		alpha:   1,
		wake:    make(chan struct{}, 1),
	}
}

// Config returns the effective simulation parameters.
func (e *Engine) Config() Config { return e.cfg }

// SetGraph replaces the simulated node and link sets with those of s.
//
// Nodes already known keep their position and velocity. A new node is placed
// at its recorded position if s carries one, otherwise next to its parent,
// otherwise on a spiral around the viewport center. Nodes absent from s are
// dropped. The simulation is reheated.
func (e *Engine) SetGraph(s *graph.State) {
	e.mu.Lock()
	defer e.mu.Unlock()

	nodes := s.Nodes()
	links := s.Links()
	parent := make(map[string]string, len(links))
	for _, l := range links {
		parent[l.Target] = l.Source
	}

	prev := make(map[string]*body, len(e.bodies))
	for _, b := range e.bodies {
		prev[b.id] = b
	}

	bodies := make([]*body, 0, len(nodes))
	index := make(map[string]int, len(nodes))
	siblings := map[string]int{}
	orphans := 0
	for _, n := range nodes {
		b, ok := prev[n.ID]
		if !ok {
			b = e.place(n, parent, index, bodies, siblings, &orphans)
		}
		if p, ok := parent[n.ID]; ok {
			siblings[p]++
		}
		index[n.ID] = len(bodies)
		bodies = append(bodies, b)
	}

	e.bodies = bodies
	e.index = index
	e.links = links
	e.springs = e.buildSprings(links)
	for id := range e.dragged {
		if _, ok := index[id]; !ok {
			delete(e.dragged, id)
		}
	}
	if len(e.dragged) == 0 {
		e.alphaTarget = 0
	}
	e.alpha = 1
	e.notify()
}

// place creates the body of a node the engine has not seen before.
func (e *Engine) place(n graph.Node, parent map[string]string, index map[string]int, bodies []*body, siblings map[string]int, orphans *int) *body {
	b := &body{id: n.ID}
	p, hasParent := parent[n.ID]
	pi, parentPlaced := index[p]
	switch {
	case n.Position != nil:
		b.x, b.y = n.Position.X, n.Position.Y
		if n.Pinned {
			fx, fy := b.x, b.y
			b.fx, b.fy = &fx, &fy
		}
	case hasParent && parentPlaced:
		pb := bodies[pi]
		b.x, b.y = spiral(pb.x, pb.y, siblings[p])
	default:
		b.x, b.y = spiral(e.cfg.Width/2, e.cfg.Height/2, *orphans)
		*orphans++
	}
	return b
}

func spiral(cx, cy float64, i int) (float64, float64) {
	r := initialRadius * math.Sqrt(0.5+float64(i))
	a := float64(i) * initialAngle
	return cx + r*math.Cos(a), cy + r*math.Sin(a)
}

func (e *Engine) buildSprings(links []graph.Link) []spring {
	count := make([]int, len(e.bodies))
	springs := make([]spring, 0, len(links))
	for _, l := range links {
		si, ok1 := e.index[l.Source]
		ti, ok2 := e.index[l.Target]
		if !ok1 || !ok2 {
			continue
		}
		count[si]++
		count[ti]++
		springs = append(springs, spring{source: si, target: ti})
	}
	for i := range springs {
		cs, ct := float64(count[springs[i].source]), float64(count[springs[i].target])
		springs[i].strength = 1 / math.Min(cs, ct)
		springs[i].bias = cs / (cs + ct)
	}
	return springs
}

// Tick advances the simulation by one step, whether or not it has cooled.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tick()
}

func (e *Engine) tick() {
	e.alpha += (e.alphaTarget - e.alpha) * e.cfg.AlphaDecay

	e.applyLink(e.alpha)
	e.applyCharge(e.alpha)
	e.applyCenter()
	e.applyCollide()

	for _, b := range e.bodies {
		if b.pinned() {
			b.x, b.y = *b.fx, *b.fy
			b.vx, b.vy = 0, 0
			continue
		}
		b.vx *= 1 - e.cfg.VelocityDecay
		b.vy *= 1 - e.cfg.VelocityDecay
		b.x += b.vx
		b.y += b.vy
	}
}

// Hot reports whether the simulation is still moving: either alpha has not
// cooled below AlphaMin or a drag holds it warm.
func (e *Engine) Hot() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hot()
}

func (e *Engine) hot() bool {
	return e.alpha >= e.cfg.AlphaMin || e.alphaTarget >= e.cfg.AlphaMin
}

// Alpha returns the current alpha.
func (e *Engine) Alpha() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alpha
}

// Settle ticks until the simulation cools or maxTicks steps have run, and
// returns the number of ticks taken.
func (e *Engine) Settle(maxTicks int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for n < maxTicks && e.hot() {
		e.tick()
		n++
	}
	return n
}

// Run ticks the simulation every interval and calls fn with a snapshot after
// each tick. When the simulation cools, Run idles until SetGraph or a drag
// reheats it. A non-positive interval uses the configured FrameInterval.
//
// Run blocks until ctx is cancelled. Only one Run may be active per Engine.
func (e *Engine) Run(ctx context.Context, interval time.Duration, fn func(Snapshot)) error {
	if interval <= 0 {
		interval = e.cfg.FrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if !e.Hot() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-e.wake:
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if snap, ok := e.step(); ok {
				fn(snap)
			}
		}
	}
}

func (e *Engine) step() (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hot() {
		return Snapshot{}, false
	}
	e.tick()
	return e.snapshot(), true
}

// Snapshot returns the current positions.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() Snapshot {
	nodes := make([]NodePosition, len(e.bodies))
	for i, b := range e.bodies {
		nodes[i] = NodePosition{ID: b.id, X: b.x, Y: b.y, Pinned: b.pinned()}
	}
	links := e.links
	if links == nil {
		links = []graph.Link{}
	}
	return Snapshot{Alpha: e.alpha, Nodes: nodes, Links: links}
}

// Placements returns the current positions keyed by node id, ready for
// [graph.State.WithPlacements].
func (e *Engine) Placements() map[string]graph.Placement {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]graph.Placement, len(e.bodies))
	for _, b := range e.bodies {
		out[b.id] = graph.Placement{Position: graph.Position{X: b.x, Y: b.y}, Pinned: b.pinned()}
	}
	return out
}

// DragStart pins a node at its current position and holds the simulation
// warm until the matching DragEnd.
func (e *Engine) DragStart(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, err := e.body(id)
	if err != nil {
		return err
	}
	if !b.pinned() {
		fx, fy := b.x, b.y
		b.fx, b.fy = &fx, &fy
	}
	e.dragged[id] = true
	e.alphaTarget = e.cfg.DragAlpha
	e.notify()
	return nil
}

// Drag moves a pinned node to (x, y).
func (e *Engine) Drag(id string, x, y float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, err := e.body(id)
	if err != nil {
		return err
	}
	if !b.pinned() {
		return apperr.New(apperr.ErrCodeInvalidState, "node %q is not being dragged", id)
	}
	*b.fx, *b.fy = x, y
	return nil
}

// DragEnd releases a pinned node back into the simulation. The alpha target
// drops back to zero once no drag is in progress.
func (e *Engine) DragEnd(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, err := e.body(id)
	if err != nil {
		return err
	}
	b.fx, b.fy = nil, nil
	delete(e.dragged, id)
	if len(e.dragged) == 0 {
		e.alphaTarget = 0
	}
	return nil
}

func (e *Engine) body(id string) (*body, error) {
	i, ok := e.index[id]
	if !ok {
		return nil, apperr.New(apperr.ErrCodeInvalidTarget, "unknown node %q", id)
	}
	return e.bodies[i], nil
}

// notify wakes an idle Run without blocking.
func (e *Engine) notify() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}
