package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/discograph/pkg/catalog"
	apperr "github.com/matzehuels/discograph/pkg/errors"
)

var (
	// ErrDuplicateNodeID is reported by [State.Validate] when two nodes share an id.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDanglingLink is reported by [State.Validate] when a link references a
	// node that does not exist or was added after the link.
	ErrDanglingLink = errors.New("link endpoint does not exist")

	// ErrNotAForest is reported by [State.Validate] when the graph is not a
	// single tree rooted at the artist: a node with several parents, a link
	// between the wrong kinds of node, or a second root.
	ErrNotAForest = errors.New("graph is not a tree rooted at the artist")
)

// Kind is the type of a node.
type Kind string

// Node kinds.
const (
	KindArtist  Kind = "artist"
	KindRelease Kind = "release"
	KindVideo   Kind = "video"
)

// childKind is the only kind a node of the key kind may link to.
var childKind = map[Kind]Kind{
	KindArtist:  KindRelease,
	KindRelease: KindVideo,
}

// Metadata keys.
const (
	MetaReleaseID   = "release_id"
	MetaYear        = "year"
	MetaLabel       = "label"
	MetaGenres      = "genres"
	MetaProfile     = "profile"
	MetaURI         = "uri"
	MetaDescription = "description"
	MetaDuration    = "duration"
)

// Metadata stores display details attached to a node. It is shared between
// states and must be treated as read-only.
type Metadata map[string]any

// Position is a point in layout space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a vertex of the graph.
type Node struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	Name     string    `json:"name"`
	ImageURL string    `json:"image_url,omitempty"`
	Position *Position `json:"position,omitempty"` // nil until placed by a layout
	Pinned   bool      `json:"pinned,omitempty"`
	Meta     Metadata  `json:"meta,omitempty"`
}

// ReleaseID returns the upstream release id of a release node.
func (n Node) ReleaseID() (string, bool) {
	if n.Kind != KindRelease {
		return "", false
	}
	switch v := n.Meta[MetaReleaseID].(type) {
	case int:
		return strconv.Itoa(v), true
	case float64:
		return strconv.FormatInt(int64(v), 10), true
	case string:
		return v, v != ""
	}
	return "", false
}

// Link is a parent → child edge.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Placement is a layout result for one node, applied with [State.WithPlacements].
type Placement struct {
	Position
	Pinned bool
}

// State is an immutable snapshot of the graph. The zero value is not usable;
// start from [New] or [ResetWithArtist].
type State struct {
	phase    Phase
	root     string
	nodes    []Node
	index    map[string]int      // node id -> position in nodes
	links    []Link
	children map[string][]string // node id -> child ids in insertion order
	expanded map[string]bool     // release node ids that have been expanded
}

// New returns an empty state.
func New() *State {
	return &State{
		phase:    PhaseEmpty,
		index:    map[string]int{},
		children: map[string][]string{},
		expanded: map[string]bool{},
	}
}

// ResetWithArtist builds a fresh seeded state: the artist as root, one
// release node per release in listing order, and one artist → release link
// for each. The result depends only on artist.
func ResetWithArtist(artist catalog.ArtistDetail) *State {
	s := New()
	s.phase = PhaseSeeded

	root := ArtistNodeID(artist.ID)
	s.root = root
	meta := Metadata{}
	if artist.Profile != "" {
		meta[MetaProfile] = artist.Profile
	}
	s.addNode(Node{ID: root, Kind: KindArtist, Name: artist.Name, ImageURL: artist.CoverImage, Meta: meta})

	for i, r := range artist.Releases {
		id := ReleaseNodeID(i)
		s.addNode(Node{
			ID:       id,
			Kind:     KindRelease,
			Name:     r.Title,
			ImageURL: r.CoverImage,
			Meta:     releaseMeta(r),
		})
		s.addLink(root, id)
	}
	return s
}

func releaseMeta(r catalog.ReleaseSummary) Metadata {
	meta := Metadata{MetaReleaseID: r.ID}
	if r.Year != 0 {
		meta[MetaYear] = r.Year
	}
	if r.Label != "" {
		meta[MetaLabel] = r.Label
	}
	if len(r.Genres) > 0 {
		meta[MetaGenres] = slices.Clone(r.Genres)
	}
	return meta
}

func videoMeta(v catalog.VideoRef) Metadata {
	meta := Metadata{MetaURI: v.URI}
	if v.Description != "" {
		meta[MetaDescription] = v.Description
	}
	if v.Duration != 0 {
		meta[MetaDuration] = v.Duration
	}
	return meta
}

// ExpandRelease returns a new state with one video node per entry of videos,
// in order, each linked from the release node. Ids already present are
// skipped, so repeating an expansion adds nothing.
//
// On error the receiver itself is returned:
//   - INVALID_STATE if the state is empty
//   - INVALID_TARGET if releaseNodeID is unknown or not a release
func (s *State) ExpandRelease(releaseNodeID string, videos []catalog.VideoRef) (*State, error) {
	if s.phase == PhaseEmpty {
		return s, apperr.New(apperr.ErrCodeInvalidState, "cannot expand %q: no artist selected", releaseNodeID)
	}
	n, ok := s.Node(releaseNodeID)
	if !ok {
		return s, apperr.New(apperr.ErrCodeInvalidTarget, "unknown node %q", releaseNodeID)
	}
	if n.Kind != KindRelease {
		return s, apperr.New(apperr.ErrCodeInvalidTarget, "node %q is a %s, not a release", releaseNodeID, n.Kind)
	}

	var fresh []int
	for i := range videos {
		if _, exists := s.index[VideoNodeID(releaseNodeID, i)]; !exists {
			fresh = append(fresh, i)
		}
	}
	if len(fresh) == 0 && s.phase == PhaseExpanded && s.expanded[releaseNodeID] {
		return s, nil
	}

	next := s.clone()
	next.phase = PhaseExpanded
	next.expanded[releaseNodeID] = true
	for _, i := range fresh {
		id := VideoNodeID(releaseNodeID, i)
		next.addNode(Node{ID: id, Kind: KindVideo, Name: videos[i].Title, Meta: videoMeta(videos[i])})
		next.addLink(releaseNodeID, id)
	}
	return next, nil
}

// WithPlacements returns a new state whose nodes carry the given layout
// positions. Ids not present in the state are ignored.
func (s *State) WithPlacements(placements map[string]Placement) *State {
	next := s.clone()
	for id, p := range placements {
		i, ok := next.index[id]
		if !ok {
			continue
		}
		pos := p.Position
		next.nodes[i].Position = &pos
		next.nodes[i].Pinned = p.Pinned
	}
	return next
}

func (s *State) clone() *State {
	children := make(map[string][]string, len(s.children))
	for id, c := range s.children {
		children[id] = slices.Clone(c)
	}
	return &State{
		phase:    s.phase,
		root:     s.root,
		nodes:    slices.Clone(s.nodes),
		index:    maps.Clone(s.index),
		links:    slices.Clone(s.links),
		children: children,
		expanded: maps.Clone(s.expanded),
	}
}

func (s *State) addNode(n Node) {
	s.index[n.ID] = len(s.nodes)
	s.nodes = append(s.nodes, n)
}

func (s *State) addLink(source, target string) {
	s.links = append(s.links, Link{Source: source, Target: target})
	s.children[source] = append(s.children[source], target)
}

// Phase returns the lifecycle phase of the state.
func (s *State) Phase() Phase { return s.phase }

// Root returns the artist node. ok is false for an empty state.
func (s *State) Root() (Node, bool) {
	if s.root == "" {
		return Node{}, false
	}
	return s.Node(s.root)
}

// Node returns the node with the given id.
func (s *State) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Nodes returns a copy of all nodes in insertion order.
func (s *State) Nodes() []Node { return slices.Clone(s.nodes) }

// Links returns a copy of all links in insertion order.
func (s *State) Links() []Link { return slices.Clone(s.links) }

// Children returns the ids of the nodes linked from id, in insertion order.
func (s *State) Children(id string) []string { return slices.Clone(s.children[id]) }

// Parent returns the id of the node linking to id. ok is false for the root
// and for unknown ids.
func (s *State) Parent(id string) (string, bool) {
	for _, l := range s.links {
		if l.Target == id {
			return l.Source, true
		}
	}
	return "", false
}

// IsExpanded reports whether the release node has been expanded.
func (s *State) IsExpanded(releaseNodeID string) bool { return s.expanded[releaseNodeID] }

// NodeCount returns the number of nodes.
func (s *State) NodeCount() int { return len(s.nodes) }

// LinkCount returns the number of links.
func (s *State) LinkCount() int { return len(s.links) }

// Validate checks the structural invariants of the state: unique ids, links
// whose endpoints exist no later than the link itself, and a single tree
// rooted at the artist.
func (s *State) Validate() error {
	seen := make(map[string]int, len(s.nodes))
	for i, n := range s.nodes {
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		}
		seen[n.ID] = i
	}

	if s.phase == PhaseEmpty {
		if len(s.nodes) != 0 || len(s.links) != 0 {
			return fmt.Errorf("%w: empty state has %d nodes", ErrNotAForest, len(s.nodes))
		}
		return nil
	}

	root, ok := s.Root()
	if !ok || root.Kind != KindArtist {
		return fmt.Errorf("%w: missing artist root", ErrNotAForest)
	}

	parents := make(map[string]string, len(s.links))
	for i, l := range s.links {
		si, ok := seen[l.Source]
		if !ok {
			return fmt.Errorf("%w: %s -> %s", ErrDanglingLink, l.Source, l.Target)
		}
		ti, ok := seen[l.Target]
		if !ok {
			return fmt.Errorf("%w: %s -> %s", ErrDanglingLink, l.Source, l.Target)
		}
		// A node is always added right before its link, so node index i+1
		// is the newest node that may appear in link i.
		if si > i+1 || ti > i+1 {
			return fmt.Errorf("%w: %s -> %s added before its endpoints", ErrDanglingLink, l.Source, l.Target)
		}
		if p, dup := parents[l.Target]; dup {
			return fmt.Errorf("%w: %s has parents %s and %s", ErrNotAForest, l.Target, p, l.Source)
		}
		parents[l.Target] = l.Source
		if childKind[s.nodes[si].Kind] != s.nodes[ti].Kind {
			return fmt.Errorf("%w: %s %s -> %s %s", ErrNotAForest,
				s.nodes[si].Kind, l.Source, s.nodes[ti].Kind, l.Target)
		}
	}

	for _, n := range s.nodes {
		if _, ok := parents[n.ID]; !ok && n.ID != s.root {
			return fmt.Errorf("%w: %s has no parent", ErrNotAForest, n.ID)
		}
	}
	return nil
}
