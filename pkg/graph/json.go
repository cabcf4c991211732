package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// wireGraph is the JSON shape of a [State].
type wireGraph struct {
	Phase Phase  `json:"phase"`
	Root  string `json:"root,omitempty"`
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// MarshalJSON implements json.Marshaler. Nodes and links keep insertion order.
func (s *State) MarshalJSON() ([]byte, error) {
	w := wireGraph{Phase: s.phase, Root: s.root, Nodes: s.nodes, Links: s.links}
	if w.Nodes == nil {
		w.Nodes = []Node{}
	}
	if w.Links == nil {
		w.Links = []Link{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. The decoded state is validated.
func (s *State) UnmarshalJSON(data []byte) error {
	var w wireGraph
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	next := New()
	next.phase = w.Phase
	next.root = w.Root
	for _, n := range w.Nodes {
		if _, dup := next.index[n.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		}
		next.addNode(n)
	}
	for _, l := range w.Links {
		next.addLink(l.Source, l.Target)
		if n, ok := next.Node(l.Source); ok && n.Kind == KindRelease {
			next.expanded[l.Source] = true
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*s = *next
	return nil
}

// WriteGraph writes s as indented JSON.
func WriteGraph(s *State, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes s as indented JSON to path.
func WriteGraphFile(s *State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(s, f)
}

// ReadGraph decodes and validates a graph written by [WriteGraph].
func ReadGraph(r io.Reader) (*State, error) {
	s := New()
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return s, nil
}

// ReadGraphFile reads a graph from a JSON file.
func ReadGraphFile(path string) (*State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
