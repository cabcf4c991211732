package graph

import "fmt"

// Phase is the lifecycle phase of a [State].
type Phase int

const (
	// PhaseEmpty means no artist has been selected.
	PhaseEmpty Phase = iota
	// PhaseSeeded means an artist and its releases are loaded.
	PhaseSeeded
	// PhaseExpanded means at least one release has been expanded.
	PhaseExpanded
)

var phaseNames = [...]string{"empty", "seeded", "expanded"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}
