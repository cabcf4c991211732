package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/discograph/pkg/catalog"
	"github.com/matzehuels/discograph/pkg/graph"
)

func testState(t *testing.T) *graph.State {
	t.Helper()
	s := graph.ResetWithArtist(catalog.ArtistDetail{
		ID:   123,
		Name: "Boards of Canada",
		Releases: []catalog.ReleaseSummary{
			{ID: 10, Title: "Geogaddi", Year: 2002},
		},
	})
	s, err := s.ExpandRelease("release-0", []catalog.VideoRef{{Title: "Music Is Math", Duration: 321}})
	if err != nil {
		t.Fatalf("ExpandRelease: %v", err)
	}
	return s
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testState(t), Options{})

	for _, want := range []string{
		"digraph G",
		`"123" [label="Boards of Canada", shape=ellipse`,
		`"release-0" [label="Geogaddi"`,
		`"video-release-0-0" [label="Music Is Math", shape=note`,
		`"123" -> "release-0";`,
		`"release-0" -> "video-release-0-0";`,
		"ranksep=",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "pos=") {
		t.Error("unpositioned graph should not pin nodes")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testState(t), Options{Detailed: true})

	if !strings.Contains(dot, `year: 2002`) {
		t.Error("ToDOT() detailed output missing release year")
	}
	if !strings.Contains(dot, `duration: 321`) {
		t.Error("ToDOT() detailed output missing video duration")
	}
}

func TestToDOT_Positions(t *testing.T) {
	s := testState(t).WithPlacements(map[string]graph.Placement{
		"123":               {Position: graph.Position{X: 600, Y: 400}, Pinned: true},
		"release-0":         {Position: graph.Position{X: 850, Y: 400}},
		"video-release-0-0": {Position: graph.Position{X: 1100.5, Y: 380.25}},
	})

	dot := ToDOT(s, Options{})

	for _, want := range []string{
		"inputscale=72;",
		`pos="600.00,-400.00!"`,
		`pos="1100.50,-380.25!"`,
		"penwidth=3",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_PartialPositionsFallBack(t *testing.T) {
	s := testState(t).WithPlacements(map[string]graph.Placement{
		"123": {Position: graph.Position{X: 1, Y: 1}},
	})
	if dot := ToDOT(s, Options{}); strings.Contains(dot, "pos=") {
		t.Error("a partially placed graph should use the tree layout")
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(graph.New(), Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("unexpected DOT for empty graph:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if same := normalizeViewBox([]byte("<svg></svg>")); string(same) != "<svg></svg>" {
		t.Error("SVG without viewBox should pass through")
	}
}
