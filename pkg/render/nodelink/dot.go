package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/discograph/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes node metadata (year, label, duration...) in labels.
	// When false, only the node name is shown.
	Detailed bool
}

// kindAttrs styles each node kind.
var kindAttrs = map[graph.Kind][]string{
	graph.KindArtist:  {"shape=ellipse", "fillcolor=\"#f4d35e\"", "fontsize=28"},
	graph.KindRelease: {"fillcolor=white"},
	graph.KindVideo:   {"shape=note", "fillcolor=\"#e8f1f2\"", "fontsize=18"},
}

// ToDOT converts a graph state to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// When every node carries a position (see [graph.State.WithPlacements]),
// nodes are pinned there with pos="x,y!" and the diagram keeps the force
// layout. Otherwise Graphviz lays the tree out top to bottom.
func ToDOT(s *graph.State, opts Options) string {
	nodes := s.Nodes()
	positioned := len(nodes) > 0
	for _, n := range nodes {
		if n.Position == nil {
			positioned = false
			break
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	if positioned {
		buf.WriteString("  inputscale=72;\n")
		buf.WriteString("  splines=true;\n")
	} else {
		buf.WriteString("  ranksep=0.8;\n")
		buf.WriteString("  nodesep=0.3;\n")
	}
	buf.WriteString("\n")

	for _, n := range nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed), positioned)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range s.Links() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", l.Source, l.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	name := n.Name
	if name == "" {
		name = n.ID
	}
	if !detailed || len(n.Meta) == 0 {
		return name
	}

	var parts []string
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n graph.Node, label string, positioned bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	attrs = append(attrs, kindAttrs[n.Kind]...)
	if positioned {
		// Graphviz puts the origin bottom-left; layout space is top-left.
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(n.Position.X), fmtCoord(-n.Position.Y)))
	}
	if n.Pinned {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz. DOT with pinned
// positions is laid out with neato so the positions are honored.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if strings.Contains(dot, "inputscale=72;") {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
