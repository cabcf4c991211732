// Package render turns discograph graphs into static images.
//
// # Overview
//
// The [nodelink] subpackage converts a graph state into Graphviz DOT source
// and renders it to SVG in-process. This package adds format conversion on
// top of that:
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert from librsvg, which must be
// installed separately.
//
// [nodelink]: github.com/matzehuels/discograph/pkg/render/nodelink
package render
