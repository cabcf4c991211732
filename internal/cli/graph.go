package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/discograph/pkg/controller"
	apperr "github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/layout"
	"github.com/matzehuels/discograph/pkg/render"
	"github.com/matzehuels/discograph/pkg/render/nodelink"
)

// Export formats.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
)

var validFormats = []string{formatJSON, formatDOT, formatSVG, formatPDF, formatPNG}

// expandAll selects every release for --expand.
const expandAll = "all"

// maxParallelExpand bounds concurrent release fetches.
const maxParallelExpand = 4

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	input    string   // read a saved graph instead of fetching
	output   string   // output file, or base path for several formats
	formats  []string // json, dot, svg, pdf, png
	expand   []string // release node ids, or "all"
	ticks    int      // layout ticks before export; 0 leaves nodes unplaced
	detailed bool     // metadata in diagram labels
	scale    float64  // PNG scale factor
}

func (c *CLI) graphCommand() *cobra.Command {
	var formatsStr string
	opts := graphOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "graph [artist id]",
		Short: "Build an artist graph and export it",
		Long: `Select an artist, optionally expand releases into their videos, and export
the graph as JSON, Graphviz DOT, SVG, PDF or PNG.

With --ticks the force layout runs first and the diagram keeps its positions.`,
		Example: `  discograph graph 2194 --expand all -f svg -o boc.svg
  discograph graph 2194 --expand release-0,release-3 --ticks 300 -f json,svg
  discograph graph --input boc.json -f png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if (len(args) == 0) == (opts.input == "") {
				return fmt.Errorf("give either an artist id or --input")
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			engine := layout.New(cfg.LayoutConfig())

			var state *graph.State
			if opts.input != "" {
				state, err = graph.ReadGraphFile(opts.input)
			} else {
				ctl := controller.New(c.newGateway(cfg), engine, c.Logger)
				state, err = buildGraph(cmd.Context(), ctl, args[0], opts.expand)
			}
			if err != nil {
				return err
			}
			if opts.ticks > 0 {
				state = settle(cmd.Context(), engine, state, opts.ticks)
			}
			return exportGraph(cmd.Context(), state, defaultBase(args, opts.input), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "render a graph JSON file instead of fetching")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, pdf, png (comma-separated)")
	cmd.Flags().StringSliceVarP(&opts.expand, "expand", "e", nil, "release node ids to expand, or \"all\"")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "run the force layout for up to N ticks before export")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show release and video metadata in diagrams")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	registerGraphCompletions(cmd)

	return cmd
}

// buildGraph selects artistID and expands the requested releases. Releases
// without video data are reported and skipped.
func buildGraph(ctx context.Context, ctl *controller.Controller, artistID string, expand []string) (*graph.State, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	state, err := spin(ctx, "Fetching artist "+artistID, func(ctx context.Context) (*graph.State, error) {
		return ctl.SelectArtist(ctx, artistID)
	})
	if err != nil {
		return nil, err
	}
	root, _ := state.Root()
	prog.done(fmt.Sprintf("Loaded %s with %d releases", root.Name, len(state.Children(root.ID))))

	targets := expandTargets(state, expand)
	if len(targets) == 0 {
		return state, nil
	}

	prog = newProgress(logger)
	_, err = spin(ctx, fmt.Sprintf("Expanding %d releases", len(targets)), func(ctx context.Context) (struct{}, error) {
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(maxParallelExpand)
		for _, id := range targets {
			g.Go(func() error {
				_, err := ctl.ClickNode(ctx, id)
				if apperr.Is(err, apperr.ErrCodeNotFound) || apperr.Is(err, apperr.ErrCodeInvalidTarget) {
					logger.Warn("release skipped", "node", id, "reason", apperr.UserMessage(err))
					return nil
				}
				return err
			})
		}
		return struct{}{}, g.Wait()
	})
	if err != nil {
		return nil, err
	}
	state = ctl.State()
	prog.done(fmt.Sprintf("Expanded releases, graph has %d nodes", state.NodeCount()))
	return state, nil
}

// expandTargets resolves --expand against the release nodes of s.
func expandTargets(s *graph.State, expand []string) []string {
	root, ok := s.Root()
	if !ok {
		return nil
	}
	releases := s.Children(root.ID)
	if slices.Contains(expand, expandAll) {
		return releases
	}
	var out []string
	for _, id := range expand {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// settle runs the layout on s for up to ticks steps and returns s with the
// resulting positions.
func settle(ctx context.Context, engine *layout.Engine, s *graph.State, ticks int) *graph.State {
	engine.SetGraph(s)
	n := engine.Settle(ticks)
	loggerFromContext(ctx).Debug("layout settled", "ticks", n, "alpha", engine.Alpha())
	return s.WithPlacements(engine.Placements())
}

// exportGraph writes s in every requested format.
func exportGraph(ctx context.Context, s *graph.State, base string, opts *graphOpts) error {
	toStdout := opts.output == "" && len(opts.formats) == 1 &&
		(opts.formats[0] == formatJSON || opts.formats[0] == formatDOT)

	var svg []byte
	for _, format := range opts.formats {
		data, err := encodeGraph(ctx, s, format, opts, &svg)
		if err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}
		if toStdout {
			_, err := os.Stdout.Write(data)
			return err
		}
		path := outputPath(opts.output, base, format, len(opts.formats) > 1)
		if opts.input != "" && filepath.Clean(path) == filepath.Clean(opts.input) {
			printWarning("not overwriting input %s", path)
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(s)
	return nil
}

// encodeGraph renders s in format. The SVG is rendered once and cached in svg
// for the PDF and PNG conversions.
func encodeGraph(ctx context.Context, s *graph.State, format string, opts *graphOpts, svg *[]byte) ([]byte, error) {
	switch format {
	case formatJSON:
		var buf bytes.Buffer
		if err := graph.WriteGraph(s, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatDOT:
		return []byte(nodelink.ToDOT(s, nodelink.Options{Detailed: opts.detailed})), nil
	}

	if *svg == nil {
		out, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(s, nodelink.Options{Detailed: opts.detailed}))
		if err != nil {
			return nil, err
		}
		*svg = out
	}
	switch format {
	case formatPDF:
		return render.ToPDF(ctx, *svg)
	case formatPNG:
		return render.ToPNG(ctx, *svg, opts.scale)
	}
	return *svg, nil
}

// parseFormats splits a comma-separated format list. Empty means JSON.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatJSON}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(validFormats, f) {
			return fmt.Errorf("invalid format %q: must be one of %s", f, strings.Join(validFormats, ", "))
		}
	}
	return nil
}

// defaultBase names output files after the artist id or the input file.
func defaultBase(args []string, input string) string {
	if input != "" {
		return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return "artist-" + args[0]
}

// outputPath picks the file for one format. With several formats, output is
// a base path and each format gets its own extension.
func outputPath(output, base, format string, multi bool) string {
	if output == "" {
		return base + "." + format
	}
	if multi {
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	}
	return output
}
