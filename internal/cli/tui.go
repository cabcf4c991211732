package cli

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/discograph/pkg/catalog"
	"github.com/matzehuels/discograph/pkg/controller"
	"github.com/matzehuels/discograph/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseMode is the screen the browser shows.
type browseMode int

const (
	modeSearch  browseMode = iota // typing an artist name
	modeResults                   // picking from search hits
	modeTree                      // walking the artist graph
)

// =============================================================================
// Messages
// =============================================================================

type searchDoneMsg struct {
	hits []catalog.ArtistSummary
	err  error
}

type graphDoneMsg struct {
	state *graph.State
	err   error
}

// =============================================================================
// BrowseModel - Interactive artist graph browser
// =============================================================================

// BrowseModel is the bubbletea model for the browse command: search for an
// artist, pick one, then expand releases into their videos.
type BrowseModel struct {
	ctx context.Context
	ctl *controller.Controller

	Mode    browseMode
	Query   string
	Hits    []catalog.ArtistSummary
	Rows    []treeRow
	Cursor  int
	Offset  int
	Height  int
	Loading string
	Notice  controller.Notice
	Status  string
}

// NewBrowseModel creates a browser driving ctl. A non-empty query is
// searched as soon as the program starts.
func NewBrowseModel(ctx context.Context, ctl *controller.Controller, query string) BrowseModel {
	return BrowseModel{ctx: ctx, ctl: ctl, Query: query, Height: 15}
}

func (m BrowseModel) Init() tea.Cmd {
	if strings.TrimSpace(m.Query) != "" {
		return m.searchCmd()
	}
	return nil
}

func (m BrowseModel) searchCmd() tea.Cmd {
	ctl, ctx, q := m.ctl, m.ctx, m.Query
	return func() tea.Msg {
		hits, err := ctl.Search(ctx, q)
		return searchDoneMsg{hits: hits, err: err}
	}
}

func (m BrowseModel) selectCmd(id int) tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		s, err := ctl.SelectArtist(ctx, graph.ArtistNodeID(id))
		return graphDoneMsg{state: s, err: err}
	}
}

func (m BrowseModel) clickCmd(nodeID string) tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		s, err := ctl.ClickNode(ctx, nodeID)
		return graphDoneMsg{state: s, err: err}
	}
}

func (m BrowseModel) refreshCmd() tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		s, err := ctl.Refresh(ctx)
		return graphDoneMsg{state: s, err: err}
	}
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		return m, nil

	case searchDoneMsg:
		m.Loading = ""
		m.Notice = controller.NoticeFor(msg.err)
		if msg.err != nil {
			m.Mode = modeSearch
			return m, nil
		}
		m.Hits = msg.hits
		m.Mode = modeResults
		m.Cursor, m.Offset = 0, 0
		return m, nil

	case graphDoneMsg:
		m.Loading = ""
		m.Notice = controller.NoticeFor(msg.err)
		if msg.err != nil {
			return m, nil
		}
		focus := ""
		if m.Mode == modeTree && m.Cursor < len(m.Rows) {
			focus = m.Rows[m.Cursor].ID
		}
		m.Mode = modeTree
		m.Rows = treeRows(m.ctl.State())
		m.Cursor = 0
		for i, r := range m.Rows {
			if r.ID == focus {
				m.Cursor = i
			}
		}
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.Mode == modeSearch {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m BrowseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if m.Loading != "" {
			return m, nil
		}
		m.Notice = controller.Notice{}
		m.Loading = "Searching " + m.Query
		return m, m.searchCmd()
	case tea.KeyBackspace:
		if r := []rune(m.Query); len(r) > 0 {
			m.Query = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.Query += " "
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if unicode.IsPrint(r) {
				m.Query += string(r)
			}
		}
	}
	return m, nil
}

func (m BrowseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.Hits)
	if m.Mode == modeTree {
		n = len(m.Rows)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.Mode == modeTree && len(m.Hits) > 0 {
			m.Mode = modeResults
		} else {
			m.Mode = modeSearch
		}
		m.Cursor, m.Offset = 0, 0
		m.Status = ""
	case "/":
		m.Mode = modeSearch
		m.Status = ""
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.scroll()
	case "down", "j":
		if m.Cursor < n-1 {
			m.Cursor++
		}
		m.scroll()
	case "r":
		if m.Mode == modeTree && m.Loading == "" {
			m.Loading = "Refreshing"
			return m, m.refreshCmd()
		}
	case "enter":
		if m.Loading != "" || n == 0 {
			return m, nil
		}
		m.Notice = controller.Notice{}
		if m.Mode == modeResults {
			hit := m.Hits[m.Cursor]
			m.Loading = "Loading " + hit.Title
			return m, m.selectCmd(hit.ID)
		}
		row := m.Rows[m.Cursor]
		switch row.Kind {
		case graph.KindRelease:
			if !row.Expanded {
				m.Loading = "Fetching videos for " + row.Label
				return m, m.clickCmd(row.ID)
			}
		case graph.KindVideo:
			m.Status = row.URI
		}
	}
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *BrowseModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	switch m.Mode {
	case modeSearch:
		b.WriteString(StyleTitle.Render("Search Artist"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("type a name  ⏎ search  esc quit"))
		b.WriteString("\n\n")
		b.WriteString(listSelectedStyle.Render("› ") + m.Query + StyleDim.Render("█"))
		b.WriteString("\n")
	case modeResults:
		b.WriteString(StyleTitle.Render("Select Artist"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  / search  q quit"))
		b.WriteString("\n\n")
		b.WriteString(m.resultsTable())
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Hits))))
		b.WriteString("\n")
	case modeTree:
		title := "Graph"
		if root, ok := m.ctl.State().Root(); ok {
			title = root.Name
		}
		b.WriteString(StyleTitle.Render(title))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  r refresh  esc back  q quit"))
		b.WriteString("\n\n")
		b.WriteString(m.treeView())
		b.WriteString("\n")
		b.WriteString(statsLine(m.ctl.State()))
		b.WriteString("\n")
	}

	if m.Loading != "" {
		b.WriteString("\n" + styleIconSpinner.Render("⠿") + " " + StyleDim.Render(m.Loading+"..."))
	}
	if !m.Notice.IsZero() {
		icon, style := styleIconInfo.Render(iconInfo), StyleValue
		if m.Notice.Severity == controller.SeverityError {
			icon, style = styleIconError.Render(iconError), StyleWarning
		}
		b.WriteString("\n" + icon + " " + style.Render(m.Notice.Message))
	}
	if m.Status != "" {
		b.WriteString("\n" + StyleDim.Render(iconArrow) + " " + StyleLink.Render(m.Status))
	}
	return b.String()
}

func (m BrowseModel) resultsTable() string {
	end := min(m.Offset+m.Height, len(m.Hits))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, m.Hits[i].Title, fmt.Sprint(m.Hits[i].ID)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Artist", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 2 {
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}

func (m BrowseModel) treeView() string {
	var b strings.Builder
	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := "  "
		if r.Kind == graph.KindRelease {
			marker = "+ "
			if r.Expanded {
				marker = "- "
			}
		}
		label := styleKind[r.Kind].Render(r.Label)
		if i == m.Cursor {
			label = listSelectedStyle.Render(r.Label)
		}
		line := cursor + strings.Repeat("  ", r.Depth) + StyleDim.Render(marker) + label
		if r.Detail != "" {
			line += "  " + listDimStyle.Render(r.Detail)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// =============================================================================
// Tree Rows
// =============================================================================

// treeRow is one line of the graph drawn as an indented tree.
type treeRow struct {
	ID       string
	Kind     graph.Kind
	Depth    int
	Label    string
	Detail   string
	URI      string
	Expanded bool
}

// treeRows flattens s depth-first from the root, children in insertion order.
func treeRows(s *graph.State) []treeRow {
	root, ok := s.Root()
	if !ok {
		return nil
	}
	var rows []treeRow
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, _ := s.Node(id)
		rows = append(rows, treeRow{
			ID:       n.ID,
			Kind:     n.Kind,
			Depth:    depth,
			Label:    n.Name,
			Detail:   nodeDetail(n),
			URI:      metaString(n.Meta, graph.MetaURI),
			Expanded: s.IsExpanded(n.ID),
		})
		for _, c := range s.Children(id) {
			walk(c, depth+1)
		}
	}
	walk(root.ID, 0)
	return rows
}

// nodeDetail summarises a node's metadata for the tree view.
func nodeDetail(n graph.Node) string {
	switch n.Kind {
	case graph.KindRelease:
		var parts []string
		if y := metaInt(n.Meta, graph.MetaYear); y > 0 {
			parts = append(parts, fmt.Sprint(y))
		}
		if l := metaString(n.Meta, graph.MetaLabel); l != "" {
			parts = append(parts, l)
		}
		return strings.Join(parts, " · ")
	case graph.KindVideo:
		if d := metaInt(n.Meta, graph.MetaDuration); d > 0 {
			return formatDuration(d)
		}
	}
	return ""
}

func metaString(m graph.Metadata, key string) string {
	s, _ := m[key].(string)
	return s
}

// metaInt reads an integer that may have been decoded from JSON as float64.
func metaInt(m graph.Metadata, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// formatDuration renders seconds as m:ss.
func formatDuration(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
