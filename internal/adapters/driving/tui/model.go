package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

// searchCompleted carries the results for one query sequence back to
// the update loop. Results for a superseded sequence are dropped.
type searchCompleted struct {
	seq     int
	results []domain.SearchResult
	err     error
}

// Model is the picker following the Elm architecture. It implements
// tea.Model for use with Bubbletea. The query re-runs on every
// keystroke; Enter records the highlighted path and quits.
type Model struct {
	// ports provides access to core services via driving ports.
	ports Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the picker styles.
	styles *Styles

	// keymap holds the picker keybindings.
	keymap *KeyMap

	// input is the live query input.
	input textinput.Model

	// vaultName labels the header with the open vault.
	vaultName string

	// results holds the current search results.
	results []domain.SearchResult

	// selected is the highlighted result index.
	selected int

	// seq numbers queries so stale async results can be dropped.
	seq int

	// searching is true while a query is in flight.
	searching bool

	// err holds the last search error.
	err error

	// chosen is the path confirmed with Enter, empty until then.
	chosen string

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first WindowSizeMsg has arrived.
	ready bool
}

// Ensure Model implements tea.Model.
var _ tea.Model = Model{}

// New creates a picker over the given ports. The vault name appears in
// the header.
func New(ports Ports, vaultName string) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return Model{
		ports:     ports,
		ctx:       context.Background(),
		styles:    DefaultStyles(),
		keymap:    DefaultKeyMap(),
		input:     ti,
		vaultName: vaultName,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context queries run under.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		inputWidth := msg.Width - 10
		if inputWidth < 20 {
			inputWidth = 20
		}
		m.input.Width = inputWidth
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keymap.Select):
			if r := m.selectedResult(); r != nil {
				m.chosen = r.Ref.Path
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keymap.Up):
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case key.Matches(msg, m.keymap.Down):
			if m.selected < len(m.results)-1 {
				m.selected++
			}
			return m, nil
		}
		return m.updateQuery(msg)

	case searchCompleted:
		if msg.seq != m.seq {
			return m, nil
		}
		m.searching = false
		m.err = msg.err
		m.results = msg.results
		m.selected = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateQuery forwards a key to the input and re-searches when the
// query text changed.
func (m Model) updateQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	query := m.input.Value()
	if query == before {
		return m, cmd
	}

	m.seq++
	if query == "" {
		m.searching = false
		m.results = nil
		m.selected = 0
		m.err = nil
		return m, cmd
	}

	m.searching = true
	return m, tea.Batch(cmd, m.search(query, m.seq))
}

// search runs the query off the update loop.
func (m Model) search(query string, seq int) tea.Cmd {
	svc := m.ports.Search
	ctx := m.ctx
	return func() tea.Msg {
		if svc == nil {
			return searchCompleted{seq: seq, err: ErrNoSearchService}
		}
		results, err := svc.Search(ctx, query, domain.SearchOptions{})
		return searchCompleted{seq: seq, results: results, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initialising..."
	}

	sections := []string{
		m.styles.Title.Render("Chaja") + "  " + m.styles.Muted.Render(m.vaultName),
		"",
		m.styles.InputField.Render(m.input.View()),
		"",
	}

	if m.err != nil {
		sections = append(sections, m.styles.Error.Render("Error: "+m.err.Error()), "")
	}

	sections = append(sections, m.resultsView(), "", m.statusView())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// resultsView renders the navigable result list.
func (m Model) resultsView() string {
	if m.input.Value() == "" {
		return m.styles.Muted.Render(
			fmt.Sprintf("%d documents indexed. Start typing to search.", m.count()))
	}
	if len(m.results) == 0 {
		if m.searching {
			return m.styles.Muted.Render("Searching...")
		}
		return m.styles.Muted.Render("No results")
	}

	// Each result takes two lines; reserve room for header, input,
	// spacing and the status bar.
	visible := (m.height - 10) / 2
	if visible < 1 {
		visible = 1
	}

	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := start + visible
	if end > len(m.results) {
		end = len(m.results)
	}

	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderResult(i, &m.results[i]))
	}
	return strings.Join(lines, "\n")
}

// renderResult formats one result as a name line plus a preview line.
func (m Model) renderResult(index int, r *domain.SearchResult) string {
	maxName := m.width - 18
	if maxName < 10 {
		maxName = 10
	}
	name := clip(r.Ref.Name, maxName)
	meta := m.styles.Muted.Render(fmt.Sprintf("%.2f %s", r.Score, r.Strategy))

	var nameLine string
	if index == m.selected {
		nameLine = m.styles.Selected.Render("> "+name) + "  " + meta
	} else {
		nameLine = "  " + m.renderName(name, r.NameRanges) + "  " + meta
	}

	maxPreview := m.width - 6
	if maxPreview < 20 {
		maxPreview = 20
	}
	snippet := clip(firstLine(r.Preview), maxPreview)
	previewLine := m.styles.Muted.Render("    " + snippet)

	return nameLine + "\n" + previewLine
}

// renderName highlights the matched rune ranges within a name.
func (m Model) renderName(name string, ranges []domain.MatchRange) string {
	if len(ranges) == 0 {
		return m.styles.Normal.Render(name)
	}

	runes := []rune(name)
	hit := make([]bool, len(runes))
	for _, r := range ranges {
		for i := r.Start; i <= r.End && i < len(runes); i++ {
			if i >= 0 {
				hit[i] = true
			}
		}
	}

	var b strings.Builder
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && hit[j] == hit[i] {
			j++
		}
		segment := string(runes[i:j])
		if hit[i] {
			b.WriteString(m.styles.Match.Render(segment))
		} else {
			b.WriteString(m.styles.Normal.Render(segment))
		}
		i = j
	}
	return b.String()
}

// statusView renders the bottom status line with keybinding hints.
func (m Model) statusView() string {
	left := m.statusLeft()

	hints := make([]string, 0, 4)
	for _, b := range m.keymap.ShortHelp() {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	right := strings.Join(hints, " | ")

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return m.styles.StatusBar.Width(m.width).Render(
		left + strings.Repeat(" ", padding) + right)
}

// statusLeft renders the state half of the status line.
func (m Model) statusLeft() string {
	switch {
	case m.searching:
		return "Searching..."
	case m.err != nil:
		return "Error"
	case m.input.Value() == "":
		return "Ready"
	default:
		return fmt.Sprintf("%d results", len(m.results))
	}
}

// count reports the indexed document total for the idle status.
func (m Model) count() int {
	if m.ports.Engine == nil {
		return 0
	}
	return m.ports.Engine.Count()
}

// selectedResult returns the highlighted result, nil when the list is
// empty.
func (m Model) selectedResult() *domain.SearchResult {
	if len(m.results) == 0 || m.selected < 0 || m.selected >= len(m.results) {
		return nil
	}
	return &m.results[m.selected]
}

// Selected returns the path confirmed with Enter, empty when the
// picker was dismissed without choosing.
func (m Model) Selected() string {
	return m.chosen
}

// Query returns the current query text.
func (m Model) Query() string {
	return m.input.Value()
}

// Results returns the current search results.
func (m Model) Results() []domain.SearchResult {
	return m.results
}

// SelectedIndex returns the highlighted result index.
func (m Model) SelectedIndex() int {
	return m.selected
}

// Err returns the last search error, if any.
func (m Model) Err() error {
	return m.err
}

// Ready returns whether the picker has received its dimensions.
func (m Model) Ready() bool {
	return m.ready
}

// clip caps a string at max runes, marking the cut with an ellipsis.
func clip(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// firstLine reduces a preview to its first line.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
