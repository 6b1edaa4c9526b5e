// Package tui implements the interactive search interface: a query
// input, a navigable result list, and an index status line. Keystrokes
// are debounced so the search service sees one query per pause in
// typing rather than one per character.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driving"
	"github.com/folio-labs/folio-cli/internal/core/services"
)

// DebounceInterval is how long the input must be idle before a search
// fires.
const DebounceInterval = 200 * time.Millisecond

// debounceMsg fires after the debounce interval. The tag identifies
// which edit scheduled it; stale tags are ignored.
type debounceMsg struct {
	tag int
}

// searchDoneMsg carries results back into the update loop.
type searchDoneMsg struct {
	query   string
	results []domain.SearchResult
}

// App is the bubbletea model for the search interface.
type App struct {
	styles  *Styles
	input   textinput.Model
	search  driving.SearchService
	indexer driving.Indexer
	ctx     context.Context

	results   []domain.SearchResult
	lastQuery string
	selected  int
	tag       int
	searching bool
	width     int
	height    int
}

// NewApp creates the search interface.
func NewApp(search driving.SearchService, indexer driving.Indexer) *App {
	ti := textinput.New()
	ti.Placeholder = "Ask about your portfolios..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &App{
		styles:  NewStyles(nil),
		input:   ti,
		search:  search,
		indexer: indexer,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context used for search calls.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx != nil {
		a.ctx = ctx
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(20, msg.Width-10)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case debounceMsg:
		// Only the latest edit's timer may trigger a search.
		if msg.tag != a.tag {
			return a, nil
		}
		return a, a.performSearch(a.input.Value())

	case searchDoneMsg:
		a.searching = false
		a.lastQuery = msg.query
		a.results = msg.results
		if a.selected >= len(a.results) {
			a.selected = 0
		}
		return a, nil
	}

	return a.updateInput(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit

	case tea.KeyEsc:
		if a.input.Value() == "" {
			return a, tea.Quit
		}
		a.input.Reset()
		a.results = nil
		a.lastQuery = ""
		a.selected = 0
		a.tag++
		return a, nil

	case tea.KeyEnter:
		// Search immediately, skipping the debounce.
		a.tag++
		return a, a.performSearch(a.input.Value())

	case tea.KeyUp:
		if a.selected > 0 {
			a.selected--
		}
		return a, nil

	case tea.KeyDown:
		if a.selected < len(a.results)-1 {
			a.selected++
		}
		return a, nil
	}

	return a.updateInput(msg)
}

// updateInput forwards a message to the text input and schedules a
// debounced search when the query changed.
func (a *App) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := a.input.Value()

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)

	if a.input.Value() == before {
		return a, cmd
	}

	a.tag++
	tag := a.tag
	debounce := tea.Tick(DebounceInterval, func(time.Time) tea.Msg {
		return debounceMsg{tag: tag}
	})
	return a, tea.Batch(cmd, debounce)
}

// performSearch runs the query off the update loop.
func (a *App) performSearch(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		return func() tea.Msg {
			return searchDoneMsg{}
		}
	}

	a.searching = true
	ctx := a.ctx
	search := a.search
	return func() tea.Msg {
		results, err := search.Search(ctx, query, domain.SearchOptions{})
		if err != nil {
			// The search service degrades rather than failing; treat a
			// residual error as no results.
			results = nil
		}
		return searchDoneMsg{query: query, results: results}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Folio"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.InputField.Render(a.input.View()))
	b.WriteString("\n\n")

	switch {
	case a.searching:
		b.WriteString(a.styles.Muted.Render("Searching..."))
		b.WriteString("\n")
	case a.lastQuery != "" && len(a.results) == 0:
		b.WriteString(a.styles.Muted.Render("No results."))
		b.WriteString("\n")
	default:
		b.WriteString(a.renderResults())
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render(a.statusLine()))
	return b.String()
}

func (a *App) renderResults() string {
	var b strings.Builder
	for i := range a.results {
		r := &a.results[i]

		line := fmt.Sprintf("%s (%s)", r.Name, r.MatchField)
		if r.SemanticScore != nil {
			line = fmt.Sprintf("%s (%s, %.2f)", r.Name, r.MatchField, *r.SemanticScore)
		}
		if i == a.selected {
			b.WriteString(a.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(a.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")

		detail := r.MatchValue
		if r.SemanticText != "" {
			detail = r.SemanticText
		}
		if detail != "" {
			b.WriteString(a.styles.Muted.Render("    " + services.PreviewText(detail)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (a *App) statusLine() string {
	index := "index: not built"
	if a.indexer != nil && a.indexer.Ready() {
		index = fmt.Sprintf("index: %d entries", a.indexer.Len())
	}
	return fmt.Sprintf("%s  •  ↑/↓ navigate  •  enter search  •  esc clear/quit  •  ctrl+c quit", index)
}
