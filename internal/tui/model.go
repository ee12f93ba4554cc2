// Package tui is the interactive phone browser: a filterable card list with a comparison
// selection, a detail view and a comparison table.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/at-ishikawa/phonecompare/internal/app"
	"github.com/at-ishikawa/phonecompare/internal/debounce"
	"github.com/at-ishikawa/phonecompare/internal/filter"
	"github.com/at-ishikawa/phonecompare/internal/render"
	"github.com/at-ishikawa/phonecompare/internal/tui/components"
	"github.com/at-ishikawa/phonecompare/internal/tui/styles"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeDetail
	modeCompare
)

// searchMsg fires when the debounce interval after a keystroke in the search box is over.
type searchMsg struct {
	ticket debounce.Ticket
	term   string
}

var tiers = []filter.PriceTier{filter.TierAny, filter.TierLow, filter.TierMid, filter.TierHigh}

type Model struct {
	app       *app.App
	view      app.View
	notice    app.Notice
	search    textinput.Model
	debouncer *debounce.Debouncer
	pager     viewport.Model

	mode          mode
	cursor        int
	width         int
	height        int
	markdownStyle string
}

type Option func(*Model)

// WithMarkdownStyle sets the glamour style of the detail and comparison views.
func WithMarkdownStyle(style string) Option {
	return func(m *Model) {
		m.markdownStyle = style
	}
}

// WithDebounceInterval sets the quiet time before a search is applied.
func WithDebounceInterval(interval time.Duration) Option {
	return func(m *Model) {
		m.debouncer = debounce.New(interval)
	}
}

func New(a *app.App, opts ...Option) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search model, brand, processor..."
	search.CharLimit = 64
	search.Width = 40

	m := Model{
		app:           a,
		view:          a.View(),
		search:        search,
		debouncer:     debounce.New(debounce.DefaultInterval),
		pager:         viewport.New(80, 20),
		markdownStyle: "dark",
		width:         80,
		height:        24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run starts the browser on the alternate screen until the user quits or ctx is done.
func Run(ctx context.Context, a *app.App, opts ...Option) error {
	p := tea.NewProgram(New(a, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("p.Run > %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pager.Width = msg.Width
		m.pager.Height = max(msg.Height-2, 1)
		return m, nil

	case searchMsg:
		if m.debouncer.Ready(msg.ticket) {
			m.apply(m.app.SetSearch(msg.term))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeDetail, modeCompare:
			return m.updatePager(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		cmd := m.search.Focus()
		return m, cmd
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Cards)-1 {
			m.cursor++
		}
	case " ", "space":
		if card, ok := m.current(); ok {
			result, _ := m.app.Toggle(card.ID)
			m.apply(result)
		}
	case "enter":
		if card, ok := m.current(); ok {
			detail, err := m.app.Detail(card.ID)
			if err != nil {
				m.notice = app.Notice{Level: app.LevelError, Message: err.Error()}
				return m, nil
			}
			m.openPager(modeDetail, detail.Markdown())
		}
	case "c":
		table, result, err := m.app.Compare()
		if err != nil {
			m.apply(result)
			return m, nil
		}
		m.openPager(modeCompare, fmt.Sprintf("# Comparing %d phones\n\n%s", len(table.Headers), table.Markdown()))
	case "x":
		m.apply(m.app.ClearSelection())
	case "r":
		m.search.SetValue("")
		m.debouncer.Cancel()
		m.apply(m.app.ClearFilters())
	case "b":
		m.apply(m.app.SetBrand(next(m.view.Brands, m.view.Query.Brand)))
	case "g":
		m.apply(m.app.SetCategory(next(m.view.Categories, m.view.Query.Category)))
	case "p":
		i := slices.Index(tiers, m.view.Query.Tier)
		m.apply(m.app.SetTier(tiers[(i+1)%len(tiers)]))
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.debouncer.Cancel()
		m.search.Blur()
		m.mode = modeBrowse
		m.apply(m.app.SetSearch(m.search.Value()))
		return m, nil
	case "esc":
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}

	ticket := m.debouncer.Schedule()
	term := m.search.Value()
	tick := tea.Tick(m.debouncer.Interval(), func(time.Time) tea.Msg {
		return searchMsg{ticket: ticket, term: term}
	})
	return m, tea.Batch(cmd, tick)
}

func (m Model) updatePager(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeBrowse
		return m, nil
	case "x":
		if m.mode == modeCompare {
			m.mode = modeBrowse
			m.apply(m.app.ClearSelection())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.pager, cmd = m.pager.Update(msg)
	return m, cmd
}

func (m *Model) openPager(target mode, markdown string) {
	content, err := render.Terminal(markdown, max(m.width-4, 20), m.markdownStyle)
	if err != nil {
		content = markdown
	}
	m.pager.SetContent(content)
	m.pager.GotoTop()
	m.mode = target
}

func (m *Model) apply(result app.Result) {
	m.view = result.View
	if !result.Notice.IsZero() {
		m.notice = result.Notice
	}
	if m.cursor >= len(m.view.Cards) {
		m.cursor = max(len(m.view.Cards)-1, 0)
	}
}

func (m Model) current() (render.Card, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Cards) {
		return render.Card{}, false
	}
	return m.view.Cards[m.cursor], true
}

// next cycles through "" followed by the options.
func next(options []string, current string) string {
	if current == "" {
		if len(options) == 0 {
			return ""
		}
		return options[0]
	}
	i := slices.Index(options, current)
	if i < 0 || i == len(options)-1 {
		return ""
	}
	return options[i+1]
}

func (m Model) View() string {
	switch m.mode {
	case modeDetail, modeCompare:
		help := "↑↓ Scroll • Esc Back"
		if m.mode == modeCompare {
			help += " • x Clear comparison"
		}
		return m.pager.View() + "\n" + components.NewStatusBar().Render(m.width, []string{help})
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Phone Compare"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(m.filterLine())
	b.WriteString("\n\n")

	listHeight := max(m.height-7, 1)
	start := 0
	if m.cursor >= listHeight {
		start = m.cursor - listHeight + 1
	}
	end := min(start+listHeight, len(m.view.Cards))
	if len(m.view.Cards) == 0 {
		b.WriteString(styles.SubtleStyle.Render("No phones match the filters."))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(m.cardLine(i, m.view.Cards[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(components.NewStatusBar().Render(m.width, []string{
		m.view.Stats.String(),
		m.noticeText(),
	}))
	b.WriteString("\n")
	b.WriteString(components.NewStatusBar().Render(m.width, []string{
		"/ Search", "b Brand", "p Price", "g Category", "r Reset", "Space Select", "c Compare", "x Clear", "Enter Details", "q Quit",
	}))
	return b.String()
}

func (m Model) filterLine() string {
	q := m.view.Query
	brand := q.Brand
	if brand == "" {
		brand = "All"
	}
	category := q.Category
	if category == "" {
		category = "All"
	}
	return styles.FilterStyle.Render(fmt.Sprintf("Brand: %s  Price: %s  Category: %s", brand, q.Tier.Label(), category))
}

func (m Model) cardLine(i int, card render.Card) string {
	pointer := "  "
	if i == m.cursor {
		pointer = styles.CursorStyle.Render("> ")
	}
	check := "[ ]"
	if card.Selected {
		check = styles.CheckedStyle.Render("[x]")
	}
	price, _, _ := strings.Cut(card.Price, "\n")
	line := fmt.Sprintf("%s %s %s", check, card.Brand, card.Model)
	details := styles.SubtleStyle.Render(fmt.Sprintf("%s · %s · %s", card.Category, card.Processor, price))
	return pointer + line + "  " + details
}

func (m Model) noticeText() string {
	switch m.notice.Level {
	case app.LevelSuccess:
		return styles.SuccessStyle.Render(m.notice.Message)
	case app.LevelWarning:
		return styles.WarningStyle.Render(m.notice.Message)
	case app.LevelError:
		return styles.ErrorStyle.Render(m.notice.Message)
	}
	return ""
}
