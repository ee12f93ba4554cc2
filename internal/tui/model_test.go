package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/phonecompare/internal/app"
	"github.com/at-ishikawa/phonecompare/internal/catalog"
	"github.com/at-ishikawa/phonecompare/internal/dataset"
	"github.com/at-ishikawa/phonecompare/internal/filter"
	"github.com/at-ishikawa/phonecompare/internal/storage"
	"github.com/at-ishikawa/phonecompare/internal/testutil"
)

func newModel(t *testing.T) Model {
	t.Helper()
	dir := t.TempDir()
	path := testutil.WriteDataset(t, filepath.Join(dir, "phones.json"), testutil.Phones())
	c, err := catalog.Load(context.Background(), dataset.NewFileFetcher(path), storage.NewFileStore(filepath.Join(dir, "user")))
	require.NoError(t, err)
	return New(app.New(c), WithMarkdownStyle("notty"))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(Model)
	}
	return m, cmd
}

func TestModel_Selection(t *testing.T) {
	m := newModel(t)
	require.Len(t, m.view.Cards, 5)

	m, _ = press(t, m, "space", "down", "space")
	assert.Equal(t, []string{"apple_iphone_16", "xiaomi_15"}, m.view.SelectedIDs)
	assert.Equal(t, app.LevelSuccess, m.notice.Level)
	assert.Contains(t, m.View(), "2/6 selected")

	m, _ = press(t, m, "space")
	assert.Equal(t, []string{"apple_iphone_16"}, m.view.SelectedIDs)

	m, _ = press(t, m, "x")
	assert.Empty(t, m.view.SelectedIDs)
	assert.Equal(t, "Comparison cleared", m.notice.Message)
}

func TestModel_Filters(t *testing.T) {
	m := newModel(t)

	m, _ = press(t, m, "b")
	assert.Equal(t, "Apple", m.view.Query.Brand)
	m, _ = press(t, m, "b")
	assert.Equal(t, "Xiaomi", m.view.Query.Brand)
	assert.Len(t, m.view.Cards, 2)

	m, _ = press(t, m, "p")
	assert.Equal(t, filter.TierLow, m.view.Query.Tier)
	assert.Empty(t, m.view.Cards)
	assert.Contains(t, m.View(), "No phones match the filters.")

	m, _ = press(t, m, "p", "p", "p")
	assert.Equal(t, filter.TierAny, m.view.Query.Tier)

	m, _ = press(t, m, "g")
	assert.Equal(t, "旗舰", m.view.Query.Category)

	m, _ = press(t, m, "r")
	assert.True(t, m.view.Query.IsZero())
	assert.Len(t, m.view.Cards, 5)
	assert.Equal(t, "All filters cleared", m.notice.Message)
}

func TestModel_DebouncedSearch(t *testing.T) {
	m := newModel(t)

	m, _ = press(t, m, "/")
	assert.Equal(t, modeSearch, m.mode)

	m, cmd := press(t, m, "r")
	assert.NotNil(t, cmd)
	m, _ = press(t, m, "e", "d")
	assert.Equal(t, "red", m.search.Value())
	assert.Len(t, m.view.Cards, 5, "the list does not change before the interval")

	next, _ := m.Update(searchMsg{ticket: 1, term: "r"})
	m = next.(Model)
	assert.Len(t, m.view.Cards, 5, "a superseded keystroke is ignored")

	next, _ = m.Update(searchMsg{ticket: 3, term: "red"})
	m = next.(Model)
	require.Len(t, m.view.Cards, 1)
	assert.Equal(t, "redmi_k80", m.view.Cards[0].ID)

	m, _ = press(t, m, "esc")
	assert.Equal(t, modeBrowse, m.mode)
}

func TestModel_SearchEnterAppliesImmediately(t *testing.T) {
	m := newModel(t)

	m, _ = press(t, m, "/", "h", "o", "n", "o", "r", "enter")
	assert.Equal(t, modeBrowse, m.mode)
	require.Len(t, m.view.Cards, 1)
	assert.Equal(t, "honor_x60", m.view.Cards[0].ID)

	next, _ := m.Update(searchMsg{ticket: 5, term: "honor"})
	m = next.(Model)
	assert.Len(t, m.view.Cards, 1)
}

func TestModel_DetailAndCompare(t *testing.T) {
	m := newModel(t)

	m, _ = press(t, m, "c")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, app.LevelError, m.notice.Level)

	m, _ = press(t, m, "enter")
	assert.Equal(t, modeDetail, m.mode)
	assert.Contains(t, m.View(), "iPhone 16")

	m, _ = press(t, m, "esc", "space", "down", "space", "c")
	assert.Equal(t, modeCompare, m.mode)
	view := m.View()
	assert.Contains(t, view, "Comparing 2 phones")
	assert.Contains(t, view, "Brand")

	m, _ = press(t, m, "x")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Empty(t, m.view.SelectedIDs)
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestNext(t *testing.T) {
	options := []string{"Apple", "Xiaomi"}
	assert.Equal(t, "Apple", next(options, ""))
	assert.Equal(t, "Xiaomi", next(options, "Apple"))
	assert.Equal(t, "", next(options, "Xiaomi"))
	assert.Equal(t, "", next(options, "Gone"))
	assert.Equal(t, "", next(nil, ""))
}
