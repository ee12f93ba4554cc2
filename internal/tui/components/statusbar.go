package components

import (
	"strings"

	"github.com/at-ishikawa/phonecompare/internal/tui/styles"
)

// StatusBar renders the counters, the last notice and key help on one line.
type StatusBar struct{}

func NewStatusBar() StatusBar {
	return StatusBar{}
}

// Render joins the non-empty items with " • " and pads the line to width.
func (s StatusBar) Render(width int, items []string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			parts = append(parts, item)
		}
	}
	return styles.StatusBarStyle.Width(width).Render(strings.Join(parts, " • "))
}
