package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mgy583/account-book/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// data freshness on the right.
func RenderStatusBar(width int, hints, dataAge string, refreshing bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " " + hints
	right := ""
	switch {
	case refreshing:
		right = lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render("refreshing") + " "
	case dataAge != "":
		right = "updated " + dataAge + " "
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	bar := left + lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", padding)) + right

	return style.Render(bar)
}

