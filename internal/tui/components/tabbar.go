package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mgy583/account-book/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  string // shortcut; the first letter of Name
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Orders", Key: "o"},
	{Name: "Stats", Key: "s"},
	{Name: "Chart", Key: "c"},
}

// renderTab renders one tab label. Inactive tabs show their shortcut in
// brackets, e.g. "[O]rders".
func renderTab(tab Tab, active bool) string {
	t := theme.Active
	if active {
		return lipgloss.NewStyle().
			Foreground(t.Accent).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	inactive := lipgloss.NewStyle().Foreground(t.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim)

	return " " + dim.Render("[") + keyStyle.Render(strings.ToUpper(tab.Key)) + dim.Render("]") +
		inactive.Render(tab.Name[1:]) + " "
}

// TabVisualWidth returns the rendered width of a tab label in cells.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}

	sep := lipgloss.NewStyle().Foreground(t.Border).Render("│")
	row := strings.Join(parts, sep)
	return lipgloss.NewStyle().Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key string) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
