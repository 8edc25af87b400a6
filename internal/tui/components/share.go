package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgy583/account-book/internal/tui/theme"
)

// ShareBar renders one labelled group row: name, a bar filled to share,
// the amount and the share as a percentage.
func ShareBar(label, amount string, share float64, labelW, barWidth int) string {
	t := theme.Active

	share = min(max(share, 0), 1)

	bar := progress.New(
		progress.WithSolidFill(string(t.Accent)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	amountStyle := lipgloss.NewStyle().Foreground(t.Expense).Bold(true)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	gap := max(labelW-lipgloss.Width(label), 0)
	return labelStyle.Render(label+strings.Repeat(" ", gap)) + " " +
		bar.ViewAs(share) + " " +
		amountStyle.Render(amount) + " " +
		pctStyle.Render(fmt.Sprintf("%.1f%%", share*100))
}
