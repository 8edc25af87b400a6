package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mgy583/account-book/internal/cli"
	"github.com/mgy583/account-book/internal/pipeline"
	"github.com/mgy583/account-book/internal/tui/components"
	"github.com/mgy583/account-book/internal/tui/theme"
)

func (a App) renderStatsTab(cw int) string {
	t := theme.Active
	stats := a.state.Stats
	start, end := pipeline.MonthRange(a.view.Window, a.now())
	inWindow := pipeline.FilterByMonth(a.orders, a.view.Window, a.now())

	var sum float64
	for _, g := range stats {
		sum += g.Total
	}

	top := "-"
	if len(stats) > 0 {
		top = stats[len(stats)-1].Group
	}

	cards := components.MetricCardRow([]components.Metric{
		{Label: "Orders", Value: fmt.Sprint(len(inWindow)), Note: windowLabel(a.view.Window)},
		{Label: "Total", Value: cli.FormatAmount(sum), Note: "all currencies"},
		{Label: "Largest " + string(a.view.Group), Value: cli.OrDash(top)},
	}, cw)

	var body strings.Builder
	if len(stats) == 0 {
		body.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render("No orders in this period"))
	} else {
		labelW := 0
		for _, g := range stats {
			labelW = max(labelW, lipgloss.Width(cli.OrDash(g.Group)))
		}
		barW := max(components.CardInnerWidth(cw)-labelW-24, 10)
		for i, g := range stats {
			share := 0.0
			if sum != 0 {
				share = g.Total / sum
			}
			if i > 0 {
				body.WriteString("\n")
			}
			body.WriteString(components.ShareBar(cli.OrDash(g.Group), cli.FormatAmount(g.Total), share, labelW, barW))
		}
	}

	title := fmt.Sprintf("By %s · %s to %s   [g] group  [m] month",
		a.view.Group, start.Format("2006-01-02"), end.Format("2006-01-02"))
	return cards + "\n" + components.ContentCard(title, body.String(), cw)
}
