package tui

import (
	"fmt"

	"github.com/mgy583/account-book/internal/cli"
	"github.com/mgy583/account-book/internal/pipeline"
	"github.com/mgy583/account-book/internal/tui/components"
)

func (a App) renderChartTab(cw int) string {
	series := a.state.Series
	types := pipeline.SeriesTypes(series)

	barW := max(components.CardInnerWidth(cw)-24, 10)
	body := cli.RenderStackedBars(series, types, barW)

	start, end := pipeline.MonthRange(a.view.Window, a.now())
	title := fmt.Sprintf("By %s · %s to %s   [g] day/month  [m] month",
		a.view.Granularity, start.Format("2006-01-02"), end.Format("2006-01-02"))
	return components.ContentCard(title, body, cw)
}
