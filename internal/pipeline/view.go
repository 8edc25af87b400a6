package pipeline

import (
	"time"

	"github.com/mgy583/account-book/internal/model"
)

// View holds the user's current table and chart selections.
type View struct {
	Filter      model.Filter
	Page        int
	PageSize    int
	Group       model.StatGroup
	Window      model.MonthWindow
	Granularity model.Granularity
}

// ViewState is everything a screen needs to render one frame.
type ViewState struct {
	Page   model.Page
	Stats  []model.GroupTotal
	Series []model.SeriesPoint
}

// DefaultView returns the initial selections of the order screen.
func DefaultView() View {
	return View{
		Page:        1,
		PageSize:    DefaultPageSize,
		Group:       model.GroupByType,
		Window:      model.ThisMonth,
		Granularity: model.ByDay,
	}
}

// Compute derives the table page, the grouped summary and the chart series
// from the full order list. The summary and series ignore the table filter.
func (v View) Compute(orders []model.Order, now time.Time) ViewState {
	return ViewState{
		Page:   Paginate(orders, v.Filter, v.Page, v.PageSize),
		Stats:  Aggregate(orders, v.Group, v.Window, now),
		Series: BuildSeries(orders, v.Window, v.Granularity, now),
	}
}
