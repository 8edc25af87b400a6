package model

// GroupTotal is one row of the grouped monthly summary.
type GroupTotal struct {
	Group string  `json:"group"`
	Total float64 `json:"amount"`
}

// SeriesPoint is one (date bucket, type) cell of the chart series.
type SeriesPoint struct {
	Date   string  `json:"date"`
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// Page is one page of the filtered order table.
type Page struct {
	Items    []Order
	Total    int // number of orders matching the filter
	Page     int // 1-indexed
	PageSize int
}

// PageCount returns the number of pages needed for Total items.
func (p Page) PageCount() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}
