// Package pipeline filters, groups and pages normalized orders. Every function
// here is pure: callers pass the order list and the wall-clock anchor.
package pipeline

import (
	"sort"
	"time"

	"github.com/mgy583/account-book/internal/model"
	"github.com/mgy583/account-book/internal/source"
)

// MonthRange returns the first and last calendar day (local midnight) of the
// month selected by w, anchored on now.
func MonthRange(w model.MonthWindow, now time.Time) (time.Time, time.Time) {
	now = now.Local()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	if w == model.LastMonth {
		start = start.AddDate(0, -1, 0)
	}
	end := start.AddDate(0, 1, -1)
	return start, end
}

// FilterByMonth returns the orders whose date falls inside the month window,
// both ends inclusive. Orders with unparseable dates are dropped.
func FilterByMonth(orders []model.Order, w model.MonthWindow, now time.Time) []model.Order {
	start, end := MonthRange(w, now)

	var result []model.Order
	for _, o := range orders {
		if _, ok := dayWithin(o.Date, start, end); ok {
			result = append(result, o)
		}
	}
	return result
}

// Aggregate sums amounts per group key for the orders inside the month
// window. Groups are emitted in first-seen order and then stably sorted by
// ascending total.
func Aggregate(orders []model.Order, group model.StatGroup, w model.MonthWindow, now time.Time) []model.GroupTotal {
	start, end := MonthRange(w, now)

	index := make(map[string]int)
	var totals []model.GroupTotal

	for _, o := range orders {
		day, ok := dayWithin(o.Date, start, end)
		if !ok {
			continue
		}
		key := groupKey(o, day, group)
		i, seen := index[key]
		if !seen {
			i = len(totals)
			index[key] = i
			totals = append(totals, model.GroupTotal{Group: key})
		}
		totals[i].Total += o.Amount
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total < totals[j].Total
	})
	return totals
}

// BuildSeries sums amounts per (date bucket, type) for the orders inside the
// month window. Points are emitted bucket-first in discovery order; the
// renderer decides any further ordering.
func BuildSeries(orders []model.Order, w model.MonthWindow, g model.Granularity, now time.Time) []model.SeriesPoint {
	start, end := MonthRange(w, now)
	layout := g.Layout()

	type bucket struct {
		date  string
		types []string
		sums  map[string]float64
	}

	bucketIdx := make(map[string]int)
	var buckets []*bucket

	for _, o := range orders {
		day, ok := dayWithin(o.Date, start, end)
		if !ok {
			continue
		}
		key := day.Format(layout)
		i, seen := bucketIdx[key]
		if !seen {
			i = len(buckets)
			bucketIdx[key] = i
			buckets = append(buckets, &bucket{date: key, sums: make(map[string]float64)})
		}
		b := buckets[i]
		if _, ok := b.sums[o.Type]; !ok {
			b.types = append(b.types, o.Type)
		}
		b.sums[o.Type] += o.Amount
	}

	var points []model.SeriesPoint
	for _, b := range buckets {
		for _, typ := range b.types {
			points = append(points, model.SeriesPoint{Date: b.date, Type: typ, Amount: b.sums[typ]})
		}
	}
	return points
}

// SeriesTypes returns the distinct types of a series in first-seen order.
func SeriesTypes(points []model.SeriesPoint) []string {
	seen := make(map[string]struct{})
	var types []string
	for _, p := range points {
		if _, ok := seen[p.Type]; ok {
			continue
		}
		seen[p.Type] = struct{}{}
		types = append(types, p.Type)
	}
	return types
}

func groupKey(o model.Order, day time.Time, group model.StatGroup) string {
	switch group {
	case model.GroupByCurrency:
		return o.Currency
	case model.GroupByMonth:
		return day.Format("2006-01")
	default:
		return o.Type
	}
}

// dayWithin parses date and reports whether its calendar day lies in
// [start, end].
func dayWithin(date string, start, end time.Time) (time.Time, bool) {
	day, ok := source.ParseOrderDate(date)
	if !ok {
		return time.Time{}, false
	}
	if day.Before(source.StartOfDay(start)) || day.After(source.StartOfDay(end)) {
		return time.Time{}, false
	}
	return day, true
}
