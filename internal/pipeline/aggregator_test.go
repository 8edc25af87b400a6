package pipeline

import (
	"testing"
	"time"

	"github.com/mgy583/account-book/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// june15 anchors "this month" on June 2025.
var june15 = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.Local)

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(model.ThisMonth, june15)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2025, time.June, 30, 0, 0, 0, 0, time.Local), end)

	start, end = MonthRange(model.LastMonth, june15)
	assert.Equal(t, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2025, time.May, 31, 0, 0, 0, 0, time.Local), end)
}

func TestMonthRange_YearBoundary(t *testing.T) {
	jan := time.Date(2026, time.January, 31, 23, 0, 0, 0, time.Local)
	start, end := MonthRange(model.LastMonth, jan)
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.Local), end)
}

func TestAggregate_SortedAscending(t *testing.T) {
	orders := []model.Order{
		{Type: "groupA", Amount: 20, Date: "2025-06-01"},
		{Type: "groupB", Amount: 10, Date: "2025-06-02"},
		{Type: "groupA", Amount: 10, Date: "2025-06-03"},
	}

	got := Aggregate(orders, model.GroupByType, model.ThisMonth, june15)
	assert.Equal(t, []model.GroupTotal{
		{Group: "groupB", Total: 10},
		{Group: "groupA", Total: 30},
	}, got)
}

func TestAggregate_StableOnTies(t *testing.T) {
	orders := []model.Order{
		{Type: "first", Amount: 5, Date: "2025-06-01"},
		{Type: "second", Amount: 5, Date: "2025-06-01"},
		{Type: "third", Amount: 1, Date: "2025-06-01"},
	}

	got := Aggregate(orders, model.GroupByType, model.ThisMonth, june15)
	require.Len(t, got, 3)
	assert.Equal(t, "third", got[0].Group)
	assert.Equal(t, "first", got[1].Group)
	assert.Equal(t, "second", got[2].Group)
}

func TestAggregate_WindowAndKeys(t *testing.T) {
	orders := []model.Order{
		{Type: "餐饮", Currency: "CNY", Amount: 30, Date: "2025-06-01"},
		{Type: "餐饮", Currency: "USD", Amount: 12, Date: "2025-06-30"},
		{Type: "购物", Currency: "CNY", Amount: 100, Date: "2025-05-31"}, // last month
		{Type: "交通", Currency: "CNY", Amount: 7, Date: ""},            // no date
		{Type: "交通", Currency: "CNY", Amount: 3, Date: "2025-06-20T09:00:00"},
	}

	byCurrency := Aggregate(orders, model.GroupByCurrency, model.ThisMonth, june15)
	assert.Equal(t, []model.GroupTotal{
		{Group: "USD", Total: 12},
		{Group: "CNY", Total: 33},
	}, byCurrency)

	byMonth := Aggregate(orders, model.GroupByMonth, model.LastMonth, june15)
	assert.Equal(t, []model.GroupTotal{{Group: "2025-05", Total: 100}}, byMonth)
}

func TestAggregate_SumMatchesWindowTotal(t *testing.T) {
	orders := []model.Order{
		{Type: "餐饮", Amount: 1.5, Date: "2025-06-01"},
		{Type: "购物", Amount: 2.25, Date: "2025-06-09"},
		{Type: "其他", Amount: -4, Date: "2025-06-10"}, // refund
		{Type: "购物", Amount: 99, Date: "2025-07-01"},
	}

	var groupSum float64
	for _, g := range Aggregate(orders, model.GroupByType, model.ThisMonth, june15) {
		groupSum += g.Total
	}

	var windowSum float64
	for _, o := range FilterByMonth(orders, model.ThisMonth, june15) {
		windowSum += o.Amount
	}

	assert.InDelta(t, windowSum, groupSum, 1e-9)
	assert.InDelta(t, -0.25, groupSum, 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, model.GroupByType, model.ThisMonth, june15))

	outside := []model.Order{{Type: "餐饮", Amount: 1, Date: "2024-01-01"}}
	assert.Empty(t, Aggregate(outside, model.GroupByType, model.ThisMonth, june15))
}

func TestBuildSeries_DayBuckets(t *testing.T) {
	orders := []model.Order{
		{Date: "2025-06-01", Type: "餐饮", Amount: 20},
		{Date: "2025-06-01", Type: "餐饮", Amount: 5},
		{Date: "2025-06-02", Type: "购物", Amount: 15},
	}

	got := BuildSeries(orders, model.ThisMonth, model.ByDay, june15)
	assert.Equal(t, []model.SeriesPoint{
		{Date: "2025-06-01", Type: "餐饮", Amount: 25},
		{Date: "2025-06-02", Type: "购物", Amount: 15},
	}, got)
}

func TestBuildSeries_DiscoveryOrder(t *testing.T) {
	orders := []model.Order{
		{Date: "2025-06-05", Type: "购物", Amount: 1},
		{Date: "2025-06-01", Type: "餐饮", Amount: 2},
		{Date: "2025-06-05", Type: "餐饮", Amount: 3},
		{Date: "bogus", Type: "餐饮", Amount: 50},
		{Date: "2025-05-05", Type: "餐饮", Amount: 50},
	}

	got := BuildSeries(orders, model.ThisMonth, model.ByDay, june15)
	assert.Equal(t, []model.SeriesPoint{
		{Date: "2025-06-05", Type: "购物", Amount: 1},
		{Date: "2025-06-05", Type: "餐饮", Amount: 3},
		{Date: "2025-06-01", Type: "餐饮", Amount: 2},
	}, got)
	assert.Equal(t, []string{"购物", "餐饮"}, SeriesTypes(got))
}

func TestBuildSeries_MonthBuckets(t *testing.T) {
	orders := []model.Order{
		{Date: "2025-05-01", Type: "餐饮", Amount: 20},
		{Date: "2025-05-31", Type: "餐饮", Amount: 5},
		{Date: "2025-05-02", Type: "交通", Amount: 3},
	}

	got := BuildSeries(orders, model.LastMonth, model.ByMonth, june15)
	assert.Equal(t, []model.SeriesPoint{
		{Date: "2025-05", Type: "餐饮", Amount: 25},
		{Date: "2025-05", Type: "交通", Amount: 3},
	}, got)
}

func BenchmarkAggregate(b *testing.B) {
	orders := make([]model.Order, 0, 5000)
	for i := 0; i < 5000; i++ {
		orders = append(orders, model.Order{
			Type:   model.OrderTypes[i%len(model.OrderTypes)],
			Amount: float64(i % 97),
			Date:   time.Date(2025, time.June, 1+i%30, 0, 0, 0, 0, time.Local).Format("2006-01-02"),
		})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Aggregate(orders, model.GroupByType, model.ThisMonth, june15)
		_ = BuildSeries(orders, model.ThisMonth, model.ByDay, june15)
	}
}
