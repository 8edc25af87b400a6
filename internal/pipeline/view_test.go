package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgy583/account-book/internal/model"
)

func TestViewCompute_StatsIgnoreTableFilter(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	orders := []model.Order{
		{ID: "1", Name: "早餐", Type: model.TypeDining, Amount: 12, Currency: "CNY", Date: "2025-03-01"},
		{ID: "2", Name: "地铁", Type: model.TypeTransport, Amount: 4, Currency: "CNY", Date: "2025-03-02"},
		{ID: "3", Name: "午餐", Type: model.TypeDining, Amount: 30, Currency: "CNY", Date: "2025-02-27"},
	}

	v := DefaultView()
	v.Filter.Type = model.TypeTransport
	st := v.Compute(orders, now)

	require.Len(t, st.Page.Items, 1)
	assert.Equal(t, "2", st.Page.Items[0].ID)
	assert.Equal(t, []model.GroupTotal{
		{Group: model.TypeTransport, Total: 4},
		{Group: model.TypeDining, Total: 12},
	}, st.Stats)
	assert.Len(t, st.Series, 2)
}

func TestViewCompute_LastMonthByMonth(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	orders := []model.Order{
		{ID: "1", Type: model.TypeDining, Amount: 12, Currency: "CNY", Date: "2025-03-01"},
		{ID: "3", Type: model.TypeDining, Amount: 30, Currency: "CNY", Date: "2025-02-27"},
		{ID: "4", Type: model.TypeDining, Amount: 8, Currency: "CNY", Date: "2025-02-03"},
	}

	v := DefaultView()
	v.Window = model.LastMonth
	v.Group = model.GroupByMonth
	v.Granularity = model.ByMonth
	st := v.Compute(orders, now)

	assert.Equal(t, 3, st.Page.Total)
	assert.Equal(t, []model.GroupTotal{{Group: "2025-02", Total: 38}}, st.Stats)
	assert.Equal(t, []model.SeriesPoint{{Date: "2025-02", Type: model.TypeDining, Amount: 38}}, st.Series)
}
