package pipeline

import (
	"testing"
	"time"

	"github.com/mgy583/account-book/internal/model"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

var sampleOrders = []model.Order{
	{ID: "1", Name: "早餐", Type: "餐饮", Amount: 12, Date: "2025-06-01"},
	{ID: "2", Name: "午餐 Lunch", Type: "餐饮", Amount: 30, Date: "2025-06-02"},
	{ID: "3", Name: "地铁", Type: "交通", Amount: 4, Date: "2025-06-03"},
	{ID: "4", Name: "衣服", Type: "购物", Amount: 300, Date: ""},
}

func TestMatches_EmptyFilterIsIdentity(t *testing.T) {
	for _, o := range sampleOrders {
		assert.True(t, Matches(o, model.Filter{}), "order %s", o.ID)
	}
	assert.Equal(t, sampleOrders, FilterOrders(sampleOrders, model.Filter{}))
}

func TestMatches_Name(t *testing.T) {
	assert.True(t, Matches(sampleOrders[1], model.Filter{Name: "Lunch"}))
	assert.False(t, Matches(sampleOrders[1], model.Filter{Name: "lunch"}), "name match is case-sensitive")
	assert.True(t, Matches(sampleOrders[0], model.Filter{Name: "餐"}))
	assert.False(t, Matches(sampleOrders[2], model.Filter{Name: "餐"}))
}

func TestMatches_Type(t *testing.T) {
	got := FilterOrders(sampleOrders, model.Filter{Type: "餐饮"})
	assert.Len(t, got, 2)
	assert.False(t, Matches(sampleOrders[0], model.Filter{Type: "餐"}), "type match is exact")
}

func TestMatches_DateRangeInclusive(t *testing.T) {
	f := model.Filter{Start: day(2025, time.June, 1), End: day(2025, time.June, 2)}

	got := FilterOrders(sampleOrders, f)
	ids := make([]string, 0, len(got))
	for _, o := range got {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"1", "2"}, ids)
	assert.False(t, Matches(sampleOrders[3], f), "orders without a date fail a date range")
}

func TestMatches_DateRangeIgnoresTimeOfDay(t *testing.T) {
	f := model.Filter{
		Start: time.Date(2025, time.June, 3, 18, 0, 0, 0, time.Local),
		End:   time.Date(2025, time.June, 3, 1, 0, 0, 0, time.Local),
	}
	assert.True(t, Matches(sampleOrders[2], f))
}

func TestMatches_HalfRangeIsIgnored(t *testing.T) {
	f := model.Filter{Start: day(2030, time.January, 1)}
	assert.True(t, Matches(sampleOrders[0], f))
}

func TestMatches_Combined(t *testing.T) {
	f := model.Filter{
		Name:  "餐",
		Type:  "餐饮",
		Start: day(2025, time.June, 2),
		End:   day(2025, time.June, 30),
	}
	assert.False(t, Matches(sampleOrders[0], f), "before the range")
	assert.True(t, Matches(sampleOrders[1], f))
	assert.False(t, Matches(sampleOrders[2], f), "wrong type")
}
