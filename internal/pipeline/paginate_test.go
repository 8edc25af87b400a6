package pipeline

import (
	"fmt"
	"testing"

	"github.com/mgy583/account-book/internal/model"
	"github.com/stretchr/testify/assert"
)

func numberedOrders(n int) []model.Order {
	orders := make([]model.Order, n)
	for i := range orders {
		orders[i] = model.Order{ID: fmt.Sprintf("o%d", i), Name: "order", Type: "其他"}
	}
	return orders
}

func TestPaginate_SecondPage(t *testing.T) {
	orders := numberedOrders(10)

	p := Paginate(orders, model.Filter{}, 2, 4)
	assert.Equal(t, 10, p.Total)
	assert.Equal(t, orders[4:8], p.Items)
	assert.Equal(t, 3, p.PageCount())
}

func TestPaginate_LastPartialPage(t *testing.T) {
	p := Paginate(numberedOrders(10), model.Filter{}, 3, 4)
	assert.Len(t, p.Items, 2)
}

func TestPaginate_PastEnd(t *testing.T) {
	p := Paginate(numberedOrders(3), model.Filter{}, 5, 4)
	assert.Empty(t, p.Items)
	assert.Equal(t, 3, p.Total)
}

func TestPaginate_TotalIsFilteredCount(t *testing.T) {
	orders := numberedOrders(6)
	orders[1].Name = "早餐"
	orders[4].Name = "晚餐"

	p := Paginate(orders, model.Filter{Name: "餐"}, 1, 8)
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, []model.Order{orders[1], orders[4]}, p.Items)
}

func TestPaginate_ItemsDoNotAliasInput(t *testing.T) {
	orders := numberedOrders(4)

	p := Paginate(orders, model.Filter{}, 1, 2)
	p.Items[0].Name = "changed"
	p.Items = append(p.Items, model.Order{ID: "extra"})

	assert.Equal(t, "order", orders[0].Name)
	assert.Equal(t, "o2", orders[2].ID)
}

func TestPaginate_Defaults(t *testing.T) {
	p := Paginate(numberedOrders(20), model.Filter{}, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Len(t, p.Items, DefaultPageSize)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 8, 20))
	assert.Equal(t, 3, ClampPage(9, 8, 20))
	assert.Equal(t, 1, ClampPage(4, 8, 0))
	assert.Equal(t, 2, ClampPage(2, 8, 20))
}

func TestViewCompute(t *testing.T) {
	orders := []model.Order{
		{ID: "a", Name: "早餐", Type: "餐饮", Amount: 20, Currency: "CNY", Date: "2025-06-01"},
		{ID: "b", Name: "地铁", Type: "交通", Amount: 5, Currency: "CNY", Date: "2025-06-01"},
		{ID: "c", Name: "外套", Type: "购物", Amount: 80, Currency: "CNY", Date: "2025-05-20"},
	}

	v := DefaultView()
	v.Filter = model.Filter{Type: "餐饮"}
	state := v.Compute(orders, june15)

	assert.Equal(t, 1, state.Page.Total)
	assert.Equal(t, []model.GroupTotal{
		{Group: "交通", Total: 5},
		{Group: "餐饮", Total: 20},
	}, state.Stats, "summary ignores the table filter")
	assert.Len(t, state.Series, 2)
}
