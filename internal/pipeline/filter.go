package pipeline

import (
	"strings"

	"github.com/mgy583/account-book/internal/model"
)

// Matches reports whether o satisfies every constraint set on f. The name
// match is a case-sensitive substring; the type match is exact; the date
// range is inclusive and rejects orders whose date cannot be parsed.
func Matches(o model.Order, f model.Filter) bool {
	if f.Name != "" && !strings.Contains(o.Name, f.Name) {
		return false
	}
	if f.Type != "" && o.Type != f.Type {
		return false
	}
	if f.HasDateRange() {
		if _, ok := dayWithin(o.Date, f.Start, f.End); !ok {
			return false
		}
	}
	return true
}

// FilterOrders returns the orders matching f, preserving input order.
func FilterOrders(orders []model.Order, f model.Filter) []model.Order {
	if f.IsEmpty() {
		return orders
	}
	var result []model.Order
	for _, o := range orders {
		if Matches(o, f) {
			result = append(result, o)
		}
	}
	return result
}
