package pipeline

import "github.com/mgy583/account-book/internal/model"

// DefaultPageSize matches the order table's initial page size.
const DefaultPageSize = 8

// PageSizeOptions are the page sizes offered to the user.
var PageSizeOptions = []int{8, 16, 32}

// Paginate filters orders and returns the 1-indexed page of the result.
// Total is always the filtered count; it never comes from the server. Items
// is a fresh slice, never an alias of orders.
func Paginate(orders []model.Order, f model.Filter, page, pageSize int) model.Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	filtered := FilterOrders(orders, f)
	p := model.Page{
		Total:    len(filtered),
		Page:     page,
		PageSize: pageSize,
	}

	start := (page - 1) * pageSize
	if start >= len(filtered) {
		return p
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	p.Items = append([]model.Order(nil), filtered[start:end]...)
	return p
}

// ClampPage keeps page within [1, page count] for the given total.
func ClampPage(page, pageSize, total int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	last := (total + pageSize - 1) / pageSize
	if last < 1 {
		last = 1
	}
	if page > last {
		return last
	}
	if page < 1 {
		return 1
	}
	return page
}
