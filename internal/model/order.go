// Package model defines domain types for orders, accounts and their derived views.
package model

import (
	"fmt"
	"time"
)

// Order types offered by the create form. Incoming data may carry others.
const (
	TypeDining        = "餐饮"
	TypeShopping      = "购物"
	TypeTransport     = "交通"
	TypeEntertainment = "娱乐"
	TypeMedical       = "医疗"
	TypeOther         = "其他"
)

// OrderTypes lists the selectable order types in display order.
var OrderTypes = []string{
	TypeDining,
	TypeShopping,
	TypeTransport,
	TypeEntertainment,
	TypeMedical,
	TypeOther,
}

// Order is one expense/income entry after normalization.
type Order struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Remark   string  `json:"remark,omitempty"`
	Date     string  `json:"date"` // YYYY-MM-DD, or "" when the source had none
}

// Account is a funding account (cash, card, ...) held by the user.
type Account struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	AccountType string  `json:"account_type"`
	Balance     float64 `json:"balance"`
	Currency    string  `json:"currency"`
	Remark      string  `json:"remark,omitempty"`
}

// Filter narrows the order table. Zero-valued fields impose no constraint;
// the date range applies only when both Start and End are set.
type Filter struct {
	Name  string
	Type  string
	Start time.Time
	End   time.Time
}

// HasDateRange reports whether both ends of the date range are set.
func (f Filter) HasDateRange() bool {
	return !f.Start.IsZero() && !f.End.IsZero()
}

// IsEmpty reports whether the filter has no constraints at all.
func (f Filter) IsEmpty() bool {
	return f.Name == "" && f.Type == "" && !f.HasDateRange()
}

// StatGroup selects the key used to bucket orders in the summary.
type StatGroup string

const (
	GroupByType     StatGroup = "type"
	GroupByCurrency StatGroup = "currency"
	GroupByMonth    StatGroup = "month"
)

// ParseStatGroup converts a flag/config value into a StatGroup.
func ParseStatGroup(s string) (StatGroup, error) {
	switch g := StatGroup(s); g {
	case GroupByType, GroupByCurrency, GroupByMonth:
		return g, nil
	}
	return "", fmt.Errorf("unknown stat group %q (want type, currency or month)", s)
}

// MonthWindow selects this or the previous calendar month.
type MonthWindow string

const (
	ThisMonth MonthWindow = "this"
	LastMonth MonthWindow = "last"
)

// ParseMonthWindow converts a flag/config value into a MonthWindow.
func ParseMonthWindow(s string) (MonthWindow, error) {
	switch w := MonthWindow(s); w {
	case ThisMonth, LastMonth:
		return w, nil
	}
	return "", fmt.Errorf("unknown month window %q (want this or last)", s)
}

// Granularity is the date-axis resolution of the chart series.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByMonth Granularity = "month"
)

// ParseGranularity converts a flag/config value into a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case ByDay, ByMonth:
		return g, nil
	}
	return "", fmt.Errorf("unknown granularity %q (want day or month)", s)
}

// Layout returns the time layout used for bucket keys.
func (g Granularity) Layout() string {
	if g == ByMonth {
		return "2006-01"
	}
	return "2006-01-02"
}
