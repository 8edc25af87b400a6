// Package source normalizes raw order records from the order service into
// canonical model.Order values.
package source

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/mgy583/account-book/internal/model"
)

const dateLayout = "2006-01-02"

// Layouts accepted when reading an order's date string. The server emits
// RFC3339; the create form and older records use plain dates.
var dateLayouts = []string{
	dateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// NormalizeOrder maps one raw record to an Order. It never fails: missing or
// malformed fields become zero values, which later never match a date window
// or a date-range filter.
func NormalizeOrder(raw RawRecord) model.Order {
	return model.Order{
		ID:       firstString(raw, "id", "_id"),
		Name:     stringField(raw["name"]),
		Type:     firstString(raw, "type", "order_type"),
		Amount:   numberField(raw["amount"]),
		Currency: model.NormalizeCurrency(stringField(raw["currency"])),
		Remark:   stringField(raw["remark"]),
		Date:     dateField(raw["date"]),
	}
}

// NormalizeOrders maps every record in order.
func NormalizeOrders(raws []RawRecord) []model.Order {
	orders := make([]model.Order, 0, len(raws))
	for _, r := range raws {
		orders = append(orders, NormalizeOrder(r))
	}
	return orders
}

// NormalizeAccount maps one raw account record, with the same tolerance as
// NormalizeOrder.
func NormalizeAccount(raw RawRecord) model.Account {
	return model.Account{
		ID:          firstString(raw, "id", "_id"),
		Name:        stringField(raw["name"]),
		AccountType: stringField(raw["account_type"]),
		Balance:     numberField(raw["balance"]),
		Currency:    model.NormalizeCurrency(stringField(raw["currency"])),
		Remark:      stringField(raw["remark"]),
	}
}

// ParseOrderDate parses a normalized order date into the local calendar day
// (midnight). Empty or unparseable strings report false.
func ParseOrderDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
			if err == nil {
				t = t.Local()
			}
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return StartOfDay(t), true
		}
	}
	return time.Time{}, false
}

// StartOfDay truncates t to local midnight of its calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// FormatDate renders t as YYYY-MM-DD in local time.
func FormatDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}

// ParseTotal reads the server-reported total, tolerating numbers and numeric
// strings. Anything else yields ok=false.
func ParseTotal(raw json.RawMessage) (int, bool) {
	f, ok := parseNumber(raw)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func firstString(raw RawRecord, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || isNull(v) {
			continue
		}
		if s := idField(v); s != "" {
			return s
		}
	}
	return ""
}

// idField accepts a plain string or {"$oid": "..."}.
func idField(raw json.RawMessage) string {
	if s := stringField(raw); s != "" {
		return s
	}
	var oid mongoOID
	if err := json.Unmarshal(raw, &oid); err == nil {
		return oid.OID
	}
	return ""
}

func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func numberField(raw json.RawMessage) float64 {
	f, _ := parseNumber(raw)
	return f
}

// parseNumber handles JSON numbers and numeric strings ("12.5").
func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || isNull(raw) {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// dateField keeps string dates verbatim and formats everything else as
// YYYY-MM-DD: epoch milliseconds, or a Mongo {"$date": ...} wrapper.
func dateField(raw json.RawMessage) string {
	if len(raw) == 0 || isNull(raw) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return FormatDate(time.UnixMilli(int64(ms)))
	}

	var md mongoDate
	if err := json.Unmarshal(raw, &md); err == nil && len(md.Date) > 0 {
		return formatMongoDate(md.Date)
	}
	return ""
}

func formatMongoDate(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, ok := ParseOrderDate(s); ok {
			return FormatDate(t)
		}
		return ""
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return FormatDate(time.UnixMilli(int64(ms)))
	}

	var nl mongoLong
	if err := json.Unmarshal(raw, &nl); err == nil && nl.NumberLong != "" {
		if v, err := strconv.ParseInt(nl.NumberLong, 10, 64); err == nil {
			return FormatDate(time.UnixMilli(v))
		}
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
