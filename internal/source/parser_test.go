package source

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record decodes a JSON object literal into a RawRecord.
func record(t *testing.T, js string) RawRecord {
	t.Helper()
	var r RawRecord
	require.NoError(t, json.Unmarshal([]byte(js), &r), "decode %s", js)
	return r
}

func TestNormalizeOrder_CurrencyLabel(t *testing.T) {
	assert.Equal(t, "CNY", NormalizeOrder(record(t, `{"id":"1","currency":"人民币"}`)).Currency)
	assert.Equal(t, "CNY", NormalizeOrder(record(t, `{"id":"2","currency":"CNY"}`)).Currency, "codes pass unchanged")
	assert.Equal(t, "JPY", NormalizeOrder(record(t, `{"id":"3","currency":"JPY"}`)).Currency, "unknown codes pass through")
}

func TestNormalizeOrder_FieldFallbacks(t *testing.T) {
	o := NormalizeOrder(record(t, `{"_id":"abc","order_type":"交通","name":"地铁","amount":4,"remark":"通勤"}`))

	assert.Equal(t, "abc", o.ID)
	assert.Equal(t, "交通", o.Type)
	assert.Equal(t, "地铁", o.Name)
	assert.Equal(t, 4.0, o.Amount)
	assert.Equal(t, "通勤", o.Remark)
}

func TestNormalizeOrder_IDPrecedence(t *testing.T) {
	o := NormalizeOrder(record(t, `{"id":"primary","_id":"secondary","type":"餐饮","order_type":"购物"}`))
	assert.Equal(t, "primary", o.ID)
	assert.Equal(t, "餐饮", o.Type)

	o = NormalizeOrder(record(t, `{"_id":{"$oid":"665f1c"}}`))
	assert.Equal(t, "665f1c", o.ID, "unwraps $oid")
}

func TestNormalizeOrder_MissingFields(t *testing.T) {
	o := NormalizeOrder(record(t, `{}`))
	assert.Empty(t, o.ID)
	assert.Empty(t, o.Type)
	assert.Empty(t, o.Date)
	assert.Empty(t, o.Name)

	_, ok := ParseOrderDate(o.Date)
	assert.False(t, ok, "empty date does not parse")
}

func TestNormalizeOrder_Dates(t *testing.T) {
	cases := []struct {
		name string
		js   string
		want string
	}{
		{"string verbatim", `{"date":"2025-06-01"}`, "2025-06-01"},
		{"rfc3339 verbatim", `{"date":"2025-06-01T00:00:00Z"}`, "2025-06-01T00:00:00Z"},
		{"null", `{"date":null}`, ""},
		{"epoch millis", `{"date":` + millis(t, "2025-06-15") + `}`, "2025-06-15"},
		{"mongo date string", `{"date":{"$date":"2025-06-15"}}`, "2025-06-15"},
		{"mongo number long", `{"date":{"$date":{"$numberLong":"` + millis(t, "2025-06-16") + `"}}}`, "2025-06-16"},
		{"garbage object", `{"date":{"x":1}}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeOrder(record(t, tc.js)).Date)
		})
	}
}

func TestNormalizeOrder_AmountString(t *testing.T) {
	assert.Equal(t, 12.5, NormalizeOrder(record(t, `{"amount":"12.50"}`)).Amount)
	assert.Zero(t, NormalizeOrder(record(t, `{"amount":true}`)).Amount, "non-numeric amounts are zero")
}

func TestParseOrderDate(t *testing.T) {
	d, ok := ParseOrderDate("2025-06-01")
	require.True(t, ok, "plain date parses")
	want := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local)
	assert.True(t, d.Equal(want), "got %v, want %v", d, want)

	for _, bad := range []string{"", "  ", "not-a-date", "2025-13-01"} {
		_, ok := ParseOrderDate(bad)
		assert.False(t, ok, "ParseOrderDate(%q)", bad)
	}
}

func TestParseTotal(t *testing.T) {
	n, ok := ParseTotal(json.RawMessage(`42`))
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	n, ok = ParseTotal(json.RawMessage(`"7"`))
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = ParseTotal(nil)
	assert.False(t, ok)
}

// millis returns the epoch milliseconds of local noon on the given day.
func millis(t *testing.T, day string) string {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", day, time.Local)
	require.NoError(t, err)
	noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
	return strconv.FormatInt(noon.UnixMilli(), 10)
}

func TestNormalizeAccount(t *testing.T) {
	a := NormalizeAccount(record(t, `{"id":{"$oid":"a1"},"name":"招行","account_type":"银行卡","balance":"1200.5","currency":"美元"}`))
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "招行", a.Name)
	assert.Equal(t, "银行卡", a.AccountType)
	assert.Equal(t, 1200.5, a.Balance)
	assert.Equal(t, "USD", a.Currency)
}
