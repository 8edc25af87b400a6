package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgy583/account-book/internal/api"
	"github.com/mgy583/account-book/internal/model"
)

func fieldNames(err error) []string {
	var out []string
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			var fe *FieldError
			if errors.As(e, &fe) {
				out = append(out, fe.Field)
			}
		}
	}
	return out
}

func TestValidateOrder_Valid(t *testing.T) {
	in := validInput()
	in.Currency = "美元"
	in.Remark = "  team lunch "

	got, err := ValidateOrder(in)
	require.NoError(t, err)
	assert.Equal(t, api.NewOrder{
		Name: "午餐", Type: model.TypeDining, Amount: 25.5, Currency: "USD", Date: "2025-06-10", Remark: "team lunch",
	}, got)
}

func TestValidateOrder_ReportsEveryMissingField(t *testing.T) {
	_, err := ValidateOrder(OrderInput{})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, []string{"name", "type", "amount", "currency", "date"}, fieldNames(err))
}

func TestValidateOrder_Amount(t *testing.T) {
	tests := []struct {
		amount string
		ok     bool
	}{
		{"0.01", true},
		{"100", true},
		{"12.30", true},
		{"0", false},
		{"0.009", false},
		{"-5", false},
		{"1.234", false},
		{"abc", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			in := validInput()
			in.Amount = tt.amount
			_, err := ValidateOrder(in)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, []string{"amount"}, fieldNames(err))
		})
	}
}

func TestValidateOrder_UnknownTypeAndCurrency(t *testing.T) {
	in := validInput()
	in.Type = "旅行"
	in.Currency = "JPY"
	_, err := ValidateOrder(in)
	assert.Equal(t, []string{"type", "currency"}, fieldNames(err))
}

func TestValidateOrder_DateNormalized(t *testing.T) {
	in := validInput()
	in.Date = "2025/06/09"
	got, err := ValidateOrder(in)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-09", got.Date)

	in.Date = "yesterday"
	_, err = ValidateOrder(in)
	assert.Equal(t, []string{"date"}, fieldNames(err))
}

func TestValidateAccount(t *testing.T) {
	got, err := ValidateAccount(AccountInput{
		Name: "招商银行", AccountType: "储蓄卡", Balance: "-20.5", Currency: "人民币",
	})
	require.NoError(t, err)
	assert.Equal(t, api.NewAccount{Name: "招商银行", AccountType: "储蓄卡", Balance: -20.5, Currency: "CNY"}, got)

	_, err = ValidateAccount(AccountInput{Balance: "x"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, []string{"name", "account_type", "balance", "currency"}, fieldNames(err))
}

func TestCollectorAndLogNotifier(t *testing.T) {
	c := &Collector{}
	c.Notify(Notification{Message: "x"})
	assert.Equal(t, 1, c.Len())
	assert.Len(t, c.Drain(), 1)
	assert.Zero(t, c.Len())

	assert.NotPanics(t, func() {
		LogNotifier{}.Notify(Notification{Level: LevelError, Message: "y", Err: errors.New("z")})
	})
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "info", LevelInfo.String())
}
