package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mgy583/account-book/internal/api"
	"github.com/mgy583/account-book/internal/model"
	"github.com/mgy583/account-book/internal/source"
)

// ErrInvalidInput marks form input rejected before any request is sent.
var ErrInvalidInput = errors.New("invalid input")

var minAmount = decimal.New(1, -2) // 0.01

// FieldError describes one rejected form field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// OrderInput is the create-order form as typed by the user.
type OrderInput struct {
	Name     string
	Type     string
	Amount   string
	Currency string
	Date     string
	Remark   string
}

// AccountInput is the create-account form as typed by the user.
type AccountInput struct {
	Name        string
	AccountType string
	Balance     string
	Currency    string
	Remark      string
}

// ValidateOrder checks the required fields and converts the form into a
// request body. Every failing field is reported, joined.
func ValidateOrder(in OrderInput) (api.NewOrder, error) {
	var errs []error
	out := api.NewOrder{
		Name:   strings.TrimSpace(in.Name),
		Type:   strings.TrimSpace(in.Type),
		Remark: strings.TrimSpace(in.Remark),
	}

	if out.Name == "" {
		errs = append(errs, &FieldError{"name", "required"})
	}

	switch {
	case out.Type == "":
		errs = append(errs, &FieldError{"type", "required"})
	case !slices.Contains(model.OrderTypes, out.Type):
		errs = append(errs, &FieldError{"type", fmt.Sprintf("must be one of %s", strings.Join(model.OrderTypes, ", "))})
	}

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		errs = append(errs, &FieldError{"amount", err.Error()})
	} else if amount.LessThan(minAmount) {
		errs = append(errs, &FieldError{"amount", "must be at least 0.01"})
	} else {
		out.Amount = amount.InexactFloat64()
	}

	currency, err := validateCurrency(in.Currency)
	if err != nil {
		errs = append(errs, err)
	}
	out.Currency = currency

	date := strings.TrimSpace(in.Date)
	if date == "" {
		errs = append(errs, &FieldError{"date", "required"})
	} else if d, ok := source.ParseOrderDate(date); !ok {
		errs = append(errs, &FieldError{"date", "want YYYY-MM-DD"})
	} else {
		out.Date = source.FormatDate(d)
	}

	if len(errs) > 0 {
		return api.NewOrder{}, errors.Join(errs...)
	}
	return out, nil
}

// ValidateAccount checks the create-account form. Balances may be zero or
// negative.
func ValidateAccount(in AccountInput) (api.NewAccount, error) {
	var errs []error
	out := api.NewAccount{
		Name:        strings.TrimSpace(in.Name),
		AccountType: strings.TrimSpace(in.AccountType),
		Remark:      strings.TrimSpace(in.Remark),
	}

	if out.Name == "" {
		errs = append(errs, &FieldError{"name", "required"})
	}
	if out.AccountType == "" {
		errs = append(errs, &FieldError{"account_type", "required"})
	}

	balance, err := ParseAmount(in.Balance)
	if err != nil {
		errs = append(errs, &FieldError{"balance", err.Error()})
	} else {
		out.Balance = balance.InexactFloat64()
	}

	currency, err := validateCurrency(in.Currency)
	if err != nil {
		errs = append(errs, err)
	}
	out.Currency = currency

	if len(errs) > 0 {
		return api.NewAccount{}, errors.Join(errs...)
	}
	return out, nil
}

// ParseAmount parses a money amount with at most two decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", s)
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, errors.New("at most two decimal places")
	}
	return d, nil
}

// validateCurrency accepts a code or its display label and returns the code.
func validateCurrency(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &FieldError{"currency", "required"}
	}
	code := model.NormalizeCurrency(s)
	if !slices.Contains(model.Currencies(), code) {
		return "", &FieldError{"currency", fmt.Sprintf("must be one of %s", strings.Join(model.Currencies(), ", "))}
	}
	return code, nil
}
