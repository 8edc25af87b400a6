package tui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/mgy583/account-book/internal/config"
	"github.com/mgy583/account-book/internal/ledger"
	"github.com/mgy583/account-book/internal/model"
	"github.com/mgy583/account-book/internal/pipeline"
	"github.com/mgy583/account-book/internal/source"
	"github.com/mgy583/account-book/internal/tui/theme"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func validDate(s string) error {
	if _, ok := source.ParseOrderDate(strings.TrimSpace(s)); !ok {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func optionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validDate(s)
}

func currencyOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(model.Currencies()))
	for _, code := range model.Currencies() {
		label, _ := model.LabelForCode(code)
		opts = append(opts, huh.NewOption(label+" ("+code+")", code))
	}
	return opts
}

// OrderForm builds the create-order form bound to in. Empty type, currency
// and date fields are prefilled with 餐饮, CNY and today.
func OrderForm(in *ledger.OrderInput, today time.Time) *huh.Form {
	if in.Type == "" {
		in.Type = model.TypeDining
	}
	if in.Currency == "" {
		in.Currency = model.CurrencyCNY
	}
	if in.Date == "" {
		in.Date = source.FormatDate(today)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&in.Name).
				Validate(required("name")),
			huh.NewSelect[string]().
				Title("Type").
				Options(huh.NewOptions(model.OrderTypes...)...).
				Value(&in.Type),
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&in.Amount).
				Validate(func(s string) error {
					d, err := ledger.ParseAmount(s)
					if err != nil {
						return err
					}
					if d.IsNegative() || d.IsZero() {
						return errors.New("must be at least 0.01")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Currency").
				Options(currencyOptions()...).
				Value(&in.Currency),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&in.Date).
				Validate(validDate),
			huh.NewInput().
				Title("Remark").
				Value(&in.Remark),
		).Title("New order"),
	)
}

// AccountForm builds the create-account form bound to in.
func AccountForm(in *ledger.AccountInput) *huh.Form {
	if in.Currency == "" {
		in.Currency = model.CurrencyCNY
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&in.Name).Validate(required("name")),
			huh.NewInput().Title("Account type").Placeholder("储蓄卡, 信用卡, 现金...").Value(&in.AccountType).Validate(required("account type")),
			huh.NewInput().Title("Balance").Placeholder("0.00").Value(&in.Balance).Validate(func(s string) error {
				_, err := ledger.ParseAmount(s)
				return err
			}),
			huh.NewSelect[string]().Title("Currency").Options(currencyOptions()...).Value(&in.Currency),
			huh.NewInput().Title("Remark").Value(&in.Remark),
		).Title("New account"),
	)
}

// CredentialsForm asks for a username and password.
func CredentialsForm(title string, username, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(username).Validate(required("username")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password).Validate(required("password")),
		).Title(title),
	)
}

// ConfirmForm asks a yes/no question.
func ConfirmForm(title string, ok *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(ok),
		),
	)
}

// DateRange holds the date filter inputs as typed.
type DateRange struct {
	From string
	To   string
}

// DateRangeForm asks for an inclusive date range. Both empty clears it.
func DateRangeForm(r *DateRange) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("From").Placeholder("YYYY-MM-DD").Value(&r.From).Validate(optionalDate),
			huh.NewInput().Title("To").Placeholder("YYYY-MM-DD").Value(&r.To).Validate(optionalDate),
		).Title("Filter by date").Description("Leave both empty to clear"),
	).WithShowHelp(true)
}

// Apply sets f's date range from r. It returns an error when only one end
// is given.
func (r DateRange) Apply(f *model.Filter) error {
	from, to := strings.TrimSpace(r.From), strings.TrimSpace(r.To)
	if from == "" && to == "" {
		f.Start, f.End = time.Time{}, time.Time{}
		return nil
	}
	start, okStart := source.ParseOrderDate(from)
	end, okEnd := source.ParseOrderDate(to)
	if !okStart || !okEnd {
		return errors.New("both dates are required, as YYYY-MM-DD")
	}
	if end.Before(start) {
		start, end = end, start
	}
	f.Start, f.End = start, end
	return nil
}

// SetupValues holds the setup wizard answers.
type SetupValues struct {
	BaseURL     string
	PageSize    int
	StatGroup   string
	StatMonth   string
	Granularity string
	Theme       string
}

// SetupValuesFrom seeds the wizard from an existing config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		BaseURL:     cfg.Server.BaseURL,
		PageSize:    cfg.Display.PageSize,
		StatGroup:   cfg.Display.StatGroup,
		StatMonth:   cfg.Display.StatMonth,
		Granularity: cfg.Display.ChartGranularity,
		Theme:       cfg.Appearance.Theme,
	}
}

// Apply copies the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.Server.BaseURL = strings.TrimSpace(v.BaseURL)
	cfg.Display.PageSize = v.PageSize
	cfg.Display.StatGroup = v.StatGroup
	cfg.Display.StatMonth = v.StatMonth
	cfg.Display.ChartGranularity = v.Granularity
	cfg.Appearance.Theme = v.Theme
}

// SetupForm builds the first-run wizard.
func SetupForm(v *SetupValues) *huh.Form {
	pageSizes := make([]huh.Option[int], len(pipeline.PageSizeOptions))
	for i, n := range pipeline.PageSizeOptions {
		pageSizes[i] = huh.NewOption(strconv.Itoa(n)+" rows", n)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Order service URL").
				Description("Base URL of the account-book API").
				Value(&v.BaseURL).
				Validate(required("URL")),
		),
		huh.NewGroup(
			huh.NewSelect[int]().Title("Rows per page").Options(pageSizes...).Value(&v.PageSize),
			huh.NewSelect[string]().Title("Group statistics by").Options(
				huh.NewOption("Type", string(model.GroupByType)),
				huh.NewOption("Currency", string(model.GroupByCurrency)),
				huh.NewOption("Month", string(model.GroupByMonth)),
			).Value(&v.StatGroup),
			huh.NewSelect[string]().Title("Statistics month").Options(
				huh.NewOption("This month", string(model.ThisMonth)),
				huh.NewOption("Last month", string(model.LastMonth)),
			).Value(&v.StatMonth),
			huh.NewSelect[string]().Title("Chart buckets").Options(
				huh.NewOption("Day", string(model.ByDay)),
				huh.NewOption("Month", string(model.ByMonth)),
			).Value(&v.Granularity),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Color theme").Options(huh.NewOptions(theme.Names()...)...).Value(&v.Theme),
		),
	)
}
