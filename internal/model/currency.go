package model

// Currency codes accepted by the order service.
const (
	CurrencyCNY = "CNY"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

var currencyLabels = []struct {
	Label string
	Code  string
}{
	{"人民币", CurrencyCNY},
	{"美元", CurrencyUSD},
	{"欧元", CurrencyEUR},
}

// Currencies returns the supported codes in display order.
func Currencies() []string {
	codes := make([]string, len(currencyLabels))
	for i, c := range currencyLabels {
		codes[i] = c.Code
	}
	return codes
}

// CodeForLabel maps a display label such as "人民币" to its code.
func CodeForLabel(label string) (string, bool) {
	for _, c := range currencyLabels {
		if c.Label == label {
			return c.Code, true
		}
	}
	return "", false
}

// LabelForCode maps a code such as "CNY" to its display label.
func LabelForCode(code string) (string, bool) {
	for _, c := range currencyLabels {
		if c.Code == code {
			return c.Label, true
		}
	}
	return "", false
}

// NormalizeCurrency returns the code for a known label and passes anything
// else through unchanged, so servers that already send codes are unaffected.
func NormalizeCurrency(raw string) string {
	if code, ok := CodeForLabel(raw); ok {
		return code
	}
	return raw
}
