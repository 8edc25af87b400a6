// Package theme defines the colour themes shared by the abook TUI and CLI
// renderers.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mgy583/account-book/internal/model"
)

// Theme maps abook's display roles to colours.
type Theme struct {
	Name string

	// Chrome
	Surface      lipgloss.Color // status bar background
	SurfaceHover lipgloss.Color // active tab, selected order row
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // loading and help cards
	TextDim      lipgloss.Color
	TextMuted    lipgloss.Color
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Key          lipgloss.Color // key names in the help overlay

	// Money
	Expense lipgloss.Color // positive amounts and spending totals
	Income  lipgloss.Color // negative amounts (refunds, income)

	// Notices
	Success lipgloss.Color
	Error   lipgloss.Color

	// Types colours each known order type in charts and legends. Types
	// outside the set take Spare colours by position.
	Types map[string]lipgloss.Color
	Spare []lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default: warm paper tones on a dark ground.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Key:          lipgloss.Color("#24837B"),
	Expense:      lipgloss.Color("#DA702C"),
	Income:       lipgloss.Color("#879A39"),
	Success:      lipgloss.Color("#879A39"),
	Error:        lipgloss.Color("#D14D41"),
	Types: map[string]lipgloss.Color{
		model.TypeDining:        lipgloss.Color("#DA702C"),
		model.TypeShopping:      lipgloss.Color("#8B7EC8"),
		model.TypeTransport:     lipgloss.Color("#4385BE"),
		model.TypeEntertainment: lipgloss.Color("#CE5D97"),
		model.TypeMedical:       lipgloss.Color("#D14D41"),
		model.TypeOther:         lipgloss.Color("#D0A215"),
	},
	Spare: []lipgloss.Color{"#3AA99F", "#879A39", "#878580"},
}

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Key:          lipgloss.Color("#94E2D5"),
	Expense:      lipgloss.Color("#FAB387"),
	Income:       lipgloss.Color("#A6E3A1"),
	Success:      lipgloss.Color("#A6E3A1"),
	Error:        lipgloss.Color("#F38BA8"),
	Types: map[string]lipgloss.Color{
		model.TypeDining:        lipgloss.Color("#FAB387"),
		model.TypeShopping:      lipgloss.Color("#CBA6F7"),
		model.TypeTransport:     lipgloss.Color("#89B4FA"),
		model.TypeEntertainment: lipgloss.Color("#F5C2E7"),
		model.TypeMedical:       lipgloss.Color("#F38BA8"),
		model.TypeOther:         lipgloss.Color("#F9E2AF"),
	},
	Spare: []lipgloss.Color{"#94E2D5", "#A6E3A1", "#A6ADC8"},
}

// TokyoNight is a cool blue and purple theme.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Key:          lipgloss.Color("#7DCFFF"),
	Expense:      lipgloss.Color("#FF9E64"),
	Income:       lipgloss.Color("#9ECE6A"),
	Success:      lipgloss.Color("#9ECE6A"),
	Error:        lipgloss.Color("#F7768E"),
	Types: map[string]lipgloss.Color{
		model.TypeDining:        lipgloss.Color("#FF9E64"),
		model.TypeShopping:      lipgloss.Color("#BB9AF7"),
		model.TypeTransport:     lipgloss.Color("#7AA2F7"),
		model.TypeEntertainment: lipgloss.Color("#FF007C"),
		model.TypeMedical:       lipgloss.Color("#F7768E"),
		model.TypeOther:         lipgloss.Color("#E0AF68"),
	},
	Spare: []lipgloss.Color{"#7DCFFF", "#9ECE6A", "#A9B1D6"},
}

// Terminal sticks to the 16 ANSI colours.
var Terminal = Theme{
	Name:         "terminal",
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Key:          lipgloss.Color("6"),
	Expense:      lipgloss.Color("3"),
	Income:       lipgloss.Color("2"),
	Success:      lipgloss.Color("2"),
	Error:        lipgloss.Color("1"),
	Types: map[string]lipgloss.Color{
		model.TypeDining:        lipgloss.Color("3"),
		model.TypeShopping:      lipgloss.Color("5"),
		model.TypeTransport:     lipgloss.Color("4"),
		model.TypeEntertainment: lipgloss.Color("13"),
		model.TypeMedical:       lipgloss.Color("1"),
		model.TypeOther:         lipgloss.Color("11"),
	},
	Spare: []lipgloss.Color{"6", "2", "7"},
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists the available theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// TypeColor returns the colour for an order type. Unknown types get a spare
// colour picked by their position in types, so one chart stays consistent.
func (t Theme) TypeColor(typ string, types []string) lipgloss.Color {
	if c, ok := t.Types[typ]; ok {
		return c
	}
	idx := 0
	for i, x := range types {
		if x == typ {
			idx = i
			break
		}
	}
	return t.Spare[idx%len(t.Spare)]
}

// AmountColor returns Income for negative amounts and Expense otherwise.
func (t Theme) AmountColor(v float64) lipgloss.Color {
	if v < 0 {
		return t.Income
	}
	return t.Expense
}

// NoticeColor returns the colour for a notification line.
func (t Theme) NoticeColor(isError bool) lipgloss.Color {
	if isError {
		return t.Error
	}
	return t.Success
}
