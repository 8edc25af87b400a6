package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgy583/account-book/internal/model"
)

func TestThemes_CoverEveryOrderType(t *testing.T) {
	known := []string{
		model.TypeDining, model.TypeShopping, model.TypeTransport,
		model.TypeEntertainment, model.TypeMedical, model.TypeOther,
	}
	for _, th := range All {
		t.Run(th.Name, func(t *testing.T) {
			require.NotEmpty(t, th.Spare)
			seen := make(map[lipgloss.Color]string)
			for _, typ := range known {
				c, ok := th.Types[typ]
				require.True(t, ok, "no colour for %s", typ)
				assert.NotContains(t, seen, c, "%s shares a colour with %s", typ, seen[c])
				seen[c] = typ
			}
			assert.NotEqual(t, th.Income, th.Expense)
			assert.NotEqual(t, th.Success, th.Error)
		})
	}
}

func TestTypeColor_SpareFollowsPosition(t *testing.T) {
	th := FlexokiDark
	assert.Equal(t, th.Types[model.TypeDining], th.TypeColor(model.TypeDining, nil))

	types := []string{"x", "y", "z", "w"}
	assert.Equal(t, th.Spare[1], th.TypeColor("y", types))
	assert.Equal(t, th.Spare[0], th.TypeColor("w", types), "wraps around the spare list")
	assert.Equal(t, th.Spare[0], th.TypeColor("absent", types))
}

func TestAmountColor(t *testing.T) {
	th := TokyoNight
	assert.Equal(t, th.Expense, th.AmountColor(25.5))
	assert.Equal(t, th.Expense, th.AmountColor(0))
	assert.Equal(t, th.Income, th.AmountColor(-3))
}

func TestNoticeColor(t *testing.T) {
	th := CatppuccinMocha
	assert.Equal(t, th.Error, th.NoticeColor(true))
	assert.Equal(t, th.Success, th.NoticeColor(false))
}

func TestSetActive_UnknownFallsBackToDefault(t *testing.T) {
	t.Cleanup(func() { SetActive(FlexokiDark.Name) })

	SetActive("terminal")
	assert.Equal(t, "terminal", Active.Name)
	SetActive("no-such-theme")
	assert.Equal(t, FlexokiDark.Name, Active.Name)
	assert.Equal(t, []string{"flexoki-dark", "catppuccin-mocha", "tokyo-night", "terminal"}, Names())
}
