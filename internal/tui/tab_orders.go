package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mgy583/account-book/internal/cli"
	"github.com/mgy583/account-book/internal/tui/theme"
)

func (a App) renderOrdersTab(cw, h int) string {
	t := theme.Active
	page := a.state.Page

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	const dateW, typeW, amountW, curW = 10, 6, 12, 8
	flex := max(cw-dateW-typeW-amountW-curW-2*6-2, 20)
	nameW := flex * 3 / 5
	remarkW := flex - nameW

	cell := func(s string, w int, right bool) string {
		s = truncStr(s, w)
		gap := max(w-lipgloss.Width(s), 0)
		if right {
			return strings.Repeat(" ", gap) + s
		}
		return s + strings.Repeat(" ", gap)
	}
	// columns splits a row around the amount cell so it can take its own colour.
	columns := func(date, name, typ, amount, cur, remark string) (lead, amt, tail string) {
		lead = " " + strings.Join([]string{
			cell(date, dateW, false),
			cell(name, nameW, false),
			cell(typ, typeW, false),
		}, "  ") + "  "
		tail = "  " + cell(cur, curW, false) + "  " + cell(remark, remarkW, false)
		return lead, cell(amount, amountW, true), tail
	}
	line := func(date, name, typ, amount, cur, remark string) string {
		lead, amt, tail := columns(date, name, typ, amount, cur, remark)
		return lead + amt + tail
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(line("Date", "Name", "Type", "Amount", "Currency", "Remark")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(" " + strings.Repeat("─", max(cw-2, 0))))
	b.WriteString("\n")

	if len(page.Items) == 0 {
		msg := "  No orders"
		if !a.view.Filter.IsEmpty() {
			msg = "  No orders match the current filter (Esc clears it)"
		}
		b.WriteString(mutedStyle.Render(msg))
		b.WriteString("\n")
	}

	for i, o := range page.Items {
		lead, amt, tail := columns(cli.OrDash(o.Date), cli.OrDash(o.Name), cli.OrDash(o.Type),
			cli.FormatAmount(o.Amount), cli.OrDash(o.Currency), o.Remark)
		if i == a.cursor {
			b.WriteString(selStyle.Render(lead + amt + tail))
		} else {
			amountStyle := rowStyle.Foreground(t.AmountColor(o.Amount))
			b.WriteString(rowStyle.Render(lead) + amountStyle.Render(amt) + rowStyle.Render(tail))
		}
		b.WriteString("\n")
	}

	used := len(page.Items) + 3
	if pad := h - used - 1; pad > 0 {
		b.WriteString(strings.Repeat("\n", pad))
	}

	b.WriteString(mutedStyle.Render(fmt.Sprintf(" Page %d/%d · %d orders · %d per page   [n]ext [p]rev [z]size [a]dd [d]elete",
		page.Page, max(page.PageCount(), 1), page.Total, page.PageSize)))
	return b.String()
}
