package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mgy583/account-book/internal/model"
	"github.com/mgy583/account-book/internal/tui/theme"
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Styles read theme.Active at render time so the configured theme applies.
func titleStyle() lipgloss.Style {
	return fg(theme.Active.TextPrimary).Bold(true).Align(lipgloss.Center)
}

func headerStyle() lipgloss.Style { return fg(theme.Active.Accent).Bold(true) }
func valueStyle() lipgloss.Style  { return fg(theme.Active.TextPrimary) }
func mutedStyle() lipgloss.Style  { return fg(theme.Active.TextMuted) }
func dimStyle() lipgloss.Style    { return fg(theme.Active.TextDim) }

func amountStyle(v float64) lipgloss.Style { return fg(theme.Active.AmountColor(v)) }

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int  // optional column widths, auto-calculated if nil
	Right   []bool // right-aligned columns; nil right-aligns all but the first
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle().Render(title))
}

// RenderNotice renders a one-line notification in the theme's success or
// error colour.
func RenderNotice(msg string, isError bool) string {
	mark := "✓ "
	if isError {
		mark = "✗ "
	}
	return fg(theme.Active.NoticeColor(isError)).Render(mark + msg)
}

// RenderMuted renders secondary text.
func RenderMuted(s string) string {
	return mutedStyle().Render(s)
}

// RenderTable renders a bordered table with headers and rows. Widths are
// measured in terminal cells so CJK text lines up.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	right := func(i int) bool {
		if t.Right == nil {
			return i > 0
		}
		return i < len(t.Right) && t.Right[i]
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle().Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, end string) {
		b.WriteString(dimStyle().Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle().Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle().Render(mid))
			}
		}
		b.WriteString(dimStyle().Render(end))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle().Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle().Render(" " + pad(h, widths[i], false) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle().Render("│"))
			}
		}
		b.WriteString(dimStyle().Render("│"))
		b.WriteString("\n")
		rule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			rule("├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle().Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle().Render(" " + pad(cell, widths[i], right(i)) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle().Render("│"))
			}
		}
		b.WriteString(dimStyle().Render("│"))
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")

	return b.String()
}

// OrdersTable builds the order list table for one page.
func OrdersTable(p model.Page) Table {
	t := Table{
		Title:   fmt.Sprintf("Orders  page %d/%d  (%d matching)", p.Page, max(p.PageCount(), 1), p.Total),
		Headers: []string{"Date", "Name", "Type", "Amount", "Currency", "Remark", "ID"},
		Right:   []bool{false, false, false, true, false, false, false},
	}
	for _, o := range p.Items {
		t.Rows = append(t.Rows, []string{
			OrDash(o.Date),
			OrDash(o.Name),
			OrDash(o.Type),
			FormatAmount(o.Amount),
			OrDash(o.Currency),
			OrDash(o.Remark),
			o.ID,
		})
	}
	return t
}

// AccountsTable builds the account list table.
func AccountsTable(accounts []model.Account) Table {
	t := Table{
		Title:   "Accounts",
		Headers: []string{"Name", "Type", "Balance", "Currency", "Remark"},
		Right:   []bool{false, false, true, false, false},
	}
	for _, a := range accounts {
		t.Rows = append(t.Rows, []string{
			OrDash(a.Name),
			OrDash(a.AccountType),
			FormatAmount(a.Balance),
			FormatCurrency(a.Currency),
			OrDash(a.Remark),
		})
	}
	return t
}

// RenderGroupTotals renders one bar per group, scaled to the largest total,
// with amount and share of the overall sum.
func RenderGroupTotals(totals []model.GroupTotal, barWidth int) string {
	if len(totals) == 0 {
		return mutedStyle().Render("  No orders in this period") + "\n"
	}

	var sum, peak float64
	labelW := 0
	for _, g := range totals {
		sum += g.Total
		peak = max(peak, g.Total)
		labelW = max(labelW, lipgloss.Width(g.Group))
	}

	var b strings.Builder
	for _, g := range totals {
		share := 0.0
		if sum != 0 {
			share = g.Total / sum
		}
		fmt.Fprintf(&b, "  %s %s %s %s\n",
			valueStyle().Render(pad(OrDash(g.Group), labelW, false)),
			headerStyle().Render(pad(RenderHorizontalBar(g.Total, peak, barWidth), barWidth, false)),
			amountStyle(g.Total).Render(FormatAmount(g.Total)),
			mutedStyle().Render(FormatPercent(share)),
		)
	}
	fmt.Fprintf(&b, "  %s %s\n", mutedStyle().Render(pad("total", labelW, false)), amountStyle(sum).Render(FormatAmount(sum)))
	return b.String()
}

// RenderStackedBars renders the chart series as one horizontal bar per
// bucket, each split into coloured segments by type, followed by a legend.
// Segment colours come from theme.Active.
func RenderStackedBars(points []model.SeriesPoint, types []string, barWidth int) string {
	if len(points) == 0 {
		return mutedStyle().Render("  No orders in this period") + "\n"
	}

	var buckets []string
	byBucket := make(map[string]map[string]float64)
	totals := make(map[string]float64)
	for _, p := range points {
		if _, ok := byBucket[p.Date]; !ok {
			buckets = append(buckets, p.Date)
			byBucket[p.Date] = make(map[string]float64)
		}
		byBucket[p.Date][p.Type] += p.Amount
		totals[p.Date] += p.Amount
	}

	var peak float64
	labelW := 0
	for _, bk := range buckets {
		positive := 0.0
		for _, v := range byBucket[bk] {
			positive += max(v, 0)
		}
		peak = max(peak, positive)
		labelW = max(labelW, lipgloss.Width(bk))
	}

	var b strings.Builder
	for _, bk := range buckets {
		var bar strings.Builder
		used := 0
		for _, typ := range types {
			v, ok := byBucket[bk][typ]
			if !ok || v <= 0 || peak <= 0 {
				continue
			}
			n := int(v / peak * float64(barWidth))
			if n == 0 {
				n = 1
			}
			n = min(n, barWidth-used)
			if n <= 0 {
				continue
			}
			used += n
			bar.WriteString(fg(theme.Active.TypeColor(typ, types)).Render(strings.Repeat("█", n)))
		}
		bar.WriteString(strings.Repeat(" ", barWidth-used))

		fmt.Fprintf(&b, "  %s %s %s\n",
			mutedStyle().Render(pad(bk, labelW, false)),
			bar.String(),
			amountStyle(totals[bk]).Render(FormatAmount(totals[bk])),
		)
	}

	b.WriteString("\n  ")
	for i, typ := range types {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(fg(theme.Active.TypeColor(typ, types)).Render("■"))
		b.WriteString(" ")
		b.WriteString(valueStyle().Render(OrDash(typ)))
	}
	b.WriteString("\n")
	return b.String()
}

// RenderHorizontalBar returns a bar of full blocks proportional to
// value/maxValue over maxWidth cells.
func RenderHorizontalBar(value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	barLen := int(value / maxValue * float64(maxWidth))
	barLen = max(min(barLen, maxWidth), 1)
	return strings.Repeat("█", barLen)
}

// pad pads s with spaces to w terminal cells.
func pad(s string, w int, alignRight bool) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if alignRight {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}
