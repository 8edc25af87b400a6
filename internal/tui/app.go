// Package tui provides the interactive Bubble Tea order book for abook.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgy583/account-book/internal/cli"
	"github.com/mgy583/account-book/internal/ledger"
	"github.com/mgy583/account-book/internal/model"
	"github.com/mgy583/account-book/internal/pipeline"
	"github.com/mgy583/account-book/internal/tui/components"
	"github.com/mgy583/account-book/internal/tui/theme"
)

// OrdersFetchedMsg is sent when a refresh of the order list finishes.
type OrdersFetchedMsg struct{ Err error }

// OrderCreatedMsg is sent when a create request (and its refresh) finishes.
type OrderCreatedMsg struct{ Err error }

// OrderDeletedMsg is sent when a delete request (and its refresh) finishes.
type OrderDeletedMsg struct{ Err error }

const (
	tabOrders = iota
	tabStats
	tabChart
)

type formKind int

const (
	formNone formKind = iota
	formCreate
	formDateRange
	formConfirmDelete
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5
	requestTimeout   = 30 * time.Second
	noticeTTL        = 6 * time.Second
)

// App is the root Bubble Tea model.
type App struct {
	book  *ledger.Book
	notes *ledger.Collector
	now   func() time.Time

	// Data
	orders    []model.Order
	fetchedAt time.Time
	loaded    bool
	busy      bool

	// Derived, recomputed on every change
	view  pipeline.View
	state pipeline.ViewState

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursor    int

	// Name search
	searching bool
	search    textinput.Model

	// Modal huh form
	form          *huh.Form
	formKind      formKind
	createInput   *ledger.OrderInput
	dateRange     *DateRange
	confirmDelete *bool
	pendingDelete model.Order

	spinner  spinner.Model
	notice   ledger.Notification
	noticeAt time.Time
}

// NewApp creates the TUI over book. notes must be the notifier the book was
// built with; the app drains it after every request.
func NewApp(book *ledger.Book, notes *ledger.Collector, view pipeline.View) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	snap := book.Snapshot()
	a := App{
		book:      book,
		notes:     notes,
		now:       time.Now,
		orders:    snap.Orders,
		fetchedAt: snap.FetchedAt,
		loaded:    snap.Loaded,
		busy:      true,
		view:      view,
		search:    newSearchInput(),
		spinner:   sp,
	}
	a.recompute()
	return a
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "name contains..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 30
	return ti
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		refreshCmd(a.book),
	)
}

func refreshCmd(book *ledger.Book) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return OrdersFetchedMsg{Err: book.Refresh(ctx)}
	}
}

func createCmd(book *ledger.Book, in ledger.OrderInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return OrderCreatedMsg{Err: book.Create(ctx, in)}
	}
}

func deleteCmd(book *ledger.Book, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return OrderDeletedMsg{Err: book.Delete(ctx, id)}
	}
}

// recompute derives the page, group totals and series from the held list.
func (a *App) recompute() {
	a.state = a.view.Compute(a.orders, a.now())
	if clamped := pipeline.ClampPage(a.view.Page, a.state.Page.PageSize, a.state.Page.Total); clamped != a.view.Page {
		a.view.Page = clamped
		a.state = a.view.Compute(a.orders, a.now())
	}
	a.cursor = min(max(a.cursor, 0), max(len(a.state.Page.Items)-1, 0))
}

// syncFromBook pulls the latest list and any pending notification.
func (a *App) syncFromBook() {
	snap := a.book.Snapshot()
	a.orders = snap.Orders
	a.fetchedAt = snap.FetchedAt
	a.loaded = a.loaded || snap.Loaded
	a.recompute()

	if notes := a.notes.Drain(); len(notes) > 0 {
		a.notice = notes[len(notes)-1]
		a.noticeAt = a.now()
	}
}

func (a *App) setNotice(level ledger.Level, msg string) {
	a.notice = ledger.Notification{Level: level, Message: msg}
	a.noticeAt = a.now()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, 80)).WithHeight(msg.Height)
		}
		return a, nil

	case OrdersFetchedMsg, OrderCreatedMsg, OrderDeletedMsg:
		a.busy = false
		a.syncFromBook()
		if m, ok := msg.(OrderCreatedMsg); ok && errors.Is(m.Err, ledger.ErrInvalidInput) {
			a.setNotice(ledger.LevelError, m.Err.Error())
		}
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		if a.form != nil || a.showHelp || a.searching {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		if a.searching {
			return a.updateSearch(msg)
		}
		return a.updateKeys(msg)
	}

	// Forward unhandled messages to the open form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.searching {
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabOrders && a.cursor > 0 {
			a.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabOrders && a.cursor < len(a.state.Page.Items)-1 {
			a.cursor++
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.showHelp = true
		return a, nil
	case "tab", "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab", "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "r":
		if a.busy {
			return a, nil
		}
		a.busy = true
		return a, tea.Batch(a.spinner.Tick, refreshCmd(a.book))
	case "m":
		a.view.Window = toggleWindow(a.view.Window)
		a.recompute()
		return a, nil
	}

	if idx := components.TabIdxByKey(key); idx >= 0 {
		a.activeTab = idx
		return a, nil
	}

	switch a.activeTab {
	case tabOrders:
		return a.updateOrdersKeys(key)
	case tabStats:
		if key == "g" {
			a.view.Group = nextGroup(a.view.Group)
			a.recompute()
		}
	case tabChart:
		if key == "g" {
			a.view.Granularity = toggleGranularity(a.view.Granularity)
			a.recompute()
		}
	}
	return a, nil
}

func (a App) updateOrdersKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.cursor < len(a.state.Page.Items)-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "n", "pgdown":
		if a.view.Page < a.state.Page.PageCount() {
			a.view.Page++
			a.cursor = 0
			a.recompute()
		}
	case "p", "pgup":
		if a.view.Page > 1 {
			a.view.Page--
			a.cursor = 0
			a.recompute()
		}
	case "z":
		a.view.PageSize = nextPageSize(a.view.PageSize)
		a.view.Page = 1
		a.cursor = 0
		a.recompute()
	case "t":
		a.view.Filter.Type = nextType(a.view.Filter.Type)
		a.view.Page = 1
		a.recompute()
	case "/":
		a.searching = true
		a.search.SetValue(a.view.Filter.Name)
		a.search.CursorEnd()
		cmd := a.search.Focus()
		return a, cmd
	case "D":
		r := &DateRange{}
		if a.view.Filter.HasDateRange() {
			r.From = a.view.Filter.Start.Format("2006-01-02")
			r.To = a.view.Filter.End.Format("2006-01-02")
		}
		a.dateRange = r
		return a.openForm(formDateRange, DateRangeForm(r))
	case "esc":
		a.view.Filter = model.Filter{}
		a.view.Page = 1
		a.recompute()
	case "a":
		in := &ledger.OrderInput{}
		a.createInput = in
		return a.openForm(formCreate, OrderForm(in, a.now()))
	case "d", "delete":
		if len(a.state.Page.Items) == 0 || a.busy {
			return a, nil
		}
		a.pendingDelete = a.state.Page.Items[a.cursor]
		ok := false
		a.confirmDelete = &ok
		title := fmt.Sprintf("Delete %q (%s)?", a.pendingDelete.Name,
			cli.FormatMoney(a.pendingDelete.Amount, a.pendingDelete.Currency))
		return a.openForm(formConfirmDelete, ConfirmForm(title, &ok))
	}
	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.view.Filter.Name = a.search.Value()
		a.view.Page = 1
		a.searching = false
		a.search.Blur()
		a.recompute()
		return a, nil
	case "esc":
		a.searching = false
		a.search.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	return a, cmd
}

func (a App) openForm(kind formKind, form *huh.Form) (tea.Model, tea.Cmd) {
	a.formKind = kind
	a.form = form
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width, 80)).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		a.closeForm()
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	case huh.StateCompleted:
		return a.submitForm()
	}
	return a, cmd
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	kind := a.formKind
	a.closeForm()

	switch kind {
	case formCreate:
		a.busy = true
		return a, tea.Batch(a.spinner.Tick, createCmd(a.book, *a.createInput))
	case formDateRange:
		if err := a.dateRange.Apply(&a.view.Filter); err != nil {
			a.setNotice(ledger.LevelError, err.Error())
			return a, nil
		}
		a.view.Page = 1
		a.recompute()
	case formConfirmDelete:
		if a.confirmDelete != nil && *a.confirmDelete {
			a.busy = true
			return a, tea.Batch(a.spinner.Tick, deleteCmd(a.book, a.pendingDelete.ID))
		}
	}
	return a, nil
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
}

func toggleWindow(w model.MonthWindow) model.MonthWindow {
	if w == model.ThisMonth {
		return model.LastMonth
	}
	return model.ThisMonth
}

func toggleGranularity(g model.Granularity) model.Granularity {
	if g == model.ByDay {
		return model.ByMonth
	}
	return model.ByDay
}

var groupCycle = []model.StatGroup{model.GroupByType, model.GroupByCurrency, model.GroupByMonth}

func nextGroup(g model.StatGroup) model.StatGroup {
	for i, x := range groupCycle {
		if x == g {
			return groupCycle[(i+1)%len(groupCycle)]
		}
	}
	return groupCycle[0]
}

func nextPageSize(n int) int {
	opts := pipeline.PageSizeOptions
	for i, x := range opts {
		if x == n {
			return opts[(i+1)%len(opts)]
		}
	}
	return opts[0]
}

// nextType cycles "", then every order type, then back to "".
func nextType(cur string) string {
	if cur == "" {
		return model.OrderTypes[0]
	}
	for i, t := range model.OrderTypes {
		if t == cur && i+1 < len(model.OrderTypes) {
			return model.OrderTypes[i+1]
		}
	}
	return ""
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  abook needs at least %d columns.\n", a.width, minTerminalWidth)
	}
	if a.form != nil {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.form.View())
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ abook"))
	b.WriteString(subtitleStyle.Render(" · account book"))
	b.WriteString("\n\n")
	if a.busy {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Fetching orders..."))
	} else {
		b.WriteString(a.renderNotice())
		b.WriteString("\n\n")
		b.WriteString(subtitleStyle.Render("Press r to retry, q to quit"))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Key).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	sections := []struct {
		name     string
		bindings [][2]string
	}{
		{"Global", [][2]string{
			{"o s c", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"m", "This / last month"},
			{"r", "Refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
		{"Orders", [][2]string{
			{"j k", "Move selection"},
			{"n p", "Next / previous page"},
			{"z", "Page size"},
			{"/", "Filter by name"},
			{"t", "Cycle type filter"},
			{"D", "Filter by date range"},
			{"Esc", "Clear filters"},
			{"a", "Add order"},
			{"d", "Delete selected order"},
		}},
		{"Stats / Chart", [][2]string{
			{"g", "Group by / bucket size"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderFilterLine(w)

	age := ""
	if !a.fetchedAt.IsZero() {
		age = cli.FormatFetchedAt(a.fetchedAt, a.now())
	}
	footer := a.renderNotice() + "\n" +
		components.RenderStatusBar(w, "[?]help  [r]efresh  [q]uit", age, a.busy)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOrders:
		content = a.renderOrdersTab(cw, contentH)
	case tabStats:
		content = a.renderStatsTab(cw)
	case tabChart:
		content = a.renderChartTab(cw)
	}
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.PlaceHorizontal(w, lipgloss.Center, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderFilterLine(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	if a.searching {
		return " " + a.search.View()
	}

	parts := []string{accent.Render(windowLabel(a.view.Window))}
	f := a.view.Filter
	if f.Name != "" {
		parts = append(parts, dim.Render("name ")+accent.Render(f.Name))
	}
	if f.Type != "" {
		parts = append(parts, dim.Render("type ")+accent.Render(f.Type))
	}
	if f.HasDateRange() {
		parts = append(parts, accent.Render(f.Start.Format("2006-01-02")+" → "+f.End.Format("2006-01-02")))
	}
	line := " " + strings.Join(parts, dim.Render(" │ "))
	return lipgloss.NewStyle().Width(w).Render(line)
}

func (a App) renderNotice() string {
	if a.notice.Message == "" {
		return ""
	}
	if a.loaded && a.now().Sub(a.noticeAt) > noticeTTL {
		return ""
	}
	isError := a.notice.Level == ledger.LevelError
	mark := " ✓ "
	if isError {
		mark = " ✗ "
	}
	return lipgloss.NewStyle().Foreground(theme.Active.NoticeColor(isError)).Render(mark + a.notice.Message)
}

func windowLabel(w model.MonthWindow) string {
	if w == model.LastMonth {
		return "last month"
	}
	return "this month"
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow RenderTabBar: tabs separated by one column.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= limit {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > limit-1 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
