// Package tui provides the interactive Bubble Tea ledger for mealbook.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mealbook/internal/api"
	"github.com/theirongolddev/mealbook/internal/cli"
	"github.com/theirongolddev/mealbook/internal/config"
	"github.com/theirongolddev/mealbook/internal/ledger"
	"github.com/theirongolddev/mealbook/internal/model"
	"github.com/theirongolddev/mealbook/internal/tui/components"
	"github.com/theirongolddev/mealbook/internal/tui/theme"
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 120

	opTimeout    = 15 * time.Second
	pollInterval = 10 * time.Second
)

// Feed reports changes made to the ledger by other clients.
type Feed interface {
	Events(ctx context.Context, since int64) ([]api.Event, error)
}

// Options configures a new App.
type Options struct {
	Service *ledger.Service
	Config  config.Config
	Range   model.Range
	// Feed is polled for remote changes when set.
	Feed Feed
	// NeedSetup shows the setup form before the ledger.
	NeedSetup bool
}

// ViewLoadedMsg carries a reconciled view back to the model.
type ViewLoadedMsg struct {
	Owner string
	Range model.Range
	View  []model.MealRecord
	Err   error
}

// ToggleDoneMsg reports the outcome of an optimistic toggle.
type ToggleDoneMsg struct {
	Pending ledger.Pending
	Record  model.MealRecord
	Err     error
}

// ResetDoneMsg reports the outcome of a reset.
type ResetDoneMsg struct {
	Err error
}

// EventsMsg carries events polled from the feed.
type EventsMsg struct {
	Events []api.Event
	Err    error
}

type pollTickMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	svc  *ledger.Service
	cfg  config.Config
	feed Feed

	owner   string
	rng     model.Range
	view    []model.MealRecord
	summary model.Summary
	loaded  bool
	loading bool

	// inflight holds the dates with a commit outstanding.
	inflight map[string]bool
	lastSeq  int64

	cursor int

	status       string
	err          error
	showHelp     bool
	confirmReset bool

	needSetup bool
	setupForm *huh.Form
	setupVals *SetupValues

	spinner spinner.Model
	width   int
	height  int
}

// NewApp creates the root model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	a := App{
		svc:       opts.Service,
		cfg:       opts.Config,
		feed:      opts.Feed,
		rng:       opts.Range,
		inflight:  make(map[string]bool),
		needSetup: opts.NeedSetup,
		spinner:   sp,
		loading:   true,
	}
	if a.needSetup {
		vals := SetupValuesFrom(a.cfg)
		a.setupVals = &vals
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.Init()
	}
	return a.start()
}

func (a App) start() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick, loadCmd(a.svc, a.rng)}
	if a.feed != nil {
		cmds = append(cmds, pollTickCmd())
	}
	return tea.Batch(cmds...)
}

func (a *App) recompute() {
	a.summary = ledger.Summarize(a.view, a.cfg.Meals.MealPrice(), a.cfg.Meals.BudgetAmount())
	if a.cursor >= len(a.view) {
		a.cursor = len(a.view) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case ViewLoadedMsg:
		if !sameRange(msg.Range, a.rng) {
			return a, nil
		}
		a.loading = false
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.owner = msg.Owner
		a.view = msg.View
		a.loaded = true
		a.err = nil
		a.recompute()
		return a, nil

	case ToggleDoneMsg:
		return a.applyToggle(msg), nil

	case ResetDoneMsg:
		if msg.Err != nil {
			a.err = msg.Err
			return a, loadCmd(a.svc, a.rng)
		}
		a.status = "cleared " + a.rng.String()
		a.loading = true
		return a, tea.Batch(a.spinner.Tick, loadCmd(a.svc, a.rng))

	case pollTickMsg:
		return a, pollCmd(a.feed, a.lastSeq)

	case EventsMsg:
		next := pollTickCmd()
		if msg.Err != nil || len(msg.Events) == 0 {
			return a, next
		}
		reload := false
		for _, ev := range msg.Events {
			if ev.ID > a.lastSeq {
				a.lastSeq = ev.ID
			}
			if a.touches(ev) {
				reload = true
			}
		}
		if reload && len(a.inflight) == 0 && !a.loading {
			return a, tea.Batch(next, loadCmd(a.svc, a.rng))
		}
		return a, next

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		return a.updateKey(msg)
	}

	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.confirmReset {
		a.confirmReset = false
		if key == "y" || key == "Y" {
			a.status = "clearing..."
			return a, resetCmd(a.svc, a.owner, a.rng)
		}
		a.status = "reset cancelled"
		return a, nil
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q", "esc":
		return a, tea.Quit
	case "r":
		a.loading = true
		a.status = ""
		return a, tea.Batch(a.spinner.Tick, loadCmd(a.svc, a.rng))
	case "[", "]":
		n := a.rng.Len()
		if key == "[" {
			n = -n
		}
		a.rng = a.rng.Shift(n)
		a.loading = true
		a.cursor = 0
		a.status = ""
		return a, tea.Batch(a.spinner.Tick, loadCmd(a.svc, a.rng))
	}

	if !a.loaded {
		return a, nil
	}

	switch key {
	case "j", "down":
		if a.cursor < len(a.view)-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "g", "home":
		a.cursor = 0
	case "G", "end":
		a.cursor = len(a.view) - 1
	case "b":
		return a.toggle(model.Breakfast)
	case "d":
		return a.toggle(model.Dinner)
	case "R":
		a.confirmReset = true
	}
	return a, nil
}

// toggle flips slot on the selected row immediately and commits it in
// the background. A row with a commit in flight is left alone.
func (a App) toggle(slot model.Slot) (tea.Model, tea.Cmd) {
	if a.cursor < 0 || a.cursor >= len(a.view) {
		return a, nil
	}
	rec := a.view[a.cursor]
	key := model.FormatDate(rec.Date)
	if a.inflight[key] {
		a.status = "still saving " + key
		return a, nil
	}

	p := ledger.Begin(rec, slot)
	a.view[a.cursor] = p.Speculative
	a.inflight[key] = true
	a.err = nil
	a.status = ""
	a.recompute()
	return a, commitCmd(a.svc, p)
}

func (a App) applyToggle(msg ToggleDoneMsg) App {
	key := model.FormatDate(msg.Pending.Original.Date)
	delete(a.inflight, key)

	i := a.indexOf(msg.Pending.Original.Date)
	if i < 0 {
		return a
	}
	if msg.Err != nil {
		a.view[i] = msg.Pending.Rollback()
		a.err = msg.Err
	} else {
		a.view[i] = msg.Record
	}
	a.recompute()
	return a
}

func (a App) indexOf(day time.Time) int {
	d := model.Day(day)
	for i, r := range a.view {
		if model.Day(r.Date).Equal(d) {
			return i
		}
	}
	return -1
}

// touches reports whether ev changed rows of the current owner and range.
func (a App) touches(ev api.Event) bool {
	if ev.Start == "" && ev.End == "" {
		return true
	}
	r, err := api.ParseRange(ev.Start, ev.End)
	if err != nil || r == nil {
		return true
	}
	return !r.End.Before(a.rng.Start) && !r.Start.After(a.rng.End)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetupConfig(); err != nil {
			a.err = err
		}
		a.needSetup = false
		a.setupForm = nil
		return a, a.start()
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, a.start()
	}
	return a, cmd
}

func (a *App) saveSetupConfig() error {
	cfg, err := a.setupVals.Apply(a.cfg)
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  mealbook needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ mealbook"))
	b.WriteString(subtitleStyle.Render(" · " + a.rng.String()))
	b.WriteString("\n\n")
	if a.err != nil {
		b.WriteString(errStyle.Render(a.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(subtitleStyle.Render("[r] retry  [q] quit"))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Loading ledger..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	bindings := []struct{ key, desc string }{
		{"j / k", "move down / up"},
		{"g / G", "first / last day"},
		{"b", "toggle breakfast"},
		{"d", "toggle dinner"},
		{"[ / ]", "previous / next range"},
		{"r", "reload"},
		{"R", "clear every meal in range"},
		{"?", "toggle help"},
		{"q", "quit"},
	}

	var b strings.Builder
	for _, kb := range bindings {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-8s", kb.key)))
		b.WriteString(descStyle.Render(kb.desc))
		b.WriteString("\n")
	}
	card := components.ContentCard("Keys", strings.TrimRight(b.String(), "\n"), 44)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	cw := a.contentWidth()
	symbol := a.cfg.Meals.Symbol()
	s := a.summary

	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(" mealbook"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s  %s", a.owner, a.rng.String())))
	b.WriteString("\n")

	cards := []components.Card{
		{Label: "Meals", Value: fmt.Sprintf("%d", s.SelectedCount),
			Note: fmt.Sprintf("%d breakfast · %d dinner", s.BreakfastCount, s.DinnerCount)},
		{Label: "Spent", Value: cli.FormatMoney(s.TotalCost, symbol),
			Note: "at " + cli.FormatMoney(s.MealPrice, symbol) + " each"},
		{Label: "Remaining", Value: cli.FormatMoney(s.Remaining, symbol), Alert: s.OverBudget(),
			Note: "of " + cli.FormatMoney(s.Budget, symbol)},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	barW := cw - 20
	if barW > 60 {
		barW = 60
	}
	b.WriteString(" ")
	b.WriteString(components.BudgetBar("Budget", s.UsedFraction(), 7, barW))
	b.WriteString("\n\n")

	header := b.String()
	footer := a.viewFooter(cw)
	tableH := a.height - lipgloss.Height(header) - lipgloss.Height(footer) - 3
	if tableH < 3 {
		tableH = 3
	}
	body := components.ContentCard("", a.viewRows(tableH), cw)

	out := header + body + "\n" + footer
	return padHeight(truncateHeight(fillLinesWithBackground(out, a.width, t.Background), a.height), a.height)
}

func (a App) viewRows(limit int) string {
	t := theme.Active
	symbol := a.cfg.Meals.Symbol()

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	onStyle := lipgloss.NewStyle().Foreground(t.Green)
	offStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	pendingStyle := lipgloss.NewStyle().Foreground(t.Yellow)

	mark := func(set, pending bool) string {
		switch {
		case pending:
			return pendingStyle.Render(cli.FormatMark(set))
		case set:
			return onStyle.Render(cli.FormatMark(set))
		default:
			return offStyle.Render(cli.FormatMark(set))
		}
	}

	rows := limit - 1
	offset := 0
	if a.cursor >= rows {
		offset = a.cursor - rows + 1
	}

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("  %-10s  %-3s  %-9s  %-6s  %10s", "Date", "Day", "Breakfast", "Dinner", "Cost")))
	for i := offset; i < len(a.view) && i < offset+rows; i++ {
		r := a.view[i]
		ds := ledger.SummarizeDay(r, a.cfg.Meals.MealPrice())
		pending := a.inflight[model.FormatDate(r.Date)]

		cursor := "  "
		style := rowStyle
		if i == a.cursor {
			cursor = "> "
			style = selStyle
		}
		line := style.Render(fmt.Sprintf("%s%-10s  %-3s  ", cursor, model.FormatDate(r.Date), cli.FormatDayOfWeek(r.Date))) +
			"    " + mark(r.Breakfast, pending) + "      " +
			"   " + mark(r.Dinner, pending) + "   " +
			style.Render(fmt.Sprintf("%10s", cli.FormatMoney(ds.Cost, symbol)))
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

func (a App) viewFooter(width int) string {
	t := theme.Active
	var b strings.Builder
	if a.confirmReset {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Bold(true)
		b.WriteString(warn.Render(fmt.Sprintf(" Clear every meal from %s? [y/N]", a.rng.String())))
		b.WriteString("\n")
	}
	errMsg := ""
	if a.err != nil {
		errMsg = a.err.Error()
	}
	info := a.status
	if info == "" && len(a.inflight) > 0 {
		info = fmt.Sprintf("saving %d...", len(a.inflight))
	}
	b.WriteString(components.RenderStatusBar(width, info, errMsg))
	return b.String()
}

func sameRange(x, y model.Range) bool {
	return model.Day(x.Start).Equal(model.Day(y.Start)) && model.Day(x.End).Equal(model.Day(y.End))
}

// loadCmd resolves the owner and reconciles the range.
func loadCmd(svc *ledger.Service, rng model.Range) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		owner, err := svc.CurrentUser(ctx)
		if err != nil {
			return ViewLoadedMsg{Range: rng, Err: err}
		}
		view, err := svc.Reconcile(ctx, owner, &rng)
		return ViewLoadedMsg{Owner: owner, Range: rng, View: view, Err: err}
	}
}

func commitCmd(svc *ledger.Service, p ledger.Pending) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		rec, err := svc.Commit(ctx, p)
		return ToggleDoneMsg{Pending: p, Record: rec, Err: err}
	}
}

func resetCmd(svc *ledger.Service, owner string, rng model.Range) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return ResetDoneMsg{Err: svc.Reset(ctx, owner, &rng)}
	}
}

func pollTickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func pollCmd(feed Feed, since int64) tea.Cmd {
	if feed == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		events, err := feed.Events(ctx, since)
		return EventsMsg{Events: events, Err: err}
	}
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

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
