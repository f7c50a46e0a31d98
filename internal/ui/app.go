// Package ui hosts a reconciled list in a Bubble Tea program.
package ui

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/statelist/internal/emoji"
	"github.com/yildizm/statelist/internal/logger"
	"github.com/yildizm/statelist/internal/metrics"
	"github.com/yildizm/statelist/internal/reconcile"
	"github.com/yildizm/statelist/internal/state"
	"github.com/yildizm/statelist/internal/table"
	"github.com/yildizm/statelist/internal/ui/components"
)

// chromeHeight is the number of lines drawn around the list body
const chromeHeight = 5

// Options configures an App
type Options struct {
	Title             string
	BlinkText         string
	Blink             bool
	BlinkInterval     time.Duration
	AnimationDuration time.Duration
	RowAnimation      reconcile.RowAnimation
	ShouldInterrupt   bool
	PageSize          int

	// Initial produces the list shown at start and on reset
	Initial func() (state.ViewState, error)

	Logger *logger.Logger
	Stats  *metrics.ReloadStats
}

type lineKind int

const (
	lineHeader lineKind = iota
	lineRow
	lineFooter
)

// line is one rendered line of the list body
type line struct {
	kind    lineKind
	section int
	row     int
}

func (l line) path() state.IndexPath {
	return state.Path(l.section, l.row)
}

// shown is a row the previous frame displayed
type shown struct {
	identity string
	cell     state.Cell
}

// menuState is an open context menu
type menuState struct {
	config   *state.MenuConfig
	selected int
}

// App is the Bubble Tea model showing one reconciled list
type App struct {
	opts   Options
	keys   KeyMap
	styles *Styles
	log    *logger.Logger

	surface *Surface
	table   *table.Table
	label   *components.BlinkingLabel
	rng     *rand.Rand

	lines     []line
	cursor    int
	offset    int
	visible   map[state.IndexPath]shown
	displayed int

	menu      *menuState
	showStats bool
	status    string
	quitting  bool

	cmds []tea.Cmd
}

// NewApp creates the model. The list starts with a loading row until
// Options.Initial has produced the first state.
func NewApp(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Stats == nil {
		opts.Stats = metrics.NewReloadStats()
	}
	if opts.PageSize < 1 {
		opts.PageSize = 10
	}
	if opts.Title == "" {
		opts.Title = "statelist"
	}

	a := &App{
		opts:    opts,
		keys:    DefaultKeyMap(),
		styles:  GetStyles(),
		log:     opts.Logger.WithComponent("ui"),
		label:   components.NewBlinkingLabel(opts.BlinkText),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		visible: make(map[state.IndexPath]shown),
	}
	if opts.BlinkInterval > 0 {
		a.label.Interval = opts.BlinkInterval
	}

	a.surface = NewSurface(opts.AnimationDuration, opts.Logger.WithComponent("surface"))
	a.table = table.New(a.surface,
		table.WithLogger(opts.Logger.WithComponent("table")),
		table.WithStats(opts.Stats),
		table.WithRowAnimation(opts.RowAnimation),
	)
	a.surface.Bind(a.table)
	a.table.ShouldInterrupt = opts.ShouldInterrupt

	a.table.OnHeaderView = a.headerView
	a.table.OnFooterView = a.footerView
	a.table.OnCellSelect = a.cellSelected
	a.table.OnWillDisplay = a.willDisplay
	a.table.OnCellEndDisplaying = a.endDisplaying
	a.table.OnScroll = a.scrolled
	a.table.OnMenu = a.contextMenu

	a.table.ShowLoading()
	a.layout()
	return a
}

// Table returns the list adapter
func (a *App) Table() *table.Table {
	return a.table
}

// Surface returns the rendering surface
func (a *App) Surface() *Surface {
	return a.surface
}

// Label returns the blinking title label
func (a *App) Label() *components.BlinkingLabel {
	return a.label
}

// Init initializes the model
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, a.surface.Init(), a.loadCmd()}
	if a.opts.Blink && a.opts.BlinkText != "" {
		cmds = append(cmds, a.label.StartBlinking())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled := a.surface.Update(msg); !handled {
		switch msg := msg.(type) {
		case tea.WindowSizeMsg:
			a.log.DebugWithFields("window resized", []logger.Field{
				logger.F("width", msg.Width),
				logger.F("height", msg.Height),
			})
		case tea.KeyMsg:
			a.handleKeyPress(msg)
		case components.BlinkTickMsg:
			a.queue(a.label.Update(msg))
		case SetStateMsg:
			a.table.SetDesiredState(msg.State)
		case ShowErrorMsg:
			a.handleShowError(msg)
		case ShowLoadingMsg:
			a.table.ShowLoading()
		case loadedMsg:
			a.handleLoaded(msg)
		}
	}

	if a.quitting {
		return a, tea.Quit
	}

	a.layout()
	return a, a.flush()
}

func (a *App) queue(cmd tea.Cmd) {
	if cmd != nil {
		a.cmds = append(a.cmds, cmd)
	}
}

func (a *App) flush() tea.Cmd {
	a.queue(a.surface.Cmds())
	if len(a.cmds) == 0 {
		return nil
	}
	cmds := a.cmds
	a.cmds = nil
	return tea.Batch(cmds...)
}

func (a *App) loadCmd() tea.Cmd {
	initial := a.opts.Initial
	return func() tea.Msg {
		if initial == nil {
			return loadedMsg{}
		}
		v, err := initial()
		return loadedMsg{state: v, err: err}
	}
}

func (a *App) handleLoaded(msg loadedMsg) {
	if msg.err != nil {
		a.log.WarnWithFields("failed to load list", []logger.Field{logger.Error(msg.err)})
		a.table.ShowError("Could not load list", msg.err.Error(), func() {
			a.queue(a.loadCmd())
		})
		return
	}
	a.table.SetDesiredState(msg.state)
}

func (a *App) handleShowError(msg ShowErrorMsg) {
	var retry func()
	if msg.Retry != nil {
		cmd := msg.Retry
		retry = func() { a.queue(cmd) }
	}
	a.table.ShowError(msg.Title, msg.Description, retry)
}

// handleKeyPress handles keyboard input
func (a *App) handleKeyPress(msg tea.KeyMsg) {
	if a.menu != nil {
		a.handleMenuKey(msg)
		return
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.moveCursor(-a.opts.PageSize)
	case key.Matches(msg, a.keys.PageDown):
		a.moveCursor(a.opts.PageSize)
	case key.Matches(msg, a.keys.Select):
		a.handleSelect()
	case key.Matches(msg, a.keys.Menu):
		a.openMenu()
	case key.Matches(msg, a.keys.Collapse):
		if l, ok := a.currentLine(); ok {
			a.toggleSection(l.section)
		}
	case key.Matches(msg, a.keys.Shuffle):
		a.edit(shuffleState(a.table.DesiredState(), a.rng))
	case key.Matches(msg, a.keys.Loading):
		a.table.ShowLoading()
	case key.Matches(msg, a.keys.Error):
		a.table.ShowError("Something went wrong", "Select this row to reload the list", func() {
			a.queue(a.loadCmd())
		})
	case key.Matches(msg, a.keys.Reset):
		a.queue(a.loadCmd())
	case key.Matches(msg, a.keys.Interrupt):
		a.table.ShouldInterrupt = !a.table.ShouldInterrupt
		a.status = fmt.Sprintf("interrupt %s", onOff(a.table.ShouldInterrupt))
	case key.Matches(msg, a.keys.Blink):
		a.queue(a.label.Toggle())
	case key.Matches(msg, a.keys.Stats):
		a.showStats = !a.showStats
	}
}

func (a *App) handleMenuKey(msg tea.KeyMsg) {
	actions := a.menu.config.Actions
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
	case key.Matches(msg, a.keys.Back), key.Matches(msg, a.keys.Menu):
		a.menu = nil
	case key.Matches(msg, a.keys.Up):
		if a.menu.selected > 0 {
			a.menu.selected--
		}
	case key.Matches(msg, a.keys.Down):
		if a.menu.selected < len(actions)-1 {
			a.menu.selected++
		}
	case key.Matches(msg, a.keys.Select):
		action := actions[a.menu.selected]
		a.menu = nil
		if action.Handler != nil {
			action.Handler()
		}
	}
}

func (a *App) handleSelect() {
	l, ok := a.currentLine()
	if !ok {
		return
	}
	switch l.kind {
	case lineHeader:
		a.toggleSection(l.section)
	case lineRow:
		a.table.DidSelectRow(l.path())
	}
}

func (a *App) openMenu() {
	l, ok := a.currentLine()
	if !ok || l.kind != lineRow {
		return
	}
	point := state.Point{X: 2, Y: a.cursor - a.offset + 2}
	config := a.table.ContextMenu(l.path(), point)
	if config == nil || len(config.Actions) == 0 {
		return
	}
	a.menu = &menuState{config: config}
}

// toggleSection collapses or expands the committed section shown at index
// section, wherever it sits in the desired state
func (a *App) toggleSection(section int) {
	s, ok := a.table.CommittedState().Section(section)
	if !ok {
		return
	}
	a.edit(toggleCollapsed(a.table.DesiredState(), s.Model.ID))
}

// edit requests v. Local edits are made against the desired state so they
// compose with a reload that is still in flight.
func (a *App) edit(v state.ViewState) {
	a.table.SetDesiredState(v)
}

// Table callbacks

func (a *App) headerView(_ table.Surface, section int) *state.View {
	s, ok := a.table.CommittedState().Section(section)
	if !ok {
		return nil
	}
	text := s.Model.Header
	if text == "" {
		text = s.Model.ID
		if isPlaceholder(s) {
			text = ""
		}
	}
	return &state.View{Text: text}
}

func (a *App) footerView(_ table.Surface, section int) *state.View {
	s, ok := a.table.CommittedState().Section(section)
	if !ok || s.Model.Footer == "" || s.Model.Collapsed {
		return nil
	}
	return &state.View{Text: s.Model.Footer}
}

func (a *App) cellSelected(_ table.Surface, path state.IndexPath, element state.Element) {
	a.status = fmt.Sprintf("selected %s", element.Identity())
	a.log.DebugWithFields("row selected", []logger.Field{
		logger.F("path", path),
		logger.F("id", element.Identity()),
	})
}

func (a *App) willDisplay(_ table.Surface, _ state.Cell, _ state.IndexPath) {
	a.displayed++
}

func (a *App) endDisplaying(_ table.Surface, _ state.Cell, _ state.IndexPath, _ state.Element) {
	if a.displayed > 0 {
		a.displayed--
	}
}

func (a *App) scrolled(_ table.Surface) {
	a.log.DebugWithFields("scrolled", []logger.Field{logger.F("offset", a.offset)})
}

func (a *App) contextMenu(_ table.Surface, _ state.IndexPath, _ state.Point, element state.Element) *state.MenuConfig {
	if _, ok := element.Content.(*table.Row); !ok {
		return nil
	}
	id := element.Identity()
	return &state.MenuConfig{
		Title: id,
		Actions: []state.MenuAction{
			{Title: "Mark done", Handler: func() { a.edit(markDone(a.table.DesiredState(), id)) }},
			{Title: "Move to top", Handler: func() { a.edit(moveRowToTop(a.table.DesiredState(), id)) }},
			{Title: "Delete", Handler: func() { a.edit(removeRow(a.table.DesiredState(), id)) }},
		},
	}
}

// isPlaceholder reports whether s is a section made by ShowError/ShowLoading
func isPlaceholder(s state.State) bool {
	if len(s.Elements) != 1 {
		return false
	}
	switch s.Elements[0].Content.(type) {
	case *table.Error, *table.Loading:
		return s.Model.ID == s.Elements[0].Identity()
	}
	return false
}

// Layout

// layout rebuilds the body lines from the committed state, keeps the cursor
// in view and reports visibility changes back to the table
func (a *App) layout() {
	a.lines = a.lines[:0]
	for s := 0; s < a.table.SectionCount(); s++ {
		if v, ok := a.table.HeaderView(s); ok && v.Text != "" {
			a.lines = append(a.lines, line{kind: lineHeader, section: s})
		}
		for r := 0; r < a.table.RowCount(s); r++ {
			a.lines = append(a.lines, line{kind: lineRow, section: s, row: r})
		}
		if _, ok := a.table.FooterView(s); ok {
			a.lines = append(a.lines, line{kind: lineFooter, section: s})
		}
	}

	if a.cursor >= len(a.lines) {
		a.cursor = len(a.lines) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	if l, ok := a.currentLine(); ok && l.kind == lineFooter {
		a.moveCursor(-1)
	}

	a.scrollToCursor()
	a.trackVisibility()
}

func (a *App) currentLine() (line, bool) {
	if a.cursor < 0 || a.cursor >= len(a.lines) {
		return line{}, false
	}
	return a.lines[a.cursor], true
}

// moveCursor moves by delta lines, skipping footers
func (a *App) moveCursor(delta int) {
	if len(a.lines) == 0 {
		return
	}
	target := max(0, min(len(a.lines)-1, a.cursor+delta))
	step := 1
	if delta < 0 {
		step = -1
	}
	for target >= 0 && target < len(a.lines) && a.lines[target].kind == lineFooter {
		target += step
	}
	if target < 0 || target >= len(a.lines) {
		return
	}
	a.cursor = target
	a.scrollToCursor()
}

func (a *App) bodyHeight() int {
	h := a.surface.Height() - chromeHeight
	if a.showStats {
		h -= lipgloss.Height(components.CreateReloadStats(a.opts.Stats.Snapshot()).Render())
	}
	return max(1, h)
}

func (a *App) scrollToCursor() {
	h := a.bodyHeight()
	offset := a.offset
	if a.cursor < offset {
		offset = a.cursor
	}
	if a.cursor >= offset+h {
		offset = a.cursor - h + 1
	}
	offset = max(0, min(offset, len(a.lines)-h))
	if offset != a.offset {
		a.offset = offset
		a.table.DidScroll()
	}
}

// trackVisibility diffs the rows on screen against the previous frame
func (a *App) trackVisibility() {
	if !a.surface.Attached() {
		return
	}

	now := make(map[state.IndexPath]shown)
	end := min(len(a.lines), a.offset+a.bodyHeight())
	for _, l := range a.lines[a.offset:end] {
		if l.kind != lineRow {
			continue
		}
		path := l.path()
		e, ok := a.table.Element(path)
		if !ok {
			continue
		}
		cell, _ := a.table.CellForRow(path)
		now[path] = shown{identity: e.Identity(), cell: cell}
	}

	for path, prev := range a.visible {
		if cur, ok := now[path]; !ok || cur.identity != prev.identity {
			a.table.DidEndDisplaying(prev.cell, path)
		}
	}
	for path, cur := range now {
		if prev, ok := a.visible[path]; !ok || prev.identity != cur.identity {
			a.table.WillDisplay(cur.cell, path)
		}
	}
	a.visible = now
}

// View renders the model
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	width := a.surface.Width()
	var b strings.Builder

	title := a.styles.Title.Render(a.opts.Title)
	if a.opts.BlinkText != "" {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, " ", a.label.View())
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	body := a.renderBody(width)
	if a.menu != nil {
		body = lipgloss.Place(max(width, 1), a.bodyHeight(), lipgloss.Center, lipgloss.Center, a.renderMenu())
	}
	b.WriteString(body)
	b.WriteString("\n")

	if a.showStats {
		b.WriteString(components.CreateReloadStats(a.opts.Stats.Snapshot()).Render())
		b.WriteString("\n")
	}

	b.WriteString(a.styles.StatusBar.Width(max(width, 1)).Render(a.statusLine()))
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render(a.helpLine()))
	return b.String()
}

func (a *App) renderBody(width int) string {
	h := a.bodyHeight()
	if len(a.lines) == 0 {
		return a.styles.Muted.Render("  (empty)") + strings.Repeat("\n", h-1)
	}

	committed := a.table.CommittedState()
	out := make([]string, 0, h)
	end := min(len(a.lines), a.offset+h)
	for i := a.offset; i < end; i++ {
		l := a.lines[i]
		selected := i == a.cursor
		switch l.kind {
		case lineHeader:
			s, _ := committed.Section(l.section)
			v, _ := a.table.HeaderView(l.section)
			rs := components.RowState{
				Selected:    selected,
				Highlighted: a.surface.SectionHighlighted(l.section),
				Marker:      a.surface.Marker(),
			}
			out = append(out, components.RenderSectionHeader(s.Model, v.Text, len(s.Elements), rs, width))
		case lineRow:
			path := l.path()
			cell, _ := a.table.CellForRow(path)
			rs := components.RowState{
				Selected:    selected,
				Highlighted: a.surface.RowHighlighted(path) || a.surface.RowFlashed(path),
				Marker:      a.surface.Marker(),
			}
			out = append(out, components.RenderRow(cell, rs, width))
		case lineFooter:
			v, _ := a.table.FooterView(l.section)
			out = append(out, components.RenderSectionFooter(v.Text, width))
		}
	}
	for len(out) < h {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

func (a *App) renderMenu() string {
	items := []string{a.styles.MenuTitle.Render(emoji.GetEmoji("menu") + " " + a.menu.config.Title), ""}
	for i, action := range a.menu.config.Actions {
		if i == a.menu.selected {
			items = append(items, a.styles.MenuSelected.Render(action.Title))
		} else {
			items = append(items, a.styles.MenuItem.Render(action.Title))
		}
	}
	return a.styles.Menu.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (a *App) statusLine() string {
	parts := []string{components.StatsLine(a.opts.Stats.Snapshot())}
	if a.table.Reloading() {
		parts = append(parts, a.styles.Warning.Render(emoji.GetEmoji("loading")+" applying"))
	}
	if a.table.ShouldInterrupt {
		parts = append(parts, a.styles.Error.Render(emoji.GetEmoji("interrupt")+" interrupt on"))
	}
	parts = append(parts, fmt.Sprintf("visible %d", a.displayed))
	if a.status != "" {
		parts = append(parts, a.status)
	}
	return strings.Join(parts, "  ")
}

func (a *App) helpLine() string {
	bindings := a.keys.ShortHelp()
	if a.menu != nil {
		bindings = []key.Binding{a.keys.Up, a.keys.Down, a.keys.Select, a.keys.Back}
	}
	help := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	return strings.Join(help, " • ")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
