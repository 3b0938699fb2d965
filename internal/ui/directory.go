package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/gravitrone/credir/internal/api"
	"github.com/gravitrone/credir/internal/config"
	"github.com/gravitrone/credir/internal/format"
	"github.com/gravitrone/credir/internal/query"
	"github.com/gravitrone/credir/internal/store"
	"github.com/gravitrone/credir/internal/ui/components"
)

// --- Directory Definition ---

// Directory configures one browsable collection.
type Directory[T any] struct {
	// Name is the entity key in the page document and the API path segment.
	Name       string
	Title      string
	StorageKey string
	Columns    []components.Column[T]
	Key        func(T) string
	Card       func(T) components.Card
	Detail     func(T) []components.TableRow
	Filters    func() *components.FilterBar
}

// Path is the API path serving the directory.
func (d Directory[T]) Path() string {
	return "/api/" + d.Name
}

// --- Page State ---

// Status is the request state of a directory page.
type Status int

const (
	Idle Status = iota
	RequestingPage
)

func (s Status) String() string {
	if s == RequestingPage {
		return "requesting"
	}
	return "idle"
}

type pageFocus int

const (
	focusRows pageFocus = iota
	focusFilters
	focusPager
)

const perPageDropdownID = "per-page"

var perPageChoices = []int{15, 30, 50, 100}

// Deps are the shared services a page talks to.
type Deps struct {
	Client  *api.Client
	Config  *config.Config
	Storage store.Storage
	Hub     *components.PointerHub
	Log     *logrus.Logger
}

// --- Messages ---

type pageLoadedMsg[T any] struct {
	seq       uint64
	requestID string
	props     *api.PageProps[T]
}

type pageFailedMsg struct {
	seq       uint64
	requestID string
	err       error
}

// routedMsg tags a message with the directory whose command produced it.
type routedMsg struct {
	dir string
	msg tea.Msg
}

type toastMsg struct {
	level string
	text  string
}

// navMode says what a successful navigation does to the history.
type navMode int

const (
	navReplace navMode = iota
	navPush
	navBack
)

type inflight struct {
	seq  uint64
	mode navMode
	prev query.State
	// depth is how many history entries a back navigation consumes.
	depth int
}

// DirectoryPage browses one directory: filters, sort, paging and view mode
// live in state and every change is a request to the server.
type DirectoryPage[T any] struct {
	def  Directory[T]
	deps Deps

	state   query.State
	target  query.State
	props   *api.PageProps[T]
	status  Status
	seq     uint64
	pending inflight
	history []query.State
	loaded  bool

	table   *components.ResizableTable[T]
	gallery *components.Gallery[T]
	filters *components.FilterBar
	pager   *components.Pagination
	perPage *components.Dropdown

	focus    pageFocus
	detail   *T
	gotoOpen bool
	gotoBuf  string

	width   int
	height  int
	originX int
	originY int
}

// NewDirectoryPage wires a page for def.
func NewDirectoryPage[T any](def Directory[T], deps Deps) *DirectoryPage[T] {
	if deps.Log == nil {
		deps.Log = logrus.New()
	}
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	if deps.Hub == nil {
		deps.Hub = components.NewPointerHub()
	}
	filters := components.NewFilterBar()
	if def.Filters != nil {
		filters = def.Filters()
	}

	opts := make([]components.Option, 0, len(perPageChoices)+1)
	choices := perPageChoices
	if n := deps.Config.PerPage; n > 0 && !containsInt(choices, n) {
		choices = append([]int{n}, choices...)
	}
	for _, n := range choices {
		opts = append(opts, components.Option{Value: strconv.Itoa(n), Label: fmt.Sprintf("%d per page", n)})
	}

	initial := query.New().Set(query.KeyPerPage, query.Int(deps.Config.PerPage))
	p := &DirectoryPage[T]{
		def:     def,
		deps:    deps,
		state:   initial,
		target:  initial,
		table:   components.NewResizableTable(def.StorageKey, def.Columns, def.Key, deps.Storage),
		gallery: components.NewGallery(def.StorageKey, def.Card, def.Key),
		filters: filters,
		pager:   components.NewPagination(),
		perPage: components.NewDropdown(def.Name+":"+perPageDropdownID, opts, deps.Hub),
	}
	if err := p.table.LoadErr(); err != nil {
		deps.Log.WithError(err).WithField("dir", def.Name).Warn("column widths unreadable, using defaults")
	}
	return p
}

func containsInt(xs []int, n int) bool {
	for _, x := range xs {
		if x == n {
			return true
		}
	}
	return false
}

func (p *DirectoryPage[T]) Name() string  { return p.def.Name }
func (p *DirectoryPage[T]) Title() string { return p.def.Title }

// State returns the last server-confirmed state.
func (p *DirectoryPage[T]) State() query.State { return p.state }

// Target returns the state of the latest request, which is the confirmed
// state when nothing is in flight. Changes merge over it.
func (p *DirectoryPage[T]) Target() query.State { return p.target }
func (p *DirectoryPage[T]) Status() Status     { return p.status }
func (p *DirectoryPage[T]) Props() *api.PageProps[T] {
	return p.props
}

// Init loads the first page the first time the directory is shown.
func (p *DirectoryPage[T]) Init() tea.Cmd {
	if p.loaded || p.status == RequestingPage {
		return nil
	}
	return p.route(p.navigate(p.state, navReplace))
}

// Teardown releases transient resources when the page is hidden.
func (p *DirectoryPage[T]) Teardown() {
	p.filters.Close()
	p.perPage.Close()
	p.gotoOpen = false
	p.gotoBuf = ""
	if p.focus == focusFilters {
		p.focus = focusRows
	}
}

// Capturing reports whether keys belong to the page rather than the app.
func (p *DirectoryPage[T]) Capturing() bool {
	return p.filters.Active() || p.gotoOpen || p.perPage.IsOpen() ||
		p.table.Resizing() || p.detail != nil
}

// Pending reports whether typed filter text has not been committed yet.
func (p *DirectoryPage[T]) Pending() bool {
	for _, c := range p.filters.Controls() {
		if fi, ok := c.(*components.FilterInput); ok && fi.Pending() {
			return true
		}
	}
	return false
}

func (p *DirectoryPage[T]) SetOrigin(x, y int) {
	p.originX, p.originY = x, y
}

func (p *DirectoryPage[T]) SetSize(width, height int) {
	p.width, p.height = width, height
	p.resize()
}

func (p *DirectoryPage[T]) resize() {
	p.filters.SetWidth(p.width)
	l := p.layout()
	p.table.SetSize(p.width, l.bodyHeight)
	p.gallery.SetSize(p.width, l.bodyHeight)
}

type pageLayout struct {
	filterTop   int
	filterLines int
	bodyTop     int
	bodyHeight  int
	pagerTop    int
}

const (
	pageHeaderLines = 2
	pageFooterLines = 3
)

func (p *DirectoryPage[T]) layout() pageLayout {
	l := pageLayout{filterTop: pageHeaderLines}
	if fv := p.filters.View(); fv != "" {
		l.filterLines = lipgloss.Height(fv)
	}
	l.bodyTop = l.filterTop + l.filterLines + 1
	l.bodyHeight = max(p.height-l.bodyTop-pageFooterLines, 3)
	l.pagerTop = l.bodyTop + l.bodyHeight + 1
	return l
}

// --- Navigation ---

// route tags every message produced by cmd with this directory so the app
// delivers it back here even after a tab switch.
func (p *DirectoryPage[T]) route(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	dir := p.def.Name
	var wrap func(tea.Cmd) tea.Cmd
	wrap = func(c tea.Cmd) tea.Cmd {
		if c == nil {
			return nil
		}
		return func() tea.Msg {
			msg := c()
			switch m := msg.(type) {
			case nil:
				return nil
			case routedMsg, toastMsg:
				return m
			case tea.BatchMsg:
				wrapped := make(tea.BatchMsg, len(m))
				for i, inner := range m {
					wrapped[i] = wrap(inner)
				}
				return wrapped
			}
			return routedMsg{dir: dir, msg: msg}
		}
	}
	return wrap(cmd)
}

func (p *DirectoryPage[T]) navigate(next query.State, mode navMode) tea.Cmd {
	return p.request(next, inflight{mode: mode}, p.fetchState(next))
}

func (p *DirectoryPage[T]) fetchState(next query.State) func(context.Context) (*api.PageProps[T], error) {
	values := next.Values()
	client := p.deps.Client
	path, entity := p.def.Path(), p.def.Name
	return func(ctx context.Context) (*api.PageProps[T], error) {
		return api.FetchPage[T](ctx, client, path, entity, values)
	}
}

func (p *DirectoryPage[T]) followLink(link string) tea.Cmd {
	q, err := api.LinkQuery(link)
	if err != nil {
		return emit(toastMsg{level: "error", text: err.Error()})
	}
	client := p.deps.Client
	return p.request(query.FromValues(q), inflight{mode: navPush}, func(ctx context.Context) (*api.PageProps[T], error) {
		return api.FetchLink[T](ctx, client, link, p.def.Name)
	})
}

func (p *DirectoryPage[T]) request(next query.State, nav inflight, fetch func(context.Context) (*api.PageProps[T], error)) tea.Cmd {
	if p.deps.Client == nil {
		return emit(toastMsg{level: "error", text: "no API client configured"})
	}
	p.seq++
	p.status = RequestingPage
	p.target = next
	if nav.mode == navPush && !p.loaded {
		nav.mode = navReplace
	}
	nav.seq = p.seq
	nav.prev = p.state
	p.pending = nav

	seq := p.seq
	requestID := api.NewRequestID()
	timeout := p.deps.Config.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}
	p.deps.Log.WithFields(logrus.Fields{
		"dir":        p.def.Name,
		"seq":        seq,
		"request_id": requestID,
		"query":      next.Encode(),
	}).Debug("navigation requested")

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(api.WithRequestID(context.Background(), requestID), timeout)
		defer cancel()
		props, err := fetch(ctx)
		if err != nil {
			return pageFailedMsg{seq: seq, requestID: requestID, err: err}
		}
		return pageLoadedMsg[T]{seq: seq, requestID: requestID, props: props}
	}
}

func (p *DirectoryPage[T]) applyLoaded(msg pageLoadedMsg[T]) tea.Cmd {
	log := p.deps.Log.WithFields(logrus.Fields{"dir": p.def.Name, "seq": msg.seq, "request_id": msg.requestID})
	if msg.seq != p.seq {
		log.WithField("latest", p.seq).Debug("stale response dropped")
		return nil
	}
	if err := msg.props.Page.Validate(); err != nil {
		log.WithError(err).Warn("page failed validation")
	}
	switch p.pending.mode {
	case navPush:
		p.history = append(p.history, p.pending.prev)
	case navBack:
		p.history = p.history[:max(len(p.history)-p.pending.depth, 0)]
	}
	p.status = Idle
	p.loaded = true
	p.props = msg.props
	p.state = query.FromProps(msg.props.Filters, query.Sort{
		By:  msg.props.Sort.By,
		Dir: query.ParseDir(msg.props.Sort.Dir),
	})
	p.target = p.state

	page := msg.props.Page
	p.table.SetRows(page.Data)
	p.table.SetSort(p.state.Sort.By, p.state.Sort.Dir)
	p.gallery.SetRows(page.Data)
	p.filters.SetExternal(p.state)
	p.pager.SetLinks(page.Links)
	p.perPage.SetValue(strconv.Itoa(page.PerPage))
	p.resize()
	log.WithField("rows", len(page.Data)).Debug("page loaded")
	return nil
}

func (p *DirectoryPage[T]) applyFailed(msg pageFailedMsg) tea.Cmd {
	log := p.deps.Log.WithFields(logrus.Fields{"dir": p.def.Name, "seq": msg.seq, "request_id": msg.requestID})
	if msg.seq != p.seq {
		log.WithError(msg.err).Debug("stale failure dropped")
		return nil
	}
	log.WithError(msg.err).Error("navigation failed")
	p.status = Idle
	p.target = p.state
	// Drafts go back to what the server last confirmed.
	p.filters.SetExternal(p.state)
	return emit(toastMsg{level: "error", text: fmt.Sprintf("Could not load %s: %v", strings.ToLower(p.def.Title), msg.err)})
}

// Back returns to the previous location. The history entry is consumed
// only once the server confirms it; repeated presses while a back
// navigation is in flight step further back.
func (p *DirectoryPage[T]) Back() tea.Cmd {
	depth := 1
	if p.status == RequestingPage && p.pending.mode == navBack {
		depth = p.pending.depth + 1
	}
	if depth > len(p.history) {
		return nil
	}
	prev := p.history[len(p.history)-depth]
	return p.request(prev, inflight{mode: navBack, depth: depth}, p.fetchState(prev))
}

// History returns the prior locations, oldest first.
func (p *DirectoryPage[T]) History() []query.State { return p.history }

// --- Update ---

func (p *DirectoryPage[T]) Update(msg tea.Msg) tea.Cmd {
	if r, ok := msg.(routedMsg); ok {
		msg = r.msg
	}
	return p.route(p.update(msg))
}

func (p *DirectoryPage[T]) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pageLoadedMsg[T]:
		return p.applyLoaded(msg)
	case pageFailedMsg:
		return p.applyFailed(msg)

	case components.FilterChangedMsg:
		return p.navigate(p.target.With(msg.Changes), navPush)
	case components.FilterSearchMsg:
		return p.navigate(p.target.Set(msg.Key, query.String(msg.Value)), navPush)
	case components.SortMsg:
		if msg.StorageKey != p.def.StorageKey {
			return nil
		}
		return p.navigate(p.target.WithSort(msg.Column), navPush)
	case components.PageLinkMsg:
		return p.followLink(msg.URL)
	case components.DropdownSelectMsg:
		if msg.ID != p.perPage.ID() {
			return nil
		}
		n, err := strconv.Atoi(msg.Value)
		if err != nil {
			return nil
		}
		return p.navigate(p.target.Set(query.KeyPerPage, query.Int(n)), navPush)
	case components.RowClickMsg[T]:
		if msg.StorageKey != p.def.StorageKey {
			return nil
		}
		row := msg.Row
		p.detail = &row
		return nil
	case components.WidthsSavedMsg:
		if msg.Err != nil {
			p.deps.Log.WithError(msg.Err).WithField("dir", p.def.Name).Error("persist column widths")
			return emit(toastMsg{level: "warning", text: "Column widths were not saved."})
		}
		return nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	case tea.MouseMsg:
		return p.handleMouse(msg)
	}
	// Debounce timers and cursor blinks.
	return p.filters.Update(msg)
}

func (p *DirectoryPage[T]) toggleView() tea.Cmd {
	next := query.ViewGallery
	if p.target.View() == query.ViewGallery {
		next = query.ViewList
	}
	return p.navigate(p.target.Set(query.KeyView, query.String(next)), navPush)
}

func (p *DirectoryPage[T]) openPerPage() {
	l := p.layout()
	p.perPage.Open(p.originX, p.originY+l.pagerTop+1)
}

func (p *DirectoryPage[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case p.perPage.IsOpen():
		return p.perPage.Update(msg)
	case p.gotoOpen:
		return p.handleGotoKey(msg)
	case p.detail != nil:
		if isBack(msg) || isEnter(msg) {
			p.detail = nil
		}
		return nil
	case p.filters.Active():
		cmd := p.filters.Update(msg)
		if !p.filters.Active() {
			p.focus = focusRows
		}
		return cmd
	case p.table.Resizing():
		return p.table.Update(msg)
	}

	if p.focus == focusPager {
		switch {
		case isBack(msg), isKey(msg, "n"):
			p.focus = focusRows
			p.pager.Blur()
			return nil
		case isKey(msg, "left", "right", "h", "l", "enter"):
			return p.pager.Update(msg)
		}
	}

	switch {
	case isKey(msg, "/"):
		p.focus = focusFilters
		return p.filters.FocusIndex(0)
	case isKey(msg, "f"):
		if len(p.filters.Controls()) > 1 {
			p.focus = focusFilters
			return p.filters.FocusIndex(1)
		}
	case isKey(msg, "n"):
		p.focus = focusPager
		p.pager.Focus()
		return nil
	case isKey(msg, "["):
		if l, ok := p.pager.Prev(); ok {
			return p.followLink(*l.URL)
		}
	case isKey(msg, "]"):
		if l, ok := p.pager.Next(); ok {
			return p.followLink(*l.URL)
		}
	case isKey(msg, "v"):
		return p.toggleView()
	case isKey(msg, "p"):
		p.openPerPage()
		return nil
	case isKey(msg, "g"):
		p.gotoOpen = true
		p.gotoBuf = ""
		return nil
	case isKey(msg, "r"):
		return p.navigate(p.target, navReplace)
	case isKey(msg, "b", "backspace"):
		return p.Back()
	case isKey(msg, "W"):
		if err := p.table.ResetWidths(); err != nil {
			return emit(toastMsg{level: "error", text: err.Error()})
		}
		return emit(toastMsg{level: "info", text: "Column widths reset."})
	}

	if p.state.View() == query.ViewGallery {
		return p.gallery.Update(msg)
	}
	return p.table.Update(msg)
}

func (p *DirectoryPage[T]) handleGotoKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case isBack(msg):
		p.gotoOpen = false
	case isEnter(msg):
		p.gotoOpen = false
		n, err := strconv.Atoi(p.gotoBuf)
		if err != nil || n < 1 {
			return nil
		}
		return p.navigate(p.target.Set(query.KeyPage, query.Int(n)), navPush)
	case isKey(msg, "backspace"):
		if p.gotoBuf != "" {
			p.gotoBuf = p.gotoBuf[:len(p.gotoBuf)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '9' && len(p.gotoBuf) < 6 {
			p.gotoBuf += s
		}
	}
	return nil
}

// handleMouse takes coordinates relative to the page's top-left corner.
func (p *DirectoryPage[T]) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if p.detail != nil || p.gotoOpen {
		return nil
	}
	l := p.layout()
	gallery := p.state.View() == query.ViewGallery

	inBody := msg.Y >= l.bodyTop && msg.Y < l.bodyTop+l.bodyHeight
	if !gallery && p.table.Dragging() {
		inBody = true
	}
	switch {
	case inBody || msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		local := msg
		local.Y -= l.bodyTop
		if gallery {
			return p.gallery.Update(local)
		}
		return p.table.Update(local)
	case msg.Y == l.pagerTop:
		local := msg
		local.Y = 0
		return p.pager.Update(local)
	case msg.Y == l.pagerTop+1 && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		p.openPerPage()
	}
	return nil
}

// --- View ---

func (p *DirectoryPage[T]) summary() string {
	if p.props == nil {
		if p.status == RequestingPage {
			return MutedStyle.Render("Loading...")
		}
		return ""
	}
	page := p.props.Page
	text := "No results"
	if from, to, ok := page.Range(); ok {
		text = fmt.Sprintf("Showing %s to %s of %s", format.Int(from), format.Int(to), format.Int(page.Total))
	}
	if p.status == RequestingPage {
		text += "  " + AccentStyle.Render("loading...")
	}
	return MutedStyle.Render(text)
}

func (p *DirectoryPage[T]) View() string {
	l := p.layout()
	header := HeaderStyle.Render(p.def.Title) + "  " + p.summary()

	var body string
	switch {
	case p.detail != nil:
		body = p.renderDetail(*p.detail)
	case p.gotoOpen:
		note := ""
		if p.props != nil {
			note = fmt.Sprintf("1 to %d", p.props.Page.LastPage)
		}
		body = components.InputDialog("Go to page", p.gotoBuf, note)
	case p.state.View() == query.ViewGallery:
		body = p.gallery.View()
	default:
		body = p.table.View()
	}
	if h := lipgloss.Height(body); h < l.bodyHeight {
		body += strings.Repeat("\n", l.bodyHeight-h)
	}

	pager := p.pager.View()
	current, last := 1, 1
	if p.props != nil {
		current, last = p.props.Page.CurrentPage, p.props.Page.LastPage
	}
	footer := MutedStyle.Render(fmt.Sprintf("%s per page · page %d of %d · %s view",
		p.perPage.Value(), current, last, p.state.View()))

	parts := []string{header, ""}
	if fv := p.filters.View(); fv != "" {
		parts = append(parts, fv)
	}
	parts = append(parts, Divider(p.width), body, "", pager, footer)
	return strings.Join(parts, "\n")
}

// Overlay returns the open dropdown and its screen position.
func (p *DirectoryPage[T]) Overlay() (string, int, int, bool) {
	if !p.perPage.IsOpen() {
		return "", 0, 0, false
	}
	x, y := p.perPage.Position()
	return p.perPage.View(), x, y, true
}

func (p *DirectoryPage[T]) renderDetail(row T) string {
	title := p.def.Title
	if p.def.Card != nil {
		title = p.def.Card(row).Title
	}
	var rows []components.TableRow
	if p.def.Detail != nil {
		rows = p.def.Detail(row)
	}
	if len(rows) == 0 {
		return components.TitledBox(title, MutedStyle.Render("No details."), p.width)
	}
	return components.Table(title, rows, p.width)
}

// Hints lists the keys that apply right now.
func (p *DirectoryPage[T]) Hints() []string {
	switch {
	case p.perPage.IsOpen():
		return []string{components.Hint("↑/↓", "Choose"), components.Hint("enter", "Select"), components.Hint("esc", "Close")}
	case p.gotoOpen:
		return []string{components.Hint("0-9", "Page"), components.Hint("enter", "Go"), components.Hint("esc", "Cancel")}
	case p.detail != nil:
		return []string{components.Hint("esc", "Back")}
	case p.filters.Active():
		return []string{components.Hint("tab", "Next filter"), components.Hint("←/→", "Adjust"), components.Hint("esc", "Done")}
	case p.table.Resizing():
		return []string{components.Hint("←/→", "Width"), components.Hint("tab", "Column"), components.Hint("s", "Sort"), components.Hint("enter", "Done")}
	case p.focus == focusPager:
		return []string{components.Hint("←/→", "Page"), components.Hint("enter", "Open"), components.Hint("esc", "Rows")}
	}
	return []string{
		components.Hint("/", "Search"),
		components.Hint("f", "Filters"),
		components.Hint("[/]", "Page"),
		components.Hint("g", "Go to"),
		components.Hint("p", "Per page"),
		components.Hint("v", "View"),
		components.Hint("w", "Resize"),
		components.Hint("b", "Back"),
		components.Hint("enter", "Details"),
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
