package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/gravitrone/credir/internal/api"
	"github.com/gravitrone/credir/internal/config"
	"github.com/gravitrone/credir/internal/store"
	"github.com/gravitrone/credir/internal/ui/components"
)

// --- Messages ---

type clearToastMsg struct{}

type startupCheckedMsg struct {
	status string
	err    error
}

type appToast struct {
	level string
	text  string
}

const (
	toastDuration      = 2500 * time.Millisecond
	startupCheckBudget = 700 * time.Millisecond
)

// --- App Model ---

// App is the root TUI model that routes between directory tabs.
type App struct {
	client *api.Client
	config *config.Config
	log    *logrus.Logger
	hub    *components.PointerHub

	pages []Page
	tab   int

	width  int
	height int

	helpOpen    bool
	quitConfirm bool

	startupChecking bool
	toast           *appToast
}

// NewApp creates the root application model.
func NewApp(client *api.Client, cfg *config.Config, storage store.Storage, log *logrus.Logger) App {
	if cfg == nil {
		cfg = config.Default()
	}
	if storage == nil {
		storage = store.NewMemory()
	}
	if log == nil {
		log = logrus.New()
	}
	hub := components.NewPointerHub()
	return App{
		client:          client,
		config:          cfg,
		log:             log,
		hub:             hub,
		pages:           Pages(Deps{Client: client, Config: cfg, Storage: storage, Hub: hub, Log: log}),
		startupChecking: client != nil,
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.active().Init()}
	if a.startupChecking {
		cmds = append(cmds, a.runStartupCheckCmd())
	}
	return tea.Batch(cmds...)
}

func (a App) active() Page {
	return a.pages[a.tab]
}

func (a App) page(name string) (Page, bool) {
	for _, p := range a.pages {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	app, cmd := a.update(msg)
	app.relayout()
	return app, cmd
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case clearToastMsg:
		a.toast = nil
		return a, nil
	case toastMsg:
		return a, a.setToast(msg.level, msg.text)
	case startupCheckedMsg:
		a.startupChecking = false
		if msg.err != nil {
			a.log.WithError(msg.err).Warn("listing api unreachable")
			return a, a.setToast("warning", fmt.Sprintf("API unreachable at %s", a.config.APIURL))
		}
		return a, nil

	case routedMsg:
		// Responses go to the directory that asked, even when it is hidden.
		p, ok := a.page(msg.dir)
		if !ok {
			return a, nil
		}
		return a, p.Update(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		if a.quitConfirm {
			switch {
			case isKey(msg, "y"):
				return a, tea.Quit
			case isKey(msg, "n"), isBack(msg):
				a.quitConfirm = false
			}
			return a, nil
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		if isKey(msg, "ctrl+c") {
			return a, tea.Quit
		}

		if !a.active().Capturing() {
			switch {
			case isKey(msg, "?"):
				a.helpOpen = true
				return a, nil
			case isQuit(msg):
				if a.hasPending() {
					a.quitConfirm = true
					return a, nil
				}
				return a, tea.Quit
			case isKey(msg, "tab"):
				return a.switchTab((a.tab + 1) % len(a.pages))
			case isKey(msg, "shift+tab"):
				return a.switchTab((a.tab - 1 + len(a.pages)) % len(a.pages))
			}
			if idx, ok := tabIndexForKey(msg.String(), len(a.pages)); ok {
				return a.switchTab(idx)
			}
		}
	}

	return a, a.active().Update(msg)
}

func (a App) handleMouse(msg tea.MouseMsg) (App, tea.Cmd) {
	if a.helpOpen || a.quitConfirm {
		return a, nil
	}
	if cmd, handled := a.hub.Dispatch(msg); handled {
		return a, cmd
	}
	top := a.headerHeight()
	if msg.Y == top-2 && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if idx, ok := a.tabAt(msg.X); ok {
			return a.switchTab(idx)
		}
		return a, nil
	}
	local := msg
	local.Y -= top
	return a, a.active().Update(local)
}

func (a App) switchTab(newTab int) (App, tea.Cmd) {
	if newTab == a.tab || newTab < 0 || newTab >= len(a.pages) {
		return a, nil
	}
	a.active().Teardown()
	a.tab = newTab
	a.relayout()
	return a, a.active().Init()
}

func (a App) hasPending() bool {
	for _, p := range a.pages {
		if p.Pending() {
			return true
		}
	}
	return false
}

// --- Layout ---

func (a App) headerHeight() int {
	// banner, blank, tabs, blank
	return lipgloss.Height(RenderBanner()) + 3
}

func (a App) footerHeight() int {
	return lipgloss.Height(components.StatusBar(a.statusLabel(), a.statusHints(), a.width)) + 1
}

func (a *App) relayout() {
	if len(a.pages) == 0 {
		return
	}
	p := a.active()
	p.SetOrigin(0, a.headerHeight())
	p.SetSize(a.width, max(a.height-a.headerHeight()-a.footerHeight(), 8))
}

func (a App) renderTabs() string {
	segments := make([]string, 0, len(a.pages))
	for i, p := range a.pages {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		if i == a.tab {
			segments = append(segments, TabActiveStyle.Render(label))
		} else {
			segments = append(segments, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) tabAt(x int) (int, bool) {
	left := 0
	for i, p := range a.pages {
		w := lipgloss.Width(TabInactiveStyle.Render(fmt.Sprintf("%d %s", i+1, p.Title())))
		if x >= left && x < left+w {
			return i, true
		}
		left += w
	}
	return 0, false
}

// --- View ---

func (a App) View() string {
	banner := RenderBanner()
	tabs := a.renderTabs()

	content := a.active().View()
	switch {
	case a.quitConfirm:
		content = centerBlockUniform(a.renderQuitConfirm(), a.width)
	case a.helpOpen:
		content = centerBlockUniform(a.renderHelp(), a.width)
	}

	hints := components.StatusBar(a.statusLabel(), a.statusHints(), a.width)

	feedback := ""
	if a.toast != nil {
		feedback = "\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	screen := fmt.Sprintf("%s\n\n%s\n\n%s\n%s%s", banner, tabs, content, hints, feedback)
	if !a.helpOpen && !a.quitConfirm {
		if over, x, y, ok := a.active().Overlay(); ok {
			screen = components.Overlay(screen, over, x, y)
		}
	}
	return screen
}

// statusLabel names the active directory and whether it is loading.
func (a App) statusLabel() string {
	page := a.active()
	if page.Status() == RequestingPage {
		return "Loading " + strings.ToLower(page.Title()) + "..."
	}
	return page.Title()
}

func (a App) statusHints() []string {
	if a.quitConfirm {
		return []string{components.Hint("y", "Quit"), components.Hint("n", "Stay")}
	}
	if a.helpOpen {
		return []string{components.Hint("esc", "Close")}
	}
	hints := a.active().Hints()
	if !a.active().Capturing() {
		hints = append(hints, components.Hint("tab", "Next tab"), components.Hint("?", "Help"), components.Hint("q", "Quit"))
	}
	return hints
}

func (a App) renderHelp() string {
	hints := append(a.active().Hints(),
		components.Hint("1-6", "Switch tab"),
		components.Hint("r", "Reload"),
		components.Hint("W", "Reset widths"),
		components.Hint("n", "Pager"),
		components.Hint("q", "Quit"),
	)
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"))
	lines = append(lines, "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint)
	}
	body := strings.Join(lines, "\n")
	return components.Indent(components.TitledBox("Help", body, a.width), 1)
}

func (a App) renderQuitConfirm() string {
	body := "A search is still being typed. Quit anyway?"
	return components.Indent(components.ConfirmDialog("Quit", body), 1)
}

func (a App) runStartupCheckCmd() tea.Cmd {
	client := a.client.WithTimeout(startupCheckBudget)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), startupCheckBudget)
		defer cancel()
		status, err := client.Health(ctx)
		return startupCheckedMsg{status: status, err: err}
	}
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	content := ToastStyle(a.toast.level).Render("●") + " " + ToastTextStyle.Render(a.toast.text)
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox("Error", content, a.width)
	}
	return components.TitledBox(title, content, a.width)
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func tabIndexForKey(key string, count int) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	idx := int(key[0] - '1')
	if idx >= count {
		return 0, false
	}
	return idx, true
}
