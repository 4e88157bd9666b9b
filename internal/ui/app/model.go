package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdto "dodge/internal/modules/progress/dto"
	sessiondto "dodge/internal/modules/session/dto"
	apperrors "dodge/internal/platform/errors"
	"dodge/internal/ui/components"
	"dodge/internal/ui/theme"
	historyview "dodge/internal/ui/views/history"
	playview "dodge/internal/ui/views/play"
	statsview "dodge/internal/ui/views/stats"
)

// pointerStep is how far one arrow press drags the catch circle, in arena
// units.
const pointerStep = 2.0

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Start(ctx context.Context, mode string) (sessiondto.Snapshot, error)
	TogglePause(ctx context.Context) (sessiondto.Snapshot, error)
	Pause(ctx context.Context) (sessiondto.Snapshot, error)
	Resume(ctx context.Context) (sessiondto.Snapshot, error)
	Stop(ctx context.Context) (sessiondto.Snapshot, error)
	Background(ctx context.Context) (sessiondto.Snapshot, error)
	Tick(ctx context.Context, dt time.Duration) (sessiondto.Snapshot, error)
	TapSlot(ctx context.Context, slot int) (sessiondto.Snapshot, error)
	Nudge(ctx context.Context, dx, dy float64) (sessiondto.Snapshot, error)
	SetFocused(ctx context.Context, focused bool) (sessiondto.Snapshot, error)
	Snapshot(ctx context.Context) sessiondto.Snapshot
	History(ctx context.Context, limit int) ([]sessiondto.SessionSummary, error)
}

type progressPort interface {
	Stats(ctx context.Context) (progressdto.ProgressOutput, error)
	Onboard(ctx context.Context) (progressdto.ProgressOutput, error)
}

// Deps carries everything the root model needs from bootstrap.
type Deps struct {
	Session    sessionPort
	Progress   progressPort
	Mode       string
	Onboarded  bool
	TickPeriod time.Duration
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabPlay tabID = iota
	tabStats
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Play", "Stats", "History"}

// ─── messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type onboardedMsg struct{ err error }

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Pause   key.Binding
	Stop    key.Binding
	Move    key.Binding
	Tap     key.Binding
	Focus   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Pause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop session")),
		Move:    key.NewBinding(key.WithKeys("up", "down", "left", "right", "h", "j", "k", "l"), key.WithHelp("←↑↓→/hjkl", "move circle (catch)")),
		Tap:     key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "open notification (gaze)")),
		Focus:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle focus (manual gaze)")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Stop},
		{k.Move, k.Tap, k.Focus},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. Session calls run synchronously inside
// Update so the session is only ever touched from the program goroutine.
type Model struct {
	session  sessionPort
	progress progressPort

	playView    playview.Model
	statsView   statsview.Model
	historyView historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette

	mode       string
	onboarded  bool
	focused    bool
	ticking    bool
	lastTick   time.Time
	tickPeriod time.Duration

	status string
	alert  string
	width  int
	height int
}

func NewModel(deps Deps) Model {
	mode := deps.Mode
	if mode == "" {
		mode = "gaze"
	}
	period := deps.TickPeriod
	if period <= 0 {
		period = time.Second / 60
	}
	var historyPort historyview.HistoryPort
	if deps.Session != nil {
		historyPort = deps.Session
	}
	var statsPort statsview.StatsPort
	if deps.Progress != nil {
		statsPort = deps.Progress
	}
	return Model{
		session:     deps.Session,
		progress:    deps.Progress,
		playView:    playview.New(mode),
		statsView:   statsview.New(statsPort),
		historyView: historyview.New(historyPort),
		activeTab:   tabPlay,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(paletteCommands),
		mode:        mode,
		onboarded:   deps.Onboarded,
		tickPeriod:  period,
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.statsView.Init(), m.historyView.Init())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tickMsg:
		cmd := m.onTick(time.Time(msg))
		return m, cmd

	case tea.BlurMsg:
		if m.playView.Snapshot().State == "running" {
			cmd := m.apply(m.session.Background(context.Background()))
			m.status = "paused: terminal lost focus"
			return m, cmd
		}
		return m, nil

	case onboardedMsg:
		if msg.err != nil {
			m.status = "onboarding: " + msg.err.Error()
			return m, nil
		}
		m.onboarded = true
		m.status = "welcome! press s to start"
		cmd := m.statsView.Refresh()
		return m, cmd

	case statsview.LoadedMsg:
		var cmd tea.Cmd
		m.statsView, cmd = m.statsView.Update(msg)
		return m, cmd

	case historyview.LoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if !m.onboarded {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "enter":
				cmd := m.onboardCmd()
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmd := m.palette.Open()
			return m, cmd
		}
		if m.activeTab == tabPlay {
			cmd := m.handlePlayKey(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	if m.activeTab == tabHistory {
		m.historyView, cmd = m.historyView.Update(msg)
	}
	return m, cmd
}

func (m *Model) handlePlayKey(msg tea.KeyMsg) tea.Cmd {
	ctx := context.Background()
	state := m.playView.Snapshot().State
	switch k := msg.String(); k {
	case "s", "enter":
		if state == "running" || state == "paused" {
			return nil
		}
		return m.start(m.mode)
	case " ":
		if state == "running" || state == "paused" {
			return m.apply(m.session.TogglePause(ctx))
		}
	case "x":
		if state == "running" || state == "paused" {
			return m.apply(m.session.Stop(ctx))
		}
	case "f":
		if m.playView.Snapshot().Mode != "gaze" || state == "ended" || state == "idle" {
			return nil
		}
		snap, err := m.session.SetFocused(ctx, !m.focused)
		if err == nil {
			m.focused = !m.focused
		}
		return m.apply(snap, err)
	case "1", "2", "3", "4":
		if state != "running" {
			return nil
		}
		slot, _ := strconv.Atoi(k)
		return m.apply(m.session.TapSlot(ctx, slot))
	case "up", "k":
		return m.nudge(0, -pointerStep)
	case "down", "j":
		return m.nudge(0, pointerStep)
	case "left", "h":
		return m.nudge(-pointerStep, 0)
	case "right", "l":
		return m.nudge(pointerStep, 0)
	}
	return nil
}

func (m *Model) nudge(dx, dy float64) tea.Cmd {
	snap := m.playView.Snapshot()
	if snap.Mode != "catch" || snap.State != "running" {
		return nil
	}
	return m.apply(m.session.Nudge(context.Background(), dx, dy))
}

func (m *Model) start(mode string) tea.Cmd {
	m.focused = false
	m.activeTab = tabPlay
	cmd := m.apply(m.session.Start(context.Background(), mode))
	if state := m.playView.Snapshot().State; state == "running" {
		m.status = "session started: " + mode
	}
	return cmd
}

func (m *Model) onTick(now time.Time) tea.Cmd {
	if m.playView.Snapshot().State != "running" {
		m.ticking = false
		return nil
	}
	dt := now.Sub(m.lastTick)
	m.lastTick = now
	cmd := m.apply(m.session.Tick(context.Background(), dt))
	if m.playView.Snapshot().State != "running" {
		m.ticking = false
		return cmd
	}
	return tea.Batch(cmd, m.tickCmd())
}

// apply stores a snapshot returned by the session and derives the follow-up
// commands: the tick chain while running, refreshes once a session ends.
func (m *Model) apply(snap sessiondto.Snapshot, err error) tea.Cmd {
	prev := m.playView.Snapshot().State
	m.playView.SetSnapshot(snap)
	m.alert = snap.Alert
	if err != nil {
		m.status = describeError(err)
	}

	var cmds []tea.Cmd
	if snap.State == "running" && prev != "running" {
		m.lastTick = time.Now()
		if !m.ticking {
			m.ticking = true
			cmds = append(cmds, m.tickCmd())
		}
	}
	if snap.State == "ended" && prev != "ended" {
		if err == nil {
			m.status = fmt.Sprintf("session ended (%s): score %d", snap.EndReason, snap.Score)
		}
		cmds = append(cmds, m.statsView.Refresh(), m.historyView.Refresh())
	}
	return tea.Batch(cmds...)
}

func describeError(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrActiveSessionExists):
		return "a session is already in progress"
	case errors.Is(err, apperrors.ErrNoActiveSession):
		return "no active session"
	case errors.Is(err, apperrors.ErrWrongMode):
		return "not available in this mode"
	case errors.Is(err, apperrors.ErrUnknownDistraction):
		return "nothing in that slot"
	default:
		return err.Error()
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case !m.onboarded:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, renderOnboarding())
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabPlay:
		return m.playView.View()
	case tabStats:
		return m.statsView.View()
	case tabHistory:
		return m.historyView.View()
	}
	return ""
}

func renderOnboarding() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Welcome to DistractionDodge") + "\n\n")
	sb.WriteString("Train your attention by ignoring what tries to steal it.\n\n")
	sb.WriteString(theme.Hot.Render("gaze") + "   keep your eyes on the moving target. Notifications\n")
	sb.WriteString("       pop up; let them expire for a bonus, opening one ends\n")
	sb.WriteString("       the session. Press f to mark yourself focused.\n\n")
	sb.WriteString(theme.Hot.Render("catch") + "  drag the circle with the arrow keys onto holograms\n")
	sb.WriteString("       and away from hazards. Three hits and you are out.\n\n")
	sb.WriteString(theme.Muted.Render("enter: get started  q: quit"))
	return theme.Pane.Render(sb.String())
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "dodge  " + strings.Join(parts, sep) + theme.Muted.Render("   mode: "+m.mode)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.alert != "" {
		left = theme.Alert.Render("⚠ "+m.alert) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

// paletteCommands must stay in sync with the switch in executePalette.
var paletteCommands = []string{
	"start [gaze|catch]",
	"pause",
	"resume",
	"stop",
	"mode gaze|catch",
	"focus on|off",
	"tab play|stats|history",
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	ctx := context.Background()

	switch parts[0] {
	case "start":
		mode := m.mode
		if len(parts) >= 2 {
			mode = parts[1]
		}
		cmd := m.start(mode)
		return m, cmd

	case "pause":
		cmd := m.apply(m.session.Pause(ctx))
		return m, cmd

	case "resume":
		cmd := m.apply(m.session.Resume(ctx))
		return m, cmd

	case "stop":
		cmd := m.apply(m.session.Stop(ctx))
		return m, cmd

	case "mode":
		if len(parts) < 2 || (parts[1] != "gaze" && parts[1] != "catch") {
			m.status = "usage: mode gaze|catch"
			return m, nil
		}
		m.mode = parts[1]
		m.playView.SetMode(m.mode)
		m.status = "mode set to " + m.mode + " for the next session"
		return m, nil

	case "focus":
		if len(parts) < 2 || (parts[1] != "on" && parts[1] != "off") {
			m.status = "usage: focus on|off"
			return m, nil
		}
		snap, err := m.session.SetFocused(ctx, parts[1] == "on")
		if err == nil {
			m.focused = parts[1] == "on"
		}
		cmd := m.apply(snap, err)
		return m, cmd

	case "tab":
		for i, label := range tabLabels {
			if len(parts) >= 2 && strings.EqualFold(label, parts[1]) {
				m.activeTab = tabID(i)
				return m, nil
			}
		}
		m.status = "usage: tab play|stats|history"
		return m, nil

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	h := max(m.height-3, 1)
	m.playView.SetSize(m.width, h)
	sz := tea.WindowSizeMsg{Width: m.width, Height: h}
	m.statsView, _ = m.statsView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tickPeriod, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) onboardCmd() tea.Cmd {
	return func() tea.Msg {
		if m.progress == nil {
			return onboardedMsg{err: fmt.Errorf("progress not configured")}
		}
		_, err := m.progress.Onboard(context.Background())
		return onboardedMsg{err: err}
	}
}
