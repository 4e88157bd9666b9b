package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdto "dodge/internal/modules/progress/dto"
	"dodge/internal/ui/theme"
)

type StatsPort interface {
	Stats(ctx context.Context) (progressdto.ProgressOutput, error)
}

type LoadedMsg struct {
	Progress progressdto.ProgressOutput
	Err      error
}

type Model struct {
	port     StatsPort
	progress progressdto.ProgressOutput
	err      error
	loaded   bool
	width    int
	height   int
}

func New(port StatsPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd { return m.Refresh() }

// Refresh reloads the aggregate; the app calls it after every session.
func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Err: fmt.Errorf("progress not configured")}
		}
		p, err := m.port.Stats(context.Background())
		return LoadedMsg{Progress: p, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		m.loaded = true
		m.err = msg.Err
		if msg.Err == nil {
			m.progress = msg.Progress
		}
	}
	return m, nil
}

func (m Model) View() string {
	var body string
	switch {
	case m.err != nil:
		body = theme.Fail.Render("stats: " + m.err.Error())
	case !m.loaded:
		body = theme.Muted.Render("Loading stats…")
	default:
		body = m.render()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) render() string {
	p := m.progress
	row := func(label, value string) string {
		return theme.Muted.Render(fmt.Sprintf("%-22s", label)) + value + "\n"
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Your progress") + "\n\n")
	sb.WriteString(row("high score", theme.Hot.Render(fmt.Sprint(p.HighScore))))
	sb.WriteString(row("longest focus streak", p.LongestStreak.Round(100*time.Millisecond).String()))
	sb.WriteString(row("longest catch streak", fmt.Sprint(p.LongestCatchStreak)))
	sb.WriteString(row("sessions played", fmt.Sprint(p.TotalSessions)))
	sb.WriteString(row("total focus time", p.TotalFocusTime.Round(time.Second).String()))
	if !p.UpdatedAt.IsZero() {
		sb.WriteString(row("last played", p.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}
	return theme.Pane.Render(sb.String())
}
