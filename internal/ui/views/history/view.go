package history

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "dodge/internal/modules/session/dto"
	"dodge/internal/ui/theme"
)

const pageSize = 50

type HistoryPort interface {
	History(ctx context.Context, limit int) ([]sessiondto.SessionSummary, error)
}

type LoadedMsg struct {
	Sessions []sessiondto.SessionSummary
	Err      error
}

type Model struct {
	port   HistoryPort
	table  table.Model
	err    error
	count  int
	width  int
	height int
}

func New(port HistoryPort) Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Sapphire).Bold(true).BorderForeground(theme.Surface1)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Lavender)
	t.SetStyles(styles)
	return Model{port: port, table: t}
}

func (m Model) Init() tea.Cmd { return m.Refresh() }

func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Err: fmt.Errorf("history not configured")}
		}
		sessions, err := m.port.History(context.Background(), pageSize)
		return LoadedMsg{Sessions: sessions, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(m.width))
		m.table.SetHeight(max(m.height-2, 3))
		return m, nil
	case LoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.count = len(msg.Sessions)
			m.table.SetRows(Rows(msg.Sessions))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Fail.Render("history: " + m.err.Error())
	}
	if m.count == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No sessions yet. Play one from the Play tab."))
	}
	return m.table.View()
}

func columns(width int) []table.Column {
	when := max(width-70, 16)
	return []table.Column{
		{Title: "When", Width: when},
		{Title: "Mode", Width: 6},
		{Title: "Score", Width: 7},
		{Title: "Best", Width: 9},
		{Title: "Focus", Width: 9},
		{Title: "Resist", Width: 6},
		{Title: "Catch", Width: 6},
		{Title: "Ended", Width: 18},
	}
}

// Rows formats sessions for the table, newest first as given.
func Rows(sessions []sessiondto.SessionSummary) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, table.Row{
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.Mode,
			fmt.Sprint(s.Score),
			s.BestStreak.Round(100 * time.Millisecond).String(),
			s.TotalFocusTime.Round(time.Second).String(),
			fmt.Sprint(s.ResistCount),
			fmt.Sprint(s.BestCatchStreak),
			s.EndReason,
		})
	}
	return rows
}
