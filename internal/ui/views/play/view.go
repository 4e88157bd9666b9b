package play

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	sessiondto "dodge/internal/modules/session/dto"
	"dodge/internal/ui/theme"
)

var (
	targetStyle  = lipgloss.NewStyle().Foreground(theme.Green).Bold(true)
	pointerStyle = lipgloss.NewStyle().Foreground(theme.Sapphire).Bold(true)
	notifyStyle  = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true)
	holoStyle    = lipgloss.NewStyle().Foreground(theme.Lavender).Bold(true)
	hazardStyle  = lipgloss.NewStyle().Foreground(theme.Red).Bold(true)
	arenaStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Surface1)
	focusedArena = arenaStyle.BorderForeground(theme.Green)
)

// Model renders the latest session snapshot. It holds no session state of
// its own; the app model feeds it snapshots.
type Model struct {
	snap   sessiondto.Snapshot
	mode   string
	width  int
	height int
}

func New(mode string) Model {
	return Model{mode: mode, snap: sessiondto.Snapshot{State: "idle"}}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) SetSnapshot(snap sessiondto.Snapshot) { m.snap = snap }

func (m *Model) SetMode(mode string) { m.mode = mode }

func (m Model) Snapshot() sessiondto.Snapshot { return m.snap }

func (m Model) View() string {
	switch m.snap.State {
	case "idle":
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderIdle())
	case "ended":
		if m.snap.Result != nil {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderResult())
		}
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	arenaH := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	arenaW := m.width - 2
	if arenaH < 3 || arenaW < 10 {
		return header + "\n" + theme.Muted.Render("window too small")
	}
	style := arenaStyle
	if m.snap.Mode == "gaze" && m.snap.Focused {
		style = focusedArena
	}
	arena := style.Render(RenderArena(m.snap, arenaW, arenaH))
	return lipgloss.JoinVertical(lipgloss.Left, header, arena, footer)
}

func (m Model) renderIdle() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("DistractionDodge") + "\n\n")
	sb.WriteString(fmt.Sprintf("mode: %s\n\n", theme.Hot.Render(m.mode)))
	sb.WriteString(theme.Muted.Render("s: start  :mode gaze|catch  ?: help"))
	return theme.Pane.Render(sb.String())
}

func (m Model) renderHeader() string {
	s := m.snap
	parts := []string{
		theme.Hot.Render(fmt.Sprintf("score %d", s.Score)),
		fmt.Sprintf("time %s", formatClock(s.Remaining)),
	}
	switch s.Mode {
	case "gaze":
		parts = append(parts,
			fmt.Sprintf("streak %s", formatSeconds(s.FocusStreak)),
			fmt.Sprintf("best %s", formatSeconds(s.BestStreak)),
			fmt.Sprintf("resisted %d", s.ResistCount),
		)
		if s.Focused {
			parts = append(parts, targetStyle.Render("focused"))
		} else {
			parts = append(parts, theme.Muted.Render("unfocused"))
		}
	case "catch":
		parts = append(parts,
			fmt.Sprintf("catch streak %d", s.CatchStreak),
			fmt.Sprintf("x%d", s.Multiplier),
			hazardStyle.Render(strings.Repeat("♥", max(s.Hearts, 0))),
		)
	}
	if s.State == "paused" {
		parts = append(parts, theme.Hot.Render("PAUSED"))
	}
	return strings.Join(parts, theme.Muted.Render("  │  "))
}

func (m Model) renderFooter() string {
	if m.snap.Mode != "gaze" {
		return theme.Muted.Render("arrows/hjkl: move  space: pause  x: stop")
	}
	var lines []string
	for _, d := range m.snap.Distractions {
		lines = append(lines, fmt.Sprintf("%s %s %s  %s",
			notifyStyle.Render(fmt.Sprintf("[%d]", d.Slot)),
			d.Icon,
			theme.Title.Render(d.Title),
			theme.Muted.Render(fmt.Sprintf("%s (%ss)", d.Message, formatSeconds(d.Remaining))),
		))
	}
	lines = append(lines, theme.Muted.Render("f: toggle focus  1-4: open notification  space: pause  x: stop"))
	return strings.Join(lines, "\n")
}

func (m Model) renderResult() string {
	r := m.snap.Result
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Session complete") + "\n\n")
	sb.WriteString(theme.Muted.Render("reason:      ") + r.EndReason + "\n")
	sb.WriteString(theme.Muted.Render("score:       ") + theme.Hot.Render(fmt.Sprint(r.Score)) + "\n")
	if r.Mode == "catch" {
		sb.WriteString(theme.Muted.Render("best streak: ") + fmt.Sprint(r.BestCatchStreak) + " catches\n")
		sb.WriteString(theme.Muted.Render("hearts left: ") + fmt.Sprint(r.HeartsLeft) + "\n")
	} else {
		sb.WriteString(theme.Muted.Render("best streak: ") + formatSeconds(r.BestStreak) + "s\n")
		sb.WriteString(theme.Muted.Render("focus time:  ") + formatSeconds(r.TotalFocusTime) + "s\n")
		sb.WriteString(theme.Muted.Render("resisted:    ") + fmt.Sprint(r.ResistCount) + "\n")
	}
	if r.NewHighScore {
		sb.WriteString("\n" + theme.Hot.Render("New high score!") + "\n")
	}
	if !r.Persisted {
		sb.WriteString("\n" + hazardStyle.Render("This session could not be saved.") + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("s: play again"))
	return theme.Pane.Render(sb.String())
}

// RenderArena draws the snapshot onto a cols×rows character grid.
func RenderArena(snap sessiondto.Snapshot, cols, rows int) string {
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	place := func(p sessiondto.PointView, glyph string) {
		if snap.ArenaWidth <= 0 || snap.ArenaHeight <= 0 {
			return
		}
		c := int(p.X / snap.ArenaWidth * float64(cols-1))
		r := int(p.Y / snap.ArenaHeight * float64(rows-1))
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return
		}
		grid[r][c] = glyph
	}

	for _, d := range snap.Distractions {
		switch d.Kind {
		case "hologram":
			place(d.Position, holoStyle.Render("◆"))
		case "hazard":
			place(d.Position, hazardStyle.Render("✖"))
		default:
			place(d.Position, notifyStyle.Render(fmt.Sprint(d.Slot)))
		}
	}
	if snap.Mode == "catch" {
		place(snap.Pointer, pointerStyle.Render("●"))
	} else {
		place(snap.Target, targetStyle.Render("◎"))
	}

	lines := make([]string, rows)
	for r := range grid {
		lines[r] = strings.Join(grid[r], "")
	}
	return strings.Join(lines, "\n")
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1f", d.Seconds())
}
