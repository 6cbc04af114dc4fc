package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"levelquest/internal/engine"
	"levelquest/internal/ui"
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	status *engine.LedgerStatus
	habits []engine.HabitStatus
	streak engine.StreakData

	selected int
	lastLog  string
	loading  bool
	err      error
}

type loadedMsg struct {
	status *engine.LedgerStatus
	habits []engine.HabitStatus
	streak engine.StreakData
	err    error
}

type toggledMsg struct {
	name string
	on   bool
	res  *engine.ToggleResult
	err  error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		st, err := m.svc.Status(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		habits, err := m.svc.ListHabits(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		report, err := m.svc.Analytics(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{status: st, habits: habits, streak: report.StreakData}
	}
}

func (m boardModel) toggleCmd(h engine.HabitStatus) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ToggleCompletion(m.ctx, h.ID, m.svc.Today(), !h.CompletedToday)
		return toggledMsg{name: h.Name, on: !h.CompletedToday, res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		m.habits = msg.habits
		m.streak = msg.streak
		if m.selected >= len(m.habits) {
			m.selected = len(m.habits) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case toggledMsg:
		if msg.err != nil {
			m.lastLog = "Toggle failed: " + msg.err.Error()
			return m, nil
		}
		if !msg.on {
			m.lastLog = fmt.Sprintf("Unchecked %s (reward kept).", msg.name)
		} else {
			line := fmt.Sprintf("Completed %s: +%d XP, +%d gold", msg.name, msg.res.XPGained, msg.res.GoldGained)
			if msg.res.LeveledUp {
				line += " " + ui.BadgeLevelUp + fmt.Sprintf(" → level %d", msg.res.NewLevel)
			}
			if msg.res.UnlockedAchievement != nil {
				line += fmt.Sprintf(" %s %s", ui.IconTrophy, msg.res.UnlockedAchievement.Title)
			}
			m.lastLog = line
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.habits)-1 {
				m.selected++
			}
			return m, nil
		case "c", " ", "enter":
			if m.selected < 0 || m.selected >= len(m.habits) {
				return m, nil
			}
			h := m.habits[m.selected]
			m.lastLog = fmt.Sprintf("Toggling %s…", h.Name)
			return m, m.toggleCmd(h)
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := "\n" + m.lastLog

	leftW := 28
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 20 {
			leftW = 20
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.status == nil {
		return "LevelQuest — loading…"
	}
	l := m.status.Ledger
	bar := ui.ProgressBar(l.CurrentXP, m.status.XPForNext, 30)
	return fmt.Sprintf("LevelQuest | %s | Level %d %s %d/%d XP | %s %d gold",
		m.status.Rank, l.Level, bar, l.CurrentXP, m.status.XPForNext, ui.IconGold, l.CurrentGold)
}

func (m boardModel) renderSidebar() string {
	lines := []string{"Stats"}
	if m.status != nil {
		l := m.status.Ledger
		lines = append(lines,
			fmt.Sprintf("- STR %d", l.Strength),
			fmt.Sprintf("- INT %d", l.Intelligence),
			fmt.Sprintf("- VIT %d", l.Vitality),
			fmt.Sprintf("- AGI %d", l.Agility),
			fmt.Sprintf("- SEN %d", l.Sense),
			fmt.Sprintf("- WIL %d", l.Willpower),
		)
	}
	lines = append(lines, "",
		fmt.Sprintf("%s Streak: %d (best %d)", ui.IconFlame, m.streak.CurrentStreak, m.streak.LongestStreak),
		"",
		"Keys",
		"- ↑/↓ or j/k: move",
		"- c/space: toggle",
		"- r: refresh",
		"- q: quit",
	)
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	out := []string{"Today's Habits"}
	if len(m.habits) == 0 {
		out = append(out, "(no active habits — add one with `lq add`)")
		return strings.Join(out, "\n")
	}
	for i, h := range m.habits {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		check := ui.IconOpen
		if h.CompletedToday {
			check = ui.IconDone
		}
		due := ""
		if !h.DueToday {
			due = " (not due)"
		}
		streak := ""
		if h.Streak > 1 {
			streak = fmt.Sprintf(" %s%d", ui.IconFlame, h.Streak)
		}
		out = append(out, fmt.Sprintf("%s%s %s [%s]%s%s", cursor, check, h.Name, h.Category, streak, due))
	}
	return strings.Join(out, "\n")
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
