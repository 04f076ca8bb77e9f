package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planterm/planterm/internal/model"
	"github.com/planterm/planterm/internal/router"
	"github.com/planterm/planterm/internal/ui/keys"
	"github.com/planterm/planterm/internal/ui/styles"
)

// LoggedOut signals that the user logged out; the app navigates to the
// login form.
type LoggedOut struct{}

// HomeView is the dashboard: task counts, work pattern summary and the
// navigation menu.
type HomeView struct {
	ctx    Context
	styles *styles.Styles
	keys   keys.KeyMap

	patterns *model.WorkPatterns
	loaded   bool

	width  int
	height int
}

// NewHomeView creates the dashboard
func NewHomeView(ctx Context) *HomeView {
	return &HomeView{
		ctx:    ctx,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

// Init initializes the view
func (v *HomeView) Init() tea.Cmd {
	return tea.Batch(v.loadTasks, v.loadPatterns)
}

type homeTasksLoadedMsg struct{}

type patternsLoadedMsg struct {
	patterns model.WorkPatterns
}

func (v *HomeView) loadTasks() tea.Msg {
	// Errors surface through the store and the global notifier; the
	// dashboard just renders whatever the store holds afterwards.
	_ = v.ctx.Tasks.FetchDynamicTasks(context.Background(), nil)
	return homeTasksLoadedMsg{}
}

func (v *HomeView) loadPatterns() tea.Msg {
	resp, err := v.ctx.Client.AnalyzeWorkPatterns(context.Background())
	if err != nil || !resp.Success {
		return nil
	}
	return patternsLoadedMsg{patterns: resp.Patterns}
}

// Update handles messages
func (v *HomeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case homeTasksLoadedMsg:
		v.loaded = true
		return v, nil

	case patternsLoadedMsg:
		v.patterns = &msg.patterns
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return v, tea.Quit
		case "t":
			return v, func() tea.Msg { return Navigate{Path: router.PathTasks} }
		case "c":
			return v, func() tea.Msg { return Navigate{Path: router.PathCalendar} }
		case "s":
			return v, func() tea.Msg { return Navigate{Path: router.PathAISchedule} }
		case "r":
			return v, tea.Batch(v.loadTasks, v.loadPatterns)
		case "L":
			return v, v.logout()
		}
	}

	return v, nil
}

func (v *HomeView) logout() tea.Cmd {
	return func() tea.Msg {
		v.ctx.Session.Logout(context.Background())
		return LoggedOut{}
	}
}

// View renders the view
func (v *HomeView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	name := "there"
	if user := v.ctx.Session.User(); user != nil {
		name = user.Username
	}

	pending := len(v.ctx.Tasks.PendingTasks())
	completed := len(v.ctx.Tasks.CompletedTasks())
	high := len(v.ctx.Tasks.HighPriorityTasks())

	counts := lipgloss.JoinHorizontal(lipgloss.Top,
		s.Panel.Render(fmt.Sprintf("Pending\n%s", s.Title.Render(fmt.Sprintf("%d", pending)))),
		" ",
		s.Panel.Render(fmt.Sprintf("Done\n%s", s.Title.Render(fmt.Sprintf("%d", completed)))),
		" ",
		s.Panel.Render(fmt.Sprintf("High priority\n%s", lipgloss.NewStyle().Foreground(styles.Current.Error).Bold(true).Render(fmt.Sprintf("%d", high)))),
	)

	patterns := s.TitleMuted.Render("No work pattern data yet")
	if v.patterns != nil {
		p := v.patterns
		patterns = lipgloss.JoinVertical(lipgloss.Left,
			s.TitleMuted.Render("Work patterns"),
			fmt.Sprintf("Completed: %d  Rate: %.0f%%  Avg time: %.0fm",
				p.TotalCompleted, p.CompletionRate*100, p.AverageCompletionTime),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("planterm"),
		s.TitleMuted.Render("Welcome back, "+name),
		"",
		counts,
		"",
		patterns,
		"",
		s.Help.Render(
			s.HelpKey.Render("t")+" tasks • "+
				s.HelpKey.Render("c")+" calendar • "+
				s.HelpKey.Render("s")+" AI schedule • "+
				s.HelpKey.Render("r")+" refresh • "+
				s.HelpKey.Render("L")+" logout • "+
				s.HelpKey.Render("q")+" quit",
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
