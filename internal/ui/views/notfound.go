package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planterm/planterm/internal/router"
	"github.com/planterm/planterm/internal/ui/keys"
	"github.com/planterm/planterm/internal/ui/styles"
)

// NotFoundView is shown for paths outside the route table
type NotFoundView struct {
	styles *styles.Styles
	keys   keys.KeyMap
	path   string
	width  int
	height int
}

// NewNotFoundView creates the catch-all view
func NewNotFoundView(path string) *NotFoundView {
	return &NotFoundView{
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		path:   path,
	}
}

// Init initializes the view
func (v *NotFoundView) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (v *NotFoundView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			return v, func() tea.Msg { return Navigate{Path: router.PathHome} }
		}
	}
	return v, nil
}

// View renders the view
func (v *NotFoundView) View() string {
	s := v.styles
	var b strings.Builder
	b.WriteString(s.Title.Foreground(styles.Current.Warning).Render("404"))
	b.WriteString("\n\n")
	b.WriteString(s.TitleMuted.Render("No such page: " + v.path))
	b.WriteString("\n\n")
	b.WriteString(s.Help.Render(s.HelpKey.Render("enter") + " home • " + s.HelpKey.Render("q") + " quit"))

	content := lipgloss.Place(styles.ContentWidth(v.width), v.height,
		lipgloss.Center, lipgloss.Center,
		b.String(),
	)
	return styles.CenterView(content, v.width, v.height)
}
