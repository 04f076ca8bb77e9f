// Package ui wires the route table, the stores, and the API client into
// a single bubbletea program.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/planterm/planterm/internal/api"
	"github.com/planterm/planterm/internal/config"
	"github.com/planterm/planterm/internal/router"
	"github.com/planterm/planterm/internal/storage"
	"github.com/planterm/planterm/internal/store"
	"github.com/planterm/planterm/internal/ui/styles"
	"github.com/planterm/planterm/internal/ui/views"
)

const toastDuration = 4 * time.Second

// toastMsg surfaces a transient notification line
type toastMsg struct {
	text string
}

// sessionExpiredMsg is pushed when any request comes back 401
type sessionExpiredMsg struct{}

type toastExpiredMsg struct {
	id int
}

// App is the root model. It resolves navigation through the route
// guard, swaps the active view, and renders toasts over it.
type App struct {
	ctx     views.Context
	storage *storage.Store
	logger  *zap.Logger

	view tea.Model
	path string

	// async notifications from the API client arrive here; bubbletea
	// owns the model, so the client callbacks cannot touch it directly
	events chan tea.Msg

	toast   string
	toastID int

	width  int
	height int
}

// NewApp builds the client and stores from config and opens on the
// home route, letting the guard bounce to login when needed.
func NewApp(cfg *config.Config, logger *zap.Logger, st *storage.Store) *App {
	a := &App{
		storage: st,
		logger:  logger,
		events:  make(chan tea.Msg, 16),
	}

	client := api.NewClient(cfg.Server.BaseURL,
		api.WithTimeout(cfg.Server.Timeout),
		api.WithLogger(logger),
		api.WithTokenSource(st.Token),
		api.WithNotifier(api.NotifierFunc(func(message string) {
			a.push(toastMsg{text: message})
		})),
		api.WithUnauthorizedHandler(func() {
			a.push(sessionExpiredMsg{})
		}),
	)

	a.ctx = views.Context{
		Session: store.NewSessionStore(client, st, logger),
		Tasks:   store.NewTaskStore(client, logger),
		Client:  client,
		Logger:  logger,
	}
	return a
}

// push hands a message to the program without blocking API callbacks.
func (a *App) push(msg tea.Msg) {
	select {
	case a.events <- msg:
	default:
	}
}

func (a *App) listen() tea.Msg {
	return <-a.events
}

// Init restores the saved session and resolves the initial route.
func (a *App) Init() tea.Cmd {
	a.ctx.Session.CheckAuth()
	viewInit := a.navigate(router.PathHome)
	return tea.Batch(viewInit, a.listen)
}

// navigate runs the guard and swaps the active view. Returns the new
// view's Init command.
func (a *App) navigate(target string) tea.Cmd {
	res := router.Resolve(target, a.ctx.Session.LoggedIn())
	if res.Redirected {
		a.logger.Debug("route redirected",
			zap.String("from", target),
			zap.String("to", res.Path))
	}
	a.path = res.Path

	switch res.Route.Name {
	case router.NameLogin:
		a.view = views.NewLoginView(a.ctx, router.RedirectTarget(res.Path))
	case router.NameRegister:
		a.view = views.NewRegisterView(a.ctx)
	case router.NameHome:
		a.view = views.NewHomeView(a.ctx)
	case router.NameTasks:
		a.view = views.NewTasksView(a.ctx)
	case router.NameCalendar:
		a.view = views.NewCalendarView(a.ctx)
	case router.NameAISchedule:
		a.view = views.NewScheduleView(a.ctx)
	default:
		a.view = views.NewNotFoundView(res.Path)
	}

	cmds := []tea.Cmd{a.view.Init()}
	if a.width > 0 {
		size := tea.WindowSizeMsg{Width: a.width, Height: a.height}
		a.view, _ = a.view.Update(size)
	}
	return tea.Batch(cmds...)
}

// showToast replaces the current toast and schedules its dismissal.
func (a *App) showToast(text string) tea.Cmd {
	a.toast = text
	a.toastID++
	id := a.toastID
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// Update routes app-level messages and forwards the rest to the view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmd tea.Cmd
		a.view, cmd = a.view.Update(msg)
		return a, cmd

	case views.Navigate:
		return a, a.navigate(msg.Path)

	case views.Registered:
		cmd := a.navigate(router.PathLogin)
		if login, ok := a.view.(*views.LoginView); ok {
			login.SetNotice("Account created, please log in")
		}
		return a, cmd

	case views.LoggedOut:
		return a, a.navigate(router.PathLogin)

	case sessionExpiredMsg:
		a.ctx.Session.ClearAuth()
		return a, tea.Batch(a.navigate(router.PathLogin), a.listen)

	case toastMsg:
		return a, tea.Batch(a.showToast(msg.text), a.listen)

	case toastExpiredMsg:
		if msg.id == a.toastID {
			a.toast = ""
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.view, cmd = a.view.Update(msg)
	return a, cmd
}

// View renders the active view with the toast line on top.
func (a *App) View() string {
	out := a.view.View()
	if a.toast == "" {
		return out
	}

	s := styles.NewStyles()
	toast := s.Toast.Render(a.toast)
	if a.width > 0 {
		toast = lipgloss.PlaceHorizontal(a.width, lipgloss.Center, toast)
	}

	lines := []string{toast}
	lines = append(lines, out)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Run starts the program on the alternate screen.
func Run(cfg *config.Config, logger *zap.Logger, st *storage.Store) error {
	app := NewApp(cfg, logger, st)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
