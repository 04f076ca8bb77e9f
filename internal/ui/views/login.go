package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planterm/planterm/internal/router"
	"github.com/planterm/planterm/internal/ui/keys"
	"github.com/planterm/planterm/internal/ui/styles"
)

// LoginView is the sign-in form. A successful login navigates to the
// redirect target carried by the guard, or home.
type LoginView struct {
	ctx      Context
	styles   *styles.Styles
	keys     keys.KeyMap
	redirect string

	identifier textinput.Model
	password   textinput.Model
	focusIdx   int // 0=identifier, 1=password, 2=submit
	submitting bool
	errMsg     string
	notice     string

	width  int
	height int
}

// NewLoginView creates the login form. redirect is the path to land on
// after a successful login, "" for home.
func NewLoginView(ctx Context, redirect string) *LoginView {
	identifier := textinput.New()
	identifier.Placeholder = "Username or email"
	identifier.CharLimit = 120
	identifier.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginView{
		ctx:        ctx,
		styles:     styles.NewStyles(),
		keys:       keys.DefaultKeyMap(),
		redirect:   redirect,
		identifier: identifier,
		password:   password,
	}
}

// SetNotice shows an informational line above the form (e.g. after
// registration).
func (v *LoginView) SetNotice(text string) {
	v.notice = text
}

// Init initializes the view
func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

type loginResultMsg struct {
	ok      bool
	message string
}

func (v *LoginView) submit() tea.Cmd {
	identifier := strings.TrimSpace(v.identifier.Value())
	password := v.password.Value()
	if identifier == "" || password == "" {
		v.errMsg = "Enter your username/email and password"
		return nil
	}

	v.submitting = true
	v.errMsg = ""
	return func() tea.Msg {
		res := v.ctx.Session.Login(context.Background(), identifier, password)
		return loginResultMsg{ok: res.OK, message: res.Message}
	}
}

// Update handles messages
func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginResultMsg:
		v.submitting = false
		if !msg.ok {
			v.errMsg = msg.message
			return v, nil
		}
		target := v.redirect
		if target == "" {
			target = router.PathHome
		}
		return v, func() tea.Msg { return Navigate{Path: target} }

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}

		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case msg.String() == "ctrl+r":
			return v, func() tea.Msg { return Navigate{Path: router.PathRegister} }

		case key.Matches(msg, v.keys.Tab):
			v.cycleFocus(1)
			return v, textinput.Blink

		case msg.String() == "shift+tab":
			v.cycleFocus(-1)
			return v, textinput.Blink

		case key.Matches(msg, v.keys.Enter):
			// Enter on identifier moves on; anywhere else submits
			if v.focusIdx == 0 {
				v.cycleFocus(1)
				return v, textinput.Blink
			}
			return v, v.submit()
		}

		var cmd tea.Cmd
		switch v.focusIdx {
		case 0:
			v.identifier, cmd = v.identifier.Update(msg)
		case 1:
			v.password, cmd = v.password.Update(msg)
		}
		return v, cmd
	}

	return v, nil
}

func (v *LoginView) cycleFocus(dir int) {
	v.identifier.Blur()
	v.password.Blur()
	v.focusIdx = (v.focusIdx + dir + 3) % 3
	switch v.focusIdx {
	case 0:
		v.identifier.Focus()
	case 1:
		v.password.Focus()
	}
}

// View renders the view
func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-10, 20, 40)

	identifierStyle := s.Input
	passwordStyle := s.Input
	btnStyle := s.Button
	switch v.focusIdx {
	case 0:
		identifierStyle = s.InputFocused
	case 1:
		passwordStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	btnLabel := " Sign in "
	if v.submitting {
		btnLabel = " Signing in... "
	}

	rows := []string{
		s.Title.Render("planterm"),
		s.TitleMuted.Render("Sign in to your planner"),
		"",
	}
	if v.notice != "" {
		rows = append(rows, lipgloss.NewStyle().Foreground(styles.Current.Success).Render(v.notice), "")
	}
	rows = append(rows,
		identifierStyle.Width(inputWidth).Render(v.identifier.View()),
		passwordStyle.Width(inputWidth).Render(v.password.View()),
		"",
		btnStyle.Render(btnLabel),
	)
	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorText.Render(v.errMsg))
	}
	rows = append(rows, "", s.Help.Render(
		s.HelpKey.Render("tab")+" field • "+
			s.HelpKey.Render("↵")+" sign in • "+
			s.HelpKey.Render("ctrl+r")+" register • "+
			s.HelpKey.Render("ctrl+c")+" quit",
	))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
