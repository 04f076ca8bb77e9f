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

// Registered signals a completed registration; the app navigates to the
// login form with a notice.
type Registered struct{}

// RegisterView is the account creation form. Success has no auth side
// effect; the user still signs in afterwards.
type RegisterView struct {
	ctx    Context
	styles *styles.Styles
	keys   keys.KeyMap

	username   textinput.Model
	email      textinput.Model
	password   textinput.Model
	focusIdx   int // 0=username, 1=email, 2=password, 3=submit
	submitting bool
	errMsg     string

	width  int
	height int
}

// NewRegisterView creates the registration form
func NewRegisterView(ctx Context) *RegisterView {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 80
	username.Focus()

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 120

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &RegisterView{
		ctx:      ctx,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		username: username,
		email:    email,
		password: password,
	}
}

// Init initializes the view
func (v *RegisterView) Init() tea.Cmd {
	return textinput.Blink
}

type registerResultMsg struct {
	ok      bool
	message string
}

func (v *RegisterView) submit() tea.Cmd {
	username := strings.TrimSpace(v.username.Value())
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if username == "" || email == "" || password == "" {
		v.errMsg = "All fields are required"
		return nil
	}

	v.submitting = true
	v.errMsg = ""
	return func() tea.Msg {
		res := v.ctx.Session.Register(context.Background(), username, email, password)
		return registerResultMsg{ok: res.OK, message: res.Message}
	}
}

// Update handles messages
func (v *RegisterView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case registerResultMsg:
		v.submitting = false
		if !msg.ok {
			v.errMsg = msg.message
			return v, nil
		}
		return v, func() tea.Msg { return Registered{} }

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}

		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return Navigate{Path: router.PathLogin} }

		case key.Matches(msg, v.keys.Tab):
			v.cycleFocus(1)
			return v, textinput.Blink

		case msg.String() == "shift+tab":
			v.cycleFocus(-1)
			return v, textinput.Blink

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < 2 {
				v.cycleFocus(1)
				return v, textinput.Blink
			}
			return v, v.submit()
		}

		var cmd tea.Cmd
		switch v.focusIdx {
		case 0:
			v.username, cmd = v.username.Update(msg)
		case 1:
			v.email, cmd = v.email.Update(msg)
		case 2:
			v.password, cmd = v.password.Update(msg)
		}
		return v, cmd
	}

	return v, nil
}

func (v *RegisterView) cycleFocus(dir int) {
	v.username.Blur()
	v.email.Blur()
	v.password.Blur()
	v.focusIdx = (v.focusIdx + dir + 4) % 4
	switch v.focusIdx {
	case 0:
		v.username.Focus()
	case 1:
		v.email.Focus()
	case 2:
		v.password.Focus()
	}
}

// View renders the view
func (v *RegisterView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-10, 20, 40)

	fieldStyle := func(idx int) lipgloss.Style {
		if v.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.focusIdx == 3 {
		btnStyle = s.ButtonFocused
	}

	btnLabel := " Create account "
	if v.submitting {
		btnLabel = " Creating... "
	}

	rows := []string{
		s.Title.Render("Create account"),
		"",
		fieldStyle(0).Width(inputWidth).Render(v.username.View()),
		fieldStyle(1).Width(inputWidth).Render(v.email.View()),
		fieldStyle(2).Width(inputWidth).Render(v.password.View()),
		"",
		btnStyle.Render(btnLabel),
	}
	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorText.Render(v.errMsg))
	}
	rows = append(rows, "", s.Help.Render(
		s.HelpKey.Render("tab")+" field • "+
			s.HelpKey.Render("↵")+" submit • "+
			s.HelpKey.Render("esc")+" back to sign in",
	))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
