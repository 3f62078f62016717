package login

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Caven15/demo-flask-cicd-docker/internal/api"
	"github.com/Caven15/demo-flask-cicd-docker/internal/auth"
	"github.com/Caven15/demo-flask-cicd-docker/internal/render"
	"github.com/Caven15/demo-flask-cicd-docker/internal/ui/messages"
)

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true).
			Padding(1, 0)
)

// errorWidth matches the inputs plus their prompt.
const errorWidth = 32

// Model is the login form view.
type Model struct {
	emailInput    textinput.Model
	passwordInput textinput.Model
	focusIndex    int
	err           string
	submitting    bool
	client        *auth.Client
	width         int
	height        int
}

// New creates a new login form. A non-empty email pre-fills the first field
// and moves focus to the password.
func New(client *auth.Client, email string) Model {
	emailInput := textinput.New()
	emailInput.Placeholder = "you@example.com"
	emailInput.Width = 30
	emailInput.SetValue(email)

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.Width = 30

	m := Model{
		emailInput:    emailInput,
		passwordInput: passwordInput,
		client:        client,
	}
	if email != "" {
		m.focusIndex = 1
		m.passwordInput.Focus()
	} else {
		m.emailInput.Focus()
	}
	return m
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Err returns the message currently shown under the form.
func (m Model) Err() string {
	return m.err
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			if m.focusIndex == 0 {
				m.focusIndex = 1
				m.emailInput.Blur()
				m.passwordInput.Focus()
			} else {
				m.focusIndex = 0
				m.passwordInput.Blur()
				m.emailInput.Focus()
			}
			return m, nil
		case "ctrl+r":
			return m, func() tea.Msg { return messages.OpenRegisterMsg{} }
		case "enter":
			if m.submitting {
				return m, nil
			}
			req := api.LoginRequest{
				Email:    strings.TrimSpace(m.emailInput.Value()),
				Password: m.passwordInput.Value(),
			}
			if req.Email == "" || req.Password == "" {
				m.err = "Email and password required"
				return m, nil
			}
			m.submitting = true
			m.err = ""
			client := m.client
			return m, func() tea.Msg {
				resp, err := client.Login(context.Background(), req)
				if err != nil {
					return messages.LoginResultMsg{Err: err}
				}
				return messages.LoginResultMsg{User: resp.User}
			}
		}

	case messages.LoginResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.err = errorText(msg.Err)
			m.passwordInput.SetValue("")
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func errorText(err error) string {
	switch {
	case auth.IsFormError(err):
		return "Email and password required"
	case errors.Is(err, api.ErrAuthentication):
		return "Invalid email or password"
	case errors.Is(err, api.ErrNetwork):
		return "Cannot reach the server"
	case errors.Is(err, api.ErrServer):
		return "Server error, try again later"
	}
	return "Login failed: " + err.Error()
}

// View renders the login form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Login"))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Email:"))
	sb.WriteString("\n")
	sb.WriteString(m.emailInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Password:"))
	sb.WriteString("\n")
	sb.WriteString(m.passwordInput.View())
	sb.WriteString("\n\n")

	if m.err != "" {
		sb.WriteString(errorStyle.Render(render.Wrap(m.err, errorWidth)))
		sb.WriteString("\n\n")
	}

	if m.submitting {
		sb.WriteString("Logging in...")
	} else {
		sb.WriteString(focusedStyle.Render("Enter") + " to submit, " + focusedStyle.Render("Esc") + " to cancel, " +
			focusedStyle.Render("Ctrl+R") + " to create an account")
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
