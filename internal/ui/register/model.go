package register

import (
	"context"
	"errors"
	"fmt"
	"sort"
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
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Width(10)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

type field int

const (
	fieldEmail field = iota
	fieldPassword
	fieldConfirm
	fieldCount
)

// Model is the account registration form.
type Model struct {
	emailInput    textinput.Model
	passwordInput textinput.Model
	confirmInput  textinput.Model
	focused       field
	minPassword   int
	client        *auth.Client
	err           string
	submitting    bool
	width         int
	height        int
}

// New creates a new register form. Passwords shorter than minPassword are
// refused before anything is sent.
func New(client *auth.Client, minPassword int) Model {
	ei := textinput.New()
	ei.Placeholder = "you@example.com"
	ei.Focus()
	ei.CharLimit = 254
	ei.Width = 40

	pi := textinput.New()
	pi.Placeholder = fmt.Sprintf("at least %d characters", minPassword)
	pi.EchoMode = textinput.EchoPassword
	pi.Width = 40

	ci := textinput.New()
	ci.Placeholder = "repeat password"
	ci.EchoMode = textinput.EchoPassword
	ci.Width = 40

	return Model{
		emailInput:    ei,
		passwordInput: pi,
		confirmInput:  ci,
		focused:       fieldEmail,
		minPassword:   minPassword,
		client:        client,
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	fw := w - 16
	if fw > 60 {
		fw = 60
	}
	m.emailInput.Width = fw
	m.passwordInput.Width = fw
	m.confirmInput.Width = fw
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
		case "tab":
			m.focused = (m.focused + 1) % fieldCount
			return m, m.updateFocus()
		case "shift+tab":
			m.focused = (m.focused + fieldCount - 1) % fieldCount
			return m, m.updateFocus()
		case "ctrl+l":
			email := strings.TrimSpace(m.emailInput.Value())
			return m, func() tea.Msg { return messages.OpenLoginMsg{Email: email} }
		case "enter":
			if m.submitting {
				return m, nil
			}
			req := api.RegisterRequest{
				Email:           strings.TrimSpace(m.emailInput.Value()),
				Password:        m.passwordInput.Value(),
				ConfirmPassword: m.confirmInput.Value(),
			}
			if problem := m.check(req); problem != "" {
				m.err = problem
				return m, nil
			}
			m.submitting = true
			m.err = ""
			client := m.client
			return m, func() tea.Msg {
				resp, err := client.Register(context.Background(), req)
				if err != nil {
					return messages.RegisterResultMsg{Email: req.Email, Err: err}
				}
				return messages.RegisterResultMsg{Email: req.Email, Message: resp.Message}
			}
		}

	case messages.RegisterResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.err = errorText(msg.Err)
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focused {
	case fieldEmail:
		m.emailInput, cmd = m.emailInput.Update(msg)
	case fieldPassword:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	case fieldConfirm:
		m.confirmInput, cmd = m.confirmInput.Update(msg)
	}
	return m, cmd
}

// check returns the first problem with the form, or "".
func (m Model) check(req api.RegisterRequest) string {
	switch {
	case req.Email == "":
		return "Email is required"
	case !strings.Contains(req.Email, "@"):
		return "Email looks invalid"
	case len(req.Password) < m.minPassword:
		return fmt.Sprintf("Password must be at least %d characters", m.minPassword)
	case req.Password != req.ConfirmPassword:
		return "Passwords do not match"
	}
	return ""
}

func errorText(err error) string {
	var ae *api.AuthError
	switch {
	case api.IsConflict(err):
		return "An account with this email already exists"
	case errors.As(err, &ae) && ae.Kind == api.KindValidation:
		if len(ae.Fields) == 0 {
			return "Invalid data, check the form"
		}
		keys := make([]string, 0, len(ae.Fields))
		for k := range ae.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, ae.Fields[k])
		}
		return "Invalid data: " + strings.Join(parts, "; ")
	case errors.Is(err, api.ErrNetwork):
		return "Cannot reach the server"
	}
	return "Registration failed, try again later"
}

func (m *Model) updateFocus() tea.Cmd {
	m.emailInput.Blur()
	m.passwordInput.Blur()
	m.confirmInput.Blur()
	switch m.focused {
	case fieldEmail:
		return m.emailInput.Focus()
	case fieldPassword:
		return m.passwordInput.Focus()
	case fieldConfirm:
		return m.confirmInput.Focus()
	}
	return nil
}

// View renders the register form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Create an account"))
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("email") + " " + m.emailInput.View())
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("password") + " " + m.passwordInput.View())
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("confirm") + " " + m.confirmInput.View())
	sb.WriteString("\n\n")

	if m.err != "" {
		// Label, gap and input.
		sb.WriteString(errorStyle.Render(render.Wrap(m.err, 11+m.emailInput.Width)))
		sb.WriteString("\n")
	}

	if m.submitting {
		sb.WriteString("Registering...")
	} else {
		sb.WriteString(hintStyle.Render("Tab to switch fields | Enter to register | Ctrl+L to log in | Esc to cancel"))
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
