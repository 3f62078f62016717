package home

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Caven15/demo-flask-cicd-docker/internal/api"
	"github.com/Caven15/demo-flask-cicd-docker/internal/ui/messages"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true).Padding(1, 0)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).Padding(1, 0)
)

// Model is the landing view. It shows the logged-in user or how to get one.
type Model struct {
	user    *api.User
	baseURL string
	width   int
	height  int
}

// New creates the home view for the given backend.
func New(baseURL string) Model {
	return Model{baseURL: baseURL}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// User returns the user shown, nil when logged out.
func (m Model) User() *api.User {
	return m.user
}

// Update follows session changes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.SessionChangedMsg:
		m.user = msg.User
	}
	return m, nil
}

// View renders the home view.
func (m Model) View() string {
	var sb strings.Builder
	if m.user == nil {
		sb.WriteString(titleStyle.Render("Not logged in"))
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("Server: ") + valueStyle.Render(m.baseURL))
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render("L to log in, R to create an account, q to quit"))
	} else {
		sb.WriteString(titleStyle.Render("Welcome, " + m.user.Email))
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("ID: ") + valueStyle.Render(strconv.Itoa(m.user.ID)))
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("Role: ") + valueStyle.Render(m.user.Role))
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("Server: ") + valueStyle.Render(m.baseURL))
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render("o to log out, q to quit"))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}
