package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Caven15/demo-flask-cicd-docker/internal/auth"
	"github.com/Caven15/demo-flask-cicd-docker/internal/config"
	"github.com/Caven15/demo-flask-cicd-docker/internal/ui/home"
	"github.com/Caven15/demo-flask-cicd-docker/internal/ui/login"
	"github.com/Caven15/demo-flask-cicd-docker/internal/ui/messages"
	"github.com/Caven15/demo-flask-cicd-docker/internal/ui/register"
	"github.com/Caven15/demo-flask-cicd-docker/internal/ui/statusbar"
)

// ViewType identifies the active view.
type ViewType int

const (
	ViewHome ViewType = iota
	ViewLogin
	ViewRegister
)

var viewLabels = map[ViewType]string{
	ViewHome:     "home",
	ViewLogin:    "login",
	ViewRegister: "register",
}

// App is the root Bubble Tea model.
type App struct {
	// View state
	activeView    ViewType
	previousViews []ViewType
	showHelp      bool

	// Child models
	home         home.Model
	loginForm    login.Model
	registerForm register.Model
	statusBar    statusbar.Model

	// Shared state
	cfg     config.Config
	client  *auth.Client
	changes <-chan auth.SessionChange
	unwatch func()

	// Dimensions
	width  int
	height int
}

// NewApp creates the root application model. Close must be called once the
// program has exited.
func NewApp(cfg config.Config, client *auth.Client) *App {
	changes, unwatch := client.Session().Subscribe()
	a := &App{
		activeView: ViewHome,
		home:       home.New(cfg.BaseURL),
		statusBar:  statusbar.New(),
		cfg:        cfg,
		client:     client,
		changes:    changes,
		unwatch:    unwatch,
	}
	if u, ok := client.CurrentUser(); ok {
		a.home, _ = a.home.Update(messages.SessionChangedMsg{User: &u})
		a.statusBar.SetUser(u.Email)
	}
	return a
}

// Close stops watching the session store.
func (a *App) Close() {
	a.unwatch()
}

// ActiveView reports the view currently shown.
func (a *App) ActiveView() ViewType {
	return a.activeView
}

// Init starts the application.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.watchSession()}
	if a.cfg.RestoreSession {
		cmds = append(cmds, a.tryRestoreSession())
	}
	return tea.Batch(cmds...)
}

// watchSession waits for the next session change and hands it to Update,
// which re-arms the watch.
func (a *App) watchSession() tea.Cmd {
	changes := a.changes
	return func() tea.Msg {
		change, ok := <-changes
		if !ok {
			return nil
		}
		return messages.SessionChangedMsg{User: change.User}
	}
}

func (a *App) tryRestoreSession() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ok, err := client.Restore()
		if err != nil {
			return messages.StatusMsg{Text: "Could not restore session: " + err.Error(), IsError: true}
		}
		if !ok {
			return nil
		}
		u, _ := client.CurrentUser()
		return messages.SessionRestoredMsg{Email: u.Email}
	}
}

func (a *App) logout() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		return messages.LogoutResultMsg{Err: client.Logout()}
	}
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 1 // Reserve 1 line for status bar.
		a.home.SetSize(msg.Width, contentHeight)
		a.statusBar.SetSize(msg.Width)
		switch a.activeView {
		case ViewLogin:
			a.loginForm.SetSize(msg.Width, contentHeight)
		case ViewRegister:
			a.registerForm.SetSize(msg.Width, contentHeight)
		}
		return a, nil

	case tea.KeyMsg:
		// Global keys (only when not in text input views).
		if a.activeView == ViewHome {
			switch {
			case key.Matches(msg, Keys.Quit):
				return a, tea.Quit
			case key.Matches(msg, Keys.Help):
				a.showHelp = !a.showHelp
				return a, nil
			case key.Matches(msg, Keys.Back):
				a.showHelp = false
				return a, nil
			case key.Matches(msg, Keys.Login):
				return a, a.openLogin("")
			case key.Matches(msg, Keys.Register):
				return a, a.openRegister()
			case key.Matches(msg, Keys.Logout):
				if a.client.IsLoggedIn() {
					return a, a.logout()
				}
				return a, nil
			}
		} else {
			// Esc in text input views goes back.
			if key.Matches(msg, Keys.Back) {
				return a, a.goBack()
			}
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
		}

	// View transitions.
	case messages.OpenLoginMsg:
		a.goBack()
		return a, a.openLogin(msg.Email)

	case messages.OpenRegisterMsg:
		a.goBack()
		return a, a.openRegister()

	case messages.SessionChangedMsg:
		a.home, _ = a.home.Update(msg)
		if msg.User != nil {
			a.statusBar.SetUser(msg.User.Email)
		} else {
			a.statusBar.SetUser("")
		}
		return a, a.watchSession()

	case messages.SessionRestoredMsg:
		a.statusBar.SetStatus("Welcome back, "+msg.Email, false)
		return a, nil

	case messages.LoginResultMsg:
		if msg.Err == nil {
			a.statusBar.SetStatus("Logged in", false)
			a.loginForm, _ = a.loginForm.Update(msg)
			return a, a.goBack()
		}
		// Let login form handle the error.

	case messages.RegisterResultMsg:
		if msg.Err == nil {
			text := msg.Message
			if text == "" {
				text = "Account created"
			}
			a.statusBar.SetStatus(text+", please log in", false)
			a.setView(ViewLogin)
			a.loginForm = login.New(a.client, msg.Email)
			a.loginForm.SetSize(a.width, a.height-1)
			return a, nil
		}

	case messages.LogoutResultMsg:
		if msg.Err != nil {
			a.statusBar.SetStatus("Logged out, but the stored token could not be erased", true)
		} else {
			a.statusBar.SetStatus("Logged out", false)
		}
		return a, nil

	case messages.StatusMsg:
		a.statusBar.SetStatus(msg.Text, msg.IsError)
		return a, nil
	}

	// Route to active view.
	var cmd tea.Cmd
	switch a.activeView {
	case ViewHome:
		a.home, cmd = a.home.Update(msg)
		cmds = append(cmds, cmd)
	case ViewLogin:
		a.loginForm, cmd = a.loginForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewRegister:
		a.registerForm, cmd = a.registerForm.Update(msg)
		cmds = append(cmds, cmd)
	}

	a.statusBar, cmd = a.statusBar.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View renders the application.
func (a *App) View() string {
	var content string
	switch a.activeView {
	case ViewHome:
		content = a.home.View()
		if a.showHelp {
			content = lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, helpView())
		}
	case ViewLogin:
		content = a.loginForm.View()
	case ViewRegister:
		content = a.registerForm.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, a.statusBar.View())
}

func helpView() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Keys"))
	for _, b := range Keys.helpBindings() {
		h := b.Help()
		sb.WriteString("\n" + KeyStyle.Render(h.Key) + MetaStyle.Render(h.Desc))
	}
	return HelpBoxStyle.Render(sb.String())
}

func (a *App) openLogin(email string) tea.Cmd {
	if a.client.IsLoggedIn() {
		a.statusBar.SetStatus("Already logged in", false)
		return nil
	}
	a.pushView(ViewLogin)
	a.loginForm = login.New(a.client, email)
	a.loginForm.SetSize(a.width, a.height-1)
	return nil
}

func (a *App) openRegister() tea.Cmd {
	if a.client.IsLoggedIn() {
		a.statusBar.SetStatus("Log out before creating another account", false)
		return nil
	}
	a.pushView(ViewRegister)
	a.registerForm = register.New(a.client, a.cfg.MinPasswordLength)
	a.registerForm.SetSize(a.width, a.height-1)
	return nil
}

func (a *App) pushView(v ViewType) {
	a.previousViews = append(a.previousViews, a.activeView)
	a.setView(v)
}

func (a *App) setView(v ViewType) {
	a.activeView = v
	a.showHelp = false
	a.statusBar.SetView(viewLabels[v])
}

func (a *App) goBack() tea.Cmd {
	if len(a.previousViews) > 0 {
		a.setView(a.previousViews[len(a.previousViews)-1])
		a.previousViews = a.previousViews[:len(a.previousViews)-1]
	}
	return nil
}
