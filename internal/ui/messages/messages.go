package messages

import "github.com/Caven15/demo-flask-cicd-docker/internal/api"

// View transition messages.
type (
	OpenLoginMsg    struct{ Email string }
	OpenRegisterMsg struct{}
)

// Data messages.
type (
	LoginResultMsg struct {
		User api.User
		Err  error
	}

	RegisterResultMsg struct {
		Email   string
		Message string
		Err     error
	}

	LogoutResultMsg struct {
		Err error
	}

	// SessionChangedMsg carries every change of the session store. User is
	// nil after a logout.
	SessionChangedMsg struct {
		User *api.User
	}

	SessionRestoredMsg struct {
		Email string
	}

	StatusMsg struct {
		Text    string
		IsError bool
	}
)
