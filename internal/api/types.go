package api

// User is the authenticated account as returned by the backend.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /login. It is the only source
// of both the token and the user after a login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// RegisterResponse is the success body of POST /register.
type RegisterResponse struct {
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// errorBody covers both error shapes the backend produces:
// {"error": "..."} and {"errors": {"field": "..."}}.
type errorBody struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
}
