package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/auth/", nil)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", nil)
	require.Equal(t, DefaultBaseURL, c.BaseURL())

	c = NewClient("http://host/api/auth///", nil)
	require.Equal(t, "http://host/api/auth", c.BaseURL())
}

func TestLogin_PostsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok1","user":{"id":1,"email":"a@b.com","role":"user"}}`))
	})

	resp, err := c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	require.Equal(t, "tok1", resp.AccessToken)
	require.Equal(t, User{ID: 1, Email: "a@b.com", Role: "user"}, resp.User)
}

func TestRegister_EmptySuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/register", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	resp, err := c.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "p", ConfirmPassword: "p"})
	require.NoError(t, err)
	require.Empty(t, resp.Message)
}

func TestPost_ErrorCarriesRequestID(t *testing.T) {
	var sent string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		sent = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid credentials"}`))
	})

	_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "x"})
	require.ErrorIs(t, err, ErrAuthentication)
	require.NotEmpty(t, sent)
	require.Equal(t, sent, RequestID(err))
	require.Empty(t, RequestID(errors.New("plain")))
}

func TestDecodeError(t *testing.T) {
	cases := []struct {
		name        string
		ep          endpoint
		status      int
		contentType string
		body        string
		kind        Kind
		message     string
		fields      map[string]string
	}{
		{"login 401", endpointLogin, 401, "application/json", `{"error":"Identifiants invalides."}`, KindAuthentication, "Identifiants invalides.", nil},
		{"login 400 fields", endpointLogin, 400, "application/json", `{"errors":{"email":"L'email est requis."}}`, KindAuthentication, "Bad Request", map[string]string{"email": "L'email est requis."}},
		{"register 409", endpointRegister, 409, "application/json", `{"error":"exists"}`, KindConflict, "exists", nil},
		{"register 400 fields", endpointRegister, 400, "application/json", `{"errors":{"password":"required"}}`, KindValidation, "Bad Request", map[string]string{"password": "required"}},
		{"register 403", endpointRegister, 403, "text/plain", "nope", KindValidation, "nope", nil},
		{"login 500 html", endpointLogin, 500, "text/html; charset=utf-8", "<html><head><title>Oops</title><style>p{}</style></head><body><p>Internal   Server Error</p></body></html>", KindServer, "Oops\nInternal Server Error", nil},
		{"register 503 empty", endpointRegister, 503, "", "", KindServer, "Service Unavailable", nil},
		{"login 302", endpointLogin, 302, "", "", KindServer, "Found", nil},
		{"login 502 long multibyte", endpointLogin, 502, "text/plain", strings.Repeat("a", 199) + "é erreur", KindServer, strings.Repeat("a", 199) + "...", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ae := decodeError(tc.ep, tc.status, tc.contentType, []byte(tc.body))
			require.Equal(t, tc.kind, ae.Kind)
			require.Equal(t, tc.status, ae.Status)
			require.Equal(t, tc.message, ae.Message)
			require.Equal(t, tc.fields, ae.Fields)
			require.True(t, utf8.ValidString(ae.Message))
		})
	}
}

func TestAuthError_Matching(t *testing.T) {
	var err error = &AuthError{Kind: KindConflict, Status: 409, Message: "exists"}
	wrapped := errors.Join(errors.New("register"), err)

	require.ErrorIs(t, wrapped, ErrConflict)
	require.NotErrorIs(t, wrapped, ErrValidation)
	require.True(t, IsConflict(wrapped))
	require.Equal(t, 409, StatusCode(wrapped))
	require.Zero(t, StatusCode(errors.New("plain")))

	cause := errors.New("dial tcp: refused")
	netErr := &AuthError{Kind: KindNetwork, Err: cause}
	require.ErrorIs(t, netErr, ErrNetwork)
	require.ErrorIs(t, netErr, cause)
}

func TestAuthError_Message(t *testing.T) {
	err := &AuthError{
		Kind:    KindValidation,
		Status:  400,
		Message: "invalid form",
		Fields:  map[string]string{"password": "required", "email": "required"},
	}
	require.Equal(t, "validation (HTTP 400): invalid form [email: required; password: required]", err.Error())

	err = &AuthError{Kind: KindNetwork, Err: errors.New("refused")}
	require.Equal(t, "network: refused", err.Error())
}

func TestRequestValidate(t *testing.T) {
	require.NoError(t, LoginRequest{Email: "a@b.com", Password: "x"}.Validate())
	require.ErrorIs(t, LoginRequest{Email: "a@b.com"}.Validate(), ErrValidation)

	require.NoError(t, RegisterRequest{Email: "a@b.com", Password: "p", ConfirmPassword: "p"}.Validate())

	err := RegisterRequest{Email: "a@b.com", Password: "foo", ConfirmPassword: "bar"}.Validate()
	var ae *AuthError
	require.True(t, errors.As(err, &ae))
	require.Equal(t, KindValidation, ae.Kind)
	require.Zero(t, ae.Status)
	require.Equal(t, map[string]string{"passwordMatch": "passwords do not match"}, ae.Fields)

	err = RegisterRequest{}.Validate()
	require.True(t, errors.As(err, &ae))
	require.Len(t, ae.Fields, 3)
}
