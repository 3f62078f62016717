package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Caven15/demo-flask-cicd-docker/internal/store"
)

// brokenMedium fails every operation, standing in for an unavailable disk.
type brokenMedium struct{ err error }

func (b brokenMedium) Get(string) (string, bool, error) { return "", false, b.err }
func (b brokenMedium) Put(string, string) error         { return b.err }
func (b brokenMedium) Delete(string) error              { return b.err }

// putFailsMedium reads and deletes fine but cannot write.
type putFailsMedium struct{ *store.Memory }

func (putFailsMedium) Put(string, string) error { return errors.New("disk full") }

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// newBackend serves the auth routes under /api/auth and returns a client
// pointed at it together with its holder and store.
func newBackend(t *testing.T, login, register http.HandlerFunc) (*Client, *TokenHolder, *SessionStore) {
	t.Helper()
	mux := http.NewServeMux()
	if login != nil {
		mux.HandleFunc("POST /api/auth/login", login)
	}
	if register != nil {
		mux.HandleFunc("POST /api/auth/register", register)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	tokens := NewTokenHolder(store.NewMemory(), "")
	session := NewSessionStore()
	c := NewClient(tokens, session, Options{BaseURL: srv.URL + "/api/auth"})
	return c, tokens, session
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

// newEchoServer records the Authorization header of each request into dst.
func newEchoServer(t *testing.T, dst *string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*dst = r.Header.Get("Authorization")
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}
