package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/Caven15/demo-flask-cicd-docker/internal/api"
)

const (
	defaultTimeout = 10 * time.Second
	loginBurst     = 3
)

// Options configures a Client.
type Options struct {
	// BaseURL is the root of the auth endpoints, e.g. http://host/api/auth.
	BaseURL string
	// Timeout bounds each request. Zero means 10s.
	Timeout time.Duration
	// Transport is the round tripper under the bearer decoration.
	// nil means http.DefaultTransport.
	Transport http.RoundTripper
	// LoginInterval spaces login requests after a small burst. Zero means
	// no throttling.
	LoginInterval time.Duration
}

// Client drives login, registration and logout and keeps the token holder
// and session store consistent with each other.
type Client struct {
	api     *api.Client
	http    *http.Client
	tokens  *TokenHolder
	session *SessionStore

	// mu makes token and user change together on login, logout and restore.
	mu      sync.Mutex
	flight  singleflight.Group
	limiter *rate.Limiter
	timeout time.Duration
	nowFunc func() time.Time

	callsMu sync.Mutex
	calls   map[string]*loginCall
}

// loginCall is the context an in-flight login runs under. It outlives the
// caller that started it and is cancelled once every waiting caller has
// given up.
type loginCall struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// NewClient wires the auth client over the given holder and store.
func NewClient(tokens *TokenHolder, session *SessionStore, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: &BearerTransport{Base: opts.Transport, Tokens: tokens},
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.LoginInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.LoginInterval), loginBurst)
	}
	return &Client{
		api:     api.NewClient(opts.BaseURL, httpClient),
		http:    httpClient,
		tokens:  tokens,
		session: session,
		limiter: limiter,
		timeout: timeout,
		nowFunc: time.Now,
		calls:   make(map[string]*loginCall),
	}
}

// HTTPClient returns the decorated client for any other request the
// application makes to the backend.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Session exposes the store for collaborators that observe it.
func (c *Client) Session() *SessionStore {
	return c.session
}

// Login authenticates and, on success, stores the token and the user
// together. On any failure neither is touched. Concurrent calls with the
// same credentials share a single request and result. A caller whose ctx
// ends stops waiting with a network error; the shared request keeps going
// for the callers still waiting and is cancelled when none are left.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := loginKey(req)
	call, ch := c.joinLogin(ctx, key, req)
	var res singleflight.Result
	select {
	case res = <-ch:
		c.leaveLogin(key, call)
	case <-ctx.Done():
		c.leaveLogin(key, call)
		err := &api.AuthError{Kind: api.KindNetwork, Err: fmt.Errorf("waiting for login: %w", ctx.Err())}
		log.Printf("login for %s abandoned: %v", req.Email, err)
		return nil, err
	}
	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		log.Printf("login failed for %s (status %d, request %s): %v", req.Email, api.StatusCode(err), api.RequestID(err), err)
		return nil, err
	}
	if shared {
		log.Printf("login for %s joined an in-flight request", req.Email)
	}

	out := *v.(*api.LoginResponse)
	log.Printf("logged in as %s (id %d, role %s)", out.User.Email, out.User.ID, out.User.Role)
	return &out, nil
}

// joinLogin registers the caller on the login for key, starting one if none
// is running. Registering and joining the flight happen under callsMu so a
// caller never attaches to a context whose flight has already finished.
func (c *Client) joinLogin(ctx context.Context, key string, req api.LoginRequest) (*loginCall, <-chan singleflight.Result) {
	c.callsMu.Lock()
	defer c.callsMu.Unlock()

	call, ok := c.calls[key]
	if !ok {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		call = &loginCall{ctx: shared, cancel: cancel}
		c.calls[key] = call
	}
	call.waiters++
	ch := c.flight.DoChan(key, func() (interface{}, error) {
		defer c.finishLogin(key, call)
		return c.login(call.ctx, req)
	})
	return call, ch
}

// leaveLogin drops a waiter. The last one to leave cancels the shared
// context; if the flight is still running it is forgotten so the next
// caller starts a fresh request instead of joining a cancelled one.
func (c *Client) leaveLogin(key string, call *loginCall) {
	c.callsMu.Lock()
	defer c.callsMu.Unlock()

	call.waiters--
	if call.waiters > 0 {
		return
	}
	call.cancel()
	if c.calls[key] == call {
		delete(c.calls, key)
		c.flight.Forget(key)
	}
}

func (c *Client) finishLogin(key string, call *loginCall) {
	c.callsMu.Lock()
	defer c.callsMu.Unlock()

	if c.calls[key] == call {
		delete(c.calls, key)
	}
	call.cancel()
}

func (c *Client) login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &api.AuthError{Kind: api.KindNetwork, Err: fmt.Errorf("waiting to log in: %w", err)}
	}
	resp, err := c.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.apply(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) apply(resp *api.LoginResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.tokens.SetToken(resp.AccessToken); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	user := resp.User
	c.session.SetUser(&user)
	return nil
}

// Register creates an account. It never logs the user in. A mismatched
// password confirmation is rejected before any request is sent.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.api.Register(ctx, req)
	if err != nil {
		if api.IsConflict(err) {
			log.Printf("register: account %s already exists", req.Email)
		} else {
			log.Printf("register failed for %s (status %d, request %s): %v", req.Email, api.StatusCode(err), api.RequestID(err), err)
		}
		return nil, err
	}
	log.Printf("registered %s", req.Email)
	return resp, nil
}

// Logout clears the session and the stored token. The in-memory session is
// always cleared; the error only reports a failure to erase the token.
func (c *Client) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.Clear()
	if err := c.tokens.ClearToken(); err != nil {
		log.Printf("logout: %v", err)
		return err
	}
	log.Printf("logged out")
	return nil
}

// Restore rebuilds the session user from a persisted token's claims.
// An expired or unreadable token is cleared. It reports whether a user
// was restored.
func (c *Client) Restore() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, ok, err := c.tokens.Token()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	claims, err := ParseClaims(token)
	if err == nil && claims.Expired(c.nowFunc()) {
		err = fmt.Errorf("token expired at %s", claims.ExpiresAt.Format(time.RFC3339))
	}
	if err != nil {
		log.Printf("restore: discarding stored token: %v", err)
		return false, c.tokens.ClearToken()
	}

	user := claims.User()
	c.session.SetUser(&user)
	log.Printf("restored session for %s", user.Email)
	return true, nil
}

// ExpireIfStale logs the user out once the stored token is past its exp
// claim. Tokens without a readable expiry are left alone. It reports
// whether a logout happened.
func (c *Client) ExpireIfStale() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.session.IsLoggedIn() {
		return false, nil
	}
	token, ok, err := c.tokens.Token()
	if err != nil || !ok {
		return false, err
	}
	claims, err := ParseClaims(token)
	if err != nil || !claims.Expired(c.nowFunc()) {
		return false, nil
	}

	c.session.Clear()
	log.Printf("session for %s expired at %s", claims.Email, claims.ExpiresAt.Format(time.RFC3339))
	return true, c.tokens.ClearToken()
}

// CurrentUser returns the logged-in user.
func (c *Client) CurrentUser() (api.User, bool) {
	return c.session.User()
}

// IsLoggedIn reports whether a user is logged in.
func (c *Client) IsLoggedIn() bool {
	return c.session.IsLoggedIn()
}

// loginKey identifies identical login attempts without keeping the
// password itself as a map key.
func loginKey(req api.LoginRequest) string {
	sum := sha256.Sum256([]byte(req.Email + "\x00" + req.Password))
	return hex.EncodeToString(sum[:])
}

// IsFormError reports whether err was raised by the client-side checks
// rather than by the backend.
func IsFormError(err error) bool {
	var ae *api.AuthError
	return errors.As(err, &ae) && ae.Kind == api.KindValidation && ae.Status == 0
}
