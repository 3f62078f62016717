package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Caven15/demo-flask-cicd-docker/internal/render"
)

const (
	DefaultBaseURL = "http://localhost:5000/api/auth"
	requestTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	maxMessageLen  = 200
)

// Client talks to the auth endpoints of the backend.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates an auth API client rooted at baseURL. A nil httpClient
// gets a plain client with the default timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the endpoint root the client posts to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login posts credentials to /login.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, endpointLogin, "/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &AuthError{Kind: KindServer, Status: http.StatusOK, Message: "response carried no access_token"}
	}
	return &resp, nil
}

// Register posts a new account to /register.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.post(ctx, endpointRegister, "/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// post sends body as JSON and decodes a 2xx answer into dst. Every failure
// comes back as *AuthError tagged with the request id.
func (c *Client) post(ctx context.Context, ep endpoint, path string, body, dst interface{}) error {
	reqID := uuid.NewString()
	err := c.do(ctx, ep, path, reqID, body, dst)
	if ae, ok := err.(*AuthError); ok {
		ae.RequestID = reqID
	}
	return err
}

func (c *Client) do(ctx context.Context, ep endpoint, path, reqID string, body, dst interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "authdemo/1.0")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return &AuthError{Kind: KindNetwork, Err: fmt.Errorf("posting %s: %w", url, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &AuthError{Kind: KindNetwork, Status: resp.StatusCode, Err: fmt.Errorf("reading response from %s: %w", url, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(ep, resp.StatusCode, resp.Header.Get("Content-Type"), raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &AuthError{Kind: KindServer, Status: resp.StatusCode, Err: fmt.Errorf("decoding response from %s: %w", url, err)}
	}
	return nil
}

func decodeError(ep endpoint, status int, contentType string, raw []byte) *AuthError {
	var body errorBody
	jsonErr := json.Unmarshal(raw, &body)

	ae := &AuthError{
		Kind:   classify(ep, status, body),
		Status: status,
	}
	switch {
	case jsonErr == nil:
		ae.Message = body.Error
		if len(body.Errors) > 0 {
			ae.Fields = body.Errors
		}
	case strings.Contains(contentType, "html"):
		ae.Message = truncate(render.HTMLToText(string(raw)), maxMessageLen)
	default:
		ae.Message = truncate(strings.TrimSpace(string(raw)), maxMessageLen)
	}
	if ae.Message == "" {
		ae.Message = http.StatusText(status)
	}
	return ae
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
