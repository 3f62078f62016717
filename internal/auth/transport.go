package auth

import (
	"fmt"
	"net/http"
)

// Decorate returns req with the stored access token attached as a bearer
// credential. The input request is never modified: with a token present a
// clone is returned, without one req itself is returned.
func Decorate(req *http.Request, tokens *TokenHolder) (*http.Request, error) {
	token, ok, err := tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("decorating %s %s: %w", req.Method, req.URL, err)
	}
	if !ok {
		return req, nil
	}
	out := req.Clone(req.Context())
	out.Header.Set("Authorization", "Bearer "+token)
	return out, nil
}

// BearerTransport is an http.RoundTripper that runs every request through
// Decorate before handing it to Base.
type BearerTransport struct {
	Base   http.RoundTripper
	Tokens *TokenHolder
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out, err := Decorate(req, t.Tokens)
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, err
	}
	return t.base().RoundTrip(out)
}

func (t *BearerTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
