package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Caven15/demo-flask-cicd-docker/internal/api"
)

// ErrMalformedToken is returned when a token is not a JWT carrying the
// user claims the backend issues.
var ErrMalformedToken = errors.New("malformed access token")

// Claims is the user information the backend embeds in its access tokens.
type Claims struct {
	UserID    int
	Email     string
	Role      string
	ExpiresAt time.Time
}

// ParseClaims decodes the token payload without checking the signature.
// The client does not hold the signing key; the backend remains the only
// party that validates the token.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var c Claims
	switch sub := mc["sub"].(type) {
	case float64:
		c.UserID = int(sub)
	case string:
		id, err := strconv.Atoi(sub)
		if err != nil {
			return Claims{}, fmt.Errorf("%w: non-numeric sub %q", ErrMalformedToken, sub)
		}
		c.UserID = id
	default:
		return Claims{}, fmt.Errorf("%w: missing sub", ErrMalformedToken)
	}

	c.Email, _ = mc["email"].(string)
	if c.Email == "" {
		return Claims{}, fmt.Errorf("%w: missing email", ErrMalformedToken)
	}
	c.Role, _ = mc["role"].(string)

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// Expired reports whether the token is past its exp claim at now.
// Tokens without exp never expire on the client side.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// User returns the session user the claims describe.
func (c Claims) User() api.User {
	return api.User{ID: c.UserID, Email: c.Email, Role: c.Role}
}
