package auth

import (
	"errors"
	"fmt"
)

// DefaultTokenKey is the medium key the access token lives under.
const DefaultTokenKey = "access_token"

// ErrEmptyToken is returned by SetToken for an empty string.
var ErrEmptyToken = errors.New("empty access token")

// Medium is the key-value storage that keeps the token across restarts.
// store.DB and store.Memory implement it.
type Medium interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) error
}

// TokenHolder owns the single live copy of the access token.
type TokenHolder struct {
	medium Medium
	key    string
}

// NewTokenHolder creates a holder persisting under key (DefaultTokenKey when empty).
func NewTokenHolder(medium Medium, key string) *TokenHolder {
	if key == "" {
		key = DefaultTokenKey
	}
	return &TokenHolder{medium: medium, key: key}
}

// SetToken persists token, replacing the previous one.
func (h *TokenHolder) SetToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := h.medium.Put(h.key, token); err != nil {
		return fmt.Errorf("storing access token: %w", err)
	}
	return nil
}

// Token returns the persisted token. ok is false when none is set.
// A medium failure is returned as an error, never as an absent token.
func (h *TokenHolder) Token() (token string, ok bool, err error) {
	token, ok, err = h.medium.Get(h.key)
	if err != nil {
		return "", false, fmt.Errorf("loading access token: %w", err)
	}
	if !ok || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// ClearToken removes the persisted token.
func (h *TokenHolder) ClearToken() error {
	if err := h.medium.Delete(h.key); err != nil {
		return fmt.Errorf("clearing access token: %w", err)
	}
	return nil
}
