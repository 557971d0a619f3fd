// Package auth supplies the bearer credential for the room broker.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabrielcapilla/roomsync/internal/ports"
	"github.com/gabrielcapilla/roomsync/internal/services/storage"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoToken = errors.New("no credential token stored")

// StoredTokenSource reads the token persisted under key on every call.
type StoredTokenSource struct {
	store ports.CredentialStore
	key   string
}

func NewStoredTokenSource(store ports.CredentialStore, key string) *StoredTokenSource {
	return &StoredTokenSource{store: store, key: key}
}

func (s *StoredTokenSource) Token() (string, error) {
	raw, err := s.store.LoadToken(s.key)
	if errors.Is(err, storage.ErrTokenNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	token := normalize(raw)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Save replaces the stored token. The next Token call returns it.
func (s *StoredTokenSource) Save(token string) error {
	token = normalize(token)
	if token == "" {
		return ErrNoToken
	}
	return s.store.SaveToken(s.key, token)
}

// normalize accepts tokens saved as JSON strings (as browsers keep them in
// local storage) and an optional "Bearer " prefix.
func normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, `"`) {
		var unquoted string
		if err := json.Unmarshal([]byte(raw), &unquoted); err == nil {
			raw = unquoted
		}
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token() (string, error) {
	if t == "" {
		return "", ErrNoToken
	}
	return string(t), nil
}

// ExpiresAt reads the exp claim of a JWT without verifying its signature;
// the broker does the verification. ok is false for opaque tokens or tokens
// without exp.
func ExpiresAt(token string) (exp time.Time, ok bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether token carries an exp claim earlier than now+leeway.
func Expired(token string, now time.Time, leeway time.Duration) bool {
	exp, ok := ExpiresAt(token)
	return ok && exp.Before(now.Add(leeway))
}
