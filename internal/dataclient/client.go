// Package dataclient talks to the hosted backend that owns all persistence
// and authentication for the platform. Tables are reached through a small
// query surface (single-column equality filter, single-column ordering) and
// sessions come from the backend's password sign-in.
package dataclient

import (
	"context"
	"time"
)

// User identifies the staff account behind a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the explicit credential passed to every data call. There is no
// ambient process-global token; callers own their session value so tests can
// inject fakes.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// Valid reports whether the session carries a usable, unexpired token.
func (s *Session) Valid() bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || time.Now().Before(s.ExpiresAt)
}

// Filter is a single-column equality match.
type Filter struct {
	Column string
	Value  string
}

// Query narrows and orders a Select. The zero value selects everything in
// storage order.
type Query struct {
	Eq         *Filter
	OrderBy    string
	Descending bool
}

// Client is the contract the hosted backend provides. Select returns the raw
// JSON row array; typed repositories decode it themselves. A nil session is
// an anonymous call carrying only the API key.
type Client interface {
	Select(ctx context.Context, sess *Session, table string, q Query) ([]byte, error)
	Insert(ctx context.Context, sess *Session, table string, record any) error
	Update(ctx context.Context, sess *Session, table string, id string, changes map[string]any) error
	Delete(ctx context.Context, sess *Session, table string, id string) error

	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, sess *Session) error
}
