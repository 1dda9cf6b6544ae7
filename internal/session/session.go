// Package session owns the persisted authentication state for a client:
// the session token and the cached user snapshot. The two values are written
// and cleared together, so at any observation point a session is either fully
// authenticated or fully cleared, never half of each.
package session

import (
	"context"
	"errors"
)

// MinTokenLength guards against corrupted storage: anything shorter cannot be
// a real token and is treated as absent.
const MinTokenLength = 20

var (
	// ErrStorage indicates the durable store itself failed.
	ErrStorage = errors.New("session storage failure")
)

// User is the cached identity snapshot stored next to the token. Role comes
// verbatim from the server-side user record, never from client input.
type User struct {
	ID           string `json:"id"`
	Role         string `json:"role"`
	Email        string `json:"email,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// Valid reports whether the snapshot carries the required identity fields.
func (u *User) Valid() bool {
	return u != nil && u.ID != "" && u.Role != ""
}

// Session is the result of a bootstrap: either authenticated with a token and
// user, or unauthenticated with both empty.
type Session struct {
	Token         string
	User          *User
	Authenticated bool
}

// Storage persists the token/user pair. Save and Clear apply to both values
// atomically; Load returns empty values for keys that are absent.
type Storage interface {
	Load(ctx context.Context, sessionID string) (token string, user []byte, err error)
	Save(ctx context.Context, sessionID, token string, user []byte) error
	Clear(ctx context.Context, sessionID string) error
}

// Verifier performs the remote token check during bootstrap.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) error
}

// SignOuter revokes the session at the third-party identity provider.
type SignOuter interface {
	SignOut(ctx context.Context, externalID string) error
}
