package session

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Store validates, persists and clears session state. Every failure path in
// Initialize fails closed: the stored pair is wiped before the caller sees an
// unauthenticated session, so stale or corrupted credentials never survive a
// bootstrap.
type Store struct {
	storage  Storage
	verifier Verifier
	signOut  SignOuter
	log      *logrus.Logger
}

func NewStore(storage Storage, verifier Verifier, signOut SignOuter, log *logrus.Logger) *Store {
	return &Store{
		storage:  storage,
		verifier: verifier,
		signOut:  signOut,
		log:      log,
	}
}

// Initialize reads the persisted token and user snapshot and validates them.
// It returns an unauthenticated session (after a full clear) when the token
// is absent, a literal "undefined"/"null" placeholder, shorter than
// MinTokenLength, the snapshot is missing required identity fields, or remote
// verification rejects the token. Storage transport failures surface as
// ErrStorage.
func (s *Store) Initialize(ctx context.Context, sessionID string) (*Session, error) {
	token, rawUser, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, ErrStorage
	}

	if token == "" || len(rawUser) == 0 {
		return s.failClosed(ctx, sessionID, "no session data in storage")
	}

	if token == "undefined" || token == "null" || len(token) < MinTokenLength {
		return s.failClosed(ctx, sessionID, "invalid token format in storage")
	}

	var user User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		return s.failClosed(ctx, sessionID, "corrupted user snapshot in storage")
	}
	if !user.Valid() {
		return s.failClosed(ctx, sessionID, "user snapshot missing identity fields")
	}

	if err := s.verifier.VerifyToken(ctx, token); err != nil {
		s.log.Warnf("Token verification failed for session %s: %+v", sessionID, err)
		return s.failClosed(ctx, sessionID, "token verification failed")
	}

	return &Session{Token: token, User: &user, Authenticated: true}, nil
}

// Login persists the token and user snapshot together and returns the stored
// user. The role is taken verbatim from the given record.
func (s *Store) Login(ctx context.Context, sessionID, token string, user *User) (*User, error) {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Save(ctx, sessionID, token, rawUser); err != nil {
		return nil, ErrStorage
	}
	return user, nil
}

// Logout signs the session out at the identity provider and then performs the
// full local clear. The clear happens even when the remote sign-out fails;
// the sign-out error is still reported to the caller.
func (s *Store) Logout(ctx context.Context, sessionID, externalID string) error {
	var signOutErr error
	if s.signOut != nil && externalID != "" {
		signOutErr = s.signOut.SignOut(ctx, externalID)
		if signOutErr != nil {
			s.log.Warnf("Identity provider sign-out failed for session %s: %+v", sessionID, signOutErr)
		}
	}

	if err := s.storage.Clear(ctx, sessionID); err != nil {
		return ErrStorage
	}
	return signOutErr
}

// Clear wipes the persisted pair without contacting the identity provider.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.storage.Clear(ctx, sessionID); err != nil {
		return ErrStorage
	}
	return nil
}

func (s *Store) failClosed(ctx context.Context, sessionID, reason string) (*Session, error) {
	s.log.Warnf("Session %s failed bootstrap: %s", sessionID, reason)
	if err := s.storage.Clear(ctx, sessionID); err != nil {
		return nil, ErrStorage
	}
	return &Session{Authenticated: false}, nil
}
