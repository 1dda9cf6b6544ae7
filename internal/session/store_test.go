package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	mu    sync.Mutex
	token map[string]string
	user  map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{
		token: make(map[string]string),
		user:  make(map[string][]byte),
	}
}

func (m *memoryStorage) Load(_ context.Context, sid string) (string, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token[sid], m.user[sid], nil
}

func (m *memoryStorage) Save(_ context.Context, sid, token string, user []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token[sid] = token
	m.user[sid] = user
	return nil
}

func (m *memoryStorage) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.token, sid)
	delete(m.user, sid)
	return nil
}

func (m *memoryStorage) empty(sid string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, hasToken := m.token[sid]
	_, hasUser := m.user[sid]
	return !hasToken && !hasUser
}

type verifierFunc func(ctx context.Context, token string) error

func (f verifierFunc) VerifyToken(ctx context.Context, token string) error {
	return f(ctx, token)
}

type signOutRecorder struct {
	called bool
	err    error
}

func (s *signOutRecorder) SignOut(context.Context, string) error {
	s.called = true
	return s.err
}

func acceptAll() Verifier {
	return verifierFunc(func(context.Context, string) error { return nil })
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestInitializeNoData(t *testing.T) {
	storage := newMemoryStorage()
	store := NewStore(storage, acceptAll(), nil, quietLogger())

	sess, err := store.Initialize(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, sess.Authenticated)
	assert.Nil(t, sess.User)
}

func TestInitializeShortToken(t *testing.T) {
	storage := newMemoryStorage()
	storage.Save(context.Background(), "s1", "abcde",
		mustJSON(t, &User{ID: "u1", Role: "patient"}))
	store := NewStore(storage, acceptAll(), nil, quietLogger())

	sess, err := store.Initialize(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, sess.Authenticated)
	assert.True(t, storage.empty("s1"), "failed bootstrap must clear storage")
}

func TestInitializePlaceholderTokens(t *testing.T) {
	for _, token := range []string{"undefined", "null"} {
		storage := newMemoryStorage()
		storage.Save(context.Background(), "s1", token,
			mustJSON(t, &User{ID: "u1", Role: "patient"}))
		store := NewStore(storage, acceptAll(), nil, quietLogger())

		sess, err := store.Initialize(context.Background(), "s1")
		require.NoError(t, err)
		assert.False(t, sess.Authenticated, "token %q", token)
		assert.True(t, storage.empty("s1"))
	}
}

func TestInitializeMissingIdentityFields(t *testing.T) {
	for name, user := range map[string]*User{
		"no id":   {Role: "patient"},
		"no role": {ID: "u1"},
	} {
		storage := newMemoryStorage()
		storage.Save(context.Background(), "s1", "validtoken1234567890", mustJSON(t, user))
		store := NewStore(storage, acceptAll(), nil, quietLogger())

		sess, err := store.Initialize(context.Background(), "s1")
		require.NoError(t, err)
		assert.False(t, sess.Authenticated, name)
		assert.True(t, storage.empty("s1"), name)
	}
}

func TestInitializeVerificationFailureClears(t *testing.T) {
	storage := newMemoryStorage()
	storage.Save(context.Background(), "s1", "validtoken1234567890",
		mustJSON(t, &User{ID: "u1", Role: "doctor"}))
	reject := verifierFunc(func(context.Context, string) error {
		return errors.New("token expired")
	})
	store := NewStore(storage, reject, nil, quietLogger())

	sess, err := store.Initialize(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, sess.Authenticated)
	assert.True(t, storage.empty("s1"))
}

func TestLoginThenInitialize(t *testing.T) {
	storage := newMemoryStorage()
	store := NewStore(storage, acceptAll(), nil, quietLogger())

	stored, err := store.Login(context.Background(), "s1", "validtoken1234567890",
		&User{ID: "u1", Role: "doctor"})
	require.NoError(t, err)
	assert.Equal(t, "doctor", stored.Role)

	// Simulated reload: a fresh bootstrap sees the persisted state.
	sess, err := store.Initialize(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	require.NotNil(t, sess.User)
	assert.Equal(t, "u1", sess.User.ID)
	assert.Equal(t, "doctor", sess.User.Role)
	assert.Equal(t, "validtoken1234567890", sess.Token)
}

func TestLogoutClearsEvenWhenSignOutFails(t *testing.T) {
	storage := newMemoryStorage()
	signOut := &signOutRecorder{err: errors.New("provider unreachable")}
	store := NewStore(storage, acceptAll(), signOut, quietLogger())

	_, err := store.Login(context.Background(), "s1", "validtoken1234567890",
		&User{ID: "u1", Role: "patient"})
	require.NoError(t, err)

	err = store.Logout(context.Background(), "s1", "ext-1")
	assert.Error(t, err, "sign-out failure is reported upward")
	assert.True(t, signOut.called)
	assert.True(t, storage.empty("s1"), "clear happens regardless of sign-out result")
}
