package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/medilink/telehealth-api/config"
	"github.com/medilink/telehealth-api/internal/delivery/http/middleware"
	"github.com/medilink/telehealth-api/internal/domain/entity"
	"github.com/medilink/telehealth-api/internal/session"
	"github.com/medilink/telehealth-api/pkg/jwt"
	"github.com/medilink/telehealth-api/pkg/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRegistry struct {
	mu     sync.Mutex
	active map[string]bool
}

func newMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{active: make(map[string]bool)}
}

func (m *memoryRegistry) key(kind session.TokenKind, userID, tokenID string) string {
	return string(kind) + ":" + userID + ":" + tokenID
}

func (m *memoryRegistry) Store(_ context.Context, kind session.TokenKind, userID, tokenID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[m.key(kind, userID, tokenID)] = true
	return nil
}

func (m *memoryRegistry) IsActive(_ context.Context, kind session.TokenKind, userID, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[m.key(kind, userID, tokenID)], nil
}

func (m *memoryRegistry) Revoke(_ context.Context, kind session.TokenKind, userID, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, m.key(kind, userID, tokenID))
	return nil
}

func (m *memoryRegistry) RevokeAll(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = make(map[string]bool)
	return nil
}

func newJWTService() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func issueToken(t *testing.T, svc *jwt.JWTService, registry session.TokenRegistry, roleID int) (uuid.UUID, string) {
	t.Helper()
	userID := uuid.New()
	token, tokenID, err := svc.GenerateAccessToken(userID, "user@test.com", roleID, entity.RoleNameByID(roleID))
	require.NoError(t, err)
	require.NoError(t, registry.Store(context.Background(), session.KindAccess, userID.String(), tokenID, time.Minute))
	return userID, token
}

func TestAuthenticateMissingHeaderCarriesRedirect(t *testing.T) {
	m := middleware.NewAuthMiddleware(newJWTService(), newMemoryRegistry())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/api/v1/appointments", body.RedirectTo)
}

func TestAuthenticateRevokedToken(t *testing.T) {
	svc := newJWTService()
	registry := newMemoryRegistry()
	m := middleware.NewAuthMiddleware(svc, registry)

	userID, token := issueToken(t, svc, registry, entity.RoleIDPatient)
	require.NoError(t, registry.RevokeAll(context.Background(), userID.String()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateValidTokenPopulatesContext(t *testing.T) {
	svc := newJWTService()
	registry := newMemoryRegistry()
	m := middleware.NewAuthMiddleware(svc, registry)

	userID, token := issueToken(t, svc, registry, entity.RoleIDDoctor)

	var gotUser uuid.UUID
	var gotRole int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = middleware.GetUserIDFromContext(r.Context())
		gotRole, _ = middleware.GetRoleIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctor/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, entity.RoleIDDoctor, gotRole)
}

func TestRequireRoleRedirectsToSafeDefault(t *testing.T) {
	svc := newJWTService()
	registry := newMemoryRegistry()
	m := middleware.NewAuthMiddleware(svc, registry)

	_, token := issueToken(t, svc, registry, entity.RoleIDPatient)

	handler := m.Authenticate(middleware.RequireDoctor(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctor/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Wrong role is sent to the safe default view, not an error page.
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, middleware.SafeDefaultPath, rec.Header().Get("Location"))
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	svc := newJWTService()
	registry := newMemoryRegistry()
	m := middleware.NewAuthMiddleware(svc, registry)

	_, token := issueToken(t, svc, registry, entity.RoleIDDoctor)

	handler := m.Authenticate(middleware.RequireDoctor(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctor/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
