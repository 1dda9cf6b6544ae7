package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/medilink/telehealth-api/internal/session"
	"github.com/medilink/telehealth-api/pkg/jwt"
	"github.com/medilink/telehealth-api/pkg/response"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	RoleIDKey    contextKey = "role_id"
	RoleNameKey  contextKey = "role_name"
	TokenIDKey   contextKey = "token_id"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	registry   session.TokenRegistry
}

func NewAuthMiddleware(jwtService *jwt.JWTService, registry session.TokenRegistry) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		registry:   registry,
	}
}

// Authenticate gates protected routes. Decisions are made fresh on every
// request from the presented token and the live registry; nothing is cached
// across requests. Rejections carry the originally requested path so the
// client can return there after logging in.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.UnauthorizedWithRedirect(w, "Authorization header is required", r.URL.RequestURI())
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.UnauthorizedWithRedirect(w, "Invalid authorization header format", r.URL.RequestURI())
			return
		}

		tokenString := parts[1]

		// Validate JWT token
		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			response.UnauthorizedWithRedirect(w, "Invalid or expired token", r.URL.RequestURI())
			return
		}

		// Check if it's an access token
		if claims.TokenType != jwt.AccessToken {
			response.UnauthorizedWithRedirect(w, "Invalid token type", r.URL.RequestURI())
			return
		}

		// Check the token has not been revoked
		active, err := m.registry.IsActive(r.Context(), session.KindAccess, claims.UserID.String(), claims.TokenID)
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !active {
			response.UnauthorizedWithRedirect(w, "Token has been revoked", r.URL.RequestURI())
			return
		}

		// Add user info to context
		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
		ctx = context.WithValue(ctx, RoleIDKey, claims.RoleID)
		ctx = context.WithValue(ctx, RoleNameKey, claims.RoleName)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserEmailFromContext extracts user email from context
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetRoleIDFromContext extracts role ID from context
func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	roleID, ok := ctx.Value(RoleIDKey).(int)
	return roleID, ok
}

// GetRoleNameFromContext extracts role name from context
func GetRoleNameFromContext(ctx context.Context) (string, bool) {
	roleName, ok := ctx.Value(RoleNameKey).(string)
	return roleName, ok
}
