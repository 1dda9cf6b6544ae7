package service

import (
	"context"
	"errors"

	"github.com/medilink/telehealth-api/internal/session"
	"github.com/medilink/telehealth-api/pkg/jwt"
)

var errTokenNotActive = errors.New("token is not active")

// TokenVerifier checks a stored session token during bootstrap: the signature
// must validate, the token must be an access token, and it must still be live
// in the registry. A token that passed signature checks but was revoked is
// rejected the same as a forged one.
type TokenVerifier struct {
	jwtService *jwt.JWTService
	registry   session.TokenRegistry
}

func NewTokenVerifier(jwtService *jwt.JWTService, registry session.TokenRegistry) *TokenVerifier {
	return &TokenVerifier{
		jwtService: jwtService,
		registry:   registry,
	}
}

func (v *TokenVerifier) VerifyToken(ctx context.Context, token string) error {
	claims, err := v.jwtService.ValidateToken(token)
	if err != nil {
		return err
	}
	if claims.TokenType != jwt.AccessToken {
		return errTokenNotActive
	}

	active, err := v.registry.IsActive(ctx, session.KindAccess, claims.UserID.String(), claims.TokenID)
	if err != nil {
		return err
	}
	if !active {
		return errTokenNotActive
	}
	return nil
}
