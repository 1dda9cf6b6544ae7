// Package identity talks to the third-party identity provider. The provider
// is a black box: it verifies ID tokens it issued and revokes its own
// sessions. The role and profile fields it returns are server truth and
// override anything a client claims.
package identity

import "context"

// UserInfo is the provider's view of an authenticated user.
type UserInfo struct {
	ExternalID   string `json:"uid"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	Role         string `json:"role"`
	ProfileImage string `json:"profile_image"`
}

// Provider verifies external ID tokens and revokes provider sessions.
type Provider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*UserInfo, error)
	SignOut(ctx context.Context, externalID string) error
}
