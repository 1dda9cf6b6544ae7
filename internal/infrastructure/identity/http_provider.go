package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/medilink/telehealth-api/config"
)

// ErrTokenRejected is returned when the provider refuses the ID token.
var ErrTokenRejected = errors.New("identity provider rejected token")

type httpProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider returns a Provider backed by the identity service's REST API.
func NewHTTPProvider(cfg config.IdentityConfig) Provider {
	return &httpProvider{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *httpProvider) VerifyIDToken(ctx context.Context, idToken string) (*UserInfo, error) {
	body, err := json.Marshal(map[string]string{"id_token": idToken})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/tokens/verify", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var info UserInfo
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return nil, fmt.Errorf("failed to decode identity response: %w", err)
		}
		if info.ExternalID == "" {
			return nil, fmt.Errorf("identity response missing uid")
		}
		return &info, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrTokenRejected
	default:
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}
}

func (p *httpProvider) SignOut(ctx context.Context, externalID string) error {
	body, err := json.Marshal(map[string]string{"uid": externalID})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/sessions/revoke", bytes.NewReader(body))
	if err != nil {
		return err
	}
	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *httpProvider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
}
