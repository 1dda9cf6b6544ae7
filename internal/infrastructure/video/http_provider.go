package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/medilink/telehealth-api/config"
)

type httpProvider struct {
	baseURL string
	appID   string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider returns a Provider backed by the conferencing service's
// token-issuing API.
func NewHTTPProvider(cfg config.VideoConfig) Provider {
	return &httpProvider{
		baseURL: cfg.BaseURL,
		appID:   cfg.AppID,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *httpProvider) RoomCredential(ctx context.Context, room, participantID string) (*Credential, error) {
	body, err := json.Marshal(map[string]string{
		"app_id":         p.appID,
		"room":           room,
		"participant_id": participantID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/rooms/token", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video provider returned status %d", resp.StatusCode)
	}

	var cred Credential
	if err := json.NewDecoder(resp.Body).Decode(&cred); err != nil {
		return nil, fmt.Errorf("failed to decode video credential: %w", err)
	}
	cred.AppID = p.appID
	return &cred, nil
}
