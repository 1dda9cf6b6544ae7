// Package video talks to the video-conferencing provider. The core only
// decides whether a join is permitted and asks the provider for a room
// credential; media transport itself is entirely the provider's concern.
package video

import (
	"context"
	"time"
)

// Credential grants one participant entry to one room.
type Credential struct {
	Room      string    `json:"room"`
	Token     string    `json:"token"`
	AppID     string    `json:"app_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Provider issues room credentials.
type Provider interface {
	RoomCredential(ctx context.Context, room, participantID string) (*Credential, error)
}
