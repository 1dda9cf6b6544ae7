package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/medilink/telehealth-api/internal/infrastructure/video"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// VideoRoomService hands out room credentials for appointments whose join
// window is open. Credentials are cached briefly in Redis so a client polling
// near the window boundary does not hammer the provider; the short TTL keeps
// the cached credential within the allowed staleness of the join decision.
type VideoRoomService struct {
	provider    video.Provider
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewVideoRoomService(provider video.Provider, redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *VideoRoomService {
	return &VideoRoomService{
		provider:    provider,
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

func credentialKey(appointmentID, participantID uuid.UUID) string {
	return fmt.Sprintf("video:credential:%s:%s", appointmentID, participantID)
}

// JoinCredential returns a room credential for the given appointment and
// participant, using one room per appointment.
func (s *VideoRoomService) JoinCredential(ctx context.Context, appointmentID, participantID uuid.UUID) (*video.Credential, error) {
	key := credentialKey(appointmentID, participantID)

	cached, err := s.redisClient.Get(ctx, key).Result()
	if err == nil {
		var cred video.Credential
		if err := json.Unmarshal([]byte(cached), &cred); err == nil {
			return &cred, nil
		}
		// Unreadable cache entry, fall through to the provider.
		s.redisClient.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warnf("Failed to read cached video credential (non-fatal): %+v", err)
	}

	room := fmt.Sprintf("appt-%s", appointmentID)
	cred, err := s.provider.RoomCredential(ctx, room, participantID.String())
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(cred)
	if err == nil {
		if err := s.redisClient.Set(ctx, key, raw, s.ttl).Err(); err != nil {
			s.log.Warnf("Failed to cache video credential (non-fatal): %+v", err)
		}
	}

	return cred, nil
}
