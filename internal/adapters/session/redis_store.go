package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
	"github.com/klifeguard/emergency-finder/internal/domain/providers"
	redisclient "github.com/klifeguard/emergency-finder/internal/infrastructure/clients/redis"
)

const (
	sessionKeyPrefix = "session:"
	latestSessionKey = "session:latest"

	// Stale "en route" records are useless after a day.
	sessionTTL = 24 * time.Hour
)

// RedisStore keeps emergency sessions in Redis so they survive process
// restarts and can be shared by multiple server instances.
type RedisStore struct {
	client *redisclient.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redisclient.Client) providers.SessionStore {
	return &RedisStore{client: client}
}

// Create stores a new session and returns it.
func (s *RedisStore) Create(ctx context.Context, hospitalID, hospitalName string, etaMinutes int, lat, lon float64, symptoms string) (*entities.EmergencySession, error) {
	sess := &entities.EmergencySession{
		ID:            newSessionID(),
		HospitalID:    hospitalID,
		HospitalName:  hospitalName,
		ETAMinutes:    etaMinutes,
		ActivatedAt:   time.Now(),
		UserLatitude:  lat,
		UserLongitude: lon,
		Symptoms:      symptoms,
	}

	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.client.Client().Set(ctx, latestSessionKey, sess.ID, sessionTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to record latest session: %w", err)
	}
	return sess, nil
}

// Get returns the session with the id, or nil when unknown.
func (s *RedisStore) Get(ctx context.Context, id string) (*entities.EmergencySession, error) {
	data, err := s.client.Client().Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess entities.EmergencySession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Latest returns the most recently activated session, or nil when none exist.
func (s *RedisStore) Latest(ctx context.Context) (*entities.EmergencySession, error) {
	id, err := s.client.Client().Get(ctx, latestSessionKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest session id: %w", err)
	}
	return s.Get(ctx, id)
}

// GetOrLatest returns the session with the id, or the latest when id is empty.
func (s *RedisStore) GetOrLatest(ctx context.Context, id string) (*entities.EmergencySession, error) {
	if id != "" {
		return s.Get(ctx, id)
	}
	return s.Latest(ctx)
}

// MarkGuardiansNotified flips the notified flag on the session.
func (s *RedisStore) MarkGuardiansNotified(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("session not found: %s", id)
	}
	sess.GuardiansNotified = true
	return s.save(ctx, sess)
}

func (s *RedisStore) save(ctx context.Context, sess *entities.EmergencySession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Client().Set(ctx, sessionKeyPrefix+sess.ID, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}
