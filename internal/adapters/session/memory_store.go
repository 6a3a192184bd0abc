// Package session provides emergency session store implementations.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
	"github.com/klifeguard/emergency-finder/internal/domain/providers"
)

func newSessionID() string {
	return "ER-" + uuid.NewString()
}

// MemoryStore keeps emergency sessions in process memory. Sessions survive
// until restart; there is no eviction.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entities.EmergencySession
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() providers.SessionStore {
	return &MemoryStore{sessions: make(map[string]*entities.EmergencySession)}
}

// Create stores a new session and returns it.
func (s *MemoryStore) Create(_ context.Context, hospitalID, hospitalName string, etaMinutes int, lat, lon float64, symptoms string) (*entities.EmergencySession, error) {
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

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	copied := *sess
	return &copied, nil
}

// Get returns the session with the id, or nil when unknown.
func (s *MemoryStore) Get(_ context.Context, id string) (*entities.EmergencySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

// Latest returns the most recently activated session, or nil when none exist.
func (s *MemoryStore) Latest(_ context.Context) (*entities.EmergencySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *entities.EmergencySession
	for _, sess := range s.sessions {
		if latest == nil || sess.ActivatedAt.After(latest.ActivatedAt) {
			latest = sess
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

// GetOrLatest returns the session with the id, or the latest when id is empty.
func (s *MemoryStore) GetOrLatest(ctx context.Context, id string) (*entities.EmergencySession, error) {
	if id != "" {
		return s.Get(ctx, id)
	}
	return s.Latest(ctx)
}

// MarkGuardiansNotified flips the notified flag on the session.
func (s *MemoryStore) MarkGuardiansNotified(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("session not found: %s", id)
	}
	sess.GuardiansNotified = true
	return nil
}
