package providers

import (
	"context"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
)

// SessionStore defines the interface for emergency session storage. Sessions
// are created on activation and mutated only to flip the guardian-notified
// flag; there is no explicit destroy.
type SessionStore interface {
	// Create stores a new session and returns it with its generated id.
	Create(ctx context.Context, hospitalID, hospitalName string, etaMinutes int, lat, lon float64, symptoms string) (*entities.EmergencySession, error)

	// Get returns the session with the id, or nil when unknown.
	Get(ctx context.Context, id string) (*entities.EmergencySession, error)

	// Latest returns the most recently activated session, or nil when none
	// exist.
	Latest(ctx context.Context) (*entities.EmergencySession, error)

	// GetOrLatest returns the session with the id, or the latest session
	// when id is empty.
	GetOrLatest(ctx context.Context, id string) (*entities.EmergencySession, error)

	// MarkGuardiansNotified flips the notified flag on the session.
	MarkGuardiansNotified(ctx context.Context, id string) error
}
