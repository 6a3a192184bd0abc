package providers

import (
	"context"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
)

// DirectoryProvider defines the interface to the emergency-facility
// directory upstream. All methods fail soft: upstream or parse failures
// surface as empty results, never as errors to the caller.
type DirectoryProvider interface {
	// FindHospitals returns emergency hospitals within radiusKm of the
	// origin, nearest first.
	FindHospitals(ctx context.Context, lat, lon, radiusKm float64) []*entities.Hospital

	// FetchBedStatus returns real-time bed availability keyed by hospital
	// id. Ids that fail or return nothing are simply absent.
	FetchBedStatus(ctx context.Context, hospitalIDs []string) map[string]entities.BedStatus

	// FindPharmacies returns pharmacies within radiusKm of the origin,
	// nearest first.
	FindPharmacies(ctx context.Context, lat, lon, radiusKm float64) []*entities.Pharmacy
}
