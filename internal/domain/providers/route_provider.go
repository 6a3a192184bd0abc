package providers

import (
	"context"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
)

// RouteProvider defines the interface to the navigation upstream.
type RouteProvider interface {
	// FetchETA returns the driving time in whole minutes from origin to
	// destination, or nil when no credential is configured, the upstream
	// fails, or the response carries no route.
	FetchETA(ctx context.Context, originLat, originLon, destLat, destLon float64) *int

	// AnnotateETAs sets the ETA field on the nearest hospitals in place.
	// Lookups run concurrently and a single failure leaves only that
	// hospital without an ETA.
	AnnotateETAs(ctx context.Context, originLat, originLon float64, hospitals []*entities.Hospital)

	// DeepLink builds a navigation app link from the user's position,
	// optionally with a named destination.
	DeepLink(userLat, userLon float64, dest *entities.Location, destName string) string
}
