package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/klifeguard/emergency-finder/internal/application/services"
	apperrors "github.com/klifeguard/emergency-finder/pkg/errors"
)

// SearchEmergencyHandler runs the hospital recommendation pipeline.
func SearchEmergencyHandler(recommendations *services.RecommendationService) mcp.ToolHandlerFor[SearchEmergencyInput, *services.SearchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SearchEmergencyInput) (*mcp.CallToolResult, *services.SearchResult, error) {
		if input.Latitude == 0 && input.Longitude == 0 {
			return nil, nil, apperrors.NewValidationError("latitude and longitude are required")
		}
		if input.Symptoms == "" {
			return nil, nil, apperrors.NewValidationError("symptoms is required")
		}

		result := recommendations.Search(ctx, input.Latitude, input.Longitude, input.Symptoms, input.RadiusKm)
		return nil, result, nil
	}
}

// ActivateEmergencyHandler creates an emergency session.
func ActivateEmergencyHandler(sessions *services.SessionService) mcp.ToolHandlerFor[ActivateEmergencyInput, *services.ActivateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ActivateEmergencyInput) (*mcp.CallToolResult, *services.ActivateResult, error) {
		if input.HospitalID == "" || input.HospitalName == "" {
			return nil, nil, apperrors.NewValidationError("hospital_id and hospital_name are required")
		}

		notify := true
		if input.NotifyGuardians != nil {
			notify = *input.NotifyGuardians
		}

		result, err := sessions.Activate(ctx, input.HospitalID, input.HospitalName, input.ETAMinutes,
			input.UserLatitude, input.UserLongitude, input.Symptoms, notify)
		if err != nil {
			return nil, nil, apperrors.NewInternalError("failed to activate emergency session", err)
		}
		return nil, result, nil
	}
}

// GetStatusHandler reports the state of an emergency session.
func GetStatusHandler(sessions *services.SessionService) mcp.ToolHandlerFor[GetStatusInput, *services.StatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetStatusInput) (*mcp.CallToolResult, *services.StatusResult, error) {
		result, err := sessions.Status(ctx, input.SessionID)
		if err != nil {
			return nil, nil, apperrors.NewInternalError("failed to load session status", err)
		}
		return nil, result, nil
	}
}

// FindPharmacyHandler runs the pharmacy search.
func FindPharmacyHandler(pharmacies *services.PharmacyService) mcp.ToolHandlerFor[FindPharmacyInput, *services.PharmacySearchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FindPharmacyInput) (*mcp.CallToolResult, *services.PharmacySearchResult, error) {
		if input.Latitude == 0 && input.Longitude == 0 {
			return nil, nil, apperrors.NewValidationError("latitude and longitude are required")
		}

		result := pharmacies.Search(ctx, input.Latitude, input.Longitude, input.Filter, input.RadiusKm)
		return nil, result, nil
	}
}
