package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
	"github.com/klifeguard/emergency-finder/internal/domain/providers"
	"github.com/klifeguard/emergency-finder/internal/infrastructure/observability"
	"github.com/klifeguard/emergency-finder/pkg/geo"
)

const (
	defaultSearchRadiusKm = 10
	maxRecommendations    = 5
)

// HospitalRecommendation is one ranked entry in a search result. The field
// layout is part of the tool contract and must stay stable.
type HospitalRecommendation struct {
	Rank           int                     `json:"rank"`
	HospitalID     string                  `json:"hospital_id"`
	Name           string                  `json:"name"`
	Address        string                  `json:"address"`
	EmergencyTel   string                  `json:"emergency_tel"`
	DistanceKm     float64                 `json:"distance_km"`
	ETAMinutes     *int                    `json:"eta_minutes"`
	AvailableBeds  BedBreakdown            `json:"available_beds"`
	Equipment      EquipmentFlags          `json:"equipment"`
	Score          float64                 `json:"score"`
	ScoreBreakdown entities.ScoreBreakdown `json:"score_breakdown"`
	Coordinates    Coordinates             `json:"coordinates"`
}

// BedBreakdown reports per-category bed availability plus the scored total.
type BedBreakdown struct {
	Emergency int `json:"emergency"`
	Operation int `json:"operation"`
	General   int `json:"general"`
	Total     int `json:"total"`
}

// EquipmentFlags reports equipment availability as booleans derived from the
// upstream Y/N flags.
type EquipmentFlags struct {
	CT         bool `json:"ct"`
	MRI        bool `json:"mri"`
	Angio      bool `json:"angio"`
	Ventilator bool `json:"ventilator"`
}

// Coordinates is a latitude/longitude pair in tool output.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AnalyzedSymptoms summarizes the symptom classification behind a search.
type AnalyzedSymptoms struct {
	MatchedKeywords        []string `json:"matched_keywords"`
	RecommendedDepartments []string `json:"recommended_departments"`
	RequiredEquipment      []string `json:"required_equipment"`
}

// SearchInfo echoes the search parameters and classification summary.
type SearchInfo struct {
	Location         Coordinates       `json:"location"`
	Symptoms         string            `json:"symptoms"`
	RadiusKm         float64           `json:"radius_km"`
	AnalyzedSymptoms *AnalyzedSymptoms `json:"analyzed_symptoms"`
	TotalFound       int               `json:"total_found"`
	Timestamp        string            `json:"timestamp"`
}

// ScoringExplanation documents the fixed composite formula for the caller.
type ScoringExplanation struct {
	Formula string         `json:"formula"`
	Weights ScoringWeights `json:"weights"`
}

// ScoringWeights lists the formula weights as display percentages.
type ScoringWeights struct {
	BedAvailability string `json:"bed_availability"`
	Distance        string `json:"distance"`
	TrafficETA      string `json:"traffic_eta"`
	SpecialtyMatch  string `json:"specialty_match"`
}

// SearchResult is the full response of an emergency search. A search with no
// candidates sets Success false and carries only Message and Suggestions.
type SearchResult struct {
	Success            bool                     `json:"success"`
	Message            string                   `json:"message,omitempty"`
	Suggestions        []string                 `json:"suggestions,omitempty"`
	SearchInfo         *SearchInfo              `json:"search_info,omitempty"`
	Recommendations    []HospitalRecommendation `json:"recommendations,omitempty"`
	ScoringExplanation *ScoringExplanation      `json:"scoring_explanation,omitempty"`
}

// RecommendationService runs the end-to-end hospital search: directory
// lookup, bed-status merge, ETA enrichment, symptom classification, scoring
// and ranking.
type RecommendationService struct {
	directory providers.DirectoryProvider
	routes    providers.RouteProvider
	symptoms  *SymptomService
	scoring   *ScoringService
	metrics   *observability.Metrics
}

// NewRecommendationService creates the search orchestrator.
func NewRecommendationService(
	directory providers.DirectoryProvider,
	routes providers.RouteProvider,
	symptoms *SymptomService,
	scoring *ScoringService,
	metrics *observability.Metrics,
) *RecommendationService {
	return &RecommendationService{
		directory: directory,
		routes:    routes,
		symptoms:  symptoms,
		scoring:   scoring,
		metrics:   metrics,
	}
}

// Search runs the recommendation pipeline. Upstream failures degrade to
// partial data; the only negative outcome is an empty candidate set.
func (s *RecommendationService) Search(ctx context.Context, lat, lon float64, symptoms string, radiusKm float64) *SearchResult {
	ctx, span := observability.StartSpan(ctx, "RecommendationService.Search")
	defer span.End()

	if radiusKm <= 0 {
		radiusKm = defaultSearchRadiusKm
	}

	hospitals := s.directory.FindHospitals(ctx, lat, lon, radiusKm)
	if len(hospitals) == 0 {
		if s.metrics != nil {
			s.metrics.RecordSearch(ctx, false)
		}
		return &SearchResult{
			Success: false,
			Message: fmt.Sprintf("반경 %gkm 내 응급의료기관을 찾을 수 없습니다.", radiusKm),
			Suggestions: []string{
				"검색 반경을 늘려보세요.",
				"다른 위치에서 다시 검색해보세요.",
			},
		}
	}

	ids := make([]string, len(hospitals))
	for i, h := range hospitals {
		ids[i] = h.ID
	}
	bedStatuses := s.directory.FetchBedStatus(ctx, ids)
	for _, h := range hospitals {
		if status, ok := bedStatuses[h.ID]; ok {
			h.BedStatus = status
		}
	}

	s.routes.AnnotateETAs(ctx, lat, lon, hospitals)

	rule := s.symptoms.Classify(symptoms)

	for _, h := range hospitals {
		score, breakdown := s.scoring.Score(h, h.ETAMinutes, rule)
		h.Score = score
		h.Breakdown = &breakdown
	}

	// Stable sort keeps the ascending-distance order for ties.
	sort.SliceStable(hospitals, func(i, j int) bool {
		return hospitals[i].Score > hospitals[j].Score
	})

	top := hospitals
	if len(top) > maxRecommendations {
		top = top[:maxRecommendations]
	}
	recommendations := make([]HospitalRecommendation, len(top))
	for i, h := range top {
		recommendations[i] = toRecommendation(h, i+1)
	}

	var analyzed *AnalyzedSymptoms
	if rule != nil {
		analyzed = &AnalyzedSymptoms{
			MatchedKeywords:        rule.MatchedKeywords(symptoms),
			RecommendedDepartments: rule.Departments,
			RequiredEquipment:      rule.EquipmentNames(),
		}
	}

	if s.metrics != nil {
		s.metrics.RecordSearch(ctx, true)
	}
	return &SearchResult{
		Success: true,
		SearchInfo: &SearchInfo{
			Location:         Coordinates{Latitude: lat, Longitude: lon},
			Symptoms:         symptoms,
			RadiusKm:         radiusKm,
			AnalyzedSymptoms: analyzed,
			TotalFound:       len(hospitals),
			Timestamp:        time.Now().UTC().Format(time.RFC3339),
		},
		Recommendations: recommendations,
		ScoringExplanation: &ScoringExplanation{
			Formula: "(병상×0.4) + (거리×0.3) + (교통×0.2) + (전문성×0.1)",
			Weights: ScoringWeights{
				BedAvailability: "40%",
				Distance:        "30%",
				TrafficETA:      "20%",
				SpecialtyMatch:  "10%",
			},
		},
	}
}

func toRecommendation(h *entities.Hospital, rank int) HospitalRecommendation {
	tel := h.Tel
	if h.EmergencyTel != "" {
		tel = h.EmergencyTel
	}

	return HospitalRecommendation{
		Rank:         rank,
		HospitalID:   h.ID,
		Name:         h.Name,
		Address:      h.Address,
		EmergencyTel: tel,
		DistanceKm:   geo.RoundTo(h.DistanceKm, 1),
		ETAMinutes:   h.ETAMinutes,
		AvailableBeds: BedBreakdown{
			Emergency: h.BedStatus.EmergencyBeds,
			Operation: h.BedStatus.OperatingBeds,
			General:   h.BedStatus.GeneralBeds,
			Total:     h.BedStatus.AvailableBeds(),
		},
		// Displayed availability requires an exact "Y"; the scoring match is
		// slightly looser and also takes "y".
		Equipment: EquipmentFlags{
			CT:         h.BedStatus.CT == "Y",
			MRI:        h.BedStatus.MRI == "Y",
			Angio:      h.BedStatus.Angio == "Y",
			Ventilator: h.BedStatus.Ventilator == "Y",
		},
		Score:          h.Score,
		ScoreBreakdown: *h.Breakdown,
		Coordinates: Coordinates{
			Latitude:  h.Location.Latitude,
			Longitude: h.Location.Longitude,
		},
	}
}
