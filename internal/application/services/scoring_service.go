package services

import (
	"math"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
)

// Composite score weights. They must sum to 1.
const (
	weightBed       = 0.4
	weightDistance  = 0.3
	weightTraffic   = 0.2
	weightSpecialty = 0.1
)

// ScoringService computes the 0-100 composite score that ranks hospital
// recommendations. It is a pure function over already-fetched data.
type ScoringService struct{}

// NewScoringService creates a scoring service.
func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// Score computes the weighted composite score for a hospital.
//
//   - bedScore saturates at 10 available beds (emergency + operating +
//     general; ICU and neonatal counts are excluded from the sum).
//   - distanceScore hits zero at 20km.
//   - trafficScore defaults to 50 when no ETA is known and hits zero around
//     a 60 minute drive.
//   - specialtyScore is 50 by default and becomes 100 when the matched
//     symptom rule needs no equipment or the hospital has at least one
//     required item. A missing match never scores below the default.
//
// The total is rounded to one decimal; breakdown sub-scores round to whole
// integers independently, so they may not recombine to the exact total.
func (s *ScoringService) Score(h *entities.Hospital, etaMinutes *int, rule *SymptomRule) (float64, entities.ScoreBreakdown) {
	bedScore := math.Min(float64(h.BedStatus.AvailableBeds())*10, 100)
	distanceScore := math.Max(100-h.DistanceKm*5, 0)

	trafficScore := 50.0
	if etaMinutes != nil {
		trafficScore = math.Max(100-float64(*etaMinutes)*1.67, 0)
	}

	specialtyScore := 50.0
	if rule != nil {
		hasEquipment := len(rule.Equipment) == 0
		for _, code := range rule.Equipment {
			if h.BedStatus.EquipmentAvailable(code) {
				hasEquipment = true
				break
			}
		}
		if hasEquipment {
			specialtyScore = 100
		}
	}

	total := bedScore*weightBed + distanceScore*weightDistance +
		trafficScore*weightTraffic + specialtyScore*weightSpecialty

	breakdown := entities.ScoreBreakdown{
		BedScore:       int(math.Round(bedScore)),
		DistanceScore:  int(math.Round(distanceScore)),
		TrafficScore:   int(math.Round(trafficScore)),
		SpecialtyScore: int(math.Round(specialtyScore)),
	}
	return math.Round(total*10) / 10, breakdown
}
