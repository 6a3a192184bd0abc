package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
	"github.com/klifeguard/emergency-finder/internal/domain/providers"
	"github.com/klifeguard/emergency-finder/pkg/geo"
)

const (
	defaultPharmacyRadiusKm = 3
	maxPharmacyResults      = 10
)

// Pharmacy filter options.
const (
	PharmacyFilterAll     = "all"
	PharmacyFilterNight   = "night"
	PharmacyFilterHoliday = "holiday"
)

// Duty-hour column per weekday: 1-6 are Monday-Saturday, 7 Sunday. Column 8
// (public holidays) is only reachable through the holiday filter.
var dutyDayColumns = [7]int{
	time.Sunday:    7,
	time.Monday:    1,
	time.Tuesday:   2,
	time.Wednesday: 3,
	time.Thursday:  4,
	time.Friday:    5,
	time.Saturday:  6,
}

// PharmacyResult is one ranked pharmacy in a search response.
type PharmacyResult struct {
	Rank        int         `json:"rank"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Tel         string      `json:"tel"`
	DistanceKm  float64     `json:"distance_km"`
	TodayHours  TodayHours  `json:"today_hours"`
	Coordinates Coordinates `json:"coordinates"`
}

// TodayHours reports today's opening hours in HH:MM form.
type TodayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// PharmacySearchInfo echoes the pharmacy search parameters.
type PharmacySearchInfo struct {
	Location   Coordinates `json:"location"`
	Filter     string      `json:"filter"`
	RadiusKm   float64     `json:"radius_km"`
	TotalFound int         `json:"total_found"`
	Timestamp  string      `json:"timestamp"`
}

// PharmacySearchResult is the full response of a pharmacy search.
type PharmacySearchResult struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message,omitempty"`
	Suggestions []string            `json:"suggestions,omitempty"`
	SearchInfo  *PharmacySearchInfo `json:"search_info,omitempty"`
	Pharmacies  []PharmacyResult    `json:"pharmacies,omitempty"`
}

// PharmacyService finds nearby pharmacies with optional night and holiday
// operating-hour filters.
type PharmacyService struct {
	directory providers.DirectoryProvider
	now       func() time.Time
}

// NewPharmacyService creates a pharmacy search service.
func NewPharmacyService(directory providers.DirectoryProvider) *PharmacyService {
	return &PharmacyService{directory: directory, now: time.Now}
}

// Search finds pharmacies around the origin. filter is one of all, night or
// holiday; unknown values behave like all.
func (s *PharmacyService) Search(ctx context.Context, lat, lon float64, filter string, radiusKm float64) *PharmacySearchResult {
	if radiusKm <= 0 {
		radiusKm = defaultPharmacyRadiusKm
	}
	if filter == "" {
		filter = PharmacyFilterAll
	}

	pharmacies := s.directory.FindPharmacies(ctx, lat, lon, radiusKm)
	if len(pharmacies) == 0 {
		return &PharmacySearchResult{
			Success:     false,
			Message:     fmt.Sprintf("반경 %gkm 내 약국을 찾을 수 없습니다.", radiusKm),
			Suggestions: []string{"검색 반경을 늘려보세요."},
		}
	}

	today := dutyDayColumns[s.now().Weekday()]
	filtered := pharmacies
	switch filter {
	case PharmacyFilterNight:
		filtered = filterPharmacies(pharmacies, func(p *entities.Pharmacy) bool {
			_, close := p.HoursForDay(today)
			closeTime, err := strconv.Atoi(close)
			if err != nil {
				return false
			}
			// Open late: closes at 22:00 or later, or past midnight.
			return closeTime >= 2200 || closeTime <= 200
		})
	case PharmacyFilterHoliday:
		filtered = filterPharmacies(pharmacies, func(p *entities.Pharmacy) bool {
			sundayOpen, _ := p.HoursForDay(7)
			holidayOpen, _ := p.HoursForDay(8)
			return sundayOpen != "" || holidayOpen != ""
		})
	}

	top := filtered
	if len(top) > maxPharmacyResults {
		top = top[:maxPharmacyResults]
	}
	results := make([]PharmacyResult, len(top))
	for i, p := range top {
		open, close := p.HoursForDay(today)
		results[i] = PharmacyResult{
			Rank:       i + 1,
			Name:       p.Name,
			Address:    p.Address,
			Tel:        p.Tel,
			DistanceKm: geo.RoundTo(p.DistanceKm, 2),
			TodayHours: TodayHours{
				Open:  formatDutyTime(open),
				Close: formatDutyTime(close),
			},
			Coordinates: Coordinates{
				Latitude:  p.Location.Latitude,
				Longitude: p.Location.Longitude,
			},
		}
	}

	return &PharmacySearchResult{
		Success: true,
		SearchInfo: &PharmacySearchInfo{
			Location:   Coordinates{Latitude: lat, Longitude: lon},
			Filter:     filter,
			RadiusKm:   radiusKm,
			TotalFound: len(filtered),
			Timestamp:  s.now().UTC().Format(time.RFC3339),
		},
		Pharmacies: results,
	}
}

func filterPharmacies(pharmacies []*entities.Pharmacy, keep func(*entities.Pharmacy) bool) []*entities.Pharmacy {
	filtered := make([]*entities.Pharmacy, 0, len(pharmacies))
	for _, p := range pharmacies {
		if keep(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// formatDutyTime converts an upstream "HHMM" string to "HH:MM". Anything
// else passes through; empty means no published hours.
func formatDutyTime(t string) string {
	if t == "" {
		return "정보없음"
	}
	if len(t) == 4 {
		return t[:2] + ":" + t[2:]
	}
	return t
}
