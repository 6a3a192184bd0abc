package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/klifeguard/emergency-finder/internal/application/services"
	"github.com/klifeguard/emergency-finder/internal/domain/entities"
)

// Fakes

type fakeDirectory struct {
	hospitals   []*entities.Hospital
	bedStatuses map[string]entities.BedStatus
	pharmacies  []*entities.Pharmacy

	lastRadiusKm float64
	bedStatusIDs []string
}

func (f *fakeDirectory) FindHospitals(_ context.Context, _, _, radiusKm float64) []*entities.Hospital {
	f.lastRadiusKm = radiusKm
	return f.hospitals
}

func (f *fakeDirectory) FetchBedStatus(_ context.Context, hospitalIDs []string) map[string]entities.BedStatus {
	f.bedStatusIDs = hospitalIDs
	return f.bedStatuses
}

func (f *fakeDirectory) FindPharmacies(_ context.Context, _, _, radiusKm float64) []*entities.Pharmacy {
	f.lastRadiusKm = radiusKm
	return f.pharmacies
}

type fakeRoutes struct {
	etas map[string]int
}

func (f *fakeRoutes) FetchETA(_ context.Context, _, _, _, _ float64) *int {
	return nil
}

func (f *fakeRoutes) AnnotateETAs(_ context.Context, _, _ float64, hospitals []*entities.Hospital) {
	for _, h := range hospitals {
		if eta, ok := f.etas[h.ID]; ok {
			v := eta
			h.ETAMinutes = &v
		}
	}
}

func (f *fakeRoutes) DeepLink(userLat, userLon float64, _ *entities.Location, _ string) string {
	return fmt.Sprintf("kakaomap://route?sp=%f,%f&by=CAR", userLat, userLon)
}

func newRecommendationService(dir *fakeDirectory, routes *fakeRoutes) *services.RecommendationService {
	return services.NewRecommendationService(dir, routes,
		services.NewSymptomService(), services.NewScoringService(), nil)
}

func hospital(id string, distanceKm float64) *entities.Hospital {
	return &entities.Hospital{
		ID:         id,
		Name:       "병원 " + id,
		Address:    "서울특별시 중구",
		Tel:        "02-0000-0000",
		DistanceKm: distanceKm,
		Location:   entities.Location{Latitude: 37.56, Longitude: 126.97},
	}
}

func TestSearch_NoHospitalsFound(t *testing.T) {
	dir := &fakeDirectory{}
	svc := newRecommendationService(dir, &fakeRoutes{})

	result := svc.Search(context.Background(), 37.5665, 126.978, "가슴통증", 5)

	assert.False(t, result.Success)
	assert.Equal(t, "반경 5km 내 응급의료기관을 찾을 수 없습니다.", result.Message)
	assert.Len(t, result.Suggestions, 2)
	assert.Empty(t, result.Recommendations)
	assert.Nil(t, result.SearchInfo)
}

func TestSearch_DefaultRadius(t *testing.T) {
	dir := &fakeDirectory{hospitals: []*entities.Hospital{hospital("A1100001", 1)}}
	svc := newRecommendationService(dir, &fakeRoutes{})

	result := svc.Search(context.Background(), 37.5665, 126.978, "복통", 0)

	assert.Equal(t, 10.0, dir.lastRadiusKm)
	assert.Equal(t, 10.0, result.SearchInfo.RadiusKm)
}

func TestSearch_RanksByScore(t *testing.T) {
	// far has far more beds than near; bed weight dominates.
	near := hospital("A1100001", 1)
	far := hospital("A1100002", 3)
	dir := &fakeDirectory{
		hospitals: []*entities.Hospital{near, far},
		bedStatuses: map[string]entities.BedStatus{
			"A1100001": {EmergencyBeds: 1},
			"A1100002": {EmergencyBeds: 10, CT: "Y"},
		},
	}
	svc := newRecommendationService(dir, &fakeRoutes{etas: map[string]int{"A1100001": 5, "A1100002": 8}})

	result := svc.Search(context.Background(), 37.5665, 126.978, "복통", 10)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"A1100001", "A1100002"}, dir.bedStatusIDs)
	assert.Len(t, result.Recommendations, 2)
	assert.Equal(t, "A1100002", result.Recommendations[0].HospitalID)
	assert.Equal(t, 1, result.Recommendations[0].Rank)
	assert.Equal(t, "A1100001", result.Recommendations[1].HospitalID)
	assert.Equal(t, 2, result.Recommendations[1].Rank)

	top := result.Recommendations[0]
	assert.Equal(t, 10, top.AvailableBeds.Total)
	assert.True(t, top.Equipment.CT)
	assert.False(t, top.Equipment.MRI)
	assert.NotNil(t, top.ETAMinutes)
	assert.Equal(t, 8, *top.ETAMinutes)
}

func TestSearch_ScoresCombineAllFactors(t *testing.T) {
	// X: 0 beds, 1km, ETA 5, no equipment -> 0*0.4 + 95*0.3 + 91.65*0.2 + 50*0.1 = 51.8
	// Y: 15 beds, 19km, ETA 30, angio available -> 100*0.4 + 5*0.3 + 49.9*0.2 + 100*0.1 = 61.5
	x := hospital("A1100001", 1)
	y := hospital("A1100002", 19)
	dir := &fakeDirectory{
		hospitals: []*entities.Hospital{x, y},
		bedStatuses: map[string]entities.BedStatus{
			"A1100002": {EmergencyBeds: 15, Angio: "Y"},
		},
	}
	svc := newRecommendationService(dir, &fakeRoutes{etas: map[string]int{"A1100001": 5, "A1100002": 30}})

	result := svc.Search(context.Background(), 37.5665, 126.978, "가슴통증", 20)

	assert.Equal(t, "A1100002", result.Recommendations[0].HospitalID)
	assert.Equal(t, 61.5, result.Recommendations[0].Score)
	assert.Equal(t, "A1100001", result.Recommendations[1].HospitalID)
	assert.Equal(t, 51.8, result.Recommendations[1].Score)

	breakdown := result.Recommendations[0].ScoreBreakdown
	assert.Equal(t, 100, breakdown.BedScore)
	assert.Equal(t, 5, breakdown.DistanceScore)
	assert.Equal(t, 50, breakdown.TrafficScore)
	assert.Equal(t, 100, breakdown.SpecialtyScore)
}

func TestSearch_TiesKeepDistanceOrder(t *testing.T) {
	// Identical inputs score identically; the nearest-first input order
	// must survive the sort.
	a := hospital("A1100001", 2)
	b := hospital("A1100002", 2)
	dir := &fakeDirectory{hospitals: []*entities.Hospital{a, b}}
	svc := newRecommendationService(dir, &fakeRoutes{})

	result := svc.Search(context.Background(), 37.5665, 126.978, "복통", 10)

	assert.Equal(t, "A1100001", result.Recommendations[0].HospitalID)
	assert.Equal(t, "A1100002", result.Recommendations[1].HospitalID)
	assert.Equal(t, result.Recommendations[0].Score, result.Recommendations[1].Score)
}

func TestSearch_TruncatesToTopFive(t *testing.T) {
	hospitals := make([]*entities.Hospital, 7)
	for i := range hospitals {
		hospitals[i] = hospital(fmt.Sprintf("A11%05d", i), float64(i))
	}
	dir := &fakeDirectory{hospitals: hospitals}
	svc := newRecommendationService(dir, &fakeRoutes{})

	result := svc.Search(context.Background(), 37.5665, 126.978, "복통", 10)

	assert.Len(t, result.Recommendations, 5)
	assert.Equal(t, 7, result.SearchInfo.TotalFound)
	for i, rec := range result.Recommendations {
		assert.Equal(t, i+1, rec.Rank)
	}
}

func TestSearch_AnalyzedSymptoms(t *testing.T) {
	dir := &fakeDirectory{hospitals: []*entities.Hospital{hospital("A1100001", 1)}}
	svc := newRecommendationService(dir, &fakeRoutes{})

	result := svc.Search(context.Background(), 37.5665, 126.978, "가슴통증", 10)

	analyzed := result.SearchInfo.AnalyzedSymptoms
	assert.NotNil(t, analyzed)
	assert.Contains(t, analyzed.MatchedKeywords, "가슴통증")
	assert.Contains(t, analyzed.RecommendedDepartments, "심장내과")
	assert.Equal(t, []string{"심혈관조영실"}, analyzed.RequiredEquipment)

	assert.NotNil(t, result.ScoringExplanation)
	assert.Equal(t, "40%", result.ScoringExplanation.Weights.BedAvailability)
}

func TestSearch_UnclassifiedSymptomsOmitAnalysis(t *testing.T) {
	dir := &fakeDirectory{hospitals: []*entities.Hospital{hospital("A1100001", 1)}}
	svc := newRecommendationService(dir, &fakeRoutes{})

	result := svc.Search(context.Background(), 37.5665, 126.978, "알 수 없는 증상", 10)

	assert.True(t, result.Success)
	assert.Nil(t, result.SearchInfo.AnalyzedSymptoms)
}

func TestSearch_PrefersEmergencyTel(t *testing.T) {
	h := hospital("A1100001", 1)
	h.EmergencyTel = "02-1111-2222"
	dir := &fakeDirectory{hospitals: []*entities.Hospital{h}}
	svc := newRecommendationService(dir, &fakeRoutes{})

	result := svc.Search(context.Background(), 37.5665, 126.978, "복통", 10)

	assert.Equal(t, "02-1111-2222", result.Recommendations[0].EmergencyTel)
}
