package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
)

type stubPharmacyDirectory struct {
	pharmacies []*entities.Pharmacy
}

func (s *stubPharmacyDirectory) FindHospitals(context.Context, float64, float64, float64) []*entities.Hospital {
	return nil
}

func (s *stubPharmacyDirectory) FetchBedStatus(context.Context, []string) map[string]entities.BedStatus {
	return nil
}

func (s *stubPharmacyDirectory) FindPharmacies(context.Context, float64, float64, float64) []*entities.Pharmacy {
	return s.pharmacies
}

// Wednesday morning; duty day column 3.
var wednesday = time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

func pharmacyOpen(name string, distanceKm float64, open, close string) *entities.Pharmacy {
	p := &entities.Pharmacy{
		Name:       name,
		Address:    "서울특별시 중구",
		Tel:        "02-0000-0000",
		DistanceKm: distanceKm,
		Location:   entities.Location{Latitude: 37.56, Longitude: 126.97},
	}
	for day := 1; day <= 5; day++ {
		p.OpenHours[day] = open
		p.CloseHours[day] = close
	}
	return p
}

func newPharmacyService(pharmacies ...*entities.Pharmacy) *PharmacyService {
	svc := NewPharmacyService(&stubPharmacyDirectory{pharmacies: pharmacies})
	svc.now = func() time.Time { return wednesday }
	return svc
}

func TestPharmacySearch_NoneFound(t *testing.T) {
	svc := newPharmacyService()

	result := svc.Search(context.Background(), 37.5665, 126.978, "", 0)

	assert.False(t, result.Success)
	assert.Equal(t, "반경 3km 내 약국을 찾을 수 없습니다.", result.Message)
	assert.Len(t, result.Suggestions, 1)
}

func TestPharmacySearch_FormatsTodayHours(t *testing.T) {
	svc := newPharmacyService(pharmacyOpen("온누리약국", 0.421, "0900", "1830"))

	result := svc.Search(context.Background(), 37.5665, 126.978, "all", 3)

	assert.True(t, result.Success)
	assert.Len(t, result.Pharmacies, 1)
	p := result.Pharmacies[0]
	assert.Equal(t, 1, p.Rank)
	assert.Equal(t, "09:00", p.TodayHours.Open)
	assert.Equal(t, "18:30", p.TodayHours.Close)
	assert.Equal(t, 0.42, p.DistanceKm)
}

func TestPharmacySearch_MissingHours(t *testing.T) {
	svc := newPharmacyService(pharmacyOpen("약국", 1, "", ""))

	result := svc.Search(context.Background(), 37.5665, 126.978, "all", 3)

	assert.Equal(t, "정보없음", result.Pharmacies[0].TodayHours.Open)
	assert.Equal(t, "정보없음", result.Pharmacies[0].TodayHours.Close)
}

func TestPharmacySearch_NightFilter(t *testing.T) {
	late := pharmacyOpen("심야약국", 1, "0900", "2330")
	pastMidnight := pharmacyOpen("새벽약국", 2, "0900", "0200")
	early := pharmacyOpen("일반약국", 0.5, "0900", "1800")
	noHours := pharmacyOpen("시간미상약국", 0.8, "", "")

	svc := newPharmacyService(early, noHours, late, pastMidnight)
	result := svc.Search(context.Background(), 37.5665, 126.978, PharmacyFilterNight, 3)

	assert.True(t, result.Success)
	assert.Len(t, result.Pharmacies, 2)
	assert.Equal(t, "심야약국", result.Pharmacies[0].Name)
	assert.Equal(t, "새벽약국", result.Pharmacies[1].Name)
	assert.Equal(t, 2, result.SearchInfo.TotalFound)
}

func TestPharmacySearch_HolidayFilter(t *testing.T) {
	sundayOpen := pharmacyOpen("일요약국", 1, "0900", "1800")
	sundayOpen.OpenHours[7] = "1000"
	sundayOpen.CloseHours[7] = "1400"

	holidayOpen := pharmacyOpen("공휴약국", 2, "0900", "1800")
	holidayOpen.OpenHours[8] = "1000"
	holidayOpen.CloseHours[8] = "1300"

	weekdaysOnly := pharmacyOpen("평일약국", 0.5, "0900", "1800")

	svc := newPharmacyService(weekdaysOnly, sundayOpen, holidayOpen)
	result := svc.Search(context.Background(), 37.5665, 126.978, PharmacyFilterHoliday, 3)

	assert.Len(t, result.Pharmacies, 2)
	assert.Equal(t, "일요약국", result.Pharmacies[0].Name)
	assert.Equal(t, "공휴약국", result.Pharmacies[1].Name)
}

func TestPharmacySearch_UnknownFilterBehavesLikeAll(t *testing.T) {
	svc := newPharmacyService(pharmacyOpen("약국", 1, "0900", "1800"))

	result := svc.Search(context.Background(), 37.5665, 126.978, "whatever", 3)

	assert.True(t, result.Success)
	assert.Len(t, result.Pharmacies, 1)
	assert.Equal(t, "whatever", result.SearchInfo.Filter)
}

func TestPharmacySearch_TruncatesToTen(t *testing.T) {
	pharmacies := make([]*entities.Pharmacy, 13)
	for i := range pharmacies {
		pharmacies[i] = pharmacyOpen("약국", float64(i)*0.1, "0900", "1800")
	}

	svc := newPharmacyService(pharmacies...)
	result := svc.Search(context.Background(), 37.5665, 126.978, "", 3)

	assert.Len(t, result.Pharmacies, 10)
	assert.Equal(t, 13, result.SearchInfo.TotalFound)
}
