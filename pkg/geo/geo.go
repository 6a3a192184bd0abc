// Package geo provides coordinate math shared by the upstream adapters.
package geo

import "math"

const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance between two WGS84 points
// using the haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

type sidoBounds struct {
	minLat, maxLat float64
	minLon, maxLon float64
	code           string
}

// Bounding boxes for the metro areas the directory API accepts as a STAGE1
// filter. First box containing the point wins; Seoul is listed before
// Gyeonggi because their boxes overlap.
var sidoBoxes = []sidoBounds{
	{37.4, 37.7, 126.7, 127.2, "11"}, // 서울
	{37.2, 37.7, 126.6, 127.5, "31"}, // 경기
	{35.0, 35.3, 128.8, 129.3, "21"}, // 부산
	{35.7, 36.0, 128.4, 128.8, "22"}, // 대구
	{37.3, 37.6, 126.5, 126.8, "23"}, // 인천
	{36.2, 36.5, 127.2, 127.5, "25"}, // 대전
}

// SidoCode returns the regional district code for the coordinates, or ""
// when the point falls outside the known metro boxes.
func SidoCode(lat, lon float64) string {
	for _, b := range sidoBoxes {
		if lat >= b.minLat && lat <= b.maxLat && lon >= b.minLon && lon <= b.maxLon {
			return b.code
		}
	}
	return ""
}

// RoundTo rounds a value to the given number of decimal places.
func RoundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
