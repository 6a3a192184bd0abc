package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchEmergencyInput is the input for the lifeguard_search_emergency tool.
type SearchEmergencyInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"current latitude (e.g. 37.5665)"`
	Longitude float64 `json:"longitude" jsonschema:"current longitude (e.g. 126.9780)"`
	Symptoms  string  `json:"symptoms" jsonschema:"symptom description (e.g. 가슴통증, 소아고열, 뇌졸중 의심)"`
	RadiusKm  float64 `json:"radius_km,omitempty" jsonschema:"search radius in km (default 10)"`
}

// ActivateEmergencyInput is the input for the lifeguard_activate_emergency tool.
type ActivateEmergencyInput struct {
	HospitalID      string  `json:"hospital_id" jsonschema:"hospital HPID"`
	HospitalName    string  `json:"hospital_name" jsonschema:"hospital name"`
	ETAMinutes      int     `json:"eta_minutes" jsonschema:"estimated arrival time in minutes"`
	UserLatitude    float64 `json:"user_latitude" jsonschema:"user latitude"`
	UserLongitude   float64 `json:"user_longitude" jsonschema:"user longitude"`
	Symptoms        string  `json:"symptoms" jsonschema:"symptom description"`
	NotifyGuardians *bool   `json:"notify_guardians,omitempty" jsonschema:"whether to notify guardians (default true)"`
}

// GetStatusInput is the input for the lifeguard_get_status tool.
type GetStatusInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session id; the latest session is used when omitted"`
}

// FindPharmacyInput is the input for the lifeguard_find_pharmacy tool.
type FindPharmacyInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"current latitude"`
	Longitude float64 `json:"longitude" jsonschema:"current longitude"`
	Filter    string  `json:"filter,omitempty" jsonschema:"filter option: all, night (open late), holiday (open on Sundays/holidays)"`
	RadiusKm  float64 `json:"radius_km,omitempty" jsonschema:"search radius in km (default 3)"`
}

// SearchEmergencyTool describes the hospital recommendation tool.
func SearchEmergencyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "lifeguard_search_emergency",
		Description: "증상과 위치 기반 최적 응급의료기관 추천. 병상 가용성, 거리, 실시간 교통, 전문성을 복합 스코어링하여 최적의 병원을 추천합니다.",
	}
}

// ActivateEmergencyTool describes the emergency activation tool.
func ActivateEmergencyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "lifeguard_activate_emergency",
		Description: "응급 모드를 활성화합니다. 선택한 병원으로 이동을 시작하고, 보호자에게 카카오톡 알림을 발송하며, 실시간 병상 모니터링을 시작합니다.",
	}
}

// GetStatusTool describes the session status tool.
func GetStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "lifeguard_get_status",
		Description: "현재 응급 모드 상태를 조회합니다. 활성화된 응급 세션이 있으면 목적지 병원의 실시간 병상 정보도 함께 조회합니다.",
	}
}

// FindPharmacyTool describes the pharmacy search tool.
func FindPharmacyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "lifeguard_find_pharmacy",
		Description: "주변 약국을 검색합니다. 야간/휴일 운영 약국을 필터링할 수 있습니다.",
	}
}
