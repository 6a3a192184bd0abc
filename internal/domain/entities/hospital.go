package entities

// Equipment codes used by the bed-status upstream. The codes double as the
// required-equipment identifiers in symptom rules.
const (
	EquipmentCT         = "hvctayn"
	EquipmentMRI        = "hvmriayn"
	EquipmentAngio      = "hvangioayn"
	EquipmentVentilator = "hvventiayn"
	EquipmentAmbulance  = "hvamyn"
)

// Hospital represents an emergency medical institution fetched per request.
// Bed counts and equipment flags are zero-valued until the real-time
// bed-status feed is merged in.
type Hospital struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Tel          string   `json:"tel"`
	EmergencyTel string   `json:"emergency_tel,omitempty"`
	Location     Location `json:"location"`
	RegionName   string   `json:"region_name,omitempty"`
	EmergencyOp  string   `json:"emergency_op,omitempty"`

	BedStatus BedStatus `json:"bed_status"`

	// Derived per request
	DistanceKm float64         `json:"distance_km"`
	ETAMinutes *int            `json:"eta_minutes,omitempty"`
	Score      float64         `json:"score"`
	Breakdown  *ScoreBreakdown `json:"score_breakdown,omitempty"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BedStatus holds real-time availability counts and equipment flags for one
// hospital. Flags keep the raw upstream string; only an exact "Y" (or "y")
// counts as available.
type BedStatus struct {
	EmergencyBeds   int `json:"emergency_beds"`
	OperatingBeds   int `json:"operating_beds"`
	NeuroICUBeds    int `json:"neuro_icu_beds"`
	NeonatalICUBeds int `json:"neonatal_icu_beds"`
	GeneralBeds     int `json:"general_beds"`
	ICUBeds         int `json:"icu_beds"`

	CT         string `json:"ct,omitempty"`
	MRI        string `json:"mri,omitempty"`
	Angio      string `json:"angio,omitempty"`
	Ventilator string `json:"ventilator,omitempty"`
	Ambulance  string `json:"ambulance,omitempty"`
}

// AvailableBeds is the count the scoring formula uses: emergency, operating
// and general ward beds. ICU and neonatal counts are reported but excluded
// from this sum.
func (b BedStatus) AvailableBeds() int {
	return b.EmergencyBeds + b.OperatingBeds + b.GeneralBeds
}

// EquipmentFlag returns the raw flag for an equipment code, or "" for an
// unknown code.
func (b BedStatus) EquipmentFlag(code string) string {
	switch code {
	case EquipmentCT:
		return b.CT
	case EquipmentMRI:
		return b.MRI
	case EquipmentAngio:
		return b.Angio
	case EquipmentVentilator:
		return b.Ventilator
	case EquipmentAmbulance:
		return b.Ambulance
	}
	return ""
}

// EquipmentAvailable reports whether the flag for the code is an exact
// "Y"/"y" match. Other truthy-looking values ("1", "true") are not accepted;
// the upstream feed only ever emits Y/N and anything else means unknown.
func (b BedStatus) EquipmentAvailable(code string) bool {
	v := b.EquipmentFlag(code)
	return v == "Y" || v == "y"
}

// ScoreBreakdown holds the four sub-scores behind a composite score. Each is
// rounded to the nearest integer independently of the total.
type ScoreBreakdown struct {
	BedScore       int `json:"bedScore"`
	DistanceScore  int `json:"distanceScore"`
	TrafficScore   int `json:"trafficScore"`
	SpecialtyScore int `json:"specialtyScore"`
}
