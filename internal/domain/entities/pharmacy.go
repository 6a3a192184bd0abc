package entities

// Pharmacy represents a pharmacy record from the directory upstream.
// Opening hours come as one start/close pair per day column: 1-5 are
// Monday-Friday, 6 Saturday, 7 Sunday, 8 public holidays. Times are "HHMM"
// strings; empty means no hours published for that day.
type Pharmacy struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Tel      string   `json:"tel"`
	Location Location `json:"location"`

	// Index 0 is unused so day columns keep their upstream numbering.
	OpenHours  [9]string `json:"open_hours"`
	CloseHours [9]string `json:"close_hours"`

	DistanceKm float64 `json:"distance_km"`
}

// HoursForDay returns the open/close pair for a duty day column (1-8).
func (p Pharmacy) HoursForDay(day int) (open, close string) {
	if day < 1 || day > 8 {
		return "", ""
	}
	return p.OpenHours[day], p.CloseHours[day]
}
