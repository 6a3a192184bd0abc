package entities

import "time"

// EmergencySession represents an active "en route to hospital" state created
// when a caller activates emergency mode. Sessions live for the process
// lifetime (or the store's TTL) and are only ever mutated to flip the
// guardian-notified flag.
type EmergencySession struct {
	ID                string    `json:"session_id"`
	HospitalID        string    `json:"hospital_id"`
	HospitalName      string    `json:"hospital_name"`
	ETAMinutes        int       `json:"eta_minutes"`
	ActivatedAt       time.Time `json:"activated_at"`
	UserLatitude      float64   `json:"user_latitude"`
	UserLongitude     float64   `json:"user_longitude"`
	Symptoms          string    `json:"symptoms"`
	GuardiansNotified bool      `json:"guardians_notified"`
}

// ElapsedMinutes returns whole minutes since activation.
func (s *EmergencySession) ElapsedMinutes(now time.Time) int {
	return int(now.Sub(s.ActivatedAt).Round(time.Minute) / time.Minute)
}

// RemainingETA returns the ETA minus elapsed time, floored at zero.
func (s *EmergencySession) RemainingETA(now time.Time) int {
	remaining := s.ETAMinutes - s.ElapsedMinutes(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
