package providers

import "context"

// GuardianNotification describes the message sent to a patient's guardians
// when emergency mode is activated.
type GuardianNotification struct {
	HospitalName string
	ETAMinutes   int
	Symptoms     string
}

// GuardianNotifier sends emergency notifications to registered guardians.
type GuardianNotifier interface {
	// Notify sends the notification and returns the rendered message text.
	Notify(ctx context.Context, n GuardianNotification) (string, error)
}
