package appointments

import (
	"fmt"
	"strings"
	"time"
)

// StatusConfirmed is the only status the engine writes; future admin tooling
// may introduce cancelled/rescheduled rows.
const StatusConfirmed = "confirmed"

// Appointment is a booked visit. It is created once, at the moment the
// conversation enters its confirmation transition, and never mutated after.
type Appointment struct {
	ID            string    `json:"id"`
	PatientName   string    `json:"patient_name"`
	ContactNumber string    `json:"contact_number"`
	PreferredDate string    `json:"preferred_date"`
	PreferredTime string    `json:"preferred_time"`
	Department    string    `json:"department"`
	Symptoms      []string  `json:"symptoms"`
	Severity      string    `json:"severity"`
	Status        string    `json:"status"`
	Summary       string    `json:"summary"`
	CreatedAt     time.Time `json:"created_at"`
}

// BuildSummary renders the free-text conversation summary stored with the
// appointment record.
func BuildSummary(symptoms []string, severity, department string) string {
	if severity == "" {
		severity = "unknown"
	}
	if department == "" {
		department = "unknown"
	}
	return fmt.Sprintf("Patient reported: %s. Assessed severity: %s. Routed to: %s.",
		strings.Join(symptoms, ", "), severity, department)
}
