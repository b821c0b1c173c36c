package triage

import (
	"sort"
	"strings"
	"time"
)

// Severity grades how urgent a patient's condition appears.
type Severity string

const (
	SeverityUnknown  Severity = ""
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeverityCritical Severity = "critical"
)

// ParseSeverity returns the matching severity or SeverityUnknown.
func ParseSeverity(raw string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(raw))) {
	case SeverityMild:
		return SeverityMild
	case SeverityModerate:
		return SeverityModerate
	case SeverityCritical:
		return SeverityCritical
	default:
		return SeverityUnknown
	}
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a session transcript. Messages are immutable once
// appended; only the engine appends them.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Turn    int    `json:"turn"`
}

// Booking field names as the model reports them.
const (
	FieldPatientName   = "patient_name"
	FieldPreferredDate = "preferred_date"
	FieldPreferredTime = "preferred_time"
	FieldContactNumber = "contact_number"
)

// bookingFieldOrder fixes the order fields are requested and displayed in.
var bookingFieldOrder = []string{
	FieldPatientName,
	FieldPreferredDate,
	FieldPreferredTime,
	FieldContactNumber,
}

// bookingFieldLabels maps field names to the labels surfaced to the user.
var bookingFieldLabels = map[string]string{
	FieldPatientName:   "Patient Name",
	FieldPreferredDate: "Preferred Date",
	FieldPreferredTime: "Preferred Time",
	FieldContactNumber: "Contact Number",
}

// BookingFields holds the appointment details collected so far.
type BookingFields struct {
	PatientName   string `json:"patient_name,omitempty"`
	PreferredDate string `json:"preferred_date,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
	// Paused marks fields retained through an intent switch so the booking
	// can resume once symptom re-assessment completes.
	Paused bool `json:"paused,omitempty"`
}

// Get returns the value for a booking field name.
func (b BookingFields) Get(name string) string {
	switch name {
	case FieldPatientName:
		return b.PatientName
	case FieldPreferredDate:
		return b.PreferredDate
	case FieldPreferredTime:
		return b.PreferredTime
	case FieldContactNumber:
		return b.ContactNumber
	default:
		return ""
	}
}

// Merge copies non-empty values from the model's collected-field map. Values
// the model reports as the literal strings "null" or "none" are ignored.
func (b *BookingFields) Merge(collected map[string]string) {
	for name, value := range collected {
		value = strings.TrimSpace(value)
		switch strings.ToLower(value) {
		case "", "null", "none":
			continue
		}
		switch name {
		case FieldPatientName:
			b.PatientName = value
		case FieldPreferredDate:
			b.PreferredDate = value
		case FieldPreferredTime:
			b.PreferredTime = value
		case FieldContactNumber:
			b.ContactNumber = value
		}
	}
}

// Missing lists the labels of required fields not yet collected, in order.
func (b BookingFields) Missing() []string {
	var missing []string
	for _, name := range bookingFieldOrder {
		if b.Get(name) == "" {
			missing = append(missing, bookingFieldLabels[name])
		}
	}
	return missing
}

// Complete reports whether all four required fields are present.
func (b BookingFields) Complete() bool {
	return len(b.Missing()) == 0
}

// Clear discards all collected fields. Used on emergency escalation.
func (b *BookingFields) Clear() {
	*b = BookingFields{}
}

// Session is one triage conversation. It is owned exclusively by the engine
// and mutated only while the per-session lock is held.
type Session struct {
	ID         string        `json:"id"`
	State      State         `json:"state"`
	Symptoms   []string      `json:"symptoms,omitempty"`
	Severity   Severity      `json:"severity,omitempty"`
	Department Department    `json:"department,omitempty"`
	Booking    BookingFields `json:"booking"`
	Pediatric  bool          `json:"pediatric,omitempty"`
	TurnCount  int           `json:"turn_count"`
	History    []Message     `json:"history,omitempty"`
	BookingID  string        `json:"booking_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// AddSymptoms merges new symptoms into the session's symptom set. Symptoms are
// normalized to lower case; duplicates are dropped and order is kept stable.
func (s *Session) AddSymptoms(symptoms []string) {
	seen := make(map[string]struct{}, len(s.Symptoms))
	for _, existing := range s.Symptoms {
		seen[existing] = struct{}{}
	}
	for _, symptom := range symptoms {
		symptom = strings.ToLower(strings.TrimSpace(symptom))
		if symptom == "" {
			continue
		}
		if _, ok := seen[symptom]; ok {
			continue
		}
		seen[symptom] = struct{}{}
		s.Symptoms = append(s.Symptoms, symptom)
	}
}

// Snapshot is the read-only view handed to the rendering layer. There is no
// write path from a snapshot back into the session.
type Snapshot struct {
	SessionID  string            `json:"session_id"`
	State      State             `json:"state"`
	Symptoms   []string          `json:"symptoms"`
	Severity   Severity          `json:"severity,omitempty"`
	Department Department        `json:"department,omitempty"`
	Collected  map[string]string `json:"collected_fields"`
	Missing    []string          `json:"missing_fields"`
	TurnCount  int               `json:"turn_count"`
	BookingID  string            `json:"booking_id,omitempty"`
	Terminal   bool              `json:"terminal"`
}

// Snapshot builds the rendering view for the session's current state.
func (s *Session) Snapshot() Snapshot {
	collected := make(map[string]string)
	for _, name := range bookingFieldOrder {
		if value := s.Booking.Get(name); value != "" {
			collected[name] = value
		}
	}
	symptoms := append([]string(nil), s.Symptoms...)
	sort.Strings(symptoms)
	return Snapshot{
		SessionID:  s.ID,
		State:      s.State,
		Symptoms:   symptoms,
		Severity:   s.Severity,
		Department: s.Department,
		Collected:  collected,
		Missing:    s.Booking.Missing(),
		TurnCount:  s.TurnCount,
		BookingID:  s.BookingID,
		Terminal:   s.State.Terminal(),
	}
}
