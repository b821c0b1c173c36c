package triage

import (
	"testing"
)

func TestAddSymptomsDedupes(t *testing.T) {
	sess := &Session{}
	sess.AddSymptoms([]string{"Cough", "fever"})
	sess.AddSymptoms([]string{"cough", "  Fever ", "headache"})
	if len(sess.Symptoms) != 3 {
		t.Fatalf("expected 3 symptoms, got %v", sess.Symptoms)
	}
	if sess.Symptoms[0] != "cough" || sess.Symptoms[2] != "headache" {
		t.Fatalf("expected stable insertion order, got %v", sess.Symptoms)
	}
}

func TestBookingFieldsMerge(t *testing.T) {
	var b BookingFields
	b.Merge(map[string]string{
		FieldPatientName:   "Asha Rao",
		FieldPreferredDate: "null",
		FieldPreferredTime: "",
		FieldContactNumber: "none",
		"unrelated_key":    "ignored",
	})
	if b.PatientName != "Asha Rao" {
		t.Fatalf("expected name merged, got %q", b.PatientName)
	}
	if b.PreferredDate != "" || b.PreferredTime != "" || b.ContactNumber != "" {
		t.Fatalf("placeholder values must be skipped: %+v", b)
	}

	b.Merge(map[string]string{FieldContactNumber: "+1-555-0100"})
	if b.ContactNumber != "+1-555-0100" {
		t.Fatalf("expected contact merged, got %q", b.ContactNumber)
	}
}

func TestBookingFieldsMissingAndComplete(t *testing.T) {
	var b BookingFields
	if b.Complete() {
		t.Fatal("empty fields must not be complete")
	}
	if missing := b.Missing(); len(missing) != 4 {
		t.Fatalf("expected 4 missing fields, got %v", missing)
	}

	b.Merge(map[string]string{
		FieldPatientName:   "Asha Rao",
		FieldPreferredDate: "2026-09-03",
		FieldPreferredTime: "10:30",
		FieldContactNumber: "+1-555-0100",
	})
	if !b.Complete() {
		t.Fatalf("expected complete booking, missing %v", b.Missing())
	}
}

func TestBookingFieldsClear(t *testing.T) {
	b := BookingFields{PatientName: "Asha Rao", Paused: true}
	b.Clear()
	if b.PatientName != "" || b.Paused {
		t.Fatalf("expected all fields discarded, got %+v", b)
	}
}

func TestSnapshotReflectsSession(t *testing.T) {
	sess := &Session{
		ID:    "s-1",
		State: StateCollectingDetails,
	}
	sess.AddSymptoms([]string{"cough"})
	sess.Severity = SeverityMild
	sess.Department = DeptPulmonology
	sess.Booking.Merge(map[string]string{FieldPatientName: "Asha Rao"})
	sess.TurnCount = 7

	snap := sess.Snapshot()
	if snap.SessionID != "s-1" || snap.State != StateCollectingDetails {
		t.Fatalf("unexpected snapshot identity: %+v", snap)
	}
	if snap.Collected[FieldPatientName] != "Asha Rao" {
		t.Fatalf("expected collected name, got %v", snap.Collected)
	}
	if len(snap.Missing) != 3 {
		t.Fatalf("expected 3 missing fields, got %v", snap.Missing)
	}
	if snap.Terminal {
		t.Fatal("collecting_details is not terminal")
	}

	sess.State = StateCompleted
	if !sess.Snapshot().Terminal {
		t.Fatal("completed must report terminal")
	}
}
