package triage

import "testing"

func TestCanTransitionForwardFlow(t *testing.T) {
	path := []State{
		StateGreeting,
		StateSymptomCollection,
		StateSeverityAssess,
		StateDepartmentRec,
		StateAppointmentOffer,
		StateCollectingDetails,
		StateBookingConfirm,
		StateCompleted,
	}
	for i := 0; i < len(path)-1; i++ {
		if !CanTransition(path[i], path[i+1]) {
			t.Errorf("expected %s -> %s to be allowed", path[i], path[i+1])
		}
	}
}

func TestCanTransitionRejectsSkips(t *testing.T) {
	cases := []struct {
		from, to State
	}{
		{StateGreeting, StateSeverityAssess},
		{StateGreeting, StateBookingConfirm},
		{StateSymptomCollection, StateAppointmentOffer},
		{StateSeverityAssess, StateCollectingDetails},
		{StateAppointmentOffer, StateBookingConfirm},
	}
	for _, tc := range cases {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestCanTransitionSelfLoopAlwaysAllowed(t *testing.T) {
	for state := range validTransitions {
		if !CanTransition(state, state) {
			t.Errorf("expected %s -> %s self transition to be allowed", state, state)
		}
	}
}

func TestEmergencyReachableFromAnyActiveState(t *testing.T) {
	for state := range validTransitions {
		if state.Terminal() {
			continue
		}
		if !CanTransition(state, StateEmergency) {
			t.Errorf("expected %s -> %s to be allowed", state, StateEmergency)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []State{StateCompleted, StateEmergency, StateSessionLimit} {
		if !terminal.Terminal() {
			t.Fatalf("expected %s to be terminal", terminal)
		}
		for other := range validTransitions {
			if other == terminal {
				continue
			}
			if CanTransition(terminal, other) {
				t.Errorf("expected no exit from %s, but %s allowed", terminal, other)
			}
		}
	}
}

func TestCollectingDetailsCanReturnToSymptoms(t *testing.T) {
	if !CanTransition(StateCollectingDetails, StateSymptomCollection) {
		t.Fatal("expected collecting_details -> symptom_collection to be allowed")
	}
}

func TestKnownRejectsUnknownState(t *testing.T) {
	if State("chatting").Known() {
		t.Fatal("expected unknown state to be rejected")
	}
	if !StateGreeting.Known() {
		t.Fatal("expected greeting to be known")
	}
}
