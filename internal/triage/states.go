package triage

// State identifies a phase of the triage conversation.
type State string

const (
	StateGreeting          State = "greeting"
	StateSymptomCollection State = "symptom_collection"
	StateSeverityAssess    State = "severity_assessment"
	StateDepartmentRec     State = "department_recommendation"
	StateAppointmentOffer  State = "appointment_offer"
	StateCollectingDetails State = "collecting_details"
	StateBookingConfirm    State = "booking_confirmation"
	StateCompleted         State = "completed"
	StateEmergency         State = "emergency"
	// StateSessionLimit closes a conversation that exhausted its turn budget.
	// Terminal like Completed, but tells the user the conversation must restart.
	StateSessionLimit State = "session_limit"
)

// validTransitions maps each state to the successor states a model suggestion
// may move it to. The emergency override is NOT represented here: it is applied
// as a pre-check in CanTransition so that it is exhaustive across all states.
//
// Forward progression only, plus two deliberate extra edges: the
// "need more info" self-loop on symptom collection, and the intent-switch
// back-edge from collecting details to symptom collection.
var validTransitions = map[State]map[State]struct{}{
	StateGreeting: {
		StateSymptomCollection: {},
	},
	StateSymptomCollection: {
		StateSymptomCollection: {},
		StateSeverityAssess:    {},
	},
	StateSeverityAssess: {
		StateDepartmentRec: {},
	},
	StateDepartmentRec: {
		StateAppointmentOffer: {},
	},
	StateAppointmentOffer: {
		StateCollectingDetails: {},
		StateCompleted:         {},
	},
	StateCollectingDetails: {
		StateBookingConfirm:    {},
		StateSymptomCollection: {},
	},
	StateBookingConfirm: {
		StateCompleted: {},
	},
	StateCompleted:    {},
	StateEmergency:    {},
	StateSessionLimit: {},
}

// Terminal reports whether the state has no outgoing transitions.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateEmergency || s == StateSessionLimit
}

// Known reports whether s is one of the defined conversation states.
func (s State) Known() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransition reports whether the state machine permits moving from one
// state to another. Remaining in the current state is always permitted, and
// emergency is reachable from every non-terminal state.
func CanTransition(from, to State) bool {
	if !to.Known() {
		return false
	}
	if to == from {
		return true
	}
	if to == StateEmergency {
		return !from.Terminal()
	}
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}
