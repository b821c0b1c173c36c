package triage

import "strings"

// Intent labels what the model believes the user is trying to do this turn.
type Intent string

const (
	IntentGreeting         Intent = "greeting"
	IntentSymptomReport    Intent = "symptom_report"
	IntentClarification    Intent = "clarification_response"
	IntentBookingRequest   Intent = "booking_request"
	IntentProvidingDetails Intent = "providing_details"
	IntentConfirmation     Intent = "confirmation"
	IntentCancellation     Intent = "cancellation"
	IntentOther            Intent = "other"
)

// ParseIntent returns the matching intent label, defaulting to IntentOther.
func ParseIntent(raw string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentGreeting:
		return IntentGreeting
	case IntentSymptomReport:
		return IntentSymptomReport
	case IntentClarification:
		return IntentClarification
	case IntentBookingRequest:
		return IntentBookingRequest
	case IntentProvidingDetails:
		return IntentProvidingDetails
	case IntentConfirmation:
		return IntentConfirmation
	case IntentCancellation:
		return IntentCancellation
	default:
		return IntentOther
	}
}

// expectedIntents declares, per state, which intents progress the flow
// normally. Anything else is either a recognized switch (see switchRules) or
// unrelated chatter handled by re-prompting in place.
var expectedIntents = map[State][]Intent{
	StateGreeting:          {IntentGreeting, IntentSymptomReport},
	StateSymptomCollection: {IntentSymptomReport, IntentClarification},
	StateSeverityAssess:    {IntentClarification, IntentSymptomReport},
	StateDepartmentRec:     {IntentConfirmation, IntentBookingRequest},
	StateAppointmentOffer:  {IntentConfirmation, IntentBookingRequest, IntentCancellation},
	StateCollectingDetails: {IntentProvidingDetails, IntentClarification},
	StateBookingConfirm:    {IntentConfirmation, IntentProvidingDetails},
}

// switchRule resolves a recognized mid-flow topic change.
type switchRule struct {
	intent Intent
	from   []State
	target State
	// pauseBooking retains already-collected booking fields instead of
	// discarding them, so the flow can resume after re-assessment.
	pauseBooking bool
}

// switchRules is the declarative intent-conflict table. Order matters: the
// first rule whose intent and state match wins.
var switchRules = []switchRule{
	{
		// New symptoms reported anywhere downstream of symptom collection
		// restart the assessment. Booking fields are paused, not discarded.
		intent: IntentSymptomReport,
		from: []State{
			StateSeverityAssess, StateDepartmentRec, StateAppointmentOffer,
			StateCollectingDetails, StateBookingConfirm,
		},
		target:       StateSymptomCollection,
		pauseBooking: true,
	},
	{
		// Asking to book while still in the triage flow jumps ahead to the
		// appointment offer.
		intent: IntentBookingRequest,
		from:   []State{StateSymptomCollection, StateSeverityAssess},
		target: StateAppointmentOffer,
	},
	{
		// Cancelling mid-booking ends the conversation.
		intent: IntentCancellation,
		from:   []State{StateCollectingDetails, StateBookingConfirm},
		target: StateCompleted,
	},
}

// Resolution is the outcome of comparing detected intent with the current
// state's expectation.
type Resolution struct {
	// Conflict is true when the detected intent does not progress the
	// current state normally.
	Conflict bool
	// ForceState, when non-empty, overrides the model's suggested next state.
	ForceState State
	// PauseBooking retains collected booking fields across the switch.
	PauseBooking bool
	// Reprompt means the conflict is unrelated chatter: stay in the current
	// state and let the reply re-ask the pending question.
	Reprompt bool
}

// ResolveIntent applies the conflict table. The emergency override is checked
// before this ever runs, so resolution never needs to consider it.
func ResolveIntent(current State, detected Intent) Resolution {
	for _, expected := range expectedIntents[current] {
		if detected == expected {
			return Resolution{}
		}
	}

	for _, rule := range switchRules {
		if rule.intent != detected {
			continue
		}
		for _, from := range rule.from {
			if from == current {
				return Resolution{
					Conflict:     true,
					ForceState:   rule.target,
					PauseBooking: rule.pauseBooking,
				}
			}
		}
	}

	// Unrelated chatter: no phase change, re-prompt in place.
	return Resolution{Conflict: true, Reprompt: true}
}
