package triage

import (
	"fmt"
	"strings"

	"github.com/healthassist/triage-platform/internal/appointments"
)

// GreetingReply opens every new session.
const GreetingReply = "Hello! Welcome to HealthAssist.\n\n" +
	"I'm your healthcare triage assistant. I can help you:\n" +
	"- Assess your symptoms and determine their severity\n" +
	"- Recommend the right department for your needs\n" +
	"- Book an appointment with the appropriate specialist\n\n" +
	"If you're experiencing a life-threatening emergency, please call 911 or 112 immediately.\n\n" +
	"How can I help you today? Please describe your symptoms or concern."

const emptyMessageReply = "Please type a message to get started."

const turnLimitReply = "This conversation has reached the maximum number of turns. " +
	"Please start a new conversation to continue."

// closingReplies answer messages sent to a session that already ended.
var closingReplies = map[State]string{
	StateCompleted: "This conversation has ended. " +
		"Please start a new conversation for any other health concerns.",
	StateEmergency: "This conversation was escalated as a medical emergency. " +
		"Please call 911 or 112 immediately if you have not already. " +
		"Once you are safe, start a new conversation for non-emergency concerns.",
	StateSessionLimit: turnLimitReply,
}

// emergencyEscalationReply is the deterministic reply used when the keyword
// layer fires without the model having flagged an emergency itself.
func emergencyEscalationReply(matches []EmergencyMatch, symptoms []string) string {
	var phrases []string
	for i, match := range matches {
		if i == 3 {
			break
		}
		phrases = append(phrases, match.Phrase)
	}
	described := strings.Join(symptoms, ", ")
	if described == "" {
		described = strings.Join(phrases, ", ")
	}
	if described == "" {
		described = "your symptoms"
	}

	return fmt.Sprintf("EMERGENCY ALERT\n\n"+
		"Based on what you've described (%s), this appears to be a critical medical emergency.\n\n"+
		"Immediate actions required:\n"+
		"1. Call emergency services NOW: dial 911 (US) or 112 (EU/India)\n"+
		"2. Do not wait - seek immediate medical attention\n"+
		"3. If someone is with you, ask them to help while you call\n\n"+
		"I cannot book a regular appointment for emergency conditions; "+
		"emergency cases need immediate in-person medical care. "+
		"Please go to the nearest Emergency Room if you can.\n\n"+
		"Once you are safe, feel free to start a new conversation "+
		"for any non-emergency health concerns.", described)
}

// missingFieldsReply surfaces the booking checklist when confirmation was
// attempted before all details were collected.
func missingFieldsReply(missing []string) string {
	return fmt.Sprintf("Before I can confirm your appointment I still need: %s. "+
		"Could you share that with me?", strings.Join(missing, ", "))
}

// bookingConfirmedReply summarizes a successfully saved appointment.
func bookingConfirmedReply(appt appointments.Appointment, bookingID string) string {
	ref := bookingID
	if len(ref) > 8 {
		ref = ref[len(ref)-8:]
	}
	return fmt.Sprintf("Appointment confirmed!\n\n"+
		"Booking details:\n"+
		"- Booking ID: %s\n"+
		"- Patient: %s\n"+
		"- Date: %s\n"+
		"- Time: %s\n"+
		"- Contact: %s\n"+
		"- Department: %s\n\n"+
		"Your appointment has been saved. Please arrive 15 minutes early "+
		"and bring any relevant medical documents.\n\n"+
		"Is there anything else I can help you with?",
		ref, appt.PatientName, appt.PreferredDate, appt.PreferredTime,
		appt.ContactNumber, appt.Department)
}

// bookingFallbackReply surfaces the full appointment details when persistence
// is unavailable. Persistence failure is never fatal to the conversation.
func bookingFallbackReply(appt appointments.Appointment) string {
	return fmt.Sprintf("Your appointment details have been recorded, but our booking "+
		"system is temporarily unavailable.\n\n"+
		"Your details:\n"+
		"- Patient: %s\n"+
		"- Date: %s\n"+
		"- Time: %s\n"+
		"- Contact: %s\n"+
		"- Department: %s\n\n"+
		"Please call the hospital directly to confirm your appointment.\n\n"+
		"Is there anything else I can help you with?",
		appt.PatientName, appt.PreferredDate, appt.PreferredTime,
		appt.ContactNumber, appt.Department)
}
