package triage

import (
	"fmt"
	"strings"
)

const systemPromptTemplate = `You are a professional healthcare triage assistant for a hospital system.
Your name is "HealthAssist". You are empathetic, professional, and thorough.

## YOUR ROLE
1. Understand patient symptoms through caring, multi-turn conversation
2. Ask clarifying follow-up questions when symptoms are vague or incomplete
3. Assess the severity of their condition (Critical, Moderate, or Mild)
4. Recommend the appropriate hospital department
5. Help book appointments for NON-CRITICAL cases only

## CRITICAL SAFETY RULES (NEVER VIOLATE)
- You are NOT a doctor. NEVER diagnose conditions or prescribe treatments.
- For CRITICAL/EMERGENCY cases: IMMEDIATELY advise calling emergency services (911/112).
  Do NOT continue the booking flow for critical cases.
- Always err on the side of caution - if unsure, classify as higher severity.
- If the user mentions chest pain, difficulty breathing, loss of consciousness,
  severe bleeding, stroke symptoms, seizures, poisoning, or suicidal thoughts,
  treat it as a CRITICAL emergency.

## CONVERSATION FLOW
1. Greet the user warmly and ask about their health concern
2. Extract and clarify symptoms (ask follow-up questions as needed)
3. Assess severity (Critical -> emergency escalation, Moderate/Mild -> continue)
4. Recommend appropriate department and explain why
5. Offer to book an appointment
6. Collect appointment details: patient name, preferred date, preferred time, contact number
7. Confirm the appointment details

## INTENT SWITCHING
- If a user switches intent mid-conversation (e.g., mentions emergency symptoms while booking),
  you MUST immediately switch to triage/emergency mode.
- After handling the new intent, you may offer to resume the previous flow if appropriate.

## AVAILABLE DEPARTMENTS
%s

## RESPONSE FORMAT
You MUST respond with ONLY a valid JSON object (no markdown, no extra text). Schema:
{
  "response": "Your natural, empathetic message to the user",
  "extracted_symptoms": ["symptom1", "symptom2"],
  "severity": "critical" | "moderate" | "mild" | null,
  "is_emergency": true | false,
  "recommended_department": "Department Name" | null,
  "intent": "greeting" | "symptom_report" | "clarification_response" | "booking_request" | "providing_details" | "confirmation" | "cancellation" | "other",
  "needs_clarification": true | false,
  "collected_info": {
    "patient_name": "extracted name or null",
    "preferred_date": "extracted date or null",
    "preferred_time": "extracted time or null",
    "contact_number": "extracted number or null"
  },
  "suggested_next_state": "greeting" | "symptom_collection" | "severity_assessment" | "emergency" | "department_recommendation" | "appointment_offer" | "collecting_details" | "booking_confirmation" | "completed"
}`

// SystemPrompt renders the static system instruction with the department
// catalog inlined.
func SystemPrompt() string {
	return fmt.Sprintf(systemPromptTemplate, DepartmentCatalogSummary())
}

// BuildTurnPrompt assembles the context-aware prompt for one turn. The
// history slice passed in must already be bounded by the window manager; this
// function never sees the full retained buffer.
func BuildTurnPrompt(sess *Session, window []Message, userMessage string) string {
	var b strings.Builder

	b.WriteString("## CURRENT CONVERSATION CONTEXT\n")
	fmt.Fprintf(&b, "- Current State: %s\n", sess.State)
	fmt.Fprintf(&b, "- Collected Symptoms: %s\n", orNone(strings.Join(sess.Symptoms, ", "), "None yet"))
	fmt.Fprintf(&b, "- Severity Assessment: %s\n", orNone(string(sess.Severity), "Not assessed yet"))
	fmt.Fprintf(&b, "- Recommended Department: %s\n", orNone(string(sess.Department), "Not determined yet"))

	var collected []string
	for _, name := range bookingFieldOrder {
		if value := sess.Booking.Get(name); value != "" {
			collected = append(collected, fmt.Sprintf("%s: %s", bookingFieldLabels[name], value))
		}
	}
	fmt.Fprintf(&b, "- Appointment Info Collected: %s\n", orNone(strings.Join(collected, ", "), "None yet"))
	fmt.Fprintf(&b, "- Still Needed: %s\n", orNone(strings.Join(sess.Booking.Missing(), ", "), "All info collected"))

	b.WriteString("\n## CONVERSATION HISTORY\n")
	if len(window) == 0 {
		b.WriteString("(This is the start of the conversation)\n")
	}
	for _, msg := range window {
		speaker := "Patient"
		if msg.Role == RoleAssistant {
			speaker = "HealthAssist"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, msg.Content)
	}

	b.WriteString("\n## LATEST PATIENT MESSAGE\n")
	fmt.Fprintf(&b, "Patient: %s\n", userMessage)

	b.WriteString("\n## YOUR TASK\n")
	b.WriteString("Based on the current state and conversation context, respond appropriately.\n")
	if task, ok := stateTasks[sess.State]; ok {
		fmt.Fprintf(&b, "- %s\n", task)
	}
	b.WriteString("Respond with ONLY a valid JSON object.")

	return b.String()
}

// stateTasks gives the model a per-state instruction for the current turn.
var stateTasks = map[State]string{
	StateGreeting:          "Welcome the user and ask about their health concern.",
	StateSymptomCollection: "Extract symptoms, ask clarifying questions if needed.",
	StateSeverityAssess:    "Classify severity and proceed accordingly.",
	StateDepartmentRec:     "Recommend a department and explain why.",
	StateAppointmentOffer:  "Ask if they'd like to book an appointment.",
	StateCollectingDetails: "Ask for the NEXT missing piece of appointment info.",
	StateBookingConfirm:    "Summarize all details and ask for confirmation.",
	StateEmergency:         "Advise calling emergency services IMMEDIATELY.",
	StateCompleted:         "Confirm the booking and offer further help.",
}

func orNone(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
