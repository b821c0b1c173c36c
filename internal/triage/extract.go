package triage

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ExtractedTurnData is the structured result of one model invocation. It is a
// proposal, not an authority: the state machine alone decides what actually
// happens to the session.
type ExtractedTurnData struct {
	Reply              string            `json:"response"`
	Symptoms           []string          `json:"extracted_symptoms"`
	Severity           string            `json:"severity"`
	IsEmergency        bool              `json:"is_emergency"`
	Department         string            `json:"recommended_department"`
	Intent             string            `json:"intent"`
	NeedsClarification bool              `json:"needs_clarification"`
	Collected          map[string]string `json:"collected_info"`
	SuggestedState     string            `json:"suggested_next_state"`
}

const clarificationFallbackReply = "Thank you for sharing. Could you tell me more about " +
	"your symptoms so I can better assist you?"

const modelFailureReply = "I apologize, but I'm experiencing a technical issue right now. " +
	"If you're experiencing a medical emergency, please call 911 or 112 immediately.\n\n" +
	"Please try again in a moment."

// SafeDefaultTurnData is the total-failure fallback: a clarification request
// with no symptom, severity, or state proposal. Using it degrades one turn's
// quality, never the session's safety guarantees.
func SafeDefaultTurnData() ExtractedTurnData {
	return ExtractedTurnData{
		Reply:  modelFailureReply,
		Intent: string(IntentOther),
	}
}

var (
	fencedJSONRE = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareJSONRE   = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseTurnData recovers structured turn data from raw model output.
// Recovery chain: direct JSON parse, then extraction from a fenced code
// block, then the outermost brace-delimited object, then the safe default.
// A parse failure is never surfaced to the user as an error.
func ParseTurnData(raw string) ExtractedTurnData {
	var data ExtractedTurnData

	if err := json.Unmarshal([]byte(raw), &data); err == nil {
		return validateTurnData(data)
	}

	if m := fencedJSONRE.FindStringSubmatch(raw); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &data); err == nil {
			return validateTurnData(data)
		}
	}

	if m := bareJSONRE.FindString(raw); m != "" {
		if err := json.Unmarshal([]byte(m), &data); err == nil {
			return validateTurnData(data)
		}
	}

	return SafeDefaultTurnData()
}

// validateTurnData guarantees the reply is user-presentable. If the model left
// the reply empty or leaked JSON into it, a replacement is built from the
// structured fields so raw JSON is never shown to a patient.
func validateTurnData(data ExtractedTurnData) ExtractedTurnData {
	if strings.TrimSpace(data.Reply) == "" || looksLikeJSON(data.Reply) {
		data.Reply = rebuildReply(data)
	}
	return data
}

func rebuildReply(data ExtractedTurnData) string {
	if data.IsEmergency {
		return "This appears to be a medical emergency. " +
			"Please call 911 or 112 immediately for urgent care."
	}
	if dept := strings.TrimSpace(data.Department); dept != "" {
		symptoms := "your symptoms"
		if len(data.Symptoms) > 0 {
			symptoms = strings.Join(data.Symptoms, ", ")
		}
		severity := strings.TrimSpace(data.Severity)
		if severity == "" {
			severity = "under review"
		}
		return "Based on " + symptoms + ", I recommend visiting " + dept + ". " +
			"Assessed severity: " + severity + ". Would you like to book an appointment?"
	}
	return clarificationFallbackReply
}

// jsonKeyMarkers are schema keys whose presence in a reply means the model
// leaked its structured output into the user-facing text.
var jsonKeyMarkers = []string{
	`"response":`,
	`"severity":`,
	`"extracted_symptoms":`,
	`"is_emergency":`,
	`"suggested_next_state":`,
}

func looksLikeJSON(text string) bool {
	stripped := strings.TrimSpace(text)
	if strings.HasPrefix(stripped, "{") || strings.HasPrefix(stripped, "[") {
		if json.Valid([]byte(stripped)) {
			return true
		}
	}
	markers := 0
	for _, marker := range jsonKeyMarkers {
		if strings.Contains(stripped, marker) {
			markers++
		}
	}
	return markers >= 2
}

// SanitizeReply is the last line of defense before a reply leaves the engine:
// if the text still is a whole JSON object, surface its response field, or a
// neutral clarification if it has none.
func SanitizeReply(reply string) string {
	stripped := strings.TrimSpace(reply)
	if !strings.HasPrefix(stripped, "{") {
		return reply
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(stripped), &payload); err != nil {
		return reply
	}
	if response, ok := payload["response"].(string); ok && strings.TrimSpace(response) != "" {
		return response
	}
	return clarificationFallbackReply
}
