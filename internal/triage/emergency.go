package triage

import "strings"

// EmergencyMatch records one emergency keyword hit in a message.
type EmergencyMatch struct {
	Category EmergencyCategory `json:"category"`
	Phrase   string            `json:"phrase"`
}

// scanOrder keeps match output deterministic for identical input.
var scanOrder = []EmergencyCategory{
	CategoryCardiac,
	CategoryRespiratory,
	CategoryNeurological,
	CategoryBleeding,
	CategoryTrauma,
	CategoryToxicology,
	CategoryAllergic,
	CategoryMentalHealth,
}

// ScanEmergencyKeywords runs the rule-based safety net over a single message.
// It is synchronous, needs no network, and runs before any model call, so a
// positive match is actionable even when the model is unreachable. Matching is
// case-insensitive phrase containment over the normalized message.
func ScanEmergencyKeywords(message string) []EmergencyMatch {
	normalized := normalizeText(message)
	if normalized == "" {
		return nil
	}

	var matches []EmergencyMatch
	for _, category := range scanOrder {
		for _, phrase := range emergencyKeywords[category] {
			if strings.Contains(normalized, phrase) {
				matches = append(matches, EmergencyMatch{Category: category, Phrase: phrase})
			}
		}
	}
	return matches
}

// MentionsChild reports whether the message refers to a pediatric patient.
func MentionsChild(message string) bool {
	words := strings.Fields(normalizeText(message))
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:'\"()")
		for _, indicator := range pediatricIndicators {
			if word == indicator || word == indicator+"s" {
				return true
			}
		}
	}
	return false
}

// normalizeText lower-cases the input and collapses all runs of whitespace to
// single spaces so multi-word phrases match across line breaks.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
