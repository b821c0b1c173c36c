package triage

import "testing"

const sampleTurnJSON = `{
	"response": "That sounds uncomfortable. How long have you had the cough?",
	"extracted_symptoms": ["cough", "fever"],
	"severity": "mild",
	"is_emergency": false,
	"recommended_department": "",
	"intent": "symptom_report",
	"needs_clarification": true,
	"collected_info": {},
	"suggested_next_state": "symptom_collection"
}`

func TestParseTurnDataDirectJSON(t *testing.T) {
	data := ParseTurnData(sampleTurnJSON)
	if data.Reply != "That sounds uncomfortable. How long have you had the cough?" {
		t.Fatalf("unexpected reply: %q", data.Reply)
	}
	if len(data.Symptoms) != 2 || data.Symptoms[0] != "cough" {
		t.Fatalf("unexpected symptoms: %v", data.Symptoms)
	}
	if data.Severity != "mild" || data.Intent != "symptom_report" {
		t.Fatalf("unexpected fields: %+v", data)
	}
}

func TestParseTurnDataFencedJSON(t *testing.T) {
	raw := "Here is my assessment:\n```json\n" + sampleTurnJSON + "\n```\nLet me know."
	data := ParseTurnData(raw)
	if data.Intent != "symptom_report" {
		t.Fatalf("fenced JSON not extracted: %+v", data)
	}
}

func TestParseTurnDataEmbeddedJSON(t *testing.T) {
	raw := "Sure! " + sampleTurnJSON + " hope that helps"
	data := ParseTurnData(raw)
	if data.Intent != "symptom_report" {
		t.Fatalf("embedded JSON not extracted: %+v", data)
	}
}

func TestParseTurnDataGarbageFallsBackSafely(t *testing.T) {
	data := ParseTurnData("I am a teapot and cannot answer in the agreed format")
	if data.IsEmergency {
		t.Fatal("safe default must never flag an emergency")
	}
	if data.SuggestedState != "" {
		t.Fatalf("safe default must not propose a transition, got %q", data.SuggestedState)
	}
	if data.Reply == "" {
		t.Fatal("safe default must carry a user-presentable reply")
	}
}

func TestParseTurnDataRebuildsLeakedReply(t *testing.T) {
	raw := `{
		"response": "{\"severity\": \"mild\", \"is_emergency\": false, \"response\": \"hi\"}",
		"extracted_symptoms": ["headache"],
		"severity": "mild",
		"recommended_department": "Neurology",
		"intent": "symptom_report"
	}`
	data := ParseTurnData(raw)
	if looksLikeJSON(data.Reply) {
		t.Fatalf("leaked JSON survived validation: %q", data.Reply)
	}
	if data.Reply == "" {
		t.Fatal("rebuilt reply must not be empty")
	}
}

func TestParseTurnDataRebuildsEmptyReplyForEmergency(t *testing.T) {
	data := ParseTurnData(`{"response": "", "is_emergency": true}`)
	if data.Reply == "" {
		t.Fatal("expected a rebuilt emergency reply")
	}
}

func TestSanitizeReply(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "plain text passes through",
			reply: "How long have you felt this way?",
			want:  "How long have you felt this way?",
		},
		{
			name:  "whole JSON object surfaces response field",
			reply: `{"response": "Noted, thanks!", "severity": "mild"}`,
			want:  "Noted, thanks!",
		},
		{
			name:  "JSON without response degrades to clarification",
			reply: `{"severity": "mild"}`,
			want:  clarificationFallbackReply,
		},
		{
			name:  "invalid JSON-looking text passes through",
			reply: "{not actually json",
			want:  "{not actually json",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeReply(tc.reply); got != tc.want {
				t.Fatalf("SanitizeReply(%q) = %q, want %q", tc.reply, got, tc.want)
			}
		})
	}
}
