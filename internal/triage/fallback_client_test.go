package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/healthassist/triage-platform/pkg/logging"
)

func TestFallbackClientUsesPrimaryFirst(t *testing.T) {
	primary := &scriptedLLM{responses: []string{"primary"}}
	fallback := &scriptedLLM{responses: []string{"fallback"}}
	client := NewFallbackLLMClient(primary, fallback, logging.Default())

	resp, err := client.Complete(context.Background(), LLMRequest{})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if resp.Text != "primary" {
		t.Fatalf("expected primary response, got %q", resp.Text)
	}
	if fallback.calls != 0 {
		t.Fatal("fallback must not be called when primary succeeds")
	}
}

func TestFallbackClientFallsBackOnError(t *testing.T) {
	primary := &scriptedLLM{err: errors.New("quota exceeded")}
	fallback := &scriptedLLM{responses: []string{"fallback"}}
	client := NewFallbackLLMClient(primary, fallback, logging.Default())

	resp, err := client.Complete(context.Background(), LLMRequest{})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if resp.Text != "fallback" {
		t.Fatalf("expected fallback response, got %q", resp.Text)
	}
}

func TestFallbackClientPropagatesWithoutFallback(t *testing.T) {
	primary := &scriptedLLM{err: errors.New("quota exceeded")}
	client := NewFallbackLLMClient(primary, nil, logging.Default())

	if _, err := client.Complete(context.Background(), LLMRequest{}); err == nil {
		t.Fatal("expected primary error to propagate")
	}
}

func TestFallbackClientReportsLastError(t *testing.T) {
	primary := &scriptedLLM{err: errors.New("primary down")}
	fallback := &scriptedLLM{err: errors.New("fallback down")}
	client := NewFallbackLLMClient(primary, fallback, logging.Default())

	_, err := client.Complete(context.Background(), LLMRequest{})
	if err == nil || err.Error() != "fallback down" {
		t.Fatalf("expected fallback error surfaced, got %v", err)
	}
}
