package domain

import "testing"

func TestDocumentStatus_Valid(t *testing.T) {
	valid := []DocumentStatus{StatusProcessing, StatusReady, StatusFailed}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	if DocumentStatus("archived").Valid() {
		t.Error("unknown status should not be valid")
	}
	if DocumentStatus("").Valid() {
		t.Error("empty status should not be valid")
	}
}

func TestDocumentStatus_Terminal(t *testing.T) {
	if StatusProcessing.Terminal() {
		t.Error("processing should not be terminal")
	}
	if !StatusReady.Terminal() {
		t.Error("ready should be terminal")
	}
	if !StatusFailed.Terminal() {
		t.Error("failed should be terminal")
	}
}

func TestDocumentStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from DocumentStatus
		to   DocumentStatus
		want bool
	}{
		{"processing to ready", StatusProcessing, StatusReady, true},
		{"processing to failed", StatusProcessing, StatusFailed, true},
		{"processing to processing", StatusProcessing, StatusProcessing, true},
		{"ready to processing", StatusReady, StatusProcessing, false},
		{"ready to failed", StatusReady, StatusFailed, false},
		{"ready to ready", StatusReady, StatusReady, true},
		{"failed to processing", StatusFailed, StatusProcessing, false},
		{"failed to ready", StatusFailed, StatusReady, false},
		{"processing to unknown", StatusProcessing, DocumentStatus("gone"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%q -> %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestNoAnswer(t *testing.T) {
	resp := NoAnswer()
	if resp.Answer != NoAnswerText {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
	if resp.Sources == nil || len(resp.Sources) != 0 {
		t.Error("expected empty, non-nil sources")
	}
}
