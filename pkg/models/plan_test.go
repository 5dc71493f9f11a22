package models

import "testing"

func TestStepResultKey(t *testing.T) {
	if got := StepResultKey(1); got != "step1_result" {
		t.Errorf("expected 'step1_result', got %q", got)
	}
	if got := StepResultKey(12); got != "step12_result" {
		t.Errorf("expected 'step12_result', got %q", got)
	}
}

func TestStepToolKey(t *testing.T) {
	if got := StepToolKey(3); got != "step3_tool" {
		t.Errorf("expected 'step3_tool', got %q", got)
	}
}

func TestVerificationStatusValid(t *testing.T) {
	for _, s := range []VerificationStatus{VerifySuccess, VerifyPartial, VerifyFailed} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if VerificationStatus("maybe").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}
