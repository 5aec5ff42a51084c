package tool

import (
	"reflect"
	"testing"
)

func TestScanCanonicalOrderCaseInsensitive(t *testing.T) {
	t.Parallel()

	got := Scan("This drug is a MIRACLE cure")
	want := []string{"cure", "miracle"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Scan() = %v, want %v", got, want)
	}
}

func TestScanCleanText(t *testing.T) {
	t.Parallel()

	if got := Scan("Discussed dosing schedule and side effects"); len(got) != 0 {
		t.Fatalf("expected no flagged terms, got %v", got)
	}
}

func TestScanAllTerms(t *testing.T) {
	t.Parallel()

	got := Scan("off-label use, a guaranteed miracle cure. I GUARANTEE it.")
	want := []string{"guarantee", "cure", "miracle", "off-label"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Scan() = %v, want %v", got, want)
	}
}

func TestExecuteComplianceWarning(t *testing.T) {
	t.Parallel()

	out, err := executeCompliance(map[string]any{"text": "it's a miracle"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Tool != ToolCheckCompliance {
		t.Fatalf("unexpected tool: %s", out.Tool)
	}
	if want := "COMPLIANCE WARNING: found restricted terms: miracle. Please rephrase before logging."; out.Output != want {
		t.Fatalf("unexpected output: %q", out.Output)
	}
}

func TestExecuteCompliancePass(t *testing.T) {
	t.Parallel()

	out, err := executeCompliance(map[string]any{"text": "routine follow-up visit"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Output != "Compliance check passed." {
		t.Fatalf("unexpected output: %q", out.Output)
	}
}

func TestExecuteComplianceMissingText(t *testing.T) {
	t.Parallel()

	out, err := executeCompliance(map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Output == "" || out.Output == "Compliance check passed." {
		t.Fatalf("expected a missing-text message, got %q", out.Output)
	}
}
