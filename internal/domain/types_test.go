package domain

import (
	"errors"
	"testing"
)

func TestMutationStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		value    MutationStatus
		expected string
		carrier  bool
	}{
		{"Untested", MutationUntested, "0", false},
		{"Negative", MutationNegative, "N", false},
		{"BRCA1", MutationBRCA1, "1", true},
		{"BRCA2", MutationBRCA2, "2", true},
		{"Both", MutationBoth, "3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value.String() != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, tt.value.String())
			}
			if tt.value.IsCarrier() != tt.carrier {
				t.Errorf("Expected carrier %v, got %v", tt.carrier, tt.value.IsCarrier())
			}
			parsed, err := ParseMutationStatus(tt.expected)
			if err != nil {
				t.Fatalf("Unexpected parse error: %v", err)
			}
			if parsed != tt.value {
				t.Errorf("Expected parsed %v, got %v", tt.value, parsed)
			}
		})
	}
}

func TestParseMutationStatusInvalid(t *testing.T) {
	_, err := ParseMutationStatus("P")
	if !errors.Is(err, ErrInvalidMutationStatus) {
		t.Errorf("Expected ErrInvalidMutationStatus, got %v", err)
	}
}

func TestCombineMutations(t *testing.T) {
	tests := []struct {
		brca1, brca2 bool
		expected     MutationStatus
	}{
		{false, false, MutationNegative},
		{true, false, MutationBRCA1},
		{false, true, MutationBRCA2},
		{true, true, MutationBoth},
	}

	for _, tt := range tests {
		if got := CombineMutations(tt.brca1, tt.brca2); got != tt.expected {
			t.Errorf("CombineMutations(%v, %v) = %v, want %v", tt.brca1, tt.brca2, got, tt.expected)
		}
	}
}

func TestMutationStatusGenes(t *testing.T) {
	if !MutationBoth.HasBRCA1() || !MutationBoth.HasBRCA2() {
		t.Error("Both should carry BRCA1 and BRCA2")
	}
	if MutationBRCA1.HasBRCA2() {
		t.Error("BRCA1 should not carry BRCA2")
	}
	if MutationNegative.HasBRCA1() || MutationUntested.HasBRCA2() {
		t.Error("non-carriers should carry neither gene")
	}
	if MutationUntested.IsTested() || !MutationNegative.IsTested() {
		t.Error("only Untested reports no test information")
	}
}

func TestSex(t *testing.T) {
	if Male.Opposite() != Female || Female.Opposite() != Male {
		t.Error("Opposite should swap the sexes")
	}
	if Sex("X").IsValid() {
		t.Error("unexpected sex should be invalid")
	}
}

func TestUnknownMarkers(t *testing.T) {
	m := UnknownMarkers()
	for _, v := range []MarkerStatus{m.ER, m.PR, m.HER2, m.CK14, m.CK56} {
		if v != MarkerUnknown {
			t.Errorf("Expected %q, got %q", MarkerUnknown, v)
		}
	}
}
