package alert

import (
	"sort"
	"testing"
)

func TestSeverityOrdering(t *testing.T) {
	ordered := []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		if !ordered[i-1].Less(ordered[i]) {
			t.Fatalf("expected %s < %s", ordered[i-1], ordered[i])
		}
	}
	shuffled := []Severity{SeverityHigh, SeverityLow, SeverityCritical, SeverityMedium}
	sort.Slice(shuffled, func(i, j int) bool { return shuffled[j].Less(shuffled[i]) })
	if shuffled[0] != SeverityCritical || shuffled[3] != SeverityLow {
		t.Fatalf("unexpected sort order %v", shuffled)
	}
}

func TestSeverityUnknownRanksBelowLow(t *testing.T) {
	if !Severity("bogus").Less(SeverityLow) {
		t.Fatalf("unknown severity should rank below low")
	}
	if Severity("bogus").Valid() {
		t.Fatalf("unknown severity should not validate")
	}
}

func TestTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusNew, StatusAcknowledged, true},
		{StatusAcknowledged, StatusInvestigating, true},
		{StatusInvestigating, StatusResolved, true},
		{StatusNew, StatusResolved, true},
		{StatusAcknowledged, StatusResolved, true},
		{StatusNew, StatusInvestigating, false},
		{StatusAcknowledged, StatusNew, false},
		{StatusResolved, StatusNew, false},
		{StatusResolved, StatusAcknowledged, false},
		{StatusResolved, StatusResolved, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: expected %v got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestValidateTransition(t *testing.T) {
	if err := ValidateTransition(StatusNew, StatusAcknowledged); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateTransition(StatusResolved, StatusNew); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition got %v", err)
	}
}
