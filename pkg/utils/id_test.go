package utils

import (
	"strings"
	"testing"
)

func TestGenerateTrialIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateTrialID()
		if !strings.HasPrefix(id, "trial-") {
			t.Fatalf("trial ID %q lacks the trial- prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate trial ID: %s", id)
		}
		seen[id] = true
	}
}
