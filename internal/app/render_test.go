package app

import (
	"strings"
	"testing"
)

func TestRenderSettingsSortedOrder(t *testing.T) {
	settings := map[string]any{"zeta": 1, "alpha": true, "mid": "x"}

	line := renderSettings(settings, 200)

	ia := strings.Index(line, "alpha=")
	im := strings.Index(line, "mid=")
	iz := strings.Index(line, "zeta=")
	if ia < 0 || im < 0 || iz < 0 {
		t.Fatalf("missing keys in %q", line)
	}
	if ia > im || im > iz {
		t.Errorf("keys not in sorted order: %q", line)
	}
}
