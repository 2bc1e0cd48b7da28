package model

import (
	"testing"
	"time"
)

func window(startMin, endMin int) TimeWindow {
	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	return TimeWindow{
		Start: base.Add(time.Duration(startMin) * time.Minute),
		End:   base.Add(time.Duration(endMin) * time.Minute),
	}
}

func TestWindowOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeWindow
		want bool
	}{
		{"identical", window(0, 60), window(0, 60), true},
		{"contained", window(0, 60), window(15, 30), true},
		{"partial at start", window(0, 60), window(-30, 15), true},
		{"partial at end", window(0, 60), window(45, 90), true},
		{"touching at end", window(0, 60), window(60, 90), false},
		{"touching at start", window(0, 60), window(-30, 0), false},
		{"disjoint", window(0, 60), window(120, 180), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("reverse Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindowMinutes(t *testing.T) {
	if got := window(0, 120).Minutes(); got != 120 {
		t.Errorf("Minutes = %d, want 120", got)
	}
	if got := window(0, 1).Minutes(); got != 1 {
		t.Errorf("Minutes = %d, want 1", got)
	}
}
