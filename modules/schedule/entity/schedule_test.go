package entity

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2026, 9, 14, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical intervals", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"b inside a", at(10, 0), at(12, 0), at(10, 30), at(11, 30), true},
		{"a inside b", at(10, 30), at(11, 30), at(10, 0), at(12, 0), true},
		{"partial overlap left", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"partial overlap right", at(10, 30), at(11, 30), at(10, 0), at(11, 0), true},
		{"back to back, a then b", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"back to back, b then a", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"disjoint", at(9, 0), at(10, 0), at(14, 0), at(15, 0), false},
		{"one minute overlap", at(10, 0), at(11, 1), at(11, 0), at(12, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			if got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// The predicate is symmetric.
			if sym := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); sym != got {
				t.Errorf("Overlaps() not symmetric: %v vs %v", got, sym)
			}
		})
	}
}

func TestTimeRangeOverlaps(t *testing.T) {
	a := TimeRange{Start: at(10, 0), End: at(11, 0)}
	b := TimeRange{Start: at(10, 30), End: at(11, 30)}
	c := TimeRange{Start: at(11, 0), End: at(12, 0)}

	if !a.Overlaps(b) {
		t.Error("expected a to overlap b")
	}
	if a.Overlaps(c) {
		t.Error("expected back-to-back ranges not to overlap")
	}
	if got := a.Duration(); got != time.Hour {
		t.Errorf("Duration() = %v, want 1h", got)
	}
}
