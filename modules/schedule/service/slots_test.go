package service

import (
	"testing"
	"time"

	"confhub/modules/schedule/entity"
)

func rng(startH, startM, endH, endM int) entity.TimeRange {
	return entity.TimeRange{Start: day(startH, startM), End: day(endH, endM)}
}

func TestFreeIntervals(t *testing.T) {
	open, close := day(9, 0), day(19, 0)

	tests := []struct {
		name string
		busy []entity.TimeRange
		want []entity.TimeRange
	}{
		{
			name: "empty day is one free block",
			busy: nil,
			want: []entity.TimeRange{rng(9, 0, 19, 0)},
		},
		{
			name: "single booking splits the day",
			busy: []entity.TimeRange{rng(12, 0, 13, 0)},
			want: []entity.TimeRange{rng(9, 0, 12, 0), rng(13, 0, 19, 0)},
		},
		{
			name: "booking at opening",
			busy: []entity.TimeRange{rng(9, 0, 10, 0)},
			want: []entity.TimeRange{rng(10, 0, 19, 0)},
		},
		{
			name: "booking at closing",
			busy: []entity.TimeRange{rng(18, 0, 19, 0)},
			want: []entity.TimeRange{rng(9, 0, 18, 0)},
		},
		{
			name: "unsorted and overlapping bookings merge",
			busy: []entity.TimeRange{rng(14, 0, 16, 0), rng(10, 0, 11, 30), rng(15, 0, 17, 0)},
			want: []entity.TimeRange{rng(9, 0, 10, 0), rng(11, 30, 14, 0), rng(17, 0, 19, 0)},
		},
		{
			name: "back-to-back bookings leave no gap between them",
			busy: []entity.TimeRange{rng(10, 0, 11, 0), rng(11, 0, 12, 0)},
			want: []entity.TimeRange{rng(9, 0, 10, 0), rng(12, 0, 19, 0)},
		},
		{
			name: "booking spilling past the window is clipped",
			busy: []entity.TimeRange{rng(8, 0, 10, 0), rng(18, 30, 20, 0)},
			want: []entity.TimeRange{rng(10, 0, 18, 30)},
		},
		{
			name: "fully booked day",
			busy: []entity.TimeRange{rng(9, 0, 19, 0)},
			want: []entity.TimeRange{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FreeIntervals(open, close, tt.busy)
			if len(got) != len(tt.want) {
				t.Fatalf("FreeIntervals() returned %d ranges, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if !got[i].Start.Equal(tt.want[i].Start) || !got[i].End.Equal(tt.want[i].End) {
					t.Errorf("range %d = %v..%v, want %v..%v",
						i, got[i].Start, got[i].End, tt.want[i].Start, tt.want[i].End)
				}
			}
		})
	}
}

func TestFixedSlots(t *testing.T) {
	open, close := day(9, 0), day(12, 0)

	t.Run("empty day yields all-available grid", func(t *testing.T) {
		slots := FixedSlots(open, close, time.Hour, nil)
		if len(slots) != 3 {
			t.Fatalf("got %d slots, want 3", len(slots))
		}
		for i, s := range slots {
			if !s.Available {
				t.Errorf("slot %d unexpectedly unavailable", i)
			}
		}
	})

	t.Run("partial overlap blocks the whole cell", func(t *testing.T) {
		// A 10:30-11:30 booking blocks both the 10:00 and 11:00 cells.
		busy := []entity.TimeRange{rng(10, 30, 11, 30)}
		slots := FixedSlots(open, close, time.Hour, busy)
		want := []bool{true, false, false}
		for i, s := range slots {
			if s.Available != want[i] {
				t.Errorf("slot %d available = %v, want %v", i, s.Available, want[i])
			}
		}
	})

	t.Run("back-to-back booking leaves neighbor cells free", func(t *testing.T) {
		busy := []entity.TimeRange{rng(10, 0, 11, 0)}
		slots := FixedSlots(open, close, time.Hour, busy)
		want := []bool{true, false, true}
		for i, s := range slots {
			if s.Available != want[i] {
				t.Errorf("slot %d available = %v, want %v", i, s.Available, want[i])
			}
		}
	})

	t.Run("trailing partial cell is dropped", func(t *testing.T) {
		slots := FixedSlots(day(9, 0), day(10, 30), time.Hour, nil)
		if len(slots) != 1 {
			t.Fatalf("got %d slots, want 1", len(slots))
		}
	})
}

func TestAvailableSlots(t *testing.T) {
	busy := []entity.TimeRange{rng(9, 0, 10, 0), rng(11, 0, 12, 0)}
	got := AvailableSlots(day(9, 0), day(12, 0), time.Hour, busy)
	if len(got) != 1 {
		t.Fatalf("got %d free slots, want 1: %v", len(got), got)
	}
	if !got[0].Start.Equal(day(10, 0)) || !got[0].End.Equal(day(11, 0)) {
		t.Errorf("free slot = %v..%v, want 10:00..11:00", got[0].Start, got[0].End)
	}
}
