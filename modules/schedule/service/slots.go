package service

import (
	"sort"
	"time"

	"confhub/modules/schedule/entity"
)

// FreeIntervals computes the maximal free ranges inside [open, close) left
// over after subtracting the busy ranges. Busy ranges may overlap each other
// and extend past the window; they are clipped and merged first. The result
// is sorted and non-overlapping.
func FreeIntervals(open, close time.Time, busy []entity.TimeRange) []entity.TimeRange {
	if !open.Before(close) {
		return nil
	}

	clipped := make([]entity.TimeRange, 0, len(busy))
	for _, b := range busy {
		s, e := b.Start, b.End
		if s.Before(open) {
			s = open
		}
		if e.After(close) {
			e = close
		}
		if s.Before(e) {
			clipped = append(clipped, entity.TimeRange{Start: s, End: e})
		}
	}
	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].Start.Before(clipped[j].Start)
	})

	free := []entity.TimeRange{}
	cursor := open
	for _, b := range clipped {
		if cursor.Before(b.Start) {
			free = append(free, entity.TimeRange{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(close) {
		free = append(free, entity.TimeRange{Start: cursor, End: close})
	}
	return free
}

// FixedSlots lays a grid of slotSize cells over [open, close) and marks each
// cell available iff it clashes with no busy range. A trailing cell shorter
// than slotSize is not emitted.
func FixedSlots(open, close time.Time, slotSize time.Duration, busy []entity.TimeRange) []entity.Slot {
	if slotSize <= 0 || !open.Before(close) {
		return nil
	}

	var slots []entity.Slot
	for s := open; !s.Add(slotSize).After(close); s = s.Add(slotSize) {
		cell := entity.TimeRange{Start: s, End: s.Add(slotSize)}
		available := true
		for _, b := range busy {
			if cell.Overlaps(b) {
				available = false
				break
			}
		}
		slots = append(slots, entity.Slot{Start: cell.Start, End: cell.End, Available: available})
	}
	return slots
}

// AvailableSlots filters FixedSlots down to the free cells.
func AvailableSlots(open, close time.Time, slotSize time.Duration, busy []entity.TimeRange) []entity.TimeRange {
	var out []entity.TimeRange
	for _, s := range FixedSlots(open, close, slotSize, busy) {
		if s.Available {
			out = append(out, entity.TimeRange{Start: s.Start, End: s.End})
		}
	}
	return out
}
