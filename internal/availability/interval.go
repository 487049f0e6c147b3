package availability

import "time"

const minutesPerDay = 1440

// Span is a time-of-day interval on a shared anchor date, in minutes from
// local midnight. End <= Start means the interval crosses midnight and ends
// on the following day; Start == End is read as a full 24 hours. End may
// also already exceed 1440 when the caller has done the rollover itself.
type Span struct {
	Start int
	End   int
}

// Overlaps reports whether two spans on the same anchor date share any point
// in time. Intervals are half-open: a span ending exactly where another
// starts is not an overlap, so back-to-back bookings are legal.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	a1, a2 := normalizeSpan(aStart, aEnd)
	b1, b2 := normalizeSpan(bStart, bEnd)
	// A crossing interval occupies the tail of the anchor day and the head of
	// the next. Comparing against the day-shifted copy of the other span
	// catches pairings like 23:00-01:00 vs 00:00-00:30, where the collision
	// happens on the following date.
	return linearOverlap(a1, a2, b1, b2) ||
		linearOverlap(a1, a2, b1+minutesPerDay, b2+minutesPerDay) ||
		linearOverlap(a1+minutesPerDay, a2+minutesPerDay, b1, b2)
}

func normalizeSpan(start, end int) (int, int) {
	if end <= start {
		end += minutesPerDay
	}
	return start, end
}

func linearOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Interval is an absolute-time interval, used where reservations have
// already been resolved to instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

// OverlapsAny reports whether the half-open interval [start, end) intersects
// any of the busy intervals.
func OverlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
