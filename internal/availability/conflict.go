package availability

// SlotStepMinutes is the booking granularity. Both the booking form and the
// free-slot scan move in 15-minute steps.
const SlotStepMinutes = 15

// CheckConflict reports whether the proposed span collides with any span in
// the candidate set. The caller gathers the candidates, including
// reservations that started the previous day and cross into the anchor date;
// this function only decides, it performs no I/O and is safe to call from
// any number of goroutines.
func CheckConflict(existing []Span, proposed Span) bool {
	for _, e := range existing {
		if Overlaps(proposed.Start, proposed.End, e.Start, e.End) {
			return true
		}
	}
	return false
}

// FindNextFreeSlot scans forward from notBefore, in SlotStepMinutes steps,
// for the earliest start of a durationMinutes window that overlaps no
// existing reservation and ends by midnight. First fit only; ok is false
// when no such window exists before the end of the day.
func FindNextFreeSlot(existing []Span, durationMinutes, notBefore int) (start int, ok bool) {
	if durationMinutes <= 0 || notBefore < 0 || notBefore >= minutesPerDay {
		return 0, false
	}
	start = notBefore
	if rem := start % SlotStepMinutes; rem != 0 {
		start += SlotStepMinutes - rem
	}
	for ; start+durationMinutes <= minutesPerDay; start += SlotStepMinutes {
		if !CheckConflict(existing, Span{Start: start, End: start + durationMinutes}) {
			return start, true
		}
	}
	return 0, false
}
