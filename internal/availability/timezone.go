package availability

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTime marks a wall-clock reading that cannot be resolved in the
// requested timezone: malformed input, or a reading the zone's clocks never
// show.
var ErrInvalidTime = errors.New("invalid wall-clock time")

// WallClock is a calendar date plus a time of day as a user perceives it.
// It is ambiguous until paired with a timezone.
type WallClock struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// ParseWallClock parses a "2006-01-02" date and a "15:04" time of day.
func ParseWallClock(date, hhmm string) (WallClock, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return WallClock{}, fmt.Errorf("%w: %q", ErrInvalidTime, date)
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return WallClock{}, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	return WallClock{
		Year:   d.Year(),
		Month:  int(d.Month()),
		Day:    d.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}, nil
}

// MinutesOfDay returns the reading's position within its calendar day.
func (w WallClock) MinutesOfDay() int {
	return w.Hour*60 + w.Minute
}

func (w WallClock) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", w.Year, w.Month, w.Day, w.Hour, w.Minute)
}

// ToInstant resolves a wall-clock reading in loc to an absolute instant.
//
// Readings inside a DST gap (clocks jump forward, the reading never exists)
// round forward to the first valid instant after the gap. Ambiguous readings
// (clocks set back, the reading occurs twice) resolve to the earlier of the
// two instants.
func ToInstant(w WallClock, loc *time.Location) (time.Time, error) {
	if w.Hour < 0 || w.Hour > 23 || w.Minute < 0 || w.Minute > 59 {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidTime, w)
	}
	guess := time.Date(w.Year, time.Month(w.Month), w.Day, w.Hour, w.Minute, 0, 0, time.UTC)
	if !sameWallClock(guess, w) {
		// time.Date normalized an out-of-range date such as February 30.
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidTime, w)
	}

	// Try every UTC offset the zone uses near this reading. Shifting the
	// reading by a candidate offset yields an instant; the candidate is real
	// if that instant's local wall clock matches the reading. No match means
	// the reading fell in a spring-forward gap; two matches mean the clocks
	// were set back across it.
	var candidates []time.Time
	for _, offset := range offsetsAround(guess, loc) {
		t := guess.Add(-time.Duration(offset) * time.Second)
		if sameWallClock(t.In(loc), w) {
			candidates = append(candidates, t)
		}
	}

	switch len(candidates) {
	case 0:
		return firstInstantAfterGap(guess, loc), nil
	case 1:
		return candidates[0], nil
	default:
		earliest := candidates[0]
		for _, c := range candidates[1:] {
			if c.Before(earliest) {
				earliest = c
			}
		}
		return earliest, nil
	}
}

// FromInstant is the inverse of ToInstant. Every instant maps to exactly one
// wall-clock reading in a given zone, so it cannot fail.
func FromInstant(t time.Time, loc *time.Location) WallClock {
	lt := t.In(loc)
	return WallClock{
		Year:   lt.Year(),
		Month:  int(lt.Month()),
		Day:    lt.Day(),
		Hour:   lt.Hour(),
		Minute: lt.Minute(),
	}
}

// DayWindow returns the instants bounding the calendar day holding w in loc:
// local midnight and the following local midnight.
func DayWindow(w WallClock, loc *time.Location) (time.Time, time.Time, error) {
	start, err := ToInstant(WallClock{Year: w.Year, Month: w.Month, Day: w.Day}, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	next := time.Date(w.Year, time.Month(w.Month), w.Day+1, 0, 0, 0, 0, time.UTC)
	end, err := ToInstant(FromInstant(next, time.UTC), loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func sameWallClock(t time.Time, w WallClock) bool {
	return t.Year() == w.Year &&
		int(t.Month()) == w.Month &&
		t.Day() == w.Day &&
		t.Hour() == w.Hour &&
		t.Minute() == w.Minute
}

// offsetsAround collects the distinct UTC offsets loc uses within ±15h of
// the reading. 15h covers every real zone on either side of a transition.
func offsetsAround(guess time.Time, loc *time.Location) []int {
	var offsets []int
	for _, d := range []time.Duration{-15 * time.Hour, 0, 15 * time.Hour} {
		_, offset := guess.Add(d).In(loc).Zone()
		known := false
		for _, o := range offsets {
			if o == offset {
				known = true
				break
			}
		}
		if !known {
			offsets = append(offsets, offset)
		}
	}
	return offsets
}

// firstInstantAfterGap locates the zone transition nearest the impossible
// reading by bisection and returns the first instant on the far side, i.e.
// the moment the clocks land after jumping forward.
func firstInstantAfterGap(guess time.Time, loc *time.Location) time.Time {
	lo := guess.Add(-15 * time.Hour)
	hi := guess.Add(15 * time.Hour)
	_, loOffset := lo.In(loc).Zone()
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2)
		if _, offset := mid.In(loc).Zone(); offset == loOffset {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi.Truncate(time.Second)
}
