package availability

import (
	"errors"
	"fmt"
)

// ErrUnknownDuration marks a duration label outside the booking form's
// closed vocabulary. Callers surface it; an unknown label is never quietly
// treated as an hour.
var ErrUnknownDuration = errors.New("unknown duration label")

var durationLabels = map[string]int{
	"15 minutes": 15,
	"30 minutes": 30,
	"1 hour":     60,
	"1.5 hours":  90,
	"2 hours":    120,
	"24 hours":   1440,
}

// DurationMinutes maps a booking duration label to a minute count.
func DurationMinutes(label string) (int, error) {
	mins, ok := durationLabels[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDuration, label)
	}
	return mins, nil
}

// DurationLabels lists the recognized labels with their minute counts.
func DurationLabels() map[string]int {
	out := make(map[string]int, len(durationLabels))
	for k, v := range durationLabels {
		out[k] = v
	}
	return out
}

// AddDuration computes an end position from a start position within the day.
// The result may reach or exceed 1440, meaning the interval runs into the
// next calendar day; it is the caller's job to handle the rollover.
func AddDuration(startMinutesOfDay, durationMinutes int) int {
	return startMinutesOfDay + durationMinutes
}
