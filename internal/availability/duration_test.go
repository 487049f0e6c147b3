package availability

import (
	"errors"
	"testing"
)

func TestDurationMinutes(t *testing.T) {
	cases := map[string]int{
		"15 minutes": 15,
		"30 minutes": 30,
		"1 hour":     60,
		"1.5 hours":  90,
		"2 hours":    120,
		"24 hours":   1440,
	}
	for label, want := range cases {
		got, err := DurationMinutes(label)
		if err != nil {
			t.Fatalf("DurationMinutes(%q) failed: %v", label, err)
		}
		if got != want {
			t.Fatalf("DurationMinutes(%q) = %d, want %d", label, got, want)
		}
	}
}

func TestDurationMinutes_Unknown(t *testing.T) {
	for _, label := range []string{"bogus", "", "60", "1hour", "45 minutes"} {
		_, err := DurationMinutes(label)
		if !errors.Is(err, ErrUnknownDuration) {
			t.Fatalf("DurationMinutes(%q) err = %v, want ErrUnknownDuration", label, err)
		}
	}
}

func TestAddDuration_DoesNotWrap(t *testing.T) {
	// 23:00 + 2 hours runs into the next day; the sum is reported as-is.
	if got := AddDuration(1380, 120); got != 1500 {
		t.Fatalf("AddDuration(1380, 120) = %d, want 1500", got)
	}
	if got := AddDuration(0, 1440); got != 1440 {
		t.Fatalf("AddDuration(0, 1440) = %d, want 1440", got)
	}
}
