package handlers

import (
	"testing"
	"time"
)

func TestMinutesToClock(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		600:  "10:00",
		615:  "10:15",
		1439: "23:59",
	}
	for in, want := range cases {
		if got := minutesToClock(in); got != want {
			t.Fatalf("minutesToClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestClientLocation(t *testing.T) {
	fallback, err := time.LoadLocation("Europe/Bratislava")
	if err != nil {
		t.Fatalf("load fallback: %v", err)
	}

	loc, err := clientLocation("", fallback)
	if err != nil || loc != fallback {
		t.Fatalf("empty tz should fall back, got %v %v", loc, err)
	}

	loc, err = clientLocation("America/New_York", fallback)
	if err != nil || loc.String() != "America/New_York" {
		t.Fatalf("named tz: got %v %v", loc, err)
	}

	if _, err := clientLocation("Mars/Olympus", fallback); err == nil {
		t.Fatal("unknown tz should error, not fall back")
	}
}
