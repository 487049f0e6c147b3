package availability

import (
	"errors"
	"testing"
	"time"
)

func bratislava(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Bratislava")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return loc
}

func TestToInstant_RoundTrip(t *testing.T) {
	loc := bratislava(t)
	// Mid-June: no DST transition anywhere near.
	w := WallClock{Year: 2024, Month: 6, Day: 10, Hour: 9, Minute: 30}
	inst, err := ToInstant(w, loc)
	if err != nil {
		t.Fatalf("ToInstant: %v", err)
	}
	if got := FromInstant(inst, loc); got != w {
		t.Fatalf("round trip: got %v, want %v", got, w)
	}
	// Converting is idempotent once the gap/ambiguity policy is fixed.
	again, err := ToInstant(FromInstant(inst, loc), loc)
	if err != nil {
		t.Fatalf("ToInstant (second): %v", err)
	}
	if !again.Equal(inst) {
		t.Fatalf("idempotence: %v != %v", again, inst)
	}
}

func TestToInstant_UTCOffset(t *testing.T) {
	loc := bratislava(t)
	// Winter: CET, UTC+1.
	inst, err := ToInstant(WallClock{Year: 2024, Month: 1, Day: 15, Hour: 12, Minute: 0}, loc)
	if err != nil {
		t.Fatalf("ToInstant: %v", err)
	}
	if want := time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC); !inst.Equal(want) {
		t.Fatalf("winter: got %v, want %v", inst, want)
	}
	// Summer: CEST, UTC+2. A fixed +1 offset would be an hour off here.
	inst, err = ToInstant(WallClock{Year: 2024, Month: 7, Day: 15, Hour: 12, Minute: 0}, loc)
	if err != nil {
		t.Fatalf("ToInstant: %v", err)
	}
	if want := time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC); !inst.Equal(want) {
		t.Fatalf("summer: got %v, want %v", inst, want)
	}
}

func TestToInstant_SpringForwardGap(t *testing.T) {
	loc := bratislava(t)
	// 2024-03-31: clocks jump 02:00 -> 03:00; 02:30 never exists and rounds
	// forward to the first valid instant, which is 03:00.
	gap, err := ToInstant(WallClock{Year: 2024, Month: 3, Day: 31, Hour: 2, Minute: 30}, loc)
	if err != nil {
		t.Fatalf("ToInstant(02:30): %v", err)
	}
	after, err := ToInstant(WallClock{Year: 2024, Month: 3, Day: 31, Hour: 3, Minute: 0}, loc)
	if err != nil {
		t.Fatalf("ToInstant(03:00): %v", err)
	}
	if !gap.Equal(after) {
		t.Fatalf("gap policy: 02:30 resolved to %v, 03:00 to %v", gap, after)
	}
	if want := time.Date(2024, 3, 31, 1, 0, 0, 0, time.UTC); !gap.Equal(want) {
		t.Fatalf("transition instant: got %v, want %v", gap, want)
	}
}

func TestToInstant_FallBackAmbiguity(t *testing.T) {
	loc := bratislava(t)
	// 2024-10-27: clocks fall back 03:00 -> 02:00; 02:30 occurs twice and the
	// earlier instant (still CEST, 00:30 UTC) wins.
	inst, err := ToInstant(WallClock{Year: 2024, Month: 10, Day: 27, Hour: 2, Minute: 30}, loc)
	if err != nil {
		t.Fatalf("ToInstant: %v", err)
	}
	if want := time.Date(2024, 10, 27, 0, 30, 0, 0, time.UTC); !inst.Equal(want) {
		t.Fatalf("ambiguity policy: got %v, want %v", inst, want)
	}
}

func TestToInstant_Malformed(t *testing.T) {
	loc := bratislava(t)
	bad := []WallClock{
		{Year: 2024, Month: 2, Day: 30, Hour: 10, Minute: 0},
		{Year: 2024, Month: 6, Day: 10, Hour: 24, Minute: 0},
		{Year: 2024, Month: 6, Day: 10, Hour: 10, Minute: 60},
		{Year: 2024, Month: 13, Day: 1, Hour: 10, Minute: 0},
	}
	for _, w := range bad {
		if _, err := ToInstant(w, loc); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("ToInstant(%v) err = %v, want ErrInvalidTime", w, err)
		}
	}
}

func TestParseWallClock(t *testing.T) {
	w, err := ParseWallClock("2024-06-10", "09:30")
	if err != nil {
		t.Fatalf("ParseWallClock: %v", err)
	}
	want := WallClock{Year: 2024, Month: 6, Day: 10, Hour: 9, Minute: 30}
	if w != want {
		t.Fatalf("got %v, want %v", w, want)
	}
	if w.MinutesOfDay() != 570 {
		t.Fatalf("MinutesOfDay = %d, want 570", w.MinutesOfDay())
	}
	if _, err := ParseWallClock("10.6.2024", "09:30"); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("bad date err = %v, want ErrInvalidTime", err)
	}
	if _, err := ParseWallClock("2024-06-10", "9:30pm"); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("bad time err = %v, want ErrInvalidTime", err)
	}
}

func TestDayWindow(t *testing.T) {
	loc := bratislava(t)
	start, end, err := DayWindow(WallClock{Year: 2024, Month: 6, Day: 10, Hour: 14, Minute: 0}, loc)
	if err != nil {
		t.Fatalf("DayWindow: %v", err)
	}
	if want := time.Date(2024, 6, 9, 22, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("day start: got %v, want %v", start, want)
	}
	if want := time.Date(2024, 6, 10, 22, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Fatalf("day end: got %v, want %v", end, want)
	}
	// The spring-forward day is 23 hours long.
	start, end, err = DayWindow(WallClock{Year: 2024, Month: 3, Day: 31}, loc)
	if err != nil {
		t.Fatalf("DayWindow (DST): %v", err)
	}
	if got := end.Sub(start); got != 23*time.Hour {
		t.Fatalf("DST day length = %v, want 23h", got)
	}
}
