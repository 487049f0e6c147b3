package availability

import "testing"

func TestCheckConflict_SingleReservation(t *testing.T) {
	// One reservation 09:00-10:00; a proposed 09:30-10:30 collides.
	existing := []Span{{540, 600}}
	if !CheckConflict(existing, Span{570, 630}) {
		t.Fatal("09:30-10:30 should conflict with 09:00-10:00")
	}
	// Back-to-back is legal.
	if CheckConflict(existing, Span{600, 660}) {
		t.Fatal("10:00-11:00 should not conflict with 09:00-10:00")
	}
}

func TestCheckConflict_PriorDayCrossing(t *testing.T) {
	// A reservation 23:00-01:00 entered the candidate set from the previous
	// day; a proposed 00:15-00:45 on the anchor date collides with its tail.
	existing := []Span{{1380, 60}}
	if !CheckConflict(existing, Span{15, 45}) {
		t.Fatal("00:15-00:45 should conflict with a 23:00-01:00 crossing reservation")
	}
	if CheckConflict(existing, Span{60, 120}) {
		t.Fatal("01:00-02:00 should not conflict with 23:00-01:00")
	}
}

func TestCheckConflict_EmptyDay(t *testing.T) {
	if CheckConflict(nil, Span{540, 600}) {
		t.Fatal("no reservations means no conflict")
	}
}

func TestCheckConflict_Pure(t *testing.T) {
	existing := []Span{{540, 600}, {720, 780}}
	proposed := Span{570, 630}
	first := CheckConflict(existing, proposed)
	second := CheckConflict(existing, proposed)
	if first != second {
		t.Fatalf("CheckConflict not deterministic: %v then %v", first, second)
	}
}

func TestFindNextFreeSlot(t *testing.T) {
	// Reservation 09:00-10:00; asking for 60 minutes from 09:30 lands on 10:00.
	existing := []Span{{540, 600}}
	got, ok := FindNextFreeSlot(existing, 60, 570)
	if !ok {
		t.Fatal("expected a free slot")
	}
	if got != 600 {
		t.Fatalf("FindNextFreeSlot = %d, want 600 (10:00)", got)
	}
}

func TestFindNextFreeSlot_EmptyDay(t *testing.T) {
	got, ok := FindNextFreeSlot(nil, 60, 0)
	if !ok || got != 0 {
		t.Fatalf("FindNextFreeSlot on empty day = (%d,%v), want (0,true)", got, ok)
	}
}

func TestFindNextFreeSlot_AlignsToStep(t *testing.T) {
	got, ok := FindNextFreeSlot(nil, 30, 547)
	if !ok || got != 555 {
		t.Fatalf("FindNextFreeSlot from 09:07 = (%d,%v), want (555,true)", got, ok)
	}
}

func TestFindNextFreeSlot_NothingBeforeMidnight(t *testing.T) {
	// 23:00-24:00 is taken and the window may not extend past midnight.
	existing := []Span{{1380, 1440}}
	if _, ok := FindNextFreeSlot(existing, 60, 1380); ok {
		t.Fatal("no 60-minute window remains before midnight")
	}
	if _, ok := FindNextFreeSlot(nil, 1440, 15); ok {
		t.Fatal("a 24-hour window cannot start after midnight")
	}
}

func TestFindNextFreeSlot_SkipsMultipleReservations(t *testing.T) {
	existing := []Span{{540, 600}, {600, 690}, {705, 720}}
	got, ok := FindNextFreeSlot(existing, 15, 540)
	if !ok || got != 690 {
		t.Fatalf("FindNextFreeSlot = (%d,%v), want (690,true)", got, ok)
	}
}

func TestFindNextFreeSlot_BadInput(t *testing.T) {
	if _, ok := FindNextFreeSlot(nil, 0, 0); ok {
		t.Fatal("zero duration has no slot")
	}
	if _, ok := FindNextFreeSlot(nil, 60, 1440); ok {
		t.Fatal("scan cannot start at or past midnight")
	}
}
