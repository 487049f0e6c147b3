package availability

import "testing"

func TestOverlaps_Basic(t *testing.T) {
	cases := []struct {
		name                   string
		aStart, aEnd           int
		bStart, bEnd           int
		want                   bool
	}{
		{"disjoint", 540, 600, 660, 720, false},
		{"contained", 540, 660, 570, 600, true},
		{"partial", 540, 630, 600, 720, true},
		{"identical", 540, 600, 540, 600, true},
		{"touching end-to-start", 540, 600, 600, 660, false},
		{"touching start-to-end", 600, 660, 540, 600, false},
		{"one minute shared", 540, 601, 600, 660, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("Overlaps(%d,%d,%d,%d) = %v, want %v", tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
		})
	}
}

func TestOverlaps_Symmetric(t *testing.T) {
	spans := []Span{
		{540, 600}, {570, 630}, {600, 660}, {0, 30},
		{1380, 60}, {1410, 15}, {600, 600}, {0, 1440},
	}
	for _, a := range spans {
		for _, b := range spans {
			ab := Overlaps(a.Start, a.End, b.Start, b.End)
			ba := Overlaps(b.Start, b.End, a.Start, a.End)
			if ab != ba {
				t.Fatalf("asymmetric: Overlaps(%v,%v)=%v but Overlaps(%v,%v)=%v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestOverlaps_MidnightCrossing(t *testing.T) {
	// 23:00-01:00 collides with 00:00-00:30 on the following date.
	if !Overlaps(1380, 60, 0, 30) {
		t.Fatal("23:00-01:00 should overlap 00:00-00:30")
	}
	if Overlaps(1380, 60, 120, 180) {
		t.Fatal("23:00-01:00 should not overlap 02:00-03:00")
	}
	// Tail of the crossing interval.
	if !Overlaps(1380, 60, 1410, 1440) {
		t.Fatal("23:00-01:00 should overlap 23:30-24:00")
	}
	// Touching the crossing interval's far end.
	if Overlaps(1380, 60, 60, 120) {
		t.Fatal("23:00-01:00 should not overlap 01:00-02:00")
	}
	// Two crossing intervals.
	if !Overlaps(1380, 60, 1410, 90) {
		t.Fatal("23:00-01:00 should overlap 23:30-01:30")
	}
}

func TestOverlaps_FullDay(t *testing.T) {
	// Start == End reads as 24 hours and collides with everything that day.
	others := []Span{{0, 15}, {540, 600}, {1425, 1440}, {1380, 60}}
	for _, o := range others {
		if !Overlaps(600, 600, o.Start, o.End) {
			t.Fatalf("full-day span should overlap %v", o)
		}
	}
}

func TestOverlaps_RolledOverEnd(t *testing.T) {
	// Callers may pass an end past 1440 instead of the wrapped form.
	if !Overlaps(1380, 1500, 0, 30) {
		t.Fatal("23:00-25:00 should overlap 00:00-00:30")
	}
	if Overlaps(1380, 1500, 120, 180) {
		t.Fatal("23:00-25:00 should not overlap 02:00-03:00")
	}
}
