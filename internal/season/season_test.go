package season

import (
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestResolveSeptemberCutoff(t *testing.T) {
	if got := Resolve(date(2024, 8, 31)); got != "23/24" {
		t.Fatalf("expected 23/24 for 31 Aug 2024, got %s", got)
	}
	if got := Resolve(date(2024, 9, 1)); got != "24/25" {
		t.Fatalf("expected 24/25 for 1 Sep 2024, got %s", got)
	}
}

func TestResolveStableWithinSeason(t *testing.T) {
	d1 := date(2024, 1, 15)
	d2 := date(2024, 8, 30)
	if Resolve(d1) != Resolve(d2) {
		t.Fatalf("dates before September of the same year must share a season: %s vs %s", Resolve(d1), Resolve(d2))
	}
}

func TestResolveCenturyWrap(t *testing.T) {
	if got := Resolve(date(1999, 10, 1)); got != "99/00" {
		t.Fatalf("expected 99/00, got %s", got)
	}
	if got := Resolve(date(2000, 10, 1)); got != "00/01" {
		t.Fatalf("expected 00/01, got %s", got)
	}
}

func TestStartYear(t *testing.T) {
	if got := Code("24/25").StartYear(); got != 24 {
		t.Errorf("expected 24, got %d", got)
	}
	if got := Code("05/06").StartYear(); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if got := Unknown.StartYear(); got != -1 {
		t.Errorf("expected -1 for Unknown, got %d", got)
	}
}

func TestSortNewestFirst(t *testing.T) {
	codes := []Code{"21/22", "24/25", "19/20"}
	SortNewestFirst(codes)
	if codes[0] != "24/25" || codes[2] != "19/20" {
		t.Fatalf("unexpected order: %v", codes)
	}
}

func TestCurrent(t *testing.T) {
	if got := Current(date(2025, 3, 10)); got != "25/26" {
		t.Fatalf("expected 25/26, got %s", got)
	}
}
