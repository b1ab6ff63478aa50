package daily

import (
	"testing"
	"time"
)

type fixedWords []string

func (f fixedWords) Contains(w string) bool {
	for _, x := range f {
		if x == w {
			return true
		}
	}
	return false
}
func (f fixedWords) Length() int     { return 5 }
func (f fixedWords) Words() []string { return append([]string(nil), f...) }

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2026, 3, 2, 5, 0, 0, 0, loc) // 2026-03-01 19:00 UTC
	if got := DateKey(ts); got != "2026-03-01" {
		t.Fatalf("DateKey = %s, want 2026-03-01", got)
	}
}

func TestWordIndex(t *testing.T) {
	a := WordIndex("2026-03-01#0", "salt", 100)
	b := WordIndex("2026-03-01#0", "salt", 100)
	if a != b {
		t.Fatalf("WordIndex not deterministic: %d vs %d", a, b)
	}
	if a < 0 || a >= 100 {
		t.Fatalf("WordIndex out of range: %d", a)
	}
	if WordIndex("x", "salt", 0) != 0 {
		t.Fatalf("WordIndex with n=0 should be 0")
	}
}

func TestSequence_SameDaySameSecrets(t *testing.T) {
	words := fixedWords{"APPLE", "BREAD", "CHAIR", "DANCE", "EARTH", "FAITH", "GRACE"}
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return day }

	s1 := NewSequence(words, "salt", clock)
	s2 := NewSequence(words, "salt", clock)
	for i := 0; i < 5; i++ {
		a, err := s1.PickRandom()
		if err != nil {
			t.Fatalf("PickRandom: %v", err)
		}
		b, _ := s2.PickRandom()
		if a != b {
			t.Fatalf("round %d: %s vs %s", i, a, b)
		}
		if !words.Contains(a) {
			t.Fatalf("picked non-member %s", a)
		}
	}
	if !s1.Contains("APPLE") || s1.Length() != 5 {
		t.Fatalf("sequence must delegate dictionary methods")
	}
}

func TestSequence_RestartsOnNewDay(t *testing.T) {
	words := fixedWords{"APPLE", "BREAD", "CHAIR", "DANCE", "EARTH"}
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSequence(words, "salt", func() time.Time { return day })

	first, _ := s.PickRandom()
	_, _ = s.PickRandom()

	day = day.Add(24 * time.Hour)
	next, _ := s.PickRandom()
	want := words[WordIndex(DateKey(day)+"#0", "salt", len(words))]
	if next != want {
		t.Fatalf("first pick of new day = %s, want %s", next, want)
	}
	if first != words[WordIndex("2026-03-01#0", "salt", len(words))] {
		t.Fatalf("first pick = %s", first)
	}
}

func TestSequence_Empty(t *testing.T) {
	s := NewSequence(fixedWords{}, "salt", nil)
	if _, err := s.PickRandom(); err == nil {
		t.Fatalf("expected error on empty word list")
	}
}
