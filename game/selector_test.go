package game

import (
	"fmt"
	"testing"
	"time"
)

func TestSelect_Deterministic(t *testing.T) {
	first := Select("ABCDE", "2026-09-01")
	second := Select("ABCDE", "2026-09-01")

	if first != second {
		t.Errorf("Same room and day produced different words: %q vs %q", first, second)
	}
}

func TestSelect_ReturnsPoolWord(t *testing.T) {
	pool := make(map[string]bool)
	for _, w := range Answers() {
		pool[w] = true
	}

	word := Select("LOBBY", "2026-09-01")
	if !pool[word] {
		t.Errorf("Select returned %q, which is not in the answers pool", word)
	}
	if len(word) != WordLength {
		t.Errorf("Expected a %d-letter word, got %q", WordLength, word)
	}
}

func TestSelect_SpreadAcrossRooms(t *testing.T) {
	// Varying the room code on a fixed day should hit a good share of the
	// pool, not collapse onto a few entries.
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[Select(fmt.Sprintf("ROOM%d", i), "2026-09-01")] = true
	}

	if len(seen) < len(Answers())/2 {
		t.Errorf("200 room codes hit only %d of %d pool words", len(seen), len(Answers()))
	}
}

func TestSelect_RotatesAcrossDays(t *testing.T) {
	seen := make(map[string]bool)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		seen[Select("LOBBY", DateKey(day.AddDate(0, 0, i)))] = true
	}

	if len(seen) < 2 {
		t.Errorf("30 days produced only %d distinct words", len(seen))
	}
}

func TestDateKey_UTC(t *testing.T) {
	// Late evening in a western timezone is already the next day in UTC;
	// the seed must not depend on server-local time.
	loc := time.FixedZone("UTC-8", -8*60*60)
	local := time.Date(2026, 8, 31, 23, 0, 0, 0, loc)

	if got := DateKey(local); got != "2026-09-01" {
		t.Errorf("Expected 2026-09-01, got %s", got)
	}
}
