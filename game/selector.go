// game/selector.go
package game

import "time"

// hashString is a 31-based rolling hash truncated to 32 bits. It only needs
// to be deterministic and reasonably spread, not cryptographic: the same
// room/day pair must land on the same word on every process that computes it.
func hashString(s string) int32 {
	var h int32
	for _, c := range []byte(s) {
		h = (h << 5) - h + int32(c)
	}
	return h
}

// Select returns the target word for a room on a given calendar day. The
// seed is hash(dateString + roomCode) reduced modulo the answers pool, so
// every player in a room sees the same puzzle and it rotates daily.
func Select(roomCode, dateString string) string {
	pool := Answers()
	seed := int64(hashString(dateString + roomCode))
	if seed < 0 {
		seed = -seed
	}
	return pool[seed%int64(len(pool))]
}

// DateKey formats t as the calendar-day component of the puzzle seed.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
