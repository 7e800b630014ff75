// game/feedback.go
package game

// CellState classifies one letter of a scored guess.
type CellState string

const (
	StateCorrect CellState = "correct"
	StatePresent CellState = "present"
	StateAbsent  CellState = "absent"
)

// WordLength is the fixed puzzle word size.
const WordLength = 5

// Score evaluates guess against target and returns one classification per
// letter. Two passes: exact matches first, consuming the matched letter from
// both sides so it cannot be claimed again, then remaining letters are
// matched against whatever is left of the target. This keeps duplicate
// letters honest (guess "SPEED" vs target "ERASE" must not double-count an
// E already claimed by an exact match).
//
// Inputs are validated upstream to be exactly WordLength uppercase letters;
// Score itself has no error cases.
func Score(guess, target string) []CellState {
	result := make([]CellState, WordLength)
	g := []byte(guess)
	t := []byte(target)

	for i := 0; i < WordLength; i++ {
		if g[i] == t[i] {
			result[i] = StateCorrect
			g[i] = 0
			t[i] = 0
		}
	}

	for i := 0; i < WordLength; i++ {
		if g[i] == 0 {
			continue
		}
		result[i] = StateAbsent
		for j := 0; j < WordLength; j++ {
			if t[j] == g[i] {
				result[i] = StatePresent
				t[j] = 0
				break
			}
		}
	}

	return result
}
