// game/words.go
package game

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed answers.txt
var embeddedAnswers string

//go:embed allowed.txt
var embeddedAllowed string

// Policy controls how proposed words are validated against the dictionary.
type Policy string

const (
	// PolicyAcceptAll accepts any well-formed 5-letter word.
	PolicyAcceptAll Policy = "accept-all"
	// PolicyAcceptListed rejects words outside the embedded allowed list.
	PolicyAcceptListed Policy = "accept-listed"
)

var (
	loadOnce   sync.Once
	answers    []string
	allowedSet map[string]struct{}
)

func load() {
	loadOnce.Do(func() {
		answers = splitWords(embeddedAnswers)
		allowedSet = make(map[string]struct{})
		for _, w := range splitWords(embeddedAllowed) {
			allowedSet[w] = struct{}{}
		}
		// every answer is also an accepted guess
		for _, w := range answers {
			allowedSet[w] = struct{}{}
		}
	})
}

func splitWords(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		w := strings.ToUpper(strings.TrimSpace(line))
		if len(w) == WordLength && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Answers returns the fixed ordered pool the puzzle selector indexes into.
// The order is load-order of the embedded file and must stay stable, or
// rooms would change words across deployments mid-day.
func Answers() []string {
	load()
	return answers
}

// Accepted reports whether word is a valid guess under the given policy.
// Word length is checked by the caller; Accepted only consults the list.
func Accepted(word string, policy Policy) bool {
	load()
	if policy == PolicyAcceptAll {
		return true
	}
	_, ok := allowedSet[strings.ToUpper(word)]
	return ok
}
