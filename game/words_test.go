package game

import (
	"testing"
)

func TestAnswers_WellFormed(t *testing.T) {
	answers := Answers()
	if len(answers) == 0 {
		t.Fatal("Answers pool is empty")
	}
	for _, w := range answers {
		if len(w) != WordLength || !isAlpha(w) {
			t.Errorf("Answer %q is not a %d-letter uppercase word", w, WordLength)
		}
	}
}

func TestAccepted_ListedPolicy(t *testing.T) {
	if !Accepted("ABOUT", PolicyAcceptListed) {
		t.Error("ABOUT should be in the allowed list")
	}
	if !Accepted("hello", PolicyAcceptListed) {
		t.Error("Lookup should be case-insensitive")
	}
	if Accepted("QQQQQ", PolicyAcceptListed) {
		t.Error("QQQQQ should not be in the allowed list")
	}
}

func TestAccepted_AnswersAlwaysAllowed(t *testing.T) {
	for _, w := range Answers() {
		if !Accepted(w, PolicyAcceptListed) {
			t.Errorf("Answer %q must be an accepted guess", w)
		}
	}
}

func TestAccepted_AcceptAllPolicy(t *testing.T) {
	if !Accepted("QQQQQ", PolicyAcceptAll) {
		t.Error("accept-all must accept any word")
	}
}
