package room

import "errors"

// Validation failures surfaced to the acting player only. None of them
// mutate room state and none are fatal to the coordinator or connection.
var (
	ErrInvalidInput       = errors.New("word must be exactly 5 letters")
	ErrUnknownWord        = errors.New("word is not a valid English word")
	ErrProposalInProgress = errors.New("please vote on current proposal first")
	ErrGameNotPlaying     = errors.New("game is not in playing state")
	ErrNoActiveProposal   = errors.New("no proposal to vote on")
)
