// room/messages.go
package room

import (
	"time"

	"github.com/wfunc/wordroom/game"
	"github.com/wfunc/wordroom/network"
	"github.com/wfunc/wordroom/state"
)

// Player is one roster entry. Entries outlive disconnects: Online flips
// false on leave and the entry is only removed by staleness pruning, so
// board coloring stays continuous across a rejoin.
type Player struct {
	Name     string    `json:"name"`
	LastSeen time.Time `json:"lastSeen"`
	Online   bool      `json:"online"`
}

// Proposal is the single in-flight guess awaiting consensus.
type Proposal struct {
	Word       string `json:"word"`
	ProposerID string `json:"proposer"`
	Timestamp  int64  `json:"timestamp"`
}

// Snapshot is the full room state document sent to clients.
type Snapshot struct {
	RoomCode    string                                     `json:"roomCode"`
	TargetWord  string                                     `json:"targetWord"`
	Board       [BoardRows][game.WordLength]string         `json:"board"`
	BoardStates [BoardRows][game.WordLength]game.CellState `json:"boardStates"`
	CurrentRow  int                                        `json:"currentRow"`
	Phase       state.Phase                                `json:"gameState"`
	Proposal    *Proposal                                  `json:"proposal"`
	Votes       map[string]bool                            `json:"votes"`
	Players     map[string]Player                          `json:"players"`
	CreatedAt   int64                                      `json:"createdAt"`
	LastUpdate  int64                                      `json:"lastUpdate"`
}

// StateEvent carries a full snapshot, sent to a player on join.
type StateEvent struct {
	Type      string    `json:"type"`
	GameState *Snapshot `json:"gameState"`
}

// ProposalEvent announces a new proposal to the whole room.
type ProposalEvent struct {
	Type      string    `json:"type"`
	Proposal  *Proposal `json:"proposal"`
	GameState *Snapshot `json:"gameState"`
}

// VoteEvent is the incremental tally broadcast on each vote.
type VoteEvent struct {
	Type     string          `json:"type"`
	PlayerID string          `json:"playerId"`
	Agrees   bool            `json:"agrees"`
	Votes    map[string]bool `json:"votes"`
}

// SubmittedEvent announces an accepted word and its scored row.
type SubmittedEvent struct {
	Type      string           `json:"type"`
	Word      string           `json:"word"`
	Result    []game.CellState `json:"result"`
	GameState *Snapshot        `json:"gameState"`
}

// RejectedEvent announces that the current proposal was voted down.
type RejectedEvent struct {
	Type      string    `json:"type"`
	GameState *Snapshot `json:"gameState"`
}

// RosterEvent announces a join or leave along with the current roster.
type RosterEvent struct {
	Type       string            `json:"type"`
	PlayerID   string            `json:"playerId"`
	PlayerName string            `json:"playerName,omitempty"`
	Players    map[string]Player `json:"players"`
}

func newStateEvent(snap *Snapshot) *StateEvent {
	return &StateEvent{Type: network.MsgTypeGameState, GameState: snap}
}
