package network

// Inbound message types (player -> coordinator).
const (
	MsgTypePropose   = "propose"
	MsgTypeVote      = "vote"
	MsgTypeHeartbeat = "heartbeat"
)

// Outbound message types (coordinator -> players).
const (
	MsgTypeGameState        = "gameState"
	MsgTypeProposal         = "proposal"
	MsgTypeVoteCast         = "vote"
	MsgTypeWordSubmitted    = "wordSubmitted"
	MsgTypeProposalRejected = "proposalRejected"
	MsgTypePlayerJoined     = "playerJoined"
	MsgTypePlayerLeft       = "playerLeft"
	MsgTypeError            = "error"
)

// ClientMessage is one inbound document, discriminated by Type. Unused
// fields are left at their zero value for the types that do not carry them.
type ClientMessage struct {
	Type   string `json:"type"`
	Word   string `json:"word,omitempty"`
	Agrees bool   `json:"agrees"`
}

// ErrorMessage is sent only to the player whose action failed.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: MsgTypeError, Message: message}
}
