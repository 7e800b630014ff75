// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/wordroom/logger"
	"github.com/wfunc/wordroom/session"
)

var ErrSessionNotFound = errors.New("session not found")

// Broadcaster fans documents out to the live sessions of a room.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, doc interface{}) error
	SendToPlayer(roomCode, playerID string, doc interface{}) error
	HasSession(roomCode, playerID string) bool
}

// RoomBroadcaster delivers documents over the session registry. Delivery is
// best-effort: a recipient whose transport fails is dropped from the
// registry and the fan-out continues. No ordering is guaranteed across
// recipients; per-recipient order is FIFO over the connection.
type RoomBroadcaster struct {
	sessions *session.Manager
}

func NewRoomBroadcaster(sessions *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{sessions: sessions}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomCode string, doc interface{}) error {
	for _, s := range b.sessions.GetByRoom(roomCode) {
		if err := s.Send(doc); err != nil {
			logger.Log.Warnf("Dropping session %s in room %s: send failed: %v", s.PlayerID, roomCode, err)
			b.sessions.Remove(s.RoomCode, s.PlayerID)
			continue
		}
	}
	return nil
}

func (b *RoomBroadcaster) SendToPlayer(roomCode, playerID string, doc interface{}) error {
	s, exists := b.sessions.Get(roomCode, playerID)
	if !exists {
		return ErrSessionNotFound
	}
	if err := s.Send(doc); err != nil {
		logger.Log.Warnf("Dropping session %s in room %s: send failed: %v", playerID, roomCode, err)
		b.sessions.Remove(roomCode, playerID)
	}
	return nil
}

func (b *RoomBroadcaster) HasSession(roomCode, playerID string) bool {
	return b.sessions.Has(roomCode, playerID)
}
