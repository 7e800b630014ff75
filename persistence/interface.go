// persistence/interface.go
package persistence

import (
	"errors"

	"github.com/wfunc/wordroom/models"
)

// Archive stores finished-game records for diagnostics and stats. Live room
// state is never persisted or restored; a room lives and dies with its
// coordinator process.
type Archive interface {
	SaveGameRecord(record models.GameRecord) error
	RoomStats(roomCode string) (models.RoomStats, error)
	Close() error
}

var ErrRecordNotFound = errors.New("record not found")

// Noop discards records; the default when the archive is disabled.
type Noop struct{}

func (Noop) SaveGameRecord(models.GameRecord) error { return nil }

func (Noop) RoomStats(roomCode string) (models.RoomStats, error) {
	return models.RoomStats{RoomCode: roomCode}, nil
}

func (Noop) Close() error { return nil }
