// models/models.go
package models

import (
	"time"
)

// GameRecord is one finished game, written to the archive when a room
// reaches a terminal phase. History only: records are never read back into
// live room state.
type GameRecord struct {
	RoomCode   string            `json:"room_code"`
	TargetWord string            `json:"target_word"`
	Won        bool              `json:"won"`
	RowsUsed   int               `json:"rows_used"`
	Players    map[string]string `json:"players"` // playerId -> display name
	FinishedAt time.Time         `json:"finished_at"`
}

// RoomStats aggregates archived outcomes for one room code.
type RoomStats struct {
	RoomCode string `json:"room_code"`
	Games    int    `json:"games"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}
