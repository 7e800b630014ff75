// services/stats_service.go
package services

import (
	"fmt"
	"time"

	"github.com/wfunc/wordroom/models"
	"github.com/wfunc/wordroom/persistence"
)

// StatsService sits between the coordinator and the archive: it validates
// finished-game records on the way in and answers diagnostics queries.
type StatsService struct {
	archive persistence.Archive
}

func NewStatsService(archive persistence.Archive) *StatsService {
	return &StatsService{archive: archive}
}

// Record validates and stores one finished game.
func (s *StatsService) Record(record models.GameRecord) error {
	if record.RoomCode == "" {
		return fmt.Errorf("game record missing room code")
	}
	if record.TargetWord == "" {
		return fmt.Errorf("game record missing target word")
	}
	if record.FinishedAt.IsZero() {
		record.FinishedAt = time.Now()
	}
	return s.archive.SaveGameRecord(record)
}

// RoomStats returns archived win/loss counts for a room code.
func (s *StatsService) RoomStats(roomCode string) (models.RoomStats, error) {
	return s.archive.RoomStats(roomCode)
}
