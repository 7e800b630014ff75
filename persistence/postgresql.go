// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/wfunc/wordroom/models"
)

// PostgreSQL is the plain database/sql archive implementation.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            room_code TEXT NOT NULL,
            target_word TEXT NOT NULL,
            won BOOLEAN NOT NULL,
            rows_used INT NOT NULL,
            players JSONB NOT NULL,
            finished_at TIMESTAMPTZ NOT NULL
        )`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_game_records_room_code ON game_records (room_code)`)
	return err
}

func (p *PostgreSQL) SaveGameRecord(record models.GameRecord) error {
	players, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(`
        INSERT INTO game_records (room_code, target_word, won, rows_used, players, finished_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		record.RoomCode, record.TargetWord, record.Won, record.RowsUsed, players, record.FinishedAt,
	)
	return err
}

func (p *PostgreSQL) RoomStats(roomCode string) (models.RoomStats, error) {
	stats := models.RoomStats{RoomCode: roomCode}

	err := p.db.QueryRow(`
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE won),
            COUNT(*) FILTER (WHERE NOT won)
        FROM game_records
        WHERE room_code = $1`,
		roomCode,
	).Scan(&stats.Games, &stats.Wins, &stats.Losses)
	if err != nil {
		return stats, err
	}

	return stats, nil
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
