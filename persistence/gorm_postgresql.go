// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/wordroom/models"
)

// GormPostgreSQL is the GORM-backed archive implementation.
type GormPostgreSQL struct {
	db *gorm.DB
}

// GameRecordModel is the persisted shape of one finished game.
type GameRecordModel struct {
	ID         uint              `gorm:"primaryKey"`
	RoomCode   string            `gorm:"index;not null"`
	TargetWord string            `gorm:"not null"`
	Won        bool              `gorm:"not null"`
	RowsUsed   int               `gorm:"not null"`
	Players    map[string]string `gorm:"type:jsonb;serializer:json"`
	FinishedAt time.Time         `gorm:"not null"`
	CreatedAt  time.Time
}

func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&GameRecordModel{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

func (p *GormPostgreSQL) SaveGameRecord(record models.GameRecord) error {
	row := GameRecordModel{
		RoomCode:   record.RoomCode,
		TargetWord: record.TargetWord,
		Won:        record.Won,
		RowsUsed:   record.RowsUsed,
		Players:    record.Players,
		FinishedAt: record.FinishedAt,
	}
	return p.db.Create(&row).Error
}

func (p *GormPostgreSQL) RoomStats(roomCode string) (models.RoomStats, error) {
	stats := models.RoomStats{RoomCode: roomCode}

	err := p.db.Raw(`
        SELECT
            COUNT(*) AS games,
            COUNT(*) FILTER (WHERE won) AS wins,
            COUNT(*) FILTER (WHERE NOT won) AS losses
        FROM game_record_models
        WHERE room_code = ?`,
		roomCode,
	).Row().Scan(&stats.Games, &stats.Wins, &stats.Losses)
	if err != nil {
		return stats, err
	}

	return stats, nil
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
