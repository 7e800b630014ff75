package main

import (
	"github.com/wfunc/wordroom/config"
	"github.com/wfunc/wordroom/logger"
	"github.com/wfunc/wordroom/monitor"
	"github.com/wfunc/wordroom/persistence"
	"github.com/wfunc/wordroom/server"
	"github.com/wfunc/wordroom/services"
)

func main() {
	logger.Init()
	defer logger.Sync()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	archive := newArchive(cfg)
	defer archive.Close()

	mon := monitor.NewMonitor("wordroom")
	mon.StartServer(cfg.Server.MonitorAddress)

	gameServer := server.NewGameServer(cfg, services.NewStatsService(archive), mon)

	logger.Log.Infof("Starting wordroom server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}

// newArchive picks the finished-game archive implementation. The archive is
// optional; without a database the server runs purely in memory.
func newArchive(cfg *config.Config) persistence.Archive {
	if !cfg.Database.Enabled {
		return persistence.Noop{}
	}

	pg := cfg.Database.Postgres
	var (
		archive persistence.Archive
		err     error
	)
	switch cfg.Database.Driver {
	case "postgres":
		archive, err = persistence.NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	default:
		archive, err = persistence.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	}
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Log.Info("Game archive connected")
	return archive
}
