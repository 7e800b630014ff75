package logger

import (
	"go.uber.org/zap"
)

var Log *zap.SugaredLogger

// Tests and tools that never call Init still get a safe logger.
func init() {
	Log = zap.NewNop().Sugar()
}

func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	_ = Log.Sync()
}
