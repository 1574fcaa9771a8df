package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogFile is the log path used when none is configured.
const DefaultLogFile = "forecast.log"

// Rotation policy for the run log: 50 MB per file, three backups kept.
const (
	maxSizeMB  = 50
	maxBackups = 3
)

// NewRotatingLogger returns a logger that appends structured entries to a
// size-capped rotating file. An empty path selects DefaultLogFile.
func NewRotatingLogger(path string) *zap.Logger {
	if path == "" {
		path = DefaultLogFile
	}

	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	})

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, zap.InfoLevel)
	return zap.New(core)
}
