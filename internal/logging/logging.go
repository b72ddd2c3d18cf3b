package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Offline/dev runs get a human-readable
// console encoder at debug level; online runs get production JSON.
func New(dev bool) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	level := zapcore.InfoLevel
	if dev {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encoderConfig)
		level = zapcore.DebugLevel
	} else {
		enc = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	if dev {
		return zap.New(core, zap.Development(), zap.AddCaller())
	}
	return zap.New(core, zap.AddCaller())
}
