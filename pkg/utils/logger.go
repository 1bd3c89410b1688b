package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "movie-sentiment.log"

// InitLogger writes to a rotating file under path and to stderr. Stderr only
// carries errors unless debug is set, so the interactive menu on stdout stays
// readable.
func InitLogger(path string, debug bool) (*zap.Logger, error) {
	if path != "" {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, err
		}
	}

	// Encoder config
	encoderConfig := zap.NewProductionEncoderConfig()
	if debug {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.CallerKey = "caller"
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)

	fileLevel := zap.InfoLevel
	consoleLevel := zap.ErrorLevel
	if debug {
		fileLevel = zap.DebugLevel
		consoleLevel = zap.DebugLevel
	}

	// File sink with rotation
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(path, logFileName),
		MaxSize:    10, // MB
		MaxBackups: 7,
		MaxAge:     28, // days
		Compress:   true,
	})

	consoleWriter := zapcore.Lock(zapcore.AddSync(os.Stderr))

	core := zapcore.NewTee(
		zapcore.NewCore(fileEncoder, fileWriter, fileLevel),
		zapcore.NewCore(consoleEncoder, consoleWriter, consoleLevel),
	)

	return zap.New(core, zap.AddCaller()), nil
}
