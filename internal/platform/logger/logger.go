// Package logger wraps zap with the fields the front desk logs with.
package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/srgjo27/hotel_frontdesk/internal/config"
)

var log *zap.Logger

// New builds a logger from cfg without touching the package default.
func New(cfg *config.LoggerConfig) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var writers []zapcore.WriteSyncer
	if cfg.Output == "stdout" || cfg.Output == "" || cfg.Output == "both" {
		writers = append(writers, zapcore.AddSync(os.Stdout))
	}
	if cfg.FilePath != "" && cfg.Output != "stdout" && cfg.Output != "" {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}))
	}
	if len(writers) == 0 {
		writers = append(writers, zapcore.AddSync(os.Stdout))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), ParseLevel(cfg.Level))

	options := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Caller {
		options = append(options, zap.AddCaller())
	}
	return zap.New(core, options...)
}

// Init sets the package default logger.
func Init(cfg *config.LoggerConfig) *zap.Logger {
	log = New(cfg)
	return log
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func L() *zap.Logger {
	if log == nil {
		log, _ = zap.NewDevelopment()
	}
	return log
}

func Named(name string) *zap.Logger {
	return L().Named(name)
}

func Sync() error {
	if log != nil {
		return log.Sync()
	}
	return nil
}

func RoomID(id string) zap.Field {
	return zap.String("room_id", id)
}

func StayID(id string) zap.Field {
	return zap.String("stay_id", id)
}

func FolioID(id string) zap.Field {
	return zap.String("folio_id", id)
}

func Operator(id string) zap.Field {
	return zap.String("operator", id)
}

func Action(name string) zap.Field {
	return zap.String("action", name)
}

func Transition(name string) zap.Field {
	return zap.String("transition", name)
}

func Entries(n int) zap.Field {
	return zap.Int("entries", n)
}

func Amount(minor int64) zap.Field {
	return zap.Int64("amount", minor)
}

func Balance(minor int64) zap.Field {
	return zap.Int64("balance", minor)
}
