package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

type Options struct {
	File       string
	Level      string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

// Setup points logrus at a rotating file (and stdout) and returns the file
// writer so other loggers can share it.
func Setup(opts Options) io.Writer {
	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSize, // megabytes
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge, // days
		Compress:   true,
	}

	logrus.SetOutput(io.MultiWriter(os.Stdout, rotator))
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level) // SQL is logged at Info/Debug
	return rotator
}

// GormLogger sends GORM's statements through the standard logrus logger.
func GormLogger(slowThreshold time.Duration) gormlogger.Interface {
	level := gormlogger.Warn
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	return gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
		SlowThreshold:             slowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
