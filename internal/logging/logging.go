package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"refactorengine/internal/config"
)

// New builds a logger from cfg. The returned closer releases the rotating log
// file when one is configured.
func New(cfg config.LogConfig) (*logrus.Logger, io.Closer) {
	log := logrus.New()

	level, levelErr := logrus.ParseLevel(cfg.Level)
	if levelErr != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var closer io.Closer = nopCloser{}
	switch strings.ToLower(cfg.File) {
	case "", "stderr":
		log.SetOutput(os.Stderr)
	case "stdout":
		log.SetOutput(os.Stdout)
	default:
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		log.SetOutput(io.MultiWriter(os.Stderr, file))
		closer = file
	}
	if levelErr != nil {
		log.Warnf("invalid log level %q, using info", cfg.Level)
	}
	return log, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
