package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger builds a logger writing to stderr at the configured level.
// Unknown levels fall back to info.
func (c Config) Logger() *logrus.Logger {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	return &logrus.Logger{
		Out: os.Stderr,
		Formatter: &logrus.TextFormatter{
			FullTimestamp: true,
		},
		Hooks: make(logrus.LevelHooks),
		Level: level,
	}
}
