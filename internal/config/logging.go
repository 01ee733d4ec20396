package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

// SetupLogging configures level, formatter and the optional rotating log
// file of log.
func (c Config) SetupLogging(log *logrus.Logger) error {
	level := logrus.InfoLevel
	if c.Development() {
		level = logrus.DebugLevel
	}
	if c.Log.Level != "" {
		var err error
		if level, err = logrus.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}
	log.SetLevel(level)

	if c.Development() {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if c.Log.File == "" {
		return nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   c.Log.File,
		MaxSize:    c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAgeDays,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	log.AddHook(hook)
	return nil
}
