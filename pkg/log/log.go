// Package log configures the logrus entry threaded through the program.
package log

import (
	"github.com/sirupsen/logrus"
)

func New(version string) *logrus.Entry {
	return logrus.NewEntry(logrus.New()).WithFields(logrus.Fields{
		"program":         "repconv",
		"program_version": version,
	})
}

func SetLevel(level string, logE *logrus.Entry) {
	if level == "" {
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logE.WithField("log_level", level).WithError(err).Error("the log level is invalid")
		return
	}
	logE.Logger.SetLevel(lvl)
}

func SetColor(color string, logE *logrus.Entry) {
	switch color {
	case "", "auto":
	case "always":
		logE.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors: true,
		})
	case "never":
		logE.Logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
		})
	default:
		logE.WithField("log_color", color).Error("log-color must be either auto, always, or never")
	}
}
