package nntp

import (
	"time"

	"github.com/sirupsen/logrus"
)

// log is the package-wide logger. Callers embedding this library in a
// larger service can replace it with SetLogger to route wire tracing
// through their own logrus instance/hooks.
var log = logrus.New()

func init() {
	log.SetLevel(logrus.InfoLevel)
}

// SetLogger replaces the package logger. Passing nil restores a fresh
// default logger at InfoLevel.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.New()
		l.SetLevel(logrus.InfoLevel)
	}
	log = l
}

func logCommand(cmd string) {
	log.WithField("cmd", cmd).Debug("client ->")
}

func logResponse(code int, text string, elapsed time.Duration) {
	log.WithFields(logrus.Fields{
		"code":    code,
		"text":    text,
		"elapsed": elapsed,
	}).Debug("server <-")
}

func logStateChange(field string, value interface{}) {
	log.WithField(field, value).Info("session state change")
}
