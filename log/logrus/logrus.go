package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/civiclens/issuecache"
)

type LogrusLogger struct{ E *logrus.Entry }

var _ issuecache.Logger = LogrusLogger{}

func (l LogrusLogger) Debug(msg string, f issuecache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f issuecache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}
func (l LogrusLogger) Warn(msg string, f issuecache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}
func (l LogrusLogger) Error(msg string, f issuecache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
