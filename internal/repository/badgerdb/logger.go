package badgerdb

import (
	"strings"

	"github.com/Dhoini/Customer-microservice/pkg/logger"
)

// badgerLogger передает сообщения BadgerDB в логгер сервиса
type badgerLogger struct {
	log *logger.Logger
}

func newBadgerLogger(log *logger.Logger) *badgerLogger {
	return &badgerLogger{log: log.With("component", "badger")}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(strings.TrimSuffix(format, "\n"), args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(strings.TrimSuffix(format, "\n"), args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(strings.TrimSuffix(format, "\n"), args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(strings.TrimSuffix(format, "\n"), args...)
}
