package logger

import (
	"log"
	"os"
)

// Verbosity levels, from the most chatty to completely quiet.
const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

var levelTags = [...]string{
	DEBUG:   "DEBUG",
	INFO:    "INFO",
	WARNING: "WARN",
	ERROR:   "ERROR",
}

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level int
	out   *log.Logger
}

func NewLogger(level int) *defaultLogger {
	return &defaultLogger{
		level: level,
		out:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) { l.logf(DEBUG, msg, a...) }
func (l *defaultLogger) Infof(msg string, a ...any)  { l.logf(INFO, msg, a...) }
func (l *defaultLogger) Warnf(msg string, a ...any)  { l.logf(WARNING, msg, a...) }
func (l *defaultLogger) Errorf(msg string, a ...any) { l.logf(ERROR, msg, a...) }

func (l *defaultLogger) logf(level int, msg string, a ...any) {
	if level < l.level {
		return
	}

	l.out.Printf("["+levelTags[level]+"] "+msg, a...)
}
