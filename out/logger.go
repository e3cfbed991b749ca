package out

import (
	"io"
	"log"
)

// Logger prefixes each message with its level, debug messages are dropped unless enabled.
type Logger struct {
	*log.Logger
	debug bool
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Printf("[info] "+format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.debug {
		l.Printf("[debug] "+format, args...)
	}
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Printf("[error] "+format, args...)
}

func (l *Logger) DebugEnabled() bool {
	return l.debug
}

// With returns a logger writing to the same output, with `prefix` prepended to every message.
func (l *Logger) With(prefix string) *Logger {
	return &Logger{
		Logger: log.New(l.Writer(), l.Prefix()+prefix+" ", l.Flags()|log.Lmsgprefix),
		debug:  l.debug,
	}
}

func NewLogger(w io.Writer, debug bool) *Logger {
	return &Logger{
		Logger: log.New(w, "", log.Ldate|log.Ltime|log.Lshortfile),
		debug:  debug,
	}
}
