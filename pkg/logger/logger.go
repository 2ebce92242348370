// Package logger provides the leveled, colorized logger shared by the luma
// tools. A process-wide default instance is configured from the LOG_LEVEL
// environment variable.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

func (l Level) color() string {
	switch l {
	case DEBUG:
		return colorGray
	case INFO:
		return colorBlue
	case WARN:
		return colorYellow
	default:
		return colorRed
	}
}

// Logger writes timestamped, leveled lines to a single destination. It is
// safe for concurrent use.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	level    Level
	colorize bool
}

// New returns a logger writing to out at the given minimum level.
func New(out io.Writer, level Level, colorize bool) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{out: out, level: level, colorize: colorize}
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// GetLogger returns the process-wide default logger, honoring LOG_LEVEL
// (DEBUG, INFO, WARN, ERROR, FATAL) on first use.
func GetLogger() *Logger {
	once.Do(func() {
		level := INFO
		switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
		case "DEBUG":
			level = DEBUG
		case "WARN":
			level = WARN
		case "ERROR":
			level = ERROR
		case "FATAL":
			level = FATAL
		}
		defaultLogger = New(os.Stderr, level, true)
	})
	return defaultLogger
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput redirects the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

func (l *Logger) logf(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	tag := fmt.Sprintf("[%s]", level)
	if l.colorize {
		tag = level.color() + tag + colorReset
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.out, "%s %s %s\n", time.Now().Format("2006-01-02 15:04:05"), tag, msg)

	if level == FATAL {
		os.Exit(1)
	}
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(DEBUG, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(INFO, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(WARN, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(ERROR, format, args...) }
func (l *Logger) Fatalf(format string, args ...any) { l.logf(FATAL, format, args...) }

// Package-level helpers using the default logger.

func Debugf(format string, args ...any) { GetLogger().Debugf(format, args...) }
func Infof(format string, args ...any)  { GetLogger().Infof(format, args...) }
func Warnf(format string, args ...any)  { GetLogger().Warnf(format, args...) }
func Errorf(format string, args ...any) { GetLogger().Errorf(format, args...) }
func Fatalf(format string, args ...any) { GetLogger().Fatalf(format, args...) }
