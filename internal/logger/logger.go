package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Logger is the console logger used across sqlitexport.
type Logger interface {
	Info(format string, args ...any)
	Debug(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	SetOutput(out io.Writer)
	SetErrOutput(out io.Writer)
	SetVerbose(enabled bool)
	SetQuiet(enabled bool)
	IsVerbose() bool
	IsQuiet() bool
}

// ConsoleLogger writes human readable lines to stdout and errors to stderr.
type ConsoleLogger struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	verbose bool
	quiet   bool
	colors  bool
}

var (
	instance Logger
	once     sync.Once
)

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	once.Do(func() {
		instance = &ConsoleLogger{
			out:    os.Stdout,
			errOut: os.Stderr,
			colors: term.IsTerminal(int(os.Stdout.Fd())),
		}
	})
	return instance
}

func SetVerbose(verbose bool) { GetLogger().SetVerbose(verbose) }
func SetQuiet(quiet bool)     { GetLogger().SetQuiet(quiet) }
func SetOutput(out io.Writer) { GetLogger().SetOutput(out) }
func IsVerbose() bool         { return GetLogger().IsVerbose() }
func IsQuiet() bool           { return GetLogger().IsQuiet() }

func Info(format string, args ...any)    { GetLogger().Info(format, args...) }
func Debug(format string, args ...any)   { GetLogger().Debug(format, args...) }
func Success(format string, args ...any) { GetLogger().Success(format, args...) }
func Warn(format string, args ...any)    { GetLogger().Warn(format, args...) }
func Error(format string, args ...any)   { GetLogger().Error(format, args...) }

const (
	blueColor   = "\033[34m"
	greenColor  = "\033[32m"
	yellowColor = "\033[33m"
	redColor    = "\033[31m"
	grayColor   = "\033[90m"
	resetColor  = "\033[0m"
)

type level struct {
	icon  string
	plain string
	color string
}

var (
	infoLevel    = level{"ℹ️", "INFO", blueColor}
	debugLevel   = level{"🔍", "DEBUG", grayColor}
	successLevel = level{"✓", "SUCCESS", greenColor}
	warnLevel    = level{"⚠", "WARN", yellowColor}
	errorLevel   = level{"✗", "ERROR", redColor}
)

func (l *ConsoleLogger) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = out
	l.colors = isTerminal(out)
}

func (l *ConsoleLogger) SetErrOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errOut = out
}

func (l *ConsoleLogger) SetVerbose(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = enabled
}

func (l *ConsoleLogger) SetQuiet(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quiet = enabled
}

func (l *ConsoleLogger) IsVerbose() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

func (l *ConsoleLogger) IsQuiet() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quiet
}

func (l *ConsoleLogger) Info(format string, args ...any) {
	if l.IsQuiet() {
		return
	}
	l.write(false, infoLevel, "", format, args...)
}

func (l *ConsoleLogger) Debug(format string, args ...any) {
	if !l.IsVerbose() {
		return
	}
	stamp := "[" + time.Now().Format("2006-01-02 15:04:05.000") + "] "
	l.write(false, debugLevel, stamp, format, args...)
}

func (l *ConsoleLogger) Success(format string, args ...any) {
	if l.IsQuiet() {
		return
	}
	l.write(false, successLevel, "", format, args...)
}

func (l *ConsoleLogger) Warn(format string, args ...any) {
	if l.IsQuiet() {
		return
	}
	l.write(false, warnLevel, "", format, args...)
}

// Error is never silenced by quiet mode.
func (l *ConsoleLogger) Error(format string, args ...any) {
	l.write(true, errorLevel, "", format, args...)
}

func (l *ConsoleLogger) write(toErr bool, lv level, stamp, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.out
	if toErr {
		out = l.errOut
	}

	msg := fmt.Sprintf(format, args...)
	if l.colors {
		fmt.Fprintf(out, "%s%s%s %s%s\n", lv.color, stamp, lv.icon, msg, resetColor)
		return
	}
	fmt.Fprintf(out, "%s%s %s\n", stamp, lv.plain, msg)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
