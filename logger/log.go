// Package logger provides the diagnostic logger used by rbwchain.
//
// Every line the wrapper itself writes goes through a Logger, is tagged with
// [rbwchain], and has registered secret values redacted.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

const (
	nocolor   = "0"
	red       = "31"
	yellow    = "33"
	gray      = "38;5;251"
	lightgray = "38;5;243"
	cyan      = "1;36"
)

const (
	// Tag is the fixed prefix of every diagnostic line.
	Tag = "[rbwchain]"

	DateFormat = "2006-01-02T15:04:05.000Z07:00"
)

var windowsColors bool

type Logger interface {
	Debug(format string, v ...any)
	Error(format string, v ...any)
	Fatal(format string, v ...any)
	Notice(format string, v ...any)
	Warn(format string, v ...any)
	Info(format string, v ...any)

	WithFields(fields ...Field) Logger
	SetLevel(level Level)
	Level() Level
}

// ConsoleLogger is a Logger that hands each message at or above its level
// to a Printer.
type ConsoleLogger struct {
	level   Level
	exitFn  func(int)
	fields  Fields
	printer Printer
}

// NewConsoleLogger returns a ConsoleLogger at INFO level. exitFn is called
// by Fatal after the message has been printed.
func NewConsoleLogger(printer Printer, exitFn func(int)) Logger {
	return &ConsoleLogger{
		level:   INFO,
		exitFn:  exitFn,
		printer: printer,
	}
}

// WithFields returns a copy of the logger with the provided fields
func (l *ConsoleLogger) WithFields(fields ...Field) Logger {
	clone := *l
	clone.fields = append(append(Fields{}, l.fields...), fields...)
	return &clone
}

// SetLevel sets the level for the logger
func (l *ConsoleLogger) SetLevel(level Level) {
	l.level = level
}

// Level returns the level set for the logger
func (l *ConsoleLogger) Level() Level {
	return l.level
}

func (l *ConsoleLogger) Debug(format string, v ...any) {
	if l.level == DEBUG {
		l.printer.Print(DEBUG, fmt.Sprintf(format, v...), l.fields)
	}
}

func (l *ConsoleLogger) Error(format string, v ...any) {
	if l.level <= ERROR {
		l.printer.Print(ERROR, fmt.Sprintf(format, v...), l.fields)
	}
}

func (l *ConsoleLogger) Fatal(format string, v ...any) {
	l.printer.Print(FATAL, fmt.Sprintf(format, v...), l.fields)
	l.exitFn(1)
}

func (l *ConsoleLogger) Notice(format string, v ...any) {
	if l.level <= NOTICE {
		l.printer.Print(NOTICE, fmt.Sprintf(format, v...), l.fields)
	}
}

func (l *ConsoleLogger) Info(format string, v ...any) {
	if l.level <= INFO {
		l.printer.Print(INFO, fmt.Sprintf(format, v...), l.fields)
	}
}

func (l *ConsoleLogger) Warn(format string, v ...any) {
	if l.level <= WARN {
		l.printer.Print(WARN, fmt.Sprintf(format, v...), l.fields)
	}
}

type Printer interface {
	Print(level Level, msg string, fields Fields)
}

// TextPrinter writes human readable lines in the form
//
//	[rbwchain] Warning: message key=value
//
// Multi-line messages carry the tag on every line and the level label only
// on the first.
type TextPrinter struct {
	Colors   bool
	Tag      string
	Redactor *Redactor

	Writer io.Writer
	mu     sync.Mutex
}

func NewTextPrinter(w io.Writer) *TextPrinter {
	return &TextPrinter{
		Writer: w,
		Tag:    Tag,
		Colors: ColorsAvailable(),
	}
}

func (l *TextPrinter) Print(level Level, msg string, fields Fields) {
	var b strings.Builder

	labelColor := nocolor
	messageColor := nocolor
	label := ""

	switch level {
	case DEBUG:
		messageColor = gray
	case NOTICE:
		labelColor = cyan
	case WARN:
		labelColor = yellow
		label = "Warning: "
	case ERROR:
		labelColor = red
		label = "Error: "
	case FATAL:
		labelColor = red
		messageColor = red
		label = "Error: "
	}

	lines := strings.Split(strings.TrimRight(msg, "\n"), "\n")
	for i, line := range lines {
		if i == len(lines)-1 {
			for _, field := range fields {
				line += " " + field.Key + "=" + field.Value
			}
		}

		if l.Colors {
			fmt.Fprintf(&b, "\x1b[%sm%s\x1b[0m ", lightgray, l.Tag)
			if i == 0 && label != "" {
				fmt.Fprintf(&b, "\x1b[%sm%s\x1b[0m", labelColor, label)
			}
			fmt.Fprintf(&b, "\x1b[%sm%s\x1b[0m\n", messageColor, line)
			continue
		}

		b.WriteString(l.Tag)
		b.WriteByte(' ')
		if i == 0 {
			b.WriteString(label)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	// Make sure we're only outputting a line one at a time
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.Writer, l.Redactor.Redact(b.String())) //nolint:errcheck // diagnostics are best effort
}

// JSONPrinter writes one JSON object per message.
type JSONPrinter struct {
	Tag      string
	Redactor *Redactor

	Writer io.Writer
	mu     sync.Mutex
}

func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{
		Writer: w,
		Tag:    Tag,
	}
}

func (p *JSONPrinter) Print(level Level, msg string, fields Fields) {
	b := make(map[string]string, len(fields)+4)

	b["ts"] = time.Now().Format(DateFormat)
	b["level"] = level.String()
	b["tag"] = p.Tag
	b["msg"] = p.Redactor.Redact(msg)

	for _, field := range fields {
		b[field.Key] = p.Redactor.Redact(field.Value)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_ = json.NewEncoder(p.Writer).Encode(b)
}

// ColorsAvailable reports whether diagnostics written to stderr can use ANSI
// colours.
func ColorsAvailable() bool {
	// Color support for windows is set in init
	if runtime.GOOS == "windows" && !windowsColors {
		return false
	}

	return term.IsTerminal(int(os.Stderr.Fd()))
}

var Discard = &ConsoleLogger{
	level:   FATAL + 1,
	exitFn:  func(int) {},
	printer: &TextPrinter{Writer: io.Discard, Tag: Tag},
}
