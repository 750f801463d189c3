package logger

import (
	"fmt"
	"strings"
	"sync"
)

// Buffer is a Logger implementation intended for testing;
// messages are stored internally.
type Buffer struct {
	mu       sync.Mutex
	level    Level
	Messages []string

	// Loggers made by WithFields record into their root Buffer.
	root   *Buffer
	fields Fields
}

// NewBuffer creates a new Buffer with Messages slice initialized.
// This makes it simpler to assert empty []string when no log messages
// have been sent; otherwise Messages would be nil.
func NewBuffer() *Buffer {
	return &Buffer{
		Messages: make([]string, 0),
	}
}

func (b *Buffer) append(prefix, format string, v ...any) {
	var msg strings.Builder
	msg.WriteString(prefix)
	fmt.Fprintf(&msg, format, v...)
	for _, f := range b.fields {
		msg.WriteString(" " + f.Key + "=" + f.Value)
	}

	dst := b
	if b.root != nil {
		dst = b.root
	}
	dst.mu.Lock()
	defer dst.mu.Unlock()
	dst.Messages = append(dst.Messages, msg.String())
}

func (b *Buffer) Debug(format string, v ...any)  { b.append("[debug] ", format, v...) }
func (b *Buffer) Error(format string, v ...any)  { b.append("[error] ", format, v...) }
func (b *Buffer) Fatal(format string, v ...any)  { b.append("[fatal] ", format, v...) }
func (b *Buffer) Notice(format string, v ...any) { b.append("[notice] ", format, v...) }
func (b *Buffer) Warn(format string, v ...any)   { b.append("[warn] ", format, v...) }
func (b *Buffer) Info(format string, v ...any)   { b.append("[info] ", format, v...) }

// WithFields returns a Buffer that appends fields to every message and
// records into b.
func (b *Buffer) WithFields(fields ...Field) Logger {
	root := b
	if b.root != nil {
		root = b.root
	}
	return &Buffer{
		root:   root,
		fields: append(append(Fields{}, b.fields...), fields...),
	}
}

func (b *Buffer) SetLevel(level Level) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.level = level
}

// Level returns the level last set. Buffer records every message regardless.
func (b *Buffer) Level() Level {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}
