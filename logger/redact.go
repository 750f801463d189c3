package logger

import (
	"cmp"
	"slices"
	"strings"
	"sync"
)

// RedactLengthMin is the shortest value that will be redacted. Shorter
// values ("1", "true", "none") would mangle ordinary diagnostics.
const RedactLengthMin = 6

const redacted = "[REDACTED]"

// Redactor replaces registered secret values in diagnostic text. A nil
// *Redactor redacts nothing.
type Redactor struct {
	mu       sync.RWMutex
	needles  []string
	replacer *strings.Replacer
}

func NewRedactor() *Redactor {
	return &Redactor{}
}

// Add registers values to redact. Values shorter than RedactLengthMin and
// values already registered are ignored.
func (r *Redactor) Add(values ...string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	changed := false
	for _, v := range values {
		if len(v) < RedactLengthMin || slices.Contains(r.needles, v) {
			continue
		}
		r.needles = append(r.needles, v)
		changed = true
	}
	if !changed {
		return
	}

	// strings.Replacer prefers earlier pairs at the same position, so the
	// longest needle has to come first for overlapping secrets.
	slices.SortFunc(r.needles, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})

	pairs := make([]string, 0, 2*len(r.needles))
	for _, n := range r.needles {
		pairs = append(pairs, n, redacted)
	}
	r.replacer = strings.NewReplacer(pairs...)
}

// Redact returns s with every registered value replaced by [REDACTED].
func (r *Redactor) Redact(s string) string {
	if r == nil {
		return s
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.replacer == nil {
		return s
	}
	return r.replacer.Replace(s)
}
