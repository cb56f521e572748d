// Package entries implements the magic(5) rule grammar and the byte level
// evaluator used by package magic.
//
// Entries parsed in one pass live in a single [Set]. Continuation entries
// (level > 0) are linked to their parent by index, so a Set is a forest
// addressed by position and never holds pointers between entries.
package entries

import (
	"strings"
)

// Set is the index addressed store shared by every entry parsed from the
// same continuation chain. It is appended to while rules are being parsed
// and is read-only afterwards.
type Set struct {
	entries []*Entry
}

// Len returns the number of entries in the set, at every level.
func (s *Set) Len() int {
	return len(s.entries)
}

// Entry is a single parsed magic line.
type Entry struct {
	set      *Set
	index    int
	parent   int // -1 for level 0
	children []int

	level    int
	offset   offset
	test     matcher
	message  string
	mimeType string
}

// Level returns the nesting depth; 0 starts a new top level rule.
func (e *Entry) Level() int {
	return e.level
}

// Index returns the position of the entry in its Set.
func (e *Entry) Index() int {
	return e.index
}

// Parent returns the index of the parent entry, or -1 for top level entries.
func (e *Entry) Parent() int {
	return e.parent
}

// Set returns the store the entry belongs to.
func (e *Entry) Set() *Set {
	return e.set
}

// MIMEType returns the MIME type attached to this entry with "!:mime".
func (e *Entry) MIMEType() string {
	return e.mimeType
}

// Message returns the raw, unformatted message of the entry.
func (e *Entry) Message() string {
	return e.message
}

// Children returns the continuation entries directly below e, in
// declaration order.
func (e *Entry) Children() []*Entry {
	out := make([]*Entry, 0, len(e.children))
	for _, idx := range e.children {
		out = append(out, e.set.entries[idx])
	}
	return out
}

// ProcessBytes evaluates the entry and its continuations against data.
// It returns nil when the entry itself does not match.
func (e *Entry) ProcessBytes(data []byte) *ContentType {
	var r result
	if !e.process(data, 0, &r) {
		return nil
	}
	return &ContentType{
		Message:  r.message.String(),
		MIMEType: r.mimeType,
	}
}

func (e *Entry) process(data []byte, parentEnd int, r *result) bool {
	off, ok := e.offset.resolve(data, parentEnd)
	if !ok {
		return false
	}
	val, end, ok := e.test.match(data, off)
	if !ok {
		return false
	}

	r.add(formatMessage(e.message, val))
	if e.mimeType != "" {
		r.mimeType = e.mimeType
	}

	for _, idx := range e.children {
		e.set.entries[idx].process(data, end, r)
	}
	return true
}

// result accumulates the output of one evaluation.
type result struct {
	message  strings.Builder
	mimeType string
}

// add appends msg, separated by a space unless it starts with "\b".
func (r *result) add(msg string) {
	if strings.HasPrefix(msg, `\b`) {
		r.message.WriteString(msg[2:])
		return
	}
	if msg == "" {
		return
	}
	if r.message.Len() > 0 {
		r.message.WriteByte(' ')
	}
	r.message.WriteString(msg)
}
