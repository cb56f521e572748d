package entries

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is returned for lines that cannot be parsed as a magic entry.
var ErrSyntax = errors.New("magic: malformed entry")

// Parse parses one line of a magic file.
//
// prev is the entry returned for the closest preceding line that produced
// one, or nil at the start of a database. Continuation lines (leading '>')
// are linked to the nearest ancestor of prev with a level one less than
// their own, and are added to prev's Set. A nil entry with a nil error
// means the line was understood but yields no entry, as for "!:mime".
//
// Parse never modifies the Set when it returns an error.
func Parse(prev *Entry, line string) (*Entry, error) {
	if strings.HasPrefix(line, "!:") {
		return nil, parseDirective(prev, line[2:])
	}

	level := 0
	for level < len(line) && line[level] == '>' {
		level++
	}
	rest := line[level:]

	offsetField, rest := nextField(rest)
	typeField, rest := nextField(rest)
	testField, rest := nextField(rest)
	if typeField == "" || testField == "" {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, line)
	}

	off, err := parseOffset(offsetField)
	if err != nil {
		return nil, err
	}
	test, err := parseTest(typeField, testField)
	if err != nil {
		return nil, err
	}

	parent := -1
	var set *Set
	switch {
	case level == 0 && prev == nil:
		set = &Set{}
	case level == 0:
		set = prev.set
	case prev == nil:
		return nil, fmt.Errorf("%w: continuation without a parent: %q", ErrSyntax, line)
	default:
		set = prev.set
		anc := prev
		for anc.level >= level && anc.parent != -1 {
			anc = set.entries[anc.parent]
		}
		if anc.level != level-1 {
			return nil, fmt.Errorf("%w: level %d does not follow level %d", ErrSyntax, level, prev.level)
		}
		parent = anc.index
	}

	e := &Entry{
		set:     set,
		index:   len(set.entries),
		parent:  parent,
		level:   level,
		offset:  off,
		test:    test,
		message: strings.TrimSpace(rest),
	}
	set.entries = append(set.entries, e)
	if parent != -1 {
		p := set.entries[parent]
		p.children = append(p.children, e.index)
	}
	return e, nil
}

func parseDirective(prev *Entry, s string) error {
	name, rest := nextField(s)
	switch name {
	case "mime":
		if prev == nil {
			return fmt.Errorf("%w: !:mime without an entry", ErrSyntax)
		}
		mimeType, _ := nextField(rest)
		if mimeType == "" {
			return fmt.Errorf("%w: empty !:mime", ErrSyntax)
		}
		prev.mimeType = mimeType
	}
	// !:apple, !:ext and !:strength carry nothing we evaluate
	return nil
}

func parseTest(typeField, testField string) (matcher, error) {
	name, flags, _ := strings.Cut(typeField, "/")
	name, mask, _ := strings.Cut(name, "&")

	if name == "string" {
		if mask != "" {
			return nil, fmt.Errorf("%w: mask on string type", ErrSyntax)
		}
		return newStringMatcher(flags, testField)
	}

	signed := true
	if strings.HasPrefix(name, "u") {
		signed = false
		name = name[1:]
	}
	nt, ok := numericTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrSyntax, typeField)
	}
	return newNumericMatcher(nt, signed, mask, testField)
}

// nextField returns the next whitespace separated field of s and the
// remainder. A backslash escapes the character after it, so escaped
// spaces stay inside the field.
func nextField(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	i := 0
	for i < len(s) && s[i] != ' ' && s[i] != '\t' {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		i++
	}
	return s[:i], s[i:]
}
