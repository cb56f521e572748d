package magic

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gobeaver/magic/entries"
)

// ContentType is the result of a successful match.
type ContentType = entries.ContentType

// Rule is a parsed magic entry. Only level 0 rules are evaluated directly;
// deeper rules are reached through the parent they were linked to when
// parsed.
type Rule interface {
	// Level returns the nesting depth, 0 for a top level rule.
	Level() int

	// ProcessBytes returns the content type the rule reports for data, or
	// nil when it does not match.
	ProcessBytes(data []byte) *ContentType
}

// LineParser parses one non-comment line. prev is the last rule produced
// during the current load, nil at the start. A nil rule with a nil error
// means the line produced nothing; an error means the line is skipped.
type LineParser func(prev Rule, line string) (Rule, error)

// ParseEntry is the default LineParser, backed by package entries.
func ParseEntry(prev Rule, line string) (Rule, error) {
	p, _ := prev.(*entries.Entry)
	e, err := entries.Parse(p, line)
	if err != nil || e == nil {
		return nil, err
	}
	return e, nil
}

// Magic determines content types by running data through an ordered list
// of top level rules. It is safe for concurrent use once constructed.
type Magic struct {
	roots       []Rule
	fingerprint uint64
	loaded      bool
	readSize    atomic.Int64
}

func newMagic(roots []Rule, fingerprint uint64, o *Options) *Magic {
	m := &Magic{
		roots:       roots,
		fingerprint: fingerprint,
		loaded:      true,
	}
	m.readSize.Store(int64(o.ReadSize))
	return m
}

// New returns a Magic backed by the built-in database. The database is
// parsed once per process and shared by every Magic New returns.
func New(opts ...Option) (*Magic, error) {
	o := processOptions(opts...)
	db, err := builtin.get(o.Logger)
	if err != nil {
		return nil, err
	}
	return newMagic(db.roots, db.fingerprint, o), nil
}

// NewFromPath loads rules from a magic file or from every file in a
// directory. Unreadable files inside a directory are skipped.
func NewFromPath(path string, opts ...Option) (*Magic, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &SourceError{Op: "stat", Path: path, Kind: ErrInvalidSource, Err: err}
	}
	if info.IsDir() {
		return newFromFS(os.DirFS(path), ".", path, opts...)
	}
	return newFromFS(os.DirFS(filepath.Dir(path)), filepath.Base(path), path, opts...)
}

// NewFromFS is NewFromPath for a file or directory inside fsys, such as an
// embed.FS or an opened zip archive.
func NewFromFS(fsys fs.FS, name string, opts ...Option) (*Magic, error) {
	return newFromFS(fsys, name, name, opts...)
}

// NewFromReader loads rules from a single text stream.
func NewFromReader(r io.Reader, opts ...Option) (*Magic, error) {
	o := processOptions(opts...)
	l := newLoader(o.Parser, o.Logger)
	if err := l.read(r, "reader"); err != nil {
		return nil, &SourceError{Op: "read", Path: "reader", Kind: ErrIO, Err: err}
	}
	return newMagic(l.roots(), l.fingerprint(), o), nil
}

func newFromFS(fsys fs.FS, name, label string, opts ...Option) (*Magic, error) {
	o := processOptions(opts...)
	pattern, err := compilePattern(o.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", o.Pattern, err)
	}

	sources, err := resolveSources(fsys, name, label, pattern, o.Logger)
	if err != nil {
		return nil, err
	}

	l := newLoader(o.Parser, o.Logger)
	for _, src := range sources {
		if err := loadSource(l, src); err != nil {
			if !src.tolerant {
				return nil, err
			}
			o.Logger.Debug().Err(err).Str("source", src.name).Msg("Skipping unreadable magic file")
		}
	}
	return newMagic(l.roots(), l.fingerprint(), o), nil
}

func loadSource(l *loader, src source) error {
	rc, err := src.open()
	if err != nil {
		return &SourceError{Op: "open", Path: src.name, Kind: ErrIO, Err: err}
	}
	defer rc.Close()

	if err := l.read(rc, src.name); err != nil {
		return &SourceError{Op: "read", Path: src.name, Kind: ErrIO, Err: err}
	}
	return nil
}

// ContentTypeOfBytes returns the content type reported by the first rule
// that matches data, in declaration order. It returns nil, nil when no rule
// matches.
func (m *Magic) ContentTypeOfBytes(data []byte) (*ContentType, error) {
	if m == nil || !m.loaded {
		return nil, ErrNotLoaded
	}
	for _, rule := range m.roots {
		if ct := rule.ProcessBytes(data); ct != nil {
			return ct, nil
		}
	}
	return nil, nil
}

// ContentTypeOfFile matches the first SetFileReadSize bytes of the file.
func (m *Magic) ContentTypeOfFile(path string) (*ContentType, error) {
	if m == nil || !m.loaded {
		return nil, ErrNotLoaded
	}
	data, err := ReadPrefix(path, m.FileReadSize())
	if err != nil {
		return nil, err
	}
	return m.ContentTypeOfBytes(data)
}

// ContentTypeOfReader matches the first SetFileReadSize bytes of r.
func (m *Magic) ContentTypeOfReader(r io.Reader) (*ContentType, error) {
	if m == nil || !m.loaded {
		return nil, ErrNotLoaded
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, int64(m.FileReadSize())); err != nil && err != io.EOF {
		return nil, &SourceError{Op: "read", Path: "reader", Kind: ErrIO, Err: err}
	}
	return m.ContentTypeOfBytes(buf.Bytes())
}

// SetFileReadSize sets how many leading bytes ContentTypeOfFile reads.
// Values below 1 restore DefaultReadSize.
func (m *Magic) SetFileReadSize(n int) {
	if m == nil {
		return
	}
	if n <= 0 {
		n = DefaultReadSize
	}
	m.readSize.Store(int64(n))
}

// FileReadSize returns the current file read size.
func (m *Magic) FileReadSize() int {
	if m == nil {
		return 0
	}
	return int(m.readSize.Load())
}

// Len returns the number of top level rules.
func (m *Magic) Len() int {
	if m == nil {
		return 0
	}
	return len(m.roots)
}

// Fingerprint returns the xxhash of the rule text this Magic was loaded
// from. Instances sharing the built-in database report the same value.
func (m *Magic) Fingerprint() uint64 {
	if m == nil {
		return 0
	}
	return m.fingerprint
}
