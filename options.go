package magic

import (
	"github.com/rs/zerolog"
)

// DefaultReadSize is how much of a file ContentTypeOfFile reads by default.
const DefaultReadSize = 100 * 1024

// Option represents a configuration option
type Option func(*Options)

// Options contains the settings used while building a Magic
type Options struct {
	// Logger receives debug events about skipped lines and entries.
	// Defaults to a disabled logger.
	Logger zerolog.Logger

	// Parser turns rule lines into rules. Defaults to ParseEntry.
	// Ignored by New, which always shares the built-in rules.
	Parser LineParser

	// Pattern is a glob matched against entry names when the source is a
	// directory; entries that do not match are not read.
	Pattern string

	// ReadSize is the initial bound for ContentTypeOfFile.
	ReadSize int
}

// WithLogger sets the logger used during loading
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithParser replaces the rule line parser
func WithParser(parser LineParser) Option {
	return func(o *Options) {
		o.Parser = parser
	}
}

// WithPattern only loads directory entries whose name matches the glob,
// e.g. "*.magic" or "{images,archives}"
func WithPattern(pattern string) Option {
	return func(o *Options) {
		o.Pattern = pattern
	}
}

// WithReadSize sets the initial file read size
func WithReadSize(n int) Option {
	return func(o *Options) {
		o.ReadSize = n
	}
}

func processOptions(opts ...Option) *Options {
	o := &Options{
		Logger:   zerolog.Nop(),
		Parser:   ParseEntry,
		ReadSize: DefaultReadSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Parser == nil {
		o.Parser = ParseEntry
	}
	if o.ReadSize <= 0 {
		o.ReadSize = DefaultReadSize
	}
	return o
}
