package magic

import (
	"io"
	"io/fs"
	"path"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
)

// source is one text input of a rule database.
type source struct {
	name string
	open func() (io.ReadCloser, error)

	// tolerant sources are skipped when they cannot be opened or read.
	tolerant bool
}

// resolveSources turns name inside fsys into the ordered list of text
// sources to load. label is the path used in errors and logs.
//
// A regular file yields one source. A directory yields one tolerant source
// per regular entry, sorted by name; entries filtered by pattern or that
// are not regular files are skipped. Anything else is ErrInvalidSource.
func resolveSources(fsys fs.FS, name, label string, pattern glob.Glob, logger zerolog.Logger) ([]source, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, &SourceError{Op: "stat", Path: label, Kind: ErrInvalidSource, Err: err}
	}

	switch {
	case info.Mode().IsRegular():
		return []source{fsSource(fsys, name, label, false)}, nil

	case info.IsDir():
		dirEntries, err := fs.ReadDir(fsys, name)
		if err != nil {
			return nil, &SourceError{Op: "readdir", Path: label, Kind: ErrIO, Err: err}
		}

		sources := make([]source, 0, len(dirEntries))
		for _, de := range dirEntries {
			entryName := path.Join(name, de.Name())
			entryLabel := path.Join(label, de.Name())

			if pattern != nil && !pattern.Match(de.Name()) {
				logger.Debug().Str("entry", entryLabel).Msg("Skipping magic entry not matching pattern")
				continue
			}
			// Stat follows symlinks, which ReadDir does not
			entryInfo, err := fs.Stat(fsys, entryName)
			if err != nil || !entryInfo.Mode().IsRegular() {
				logger.Debug().Err(err).Str("entry", entryLabel).Msg("Skipping magic entry that is not a regular file")
				continue
			}
			sources = append(sources, fsSource(fsys, entryName, entryLabel, true))
		}
		return sources, nil

	default:
		return nil, &SourceError{Op: "stat", Path: label, Kind: ErrInvalidSource}
	}
}

func fsSource(fsys fs.FS, name, label string, tolerant bool) source {
	return source{
		name:     label,
		tolerant: tolerant,
		open: func() (io.ReadCloser, error) {
			return fsys.Open(name)
		},
	}
}

// compilePattern compiles a directory entry glob, nil for the empty pattern.
func compilePattern(pattern string) (glob.Glob, error) {
	if pattern == "" {
		return nil, nil
	}
	return glob.Compile(pattern)
}
