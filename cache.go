package magic

import (
	"compress/gzip"
	"errors"
	"io/fs"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/gobeaver/magic/database"
)

// builtinDB is the parsed built-in database. It is never modified after it
// is published.
type builtinDB struct {
	roots       []Rule
	fingerprint uint64
}

// builtinCache lazily parses the bundled database once per process.
//
// Concurrent first callers share a single parse through the singleflight
// group and the result is published with an atomic pointer, so no caller
// can observe a partially built root list. A failed parse is not stored;
// the next caller tries again.
type builtinCache struct {
	fsys  fs.FS
	name  string
	parse LineParser

	value  atomic.Pointer[builtinDB]
	group  singleflight.Group
	parses atomic.Int64
}

var builtin = newBuiltinCache(database.FS, database.Name)

func newBuiltinCache(fsys fs.FS, name string) *builtinCache {
	return &builtinCache{
		fsys:  fsys,
		name:  name,
		parse: ParseEntry,
	}
}

func (c *builtinCache) get(logger zerolog.Logger) (*builtinDB, error) {
	if db := c.value.Load(); db != nil {
		return db, nil
	}

	v, err, _ := c.group.Do(c.name, func() (interface{}, error) {
		// a flight that finished between our Load and Do already stored it
		if db := c.value.Load(); db != nil {
			return db, nil
		}
		db, err := c.load(logger)
		if err != nil {
			return nil, err
		}
		c.value.Store(db)
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*builtinDB), nil
}

func (c *builtinCache) load(logger zerolog.Logger) (*builtinDB, error) {
	c.parses.Add(1)

	f, err := c.fsys.Open(c.name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceError{Op: "open", Path: c.name, Kind: ErrMissingBuiltInDatabase, Err: err}
		}
		return nil, &SourceError{Op: "open", Path: c.name, Kind: ErrIO, Err: err}
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, &SourceError{Op: "decompress", Path: c.name, Kind: ErrIO, Err: err}
	}
	defer zr.Close()

	l := newLoader(c.parse, logger)
	if err := l.read(zr, c.name); err != nil {
		return nil, &SourceError{Op: "read", Path: c.name, Kind: ErrIO, Err: err}
	}

	logger.Debug().Int("rules", len(l.roots())).Msg("Loaded built-in magic database")
	return &builtinDB{roots: l.roots(), fingerprint: l.fingerprint()}, nil
}
