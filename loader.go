package magic

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
)

// loadState is the value folded over the lines of every source consumed by
// one construction. prev is the continuation cursor: the last rule any line
// produced, whatever its level.
type loadState struct {
	prev  Rule
	roots []Rule
}

// step feeds one line through parse. Comment and blank lines leave the
// state untouched, as do lines that fail to parse or yield no rule.
func (s loadState) step(parse LineParser, line string) (loadState, error) {
	if line == "" || line[0] == '#' {
		return s, nil
	}
	rule, err := parse(s.prev, line)
	if err != nil {
		return s, err
	}
	if rule == nil {
		return s, nil
	}
	if rule.Level() == 0 {
		s.roots = append(s.roots, rule)
	}
	s.prev = rule
	return s, nil
}

// loader drives loadState across one or more text sources.
type loader struct {
	parse  LineParser
	logger zerolog.Logger
	digest *xxhash.Digest
	state  loadState
}

func newLoader(parse LineParser, logger zerolog.Logger) *loader {
	return &loader{
		parse:  parse,
		logger: logger,
		digest: xxhash.New(),
	}
}

// read consumes r line by line. Malformed lines, however long, are logged
// and skipped; the returned error is only ever a read failure. Rules folded
// before a read failure stay in the state.
func (l *loader) read(r io.Reader, name string) error {
	br := bufio.NewReader(r)

	lineNo := 0
	for {
		raw, err := br.ReadString('\n')
		if len(raw) > 0 {
			lineNo++
			l.consume(strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r"), name, lineNo)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (l *loader) consume(line, name string, lineNo int) {
	_, _ = l.digest.WriteString(line)
	_, _ = l.digest.WriteString("\n")

	next, err := l.state.step(l.parse, line)
	if err != nil {
		l.logger.Debug().
			Err(err).
			Str("source", name).
			Int("line", lineNo).
			Msg("Skipping malformed magic line")
		return
	}
	l.state = next
}

// roots returns the top level rules collected so far.
func (l *loader) roots() []Rule {
	return l.state.roots
}

// fingerprint returns the xxhash of every line consumed so far.
func (l *loader) fingerprint() uint64 {
	return l.digest.Sum64()
}
