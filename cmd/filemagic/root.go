package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gobeaver/magic"
)

type rootOptions struct {
	verbosity int
	magicPath string
	pattern   string
	readSize  int
	mime      bool
	brief     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "filemagic [flags] FILE...",
		Short: "Determine file types from their contents",
		Long: `filemagic reads the leading bytes of each FILE and reports the first
matching rule of a magic database, like file(1).

The built-in database is used unless --magic names a magic file or a
directory of magic files. BEAVER_MAGIC_FILE, BEAVER_MAGIC_READ_SIZE and
BEAVER_MAGIC_PATTERN provide defaults for the flags.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG)")
	flags.StringVarP(&opts.magicPath, "magic", "m", "", "Magic file or directory to use instead of the built-in database")
	flags.StringVar(&opts.pattern, "pattern", "", "Only load directory entries matching this glob")
	flags.IntVar(&opts.readSize, "read-size", 0, "Leading bytes to read from each file (default 102400)")
	flags.BoolVarP(&opts.mime, "mime", "i", false, "Print MIME types instead of descriptions")
	flags.BoolVarP(&opts.brief, "brief", "b", false, "Do not prepend file names")

	return cmd
}

func run(cmd *cobra.Command, opts *rootOptions, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.verbosity)

	cfg, err := magic.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.magicPath != "" {
		cfg.File = opts.magicPath
	}
	if opts.pattern != "" {
		cfg.Pattern = opts.pattern
	}
	if opts.readSize > 0 {
		cfg.ReadSize = opts.readSize
	}

	m, err := magic.NewFromConfig(cfg, magic.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Debug().Int("rules", m.Len()).Uint64("fingerprint", m.Fingerprint()).Msg("Magic database loaded")

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		ct, err := m.ContentTypeOfFile(path)
		if err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("Cannot read file")
			printResult(out, opts, path, fmt.Sprintf("cannot open (%v)", unwrapCause(err)))
			failed++
			continue
		}
		printResult(out, opts, path, describe(ct, opts.mime))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(args))
	}
	return nil
}

func describe(ct *magic.ContentType, mime bool) string {
	switch {
	case ct == nil && mime:
		return "application/octet-stream"
	case ct == nil:
		return "data"
	case mime && ct.MIMEType != "":
		return ct.MIMEType
	case mime:
		return "application/octet-stream"
	default:
		return ct.String()
	}
}

func printResult(w io.Writer, opts *rootOptions, path, result string) {
	if opts.brief {
		fmt.Fprintln(w, result)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", path, result)
}

// unwrapCause returns the underlying error of a magic.SourceError.
func unwrapCause(err error) error {
	var se *magic.SourceError
	if errors.As(err, &se) && se.Err != nil {
		return se.Err
	}
	return err
}

func newLogger(w io.Writer, verbosity int) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verbosity == 1:
		level = zerolog.InfoLevel
	case verbosity >= 2:
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}
