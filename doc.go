// Package magic determines the content type of files and byte slices from
// their contents, using magic(5) style rule databases in the tradition of
// the Unix file(1) command.
//
// A [Magic] holds an ordered list of top level rules. Queries run the data
// through each rule in declaration order and return the result of the
// first one that matches; nil means no rule matched.
//
// # Rule Sources
//
// Rules come from one of:
//
//   - the built-in database bundled with the package ([New]). It is parsed
//     once per process, on first use, and shared by every instance.
//   - a single magic file or a directory of magic files ([NewFromPath]).
//     Files in a directory are read in name order; files that cannot be
//     read are skipped.
//   - a file or directory inside any [io/fs.FS] ([NewFromFS]), such as an
//     embed.FS or a zip archive opened with archive/zip.
//   - a single stream ([NewFromReader]).
//
// Malformed rule lines never fail a load. They are skipped and reported
// at debug level to the logger given with [WithLogger].
//
// # Basic Usage
//
//	m, err := magic.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ct, err := m.ContentTypeOfFile("photo.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if ct == nil {
//	    fmt.Println("data")
//	} else {
//	    fmt.Println(ct.Message, ct.MIMEType)
//	}
//
// ContentTypeOfFile reads at most [DefaultReadSize] leading bytes; change
// the bound with [Magic.SetFileReadSize].
//
// # Configuration
//
// [NewFromEnv] and [Default] read BEAVER_MAGIC_FILE, BEAVER_MAGIC_READ_SIZE
// and BEAVER_MAGIC_PATTERN; [WithPrefix] selects a different prefix.
//
// # Reloading
//
// A [Reloader] watches a rule file or directory and swaps in a newly built
// Magic when it changes. Loaded rules are never modified in place.
//
// # Rule Grammar
//
// The default parser lives in package [github.com/gobeaver/magic/entries].
// A custom parser can be supplied with [WithParser].
package magic
