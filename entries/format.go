package entries

import (
	"fmt"
	"regexp"
	"strconv"
)

var printfVerb = regexp.MustCompile(`%([-#0 +]*[0-9]*(?:\.[0-9]+)?)(?:hh|h|ll|l|q|j|z)?([diouxXcs%])`)

// formatMessage renders the printf style verbs of a magic message with the
// value found by the entry's test.
func formatMessage(msg string, value any) string {
	if msg == "" {
		return ""
	}
	return printfVerb.ReplaceAllStringFunc(msg, func(verb string) string {
		m := printfVerb.FindStringSubmatch(verb)
		flags, conv := m[1], m[2]

		switch conv {
		case "%":
			return "%"
		case "i", "u":
			conv = "d"
		}

		switch v := value.(type) {
		case string:
			if conv == "s" {
				return fmt.Sprintf("%"+flags+"s", v)
			}
			return v
		case int64:
			switch conv {
			case "s":
				return strconv.FormatInt(v, 10)
			case "c":
				return string(rune(byte(v)))
			}
			return fmt.Sprintf("%"+flags+conv, v)
		case uint64:
			switch conv {
			case "s":
				return strconv.FormatUint(v, 10)
			case "c":
				return string(rune(byte(v)))
			}
			return fmt.Sprintf("%"+flags+conv, v)
		}
		return verb
	})
}
