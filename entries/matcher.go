package entries

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// matcher is the test half of an entry. match reports the value found at
// off (for message formatting) and the position just past the tested bytes.
type matcher interface {
	match(data []byte, off int) (value any, end int, ok bool)
}

type numericType struct {
	size  int
	order binary.ByteOrder
}

var numericTypes = map[string]numericType{
	"byte":    {1, binary.NativeEndian},
	"short":   {2, binary.NativeEndian},
	"long":    {4, binary.NativeEndian},
	"quad":    {8, binary.NativeEndian},
	"beshort": {2, binary.BigEndian},
	"belong":  {4, binary.BigEndian},
	"bequad":  {8, binary.BigEndian},
	"leshort": {2, binary.LittleEndian},
	"lelong":  {4, binary.LittleEndian},
	"lequad":  {8, binary.LittleEndian},
}

type numericMatcher struct {
	numericType
	signed   bool
	mask     uint64
	hasMask  bool
	operator byte
	value    uint64
}

func newNumericMatcher(nt numericType, signed bool, mask string, test string) (*numericMatcher, error) {
	m := &numericMatcher{numericType: nt, signed: signed, operator: '='}
	if mask != "" {
		v, err := parseInt(mask)
		if err != nil {
			return nil, fmt.Errorf("%w: bad mask %q", ErrSyntax, mask)
		}
		m.mask, m.hasMask = uint64(v), true
	}

	if test == "x" {
		m.operator = 'x'
		return m, nil
	}
	if test != "" && strings.IndexByte("=!<>&^~", test[0]) != -1 {
		m.operator = test[0]
		test = test[1:]
	}
	v, err := parseInt(test)
	if err != nil {
		return nil, fmt.Errorf("%w: bad numeric value %q", ErrSyntax, test)
	}
	m.value = uint64(v) & m.sizeMask()
	return m, nil
}

func (m *numericMatcher) sizeMask() uint64 {
	if m.size == 8 {
		return ^uint64(0)
	}
	return 1<<(8*uint(m.size)) - 1
}

func (m *numericMatcher) extend(v uint64) int64 {
	shift := 64 - 8*uint(m.size)
	return int64(v<<shift) >> shift
}

func (m *numericMatcher) match(data []byte, off int) (any, int, bool) {
	raw, ok := readUint(data, off, m.size, m.order)
	if !ok {
		return nil, 0, false
	}
	v := raw
	if m.hasMask {
		v &= m.mask
	}
	v &= m.sizeMask()

	var matched bool
	switch m.operator {
	case 'x':
		matched = true
	case '=':
		matched = v == m.value
	case '!':
		matched = v != m.value
	case '&':
		matched = v&m.value == m.value
	case '^':
		matched = v&m.value == 0
	case '~':
		matched = v == ^m.value&m.sizeMask()
	case '<':
		if m.signed {
			matched = m.extend(v) < m.extend(m.value)
		} else {
			matched = v < m.value
		}
	case '>':
		if m.signed {
			matched = m.extend(v) > m.extend(m.value)
		} else {
			matched = v > m.value
		}
	}
	if !matched {
		return nil, 0, false
	}

	end := off + m.size
	if m.signed {
		return m.extend(v), end, true
	}
	return v, end, true
}

// maxStringValue bounds how far an "x" string test reads.
const maxStringValue = 100

type stringMatcher struct {
	operator        byte
	value           []byte
	caseInsensitive bool
}

func newStringMatcher(flags string, test string) (*stringMatcher, error) {
	m := &stringMatcher{operator: '='}
	for _, f := range flags {
		switch f {
		case 'c', 'C':
			m.caseInsensitive = true
		}
	}

	if test == "x" {
		m.operator = 'x'
		return m, nil
	}
	if test != "" && strings.IndexByte("=!<>", test[0]) != -1 {
		m.operator = test[0]
		test = test[1:]
	}
	val, err := unescape(test)
	if err != nil {
		return nil, err
	}
	if len(val) == 0 {
		return nil, fmt.Errorf("%w: empty string value", ErrSyntax)
	}
	if m.caseInsensitive {
		val = bytes.ToLower(val)
	}
	m.value = val
	return m, nil
}

func (m *stringMatcher) match(data []byte, off int) (any, int, bool) {
	if off > len(data) {
		return nil, 0, false
	}

	if m.operator == 'x' {
		s := data[off:]
		if len(s) > maxStringValue {
			s = s[:maxStringValue]
		}
		if idx := bytes.IndexAny(s, "\x00\n\r"); idx != -1 {
			s = s[:idx]
		}
		return string(s), off + len(s), true
	}

	n := len(m.value)
	if off+n > len(data) {
		// "!" still matches when the data is too short to hold the value
		if m.operator == '!' {
			return string(data[off:]), len(data), true
		}
		return nil, 0, false
	}
	got := data[off : off+n]
	if m.caseInsensitive {
		got = bytes.ToLower(got)
	}

	cmp := bytes.Compare(got, m.value)
	var matched bool
	switch m.operator {
	case '=':
		matched = cmp == 0
	case '!':
		matched = cmp != 0
	case '<':
		matched = cmp < 0
	case '>':
		matched = cmp > 0
	}
	if !matched {
		return nil, 0, false
	}
	return string(data[off : off+n]), off + n, true
}

// unescape decodes the C style escapes magic files use in string values.
func unescape(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		i++
		if i == len(s) {
			return nil, fmt.Errorf("%w: trailing backslash", ErrSyntax)
		}
		switch c = s[i]; c {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'v':
			out = append(out, '\v')
		case 'a':
			out = append(out, '\a')
		case 'x':
			v, n := 0, 0
			for n < 2 && i+1 < len(s) && isHex(s[i+1]) {
				v = v*16 + hexValue(s[i+1])
				i++
				n++
			}
			if n == 0 {
				return nil, fmt.Errorf("%w: bad hex escape", ErrSyntax)
			}
			out = append(out, byte(v))
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := int(c - '0')
			for n := 1; n < 3 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '7'; n++ {
				v = v*8 + int(s[i+1]-'0')
				i++
			}
			out = append(out, byte(v))
		default:
			out = append(out, c)
		}
	}
	return out, nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}
