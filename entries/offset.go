package entries

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// offset locates the bytes an entry tests.
//
//	16        absolute
//	&4        relative to the end of the parent's match
//	(60.l+4)  indirect: read a little endian long at 60 and add 4
type offset struct {
	value    int64
	relative bool

	indirect bool
	size     int              // width of the indirect pointer
	order    binary.ByteOrder // byte order of the indirect pointer
	adjust   int64
}

func parseOffset(s string) (offset, error) {
	var o offset
	if s == "" {
		return o, fmt.Errorf("%w: missing offset", ErrSyntax)
	}

	if strings.HasPrefix(s, "(") {
		if !strings.HasSuffix(s, ")") {
			return o, fmt.Errorf("%w: unterminated indirect offset %q", ErrSyntax, s)
		}
		return parseIndirect(s[1 : len(s)-1])
	}

	if strings.HasPrefix(s, "&") {
		o.relative = true
		s = s[1:]
	}
	v, err := parseInt(s)
	if err != nil {
		return o, fmt.Errorf("%w: bad offset %q", ErrSyntax, s)
	}
	o.value = v
	return o, nil
}

func parseIndirect(s string) (offset, error) {
	o := offset{indirect: true, size: 4, order: binary.LittleEndian}
	if strings.HasPrefix(s, "&") {
		o.relative = true
		s = s[1:]
	}

	// split off the adjustment; skip index 0 so a signed base still parses
	base := s
	if idx := strings.IndexAny(s[min(1, len(s)):], "+-"); idx != -1 {
		idx++
		adj, err := parseInt(s[idx:])
		if err != nil {
			return o, fmt.Errorf("%w: bad indirect adjustment %q", ErrSyntax, s[idx:])
		}
		o.adjust = adj
		base = s[:idx]
	}

	if idx := strings.IndexAny(base, ".,"); idx != -1 {
		if idx+2 != len(base) {
			return o, fmt.Errorf("%w: bad indirect type %q", ErrSyntax, base[idx:])
		}
		switch base[idx+1] {
		case 'b', 'c', 'B', 'C':
			o.size = 1
		case 's', 'h':
			o.size, o.order = 2, binary.LittleEndian
		case 'S', 'H':
			o.size, o.order = 2, binary.BigEndian
		case 'l':
			o.size, o.order = 4, binary.LittleEndian
		case 'L':
			o.size, o.order = 4, binary.BigEndian
		case 'q':
			o.size, o.order = 8, binary.LittleEndian
		case 'Q':
			o.size, o.order = 8, binary.BigEndian
		default:
			return o, fmt.Errorf("%w: unknown indirect type %q", ErrSyntax, base[idx+1])
		}
		base = base[:idx]
	}

	v, err := parseInt(base)
	if err != nil {
		return o, fmt.Errorf("%w: bad indirect offset %q", ErrSyntax, base)
	}
	o.value = v
	return o, nil
}

// resolve returns the absolute position in data the entry should test.
func (o offset) resolve(data []byte, parentEnd int) (int, bool) {
	pos := o.value
	if o.relative {
		pos += int64(parentEnd)
	}
	if !o.indirect {
		return checkPos(pos, len(data))
	}

	at, ok := checkPos(pos, len(data))
	if !ok {
		return 0, false
	}
	ptr, ok := readUint(data, at, o.size, o.order)
	if !ok {
		return 0, false
	}
	return checkPos(int64(ptr)+o.adjust, len(data))
}

func checkPos(pos int64, n int) (int, bool) {
	if pos < 0 || pos > int64(n) {
		return 0, false
	}
	return int(pos), true
}

// readUint reads an unsigned integer of size bytes at off.
func readUint(data []byte, off, size int, order binary.ByteOrder) (uint64, bool) {
	if off < 0 || off+size > len(data) {
		return 0, false
	}
	b := data[off : off+size]
	switch size {
	case 1:
		return uint64(b[0]), true
	case 2:
		return uint64(order.Uint16(b)), true
	case 4:
		return uint64(order.Uint32(b)), true
	case 8:
		return order.Uint64(b), true
	}
	return 0, false
}

// parseInt accepts decimal, 0x hex and leading-zero octal, with sign.
func parseInt(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v, nil
	}
	u, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return int64(u), nil
}
