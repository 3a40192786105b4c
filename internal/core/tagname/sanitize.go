package tagname

import (
	"strings"
	"unicode/utf8"
)

// Sanitize removes what XML 1.0 character data cannot carry:
// - ASCII controls except '\n', '\r', '\t'
// - DEL (0x7F)
// - C1 controls U+0080..U+009F
// - the noncharacters U+FFFE and U+FFFF
// It also drops invalid UTF-8 bytes.
// Fast path returns s unchanged when no cleaning is needed.
func Sanitize(s string) string {
	if s == "" {
		return s
	}

	n := len(s)
	i := 0

	// Fast path: scan until first "bad" byte/rune
	for i < n {
		b := s[i]
		if b < 0x20 {
			if b == '\n' || b == '\r' || b == '\t' {
				i++
				continue
			}
			break
		}
		if b == 0x7F {
			break
		}
		if b < 0x80 {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if dropRune(r, size) {
			break
		}
		i += size
	}
	if i == n {
		return s
	}

	// Slow path: build cleaned string from here on
	var bldr strings.Builder
	bldr.Grow(n)
	bldr.WriteString(s[:i])

	for i < n {
		c := s[i]
		if c < 0x20 {
			if c == '\n' || c == '\r' || c == '\t' {
				bldr.WriteByte(c)
			}
			i++
			continue
		}
		if c == 0x7F {
			i++
			continue
		}
		if c < 0x80 {
			bldr.WriteByte(c)
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if dropRune(r, size) {
			i += size
			continue
		}
		// write exact bytes, no re-encode
		bldr.WriteString(s[i : i+size])
		i += size
	}

	return bldr.String()
}

func dropRune(r rune, size int) bool {
	switch {
	case r == utf8.RuneError && size == 1:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	case r == 0xFFFE || r == 0xFFFF:
		return true
	}
	return false
}
