// Package tagname keeps element names and character data legal for XML 1.0
// Repair pipeline for names
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFC normalization
// 3 Remove format characters (BOM, zero-width joiners, bidi marks)
// 4 Width fold fullwidth to ASCII
// 5 Replace every character that cannot appear in a name with '_'
// 6 Prefix '_' when the first character cannot start a name
package tagname

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Valid reports whether name is a legal, unprefixed XML element name
// colons are rejected since no namespaces are declared
func Valid(name string) bool {
	if name == "" || !utf8.ValidString(name) {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !isNameStart(r) {
				return false
			}
			continue
		}
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

// Normalize rewrites name into a legal element name following the pipeline above
// names that are already valid and in NFC come back unchanged
func Normalize(name string) string {
	name = strings.ToValidUTF8(name, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, name)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = name
	}

	if ns == "" {
		return "_"
	}

	var b strings.Builder
	b.Grow(len(ns) + 1)
	for i, r := range ns {
		if i == 0 && !isNameStart(r) {
			b.WriteByte('_')
			if !isNameChar(r) {
				continue
			}
		}
		if isNameChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// isNameStart is the XML 1.0 (5th ed) NameStartChar production without ':'
func isNameStart(r rune) bool {
	switch {
	case r == '_', 'A' <= r && r <= 'Z', 'a' <= r && r <= 'z':
		return true
	case 0xC0 <= r && r <= 0xD6, 0xD8 <= r && r <= 0xF6, 0xF8 <= r && r <= 0x2FF:
		return true
	case 0x370 <= r && r <= 0x37D, 0x37F <= r && r <= 0x1FFF:
		return true
	case 0x200C <= r && r <= 0x200D, 0x2070 <= r && r <= 0x218F:
		return true
	case 0x2C00 <= r && r <= 0x2FEF, 0x3001 <= r && r <= 0xD7FF:
		return true
	case 0xF900 <= r && r <= 0xFDCF, 0xFDF0 <= r && r <= 0xFFFD:
		return true
	case 0x10000 <= r && r <= 0xEFFFF:
		return true
	}
	return false
}

// isNameChar is the XML 1.0 (5th ed) NameChar production without ':'
func isNameChar(r rune) bool {
	switch {
	case isNameStart(r):
		return true
	case r == '-', r == '.', '0' <= r && r <= '9', r == 0xB7:
		return true
	case 0x300 <= r && r <= 0x36F, 0x203F <= r && r <= 0x2040:
		return true
	}
	return false
}
