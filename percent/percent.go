// Package percent implements the WHATWG percent-encoding engine: a family
// of named encode-set predicates, a streaming encoder, a decoder, and the
// application/x-www-form-urlencoded variant.
package percent

import (
	"io"

	"github.com/region23/weburl/ascii"
)

// Set is a predicate over a single ASCII byte: it reports whether that
// byte must be percent-encoded. Non-ASCII bytes (0x80 and above) are
// always escaped by the encoder regardless of what Set says; Set only
// governs the ASCII range. Each level below includes every lower level.
type Set func(c byte) bool

// C0 escapes bytes above 0x7E and C0 controls (0x00-0x1F).
func C0(c byte) bool {
	return c > 0x7E || c < 0x20
}

// Fragment is C0 plus SPACE, '"', '<', '>', '`'.
func Fragment(c byte) bool {
	if C0(c) {
		return true
	}
	switch c {
	case ' ', '"', '<', '>', '`':
		return true
	default:
		return false
	}
}

// Path is Fragment plus '#', '?', '{', '}'.
func Path(c byte) bool {
	if Fragment(c) {
		return true
	}
	switch c {
	case '#', '?', '{', '}':
		return true
	default:
		return false
	}
}

// UserInfo is Path plus '/', ':', ';', '=', '@', '[', ']', '\\', '^', '|'.
func UserInfo(c byte) bool {
	if Path(c) {
		return true
	}
	switch c {
	case '/', ':', ';', '=', '@', '[', ']', '\\', '^', '|':
		return true
	default:
		return false
	}
}

// Query is the generic query encode-set: bytes below 0x21 or above 0x7E,
// or one of '"', '#', '<', '>'.
func Query(c byte) bool {
	if c < 0x21 || c > 0x7E {
		return true
	}
	switch c {
	case '"', '#', '<', '>':
		return true
	default:
		return false
	}
}

// SpecialQuery is Query plus the single-quote, used for special schemes.
func SpecialQuery(c byte) bool {
	return Query(c) || c == '\''
}

// Component is UserInfo (which already includes Path) plus '$', '&',
// '+', ','.
func Component(c byte) bool {
	if UserInfo(c) {
		return true
	}
	switch c {
	case '$', '&', '+', ',':
		return true
	default:
		return false
	}
}

// FormEncoded is Component plus every ASCII byte that is not alphanumeric
// and not one of '*', '-', '.', '_'. SPACE is handled specially by the
// encoder/decoder (it becomes '+'), not by this predicate.
func FormEncoded(c byte) bool {
	if Component(c) {
		return true
	}
	if ascii.IsAlphanumeric(c) {
		return false
	}
	switch c {
	case '*', '-', '.', '_':
		return false
	default:
		return true
	}
}

const hexDigits = "0123456789ABCDEF"

// EncodeTo streams the percent-encoding of s under set to w. Non-ASCII
// bytes are always escaped; ASCII bytes are escaped iff set(b) is true.
func EncodeTo(w io.Writer, s []byte, set Set) error {
	start := 0
	var esc [3]byte
	esc[0] = '%'
	flush := func(end int) error {
		if start < end {
			if _, err := w.Write(s[start:end]); err != nil {
				return err
			}
		}
		return nil
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x80 && !set(c) {
			continue
		}
		if err := flush(i); err != nil {
			return err
		}
		esc[1] = hexDigits[c>>4]
		esc[2] = hexDigits[c&0xF]
		if _, err := w.Write(esc[:]); err != nil {
			return err
		}
		start = i + 1
	}
	return flush(len(s))
}

// Encode returns the percent-encoding of s under set.
func Encode(s []byte, set Set) []byte {
	var buf growBuffer
	_ = EncodeTo(&buf, s, set)
	return buf.b
}

// EncodeString is the string convenience form of Encode.
func EncodeString(s string, set Set) string {
	return string(Encode([]byte(s), set))
}

// growBuffer is a tiny io.Writer sink avoiding a bytes.Buffer import for
// this hot path; it grows geometrically like bytes.Buffer does.
type growBuffer struct{ b []byte }

func (g *growBuffer) Write(p []byte) (int, error) {
	g.b = append(g.b, p...)
	return len(p), nil
}

// Decode percent-decodes s. A '%' not followed by two hex digits is
// emitted literally; scanning resumes at the very next byte, so the
// bytes that followed the malformed '%' are reinspected (and may form a
// valid escape themselves).
func Decode(s []byte) []byte {
	return decode(s, false)
}

// DecodeString is the string convenience form of Decode.
func DecodeString(s string) string {
	return string(Decode([]byte(s)))
}

// FormDecode is Decode plus mapping '+' to SPACE, per
// application/x-www-form-urlencoded.
func FormDecode(s []byte) []byte {
	return decode(s, true)
}

// FormDecodeString is the string convenience form of FormDecode.
func FormDecodeString(s string) string {
	return string(FormDecode([]byte(s)))
}

func decode(s []byte, plusIsSpace bool) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' && i+2 < len(s) && ascii.IsHexDigit(s[i+1]) && ascii.IsHexDigit(s[i+2]) {
			out = append(out, byte(ascii.HexDigitValue(s[i+1])<<4|ascii.HexDigitValue(s[i+2])))
			i += 2
			continue
		}
		if plusIsSpace && c == '+' {
			out = append(out, ' ')
			continue
		}
		out = append(out, c)
	}
	return out
}

// FormEncode percent-encodes s under FormEncoded, additionally mapping
// SPACE to '+'.
func FormEncode(s []byte) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			out = append(out, '+')
		case c >= 0x80 || FormEncoded(c):
			out = append(out, '%', hexDigits[c>>4], hexDigits[c&0xF])
		default:
			out = append(out, c)
		}
	}
	return out
}

// FormEncodeString is the string convenience form of FormEncode.
func FormEncodeString(s string) string {
	return string(FormEncode([]byte(s)))
}
