// Package ipv4 implements the WHATWG IPv4 parser (1-4 pieces, each
// decimal/octal/hex, with per-piece overflow tracked without aborting)
// and its dotted-decimal serializer.
package ipv4

import (
	"bytes"

	"github.com/region23/weburl/ascii"
	"github.com/region23/weburl/urlerr"
)

// Status is the three-way result of Parse.
type Status int

const (
	// Success means input was a well-formed IPv4 address.
	Success Status = iota
	// Failure means input looked like an IPv4 address (at most 4 pieces,
	// all numeric) but was invalid (a piece or a field overflows). More
	// than 4 pieces yields NotAnIPAddress, not Failure.
	Failure
	// NotAnIPAddress means input is not an IPv4 address at all and should
	// be tried as a domain instead.
	NotAnIPAddress
)

// Result is the outcome of Parse.
type Result struct {
	Addr   uint32
	Status Status
	Err    urlerr.Kind // meaningful when Status == Failure
}

// Parse parses input (1-4 dot-separated pieces, each decimal, octal
// (leading 0) or hex (0x/0X), a single trailing dot permitted) into a
// 32-bit address in host byte order.
func Parse(input []byte) Result {
	parts := bytes.Split(input, []byte("."))
	if len(parts) > 1 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1] // single trailing dot permitted
	}
	if len(parts) == 0 || (len(parts) == 1 && len(parts[0]) == 0) {
		return Result{Status: NotAnIPAddress, Err: urlerr.IPv4EmptyInput}
	}
	if len(parts) > 4 {
		return Result{Status: NotAnIPAddress, Err: urlerr.IPv4TooManyPieces}
	}

	var numbers [4]uint64
	overflowed := false
	for i, p := range parts {
		val, pieceOverflow, ok := parsePiece(p)
		if !ok {
			return Result{Status: NotAnIPAddress, Err: urlerr.IPv4NonDecimalDigit}
		}
		if pieceOverflow {
			overflowed = true
		}
		numbers[i] = val
	}
	if overflowed {
		return Result{Status: Failure, Err: urlerr.IPv4PieceOverflow}
	}

	n := len(parts)
	for i := 0; i < n-1; i++ {
		if numbers[i] > 0xFF {
			return Result{Status: Failure, Err: urlerr.IPv4PartOutOfRange}
		}
	}
	lastMax := [5]uint64{0, 0xFFFFFFFF, 0xFFFFFF, 0xFFFF, 0xFF}[n]
	if numbers[n-1] > lastMax {
		return Result{Status: Failure, Err: urlerr.IPv4AddressOverflow}
	}

	var addr uint32
	switch n {
	case 1:
		addr = uint32(numbers[0])
	case 2:
		addr = uint32(numbers[0])<<24 | uint32(numbers[1])
	case 3:
		addr = uint32(numbers[0])<<24 | uint32(numbers[1])<<16 | uint32(numbers[2])
	case 4:
		addr = uint32(numbers[0])<<24 | uint32(numbers[1])<<16 | uint32(numbers[2])<<8 | uint32(numbers[3])
	}
	return Result{Addr: addr, Status: Success}
}

// parsePiece parses one dot-separated piece, determining its radix from a
// "0x"/"0X" or leading-"0" prefix. It never aborts early on overflow: the
// whole piece is scanned so that a later invalid character can still turn
// the result into "not structurally a number" (ok=false) rather than a
// false overflow.
func parsePiece(p []byte) (value uint64, overflow bool, ok bool) {
	if len(p) == 0 {
		return 0, false, false
	}
	radix := 10
	rest := p
	switch {
	case len(p) >= 2 && p[0] == '0' && (p[1] == 'x' || p[1] == 'X'):
		radix = 16
		rest = p[2:]
	case len(p) >= 2 && p[0] == '0':
		radix = 8
		rest = p[1:]
	}
	if len(rest) == 0 {
		return 0, false, true
	}
	const overflowGuard = 1 << 32
	for _, c := range rest {
		d := digitValue(c, radix)
		if d < 0 {
			return value, overflow, false
		}
		if value > overflowGuard {
			overflow = true
			continue
		}
		value = value*uint64(radix) + uint64(d)
		if value > 0xFFFFFFFF {
			overflow = true
		}
	}
	return value, overflow, true
}

func digitValue(c byte, radix int) int {
	switch radix {
	case 16:
		return ascii.HexDigitValue(c)
	case 8:
		d := ascii.DecDigitValue(c)
		if d > 7 {
			return ascii.NotFound
		}
		return d
	default:
		return ascii.DecDigitValue(c)
	}
}

// ParseSimple accepts only exactly 4 decimal pieces, each without leading
// zeros (except a lone "0"), and no trailing dot. It is used as the
// strict embedded-IPv4 tail parser inside IPv6 literals.
func ParseSimple(s []byte) (uint32, bool) {
	parts := bytes.Split(s, []byte("."))
	if len(parts) != 4 {
		return 0, false
	}
	var addr uint32
	for _, p := range parts {
		if len(p) == 0 || len(p) > 3 {
			return 0, false
		}
		if len(p) > 1 && p[0] == '0' {
			return 0, false
		}
		var v uint32
		for _, c := range p {
			if !ascii.IsDigit(c) {
				return 0, false
			}
			v = v*10 + uint32(c-'0')
		}
		if v > 255 {
			return 0, false
		}
		addr = addr<<8 | v
	}
	return addr, true
}

// Serialize returns the canonical dotted-decimal form of addr (at most 15
// ASCII bytes).
func Serialize(addr uint32) []byte {
	var buf [15]byte
	n := AppendSerialize(buf[:0], addr)
	return append([]byte(nil), n...)
}

// AppendSerialize appends the dotted-decimal form of addr to dst and
// returns the extended slice.
func AppendSerialize(dst []byte, addr uint32) []byte {
	var digits [3]byte
	for i := 3; i >= 0; i-- {
		octet := byte(addr >> (8 * uint(i)))
		n := ascii.WriteDecimal(digits[:], uint32(octet))
		dst = append(dst, digits[:n]...)
		if i != 0 {
			dst = append(dst, '.')
		}
	}
	return dst
}

// SerializeString is the string convenience form of Serialize.
func SerializeString(addr uint32) string {
	return string(Serialize(addr))
}
