// Package ipv6 implements the WHATWG IPv6 parser (8 pieces, "::"
// compression, an embedded-IPv4 tail) and its RFC 5952 serializer.
package ipv6

import (
	"github.com/region23/weburl/ascii"
	"github.com/region23/weburl/ipv4"
	"github.com/region23/weburl/urlerr"
)

// Addr is an IPv6 address as 8 pieces of 16 bits, in the order they are
// written (piece 0 is the first group). This is the "numeric" view; Bytes
// gives the "binary", network-byte-order view.
type Addr [8]uint16

// Bytes returns the 16-octet network-byte-order representation.
func (a Addr) Bytes() [16]byte {
	var b [16]byte
	for i, p := range a {
		b[2*i] = byte(p >> 8)
		b[2*i+1] = byte(p)
	}
	return b
}

// FromBytes builds an Addr from its 16-octet network-byte-order form.
func FromBytes(b [16]byte) Addr {
	var a Addr
	for i := range a {
		a[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return a
}

// Parse parses an IPv6 literal's contents (without the surrounding
// brackets).
func Parse(input []byte) (Addr, error) {
	var addr Addr
	if len(input) == 0 {
		return addr, urlerr.New(urlerr.IPv6Empty)
	}

	pointer := 0
	pieceIndex := 0
	compress := -1

	if input[pointer] == ':' {
		if len(input) < 2 || input[pointer+1] != ':' {
			return addr, urlerr.New(urlerr.IPv6UnexpectedLeadingColon)
		}
		pointer += 2
		pieceIndex++
		compress = pieceIndex
	}

	for pointer < len(input) {
		if pieceIndex == 8 {
			return addr, urlerr.New(urlerr.IPv6TooManyPieces)
		}
		if input[pointer] == ':' {
			if compress != -1 {
				return addr, urlerr.New(urlerr.IPv6MultipleCompression)
			}
			pointer++
			pieceIndex++
			compress = pieceIndex
			continue
		}

		value := 0
		length := 0
		for length < 4 && pointer < len(input) && ascii.IsHexDigit(input[pointer]) {
			value = value*16 + ascii.HexDigitValue(input[pointer])
			pointer++
			length++
		}

		if pointer < len(input) && input[pointer] == '.' {
			if length == 0 {
				return addr, urlerr.New(urlerr.IPv6UnexpectedDot)
			}
			pointer -= length
			if pieceIndex > 6 {
				return addr, urlerr.New(urlerr.IPv6TooManyPieces)
			}
			v4Addr, v4ok := ipv4.ParseSimple(input[pointer:])
			if !v4ok {
				cause := urlerr.New(ipv4.Parse(input[pointer:]).Err)
				return addr, urlerr.Wrap(urlerr.IPv6InvalidIPv4Tail, cause)
			}
			addr[pieceIndex] = uint16(v4Addr >> 16)
			addr[pieceIndex+1] = uint16(v4Addr)
			pieceIndex += 2
			pointer = len(input)
			break
		}

		if pointer < len(input) && input[pointer] == ':' {
			pointer++
			if pointer == len(input) {
				return addr, urlerr.New(urlerr.IPv6UnexpectedTrailingColon)
			}
		} else if pointer != len(input) {
			return addr, urlerr.New(urlerr.IPv6UnexpectedCharacter)
		}
		addr[pieceIndex] = uint16(value)
		pieceIndex++
	}

	if compress != -1 {
		swaps := pieceIndex - compress
		tail := 7
		for tail != 0 && swaps > 0 {
			addr[tail], addr[compress+swaps-1] = addr[compress+swaps-1], addr[tail]
			tail--
			swaps--
		}
	} else if pieceIndex != 8 {
		return addr, urlerr.New(urlerr.IPv6NotEnoughPieces)
	}

	return addr, nil
}

// findCompress returns the start index of the longest run of 2+ zero
// pieces (the first such run when several tie), or -1 if there is none.
func findCompress(addr Addr) int {
	bestStart, bestLen := -1, 1
	curStart, curLen := -1, 0
	for i := 0; i < 8; i++ {
		if addr[i] == 0 {
			if curStart == -1 {
				curStart = i
			}
			curLen++
		} else {
			if curLen > bestLen {
				bestStart, bestLen = curStart, curLen
			}
			curStart, curLen = -1, 0
		}
	}
	if curLen > bestLen {
		bestStart, bestLen = curStart, curLen
	}
	return bestStart
}

// Serialize returns the RFC 5952 canonical form: the longest run of 2+
// zero pieces compressed to "::", remaining pieces lower-case hex with no
// leading zeros. At most 39 ASCII bytes.
func Serialize(addr Addr) []byte {
	compress := findCompress(addr)
	buf := make([]byte, 0, 39)
	var hex [4]byte
	ignore0 := false
	for i := 0; i < 8; i++ {
		if ignore0 && addr[i] == 0 {
			continue
		} else if ignore0 {
			ignore0 = false
		}
		if compress == i {
			if i == 0 {
				buf = append(buf, ':', ':')
			} else {
				buf = append(buf, ':')
			}
			ignore0 = true
			continue
		}
		n := ascii.WriteHex(hex[:], uint32(addr[i]))
		buf = append(buf, hex[:n]...)
		if i != 7 {
			buf = append(buf, ':')
		}
	}
	return buf
}

// SerializeString is the string convenience form of Serialize.
func SerializeString(addr Addr) string {
	return string(Serialize(addr))
}
