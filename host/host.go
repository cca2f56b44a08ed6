// Package host implements the WHATWG host parser: dispatch to IPv6,
// opaque, IPv4, domain or empty host representations, with the
// forbidden-codepoint checks each representation requires.
package host

import (
	"strings"

	"github.com/region23/weburl/ascii"
	"github.com/region23/weburl/ipv4"
	"github.com/region23/weburl/ipv6"
	"github.com/region23/weburl/percent"
	"github.com/region23/weburl/urlerr"
)

// Kind tags which representation a Host holds.
type Kind int

const (
	Empty Kind = iota
	Domain
	IPv4
	IPv6
	Opaque
)

// Host is a tagged union of the five host representations the WHATWG
// host parser can produce.
type Host struct {
	Kind   Kind
	Domain string    // non-empty, lower-case ASCII; valid when Kind == Domain
	IPv4   uint32     // host byte order; valid when Kind == IPv4
	IPv6   ipv6.Addr  // valid when Kind == IPv6
	Opaque string    // percent-encoded, non-empty; valid when Kind == Opaque
}

// String serializes h the way it should be written into a URL.
func (h Host) String() string {
	switch h.Kind {
	case Empty:
		return ""
	case Domain:
		return h.Domain
	case IPv4:
		return ipv4.SerializeString(h.IPv4)
	case IPv6:
		return "[" + ipv6.SerializeString(h.IPv6) + "]"
	case Opaque:
		return h.Opaque
	default:
		return ""
	}
}

// Parse dispatches input to the appropriate host representation. isOpaque
// must be true iff the URL's scheme is not one of the WHATWG special
// schemes. sink is accepted for non-fatal validation reporting; every
// problem the host parser detects (including invalid URL code points and
// malformed percent escapes in an opaque host) is fatal and is returned
// as the error, so nothing is reported to sink.
func Parse(input []byte, isOpaque bool, sink urlerr.Sink) (Host, error) {
	if len(input) == 0 {
		return Host{Kind: Empty}, nil
	}
	if input[0] == '[' {
		if input[len(input)-1] != ']' {
			return Host{}, urlerr.New(urlerr.HostInvalid)
		}
		addr, err := ipv6.Parse(input[1 : len(input)-1])
		if err != nil {
			return Host{}, urlerr.Wrap(urlerr.InvalidIPv6Address, err)
		}
		return Host{Kind: IPv6, IPv6: addr}, nil
	}
	if isOpaque {
		return parseOpaque(input, sink)
	}
	return parseDomain(input, sink)
}

func parseOpaque(input []byte, sink urlerr.Sink) (Host, error) {
	if len(input) == 0 {
		return Host{}, urlerr.New(urlerr.OpaqueHostEmpty)
	}
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c == '%' {
			if i+2 >= len(input) || !ascii.IsHexDigit(input[i+1]) || !ascii.IsHexDigit(input[i+2]) {
				return Host{}, urlerr.New(urlerr.OpaqueHostInvalidPercentEscape)
			}
			continue
		}
		if ascii.IsForbiddenHostCodePoint(c) {
			return Host{}, urlerr.New(urlerr.OpaqueHostForbiddenCodePoint)
		}
	}
	for i := 0; i < len(input); {
		n, ok := ascii.NextURLCodePoint(input[i:])
		if n == 0 {
			n = 1
		}
		if !ok && input[i] != '%' {
			return Host{}, urlerr.New(urlerr.OpaqueHostInvalidURLCodePoint)
		}
		i += n
	}
	return Host{Kind: Opaque, Opaque: string(percent.Encode(input, percent.C0))}, nil
}

func parseDomain(input []byte, sink urlerr.Sink) (Host, error) {
	decoded := percent.Decode(input)

	domain, err := domainToASCII(decoded)
	if err != nil {
		return Host{}, err
	}

	for i := 0; i < len(domain); i++ {
		if ascii.IsForbiddenDomainCodePoint(domain[i]) {
			return Host{}, urlerr.New(urlerr.DomainInvalidCodePoint)
		}
	}
	if len(domain) == 0 {
		return Host{Kind: Empty}, nil
	}

	result := ipv4.Parse([]byte(domain))
	switch result.Status {
	case ipv4.Success:
		return Host{Kind: IPv4, IPv4: result.Addr}, nil
	case ipv4.Failure:
		return Host{}, urlerr.Wrap(urlerr.InvalidIPv4Address, urlerr.New(result.Err))
	default: // NotAnIPAddress
		return Host{Kind: Domain, Domain: domain}, nil
	}
}

// domainToASCII is the spec's deliberately limited "fake domain-to-ASCII":
// it lowercases ASCII letters and rejects any non-ASCII byte, rather than
// performing full Unicode IDNA. See DESIGN.md for why.
func domainToASCII(decoded []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(decoded))
	for _, c := range decoded {
		if c >= 0x80 {
			return "", urlerr.New(urlerr.DomainToASCIIFailure)
		}
		sb.WriteByte(ascii.ToLower(c))
	}
	return sb.String(), nil
}
