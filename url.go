// Package weburl implements a WHATWG-compliant URL parser, normalizer and
// serializer: the state-machine scanner/processor, host dispatch, IPv4
// and IPv6 parsing, and the percent-encoding engine that together
// reproduce how a modern web browser interprets a URL string.
package weburl

import (
	"github.com/region23/weburl/host"
	"github.com/region23/weburl/urlerr"
)

// SchemeKind tags the six WHATWG "special" schemes, or "other" for
// everything else.
type SchemeKind int

const (
	SchemeOther SchemeKind = iota
	SchemeFTP
	SchemeFile
	SchemeHTTP
	SchemeHTTPS
	SchemeWS
	SchemeWSS
)

// IsSpecial reports whether k is one of the six WHATWG special schemes.
func (k SchemeKind) IsSpecial() bool { return k != SchemeOther }

// DefaultPort returns the scheme's default port, if it has one. file has
// none, even though it is special.
func (k SchemeKind) DefaultPort() (uint16, bool) {
	switch k {
	case SchemeFTP:
		return 21, true
	case SchemeHTTP, SchemeWS:
		return 80, true
	case SchemeHTTPS, SchemeWSS:
		return 443, true
	default:
		return 0, false
	}
}

func schemeKindOf(s string) SchemeKind {
	switch s {
	case "ftp":
		return SchemeFTP
	case "file":
		return SchemeFile
	case "http":
		return SchemeHTTP
	case "https":
		return SchemeHTTPS
	case "ws":
		return SchemeWS
	case "wss":
		return SchemeWSS
	default:
		return SchemeOther
	}
}

// URL is a parsed URL. It is immutable once returned from Parse or Join;
// Set* methods return a new value rather than mutating in place, except
// where documented.
//
// The zero value is not a valid URL; every URL is constructed through
// Parse.
type URL struct {
	scheme     string
	schemeKind SchemeKind

	hasHost bool
	host    host.Host

	username string
	password string
	port     *uint16

	cannotBeABase bool
	opaquePath    string
	path          []string

	query    *string
	fragment *string
}

// Scheme returns the URL's scheme, always non-empty.
func (u *URL) Scheme() string { return u.scheme }

// SchemeKind returns the tagged scheme kind.
func (u *URL) SchemeKind() SchemeKind { return u.schemeKind }

// HasHost reports whether the URL has an authority at all (even an empty
// one, as in "file:///path").
func (u *URL) HasHost() bool { return u.hasHost }

// Host returns the parsed host. Only meaningful when HasHost is true.
func (u *URL) Host() host.Host { return u.host }

// Hostname returns the host serialized the way it appears in the URL, or
// "" if there is no host.
func (u *URL) Hostname() string {
	if !u.hasHost {
		return ""
	}
	return u.host.String()
}

// Username returns the username component, or "" if absent.
func (u *URL) Username() string { return u.username }

// Password returns the password component, or "" if absent.
func (u *URL) Password() string { return u.password }

// Port returns the port and whether one is present. A present port is
// never equal to the scheme's default port (invariant 3).
func (u *URL) Port() (uint16, bool) {
	if u.port == nil {
		return 0, false
	}
	return *u.port, true
}

// CannotBeABase reports whether the URL's path is a single opaque string
// (e.g. "mailto:user@example.org") rather than a list of segments.
func (u *URL) CannotBeABase() bool { return u.cannotBeABase }

// PathSegments returns the path as a list of segments. It is empty for a
// cannot-be-a-base URL; use OpaquePath for that case.
func (u *URL) PathSegments() []string {
	if u.cannotBeABase {
		return nil
	}
	out := make([]string, len(u.path))
	copy(out, u.path)
	return out
}

// OpaquePath returns the single opaque path string for a cannot-be-a-base
// URL, or "" otherwise.
func (u *URL) OpaquePath() string {
	if !u.cannotBeABase {
		return ""
	}
	return u.opaquePath
}

// Query returns the query component (without '?') and whether it is
// present.
func (u *URL) Query() (string, bool) {
	if u.query == nil {
		return "", false
	}
	return *u.query, true
}

// Fragment returns the fragment component (without '#') and whether it is
// present.
func (u *URL) Fragment() (string, bool) {
	if u.fragment == nil {
		return "", false
	}
	return *u.fragment, true
}

// canHaveCredentialsOrPort reports whether the URL is allowed to carry a
// username, password or port at all (invariant 2).
func (u *URL) canHaveCredentialsOrPort() bool {
	return u.hasHost && u.host.Kind != host.Empty && !u.cannotBeABase && u.schemeKind != SchemeFile
}

// Parse parses input into a URL, optionally resolved against base. It
// reports validation errors (non-fatal and fatal) to opts' sink, if any.
func Parse(input string, opts ...Option) (*URL, error) {
	cfg := applyOptions(opts)
	u, err := parseInternal([]byte(input), cfg.base, noOverride, cfg.sink)
	if k, ok := urlerr.AsError(err); ok {
		urlerr.Report(cfg.sink, k)
	}
	return u, err
}

// Join resolves ref against u, equivalent to Parse(ref, WithBase(u)).
func (u *URL) Join(ref string, opts ...Option) (*URL, error) {
	cfg := applyOptions(opts)
	cfg.base = u
	v, err := parseInternal([]byte(ref), cfg.base, noOverride, cfg.sink)
	if k, ok := urlerr.AsError(err); ok {
		urlerr.Report(cfg.sink, k)
	}
	return v, err
}

// Option configures a Parse or Join call.
type Option func(*config)

type config struct {
	base *URL
	sink urlerr.Sink
}

func applyOptions(opts []Option) config {
	var c config
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithBase resolves the input against base, as the WHATWG parser does
// when given an optional base URL.
func WithBase(base *URL) Option {
	return func(c *config) { c.base = base }
}

// WithSink reports non-fatal and fatal validation errors to sink as
// parsing proceeds, in byte order.
func WithSink(sink urlerr.Sink) Option {
	return func(c *config) { c.sink = sink }
}
