// Package canon bridges a weburl.URL into the net/url and purell
// ecosystem, for callers that need to hand a parsed URL to code
// expecting *net/url.URL, or want purell's legacy normalization rules
// layered on top of a WHATWG-compliant parse.
package canon

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/purell"
	"golang.org/x/net/idna"

	"github.com/region23/weburl"
)

// ToNetURL converts u into a *net/url.URL, the way a caller bridging
// into the standard library's HTTP client stack would need. The path
// segments are joined into Path as they are, still percent-encoded
// (RawPath is not set), and the query goes into RawQuery undecoded.
func ToNetURL(u *weburl.URL) *url.URL {
	host := u.Hostname()
	if port, ok := u.Port(); ok {
		host = host + ":" + strconv.FormatUint(uint64(port), 10)
	}

	var userinfo *url.Userinfo
	if u.Username() != "" || u.Password() != "" {
		if u.Password() != "" {
			userinfo = url.UserPassword(u.Username(), u.Password())
		} else {
			userinfo = url.User(u.Username())
		}
	}

	path := "/" + strings.Join(u.PathSegments(), "/")
	if !u.HasHost() && !u.CannotBeABase() && len(u.PathSegments()) == 0 {
		path = ""
	}

	ret := &url.URL{
		Scheme: u.Scheme(),
		User:   userinfo,
		Host:   host,
		Path:   path,
	}
	if u.CannotBeABase() {
		ret.Opaque = u.OpaquePath()
	}
	if q, ok := u.Query(); ok {
		ret.RawQuery = q
	}
	if f, ok := u.Fragment(); ok {
		ret.Fragment = f
	}
	return ret
}

// normalizeFlags mirrors the flag set the reference bridge reaches for:
// collapse default ports and numeric host shorthand, drop dot segments
// and duplicate slashes, canonicalize escapes, and sort the query
// string for stable comparison.
const normalizeFlags purell.NormalizationFlags = purell.FlagRemoveDefaultPort |
	purell.FlagDecodeDWORDHost | purell.FlagDecodeOctalHost | purell.FlagDecodeHexHost |
	purell.FlagRemoveUnnecessaryHostDots | purell.FlagRemoveDotSegments | purell.FlagRemoveDuplicateSlashes |
	purell.FlagUppercaseEscapes | purell.FlagDecodeUnnecessaryEscapes | purell.FlagEncodeNecessaryEscapes |
	purell.FlagSortQuery

// Normalize returns u rendered through purell's legacy normalization
// rules, with the hostname additionally rendered in its Unicode form via
// IDNA ToUnicode. This is NOT what Parse/String produce: it exists for
// callers migrating from net/url-based normalization who want a
// directly comparable legacy-style string instead of the strict WHATWG
// serialization.
func Normalize(u *weburl.URL) (string, error) {
	display, err := idna.ToUnicode(u.Hostname())
	if err != nil {
		return "", err
	}

	netURL := ToNetURL(u)
	netURL.Host = strings.ToLower(display)
	if port, ok := u.Port(); ok {
		netURL.Host += ":" + strconv.FormatUint(uint64(port), 10)
	}

	return purell.NormalizeURL(netURL, normalizeFlags), nil
}
