package weburl

import (
	"strings"

	"github.com/region23/weburl/percent"
	"github.com/region23/weburl/urlerr"
)

// Setters re-enter the state machine in "state override" mode at the
// state matching the component being replaced, per component G. Per the
// setter contract, a value that cannot be parsed at all (or that would
// violate an invariant the parser enforces, like mismatched specialness
// on a scheme change) leaves the URL unchanged rather than returning an
// error: these are the WHATWG URL API's silently-failing setters.

func withOverride(u *URL, input string, st state) *URL {
	result, err := parseInternal([]byte(input), u, &st, urlerr.NoopSink{})
	if err != nil {
		return u
	}
	return result
}

// SetScheme returns a copy of u with its scheme changed to scheme, or u
// unchanged if the change is not allowed (e.g. switching between a
// special and a non-special scheme).
func (u *URL) SetScheme(scheme string) *URL {
	return withOverride(u, scheme+":", stateSchemeStart)
}

// SetUsername returns a copy of u with its username replaced, or u
// unchanged if u cannot carry credentials.
func (u *URL) SetUsername(username string) *URL {
	if !u.canHaveCredentialsOrPort() {
		return u
	}
	cp := *u
	cp.username = percent.EncodeString(username, percent.UserInfo)
	return &cp
}

// SetPassword returns a copy of u with its password replaced, or u
// unchanged if u cannot carry credentials.
func (u *URL) SetPassword(password string) *URL {
	if !u.canHaveCredentialsOrPort() {
		return u
	}
	cp := *u
	cp.password = percent.EncodeString(password, percent.UserInfo)
	return &cp
}

// SetHost returns a copy of u with its host (and, if present, port)
// replaced by parsing host, or u unchanged if u cannot be a base or host
// fails to parse.
func (u *URL) SetHost(host string) *URL {
	if u.cannotBeABase {
		return u
	}
	return withOverride(u, host, stateHost)
}

// SetHostname is like SetHost but leaves any existing port untouched.
func (u *URL) SetHostname(hostname string) *URL {
	if u.cannotBeABase {
		return u
	}
	return withOverride(u, hostname, stateHostname)
}

// SetPort returns a copy of u with its port replaced, or cleared when
// port is "". It is a no-op when u cannot carry a port.
func (u *URL) SetPort(port string) *URL {
	if !u.canHaveCredentialsOrPort() {
		return u
	}
	if port == "" {
		cp := *u
		cp.port = nil
		return &cp
	}
	return withOverride(u, port, statePort)
}

// SetPathname returns a copy of u with its path replaced by parsing
// path, or u unchanged if u cannot be a base.
func (u *URL) SetPathname(path string) *URL {
	if u.cannotBeABase {
		return u
	}
	cp := *u
	cp.path = nil
	return withOverride(&cp, path, statePathStart)
}

// SetSearch returns a copy of u with its query replaced by query, which
// may optionally carry a leading '?'. An empty string clears the query.
func (u *URL) SetSearch(query string) *URL {
	cp := *u
	if query == "" {
		cp.query = nil
		return &cp
	}
	cp.query = nil
	return withOverride(&cp, strings.TrimPrefix(query, "?"), stateQuery)
}

// SetFragment returns a copy of u with its fragment replaced by
// fragment, which may optionally carry a leading '#'. An empty string
// clears the fragment.
func (u *URL) SetFragment(fragment string) *URL {
	cp := *u
	if fragment == "" {
		cp.fragment = nil
		return &cp
	}
	cp.fragment = nil
	return withOverride(&cp, strings.TrimPrefix(fragment, "#"), stateFragment)
}
