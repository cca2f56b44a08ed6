package weburl

import (
	"strconv"

	"github.com/region23/weburl/ascii"
	"github.com/region23/weburl/host"
	"github.com/region23/weburl/percent"
	"github.com/region23/weburl/urlerr"
)

// state names the 21 states of the URL scanner/processor, per the data
// flow described in component F: raw bytes are prepped (trimmed/filtered)
// then walked through this machine, which both scans component
// boundaries and (since the two are tightly coupled in practice) builds
// the resulting URL's fields directly as it goes, consulting the host
// parser and path engine along the way.
type state int

const (
	stateSchemeStart state = iota
	stateScheme
	stateNoScheme
	stateSpecialRelativeOrAuthority
	statePathOrAuthority
	stateRelative
	stateRelativeSlash
	stateSpecialAuthoritySlashes
	stateSpecialAuthorityIgnoreSlashes
	stateAuthority
	stateHost
	stateHostname
	statePort
	stateFile
	stateFileSlash
	stateFileHost
	statePathStart
	statePath
	stateCannotBeABaseURLPath
	stateQuery
	stateFragment
)

// noOverride means "start fresh at stateSchemeStart", i.e. this is not a
// setter-mode re-parse of a single component.
var noOverride *state

// baseCopySet mirrors which of scheme/authority/path/query/fragment
// survive from base when input doesn't override them.
type baseCopySet struct {
	scheme, authority, path, query, fragment bool
}

// appendPercentByte appends the percent-encoding of one byte under set.
func appendPercentByte(dst []byte, c byte, set percent.Set) []byte {
	if c < 0x80 && !set(c) {
		return append(dst, c)
	}
	const hex = "0123456789ABCDEF"
	return append(dst, '%', hex[c>>4], hex[c&0xF])
}

func parseInternal(input []byte, base *URL, override *state, sink urlerr.Sink) (*URL, error) {
	stateOverride := override != nil

	var u *URL
	if stateOverride {
		cp := *overrideTarget(base) // setter mode mutates a copy rooted at base (the URL being modified)
		u = &cp
	} else {
		u = &URL{}
	}

	buf := prep(input, sink)

	pointer := 0
	st := stateSchemeStart
	if stateOverride {
		st = *override
	}

	var strBuf []byte
	atSignSeen := false
	insideBrackets := false
	passwordTokenSeen := false

	for {
		eof := pointer >= len(buf)
		var c byte
		if !eof {
			c = buf[pointer]
		}

		switch st {
		case stateSchemeStart:
			switch {
			case !eof && ascii.IsAlpha(c):
				strBuf = append(strBuf, ascii.ToLower(c))
				st = stateScheme
			case !stateOverride:
				st = stateNoScheme
				continue
			default:
				return nil, urlerr.New(urlerr.InvalidSchemeStart)
			}

		case stateScheme:
			switch {
			case !eof && (ascii.IsAlphanumeric(c) || c == '+' || c == '-' || c == '.'):
				strBuf = append(strBuf, ascii.ToLower(c))
			case !eof && c == ':':
				newScheme := string(strBuf)
				newKind := schemeKindOf(newScheme)
				if stateOverride {
					if u.schemeKind.IsSpecial() != newKind.IsSpecial() {
						return u, nil
					}
					if (newKind == SchemeFile) && (u.username != "" || u.password != "" || u.port != nil) {
						return u, nil
					}
					if u.schemeKind == SchemeFile && (!u.hasHost || u.host.Kind == host.Empty) {
						return u, nil
					}
				}
				u.scheme = newScheme
				u.schemeKind = newKind
				if stateOverride {
					if dp, ok := u.schemeKind.DefaultPort(); ok && u.port != nil && *u.port == dp {
						u.port = nil
					}
					return u, nil
				}
				strBuf = strBuf[:0]
				switch {
				case u.schemeKind == SchemeFile:
					st = stateFile
				case u.schemeKind.IsSpecial() && base != nil && base.schemeKind == u.schemeKind:
					st = stateSpecialRelativeOrAuthority
				case u.schemeKind.IsSpecial():
					st = stateSpecialAuthoritySlashes
				case pointer+1 < len(buf) && buf[pointer+1] == '/':
					st = statePathOrAuthority
					pointer++
				default:
					u.cannotBeABase = true
					u.opaquePath = ""
					st = stateCannotBeABaseURLPath
				}
			default:
				if stateOverride {
					return u, nil
				}
				strBuf = strBuf[:0]
				st = stateNoScheme
				pointer = -1 // will become 0 after increment
			}

		case stateNoScheme:
			if base == nil || (base.cannotBeABase && c != '#') {
				return nil, urlerr.New(urlerr.MissingSchemeNonRelativeURL)
			}
			if base.cannotBeABase && c == '#' {
				copyFromBase(u, base, baseCopySet{scheme: true, authority: true, path: true, query: true})
				u.cannotBeABase = true
				st = stateFragment
				break
			}
			if base.schemeKind != SchemeFile {
				st = stateRelative
				continue
			}
			st = stateFile
			continue

		case stateSpecialRelativeOrAuthority:
			if !eof && c == '/' && pointer+1 < len(buf) && buf[pointer+1] == '/' {
				pointer++
				st = stateSpecialAuthoritySlashes
			} else {
				urlerr.Report(sink, urlerr.MissingSolidusBeforeAuthority)
				st = stateRelative
				continue
			}

		case statePathOrAuthority:
			if !eof && c == '/' {
				st = stateAuthority
			} else {
				st = statePath
				continue
			}

		case stateRelative:
			copyFromBase(u, base, baseCopySet{scheme: true})
			switch {
			case eof:
				copyFromBase(u, base, baseCopySet{authority: true, path: true, query: true})
			case c == '/':
				st = stateRelativeSlash
			case c == '?':
				copyFromBase(u, base, baseCopySet{authority: true, path: true})
				st = stateQuery
			case c == '#':
				copyFromBase(u, base, baseCopySet{authority: true, path: true, query: true})
				st = stateFragment
			case u.schemeKind.IsSpecial() && c == '\\':
				urlerr.Report(sink, urlerr.UnexpectedBackslash)
				st = stateRelativeSlash
			default:
				copyFromBase(u, base, baseCopySet{authority: true, path: true})
				if len(u.path) > 0 {
					u.path = shortenPath(u.schemeKind, u.path)
				}
				st = statePath
				continue
			}

		case stateRelativeSlash:
			switch {
			case u.schemeKind.IsSpecial() && (c == '/' || c == '\\'):
				if c == '\\' {
					urlerr.Report(sink, urlerr.UnexpectedBackslash)
				}
				st = stateSpecialAuthorityIgnoreSlashes
			case c == '/':
				st = stateAuthority
			default:
				copyFromBase(u, base, baseCopySet{authority: true})
				st = statePathStart
				continue
			}

		case stateSpecialAuthoritySlashes:
			if !eof && c == '/' && pointer+1 < len(buf) && buf[pointer+1] == '/' {
				pointer++
				st = stateSpecialAuthorityIgnoreSlashes
			} else {
				urlerr.Report(sink, urlerr.MissingSolidusBeforeAuthority)
				st = stateSpecialAuthorityIgnoreSlashes
				continue
			}

		case stateSpecialAuthorityIgnoreSlashes:
			if !eof && (c == '/' || c == '\\') {
				urlerr.Report(sink, urlerr.MissingSolidusBeforeAuthority)
			} else {
				st = stateAuthority
				continue
			}

		case stateAuthority:
			switch {
			case c == '@' && !eof:
				if atSignSeen {
					strBuf = append([]byte("%40"), strBuf...)
				}
				atSignSeen = true
				urlerr.Report(sink, urlerr.UnexpectedAt)
				flushUserinfo(u, strBuf, &passwordTokenSeen)
				strBuf = strBuf[:0]
			case (eof || c == '/' || c == '?' || c == '#' || (u.schemeKind.IsSpecial() && c == '\\')):
				if atSignSeen && len(strBuf) == 0 {
					return nil, urlerr.New(urlerr.UnexpectedCredentialsWithoutHost)
				}
				pointer -= len(strBuf)
				strBuf = strBuf[:0]
				st = stateHost
				continue
			default:
				strBuf = append(strBuf, c)
			}

		case stateHost, stateHostname:
			if stateOverride && u.schemeKind == SchemeFile {
				st = stateFileHost
				continue
			}
			hostnameOnlyOverride := stateOverride && st == stateHostname
			switch {
			case c == ':' && !insideBrackets && !eof && !hostnameOnlyOverride:
				if len(strBuf) == 0 {
					return nil, urlerr.New(urlerr.HostInvalid)
				}
				h, err := host.Parse(strBuf, !u.schemeKind.IsSpecial(), sink)
				if err != nil {
					return nil, err
				}
				u.hasHost = true
				u.host = h
				strBuf = strBuf[:0]
				st = statePort
			case eof || c == '/' || c == '?' || c == '#' || (u.schemeKind.IsSpecial() && c == '\\') ||
				(hostnameOnlyOverride && c == ':' && !insideBrackets):
				if u.schemeKind.IsSpecial() && len(strBuf) == 0 {
					return nil, urlerr.New(urlerr.EmptyHostSpecialScheme)
				}
				if stateOverride && len(strBuf) == 0 && (u.username != "" || u.password != "" || u.port != nil) {
					return u, nil
				}
				h, err := host.Parse(strBuf, !u.schemeKind.IsSpecial(), sink)
				if err != nil {
					return nil, err
				}
				u.hasHost = true
				u.host = h
				strBuf = strBuf[:0]
				if stateOverride {
					return u, nil
				}
				st = statePathStart
				continue
			case c == '[':
				insideBrackets = true
				strBuf = append(strBuf, c)
			case c == ']':
				insideBrackets = false
				strBuf = append(strBuf, c)
			default:
				strBuf = append(strBuf, c)
			}

		case statePort:
			switch {
			case !eof && ascii.IsDigit(c):
				strBuf = append(strBuf, c)
			case eof || c == '/' || c == '?' || c == '#' || (u.schemeKind.IsSpecial() && c == '\\') || stateOverride:
				if len(strBuf) > 0 {
					n, err := strconv.ParseUint(string(strBuf), 10, 32)
					if err != nil || n > 65535 {
						return nil, urlerr.New(urlerr.PortOutOfRange)
					}
					port16 := uint16(n)
					if dp, ok := u.schemeKind.DefaultPort(); ok && dp == port16 {
						u.port = nil
					} else {
						u.port = &port16
					}
					strBuf = strBuf[:0]
				}
				if stateOverride {
					return u, nil
				}
				st = statePathStart
				continue
			default:
				return nil, urlerr.New(urlerr.PortInvalid)
			}

		case stateFile:
			u.schemeKind = SchemeFile
			u.scheme = "file"
			u.hasHost = true
			u.host = host.Host{Kind: host.Empty}
			switch {
			case c == '/' || c == '\\':
				if c == '\\' {
					urlerr.Report(sink, urlerr.UnexpectedBackslash)
				}
				st = stateFileSlash
			case base != nil && base.schemeKind == SchemeFile:
				u.hasHost = true
				u.host = base.host
				u.path = append([]string(nil), base.path...)
				u.query = copyStrPtr(base.query)
				switch {
				case eof:
				case c == '?':
					u.query = nil
					st = stateQuery
				case c == '#':
					st = stateFragment
				default:
					u.query = nil
					if !startsWithWindowsDriveLetter(string(buf[pointer:])) {
						u.path = shortenPath(u.schemeKind, u.path)
					} else {
						u.path = nil
					}
					st = statePath
					continue
				}
			default:
				st = statePath
				continue
			}

		case stateFileSlash:
			switch {
			case c == '/' || c == '\\':
				if c == '\\' {
					urlerr.Report(sink, urlerr.UnexpectedBackslash)
				}
				st = stateFileHost
			default:
				if base != nil && base.schemeKind == SchemeFile {
					u.hasHost = true
					u.host = base.host
					if !startsWithWindowsDriveLetter(string(buf[pointer:])) && len(base.path) > 0 && isNormalizedWindowsDriveLetter(base.path[0]) {
						u.path = append(u.path, base.path[0])
					}
				}
				st = statePathStart
				continue
			}

		case stateFileHost:
			switch {
			case eof || c == '/' || c == '\\' || c == '?' || c == '#':
				if isWindowsDriveLetter(string(strBuf)) {
					urlerr.Report(sink, urlerr.FileMissingSolidus)
					st = statePath
					continue
				}
				if len(strBuf) == 0 {
					u.hasHost = true
					u.host = host.Host{Kind: host.Empty}
					if stateOverride {
						return u, nil
					}
					st = statePathStart
					continue
				}
				h, err := host.Parse(strBuf, false, sink)
				if err != nil {
					return nil, err
				}
				if h.Kind == host.Domain && h.Domain == "localhost" {
					h = host.Host{Kind: host.Empty}
				}
				u.hasHost = true
				u.host = h
				strBuf = strBuf[:0]
				if stateOverride {
					return u, nil
				}
				st = statePathStart
				continue
			default:
				strBuf = append(strBuf, c)
			}

		case statePathStart:
			switch {
			case u.schemeKind.IsSpecial():
				if c == '\\' {
					urlerr.Report(sink, urlerr.UnexpectedBackslash)
				}
				st = statePath
				if c != '/' && c != '\\' {
					continue
				}
			case !stateOverride && c == '?':
				q := ""
				u.query = &q
				st = stateQuery
			case !stateOverride && c == '#':
				f := ""
				u.fragment = &f
				st = stateFragment
			case !eof:
				st = statePath
				continue
			default:
				if stateOverride && len(u.path) == 0 {
					u.path = []string{}
				}
			}

		case statePath:
			isSegmentEnd := eof || c == '/' || (u.schemeKind.IsSpecial() && c == '\\') ||
				(!stateOverride && (c == '?' || c == '#'))
			if isSegmentEnd {
				if u.schemeKind.IsSpecial() && c == '\\' {
					urlerr.Report(sink, urlerr.SpecialSchemeBackslash)
				}
				seg := string(strBuf)
				switch {
				case isDoubleDotPathSegment(seg):
					u.path = shortenPath(u.schemeKind, u.path)
					if !(c == '/' || (u.schemeKind.IsSpecial() && c == '\\')) {
						u.path = append(u.path, "")
					}
				case isSingleDotPathSegment(seg):
					if !(c == '/' || (u.schemeKind.IsSpecial() && c == '\\')) {
						u.path = append(u.path, "")
					}
				default:
					if u.schemeKind == SchemeFile && len(u.path) == 0 && isWindowsDriveLetter(seg) {
						b := []byte(seg)
						b[1] = ':'
						seg = string(b)
					}
					u.path = append(u.path, seg)
				}
				strBuf = strBuf[:0]
				switch {
				case c == '?':
					q := ""
					u.query = &q
					st = stateQuery
				case c == '#':
					f := ""
					u.fragment = &f
					st = stateFragment
				case eof:
				}
			} else {
				checkURLCodePoint(buf, pointer, sink)
				strBuf = appendPercentByte(strBuf, c, percent.Path)
			}

		case stateCannotBeABaseURLPath:
			switch {
			case c == '?':
				u.opaquePath = string(strBuf)
				q := ""
				u.query = &q
				st = stateQuery
			case c == '#':
				u.opaquePath = string(strBuf)
				f := ""
				u.fragment = &f
				st = stateFragment
			case eof:
				u.opaquePath = string(strBuf)
			default:
				checkURLCodePoint(buf, pointer, sink)
				strBuf = appendPercentByte(strBuf, c, percent.C0)
			}

		case stateQuery:
			set := percent.Query
			if u.schemeKind.IsSpecial() {
				set = percent.SpecialQuery
			}
			switch {
			case (c == '#' && !stateOverride) || eof:
				q := string(strBuf)
				u.query = &q
				strBuf = strBuf[:0]
				if c == '#' {
					f := ""
					u.fragment = &f
					st = stateFragment
				}
			default:
				checkURLCodePoint(buf, pointer, sink)
				strBuf = appendPercentByte(strBuf, c, set)
			}

		case stateFragment:
			if eof {
				f := string(strBuf)
				u.fragment = &f
			} else {
				checkURLCodePoint(buf, pointer, sink)
				strBuf = appendPercentByte(strBuf, c, percent.Fragment)
			}
		}

		if eof {
			break
		}
		pointer++
	}

	if !u.canHaveCredentialsOrPort() {
		u.username, u.password, u.port = "", "", nil
	}

	return u, nil
}

func overrideTarget(base *URL) *URL {
	if base == nil {
		return &URL{}
	}
	return base
}

// flushUserinfo folds an authority-state chunk (the bytes seen since the
// last '@', or since the start of the authority) into the URL's username
// or password, splitting on the first unescaped ':' across the whole
// userinfo and never again after that.
func flushUserinfo(u *URL, buf []byte, passwordTokenSeen *bool) {
	if *passwordTokenSeen {
		u.password += string(percent.Encode(buf, percent.UserInfo))
		return
	}
	colon := -1
	for i, b := range buf {
		if b == ':' {
			colon = i
			break
		}
	}
	if colon < 0 {
		u.username += string(percent.Encode(buf, percent.UserInfo))
		return
	}
	*passwordTokenSeen = true
	u.username += string(percent.Encode(buf[:colon], percent.UserInfo))
	u.password += string(percent.Encode(buf[colon+1:], percent.UserInfo))
}

func copyStrPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyFromBase(u *URL, base *URL, which baseCopySet) {
	if base == nil {
		return
	}
	if which.scheme {
		u.scheme = base.scheme
		u.schemeKind = base.schemeKind
	}
	if which.authority {
		u.hasHost = base.hasHost
		u.host = base.host
		u.username = base.username
		u.password = base.password
		u.port = copyUint16Ptr(base.port)
	}
	if which.path {
		u.cannotBeABase = base.cannotBeABase
		u.opaquePath = base.opaquePath
		u.path = append([]string(nil), base.path...)
	}
	if which.query {
		u.query = copyStrPtr(base.query)
	}
	if which.fragment {
		u.fragment = copyStrPtr(base.fragment)
	}
}

func copyUint16Ptr(p *uint16) *uint16 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// checkURLCodePoint reports non-fatal validation errors for the code
// point starting at buf[pointer]: an unescaped '%' not starting a valid
// percent-escape, or a byte sequence that isn't a URL code point
// (surrogate half, noncharacter, or excluded ASCII punctuation). It is a
// no-op for UTF-8 continuation bytes, since those are validated together
// with their lead byte.
func checkURLCodePoint(buf []byte, pointer int, sink urlerr.Sink) {
	c := buf[pointer]
	if c == '%' {
		if pointer+2 >= len(buf) || !ascii.IsHexDigit(buf[pointer+1]) || !ascii.IsHexDigit(buf[pointer+2]) {
			urlerr.Report(sink, urlerr.UnescapedPercentSign)
		}
		return
	}
	if c&0xC0 == 0x80 {
		return
	}
	if _, ok := ascii.NextURLCodePoint(buf[pointer:]); !ok {
		urlerr.Report(sink, urlerr.InvalidURLCodePoint)
	}
}

// prep trims leading/trailing C0 controls and space, then strips interior
// TAB/LF/CR, reporting validation errors as described in component F.
func prep(input []byte, sink urlerr.Sink) []byte {
	start, end := 0, len(input)
	for start < end && ascii.IsC0OrSpace(input[start]) {
		start++
	}
	for end > start && ascii.IsC0OrSpace(input[end-1]) {
		end--
	}
	if start != 0 || end != len(input) {
		urlerr.Report(sink, urlerr.LeadingOrTrailingControlOrSpace)
	}
	trimmed := input[start:end]

	hasTabOrNewline := false
	for _, c := range trimmed {
		if ascii.IsTabOrNewline(c) {
			hasTabOrNewline = true
			break
		}
	}
	if !hasTabOrNewline {
		return trimmed
	}
	urlerr.Report(sink, urlerr.UnexpectedTabOrNewline)
	out := make([]byte, 0, len(trimmed))
	for _, c := range trimmed {
		if !ascii.IsTabOrNewline(c) {
			out = append(out, c)
		}
	}
	return out
}
