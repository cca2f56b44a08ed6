package weburl

import "github.com/region23/weburl/ascii"

// isWindowsDriveLetter reports whether s is exactly two bytes forming a
// Windows drive letter: an ASCII letter followed by ':' or '|'.
func isWindowsDriveLetter(s string) bool {
	return len(s) == 2 && ascii.IsAlpha(s[0]) && (s[1] == ':' || s[1] == '|')
}

// isNormalizedWindowsDriveLetter is isWindowsDriveLetter with the second
// byte restricted to ':'.
func isNormalizedWindowsDriveLetter(s string) bool {
	return len(s) == 2 && ascii.IsAlpha(s[0]) && s[1] == ':'
}

// startsWithWindowsDriveLetter reports whether s begins with a Windows
// drive letter that anchors a file URL path: the drive letter must be the
// whole string, or be followed by '/', '\\', '?' or '#'.
func startsWithWindowsDriveLetter(s string) bool {
	if len(s) < 2 || !isWindowsDriveLetter(s[:2]) {
		return false
	}
	if len(s) == 2 {
		return true
	}
	switch s[2] {
	case '/', '\\', '?', '#':
		return true
	default:
		return false
	}
}

// isSingleDotPathSegment reports whether seg is "." or its percent-encoded
// spelling "%2e" (case-insensitively).
func isSingleDotPathSegment(seg string) bool {
	return seg == "." || equalsFoldASCII(seg, "%2e")
}

// isDoubleDotPathSegment reports whether seg is ".." or a percent-encoded
// spelling thereof: "%2e.", ".%2e" or "%2e%2e" (case-insensitively).
func isDoubleDotPathSegment(seg string) bool {
	switch {
	case seg == "..":
		return true
	case equalsFoldASCII(seg, "%2e."):
		return true
	case equalsFoldASCII(seg, ".%2e"):
		return true
	case equalsFoldASCII(seg, "%2e%2e"):
		return true
	default:
		return false
	}
}

func equalsFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if ascii.ToLower(a[i]) != ascii.ToLower(b[i]) {
			return false
		}
	}
	return true
}

// shortenPath pops the last segment off path, unless doing so would pop
// past a Windows drive letter that is the sole first segment of a file
// URL path.
func shortenPath(schemeKind SchemeKind, path []string) []string {
	if len(path) == 0 {
		return path
	}
	if schemeKind == SchemeFile && len(path) == 1 && isNormalizedWindowsDriveLetter(path[0]) {
		return path
	}
	return path[:len(path)-1]
}
