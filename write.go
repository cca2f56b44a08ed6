package weburl

import "strconv"

// String serializes u per the writing order: scheme, authority header,
// credentials, host, port, path (preceded by the "/." sigil when the URL
// has no authority and its path has more than one segment, the first of
// them empty), query and fragment.
func (u *URL) String() string {
	var b []byte
	b = append(b, u.scheme...)
	b = append(b, ':')

	if u.hasHost {
		b = append(b, '/', '/')
		if u.username != "" || u.password != "" {
			b = append(b, u.username...)
			if u.password != "" {
				b = append(b, ':')
				b = append(b, u.password...)
			}
			b = append(b, '@')
		}
		b = append(b, u.host.String()...)
		if u.port != nil {
			b = append(b, ':')
			b = strconv.AppendUint(b, uint64(*u.port), 10)
		}
	} else if !u.cannotBeABase && len(u.path) > 1 && u.path[0] == "" {
		// A host-less path whose first segment is empty would otherwise
		// be misread as starting an authority; WHATWG calls this out as
		// the path-sigil case and inserts "/." before it.
		b = append(b, '/', '.')
	}

	if u.cannotBeABase {
		b = append(b, u.opaquePath...)
	} else {
		for _, seg := range u.path {
			b = append(b, '/')
			b = append(b, seg...)
		}
	}

	if u.query != nil {
		b = append(b, '?')
		b = append(b, *u.query...)
	}
	if u.fragment != nil {
		b = append(b, '#')
		b = append(b, *u.fragment...)
	}
	return string(b)
}
