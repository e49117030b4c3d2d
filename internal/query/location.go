package query

import "strings"

// Location is an address split the way window.location exposes it: the
// first "#" starts the fragment and the first "?" before it starts the query.
// Splitting never fails and keeps every part verbatim, so addresses a browser
// accepts but net/url rejects (a bare "%" in the path or fragment) still
// split.
type Location struct {
	// Origin is "scheme://authority", or "" for a relative address.
	Origin   string
	Path     string
	RawQuery string
	Fragment string
}

// SplitHref splits href into its location parts.
func SplitHref(href string) Location {
	var loc Location
	rest := href
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		loc.Fragment = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		loc.RawQuery = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.Index(rest, "://"); i > 0 && isScheme(rest[:i]) {
		if j := strings.IndexByte(rest[i+3:], '/'); j >= 0 {
			loc.Origin, rest = rest[:i+3+j], rest[i+3+j:]
		} else {
			loc.Origin, rest = rest, ""
		}
	}
	loc.Path = rest
	if loc.Path == "" && loc.Origin != "" {
		loc.Path = "/"
	}
	return loc
}

// Reference returns path, query and fragment, omitting empty separators.
func (l Location) Reference() string {
	ref := l.Path
	if l.RawQuery != "" {
		ref += "?" + l.RawQuery
	}
	if l.Fragment != "" {
		ref += "#" + l.Fragment
	}
	return ref
}

// String reassembles the address.
func (l Location) String() string { return l.Origin + l.Reference() }

// Resolve returns the absolute address ref points to when read from l.
// Fragment-only, query-only, path-absolute, absolute and
// directory-relative references are supported.
func (l Location) Resolve(ref string) string {
	switch {
	case ref == "":
		base := l
		base.Fragment = ""
		return base.String()
	case strings.HasPrefix(ref, "#"):
		return l.Origin + l.Path + queryPart(l.RawQuery) + ref
	case strings.HasPrefix(ref, "?"):
		return l.Origin + l.Path + ref
	case strings.HasPrefix(ref, "/"):
		return l.Origin + ref
	case SplitHref(ref).Origin != "":
		return ref
	}
	dir := l.Path[:strings.LastIndexByte(l.Path, '/')+1]
	return l.Origin + dir + ref
}

func queryPart(raw string) string {
	if raw == "" {
		return ""
	}
	return "?" + raw
}

func isScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
