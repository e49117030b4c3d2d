// Package query parses and serializes URL query strings the way browsers do
// for URLSearchParams: pairs keep their original order, duplicate names are
// allowed, and malformed percent escapes are kept verbatim instead of failing.
package query

import (
	"strings"
)

// Pair is a single name/value entry of a query string.
type Pair struct {
	Name  string
	Value string
}

// Params is an ordered list of query pairs.
type Params struct {
	pairs []Pair
}

// Parse decodes an application/x-www-form-urlencoded string. A leading "?"
// is ignored. Parse never fails.
func Parse(raw string) Params {
	raw = strings.TrimPrefix(raw, "?")
	var p Params
	for _, seq := range strings.Split(raw, "&") {
		if seq == "" {
			continue
		}
		name, value, _ := strings.Cut(seq, "=")
		p.pairs = append(p.pairs, Pair{Name: decode(name), Value: decode(value)})
	}
	return p
}

// Has reports whether any pair uses name.
func (p Params) Has(name string) bool {
	for _, pr := range p.pairs {
		if pr.Name == name {
			return true
		}
	}
	return false
}

// Get returns the value of the first pair named name.
func (p Params) Get(name string) (string, bool) {
	for _, pr := range p.pairs {
		if pr.Name == name {
			return pr.Value, true
		}
	}
	return "", false
}

// Delete removes every pair named name and reports whether any was removed.
func (p *Params) Delete(name string) bool {
	kept := make([]Pair, 0, len(p.pairs))
	removed := false
	for _, pr := range p.pairs {
		if pr.Name == name {
			removed = true
			continue
		}
		kept = append(kept, pr)
	}
	p.pairs = kept
	return removed
}

// Pairs returns a copy of the pairs in order.
func (p Params) Pairs() []Pair {
	out := make([]Pair, len(p.pairs))
	copy(out, p.pairs)
	return out
}

// Len returns the number of pairs.
func (p Params) Len() int { return len(p.pairs) }

// Encode serializes the pairs in order. An empty set encodes to "".
func (p Params) Encode() string {
	var b strings.Builder
	for i, pr := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		encode(&b, pr.Name)
		b.WriteByte('=')
		encode(&b, pr.Value)
	}
	return b.String()
}

func decode(s string) string {
	if !strings.ContainsAny(s, "+%") {
		return s
	}
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+':
			buf = append(buf, ' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			buf = append(buf, c)
		}
	}
	return strings.ToValidUTF8(string(buf), "�")
}

const upperHex = "0123456789ABCDEF"

func encode(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case isUnreserved(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0f])
		}
	}
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '*', c == '-', c == '.', c == '_':
		return true
	}
	return false
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
