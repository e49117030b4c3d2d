package dom

import (
	"strings"

	"golang.org/x/net/html"
)

type declaration struct {
	prop  string
	value string
}

func parseStyle(s string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		decls = append(decls, declaration{prop: prop, value: strings.TrimSpace(value)})
	}
	return decls
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.prop+": "+d.value+";")
	}
	return strings.Join(parts, " ")
}

// styleProperty returns the inline value of prop, like element.style[prop].
func styleProperty(n *html.Node, prop string) string {
	var val string
	for _, d := range parseStyle(attr(n, "style")) {
		if d.prop == prop {
			val = d.value
		}
	}
	return val
}

// setStyleProperty writes an inline declaration. An empty value removes it,
// and the style attribute goes away once nothing is left.
func setStyleProperty(n *html.Node, prop, value string) {
	decls := parseStyle(attr(n, "style"))
	out := decls[:0]
	replaced := false
	for _, d := range decls {
		if d.prop != prop {
			out = append(out, d)
			continue
		}
		if value != "" && !replaced {
			out = append(out, declaration{prop: prop, value: value})
			replaced = true
		}
	}
	if value != "" && !replaced {
		out = append(out, declaration{prop: prop, value: value})
	}
	if len(out) == 0 {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", formatStyle(out))
}
