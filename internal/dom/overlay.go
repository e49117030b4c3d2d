package dom

import (
	"strings"

	"github.com/dgnsrekt/return_notice/internal/notice"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// buildOverlay creates the overlay subtree for v and returns it together with
// its close button.
func buildOverlay(v notice.View) (overlay, closeBtn *html.Node) {
	overlay = element(atom.Div,
		"id", v.ID,
		"class", notice.ClassOverlay,
		"role", "dialog",
		"aria-modal", "true",
		"aria-labelledby", v.ID+"-title",
		"style", notice.OverlayStyle,
	)
	surface := element(atom.Div, "class", notice.ClassSurface, "style", notice.SurfaceStyle)

	closeBtn = element(atom.Button,
		"type", "button",
		"class", notice.ClassClose,
		"aria-label", v.CloseLabel,
		"style", notice.CloseStyle,
	)
	closeBtn.AppendChild(text(v.CloseText))

	title := element(atom.H2, "id", v.ID+"-title", "class", notice.ClassTitle)
	title.AppendChild(text(v.Title))

	msg := element(atom.P, "class", notice.ClassMessage)
	msg.AppendChild(text(v.Message))

	surface.AppendChild(closeBtn)
	surface.AppendChild(title)
	surface.AppendChild(msg)
	overlay.AppendChild(surface)
	return overlay, closeBtn
}

// RenderView renders the overlay for v on its own, for previews.
func RenderView(v notice.View) (string, error) {
	overlay, _ := buildOverlay(v)
	var buf strings.Builder
	if err := html.Render(&buf, overlay); err != nil {
		return "", err
	}
	return buf.String(), nil
}
