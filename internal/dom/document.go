// Package dom is a retained HTML document that hosts the return notice when
// pages are rendered on the server.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dgnsrekt/return_notice/internal/notice"
	"github.com/dgnsrekt/return_notice/internal/query"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrDuplicateID is returned by Mount when an element already uses the id.
var ErrDuplicateID = errors.New("dom: element id already in use")

const emptyPage = "<!doctype html><html><head></head><body></body></html>"

type mount struct {
	overlay   *html.Node
	close     *html.Node
	onPointer func(notice.Region)
}

// Document is a parsed page plus the little browser state the notice needs:
// location, a history stack, focus, and keydown listeners.
type Document struct {
	root *html.Node
	body *html.Node

	location string
	history  []string
	replaced string

	active    *html.Node
	mounts    map[string]*mount
	listeners map[int]func(string)
	nextKey   int
	mutations int
}

// Parse reads an HTML page loaded from href. href is kept verbatim, as a
// browser's location would keep it.
func Parse(r io.Reader, href string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse html: %w", err)
	}
	body := findFirst(root, atom.Body)
	if body == nil {
		return nil, errors.New("dom: document has no body")
	}
	return &Document{
		root:      root,
		body:      body,
		location:  href,
		history:   []string{href},
		mounts:    make(map[string]*mount),
		listeners: make(map[int]func(string)),
	}, nil
}

// New returns an empty page at href.
func New(href string) (*Document, error) {
	return Parse(strings.NewReader(emptyPage), href)
}

// Href returns the current absolute address.
func (d *Document) Href() string { return d.location }

// ReplaceState resolves ref against the current address and swaps the
// current history entry for it.
func (d *Document) ReplaceState(ref string) {
	next := query.SplitHref(d.location).Resolve(ref)
	d.location = next
	d.history[len(d.history)-1] = next
	d.replaced = ref
	d.mutations++
}

// Replaced returns the last reference passed to ReplaceState.
func (d *Document) Replaced() (string, bool) { return d.replaced, d.replaced != "" }

// HistoryLen returns the number of history entries.
func (d *Document) HistoryLen() int { return len(d.history) }

// Overflow returns the body's inline overflow value.
func (d *Document) Overflow() string { return styleProperty(d.body, "overflow") }

// SetOverflow sets the body's inline overflow; "" removes it.
func (d *Document) SetOverflow(v string) {
	setStyleProperty(d.body, "overflow", v)
	d.mutations++
}

// Mount appends the dialog overlay to the body.
func (d *Document) Mount(v notice.View, onPointer func(notice.Region)) error {
	if d.GetElementByID(v.ID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateID, v.ID)
	}
	overlay, closeBtn := buildOverlay(v)
	d.body.AppendChild(overlay)
	d.mounts[v.ID] = &mount{overlay: overlay, close: closeBtn, onPointer: onPointer}
	d.mutations++
	return nil
}

// Unmount removes the overlay with id.
func (d *Document) Unmount(id string) {
	m, ok := d.mounts[id]
	if !ok {
		return
	}
	if m.overlay.Parent != nil {
		m.overlay.Parent.RemoveChild(m.overlay)
	}
	if d.active != nil && contains(m.overlay, d.active) {
		d.active = nil
	}
	delete(d.mounts, id)
	d.mutations++
}

// FocusClose focuses the close control of dialog id.
func (d *Document) FocusClose(id string) {
	if m, ok := d.mounts[id]; ok {
		d.active = m.close
	}
}

// ActiveElement returns the focused element, or nil for the body.
func (d *Document) ActiveElement() *html.Node { return d.active }

// ListenKeys registers a keydown listener.
func (d *Document) ListenKeys(fn func(string)) func() {
	id := d.nextKey
	d.nextKey++
	d.listeners[id] = fn
	return func() { delete(d.listeners, id) }
}

// ListenerCount returns the number of live keydown listeners.
func (d *Document) ListenerCount() int { return len(d.listeners) }

// PressKey dispatches a keydown to every live listener in registration order.
func (d *Document) PressKey(key string) {
	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := d.listeners[id]; ok {
			fn(key)
		}
	}
}

// Click dispatches a pointer event whose target is n.
func (d *Document) Click(n *html.Node) {
	for _, m := range d.mounts {
		if !contains(m.overlay, n) {
			continue
		}
		switch {
		case contains(m.close, n):
			m.onPointer(notice.RegionClose)
		case n == m.overlay:
			m.onPointer(notice.RegionBackdrop)
		default:
			m.onPointer(notice.RegionSurface)
		}
		return
	}
}

// GetElementByID returns the first element with id.
func (d *Document) GetElementByID(id string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// QueryClass returns the first element under root carrying class.
func (d *Document) QueryClass(root *html.Node, class string) *html.Node {
	if root == nil {
		root = d.root
	}
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && hasClass(n, class) {
			found = n
			return false
		}
		return true
	})
	return found
}

// CountRole counts elements with the given ARIA role.
func (d *Document) CountRole(role string) int {
	count := 0
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "role") == role {
			count++
		}
		return true
	})
	return count
}

// Mutations counts changes made through the host methods.
func (d *Document) Mutations() int { return d.mutations }

// AppendScript adds an inline script at the end of the body.
func (d *Document) AppendScript(src string) {
	s := element(atom.Script)
	s.AppendChild(&html.Node{Type: html.TextNode, Data: src})
	d.body.AppendChild(s)
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, returning "" on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// TextContent returns the concatenated text under n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) string { return attr(n, key) }

func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func findFirst(root *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}

func contains(ancestor, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
