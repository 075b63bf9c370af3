package advault

import "strings"

// Rect is an element's layout rectangle in CSS pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// Node is one element in a rendered-document snapshot. A browser session
// produces Node trees with layout and computed-style fields populated;
// trees parsed from static HTML carry zero values there.
//
// Node trees are immutable once built.
type Node struct {
	// Tag is the lowercase element tag name.
	Tag string

	// Attrs holds the element's attributes.
	Attrs map[string]string

	// Text is the element's own text content (direct text children only),
	// whitespace-trimmed.
	Text string

	// Rect is the rendered bounding box; zero when layout is unknown.
	Rect Rect

	// Position is the computed CSS position (static, fixed, absolute, ...).
	Position string

	// ZIndex is the computed z-index, 0 when auto or unknown.
	ZIndex int

	// NaturalWidth and NaturalHeight are the intrinsic dimensions of an
	// image element, 0 for everything else.
	NaturalWidth  int
	NaturalHeight int

	// Children are the element children in document order.
	Children []*Node
}

// Attr returns the value of the named attribute, or "" if absent.
func (n *Node) Attr(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// InnerText returns the text of the whole subtree, one line per text-bearing
// element, in document order. It approximates the browser's innerText
// closely enough for token and pattern matching.
func (n *Node) InnerText() string {
	var b strings.Builder
	n.appendText(&b)
	return b.String()
}

func (n *Node) appendText(b *strings.Builder) {
	if n.Text != "" {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(n.Text)
	}
	for _, c := range n.Children {
		c.appendText(b)
	}
}

// ChildCount returns the number of direct element children.
func (n *Node) ChildCount() int {
	return len(n.Children)
}

// Walk visits the subtree depth-first in document order. The callback
// receives each node together with its depth relative to n (n itself is
// depth 0).
func (n *Node) Walk(fn func(n *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(n *Node, depth int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
