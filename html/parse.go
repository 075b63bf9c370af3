// Package html builds advault.Node snapshot trees from static HTML using
// golang.org/x/net/html. Trees built this way carry no browser layout
// information beyond what width/height attributes and inline styles declare,
// which is enough for tests and for non-browser snapshot sources.
package html

import (
	"io"
	"strconv"
	"strings"

	"github.com/psawicki/advault"
	"golang.org/x/net/html"
)

// Parse reads an HTML document and returns its body as a Node tree.
func Parse(r io.Reader) (*advault.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, advault.Errorf(advault.EINVALID, "failed to parse HTML: %v", err)
	}

	body := findBody(doc)
	if body == nil {
		return nil, advault.Errorf(advault.EINVALID, "document has no body")
	}

	return convert(body), nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*advault.Node, error) {
	return Parse(strings.NewReader(s))
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}

func convert(n *html.Node) *advault.Node {
	out := &advault.Node{
		Tag:   strings.ToLower(n.Data),
		Attrs: make(map[string]string, len(n.Attr)),
	}
	for _, a := range n.Attr {
		out.Attrs[a.Key] = a.Val
	}

	if w, ok := intAttr(out.Attrs, "width"); ok {
		out.NaturalWidth = w
		out.Rect.Width = float64(w)
	}
	if h, ok := intAttr(out.Attrs, "height"); ok {
		out.NaturalHeight = h
		out.Rect.Height = float64(h)
	}
	applyStyle(out, out.Attrs["style"])

	var text []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if t := strings.TrimSpace(c.Data); t != "" {
				text = append(text, t)
			}
		case html.ElementNode:
			if c.Data == "script" || c.Data == "style" {
				continue
			}
			out.Children = append(out.Children, convert(c))
		}
	}
	out.Text = strings.Join(text, " ")

	return out
}

func intAttr(attrs map[string]string, name string) (int, bool) {
	v, ok := attrs[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// applyStyle picks the position and z-index declarations out of an inline
// style attribute. Static HTML has no computed styles, so inline
// declarations are the only style signal available here.
func applyStyle(n *advault.Node, style string) {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(strings.ToLower(name))
		value = strings.TrimSpace(value)
		switch name {
		case "position":
			n.Position = strings.ToLower(value)
		case "z-index":
			if z, err := strconv.Atoi(value); err == nil {
				n.ZIndex = z
			}
		}
	}
}
