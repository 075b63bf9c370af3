package rod

import (
	"encoding/json"
	"fmt"

	"github.com/psawicki/advault"
)

// snapshotJS serializes the rendered document, rooted at body, into the
// JSON form decoded by DecodeSnapshot. Layout and the computed style
// fields used by scope resolution are captured per element; script and
// style subtrees are skipped.
const snapshotJS = `() => {
	const skip = new Set(['SCRIPT', 'STYLE', 'NOSCRIPT', 'TEMPLATE']);
	const serialize = (el) => {
		const attrs = {};
		for (const a of el.attributes) {
			attrs[a.name] = a.value;
		}
		let text = '';
		for (const child of el.childNodes) {
			if (child.nodeType === Node.TEXT_NODE) {
				const t = child.textContent.trim();
				if (t) text = text ? text + ' ' + t : t;
			}
		}
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		const z = parseInt(style.zIndex, 10);
		const node = {
			tag: el.tagName.toLowerCase(),
			attrs: attrs,
			text: text,
			rect: {x: rect.x, y: rect.y, w: rect.width, h: rect.height},
			position: style.position,
			zIndex: isNaN(z) ? 0 : z,
			naturalWidth: el.naturalWidth || 0,
			naturalHeight: el.naturalHeight || 0,
			children: [],
		};
		for (const child of el.children) {
			if (!skip.has(child.tagName)) {
				node.children.push(serialize(child));
			}
		}
		return node;
	};
	return JSON.stringify(serialize(document.body));
}`

type wireNode struct {
	Tag           string            `json:"tag"`
	Attrs         map[string]string `json:"attrs"`
	Text          string            `json:"text"`
	Rect          advault.Rect      `json:"rect"`
	Position      string            `json:"position"`
	ZIndex        int               `json:"zIndex"`
	NaturalWidth  int               `json:"naturalWidth"`
	NaturalHeight int               `json:"naturalHeight"`
	Children      []*wireNode       `json:"children"`
}

// DecodeSnapshot decodes the serializer's JSON into a node tree.
func DecodeSnapshot(data []byte) (*advault.Node, error) {
	var root wireNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding document snapshot: %w", err)
	}
	return root.toNode(), nil
}

func (w *wireNode) toNode() *advault.Node {
	n := &advault.Node{
		Tag:           w.Tag,
		Attrs:         w.Attrs,
		Text:          w.Text,
		Rect:          w.Rect,
		Position:      w.Position,
		ZIndex:        w.ZIndex,
		NaturalWidth:  w.NaturalWidth,
		NaturalHeight: w.NaturalHeight,
	}
	for _, c := range w.Children {
		n.Children = append(n.Children, c.toNode())
	}
	return n
}
