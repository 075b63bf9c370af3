package scrape

import (
	"strings"

	"github.com/psawicki/advault"
)

// Scope resolution thresholds.
const (
	// minScopeWidth is the minimum rendered width for an element to be a
	// plausible ad container rather than a label or button.
	minScopeWidth = 300

	// maxIDMatchChildren bounds the direct children of an ad-id text
	// match, to reject the main results list itself.
	maxIDMatchChildren = 20

	// minPanelHeight and minPanelZIndex describe the generic floating
	// panel signature of an overlay.
	minPanelHeight = 400
	minPanelZIndex = 10

	// maxAnchorChildren bounds the container found via the anchor phrase.
	maxAnchorChildren = 50
)

// anchorPhrase appears only inside an ad's metadata block, never in the
// surrounding chrome, which makes it a usable last-resort anchor.
const anchorPhrase = "Started running on"

// Scope is the resolved DOM subtree believed to contain only the target
// ad's content.
type Scope struct {
	// Node is the scope element; the document root when FullDocument.
	Node *advault.Node

	// Root is the whole document the scope was resolved from.
	Root *advault.Node

	// Strategy names the fallback step that matched, for the job log.
	Strategy string

	// Found is true when a dedicated scope element was located.
	Found bool

	// FullDocument is true when resolution fell back to the whole
	// document, so downstream consumers can down-weight confidence.
	FullDocument bool
}

// Resolve locates the subtree belonging to the ad identified by adID,
// trying strategies in order and falling back to the full document:
//
//  1. the deepest element flagged as a modal/dialog overlay
//  2. the smallest sufficiently wide element whose text contains the ad id
//  3. the smallest tall fixed/absolute high-z-index layer
//  4. the smallest bounded element containing the metadata anchor phrase
//  5. the full document
//
// Every extraction field downstream is computed only from the returned
// scope, which is what keeps sibling ads out of the output.
func Resolve(root *advault.Node, adID string) Scope {
	if n := deepestDialog(root); n != nil {
		return Scope{Node: n, Root: root, Strategy: "dialog overlay", Found: true}
	}
	if n := smallestIDMatch(root, adID); n != nil {
		return Scope{Node: n, Root: root, Strategy: "ad id match", Found: true}
	}
	if n := smallestFloatingPanel(root); n != nil {
		return Scope{Node: n, Root: root, Strategy: "floating panel", Found: true}
	}
	if n := smallestAnchorMatch(root); n != nil {
		return Scope{Node: n, Root: root, Strategy: "metadata anchor", Found: true}
	}
	return Scope{Node: root, Root: root, Strategy: "full document", FullDocument: true}
}

// deepestDialog returns the deepest element carrying an explicit dialog
// role or aria-modal flag; the deepest one is the most specific overlay.
func deepestDialog(root *advault.Node) *advault.Node {
	var best *advault.Node
	bestDepth := -1
	root.Walk(func(n *advault.Node, depth int) {
		if n.Attr("role") != "dialog" && n.Attr("aria-modal") != "true" {
			return
		}
		if depth >= bestDepth {
			best, bestDepth = n, depth
		}
	})
	return best
}

// smallestIDMatch returns the element with the fewest direct children whose
// subtree text contains the ad id verbatim and which is wide enough to be a
// container. Ties keep the earlier element in document order.
func smallestIDMatch(root *advault.Node, adID string) *advault.Node {
	if adID == "" {
		return nil
	}
	var best *advault.Node
	root.Walk(func(n *advault.Node, _ int) {
		if n.Tag != "div" {
			return
		}
		if n.ChildCount() >= maxIDMatchChildren || n.Rect.Width <= minScopeWidth {
			return
		}
		if !strings.Contains(n.InnerText(), adID) {
			return
		}
		if best == nil || n.ChildCount() < best.ChildCount() {
			best = n
		}
	})
	return best
}

// smallestFloatingPanel returns the smallest element matching the generic
// overlay signature: fixed or absolute positioning, a z-index above the
// page, and enough height to hold an ad card.
func smallestFloatingPanel(root *advault.Node) *advault.Node {
	var best *advault.Node
	root.Walk(func(n *advault.Node, _ int) {
		if n.Tag != "div" {
			return
		}
		if n.Position != "fixed" && n.Position != "absolute" {
			return
		}
		if n.ZIndex <= minPanelZIndex || n.Rect.Height <= minPanelHeight {
			return
		}
		if best == nil || n.ChildCount() < best.ChildCount() {
			best = n
		}
	})
	return best
}

// smallestAnchorMatch returns the smallest bounded element containing the
// metadata anchor phrase.
func smallestAnchorMatch(root *advault.Node) *advault.Node {
	var best *advault.Node
	root.Walk(func(n *advault.Node, _ int) {
		if n.Tag != "div" || n.ChildCount() >= maxAnchorChildren {
			return
		}
		if !strings.Contains(n.InnerText(), anchorPhrase) {
			return
		}
		if best == nil || n.ChildCount() < best.ChildCount() {
			best = n
		}
	})
	return best
}
