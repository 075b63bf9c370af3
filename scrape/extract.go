package scrape

import (
	"regexp"
	"strings"

	"github.com/psawicki/advault"
)

// Content extraction thresholds.
const (
	// maxPageNameLen bounds page-name candidates; longer text is body
	// copy, not a name.
	maxPageNameLen = 80

	// Body text blocks must sit inside these size and structure bounds to
	// qualify as ad copy.
	minBodyBlockLen      = 30
	maxBodyBlockLen      = 5000
	maxBodyBlockChildren = 8
	minBodyBlockWidth    = 100

	// maxBodyTextLen caps the stored ad copy.
	maxBodyTextLen = 3000

	// minMediaDim is the minimum rendered dimension for scope media;
	// smaller images are UI icons and avatars.
	minMediaDim = 200

	// maxAvatarDim: a square image under this size is an avatar.
	maxAvatarDim = 300
)

// pageNameDenylist holds UI boilerplate that disqualifies a page-name
// candidate.
var pageNameDenylist = []string{
	"Ad Library",
	"Facebook",
	"Search",
	"Filter",
	"Log in",
	"Sign up",
	"See ad details",
	"Active",
	"Inactive",
	"About this ad",
	"Learn more",
}

// platformTokens is the fixed set of platform names recognized in scope
// text. A platform is reported iff its literal token appears.
var platformTokens = []string{
	"Facebook",
	"Instagram",
	"Messenger",
	"Audience Network",
}

var (
	startedOnPatterns = []*regexp.Regexp{
		regexp.MustCompile(`Started running on ([A-Za-z]+ \d{1,2}, \d{4})`),
		regexp.MustCompile(`Started running[:\s]+([A-Za-z]+ \d{1,2}, \d{4})`),
	}
	activeRe   = regexp.MustCompile(`\bActive\b`)
	inactiveRe = regexp.MustCompile(`\bInactive\b`)
)

// Extract pulls the structured ad fields out of the resolved scope. It
// operates purely on the snapshot tree; no network calls. Every field is
// computed from the scope subtree only, so a found scope never mixes in
// sibling-ad text.
func Extract(scope Scope) *advault.Extraction {
	scopeText := scope.Node.InnerText()

	ext := &advault.Extraction{
		Status:       advault.StatusUnknown,
		FullDocument: scope.FullDocument,
		ScopeFound:   scope.Found,
	}

	if activeRe.MatchString(scopeText) {
		ext.Status = advault.StatusActive
	} else if inactiveRe.MatchString(scopeText) {
		ext.Status = advault.StatusInactive
	}

	for _, re := range startedOnPatterns {
		if m := re.FindStringSubmatch(scopeText); m != nil {
			ext.StartedOn = m[1]
			break
		}
	}

	for _, token := range platformTokens {
		if strings.Contains(scopeText, token) {
			ext.Platforms = append(ext.Platforms, token)
		}
	}

	ext.PageName = pageNameCandidate(scope.Node)
	ext.BodyText = bodyText(scope.Node)

	// The first line of the ad copy is usually the advertiser's name and
	// beats the element-based candidate when it is short enough to be one.
	if first := firstLine(ext.BodyText); first != "" && len(first) < maxPageNameLen {
		ext.PageName = first
	}
	if len(ext.BodyText) > maxBodyTextLen {
		ext.BodyText = ext.BodyText[:maxBodyTextLen]
	}

	ext.Media = scopeMedia(scope.Node)

	return ext
}

// pageNameCandidate returns the first short, non-boilerplate text from the
// ranked candidate set: links, headings and emphasized text.
func pageNameCandidate(scope *advault.Node) string {
	var name string
	scope.Walk(func(n *advault.Node, _ int) {
		if name != "" {
			return
		}
		switch {
		case n.Tag == "a" && n.Attr("href") != "":
		case n.Tag == "h1" || n.Tag == "h2" || n.Tag == "h3":
		case n.Tag == "strong":
		case n.Attr("role") == "heading":
		default:
			return
		}
		t := strings.TrimSpace(n.InnerText())
		if len(t) <= 1 || len(t) >= maxPageNameLen {
			return
		}
		for _, phrase := range pageNameDenylist {
			if strings.Contains(t, phrase) {
				return
			}
		}
		name = t
	})
	return name
}

// bodyText returns the longest qualifying text block in the scope that is
// not a metadata line. Later blocks win length ties, matching a
// document-order sweep.
func bodyText(scope *advault.Node) string {
	var body string
	scope.Walk(func(n *advault.Node, _ int) {
		if n.Tag != "div" && n.Tag != "p" && n.Tag != "span" {
			return
		}
		if n.ChildCount() >= maxBodyBlockChildren {
			return
		}
		if n.Rect.Width > 0 && n.Rect.Width <= minBodyBlockWidth {
			return
		}
		t := strings.TrimSpace(n.InnerText())
		if len(t) <= minBodyBlockLen || len(t) >= maxBodyBlockLen {
			return
		}
		if strings.Contains(t, "Started running") || strings.Contains(t, "Ad Library") {
			return
		}
		if len(t) >= len(body) {
			body = t
		}
	})
	return body
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

// scopeMedia collects image and video references inside the scope, in
// document order, filtered down to plausible ad creative.
func scopeMedia(scope *advault.Node) []advault.MediaRef {
	var refs []advault.MediaRef
	scope.Walk(func(n *advault.Node, _ int) {
		switch n.Tag {
		case "img":
			src := n.Attr("src")
			if !usableImage(n, src) {
				return
			}
			refs = append(refs, advault.MediaRef{Kind: advault.MediaImage, URL: src, Origin: advault.OriginScope})
		case "video":
			if src := n.Attr("src"); strings.HasPrefix(src, "http") {
				refs = append(refs, advault.MediaRef{Kind: advault.MediaVideo, URL: src, Origin: advault.OriginScope})
			}
			// A poster frame is worth archiving even when the video
			// itself cannot be fetched.
			if poster := n.Attr("poster"); strings.HasPrefix(poster, "http") {
				refs = append(refs, advault.MediaRef{Kind: advault.MediaImage, URL: poster, Origin: advault.OriginScope})
			}
			for _, c := range n.Children {
				if c.Tag != "source" {
					continue
				}
				if src := c.Attr("src"); strings.HasPrefix(src, "http") {
					refs = append(refs, advault.MediaRef{Kind: advault.MediaVideo, URL: src, Origin: advault.OriginScope})
				}
			}
		}
	})
	return refs
}

func usableImage(n *advault.Node, src string) bool {
	if !strings.HasPrefix(src, "http") {
		return false
	}
	if n.NaturalWidth <= minMediaDim || n.NaturalHeight <= minMediaDim {
		return false
	}
	// Small squares are avatars and profile icons.
	if n.NaturalWidth == n.NaturalHeight && n.NaturalWidth < maxAvatarDim {
		return false
	}
	for _, part := range noiseURLParts {
		if strings.Contains(src, part) {
			return false
		}
	}
	return true
}

// FallbackPageName scans scope text line by line for something that looks
// like an advertiser name, and falls back to a synthetic name from the ad
// id. Used when no candidate element produced a name.
func FallbackPageName(text, adID string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 30 {
		lines = lines[:30]
	}
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if len(t) <= 5 || len(t) >= 60 {
			continue
		}
		lower := strings.ToLower(t)
		skip := false
		for _, phrase := range []string{"ad library", "facebook", "search", "filter", "log in", "sign"} {
			if strings.Contains(lower, phrase) {
				skip = true
				break
			}
		}
		if !skip {
			return t
		}
	}
	return "Ad_" + adID
}
