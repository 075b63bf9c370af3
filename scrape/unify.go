package scrape

import (
	"strings"

	"github.com/psawicki/advault"
)

const (
	// MaxMedia caps the unified media set before download to bound the
	// work one job can generate.
	MaxMedia = 20

	// dedupPrefixLen bounds the dedup key so signed-URL suffixes that
	// vary per fetch still collapse onto the same asset.
	dedupPrefixLen = 120
)

// DedupKey reduces a media URL to its identity: the query string is
// stripped and the remainder truncated to a bounded prefix.
func DedupKey(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	if len(url) > dedupPrefixLen {
		url = url[:dedupPrefixLen]
	}
	return url
}

// Unify merges the DOM scope media, the additional-assets media and the
// correlator's modal traffic into one deduplicated, prioritized list. The
// merge order is the origin precedence order, and the first occurrence of a
// dedup key wins, so a DOM-discovered asset survives over its network
// duplicate.
//
// Only when the merge produces nothing at all does the video-only
// full-session fallback contribute. The result is capped at MaxMedia.
func Unify(dom, extra []advault.MediaRef, modal, all []advault.NetworkObservation) []advault.MediaRef {
	seen := make(map[string]bool)
	var out []advault.MediaRef

	add := func(ref advault.MediaRef) {
		if !strings.HasPrefix(ref.URL, "http") {
			return
		}
		key := DedupKey(ref.URL)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, ref)
	}

	for _, ref := range dom {
		add(ref)
	}
	for _, ref := range extra {
		add(ref)
	}
	for _, o := range modal {
		add(advault.MediaRef{Kind: o.Kind, URL: o.URL, Origin: advault.OriginNetwork})
	}

	if len(out) == 0 {
		for _, ref := range VideoFallback(all) {
			add(ref)
		}
	}

	if len(out) > MaxMedia {
		out = out[:MaxMedia]
	}
	return out
}
