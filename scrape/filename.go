package scrape

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/psawicki/advault"
)

// Filename derives a stable archive filename for a media asset:
// kind, 1-based ordinal, a short hash of the URL, and an extension inferred
// from the URL suffix.
func Filename(kind advault.MediaKind, ordinal int, url string) string {
	h := fmt.Sprintf("%016x", xxhash.Sum64String(url))[:8]
	return fmt.Sprintf("%s_%02d_%s%s", kind, ordinal, h, extensionFor(url, kind))
}

// extensionFor infers a file extension from the URL path, defaulting by
// kind when the path is inconclusive.
func extensionFor(url string, kind advault.MediaKind) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	u := strings.ToLower(url)
	switch {
	case strings.Contains(u, ".mp4"):
		return ".mp4"
	case strings.Contains(u, ".webm"):
		return ".webm"
	case strings.Contains(u, ".jpg"), strings.Contains(u, ".jpeg"):
		return ".jpg"
	case strings.Contains(u, ".png"):
		return ".png"
	case strings.Contains(u, ".webp"):
		return ".webp"
	}
	if kind == advault.MediaVideo {
		return ".mp4"
	}
	return ".jpg"
}
