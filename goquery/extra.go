// Package goquery implements HTML querying services using the goquery
// library.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/psawicki/advault"
)

// Marker phrases that introduce the "additional assets" block on an ad
// detail page. The block sits outside the dialog boundary, so the search
// covers the whole document.
var extraMarkers = []string{
	"Additional assets from this ad",
	"Additional content items from this ad",
}

// URL substrings identifying UI sprites rather than ad creative.
var extraNoiseParts = []string{"rsrc.php", "emoji"}

const (
	// minContainerChildren: climb out of the marker's own text node until
	// the container actually holds sibling content.
	minContainerChildren = 2

	// maxClimb bounds the parent walk from the marker element.
	maxClimb = 6
)

// Ensure ExtraFinder implements advault.ExtraContentFinder at compile time.
var _ advault.ExtraContentFinder = (*ExtraFinder)(nil)

// ExtraFinder locates the additional-assets block in rendered HTML.
type ExtraFinder struct{}

// NewExtraFinder creates a new ExtraFinder.
func NewExtraFinder() *ExtraFinder {
	return &ExtraFinder{}
}

// Find searches the document for an additional-assets marker and returns
// the text and media of its enclosing container. Returns (nil, nil) when
// no marker is present.
func (f *ExtraFinder) Find(html string) (*advault.ExtraContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, advault.Errorf(advault.EINTERNAL, "parsing document: %v", err)
	}

	marker := f.findMarker(doc)
	if marker == nil {
		return nil, nil
	}

	container := f.containerOf(marker)
	content := &advault.ExtraContent{
		Text:  strings.TrimSpace(container.Text()),
		Media: f.collectMedia(container),
	}
	return content, nil
}

// findMarker returns the deepest element whose own text contains one of
// the marker phrases.
func (f *ExtraFinder) findMarker(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	doc.Find("div, span").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		for _, m := range extraMarkers {
			if strings.Contains(text, m) {
				best = sel // deeper matches overwrite shallower ones
				return
			}
		}
	})
	return best
}

// containerOf climbs from the marker until the selection holds more than
// the marker text itself.
func (f *ExtraFinder) containerOf(marker *goquery.Selection) *goquery.Selection {
	sel := marker
	for i := 0; i < maxClimb; i++ {
		if sel.Children().Length() >= minContainerChildren {
			return sel
		}
		parent := sel.Parent()
		if parent.Length() == 0 {
			return sel
		}
		sel = parent
	}
	return sel
}

// collectMedia gathers image and video URLs referenced inside the
// container, skipping UI sprites.
func (f *ExtraFinder) collectMedia(container *goquery.Selection) []advault.MediaRef {
	var media []advault.MediaRef

	container.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || !usableExtraURL(src) {
			return
		}
		media = append(media, advault.MediaRef{
			Kind:   advault.MediaImage,
			URL:    src,
			Origin: advault.OriginExtra,
		})
	})

	container.Find("video").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok && usableExtraURL(src) {
			media = append(media, advault.MediaRef{
				Kind:   advault.MediaVideo,
				URL:    src,
				Origin: advault.OriginExtra,
			})
		}
		if poster, ok := sel.Attr("poster"); ok && usableExtraURL(poster) {
			media = append(media, advault.MediaRef{
				Kind:   advault.MediaImage,
				URL:    poster,
				Origin: advault.OriginExtra,
			})
		}
		sel.Find("source").Each(func(_ int, src *goquery.Selection) {
			if u, ok := src.Attr("src"); ok && usableExtraURL(u) {
				media = append(media, advault.MediaRef{
					Kind:   advault.MediaVideo,
					URL:    u,
					Origin: advault.OriginExtra,
				})
			}
		})
	})

	return media
}

func usableExtraURL(u string) bool {
	if !strings.HasPrefix(u, "http") {
		return false
	}
	for _, part := range extraNoiseParts {
		if strings.Contains(u, part) {
			return false
		}
	}
	return true
}
