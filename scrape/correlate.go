// Package scrape implements the ad archiving pipeline: correlating network
// traffic to the target ad, resolving the ad's DOM scope, extracting its
// content, unifying discovered media, and running the whole thing as a
// background job.
package scrape

import (
	"strings"
	"time"

	"github.com/psawicki/advault"
)

// minNetworkImageURLLen filters out short image URLs, which in practice are
// static chrome and tracking pixels rather than ad creative.
const minNetworkImageURLLen = 50

// noiseURLParts mark iconographic and proxy assets that never belong to the
// ad creative, regardless of when they arrived.
var noiseURLParts = []string{
	"favicon",
	"emoji",
	"static.xx.fbcdn",
	"rsrc.php",
	"safe_image",
}

// Partition is the correlator's split of a session's network observations.
// Background traffic arrived at or before the page settled; modal traffic
// arrived strictly after, which is the only reliable signal that it belongs
// to the ad overlay rather than the surrounding results page.
type Partition struct {
	Background []advault.NetworkObservation
	Modal      []advault.NetworkObservation
}

// Correlate partitions the session's observations at the settled-at
// boundary, dropping noise assets first. Only the Modal side is eligible to
// contribute to the unified media set.
//
// This is a heuristic: an overlay asset prefetched before the settle stamp
// is misclassified as background and lost, which is accepted for a
// best-effort archiver.
func Correlate(obs []advault.NetworkObservation, settledAt time.Time) Partition {
	var p Partition
	for _, o := range obs {
		if !usableObservation(o) {
			continue
		}
		if o.ObservedAt.After(settledAt) {
			p.Modal = append(p.Modal, o)
		} else {
			p.Background = append(p.Background, o)
		}
	}
	return p
}

// VideoFallback returns video observations from the entire session as media
// references. Background result cards rarely carry video, so this is a
// low-risk last resort when nothing else was found, even though it ignores
// the temporal boundary.
func VideoFallback(obs []advault.NetworkObservation) []advault.MediaRef {
	var refs []advault.MediaRef
	for _, o := range obs {
		if o.Kind != advault.MediaVideo || !usableObservation(o) {
			continue
		}
		refs = append(refs, advault.MediaRef{
			Kind:   advault.MediaVideo,
			URL:    o.URL,
			Origin: advault.OriginFallbackVideo,
		})
	}
	return refs
}

func usableObservation(o advault.NetworkObservation) bool {
	if o.Kind == advault.MediaImage && len(o.URL) < minNetworkImageURLLen {
		return false
	}
	for _, part := range noiseURLParts {
		if strings.Contains(o.URL, part) {
			return false
		}
	}
	return true
}
