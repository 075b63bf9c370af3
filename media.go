package advault

import (
	"context"
	"time"
)

// MediaKind distinguishes image from video media.
type MediaKind string

// Media kinds.
const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaOrigin records how a media reference was discovered. The origin never
// changes after creation; it is kept through deduplication for diagnostics
// and decides which duplicate survives a merge.
type MediaOrigin string

// Media origins, in decreasing precedence.
const (
	// OriginScope is media found inside the resolved ad scope in the DOM.
	OriginScope MediaOrigin = "dom_scope"
	// OriginExtra is media found in the "additional assets" block.
	OriginExtra MediaOrigin = "dom_extra"
	// OriginNetwork is media attributed to the ad by the network correlator.
	OriginNetwork MediaOrigin = "network_modal"
	// OriginFallbackVideo is video pulled from the whole session when no
	// other source yielded anything.
	OriginFallbackVideo MediaOrigin = "fallback_video"
)

// Precedence returns the merge precedence of the origin; higher wins.
func (o MediaOrigin) Precedence() int {
	switch o {
	case OriginScope:
		return 4
	case OriginExtra:
		return 3
	case OriginNetwork:
		return 2
	case OriginFallbackVideo:
		return 1
	}
	return 0
}

// MediaRef is a uniform reference to a discovered media asset, regardless of
// how it was discovered. URL is always absolute and fetchable.
type MediaRef struct {
	Kind   MediaKind   `json:"kind"`
	URL    string      `json:"url"`
	Origin MediaOrigin `json:"origin"`
}

// NetworkObservation is one intercepted network response of a media content
// type, recorded with its arrival time for the lifetime of a browser
// session. Immutable once recorded; consumed only by the correlator.
type NetworkObservation struct {
	ObservedAt time.Time
	Kind       MediaKind
	URL        string
}

// SavedMedia describes one media file persisted into an archive folder.
type SavedMedia struct {
	Kind     MediaKind   `json:"type"`
	Filename string      `json:"filename"`
	Size     int         `json:"size"`
	Origin   MediaOrigin `json:"source,omitempty"`
}

// MediaDownloader fetches a single media asset.
// Implementations send browser-identifying headers and the session's cookie
// material so the upstream CDN serves the asset.
type MediaDownloader interface {
	// Download fetches the asset and returns its bytes.
	// The context controls timeout and cancellation.
	Download(ctx context.Context, url string, kind MediaKind, cookie string) ([]byte, error)
}
