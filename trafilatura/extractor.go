// Package trafilatura extracts main content from rendered pages using the
// go-trafilatura library. The pipeline uses it to de-noise output when
// scope resolution fell back to the full document.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/psawicki/advault"
	"golang.org/x/net/html"
)

// Ensure Extractor implements advault.TextExtractor at compile time.
var _ advault.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull main content out of raw HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content with boilerplate
// removed.
func (e *Extractor) Extract(rawHTML string) (*advault.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, advault.Errorf(advault.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, advault.Errorf(advault.EINTERNAL, "extracting content: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, advault.Errorf(advault.EINTERNAL, "rendering content: %v", err)
		}
		contentHTML = buf.String()
	}

	return &advault.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}
