package advault

// Status is the running state of an ad as advertised by the source page.
type Status string

// Ad statuses.
const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusUnknown  Status = "Unknown"
)

// Extraction holds the structured fields pulled from one rendered ad page.
// Produced once per job and immutable thereafter.
type Extraction struct {
	// PageName is the advertiser's page name, if one could be identified.
	PageName string

	// Status is Active/Inactive when the literal token appears in scope
	// text, StatusUnknown otherwise.
	Status Status

	// StartedOn is the "Started running on" date as displayed by the
	// source, e.g. "January 5, 2026". Empty if no date was found.
	StartedOn string

	// Platforms lists the known platform tokens present in scope text.
	Platforms []string

	// BodyText is the ad copy: the longest qualifying text block in scope.
	BodyText string

	// ExtraText is the "additional assets" block text, searched over the
	// full document since that block can sit outside the dialog boundary.
	ExtraText string

	// Media are the references discovered in the DOM, in document order.
	Media []MediaRef

	// FullDocument is true when scope resolution fell back to the whole
	// document; consumers should down-weight confidence in the fields.
	FullDocument bool

	// ScopeFound is true when a dedicated scope element was located.
	ScopeFound bool
}

// ExtraContent is the outcome of the full-document "additional assets"
// search: its text plus any media it references.
type ExtraContent struct {
	Text  string
	Media []MediaRef
}

// ExtraContentFinder locates the "additional assets / content items" block
// in raw rendered HTML. The search deliberately covers the whole document.
type ExtraContentFinder interface {
	Find(html string) (*ExtraContent, error)
}

// ExtractResult holds the main content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML, boilerplate removed.
	ContentHTML string
}

// TextExtractor extracts main content from HTML pages, removing boilerplate.
// Used to de-noise output when scope resolution fell back to the full
// document.
type TextExtractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML content to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}
