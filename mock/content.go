package mock

import "github.com/psawicki/advault"

var _ advault.ExtraContentFinder = (*ExtraContentFinder)(nil)

// ExtraContentFinder is a mock implementation of advault.ExtraContentFinder.
type ExtraContentFinder struct {
	FindFn func(html string) (*advault.ExtraContent, error)
}

func (f *ExtraContentFinder) Find(html string) (*advault.ExtraContent, error) {
	return f.FindFn(html)
}

var _ advault.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of advault.TextExtractor.
type TextExtractor struct {
	ExtractFn func(html string) (*advault.ExtractResult, error)
}

func (e *TextExtractor) Extract(html string) (*advault.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ advault.Converter = (*Converter)(nil)

// Converter is a mock implementation of advault.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
