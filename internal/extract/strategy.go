// Package extract implements the multi-strategy recipe extraction
// engine: a selector scores registered strategies against a source and
// runs them in descending confidence order until one produces a
// non-empty result.
package extract

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/forkful/recipe-cli/internal/model"
)

// Source describes one page to extract from. Doc and Body are optional:
// a strategy that needs the raw markup (embedded-state regexes, page
// builder scans) reads Body; selector-driven strategies read Doc.
type Source struct {
	URL  string
	Doc  *goquery.Document
	Body string
}

// Strategy is one self-contained extraction algorithm paired with a
// cheap applicability test. Confidence must be deterministic for a
// fixed source and must not perform I/O; Extract may call external
// collaborators (video metadata, captions) and must honor ctx.
type Strategy interface {
	Name() string
	Confidence(src *Source) float64
	Extract(ctx context.Context, src *Source) (*model.Recipe, error)
}
