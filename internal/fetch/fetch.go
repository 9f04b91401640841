// Package fetch retrieves recipe pages and hands the extraction engine
// both the raw body and a parsed document. The engine itself never does
// network I/O; this is its only upstream collaborator for web sources.
package fetch

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Page is one fetched source page. Body keeps the raw markup because
// the embedded-state and page-builder scans need text the parsed tree
// normalizes away.
type Page struct {
	URL  string
	Body string
	Doc  *goquery.Document
}

// Fetcher retrieves a single URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}
