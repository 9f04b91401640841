// Package store persists extraction results. The engine itself never
// touches storage; commands hand it the finished result.
package store

import (
	"context"

	"github.com/forkful/recipe-cli/internal/model"
)

// ListFilter specifies criteria for listing extractions.
type ListFilter struct {
	SourceURL string `json:"source_url,omitempty"`
	Strategy  string `json:"strategy,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for extraction results.
type Store interface {
	SaveExtraction(ctx context.Context, sourceURL, strategy string, recipe model.Recipe) (*model.Extraction, error)
	GetExtraction(ctx context.Context, id string) (*model.Extraction, error)
	ListExtractions(ctx context.Context, filter ListFilter) ([]model.Extraction, error)
	DeleteExtraction(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
