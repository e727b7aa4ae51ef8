package pipeline

import (
	"context"
)

// StorageService fetches raw exports from object storage.
type StorageService interface {
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)
	ExtractFilenameFromGCSURI(uri string) string
}

// CategorySuggestion is a proposed category for a merchant the rules could
// not classify.
type CategorySuggestion struct {
	Merchant string `json:"merchant"`
	Category string `json:"category"`
}

// CategorySuggester proposes categories for unclassified merchants.
// Suggestions are advisory and never applied to stored transactions.
type CategorySuggester interface {
	SuggestCategories(ctx context.Context, merchants []string, categories []string) ([]CategorySuggestion, error)
}
