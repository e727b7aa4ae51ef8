package pipeline_test

import (
	"context"

	"github.com/dvloznov/spendwise/internal/pipeline"
)

// MockStorageService is a mock implementation of StorageService for testing.
type MockStorageService struct {
	FetchFromGCSFunc              func(ctx context.Context, gcsURI string) ([]byte, error)
	ExtractFilenameFromGCSURIFunc func(uri string) string
}

func (m *MockStorageService) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	if m.FetchFromGCSFunc != nil {
		return m.FetchFromGCSFunc(ctx, gcsURI)
	}
	return nil, nil
}

func (m *MockStorageService) ExtractFilenameFromGCSURI(uri string) string {
	if m.ExtractFilenameFromGCSURIFunc != nil {
		return m.ExtractFilenameFromGCSURIFunc(uri)
	}
	return "export.csv"
}

// MockCategorySuggester is a mock implementation of CategorySuggester for testing.
type MockCategorySuggester struct {
	SuggestCategoriesFunc func(ctx context.Context, merchants []string, categories []string) ([]pipeline.CategorySuggestion, error)
	Calls                 int
}

func (m *MockCategorySuggester) SuggestCategories(ctx context.Context, merchants []string, categories []string) ([]pipeline.CategorySuggestion, error) {
	m.Calls++
	if m.SuggestCategoriesFunc != nil {
		return m.SuggestCategoriesFunc(ctx, merchants, categories)
	}
	return nil, nil
}
