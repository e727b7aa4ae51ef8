package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dvloznov/spendwise/internal/domain"
	"google.golang.org/genai"
)

// GeminiCategorySuggester proposes categories with a Gemini model.
type GeminiCategorySuggester struct {
	client *genai.Client
	model  string
}

// NewGeminiCategorySuggester creates a suggester. Credentials come from the
// environment (GOOGLE_API_KEY or Vertex AI settings).
func NewGeminiCategorySuggester(ctx context.Context, model string) (*GeminiCategorySuggester, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiCategorySuggester: create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiCategorySuggester{client: client, model: model}, nil
}

// SuggestCategories implements CategorySuggester.
func (s *GeminiCategorySuggester) SuggestCategories(ctx context.Context, merchants []string, categories []string) ([]CategorySuggestion, error) {
	if len(merchants) == 0 {
		return nil, nil
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildSuggestionPrompt(merchants, categories)}},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("SuggestCategories: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("SuggestCategories: empty response from model")
	}
	return parseSuggestions(rawText, categories)
}

// parseSuggestions decodes the model answer and drops entries whose category
// is not one of categories.
func parseSuggestions(rawText string, categories []string) ([]CategorySuggestion, error) {
	var parsed []CategorySuggestion
	if err := json.Unmarshal([]byte(cleanModelJSON(rawText)), &parsed); err != nil {
		return nil, fmt.Errorf("parseSuggestions: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}

	out := make([]CategorySuggestion, 0, len(parsed))
	for _, p := range parsed {
		if p.Merchant == "" || p.Category == domain.CategoryUncategorized || !allowed[p.Category] {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
