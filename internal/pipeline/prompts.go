package pipeline

import (
	"strings"
)

// buildSuggestionPrompt asks the model to classify merchants into one of
// categories and answer with a JSON array.
func buildSuggestionPrompt(merchants []string, categories []string) string {
	var b strings.Builder
	b.WriteString("You are a personal finance assistant classifying bank transaction merchants.\n\n")
	b.WriteString("Use ONLY the following categories:\n")
	for _, c := range categories {
		b.WriteString("  - " + c + "\n")
	}
	b.WriteString("\nMerchants:\n")
	for _, m := range merchants {
		b.WriteString("  - " + m + "\n")
	}
	b.WriteString("\nRules:\n")
	b.WriteString("1. Category must be EXACTLY one of the names above (case-sensitive).\n")
	b.WriteString("2. If you are unsure, use \"Uncategorized\".\n")
	b.WriteString("3. Output a JSON array of objects with fields \"merchant\" and \"category\".\n\n")
	b.WriteString("Return ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Output must begin with \"[\" and end with \"]\".\n")
	return b.String()
}

// cleanModelJSON strips Markdown fences and text around a JSON array.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
