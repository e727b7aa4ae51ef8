package domain

import "strings"

// NormalizeMerchant derives the merchant identity key of a description:
// uppercase, drop everything but letters, digits and spaces, keep the first
// three words.
func NormalizeMerchant(description string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(description) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == ' ' || r == '\t' {
			b.WriteRune(r)
		}
	}
	words := strings.Fields(b.String())
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
