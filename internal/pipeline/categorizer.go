package pipeline

import (
	"strings"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/rs/zerolog"
)

// Categorizer assigns categories by first-match keyword lookup.
type Categorizer struct {
	rules []CategoryRule
	log   zerolog.Logger
}

// NewCategorizer creates a categorizer over rules. Keywords are matched
// case-insensitively; rules are copied so later edits by the caller have no
// effect.
func NewCategorizer(rules []CategoryRule, log zerolog.Logger) *Categorizer {
	normalized := make([]CategoryRule, 0, len(rules))
	for _, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToUpper(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		normalized = append(normalized, CategoryRule{Category: r.Category, Keywords: keywords})
	}
	return &Categorizer{rules: normalized, log: log}
}

// Rules returns the categorizer's rules in match order.
func (c *Categorizer) Rules() []CategoryRule {
	return c.rules
}

// Match returns the category of description, or Uncategorized.
func (c *Categorizer) Match(description string) string {
	upper := strings.ToUpper(description)
	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(upper, keyword) {
				return rule.Category
			}
		}
	}
	return domain.CategoryUncategorized
}

// Categorize returns one categorized transaction per valid input, in input
// order. Records failing validation are dropped and logged.
func (c *Categorizer) Categorize(txs []domain.Transaction) []domain.CategorizedTransaction {
	valid, rejected := Classify(txs)
	for _, r := range rejected {
		c.log.Warn().Int("index", r.Index).Err(r.Reason).Msg("Skipping invalid transaction")
	}

	out := make([]domain.CategorizedTransaction, 0, len(valid))
	for _, tx := range valid {
		out = append(out, domain.CategorizedTransaction{
			Transaction: tx,
			Category:    c.Match(tx.Description),
		})
	}
	return out
}

// ApplyMerchantMappings re-categorizes Uncategorized items whose normalized
// merchant has a learned mapping. It returns the number of items changed.
func ApplyMerchantMappings(items []domain.CategorizedTransaction, mappings []domain.MerchantMapping) int {
	if len(mappings) == 0 {
		return 0
	}
	byMerchant := make(map[string]string, len(mappings))
	for _, m := range mappings {
		byMerchant[m.MerchantName] = m.Category
	}

	changed := 0
	for i := range items {
		if items[i].Category != domain.CategoryUncategorized {
			continue
		}
		if category, ok := byMerchant[domain.NormalizeMerchant(items[i].Description)]; ok && category != "" {
			items[i].Category = category
			changed++
		}
	}
	return changed
}

// CountUncategorized returns how many items have no category.
func CountUncategorized(items []domain.CategorizedTransaction) int {
	n := 0
	for _, it := range items {
		if it.Category == domain.CategoryUncategorized {
			n++
		}
	}
	return n
}
