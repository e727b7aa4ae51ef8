package notionsync

import (
	"fmt"
	"math"
	"strings"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/jomei/notionapi"
)

// Property names of the month summary database.
const (
	propMonth          = "Month"
	propIncome         = "Income"
	propExpenses       = "Expenses"
	propNet            = "Net"
	propTransactions   = "Transactions"
	propTopCategory    = "Top Category"
	propLargestExpense = "Largest Expense"
)

// Property names of the budget plan database.
const (
	propKey       = "Key"
	propCategory  = "Category"
	propSuggested = "Suggested"
	propAverage   = "Average"
	propRange     = "Range"
	propPriority  = "Priority"
	propReasoning = "Reasoning"
)

func titleProp(s string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Title: []notionapi.RichText{
			{
				Type: notionapi.ObjectTypeText,
				Text: &notionapi.Text{Content: s},
			},
		},
	}
}

func richTextProp(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		RichText: []notionapi.RichText{
			{
				Type: notionapi.ObjectTypeText,
				Text: &notionapi.Text{Content: s},
			},
		},
	}
}

func selectProp(s string) notionapi.SelectProperty {
	return notionapi.SelectProperty{Select: notionapi.Option{Name: s}}
}

func numberProp(v float64) notionapi.NumberProperty {
	return notionapi.NumberProperty{Number: v}
}

// MonthSummaryToNotionProperties converts a month group to the properties of
// its summary page. The title is the YYYY-MM key.
func MonthSummaryToNotionProperties(group domain.MonthGroup) notionapi.Properties {
	s := group.Summary
	props := notionapi.Properties{
		propMonth:        titleProp(group.Month),
		propIncome:       numberProp(s.TotalIncome),
		propExpenses:     numberProp(s.TotalExpenses),
		propNet:          numberProp(s.NetChange),
		propTransactions: numberProp(float64(s.TransactionCount)),
	}

	// Category totals are sorted by total, the first spending one is the top.
	for _, ct := range s.CategoryTotals {
		if domain.IsSpendingCategory(ct.Category) {
			props[propTopCategory] = selectProp(ct.Category)
			break
		}
	}

	if s.LargestExpense != nil {
		props[propLargestExpense] = richTextProp(fmt.Sprintf("%s $%.2f",
			s.LargestExpense.Description, math.Abs(s.LargestExpense.Amount)))
	}

	return props
}

// BudgetKey identifies the budget page of a category in a month.
func BudgetKey(month, category string) string {
	return month + "/" + category
}

// BudgetSuggestionToNotionProperties converts one suggestion of the plan for
// month to the properties of its budget page.
func BudgetSuggestionToNotionProperties(month string, sg domain.BudgetSuggestion) notionapi.Properties {
	props := notionapi.Properties{
		propKey:       titleProp(BudgetKey(month, sg.Category)),
		propMonth:     richTextProp(month),
		propCategory:  selectProp(sg.Category),
		propSuggested: numberProp(sg.SuggestedAmount),
		propAverage:   numberProp(sg.Average),
		propRange:     richTextProp(fmt.Sprintf("$%.2f - $%.2f", sg.Min, sg.Max)),
		propPriority:  numberProp(float64(sg.Priority)),
	}
	if sg.Reasoning != "" {
		props[propReasoning] = richTextProp(sg.Reasoning)
	}
	return props
}

// titleText returns the plain text of a title property, or "".
func titleText(page notionapi.Page, name string) string {
	prop, ok := page.Properties[name]
	if !ok {
		return ""
	}
	var parts []notionapi.RichText
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		parts = p.Title
	case notionapi.TitleProperty:
		parts = p.Title
	default:
		return ""
	}

	var b strings.Builder
	for _, rt := range parts {
		if rt.PlainText != "" {
			b.WriteString(rt.PlainText)
		} else if rt.Text != nil {
			b.WriteString(rt.Text.Content)
		}
	}
	return strings.TrimSpace(b.String())
}
