// Package notionsync mirrors month summaries and budget plans into Notion
// databases. Pages are matched on their title, existing pages are updated
// and pages the sync owns but no longer produces are archived.
package notionsync

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/logger"
	"github.com/jomei/notionapi"
)

const pageSize = 100

// Result counts the page operations of one sync. In dry-run mode the counts
// are what would have happened.
type Result struct {
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Archived int `json:"archived"`
	Failed   int `json:"failed"`
}

// Add accumulates another result.
func (r *Result) Add(o Result) {
	r.Created += o.Created
	r.Updated += o.Updated
	r.Archived += o.Archived
	r.Failed += o.Failed
}

// desiredPage is a page the sync should leave in the database.
type desiredPage struct {
	key   string
	props notionapi.Properties
}

// SyncMonthSummaries writes one page per month group into the month database.
// Every page whose month is not in groups is archived.
func SyncMonthSummaries(ctx context.Context, notionClient NotionService, notionDBID string, groups []domain.MonthGroup, dryRun bool) (Result, error) {
	pages := make([]desiredPage, 0, len(groups))
	for _, g := range groups {
		pages = append(pages, desiredPage{key: g.Month, props: MonthSummaryToNotionProperties(g)})
	}

	res, err := syncPages(ctx, notionClient, notionDBID, propMonth, pages, func(string) bool { return true }, dryRun)
	if err != nil {
		return res, fmt.Errorf("SyncMonthSummaries: %w", err)
	}
	return res, nil
}

// SyncBudgetPlan writes one page per suggestion of plan into the budget
// database. Only pages of the plan's month are considered stale; plans of
// other months are left alone.
func SyncBudgetPlan(ctx context.Context, notionClient NotionService, notionDBID string, plan *domain.BudgetPlan, dryRun bool) (Result, error) {
	if plan == nil {
		return Result{}, nil
	}

	pages := make([]desiredPage, 0, len(plan.Suggestions))
	for _, sg := range plan.Suggestions {
		pages = append(pages, desiredPage{
			key:   BudgetKey(plan.NextMonth, sg.Category),
			props: BudgetSuggestionToNotionProperties(plan.NextMonth, sg),
		})
	}

	prefix := plan.NextMonth + "/"
	owned := func(key string) bool { return key == "" || strings.HasPrefix(key, prefix) }

	res, err := syncPages(ctx, notionClient, notionDBID, propKey, pages, owned, dryRun)
	if err != nil {
		return res, fmt.Errorf("SyncBudgetPlan: %w", err)
	}
	return res, nil
}

// syncPages reconciles a database with the desired pages. Pages are keyed on
// the title property titleProp. Failures on single pages are logged and
// counted, only a failed query aborts the sync.
func syncPages(ctx context.Context, notionClient NotionService, notionDBID, titleProp string, pages []desiredPage, owned func(key string) bool, dryRun bool) (Result, error) {
	log := logger.FromContext(ctx).With().Str("database_id", notionDBID).Bool("dry_run", dryRun).Logger()
	var res Result

	existing, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return res, err
	}
	log.Info().Int("notion_page_count", len(existing)).Int("desired", len(pages)).Msg("Retrieved existing Notion pages")

	wanted := make(map[string]bool, len(pages))
	for _, p := range pages {
		wanted[p.key] = true
	}

	// First page per key wins; duplicates are archived as stale.
	pageIDs := make(map[string]string, len(existing))
	for _, page := range existing {
		key := titleText(page, titleProp)
		_, seen := pageIDs[key]
		if key != "" && wanted[key] && !seen {
			pageIDs[key] = string(page.ID)
			continue
		}
		if !owned(key) {
			continue
		}

		if dryRun {
			log.Info().Str("key", key).Str("page_id", string(page.ID)).Msg("[DRY RUN] Would archive stale Notion page")
			res.Archived++
			continue
		}
		if err := notionClient.ArchivePage(ctx, string(page.ID)); err != nil {
			log.Warn().Err(err).Str("key", key).Str("page_id", string(page.ID)).Msg("Failed to archive stale Notion page")
			res.Failed++
			continue
		}
		log.Info().Str("key", key).Str("page_id", string(page.ID)).Msg("Archived stale Notion page")
		res.Archived++
	}

	for _, p := range pages {
		pageID, exists := pageIDs[p.key]

		if dryRun {
			if exists {
				log.Info().Str("key", p.key).Str("page_id", pageID).Msg("[DRY RUN] Would update Notion page")
				res.Updated++
			} else {
				log.Info().Str("key", p.key).Msg("[DRY RUN] Would create Notion page")
				res.Created++
			}
			continue
		}

		if exists {
			if _, err := notionClient.UpdatePage(ctx, pageID, p.props); err != nil {
				log.Warn().Err(err).Str("key", p.key).Str("page_id", pageID).Msg("Failed to update Notion page")
				res.Failed++
				continue
			}
			res.Updated++
			continue
		}

		page, err := notionClient.CreatePage(ctx, notionDBID, p.props)
		if err != nil {
			log.Warn().Err(err).Str("key", p.key).Msg("Failed to create Notion page")
			res.Failed++
			continue
		}
		log.Debug().Str("key", p.key).Str("page_id", string(page.ID)).Msg("Created Notion page")
		res.Created++
	}

	log.Info().
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("archived", res.Archived).
		Int("failed", res.Failed).
		Msg("Notion sync finished")

	return res, nil
}

// queryAllNotionPages queries all pages from a Notion database and returns them.
// Handles pagination automatically.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: pageSize,
		}

		// Only set StartCursor if we have a cursor value
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
