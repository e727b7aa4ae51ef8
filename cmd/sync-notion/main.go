package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/spendwise/internal/app"
	"github.com/dvloznov/spendwise/internal/config"
	"github.com/dvloznov/spendwise/internal/logger"
	"github.com/dvloznov/spendwise/internal/notionsync"
)

func main() {
	// Parse CLI flags
	var (
		envFile     = flag.String("env", ".env", "Path to an optional .env file")
		notionToken = flag.String("notion-token", "", "Notion API token (defaults to NOTION_TOKEN)")
		summaryDBID = flag.String("summary-db-id", "", "Notion database for month summaries (defaults to NOTION_SUMMARY_DB_ID)")
		budgetDBID  = flag.String("budget-db-id", "", "Notion database for the budget plan (defaults to NOTION_BUDGET_DB_ID)")
		dryRun      = flag.Bool("dry-run", false, "Dry run mode - preview changes without syncing")
	)
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize structured logger
	log := logger.NewWithLevel(cfg.LogLevel)

	if *notionToken != "" {
		cfg.NotionToken = *notionToken
	}
	if *summaryDBID != "" {
		cfg.NotionSummaryDBID = *summaryDBID
	}
	if *budgetDBID != "" {
		cfg.NotionBudgetDBID = *budgetDBID
	}
	if !cfg.NotionEnabled() {
		log.Fatal().Msg("Error: a Notion token and at least one database ID are required")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	a, err := app.New(ctx, cfg, log, app.Options{SkipStorage: true})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize backends")
	}
	defer a.Close()

	notionClient := notionsync.NewNotionClient(cfg.NotionToken)
	var total notionsync.Result

	if cfg.NotionSummaryDBID != "" {
		groups, err := a.Service.MonthGroups(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load month summaries")
		}
		res, err := notionsync.SyncMonthSummaries(ctx, notionClient, cfg.NotionSummaryDBID, groups, *dryRun)
		if err != nil {
			log.Fatal().Err(err).Msg("Month summary sync failed")
		}
		total.Add(res)
	}

	if cfg.NotionBudgetDBID != "" {
		plan, err := a.Service.BudgetPlan(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build the budget plan")
		}
		if plan == nil {
			log.Warn().Msg("No history to build a budget plan from, skipping budget sync")
		}
		res, err := notionsync.SyncBudgetPlan(ctx, notionClient, cfg.NotionBudgetDBID, plan, *dryRun)
		if err != nil {
			log.Fatal().Err(err).Msg("Budget plan sync failed")
		}
		total.Add(res)
	}

	prefix := ""
	if *dryRun {
		prefix = "[DRY RUN] "
	}
	fmt.Printf("%sSync completed: %d created, %d updated, %d archived, %d failed.\n",
		prefix, total.Created, total.Updated, total.Archived, total.Failed)
}
