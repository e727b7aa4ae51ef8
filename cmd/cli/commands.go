package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dvloznov/spendwise/internal/charts"
	"github.com/dvloznov/spendwise/internal/gcsuploader"
	"github.com/dvloznov/spendwise/internal/pipeline"
	"github.com/dvloznov/spendwise/internal/tracker"
	"github.com/rs/zerolog"
)

var errUnknownCommand = errors.New("unknown command")

var timeNow = time.Now

// uploader is the part of Cloud Storage the CLI writes to.
type uploader interface {
	UploadCSV(ctx context.Context, bucketName, objectName string, r io.Reader) (string, error)
}

type cli struct {
	svc     *tracker.Service
	storage uploader
	out     io.Writer
	log     zerolog.Logger
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Spendwise CLI")
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  cli <command> [options]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  import          Import a CSV export from a file or from GCS")
	fmt.Fprintln(w, "  upload          Upload a CSV export to GCS")
	fmt.Fprintln(w, "  report          Show the summary of a month")
	fmt.Fprintln(w, "  budget          Suggest next month's budgets")
	fmt.Fprintln(w, "  safe-to-spend   Show how much can still be spent this month")
	fmt.Fprintln(w, "  recurring       Detect recurring expenses")
	fmt.Fprintln(w, "  alerts          Evaluate and list spending alerts")
	fmt.Fprintln(w, "  goals           Show goal progress and the contribution plan")
	fmt.Fprintln(w, "  chart           Render a spending chart as PNG")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w, "\nAnalysis commands accept -file to import a CSV first, which is how")
	fmt.Fprintln(w, "they are used with the in-memory backend.")
	fmt.Fprintln(w, "\nRun 'cli <command> -h' for more information on a command.")
}

func (c *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "import":
		return c.runImport(ctx, args)
	case "upload":
		return c.runUpload(ctx, args)
	case "report":
		return c.runReport(ctx, args)
	case "budget":
		return c.runBudget(ctx, args)
	case "safe-to-spend":
		return c.runSafeToSpend(ctx, args)
	case "recurring":
		return c.runRecurring(ctx, args)
	case "alerts":
		return c.runAlerts(ctx, args)
	case "goals":
		return c.runGoals(ctx, args)
	case "chart":
		return c.runChart(ctx, args)
	default:
		return errUnknownCommand
	}
}

// flags creates a flag set for command with the shared -file flag.
func (c *cli) flags(command string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(c.out)
	file := fs.String("file", "", "CSV export to import before running the command")
	return fs, file
}

// preload imports file when one was given.
func (c *cli) preload(ctx context.Context, file string) error {
	if file == "" {
		return nil
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	if _, err := c.svc.ImportCSV(ctx, filepath.Base(file), content); err != nil {
		return err
	}
	return nil
}

func (c *cli) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
}

func (c *cli) runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(c.out)
	file := fs.String("file", "", "Path to a local CSV export")
	gcsURI := fs.String("gcs-uri", "", "GCS URI of a CSV export")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*file == "") == (*gcsURI == "") {
		return fmt.Errorf("exactly one of -file and -gcs-uri is required")
	}

	var (
		state *pipeline.PipelineState
		err   error
	)
	if *file != "" {
		content, readErr := os.ReadFile(*file)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", *file, readErr)
		}
		state, err = c.svc.ImportCSV(ctx, filepath.Base(*file), content)
	} else {
		state, err = c.svc.ImportFromGCS(ctx, *gcsURI)
	}
	if err != nil {
		return err
	}

	st := state.Stats
	fmt.Fprintf(c.out, "Import %s: %d transactions across %d month(s), %d skipped, %d uncategorized.\n",
		state.ImportRunID, st.Parsed, st.Months, st.Skipped, st.Uncategorized)
	if state.Relabeled > 0 {
		fmt.Fprintf(c.out, "%d transaction(s) relabeled from learned merchants.\n", state.Relabeled)
	}
	for _, sg := range state.Suggestions {
		fmt.Fprintf(c.out, "  suggestion: %s -> %s\n", sg.Merchant, sg.Category)
	}
	return nil
}

func (c *cli) runUpload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(c.out)
	bucketName := fs.String("bucket", "", "GCS bucket name (defaults to GCS_BUCKET)")
	objectName := fs.String("object", "", "GCS object name (defaults to imports/YYYY/MM/<uuid>-<file>)")
	filePath := fs.String("file", "", "Path to local CSV export")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *filePath == "" {
		return fmt.Errorf("usage: cli upload -bucket NAME -file PATH")
	}
	if *bucketName == "" {
		*bucketName = os.Getenv("GCS_BUCKET")
	}
	if *bucketName == "" {
		return fmt.Errorf("-bucket or GCS_BUCKET is required")
	}
	if *objectName == "" {
		*objectName = gcsuploader.ObjectName(filepath.Base(*filePath), timeNow())
	}
	if c.storage == nil {
		return fmt.Errorf("cloud storage is not configured")
	}

	c.log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading file to GCS")

	f, err := os.Open(*filePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", *filePath, err)
	}
	defer f.Close()

	uri, err := c.storage.UploadCSV(ctx, *bucketName, *objectName, f)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Uploaded %s to %s\n", *filePath, uri)
	return nil
}

func (c *cli) runReport(ctx context.Context, args []string) error {
	fs, file := c.flags("report")
	month := fs.String("month", "", "Month to report as YYYY-MM (defaults to the latest month)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.preload(ctx, *file); err != nil {
		return err
	}

	if *month == "" {
		months, err := c.svc.Months(ctx)
		if err != nil {
			return err
		}
		if len(months) == 0 {
			fmt.Fprintln(c.out, "No transactions imported yet.")
			return nil
		}
		*month = months[0]
	}

	group, err := c.svc.Month(ctx, *month)
	if err != nil {
		return err
	}
	s := group.Summary

	fmt.Fprintf(c.out, "%s: %d transactions\n", group.Month, s.TransactionCount)
	fmt.Fprintf(c.out, "  Income:   %10.2f\n", s.TotalIncome)
	fmt.Fprintf(c.out, "  Expenses: %10.2f\n", s.TotalExpenses)
	fmt.Fprintf(c.out, "  Net:      %10.2f\n", s.NetChange)
	if s.LargestExpense != nil {
		fmt.Fprintf(c.out, "  Largest expense: %s (%.2f)\n", s.LargestExpense.Description, s.LargestExpense.Amount)
	}

	fmt.Fprintln(c.out)
	tw := c.table()
	fmt.Fprintln(tw, "CATEGORY\tTOTAL")
	for _, ct := range s.CategoryTotals {
		fmt.Fprintf(tw, "%s\t%.2f\n", ct.Category, ct.Total)
	}
	return tw.Flush()
}

func (c *cli) runBudget(ctx context.Context, args []string) error {
	fs, file := c.flags("budget")
	apply := fs.Bool("apply", false, "Store the suggestions as next month's budgets")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.preload(ctx, *file); err != nil {
		return err
	}

	plan, err := c.svc.BudgetPlan(ctx)
	if err != nil {
		return err
	}
	if plan == nil {
		fmt.Fprintln(c.out, "Not enough history to suggest a budget.")
		return nil
	}

	fmt.Fprintf(c.out, "Budget plan for %s\n", plan.NextMonth)
	fmt.Fprintf(c.out, "  Monthly income:       %10.2f (biweekly paycheck %.2f)\n", plan.MonthlyIncome, plan.BiweeklyPaycheck)
	fmt.Fprintf(c.out, "  Total suggested:      %10.2f\n", plan.TotalSuggested)
	fmt.Fprintf(c.out, "  Discretionary income: %10.2f\n\n", plan.DiscretionaryIncome)

	tw := c.table()
	fmt.Fprintln(tw, "CATEGORY\tSUGGESTED\tAVERAGE\tRANGE\tREASONING")
	for _, sg := range plan.Suggestions {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f-%.2f\t%s\n", sg.Category, sg.SuggestedAmount, sg.Average, sg.Min, sg.Max, sg.Reasoning)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if *apply {
		n, err := c.svc.ApplyBudgetPlan(ctx, plan)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "\nSaved %d budget(s) for %s.\n", n, plan.NextMonth)
	}
	return nil
}

func (c *cli) runSafeToSpend(ctx context.Context, args []string) error {
	fs, file := c.flags("safe-to-spend")
	advanced := fs.Bool("advanced", false, "Include recurring charges (pro tier)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.preload(ctx, *file); err != nil {
		return err
	}

	if *advanced {
		f, err := c.svc.AdvancedSafeToSpend(ctx)
		if err != nil {
			return err
		}
		if f == nil {
			fmt.Fprintln(c.out, "No transactions in the current month.")
			return nil
		}
		fmt.Fprintf(c.out, "Safe to spend: %.2f (%.2f/day for %d days, %s confidence)\n", f.SafeToSpend, f.SafePerDay, f.DaysLeft, f.Confidence)
		fmt.Fprintf(c.out, "Spent so far: %.2f at %.2f/day; %.2f in recurring charges still due\n", f.SpentThisMonth, f.DailyRate, f.ProjectedRecurring)
		fmt.Fprintf(c.out, "Projected end balance: %.2f\n", f.ProjectedEndBalance)
		if f.Shortfall > 0 {
			fmt.Fprintf(c.out, "Shortfall: %.2f\n", f.Shortfall)
		}
		for _, u := range f.UpcomingRecurring {
			fmt.Fprintf(c.out, "  %s  %-24s %8.2f\n", u.DueDate, u.MerchantName, u.Amount)
		}
		return nil
	}

	r, err := c.svc.SafeToSpend(ctx)
	if err != nil {
		return err
	}
	onTrack := "on track"
	if !r.IsOnTrack {
		onTrack = "over pace"
	}
	fmt.Fprintf(c.out, "Safe to spend: %.2f (%.2f/day for %d days, %s)\n", r.SafeToSpend, r.SafePerDay, r.DaysLeftInCycle, onTrack)
	fmt.Fprintf(c.out, "Spent this month: %.2f of %.2f budgeted; trend %s\n", r.SpentThisMonth, r.BudgetedTotal, r.Trend.Label())
	fmt.Fprintf(c.out, "Projected end balance: %.2f\n", r.ProjectedEndBalance)

	if len(r.CategoryBreakdown) == 0 {
		return nil
	}
	fmt.Fprintln(c.out)
	tw := c.table()
	fmt.Fprintln(tw, "CATEGORY\tSPENT\tBUDGET\tUSED\tSTATUS")
	for _, b := range r.CategoryBreakdown {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.0f%%\t%s\n", b.Category, b.Spent, b.Budget, b.PercentUsed, b.Status)
	}
	return tw.Flush()
}

func (c *cli) runRecurring(ctx context.Context, args []string) error {
	fs, file := c.flags("recurring")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.preload(ctx, *file); err != nil {
		return err
	}

	found, err := c.svc.DetectRecurring(ctx)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintln(c.out, "No recurring expenses detected.")
		return nil
	}

	tw := c.table()
	fmt.Fprintln(tw, "MERCHANT\tCATEGORY\tAVERAGE\tFREQUENCY\tNEXT\tSEEN")
	for _, r := range found {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\t%d\n", r.MerchantName, r.Category, r.AverageAmount, r.Frequency, r.NextExpectedDate, r.Occurrences)
	}
	return tw.Flush()
}

func (c *cli) runAlerts(ctx context.Context, args []string) error {
	fs, file := c.flags("alerts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.preload(ctx, *file); err != nil {
		return err
	}

	if _, err := c.svc.RefreshAlerts(ctx); err != nil {
		return err
	}
	alerts, err := c.svc.UnreadAlerts(ctx)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Fprintln(c.out, "No alerts.")
		return nil
	}
	for _, a := range alerts {
		fmt.Fprintf(c.out, "[%s] %s: %s\n", strings.ToUpper(a.Severity), a.Title, a.Message)
	}
	return nil
}

func (c *cli) runGoals(ctx context.Context, args []string) error {
	fs, file := c.flags("goals")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.preload(ctx, *file); err != nil {
		return err
	}

	goals, err := c.svc.Goals(ctx)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Fprintln(c.out, "No goals yet.")
		return nil
	}

	for _, g := range goals {
		report, err := c.svc.GoalReport(ctx, g.ID)
		if err != nil {
			return err
		}
		p, f := report.Progress, report.Feasibility
		fmt.Fprintf(c.out, "%s [%s]: %.2f of %.2f (%.0f%%), %s\n", g.Name, g.Status, p.CurrentAmount, p.TargetAmount, p.Progress, f.Feasibility)
		if f.Recommendation != "" {
			fmt.Fprintf(c.out, "  %s\n", f.Recommendation)
		}
	}

	plan, err := c.svc.OptimizeGoals(ctx)
	if err != nil {
		return err
	}
	if plan == nil {
		return nil
	}

	fmt.Fprintf(c.out, "\nContribution plan: %.2f of %.2f available for goals\n", plan.TotalAllocated, plan.AvailableForGoals)
	tw := c.table()
	fmt.Fprintln(tw, "GOAL\tSUGGESTED\tCURRENT\tPRIORITY\tREASONING")
	for _, a := range plan.Allocations {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%s\t%s\n", a.GoalName, a.SuggestedMonthly, a.CurrentMonthly, a.Priority, a.Reasoning)
	}
	return tw.Flush()
}

func (c *cli) runChart(ctx context.Context, args []string) error {
	fs, file := c.flags("chart")
	out := fs.String("out", "chart.png", "Output PNG path")
	month := fs.String("month", "", "Month for a category pie as YYYY-MM; without it the monthly trend is drawn")
	budget := fs.Bool("budget", false, "Draw budget usage of the current month instead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.preload(ctx, *file); err != nil {
		return err
	}

	var png []byte
	switch {
	case *budget:
		r, err := c.svc.SafeToSpend(ctx)
		if err != nil {
			return err
		}
		if png, err = charts.BudgetUsage(r.CategoryBreakdown); err != nil {
			return err
		}
	case *month != "":
		group, err := c.svc.Month(ctx, *month)
		if err != nil {
			return err
		}
		if png, err = charts.CategoryPie("Spending "+*month, group.Summary); err != nil {
			return err
		}
	default:
		groups, err := c.svc.MonthGroups(ctx)
		if err != nil {
			return err
		}
		if png, err = charts.MonthlyTrend(groups); err != nil {
			return err
		}
	}

	if err := os.WriteFile(*out, png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Fprintf(c.out, "Wrote %s (%d bytes)\n", *out, len(png))
	return nil
}
