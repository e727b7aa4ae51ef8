package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/logger"
	"github.com/dvloznov/spendwise/internal/store"
)

// PipelineStep represents a single step in the import pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	Source      string // gs:// URI or a label for inline content
	Content     []byte
	ImportRunID string

	Parsed      ParseResult
	Categorized []domain.CategorizedTransaction
	Relabeled   int
	Suggestions []CategorySuggestion
	Groups      []domain.MonthGroup
	Stats       domain.ImportStats
}

// markFailed records err on the import run and returns it.
func markFailed(ctx context.Context, runs store.ImportRunStore, state *PipelineState, err error) error {
	if state.ImportRunID != "" {
		runs.MarkImportRunFailed(ctx, state.ImportRunID, err)
	}
	return err
}

// Step 1: StartImportRunStep starts an import run (status=RUNNING).
type StartImportRunStep struct {
	Runs store.ImportRunStore
}

func (s *StartImportRunStep) Execute(ctx context.Context, state *PipelineState) error {
	id, err := s.Runs.StartImportRun(ctx, state.Source)
	if err != nil {
		return err
	}
	state.ImportRunID = id
	return nil
}

// Step 2: FetchCSVStep loads the export from GCS unless content was supplied inline.
type FetchCSVStep struct {
	Runs    store.ImportRunStore
	Storage StorageService
}

func (s *FetchCSVStep) Execute(ctx context.Context, state *PipelineState) error {
	if len(state.Content) > 0 {
		return nil
	}
	if !strings.HasPrefix(state.Source, "gs://") {
		return markFailed(ctx, s.Runs, state, fmt.Errorf("FetchCSVStep: no content and %q is not a gs:// URI", state.Source))
	}
	if s.Storage == nil {
		return markFailed(ctx, s.Runs, state, fmt.Errorf("FetchCSVStep: no storage configured for %s", state.Source))
	}
	data, err := s.Storage.FetchFromGCS(ctx, state.Source)
	if err != nil {
		return markFailed(ctx, s.Runs, state, err)
	}
	state.Content = data
	return nil
}

// Step 3: ParseCSVStep parses the export into raw transactions.
type ParseCSVStep struct {
	Runs store.ImportRunStore
}

func (s *ParseCSVStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Parsed = parseCSV(string(state.Content), logger.FromContext(ctx))
	state.Stats.Parsed = len(state.Parsed.Transactions)
	state.Stats.Skipped = state.Parsed.Skipped
	if len(state.Parsed.Transactions) == 0 {
		return markFailed(ctx, s.Runs, state, ErrNoTransactions)
	}
	return nil
}

// Step 4: CategorizeStep applies the keyword rules.
type CategorizeStep struct {
	Runs        store.ImportRunStore
	Categorizer *Categorizer
}

func (s *CategorizeStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Categorized = s.Categorizer.Categorize(state.Parsed.Transactions)
	if len(state.Categorized) == 0 {
		return markFailed(ctx, s.Runs, state, ErrNoCategorized)
	}
	return nil
}

// Step 5: ApplyLearnedCategoriesStep applies learned merchant mappings to
// transactions the rules left Uncategorized.
type ApplyLearnedCategoriesStep struct {
	Runs      store.ImportRunStore
	Merchants store.MerchantStore
	UserID    string
}

func (s *ApplyLearnedCategoriesStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Merchants == nil {
		return nil
	}
	mappings, err := s.Merchants.MerchantMappings(ctx, s.UserID)
	if err != nil {
		return markFailed(ctx, s.Runs, state, fmt.Errorf("ApplyLearnedCategoriesStep: %w", err))
	}
	state.Relabeled = ApplyMerchantMappings(state.Categorized, mappings)
	return nil
}

// Step 6: SuggestCategoriesStep asks the suggester about merchants that are
// still Uncategorized. Failures are logged and do not fail the import.
type SuggestCategoriesStep struct {
	Suggester  CategorySuggester
	Categories []string
}

func (s *SuggestCategoriesStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Suggester == nil {
		return nil
	}
	merchants := uncategorizedMerchants(state.Categorized)
	if len(merchants) == 0 {
		return nil
	}
	suggestions, err := s.Suggester.SuggestCategories(ctx, merchants, s.Categories)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Int("merchants", len(merchants)).Msg("Category suggestion failed")
		return nil
	}
	state.Suggestions = suggestions
	return nil
}

// Step 7: GroupMonthsStep groups the imported batch by month. A batch with
// no dated transaction fails here, before anything is persisted.
type GroupMonthsStep struct {
	Runs store.ImportRunStore
}

func (s *GroupMonthsStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Groups = NewAggregator(logger.FromContext(ctx)).GroupByMonth(state.Categorized)
	state.Stats.Months = len(state.Groups)
	if len(state.Groups) == 0 {
		return markFailed(ctx, s.Runs, state, ErrNoMonthGroups)
	}
	return nil
}

// Step 8: SaveTransactionsStep persists the categorized transactions.
type SaveTransactionsStep struct {
	Runs         store.ImportRunStore
	Transactions store.TransactionStore
}

func (s *SaveTransactionsStep) Execute(ctx context.Context, state *PipelineState) error {
	if err := s.Transactions.SaveTransactions(ctx, state.ImportRunID, state.Categorized); err != nil {
		return markFailed(ctx, s.Runs, state, err)
	}
	state.Stats.Categorized = len(state.Categorized) - CountUncategorized(state.Categorized)
	state.Stats.Uncategorized = CountUncategorized(state.Categorized)
	return nil
}

// Step 9: RefreshLedgerStep replaces the batch groups with month groups
// rebuilt from every stored transaction.
type RefreshLedgerStep struct {
	Runs         store.ImportRunStore
	Transactions store.TransactionStore
}

func (s *RefreshLedgerStep) Execute(ctx context.Context, state *PipelineState) error {
	stored, err := s.Transactions.AllTransactions(ctx)
	if err != nil {
		return markFailed(ctx, s.Runs, state, err)
	}
	items := make([]domain.CategorizedTransaction, 0, len(stored))
	for _, st := range stored {
		items = append(items, st.CategorizedTransaction)
	}
	state.Groups = NewAggregator(logger.FromContext(ctx)).GroupByMonth(items)
	return nil
}

// Step 10: MarkSuccessStep marks the import run as SUCCESS.
type MarkSuccessStep struct {
	Runs store.ImportRunStore
}

func (s *MarkSuccessStep) Execute(ctx context.Context, state *PipelineState) error {
	return s.Runs.MarkImportRunSucceeded(ctx, state.ImportRunID, state.Stats)
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

func uncategorizedMerchants(items []domain.CategorizedTransaction) []string {
	seen := make(map[string]bool)
	var merchants []string
	for _, it := range items {
		if it.Category != domain.CategoryUncategorized {
			continue
		}
		m := domain.NormalizeMerchant(it.Description)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		merchants = append(merchants, m)
	}
	return merchants
}
