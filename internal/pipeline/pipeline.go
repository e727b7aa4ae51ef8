package pipeline

import (
	"context"
	"errors"

	"github.com/dvloznov/spendwise/internal/store"
)

// ImportDeps are the collaborators of a CSV import. Merchants, Storage and
// Suggester are optional.
type ImportDeps struct {
	Runs         store.ImportRunStore
	Transactions store.TransactionStore
	Merchants    store.MerchantStore
	Storage      StorageService
	Suggester    CategorySuggester
	Categorizer  *Categorizer
	UserID       string
}

// NewImportPipeline creates the standard import pipeline.
func NewImportPipeline(deps ImportDeps) *Pipeline {
	userID := deps.UserID
	if userID == "" {
		userID = DefaultUserID
	}
	return NewPipeline(
		&StartImportRunStep{Runs: deps.Runs},
		&FetchCSVStep{Runs: deps.Runs, Storage: deps.Storage},
		&ParseCSVStep{Runs: deps.Runs},
		&CategorizeStep{Runs: deps.Runs, Categorizer: deps.Categorizer},
		&ApplyLearnedCategoriesStep{Runs: deps.Runs, Merchants: deps.Merchants, UserID: userID},
		&SuggestCategoriesStep{Suggester: deps.Suggester, Categories: Categories(deps.Categorizer.Rules())},
		&GroupMonthsStep{Runs: deps.Runs},
		&SaveTransactionsStep{Runs: deps.Runs, Transactions: deps.Transactions},
		&RefreshLedgerStep{Runs: deps.Runs, Transactions: deps.Transactions},
		&MarkSuccessStep{Runs: deps.Runs},
	)
}

// IsEmptyResult reports whether err is one of the empty-result conditions of
// an import. Retrying the same content cannot change the outcome.
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrNoTransactions) ||
		errors.Is(err, ErrNoCategorized) ||
		errors.Is(err, ErrNoMonthGroups)
}

// ImportCSV imports inline CSV content. source labels the import run.
func ImportCSV(ctx context.Context, source string, content []byte, deps ImportDeps) (*PipelineState, error) {
	state := &PipelineState{Source: source, Content: content}
	if err := NewImportPipeline(deps).Execute(ctx, state); err != nil {
		return state, err
	}
	return state, nil
}

// ImportFromGCS imports an export stored at gcsURI.
func ImportFromGCS(ctx context.Context, gcsURI string, deps ImportDeps) (*PipelineState, error) {
	return ImportCSV(ctx, gcsURI, nil, deps)
}
