// Package tracker is the application service behind the API, the CLI and
// the worker. It loads data from the stores, runs the pipeline and the
// analytics over it and writes derived records back.
//
// Collaborator calls within one operation are sequential.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dvloznov/spendwise/internal/analytics"
	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/logger"
	"github.com/dvloznov/spendwise/internal/pipeline"
	"github.com/dvloznov/spendwise/internal/store"
)

var (
	// ErrInvalidInput is returned for requests that fail validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProRequired is returned by pro-tier operations when the tier is off.
	ErrProRequired = errors.New("pro tier required")

	// ErrGoalsReadOnly is returned when the goal store does not accept writes.
	ErrGoalsReadOnly = errors.New("goal store is read-only")
)

// Options configure a Service. Zero values fall back to defaults.
type Options struct {
	UserID      string
	Heuristics  *analytics.Heuristics
	Categorizer *pipeline.Categorizer
	Storage     pipeline.StorageService
	Suggester   pipeline.CategorySuggester

	// Defaults applied when the stored settings leave a field unset.
	MonthlyIncome    float64
	BudgetCycleStart int
	ProEnabled       bool

	Now func() time.Time
}

// Service implements the spendwise use cases.
type Service struct {
	repo        store.Repository
	insights    store.InsightStore
	userID      string
	h           analytics.Heuristics
	categorizer *pipeline.Categorizer
	storage     pipeline.StorageService
	suggester   pipeline.CategorySuggester
	defaults    domain.Settings
	now         func() time.Time
}

// NewService creates a service over the ledger repository and the insight store.
func NewService(repo store.Repository, insights store.InsightStore, opts Options) *Service {
	s := &Service{
		repo:      repo,
		insights:  insights,
		userID:    opts.UserID,
		h:         analytics.DefaultHeuristics(),
		storage:   opts.Storage,
		suggester: opts.Suggester,
		now:       opts.Now,
		defaults: domain.Settings{
			MonthlyIncome:    opts.MonthlyIncome,
			BudgetCycleStart: opts.BudgetCycleStart,
			ProEnabled:       opts.ProEnabled,
		},
	}
	if s.userID == "" {
		s.userID = pipeline.DefaultUserID
	}
	if opts.Heuristics != nil {
		s.h = *opts.Heuristics
	}
	s.categorizer = opts.Categorizer
	if s.categorizer == nil {
		s.categorizer = pipeline.NewCategorizer(pipeline.DefaultRules(), logger.New())
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// UserID is the user the service acts for.
func (s *Service) UserID() string {
	return s.userID
}

// Settings returns the stored settings with configured defaults filled in.
func (s *Service) Settings(ctx context.Context) (domain.Settings, error) {
	settings, err := s.repo.Settings(ctx, s.userID)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("Settings: %w", err)
	}
	settings.UserID = s.userID
	if settings.MonthlyIncome <= 0 {
		settings.MonthlyIncome = s.defaults.MonthlyIncome
	}
	if settings.BudgetCycleStart == 0 {
		settings.BudgetCycleStart = s.defaults.BudgetCycleStart
	}
	settings.ProEnabled = settings.ProEnabled || s.defaults.ProEnabled
	return settings, nil
}

// SaveSettings validates and stores the user's settings.
func (s *Service) SaveSettings(ctx context.Context, settings domain.Settings) error {
	if settings.MonthlyIncome < 0 {
		return fmt.Errorf("SaveSettings: monthly income must not be negative: %w", ErrInvalidInput)
	}
	if settings.BudgetCycleStart < 0 || settings.BudgetCycleStart > 31 {
		return fmt.Errorf("SaveSettings: budget cycle start must be between 1 and 31: %w", ErrInvalidInput)
	}
	settings.UserID = s.userID
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("SaveSettings: %w", err)
	}
	return nil
}

// MonthGroups rebuilds the month groups from every stored transaction.
func (s *Service) MonthGroups(ctx context.Context) ([]domain.MonthGroup, error) {
	stored, err := s.repo.AllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("MonthGroups: %w", err)
	}
	return pipeline.NewAggregator(logger.FromContext(ctx)).GroupByMonth(categorized(stored)), nil
}

// Month returns the group of one month or store.ErrNotFound.
func (s *Service) Month(ctx context.Context, month string) (*domain.MonthGroup, error) {
	if !domain.ValidMonth(month) {
		return nil, fmt.Errorf("Month: %q is not a YYYY-MM key: %w", month, ErrInvalidInput)
	}
	stored, err := s.repo.TransactionsByMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("Month: %w", err)
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("Month: %s: %w", month, store.ErrNotFound)
	}
	items := categorized(stored)
	return &domain.MonthGroup{
		Month:        month,
		Transactions: items,
		Summary:      pipeline.NewAggregator(logger.FromContext(ctx)).Summarize(items),
	}, nil
}

// Months lists the months with stored transactions.
func (s *Service) Months(ctx context.Context) ([]string, error) {
	months, err := s.repo.AllMonths(ctx)
	if err != nil {
		return nil, fmt.Errorf("Months: %w", err)
	}
	return months, nil
}

func categorized(stored []domain.StoredTransaction) []domain.CategorizedTransaction {
	items := make([]domain.CategorizedTransaction, 0, len(stored))
	for _, st := range stored {
		items = append(items, st.CategorizedTransaction)
	}
	return items
}

// currentMonth is the month key of the service clock.
func (s *Service) currentMonth() string {
	return domain.MonthKeyOf(s.now())
}
