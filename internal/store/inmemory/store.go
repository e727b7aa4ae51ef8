// Package inmemory provides map-backed stores for local runs and tests.
package inmemory

import (
	"sync"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/store"
)

// Store is an in-memory implementation of every store interface.
// It is safe for concurrent use. Data is lost on restart.
type Store struct {
	mu           sync.RWMutex
	transactions []domain.StoredTransaction
	budgets      map[budgetKey]domain.Budget
	goals        map[string][]domain.Goal
	settings     map[string]domain.Settings
	runs         map[string]*domain.ImportRun
	runOrder     []string
	recurring    map[string]map[string]domain.RecurringExpense // user -> merchant
	alerts       []domain.Alert
	merchants    map[string]map[string]domain.MerchantMapping // user -> merchant
}

type budgetKey struct {
	category string
	month    string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		budgets:   make(map[budgetKey]domain.Budget),
		goals:     make(map[string][]domain.Goal),
		settings:  make(map[string]domain.Settings),
		runs:      make(map[string]*domain.ImportRun),
		recurring: make(map[string]map[string]domain.RecurringExpense),
		merchants: make(map[string]map[string]domain.MerchantMapping),
	}
}

// Ensure Store implements the store interfaces.
var (
	_ store.Repository   = (*Store)(nil)
	_ store.InsightStore = (*Store)(nil)
)
