package inmemory

import (
	"context"
	"sort"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
)

// LearnMerchant records that merchantName belongs to category. Every call on an
// existing mapping raises its confidence and takes the new category.
func (s *Store) LearnMerchant(ctx context.Context, userID, merchantName, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.merchants[userID] == nil {
		s.merchants[userID] = make(map[string]domain.MerchantMapping)
	}
	m, ok := s.merchants[userID][merchantName]
	if ok {
		m.Category = category
		m.Confidence++
	} else {
		m = domain.MerchantMapping{UserID: userID, MerchantName: merchantName, Category: category, Confidence: 1}
	}
	m.UpdatedAt = time.Now().UTC()
	s.merchants[userID][merchantName] = m
	return nil
}

// MerchantMapping returns the learned mapping or nil.
func (s *Store) MerchantMapping(ctx context.Context, userID, merchantName string) (*domain.MerchantMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.merchants[userID][merchantName]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// MerchantMappings returns all of the user's mappings sorted by merchant.
func (s *Store) MerchantMappings(ctx context.Context, userID string) ([]domain.MerchantMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MerchantMapping, 0, len(s.merchants[userID]))
	for _, m := range s.merchants[userID] {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MerchantName < out[j].MerchantName })
	return out, nil
}
