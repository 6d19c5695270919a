// Package memory is an in-memory expense store. It backs the "memory" data
// backend for local development and doubles as the store in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"spendvoice/internal/core"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Expense
}

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	s.nextID++
	e.CreatedAt = time.Now().UTC()
	s.items = append(s.items, e)
	return e, nil
}

// ListExpenses returns records by date descending; the stable sort keeps
// insertion order for same-date records, matching the SQLite repository.
func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]core.Expense(nil), s.items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Date.Before(out[i].Date.Time)
	})
	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	// Absent id is a no-op.
	return nil
}

func (s *Store) Stats(_ context.Context) (core.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st core.Stats
	byCategory := make(map[string]int64)
	cutoff := core.Today().AddDate(0, 0, -7)

	for _, e := range s.items {
		st.Total.Cents += e.Amount.Cents
		byCategory[e.Category] += e.Amount.Cents
		if !e.Date.Before(cutoff) {
			st.RecentCount++
			st.RecentTotal.Cents += e.Amount.Cents
		}
	}

	for cat, cents := range byCategory {
		st.ByCategory = append(st.ByCategory, core.CategoryTotal{
			Category: cat,
			Total:    core.Money{Cents: cents},
		})
	}
	// Sum descending; name ascending keeps equal sums deterministic.
	sort.Slice(st.ByCategory, func(i, j int) bool {
		if st.ByCategory[i].Total.Cents != st.ByCategory[j].Total.Cents {
			return st.ByCategory[i].Total.Cents > st.ByCategory[j].Total.Cents
		}
		return st.ByCategory[i].Category < st.ByCategory[j].Category
	})

	return st, nil
}
