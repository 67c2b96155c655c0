package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
)

// Ensure RawStore implements the interface.
var _ driven.RawStore = (*RawStore)(nil)

// rawKey is the natural identity of a raw report.
type rawKey struct {
	barID    string
	category domain.Category
	date     domain.Date
}

// RawStore is an in-memory implementation of driven.RawStore.
type RawStore struct {
	mu    sync.RWMutex
	byID  map[string]domain.RawReport
	byKey map[rawKey]string
}

// NewRawStore creates a new in-memory raw report store.
func NewRawStore() *RawStore {
	return &RawStore{
		byID:  make(map[string]domain.RawReport),
		byKey: make(map[rawKey]string),
	}
}

// SaveRaw stores a raw report with conflict-ignore semantics: the first
// record stored for (bar, category, date) wins.
func (s *RawStore) SaveRaw(_ context.Context, report domain.RawReport) (*domain.RawReport, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := rawKey{report.BarID, report.Category, report.ReportDate}
	if id, ok := s.byKey[key]; ok {
		existing := s.byID[id]
		return &existing, false, nil
	}

	s.byID[report.ID] = report
	s.byKey[key] = report.ID
	stored := report
	return &stored, true, nil
}

// GetRaw retrieves a raw report by id.
func (s *RawStore) GetRaw(_ context.Context, id string) (*domain.RawReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &report, nil
}

// FindRaw retrieves the raw report stored for the key, if any.
func (s *RawStore) FindRaw(_ context.Context, barID string, category domain.Category, date domain.Date) (*domain.RawReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[rawKey{barID, category, date}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	report := s.byID[id]
	return &report, nil
}

// MarkProcessed flips the processed flag.
func (s *RawStore) MarkProcessed(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	report.Processed = true
	s.byID[id] = report
	return nil
}

// ListUnprocessed returns unprocessed reports for a bar, oldest date first.
func (s *RawStore) ListUnprocessed(_ context.Context, barID string) ([]domain.RawReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.RawReport
	for _, report := range s.byID {
		if report.BarID == barID && !report.Processed {
			result = append(result, report)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ReportDate != result[j].ReportDate {
			return result[i].ReportDate.Before(result[j].ReportDate)
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}
