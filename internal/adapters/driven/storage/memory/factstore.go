package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
)

// Ensure FactStore implements the interface.
var _ driven.FactStore = (*FactStore)(nil)

// FactStore is an in-memory implementation of driven.FactStore.
// Rows are keyed by their natural business key, so upserts replace.
type FactStore struct {
	mu sync.RWMutex

	saleItems     map[string]domain.SaleItem
	payments      map[string]domain.Payment
	hourlyRevenue map[string]domain.HourlyRevenue
	staffShifts   map[string]domain.StaffShift
	coverCounts   map[string]domain.CoverCount
	stockLevels   map[string]domain.StockLevel
}

// NewFactStore creates a new in-memory fact store.
func NewFactStore() *FactStore {
	return &FactStore{
		saleItems:     make(map[string]domain.SaleItem),
		payments:      make(map[string]domain.Payment),
		hourlyRevenue: make(map[string]domain.HourlyRevenue),
		staffShifts:   make(map[string]domain.StaffShift),
		coverCounts:   make(map[string]domain.CoverCount),
		stockLevels:   make(map[string]domain.StockLevel),
	}
}

// UpsertSaleItems stores sale lines keyed by (bar, transaction, line).
func (s *FactStore) UpsertSaleItems(_ context.Context, rows []domain.SaleItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.saleItems[fmt.Sprintf("%s|%s|%d", row.BarID, row.TransactionID, row.LineID)] = row
	}
	return nil
}

// UpsertPayments stores tenders keyed by (bar, transaction, sequence).
func (s *FactStore) UpsertPayments(_ context.Context, rows []domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.payments[fmt.Sprintf("%s|%s|%d", row.BarID, row.TransactionID, row.Sequence)] = row
	}
	return nil
}

// UpsertHourlyRevenue stores hour buckets keyed by (bar, date, hour).
func (s *FactStore) UpsertHourlyRevenue(_ context.Context, rows []domain.HourlyRevenue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.hourlyRevenue[fmt.Sprintf("%s|%s|%d", row.BarID, row.ReportDate, row.Hour)] = row
	}
	return nil
}

// UpsertStaffShifts stores shifts keyed by (bar, employee, date, shift).
func (s *FactStore) UpsertStaffShifts(_ context.Context, rows []domain.StaffShift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.staffShifts[fmt.Sprintf("%s|%s|%s|%s", row.BarID, row.EmployeeID, row.ReportDate, row.Shift)] = row
	}
	return nil
}

// UpsertCoverCounts stores service periods keyed by (bar, date, period).
func (s *FactStore) UpsertCoverCounts(_ context.Context, rows []domain.CoverCount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.coverCounts[fmt.Sprintf("%s|%s|%s", row.BarID, row.ReportDate, row.Period)] = row
	}
	return nil
}

// UpsertStockLevels stores snapshots keyed by (bar, date, product).
func (s *FactStore) UpsertStockLevels(_ context.Context, rows []domain.StockLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.stockLevels[fmt.Sprintf("%s|%s|%s", row.BarID, row.ReportDate, row.ProductCode)] = row
	}
	return nil
}

// DistinctDates returns the dates with normalised rows for the category
// within the inclusive window, sorted ascending.
func (s *FactStore) DistinctDates(_ context.Context, barID string, category domain.Category, from, to domain.Date) ([]domain.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[domain.Date]bool)
	add := func(rowBar string, date domain.Date) {
		if rowBar != barID || date.Before(from) || date.After(to) {
			return
		}
		seen[date] = true
	}

	switch category {
	case domain.CategoryAnalitico:
		for _, row := range s.saleItems {
			add(row.BarID, row.ReportDate)
		}
	case domain.CategoryPayments:
		for _, row := range s.payments {
			add(row.BarID, row.ReportDate)
		}
	case domain.CategoryHourly:
		for _, row := range s.hourlyRevenue {
			add(row.BarID, row.ReportDate)
		}
	case domain.CategoryStaffTime:
		for _, row := range s.staffShifts {
			add(row.BarID, row.ReportDate)
		}
	case domain.CategoryCovers:
		for _, row := range s.coverCounts {
			add(row.BarID, row.ReportDate)
		}
	case domain.CategoryStock:
		for _, row := range s.stockLevels {
			add(row.BarID, row.ReportDate)
		}
	default:
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}

	dates := make([]domain.Date, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
