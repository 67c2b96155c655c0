package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tapsight-labs/possync/internal/core/ports/driven"
	"github.com/tapsight-labs/possync/internal/logger"
)

// Processor converts one raw record into normalised fact rows.
// Rows are committed before the raw record is flagged processed, so a
// crash between the two leaves a state that a re-run repairs for free:
// the upserts simply re-apply the same rows.
type Processor struct {
	rawStore  driven.RawStore
	factStore driven.FactStore
	registry  driven.NormaliserRegistry
}

// NewProcessor creates a processor.
func NewProcessor(rawStore driven.RawStore, factStore driven.FactStore, registry driven.NormaliserRegistry) *Processor {
	return &Processor{rawStore: rawStore, factStore: factStore, registry: registry}
}

// ProcessResult reports one processing call.
type ProcessResult struct {
	// TotalRecords is the number of rows seen in the payload.
	TotalRecords int

	// InsertedRecords is the number of rows upserted.
	InsertedRecords int

	// SkippedRecords is the number of malformed rows dropped.
	SkippedRecords int

	// Duration is the wall time of the call.
	Duration time.Duration
}

// Process normalises a raw record and commits the rows.
// Re-processing the same record is idempotent.
func (p *Processor) Process(ctx context.Context, rawID string) (*ProcessResult, error) {
	start := time.Now()

	raw, err := p.rawStore.GetRaw(ctx, rawID)
	if err != nil {
		return nil, fmt.Errorf("load raw report: %w", err)
	}

	normaliser, err := p.registry.ForCategory(raw.Category)
	if err != nil {
		return nil, err
	}

	batch, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.Category, err)
	}

	if batch.Skipped > 0 {
		logger.Warn("Skipped %d malformed rows in %s/%s/%s", batch.Skipped, raw.BarID, raw.Category, raw.ReportDate)
	}

	if err := p.commit(ctx, batch); err != nil {
		return nil, fmt.Errorf("commit facts: %w", err)
	}

	// Flag only after the rows are durable.
	if err := p.rawStore.MarkProcessed(ctx, raw.ID); err != nil {
		return nil, fmt.Errorf("mark processed: %w", err)
	}

	return &ProcessResult{
		TotalRecords:    batch.Len() + batch.Skipped,
		InsertedRecords: batch.Len(),
		SkippedRecords:  batch.Skipped,
		Duration:        time.Since(start),
	}, nil
}

// commit upserts whichever slice the batch carries.
func (p *Processor) commit(ctx context.Context, batch *driven.FactBatch) error {
	if len(batch.SaleItems) > 0 {
		if err := p.factStore.UpsertSaleItems(ctx, batch.SaleItems); err != nil {
			return err
		}
	}
	if len(batch.Payments) > 0 {
		if err := p.factStore.UpsertPayments(ctx, batch.Payments); err != nil {
			return err
		}
	}
	if len(batch.HourlyRevenue) > 0 {
		if err := p.factStore.UpsertHourlyRevenue(ctx, batch.HourlyRevenue); err != nil {
			return err
		}
	}
	if len(batch.StaffShifts) > 0 {
		if err := p.factStore.UpsertStaffShifts(ctx, batch.StaffShifts); err != nil {
			return err
		}
	}
	if len(batch.CoverCounts) > 0 {
		if err := p.factStore.UpsertCoverCounts(ctx, batch.CoverCounts); err != nil {
			return err
		}
	}
	if len(batch.StockLevels) > 0 {
		if err := p.factStore.UpsertStockLevels(ctx, batch.StockLevels); err != nil {
			return err
		}
	}
	return nil
}
