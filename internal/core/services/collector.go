package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
	"github.com/tapsight-labs/possync/internal/logger"
)

// Collector fetches one (category, date) report and persists it as a raw
// record. It never retries: a failure is reported to the caller, and the
// conflict-ignore save makes re-invocation safe at any time.
type Collector struct {
	provider driven.ProviderClient
	rawStore driven.RawStore
}

// NewCollector creates a collector.
func NewCollector(provider driven.ProviderClient, rawStore driven.RawStore) *Collector {
	return &Collector{provider: provider, rawStore: rawStore}
}

// CollectResult reports one successful collection.
type CollectResult struct {
	// RawID is the id of the stored raw record. When the fetch raced an
	// earlier collection, this is the pre-existing record's id.
	RawID string

	// RecordCount is the payload's best-effort row count.
	RecordCount int

	// Inserted is false when a record already existed for the key and the
	// save was a no-op.
	Inserted bool
}

// Collect fetches the report and stores it.
func (c *Collector) Collect(
	ctx context.Context,
	session domain.Session,
	barID string,
	category domain.Category,
	date domain.Date,
) (*CollectResult, error) {
	payload, err := c.provider.FetchReport(ctx, session, category, date)
	if err != nil {
		return nil, fmt.Errorf("fetch report: %w", err)
	}

	stored, inserted, err := c.rawStore.SaveRaw(ctx, domain.RawReport{
		ID:          uuid.NewString(),
		Source:      domain.SourceColibri,
		BarID:       barID,
		Category:    category,
		ReportDate:  date,
		Payload:     payload.Body,
		RecordCount: payload.RecordCount,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("save raw report: %w", err)
	}

	if !inserted {
		logger.Debug("Raw report already stored for %s/%s/%s, keeping first fetch", barID, category, date)
	}

	return &CollectResult{
		RawID:       stored.ID,
		RecordCount: stored.RecordCount,
		Inserted:    inserted,
	}, nil
}
