package normalisers

import (
	"encoding/json"
	"fmt"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps report categories to their normalisers.
type Registry struct {
	byCategory map[domain.Category]driven.Normaliser
}

// NewRegistry creates a registry with every built-in normaliser registered.
func NewRegistry() *Registry {
	r := &Registry{byCategory: make(map[domain.Category]driven.Normaliser)}
	r.Register(NewAnalitico())
	r.Register(NewPayments())
	r.Register(NewHourly())
	r.Register(NewStaffTime())
	r.Register(NewCovers())
	r.Register(NewStock())
	return r
}

// Register adds a normaliser, replacing any previous one for the category.
func (r *Registry) Register(n driven.Normaliser) {
	r.byCategory[n.Category()] = n
}

// ForCategory returns the registered normaliser for a category.
func (r *Registry) ForCategory(category domain.Category) (driven.Normaliser, error) {
	n, ok := r.byCategory[category]
	if !ok {
		return nil, fmt.Errorf("%w: no normaliser for category %q", domain.ErrInvalidInput, category)
	}
	return n, nil
}

// decodeRows splits a payload into individually decodable rows.
// The provider wraps list payloads either as a bare JSON array or as an
// object with a "rows" key; both shapes are accepted. Returns the raw rows
// so each can be decoded (and, on failure, skipped) independently.
func decodeRows(payload []byte) ([]json.RawMessage, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(payload, &rows); err == nil {
		return rows, nil
	}

	var wrapped struct {
		Rows []json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	return wrapped.Rows, nil
}

// str returns the pointed-to string or a default when the field was absent.
func str(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

// num returns the pointed-to number or a default when the field was absent.
func num(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// integer returns the pointed-to number truncated to int, or a default.
func integer(p *float64, def int) int {
	if p == nil {
		return def
	}
	return int(*p)
}
