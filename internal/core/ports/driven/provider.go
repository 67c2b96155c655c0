package driven

import (
	"context"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

// ProviderClient talks to the POS provider's HTTP API.
// Implementations handle the provider's session protocol, request pacing
// and error classification; they never retry internally — callers decide
// retry policy by re-invoking.
type ProviderClient interface {
	// Login exchanges account credentials for a session.
	// The secret is hashed before it crosses the wire. A transport-level
	// success with no session cookie is an authentication failure
	// (domain.ErrNoSession), not a success.
	Login(ctx context.Context, account domain.ProviderAccount) (domain.Session, error)

	// FetchReport issues one authenticated read for a (category, date) pair
	// and returns the parsed payload. Categories that need their own auth
	// flow (stock) handle it internally; the contract does not change.
	FetchReport(ctx context.Context, session domain.Session, category domain.Category, date domain.Date) (*ReportPayload, error)
}

// ReportPayload is the structured provider response for one report.
type ReportPayload struct {
	// Body is the raw response, verbatim JSON.
	Body []byte

	// RecordCount is the list length when the payload is shaped as a list,
	// else 1.
	RecordCount int
}

// DelayPolicy inserts the pauses between provider requests.
// The provider enforces per-account rate limits, so collection is
// deliberately serialized with randomized delays between calls. Tests
// inject a no-op policy to avoid waiting in real time.
type DelayPolicy interface {
	// Wait blocks for the next randomized delay or until ctx is done.
	Wait(ctx context.Context) error
}

// DelayFunc adapts a function to the DelayPolicy interface.
type DelayFunc func(ctx context.Context) error

// Wait implements DelayPolicy.
func (f DelayFunc) Wait(ctx context.Context) error {
	return f(ctx)
}

// NoDelay is a DelayPolicy that never waits. For tests.
var NoDelay = DelayFunc(func(context.Context) error { return nil })
