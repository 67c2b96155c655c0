package colibri

import (
	"context"
	"crypto/sha1" //nolint:gosec // the provider's login contract requires SHA-1
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
	"github.com/tapsight-labs/possync/internal/logger"
)

// sessionCookie is the name of the provider's session cookie.
const sessionCookie = "CLBSESSID"

// Ensure Client implements the interface.
var _ driven.ProviderClient = (*Client)(nil)

// Client talks to the Colibri POS HTTP API.
// Requests for one account must stay serialized; the client adds a
// proactive token bucket and a circuit breaker, but never retries.
type Client struct {
	cfg     Config
	http    *http.Client
	bucket  *rate.Limiter
	breaker *gobreaker.CircuitBreaker

	// now is injectable for tests; login paths embed a timestamp to
	// defeat the provider's response caching.
	now func() time.Time
}

// NewClient creates a provider client.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "colibri",
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		bucket:  rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		breaker: breaker,
		now:     time.Now,
	}
}

// Login exchanges account credentials for a session.
// The secret crosses the wire as its SHA-1 hex digest, form-encoded, and
// the request path carries a timestamp so the provider cannot serve a
// cached login response. A 200 with no session cookie is a soft failure
// and reported as domain.ErrNoSession.
func (c *Client) Login(ctx context.Context, account domain.ProviderAccount) (domain.Session, error) {
	if err := account.Validate(); err != nil {
		return domain.Session{}, err
	}

	token, err := c.login(ctx, c.cfg.BaseURL, account)
	if err != nil {
		return domain.Session{}, err
	}

	return domain.Session{Token: token, EmpID: account.EmpID}, nil
}

// login performs the form-encoded credential exchange against one base URL.
func (c *Client) login(ctx context.Context, baseURL string, account domain.ProviderAccount) (string, error) {
	form := url.Values{}
	form.Set("usuario", account.Email)
	form.Set("senha", hashSecret(account.Secret))

	endpoint := fmt.Sprintf("%s/ws/login/%d", strings.TrimRight(baseURL, "/"), c.now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", classify(&APIError{StatusCode: resp.StatusCode, Status: resp.Status, URL: endpoint})
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookie && cookie.Value != "" {
			return cookie.Value, nil
		}
	}

	return "", domain.ErrNoSession
}

// FetchReport issues one authenticated read for a (category, date) pair.
// The stock category authenticates against its own endpoint; the session
// passed in carries the account's EmpID either way.
func (c *Client) FetchReport(
	ctx context.Context,
	session domain.Session,
	category domain.Category,
	date domain.Date,
) (*driven.ReportPayload, error) {
	query, err := reportQuery(category, date, session.EmpID)
	if err != nil {
		return nil, err
	}

	baseURL := c.cfg.BaseURL
	token := session.Token
	if category == domain.CategoryStock {
		// The stock report sits behind a separate product service with its
		// own session, so a fresh token is obtained per fetch. The generic
		// session stays untouched.
		baseURL = c.cfg.StockURL
		token, err = c.stockToken(ctx, session)
		if err != nil {
			return nil, fmt.Errorf("stock session: %w", err)
		}
	}

	endpoint := fmt.Sprintf("%s/ws/relatorios?%s", strings.TrimRight(baseURL, "/"), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building report request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", category, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classify(&APIError{StatusCode: resp.StatusCode, Status: resp.Status, URL: endpoint})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading report body: %w", err)
	}

	logger.Debug("Fetched %s for %s (%d bytes)", category, date, len(body))

	return &driven.ReportPayload{
		Body:        body,
		RecordCount: countRecords(body),
	}, nil
}

// do runs one request through the token bucket and circuit breaker.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.bucket.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		// 5xx responses count as provider failures for the breaker;
		// 4xx are caller problems and must not open it.
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, URL: req.URL.String()}
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}

	return result.(*http.Response), nil
}

// stockToken logs into the product service with the generic session token
// as bearer credential and returns the stock-scoped session.
func (c *Client) stockToken(ctx context.Context, session domain.Session) (string, error) {
	endpoint := fmt.Sprintf("%s/ws/produtos/login/%d", strings.TrimRight(c.cfg.StockURL, "/"), c.now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("building stock login request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: session.Token})

	resp, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", classify(&APIError{StatusCode: resp.StatusCode, Status: resp.Status, URL: endpoint})
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookie && cookie.Value != "" {
			return cookie.Value, nil
		}
	}

	return "", domain.ErrNoSession
}

// classify maps throttling responses onto the domain sentinel so callers
// can match them without importing this package. All other errors pass
// through unchanged.
func classify(err error) error {
	if IsRateLimited(err) {
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}
	return err
}

// hashSecret returns the hex-encoded SHA-1 digest of the secret, matching
// the provider's expected login contract.
func hashSecret(secret string) string {
	sum := sha1.Sum([]byte(secret)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// countRecords returns a best-effort row count for a payload: the list
// length when the body is shaped as a list (bare or under "rows"), else 1.
func countRecords(body []byte) int {
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err == nil {
		return len(list)
	}

	var wrapped struct {
		Rows []json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Rows != nil {
		return len(wrapped.Rows)
	}

	return 1
}
