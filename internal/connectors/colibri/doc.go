// Package colibri implements the ProviderClient port for the Colibri POS.
//
// The provider speaks a session-cookie protocol: a form-encoded login with
// a SHA-1 hashed secret yields a session cookie reused for every report
// fetch in a run. Report endpoints are rate limited per account, so the
// client throttles proactively and wraps requests in a circuit breaker,
// but it never retries — re-invocation is the caller's retry mechanism.
package colibri
