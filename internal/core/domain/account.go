package domain

// ProviderAccount holds the credentials for one bar's POS provider account.
// Credentials are passed explicitly into constructors; there is no ambient
// or global credential state anywhere in the engine.
type ProviderAccount struct {
	// BarID identifies the venue this account belongs to.
	BarID string

	// Email is the provider login identifier.
	Email string

	// Secret is the provider login secret. It is SHA-1 hashed before it
	// crosses the wire, matching the provider's login contract.
	Secret string

	// EmpID is the provider-side numeric identifier for the venue,
	// required as a query parameter on report fetches.
	EmpID int
}

// Validate reports whether the account is usable for login.
// Missing fields are a configuration error, never retried.
func (a ProviderAccount) Validate() error {
	if a.Email == "" || a.Secret == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Session is an opaque provider credential returned by login.
// It lives in memory for the span of one run and is never persisted.
type Session struct {
	// Token is the session cookie value.
	Token string

	// EmpID is carried alongside the token so report fetches do not need
	// the account again.
	EmpID int
}

// Valid reports whether the session carries a usable token.
func (s Session) Valid() bool {
	return s.Token != ""
}
