// Package domain defines the core business entities for possync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawReport: An immutable stored provider payload for one date
//   - SaleItem, Payment, ...: Normalised fact rows, one schema per category
//   - RunResult: The outcome of one orchestration call
//   - ProviderAccount, Session: Provider credentials and login state
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
