// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - ProviderClient: Talks to the POS provider (login, report fetches)
//   - RawStore: Raw payload persistence (conflict-ignore upserts)
//   - FactStore: Normalised fact persistence (natural-key upserts)
//   - DelayPolicy: Randomized inter-request pacing
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Notifier: Outbound webhook summaries. Without it, runs are silent.
//   - SchedulerStore: Task persistence. Only needed when the scheduler runs.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
