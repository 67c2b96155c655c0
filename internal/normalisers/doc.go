// Package normalisers provides implementations of the Normaliser interface
// for each report category. Each normaliser knows how to map one provider
// payload shape into the rows of its fact table.
//
// Payloads are decoded row by row so a single malformed element is counted
// and skipped without aborting the batch.
//
// Normalisers are registered with the NormaliserRegistry at startup.
package normalisers
