// Package connectors groups provider client implementations.
// Each connector implements the ProviderClient port for one POS vendor
// and encapsulates that vendor's session protocol and API quirks.
package connectors
