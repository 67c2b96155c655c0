// Package file provides TOML-backed application configuration.
// Config lives at ~/.possync/config.toml and is decoded into a typed
// AppConfig; sections are handed to constructors explicitly.
package file
