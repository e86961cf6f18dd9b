// Package errors defines the typed errors and sentinel errors used
// throughout the SDK. The root package re-exports these as type aliases
// so callers never import this package directly.
package errors
