// Package helpers holds stateless predicates, coercions and formatters for
// untyped request input.
//
// Predicates never fail. Coercions with a default fall back silently; the
// identifier coercions fail with ErrInvalidIdentifier and log the offending
// value. LogErrors is the single place where arbitrary failures become a
// client-facing shape.
package helpers
