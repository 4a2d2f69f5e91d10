// Package diag reports memory misuse and violated programming contracts.
//
// A Reporter forwards every message either to an installed error callback
// or, by default, to a go-kit logger at error level. Assertions are compiled
// in as checks that panic only when the module is built with the fedebug
// tag; otherwise Assert costs a constant branch.
package diag
