// Package internalcheck provides internal validation and testing utilities.
//
// This package contains static checks enforced at test time, such as keeping
// all cgo and unsafe usage confined to the bindings layer. It is not
// intended for external use and the API may change without notice.
package internalcheck
