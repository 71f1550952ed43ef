// Package bindings provides the CGO bindings to the native libstorage
// engine. This package should ONLY be imported by the pkg/storage package.
// All CGO complexity is isolated here.
//
// The native library drives every asynchronous operation through a C
// callback. Callers register a Go Callback per issued call; the exported
// trampoline relays native (status, message) pairs into it. The user-data
// pointer handed to C is a registry key, never a Go pointer.
package bindings
