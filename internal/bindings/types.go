package bindings

import "errors"

// Status codes shared between the native library's return values and the
// callback protocol. They mirror the RET_* constants in bridge.h.
const (
	RetOK              = 0
	RetErr             = 1
	RetMissingCallback = 2
	RetProgress        = 3
)

// NodeRef is an opaque reference to a native storage node context. It is a
// plain integer on the Go side so that no raw C pointer ever leaves this
// package.
type NodeRef uintptr

// Callback receives status notifications from the native library. The msg
// slice is a copy of the native buffer and safe to retain. Terminal
// notifications (RetOK, RetErr) arrive at most once per issued call;
// RetProgress may arrive any number of times before that.
type Callback func(ret int, msg []byte)

var (
	// ErrNotBuilt reports that the native bindings were not linked into the
	// current binary. Callers can use this to fall back to a substitute
	// engine implementation.
	ErrNotBuilt = errors.New("libstorage/internal/bindings: native bindings not built")

	// ErrCreateFailed reports that storage_new returned a null context.
	ErrCreateFailed = errors.New("libstorage/internal/bindings: storage_new returned a null context")
)
