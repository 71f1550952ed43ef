package storage

import (
	"sync"

	"github.com/nipsysdev/libstorage-go/pkg/storage/logging"
)

// Status codes used by the engine's return values and callback protocol.
const (
	StatusOK              = 0
	StatusError           = 1
	StatusMissingCallback = 2
	StatusProgress        = 3
)

// NodeRef is an opaque reference to an engine-side node context.
type NodeRef uintptr

// Callback receives status notifications from the engine. A terminal
// notification (StatusOK or StatusError) arrives at most once per issued
// call; StatusProgress may arrive any number of times before that. The msg
// slice must not be retained past the call unless copied.
type Callback func(status int, msg []byte)

// Engine is the set of entry points the node facade drives. The production
// implementation delegates to the native library through cgo; MockEngine
// provides an in-memory implementation for tests.
//
// Engines are not required to be safe for concurrent entry. Callers go
// through a Runtime, which serializes every call.
type Engine interface {
	New(configJSON string, cb Callback) (NodeRef, error)
	Start(ref NodeRef, cb Callback) int
	Stop(ref NodeRef, cb Callback) int
	Close(ref NodeRef, cb Callback) int
	Destroy(ref NodeRef) int

	Version(ref NodeRef, cb Callback) int
	Revision(ref NodeRef, cb Callback) int
	RepoPath(ref NodeRef, cb Callback) int
	SPR(ref NodeRef, cb Callback) int
	PeerID(ref NodeRef, cb Callback) int

	Debug(ref NodeRef, cb Callback) int
	SetLogLevel(ref NodeRef, level string, cb Callback) int
	PeerDebug(ref NodeRef, peerID string, cb Callback) int
	Connect(ref NodeRef, peerID string, addrs []string, cb Callback) int

	UploadInit(ref NodeRef, filename string, chunkSize int, cb Callback) int
	UploadChunk(ref NodeRef, session string, chunk []byte, cb Callback) int
	UploadFinalize(ref NodeRef, session string, cb Callback) int
	UploadCancel(ref NodeRef, session string, cb Callback) int

	DownloadManifest(ref NodeRef, cid string, cb Callback) int
	DownloadInit(ref NodeRef, cid string, chunkSize int, local bool, cb Callback) int
	DownloadChunk(ref NodeRef, cid string, cb Callback) int
	DownloadCancel(ref NodeRef, cid string, cb Callback) int

	ListManifests(ref NodeRef, cb Callback) int
	Fetch(ref NodeRef, cid string, cb Callback) int
	Space(ref NodeRef, cb Callback) int
	Delete(ref NodeRef, cid string, cb Callback) int
	Exists(ref NodeRef, cid string, cb Callback) int
}

// Runtime serializes entry into an Engine. The native engine keeps global
// state and must never be entered from two goroutines at once; the lock is
// held only while a call is being issued, never while waiting for its
// callback, so slow operations do not block unrelated ones from being
// submitted.
type Runtime struct {
	mu  sync.Mutex
	eng Engine
	log logging.Logger
}

// NewRuntime wraps eng in a Runtime. Nodes sharing an engine must share the
// Runtime that wraps it.
func NewRuntime(eng Engine) *Runtime {
	return &Runtime{eng: eng, log: logging.New(nil)}
}

// SetLogger replaces the runtime's logger. Passing nil resets it to the
// default slog-backed logger.
func (r *Runtime) SetLogger(log logging.Logger) {
	if log == nil {
		log = logging.New(nil)
	}
	r.log = log
}

// issue runs fn under the serialization lock and returns its status code.
func (r *Runtime) issue(fn func(Engine) int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.eng)
}

var (
	defaultRuntime     *Runtime
	defaultRuntimeOnce sync.Once
)

// DefaultRuntime returns the process-wide runtime backed by the native
// engine. All nodes created with New share it, matching the single global
// context the native library maintains.
func DefaultRuntime() *Runtime {
	defaultRuntimeOnce.Do(func() {
		defaultRuntime = NewRuntime(nativeEngine{})
	})
	return defaultRuntime
}
