package storage

import (
	"context"
	"encoding/json"
	"runtime"
	"sync"
	"time"

	"github.com/nipsysdev/libstorage-go/pkg/storage/logging"
)

// State is a node's lifecycle state.
type State int

const (
	StateCreated State = iota
	StateStarted
	StateStopped
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarted:
		return "started"
	case StateStopped:
		return "stopped"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Node is a handle to an engine-side storage node. All methods are safe for
// concurrent use; calls into the engine itself are serialized by the node's
// Runtime.
type Node struct {
	rt      *Runtime
	log     logging.Logger
	timeout time.Duration

	mu    sync.Mutex
	ref   NodeRef
	state State
}

// New creates a node on the process-wide native runtime. The returned node
// is in StateCreated; call Start before issuing operations.
func New(ctx context.Context, cfg *Config) (*Node, error) {
	return NewWithRuntime(ctx, DefaultRuntime(), cfg)
}

// NewWithRuntime creates a node on an explicit runtime. Tests use this with
// a runtime wrapping a MockEngine.
func NewWithRuntime(ctx context.Context, rt *Runtime, cfg *Config) (*Node, error) {
	if rt == nil {
		return nil, errorf("New", "nil runtime")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Op: "New", Err: err}
	}
	raw, err := cfg.engineJSON()
	if err != nil {
		return nil, &Error{Op: "New", Err: err}
	}

	f := newFuture()
	rt.mu.Lock()
	ref, err := rt.eng.New(raw, f.callback)
	rt.mu.Unlock()
	if err != nil {
		return nil, &Error{Op: "New", Err: err}
	}

	status, msg, err := f.wait(ctx, cfg.opTimeout())
	if err != nil {
		rt.issue(func(eng Engine) int { return eng.Destroy(ref) })
		return nil, &Error{Op: "New", Err: err}
	}
	if status != StatusOK {
		rt.issue(func(eng Engine) int { return eng.Destroy(ref) })
		return nil, statusError("New", status, msg)
	}

	n := &Node{
		rt:      rt,
		log:     rt.log.With("component", "node"),
		timeout: cfg.opTimeout(),
		ref:     ref,
		state:   StateCreated,
	}
	runtime.SetFinalizer(n, func(n *Node) { _ = n.Destroy() })
	n.log.Debug(ctx, "node created")
	return n, nil
}

// State returns the node's current lifecycle state.
func (n *Node) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Started reports whether the node is currently running.
func (n *Node) Started() bool {
	return n.State() == StateStarted
}

// Start brings the node online. Valid from StateCreated or StateStopped.
// The node mutex is held for the whole transition so two racing Starts
// cannot both pass the state check; the runtime lock is still released
// before waiting on the engine callback.
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state != StateCreated && n.state != StateStopped {
		return errorf("Start", "%w: cannot start a %s node", ErrInvalidState, n.state)
	}
	ref := n.ref

	if err := n.roundTrip(ctx, "Start", nil, func(eng Engine, cb Callback) int {
		return eng.Start(ref, cb)
	}); err != nil {
		return err
	}

	n.state = StateStarted
	n.log.Info(ctx, "node started")
	return nil
}

// Stop takes the node offline. Valid only from StateStarted; the node can be
// started again afterwards.
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state != StateStarted {
		return errorf("Stop", "%w: cannot stop a %s node", ErrInvalidState, n.state)
	}
	ref := n.ref

	if err := n.roundTrip(ctx, "Stop", nil, func(eng Engine, cb Callback) int {
		return eng.Stop(ref, cb)
	}); err != nil {
		return err
	}

	n.state = StateStopped
	n.log.Info(ctx, "node stopped")
	return nil
}

// Destroy releases the engine-side context. A running node is stopped and
// closed first, best effort. Destroy is idempotent; after it returns, every
// other method fails with ErrNodeDestroyed or ErrInvalidState.
func (n *Node) Destroy() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == StateDestroyed {
		return nil
	}
	ref := n.ref
	wasStarted := n.state == StateStarted
	n.state = StateDestroyed
	n.ref = 0

	runtime.SetFinalizer(n, nil)

	ctx := context.Background()
	if wasStarted {
		// Teardown keeps going even when the engine objects to a step.
		_ = n.roundTrip(ctx, "Stop", nil, func(eng Engine, cb Callback) int {
			return eng.Stop(ref, cb)
		})
	}
	_ = n.roundTrip(ctx, "Close", nil, func(eng Engine, cb Callback) int {
		return eng.Close(ref, cb)
	})
	n.rt.issue(func(eng Engine) int { return eng.Destroy(ref) })
	n.log.Debug(ctx, "node destroyed")
	return nil
}

// Version returns the engine's version string.
func (n *Node) Version(ctx context.Context) (string, error) {
	msg, err := n.invoke(ctx, "Version", false, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.Version(ref, cb)
	})
	return string(msg), err
}

// Revision returns the engine's source revision string.
func (n *Node) Revision(ctx context.Context) (string, error) {
	msg, err := n.invoke(ctx, "Revision", false, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.Revision(ref, cb)
	})
	return string(msg), err
}

// RepoPath returns the path of the node's data repository.
func (n *Node) RepoPath(ctx context.Context) (string, error) {
	msg, err := n.invoke(ctx, "RepoPath", false, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.RepoPath(ref, cb)
	})
	return string(msg), err
}

// SPR returns the node's signed peer record. The node must be started.
func (n *Node) SPR(ctx context.Context) (string, error) {
	msg, err := n.invoke(ctx, "SPR", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.SPR(ref, cb)
	})
	return string(msg), err
}

// PeerID returns the node's own peer identifier. The node must be started.
func (n *Node) PeerID(ctx context.Context) (PeerID, error) {
	msg, err := n.invoke(ctx, "PeerID", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.PeerID(ref, cb)
	})
	if err != nil {
		return "", err
	}
	return ParsePeerID(string(msg))
}

// refFor fetches the node ref after checking lifecycle preconditions.
func (n *Node) refFor(op string, needStarted bool) (NodeRef, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state == StateDestroyed {
		return 0, &Error{Op: op, Err: ErrNodeDestroyed}
	}
	if needStarted && n.state != StateStarted {
		return 0, errorf(op, "%w: node is %s, not started", ErrInvalidState, n.state)
	}
	return n.ref, nil
}

// invoke issues one engine call and blocks for its terminal callback. The
// runtime lock covers only the issue; waiting happens with the lock
// released so other calls can be submitted meanwhile.
func (n *Node) invoke(ctx context.Context, op string, needStarted bool, progress func([]byte), issue func(Engine, NodeRef, Callback) int) ([]byte, error) {
	ref, err := n.refFor(op, needStarted)
	if err != nil {
		return nil, err
	}
	return n.roundTripMsg(ctx, op, progress, func(eng Engine, cb Callback) int {
		return issue(eng, ref, cb)
	})
}

func (n *Node) roundTrip(ctx context.Context, op string, progress func([]byte), issue func(Engine, Callback) int) error {
	_, err := n.roundTripMsg(ctx, op, progress, issue)
	return err
}

func (n *Node) roundTripMsg(ctx context.Context, op string, progress func([]byte), issue func(Engine, Callback) int) ([]byte, error) {
	f := newFuture()
	f.progress = progress

	rc := n.rt.issue(func(eng Engine) int { return issue(eng, f.callback) })
	if rc != StatusOK {
		return nil, statusError(op, rc, nil)
	}

	status, msg, err := f.wait(ctx, n.timeout)
	if err != nil {
		n.log.Warn(ctx, "engine call abandoned", "op", op, "err", err)
		return nil, &Error{Op: op, Err: err}
	}
	if status != StatusOK {
		return nil, statusError(op, status, msg)
	}
	return msg, nil
}

// decode unmarshals an engine JSON payload for op.
func decode(op string, msg []byte, v interface{}) error {
	if err := json.Unmarshal(msg, v); err != nil {
		return errorf(op, "malformed engine payload: %v", err)
	}
	return nil
}
