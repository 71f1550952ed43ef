package storage

import "context"

// DebugInfo fetches the engine's self-report: identity, listen addresses,
// and the discovery table.
func (n *Node) DebugInfo(ctx context.Context) (*DebugInfo, error) {
	msg, err := n.invoke(ctx, "DebugInfo", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.Debug(ref, cb)
	})
	if err != nil {
		return nil, err
	}
	info := &DebugInfo{}
	if err := decode("DebugInfo", msg, info); err != nil {
		return nil, err
	}
	return info, nil
}

// SetLogLevel changes the engine's log verbosity at runtime.
func (n *Node) SetLogLevel(ctx context.Context, level LogLevel) error {
	if !level.valid() {
		return errorf("SetLogLevel", "%w: unknown log level %q", ErrInvalidParameter, level)
	}
	_, err := n.invoke(ctx, "SetLogLevel", false, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.SetLogLevel(ref, string(level), cb)
	})
	return err
}
