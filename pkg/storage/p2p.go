package storage

import "context"

// Connect dials a peer by id at the given multiaddresses. With no addresses
// the engine resolves the peer through discovery.
func (n *Node) Connect(ctx context.Context, peer PeerID, addrs []MultiAddr) error {
	if _, err := ParsePeerID(string(peer)); err != nil {
		return &Error{Op: "Connect", Err: err}
	}
	raw := make([]string, len(addrs))
	for i, addr := range addrs {
		if _, err := ParseMultiAddr(string(addr)); err != nil {
			return &Error{Op: "Connect", Err: err}
		}
		raw[i] = string(addr)
	}
	_, err := n.invoke(ctx, "Connect", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.Connect(ref, string(peer), raw, cb)
	})
	return err
}

// PeerInfo fetches what the engine knows about a peer.
func (n *Node) PeerInfo(ctx context.Context, peer PeerID) (*PeerInfo, error) {
	if _, err := ParsePeerID(string(peer)); err != nil {
		return nil, &Error{Op: "PeerInfo", Err: err}
	}
	msg, err := n.invoke(ctx, "PeerInfo", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.PeerDebug(ref, string(peer), cb)
	})
	if err != nil {
		return nil, err
	}
	info := &PeerInfo{}
	if err := decode("PeerInfo", msg, info); err != nil {
		return nil, err
	}
	return info, nil
}
