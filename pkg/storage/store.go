package storage

import (
	"context"
	"encoding/json"
)

// listEntry is one element of the engine's manifest list payload.
type listEntry struct {
	Cid      string          `json:"cid"`
	Manifest json.RawMessage `json:"manifest"`
}

// Manifests lists every dataset held in the local store.
func (n *Node) Manifests(ctx context.Context) ([]Manifest, error) {
	msg, err := n.invoke(ctx, "Manifests", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.ListManifests(ref, cb)
	})
	if err != nil {
		return nil, err
	}
	if len(msg) == 0 {
		return nil, nil
	}

	var entries []listEntry
	if err := decode("Manifests", msg, &entries); err != nil {
		return nil, err
	}

	out := make([]Manifest, 0, len(entries))
	for _, e := range entries {
		m := Manifest{}
		if len(e.Manifest) > 0 {
			if err := decode("Manifests", e.Manifest, &m); err != nil {
				return nil, err
			}
		}
		m.Cid = CID(e.Cid)
		out = append(out, m)
	}
	return out, nil
}

// Fetch retrieves the manifest of a dataset from the local store, pulling it
// from the network if necessary.
func (n *Node) Fetch(ctx context.Context, cid CID) (*Manifest, error) {
	if _, err := ParseCID(string(cid)); err != nil {
		return nil, &Error{Op: "Fetch", Err: err}
	}
	msg, err := n.invoke(ctx, "Fetch", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.Fetch(ref, string(cid), cb)
	})
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	if err := decode("Fetch", msg, m); err != nil {
		return nil, err
	}
	m.Cid = cid
	return m, nil
}

// Space reports the local store's quota accounting.
func (n *Node) Space(ctx context.Context) (*Space, error) {
	msg, err := n.invoke(ctx, "Space", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.Space(ref, cb)
	})
	if err != nil {
		return nil, err
	}
	s := &Space{}
	if err := decode("Space", msg, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes a dataset from the local store. Deleting an absent dataset
// is an engine-level error.
func (n *Node) Delete(ctx context.Context, cid CID) error {
	if _, err := ParseCID(string(cid)); err != nil {
		return &Error{Op: "Delete", Err: err}
	}
	_, err := n.invoke(ctx, "Delete", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.Delete(ref, string(cid), cb)
	})
	return err
}

// Exists reports whether the local store holds the dataset identified by
// cid.
func (n *Node) Exists(ctx context.Context, cid CID) (bool, error) {
	if _, err := ParseCID(string(cid)); err != nil {
		return false, &Error{Op: "Exists", Err: err}
	}
	msg, err := n.invoke(ctx, "Exists", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.Exists(ref, string(cid), cb)
	})
	if err != nil {
		return false, err
	}
	return string(msg) == "true", nil
}
