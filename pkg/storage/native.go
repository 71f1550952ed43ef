package storage

import (
	"errors"

	"github.com/nipsysdev/libstorage-go/internal/bindings"
)

// nativeEngine adapts the cgo bindings layer to the Engine interface. It is
// the only place the public package touches internal/bindings.
type nativeEngine struct{}

func adaptCB(cb Callback) bindings.Callback {
	if cb == nil {
		return nil
	}
	return func(ret int, msg []byte) { cb(ret, msg) }
}

func (nativeEngine) New(configJSON string, cb Callback) (NodeRef, error) {
	ref, err := bindings.New(configJSON, adaptCB(cb))
	if err != nil {
		if errors.Is(err, bindings.ErrNotBuilt) {
			return 0, ErrNotBuilt
		}
		return 0, err
	}
	return NodeRef(ref), nil
}

func (nativeEngine) Start(ref NodeRef, cb Callback) int {
	return bindings.Start(bindings.NodeRef(ref), adaptCB(cb))
}

func (nativeEngine) Stop(ref NodeRef, cb Callback) int {
	return bindings.Stop(bindings.NodeRef(ref), adaptCB(cb))
}

func (nativeEngine) Close(ref NodeRef, cb Callback) int {
	return bindings.Close(bindings.NodeRef(ref), adaptCB(cb))
}

func (nativeEngine) Destroy(ref NodeRef) int {
	return bindings.Destroy(bindings.NodeRef(ref))
}

func (nativeEngine) Version(ref NodeRef, cb Callback) int {
	return bindings.Version(bindings.NodeRef(ref), adaptCB(cb))
}

func (nativeEngine) Revision(ref NodeRef, cb Callback) int {
	return bindings.Revision(bindings.NodeRef(ref), adaptCB(cb))
}

func (nativeEngine) RepoPath(ref NodeRef, cb Callback) int {
	return bindings.RepoPath(bindings.NodeRef(ref), adaptCB(cb))
}

func (nativeEngine) SPR(ref NodeRef, cb Callback) int {
	return bindings.SPR(bindings.NodeRef(ref), adaptCB(cb))
}

func (nativeEngine) PeerID(ref NodeRef, cb Callback) int {
	return bindings.PeerID(bindings.NodeRef(ref), adaptCB(cb))
}

func (nativeEngine) Debug(ref NodeRef, cb Callback) int {
	return bindings.Debug(bindings.NodeRef(ref), adaptCB(cb))
}

func (nativeEngine) SetLogLevel(ref NodeRef, level string, cb Callback) int {
	return bindings.SetLogLevel(bindings.NodeRef(ref), level, adaptCB(cb))
}

func (nativeEngine) PeerDebug(ref NodeRef, peerID string, cb Callback) int {
	return bindings.PeerDebug(bindings.NodeRef(ref), peerID, adaptCB(cb))
}

func (nativeEngine) Connect(ref NodeRef, peerID string, addrs []string, cb Callback) int {
	return bindings.Connect(bindings.NodeRef(ref), peerID, addrs, adaptCB(cb))
}

func (nativeEngine) UploadInit(ref NodeRef, filename string, chunkSize int, cb Callback) int {
	return bindings.UploadInit(bindings.NodeRef(ref), filename, chunkSize, adaptCB(cb))
}

func (nativeEngine) UploadChunk(ref NodeRef, session string, chunk []byte, cb Callback) int {
	return bindings.UploadChunk(bindings.NodeRef(ref), session, chunk, adaptCB(cb))
}

func (nativeEngine) UploadFinalize(ref NodeRef, session string, cb Callback) int {
	return bindings.UploadFinalize(bindings.NodeRef(ref), session, adaptCB(cb))
}

func (nativeEngine) UploadCancel(ref NodeRef, session string, cb Callback) int {
	return bindings.UploadCancel(bindings.NodeRef(ref), session, adaptCB(cb))
}

func (nativeEngine) DownloadManifest(ref NodeRef, cid string, cb Callback) int {
	return bindings.DownloadManifest(bindings.NodeRef(ref), cid, adaptCB(cb))
}

func (nativeEngine) DownloadInit(ref NodeRef, cid string, chunkSize int, local bool, cb Callback) int {
	return bindings.DownloadInit(bindings.NodeRef(ref), cid, chunkSize, local, adaptCB(cb))
}

func (nativeEngine) DownloadChunk(ref NodeRef, cid string, cb Callback) int {
	return bindings.DownloadChunk(bindings.NodeRef(ref), cid, adaptCB(cb))
}

func (nativeEngine) DownloadCancel(ref NodeRef, cid string, cb Callback) int {
	return bindings.DownloadCancel(bindings.NodeRef(ref), cid, adaptCB(cb))
}

func (nativeEngine) ListManifests(ref NodeRef, cb Callback) int {
	return bindings.ListManifests(bindings.NodeRef(ref), adaptCB(cb))
}

func (nativeEngine) Fetch(ref NodeRef, cid string, cb Callback) int {
	return bindings.StorageFetch(bindings.NodeRef(ref), cid, adaptCB(cb))
}

func (nativeEngine) Space(ref NodeRef, cb Callback) int {
	return bindings.StorageSpace(bindings.NodeRef(ref), adaptCB(cb))
}

func (nativeEngine) Delete(ref NodeRef, cid string, cb Callback) int {
	return bindings.StorageDelete(bindings.NodeRef(ref), cid, adaptCB(cb))
}

func (nativeEngine) Exists(ref NodeRef, cid string, cb Callback) int {
	return bindings.StorageExists(bindings.NodeRef(ref), cid, adaptCB(cb))
}
