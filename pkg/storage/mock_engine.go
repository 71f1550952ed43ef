package storage

import (
	"crypto/sha256"
	"encoding/base32"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// MockEngine provides an in-memory engine implementation for testing. It
// keeps uploads, downloads, and the block store as plain maps, delivers
// every callback from a separate goroutine the way the native engine
// delivers them from its own threads, and records whether it was ever
// entered concurrently so tests can verify the serialization lock.
type MockEngine struct {
	mutex   sync.Mutex
	busy    int32
	reentry int32

	nextRef     uintptr
	nextSession int
	nodes       map[NodeRef]*mockNode
}

type mockNode struct {
	config    Config
	started   bool
	peerID    string
	uploads   map[string]*mockUpload
	downloads map[string]*mockDownload
	store     map[string]*mockDataset
	peers     map[string][]string
}

type mockUpload struct {
	filename  string
	chunkSize int
	data      []byte
}

type mockDownload struct {
	data      []byte
	offset    int
	chunkSize int
}

type mockDataset struct {
	data     []byte
	manifest Manifest
}

// NewMockEngine creates an empty MockEngine.
func NewMockEngine() *MockEngine {
	return &MockEngine{
		nextRef: 1,
		nodes:   map[NodeRef]*mockNode{},
	}
}

// ReentryDetected reports whether two calls ever overlapped. A Runtime-backed
// caller must never trigger this.
func (m *MockEngine) ReentryDetected() bool {
	return atomic.LoadInt32(&m.reentry) != 0
}

// enter flags overlapping entry; the matching leave releases the marker.
func (m *MockEngine) enter() {
	if !atomic.CompareAndSwapInt32(&m.busy, 0, 1) {
		atomic.StoreInt32(&m.reentry, 1)
	}
}

func (m *MockEngine) leave() {
	atomic.StoreInt32(&m.busy, 0)
}

// deliver invokes cb asynchronously, mimicking the native engine calling
// back from one of its own threads.
func deliver(cb Callback, status int, msg []byte) {
	if cb == nil {
		return
	}
	go cb(status, msg)
}

// deliverChunked sends the chunk as a progress notification followed by the
// terminal status.
func deliverChunked(cb Callback, chunk []byte) {
	if cb == nil {
		return
	}
	go func() {
		if len(chunk) > 0 {
			cb(StatusProgress, chunk)
		}
		cb(StatusOK, nil)
	}()
}

// mockCID derives the deterministic content identifier of data.
func mockCID(data []byte) string {
	sum := sha256.Sum256(data)
	body := base32.StdEncoding.EncodeToString(sum[:])
	body = strings.ToLower(strings.TrimRight(body, "="))
	return "z" + body
}

func (m *MockEngine) node(ref NodeRef) *mockNode {
	return m.nodes[ref]
}

func (m *MockEngine) New(configJSON string, cb Callback) (NodeRef, error) {
	m.enter()
	defer m.leave()
	m.mutex.Lock()
	defer m.mutex.Unlock()

	cfg := Config{}
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return 0, fmt.Errorf("mock engine: bad config: %w", err)
	}

	ref := NodeRef(m.nextRef)
	m.nextRef++
	m.nodes[ref] = &mockNode{
		config:    cfg,
		peerID:    fmt.Sprintf("16Uiu2HAmMock%dPeer", uintptr(ref)),
		uploads:   map[string]*mockUpload{},
		downloads: map[string]*mockDownload{},
		store:     map[string]*mockDataset{},
		peers:     map[string][]string{},
	}
	deliver(cb, StatusOK, nil)
	return ref, nil
}

func (m *MockEngine) Start(ref NodeRef, cb Callback) int {
	m.enter()
	defer m.leave()
	m.mutex.Lock()
	defer m.mutex.Unlock()

	node := m.node(ref)
	if node == nil {
		return StatusError
	}
	node.started = true
	deliver(cb, StatusOK, nil)
	return StatusOK
}

func (m *MockEngine) Stop(ref NodeRef, cb Callback) int {
	m.enter()
	defer m.leave()
	m.mutex.Lock()
	defer m.mutex.Unlock()

	node := m.node(ref)
	if node == nil {
		return StatusError
	}
	node.started = false
	deliver(cb, StatusOK, nil)
	return StatusOK
}

func (m *MockEngine) Close(ref NodeRef, cb Callback) int {
	m.enter()
	defer m.leave()
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.node(ref) == nil {
		return StatusError
	}
	deliver(cb, StatusOK, nil)
	return StatusOK
}

func (m *MockEngine) Destroy(ref NodeRef) int {
	m.enter()
	defer m.leave()
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.node(ref) == nil {
		return StatusError
	}
	delete(m.nodes, ref)
	return StatusOK
}

func (m *MockEngine) Version(ref NodeRef, cb Callback) int {
	return m.reply(ref, cb, func(*mockNode) (string, string) { return "0.1.0", "" })
}

func (m *MockEngine) Revision(ref NodeRef, cb Callback) int {
	return m.reply(ref, cb, func(*mockNode) (string, string) { return "deadbeef", "" })
}

func (m *MockEngine) RepoPath(ref NodeRef, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) { return n.config.DataDir, "" })
}

func (m *MockEngine) SPR(ref NodeRef, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		if !n.started {
			return "", "node is not started"
		}
		return "spr:" + n.peerID, ""
	})
}

func (m *MockEngine) PeerID(ref NodeRef, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		if !n.started {
			return "", "node is not started"
		}
		return n.peerID, ""
	})
}

func (m *MockEngine) Debug(ref NodeRef, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		info := DebugInfo{
			ID:                PeerID(n.peerID),
			Addrs:             n.config.ListenAddrs,
			SPR:               "spr:" + n.peerID,
			AnnounceAddresses: []string{},
			Table: DiscoveryTable{
				LocalNode: LocalNodeInfo{
					NodeID: "mock-node",
					PeerID: PeerID(n.peerID),
					Seen:   n.started,
				},
			},
		}
		raw, err := json.Marshal(info)
		if err != nil {
			return "", err.Error()
		}
		return string(raw), ""
	})
}

func (m *MockEngine) SetLogLevel(ref NodeRef, level string, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		n.config.LogLevel = LogLevel(level)
		return "", ""
	})
}

func (m *MockEngine) PeerDebug(ref NodeRef, peerID string, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		addrs, known := n.peers[peerID]
		info := PeerInfo{
			ID:        PeerID(peerID),
			Addresses: addrs,
			Connected: known,
		}
		raw, err := json.Marshal(info)
		if err != nil {
			return "", err.Error()
		}
		return string(raw), ""
	})
}

func (m *MockEngine) Connect(ref NodeRef, peerID string, addrs []string, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		if !n.started {
			return "", "node is not started"
		}
		n.peers[peerID] = append([]string{}, addrs...)
		return "", ""
	})
}

func (m *MockEngine) UploadInit(ref NodeRef, filename string, chunkSize int, cb Callback) int {
	m.enter()
	defer m.leave()
	m.mutex.Lock()
	defer m.mutex.Unlock()

	node := m.node(ref)
	if node == nil {
		return StatusError
	}
	m.nextSession++
	id := fmt.Sprintf("upload-%d", m.nextSession)
	node.uploads[id] = &mockUpload{filename: filename, chunkSize: chunkSize}
	deliver(cb, StatusOK, []byte(id))
	return StatusOK
}

func (m *MockEngine) UploadChunk(ref NodeRef, session string, chunk []byte, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		up, ok := n.uploads[session]
		if !ok {
			return "", "unknown upload session"
		}
		up.data = append(up.data, chunk...)
		return "", ""
	})
}

func (m *MockEngine) UploadFinalize(ref NodeRef, session string, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		up, ok := n.uploads[session]
		if !ok {
			return "", "unknown upload session"
		}
		delete(n.uploads, session)

		cid := mockCID(up.data)
		blockSize := up.chunkSize
		if blockSize <= 0 {
			blockSize = DefaultChunkSize
		}
		n.store[cid] = &mockDataset{
			data: up.data,
			manifest: Manifest{
				TreeCid:     mockCID(append([]byte("tree:"), up.data...)),
				DatasetSize: uint64(len(up.data)),
				BlockSize:   uint64(blockSize),
				Filename:    up.filename,
			},
		}
		return cid, ""
	})
}

func (m *MockEngine) UploadCancel(ref NodeRef, session string, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		if _, ok := n.uploads[session]; !ok {
			return "", "unknown upload session"
		}
		delete(n.uploads, session)
		return "", ""
	})
}

func (m *MockEngine) DownloadManifest(ref NodeRef, cid string, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		ds, ok := n.store[cid]
		if !ok {
			return "", "unknown cid"
		}
		raw, err := json.Marshal(ds.manifest)
		if err != nil {
			return "", err.Error()
		}
		return string(raw), ""
	})
}

func (m *MockEngine) DownloadInit(ref NodeRef, cid string, chunkSize int, local bool, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		ds, ok := n.store[cid]
		if !ok {
			return "", "unknown cid"
		}
		if chunkSize <= 0 {
			chunkSize = DefaultChunkSize
		}
		n.downloads[cid] = &mockDownload{data: ds.data, chunkSize: chunkSize}
		return "", ""
	})
}

func (m *MockEngine) DownloadChunk(ref NodeRef, cid string, cb Callback) int {
	m.enter()
	defer m.leave()
	m.mutex.Lock()
	defer m.mutex.Unlock()

	node := m.node(ref)
	if node == nil {
		return StatusError
	}
	dl, ok := node.downloads[cid]
	if !ok {
		deliver(cb, StatusError, []byte("download not initialized"))
		return StatusOK
	}

	end := dl.offset + dl.chunkSize
	if end > len(dl.data) {
		end = len(dl.data)
	}
	chunk := append([]byte{}, dl.data[dl.offset:end]...)
	dl.offset = end
	deliverChunked(cb, chunk)
	return StatusOK
}

func (m *MockEngine) DownloadCancel(ref NodeRef, cid string, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		delete(n.downloads, cid)
		return "", ""
	})
}

func (m *MockEngine) ListManifests(ref NodeRef, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		entries := make([]listEntry, 0, len(n.store))
		for cid, ds := range n.store {
			raw, err := json.Marshal(ds.manifest)
			if err != nil {
				return "", err.Error()
			}
			entries = append(entries, listEntry{Cid: cid, Manifest: raw})
		}
		raw, err := json.Marshal(entries)
		if err != nil {
			return "", err.Error()
		}
		return string(raw), ""
	})
}

func (m *MockEngine) Fetch(ref NodeRef, cid string, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		ds, ok := n.store[cid]
		if !ok {
			return "", "unknown cid"
		}
		raw, err := json.Marshal(ds.manifest)
		if err != nil {
			return "", err.Error()
		}
		return string(raw), ""
	})
}

func (m *MockEngine) Space(ref NodeRef, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		space := Space{QuotaMaxBytes: n.config.StorageQuota}
		for _, ds := range n.store {
			space.TotalBlocks += ds.manifest.Blocks()
			space.QuotaUsedBytes += uint64(len(ds.data))
		}
		raw, err := json.Marshal(space)
		if err != nil {
			return "", err.Error()
		}
		return string(raw), ""
	})
}

func (m *MockEngine) Delete(ref NodeRef, cid string, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		if _, ok := n.store[cid]; !ok {
			return "", "unknown cid"
		}
		delete(n.store, cid)
		return "", ""
	})
}

func (m *MockEngine) Exists(ref NodeRef, cid string, cb Callback) int {
	return m.reply(ref, cb, func(n *mockNode) (string, string) {
		if _, ok := n.store[cid]; ok {
			return "true", ""
		}
		return "false", ""
	})
}

// reply runs fn under the engine lock and delivers its result or error
// message asynchronously.
func (m *MockEngine) reply(ref NodeRef, cb Callback, fn func(*mockNode) (payload string, errMsg string)) int {
	m.enter()
	defer m.leave()
	m.mutex.Lock()
	defer m.mutex.Unlock()

	node := m.node(ref)
	if node == nil {
		return StatusError
	}
	payload, errMsg := fn(node)
	if errMsg != "" {
		deliver(cb, StatusError, []byte(errMsg))
		return StatusOK
	}
	deliver(cb, StatusOK, []byte(payload))
	return StatusOK
}
