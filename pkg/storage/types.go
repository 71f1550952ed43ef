package storage

import (
	"encoding/json"
	"fmt"
)

// CID is a content identifier in multibase text form. Engine CIDs use the
// "z" multibase prefix followed by the encoded hash body.
type CID string

// ParseCID validates s and returns it as a CID.
func ParseCID(s string) (CID, error) {
	if len(s) < 2 || s[0] != 'z' {
		return "", fmt.Errorf("%w: cid %q must start with multibase prefix 'z'", ErrInvalidParameter, s)
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return "", fmt.Errorf("%w: cid %q contains invalid character %q", ErrInvalidParameter, s, c)
		}
	}
	return CID(s), nil
}

func (c CID) String() string { return string(c) }

// PeerID is a libp2p peer identifier in base58 text form.
type PeerID string

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ParsePeerID validates s and returns it as a PeerID.
func ParsePeerID(s string) (PeerID, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty peer id", ErrInvalidParameter)
	}
	for _, c := range s {
		if !base58Char(byte(c)) {
			return "", fmt.Errorf("%w: peer id %q contains non-base58 character %q", ErrInvalidParameter, s, c)
		}
	}
	return PeerID(s), nil
}

func base58Char(c byte) bool {
	for i := 0; i < len(base58Alphabet); i++ {
		if base58Alphabet[i] == c {
			return true
		}
	}
	return false
}

func (p PeerID) String() string { return string(p) }

// MultiAddr is a multiaddress in text form, e.g. "/ip4/127.0.0.1/tcp/8070".
type MultiAddr string

// ParseMultiAddr validates s and returns it as a MultiAddr.
func ParseMultiAddr(s string) (MultiAddr, error) {
	if len(s) < 2 || s[0] != '/' {
		return "", fmt.Errorf("%w: multiaddress %q must start with '/'", ErrInvalidParameter, s)
	}
	return MultiAddr(s), nil
}

func (m MultiAddr) String() string { return string(m) }

// Manifest describes a stored dataset. The engine reports it as JSON; Cid is
// filled in by the caller because the engine keys the payload by it rather
// than embedding it.
type Manifest struct {
	Cid         CID    `json:"-"`
	TreeCid     string `json:"treeCid"`
	DatasetSize uint64 `json:"datasetSize"`
	BlockSize   uint64 `json:"blockSize"`
	Filename    string `json:"filename"`
	Mimetype    string `json:"mimetype"`
	Protected   bool   `json:"protected"`
}

// Blocks returns the number of blocks the dataset occupies.
func (m *Manifest) Blocks() uint64 {
	if m.BlockSize == 0 {
		return 0
	}
	return (m.DatasetSize + m.BlockSize - 1) / m.BlockSize
}

// Space reports the node's storage quota accounting.
type Space struct {
	TotalBlocks        uint64 `json:"totalBlocks"`
	QuotaMaxBytes      uint64 `json:"quotaMaxBytes"`
	QuotaUsedBytes     uint64 `json:"quotaUsedBytes"`
	QuotaReservedBytes uint64 `json:"quotaReservedBytes"`
}

// AvailableBytes returns the unused portion of the quota.
func (s *Space) AvailableBytes() uint64 {
	if s.QuotaUsedBytes > s.QuotaMaxBytes {
		return 0
	}
	return s.QuotaMaxBytes - s.QuotaUsedBytes
}

// PeerInfo describes one peer as reported by the engine.
type PeerInfo struct {
	ID        PeerID   `json:"id"`
	Addresses []string `json:"addresses"`
	Connected bool     `json:"connected"`
	Direction string   `json:"direction,omitempty"`
	LatencyMS uint64   `json:"latency_ms,omitempty"`
}

// DebugInfo is the engine's self-report: identity, addresses, and the
// discovery table.
type DebugInfo struct {
	ID                PeerID         `json:"id"`
	Addrs             []string       `json:"addrs"`
	SPR               string         `json:"spr"`
	AnnounceAddresses []string       `json:"announceAddresses"`
	Table             DiscoveryTable `json:"table"`
}

// DiscoveryTable lists the local node and its known remote nodes.
type DiscoveryTable struct {
	LocalNode LocalNodeInfo     `json:"localNode"`
	Nodes     []json.RawMessage `json:"nodes"`
}

// LocalNodeInfo identifies this node inside the discovery table.
type LocalNodeInfo struct {
	NodeID  string `json:"nodeId"`
	PeerID  PeerID `json:"peerId"`
	Record  string `json:"record"`
	Address string `json:"address"`
	Seen    bool   `json:"seen"`
}
