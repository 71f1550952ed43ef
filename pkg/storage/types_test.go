package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCID(t *testing.T) {
	cid, err := ParseCID("zDvZRwzm2mK7tvDzKScRLapqGdizvab6TE7Jv5UDKapQ53kFDc6x")
	require.NoError(t, err)
	assert.Equal(t, "zDvZRwzm2mK7tvDzKScRLapqGdizvab6TE7Jv5UDKapQ53kFDc6x", cid.String())

	for _, bad := range []string{"", "z", "Qmabc", "z with spaces", "z!bang"} {
		_, err := ParseCID(bad)
		assert.ErrorIs(t, err, ErrInvalidParameter, "cid %q", bad)
	}
}

func TestParsePeerID(t *testing.T) {
	id, err := ParsePeerID("16Uiu2HAm2DVXdvdBXUmbY7uwHEsnZAFqEbDozG2jQEFjnEsgVXy1")
	require.NoError(t, err)
	assert.Equal(t, "16Uiu2HAm2DVXdvdBXUmbY7uwHEsnZAFqEbDozG2jQEFjnEsgVXy1", id.String())

	// 0, O, I, and l are outside the base58 alphabet.
	for _, bad := range []string{"", "peer0id", "OIl", "has space"} {
		_, err := ParsePeerID(bad)
		assert.ErrorIs(t, err, ErrInvalidParameter, "peer id %q", bad)
	}
}

func TestParseMultiAddr(t *testing.T) {
	addr, err := ParseMultiAddr("/ip4/127.0.0.1/tcp/8070")
	require.NoError(t, err)
	assert.Equal(t, "/ip4/127.0.0.1/tcp/8070", addr.String())

	for _, bad := range []string{"", "/", "127.0.0.1:8070"} {
		_, err := ParseMultiAddr(bad)
		assert.ErrorIs(t, err, ErrInvalidParameter, "addr %q", bad)
	}
}

func TestManifestBlocks(t *testing.T) {
	m := &Manifest{DatasetSize: 1000, BlockSize: 256}
	assert.Equal(t, uint64(4), m.Blocks())

	m = &Manifest{DatasetSize: 1024, BlockSize: 256}
	assert.Equal(t, uint64(4), m.Blocks())

	m = &Manifest{DatasetSize: 1024}
	assert.Zero(t, m.Blocks())
}

func TestSpaceAvailableBytes(t *testing.T) {
	s := &Space{QuotaMaxBytes: 1000, QuotaUsedBytes: 800}
	assert.Equal(t, uint64(200), s.AvailableBytes())

	// Over-quota reports zero rather than wrapping around.
	s = &Space{QuotaMaxBytes: 1000, QuotaUsedBytes: 1200}
	assert.Zero(t, s.AvailableBytes())
}
