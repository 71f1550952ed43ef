package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadPayload(t *testing.T, node *Node, payload []byte) CID {
	t.Helper()

	res, err := node.Upload(context.Background(), bytes.NewReader(payload), nil)
	require.NoError(t, err)
	return res.Cid
}

func TestDownloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	payload := bytes.Repeat([]byte("roundtrip"), 512)
	cid := uploadPayload(t, node, payload)

	var sink bytes.Buffer
	res, err := node.Download(ctx, cid, &sink, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), res.Bytes)
	assert.Equal(t, payload, sink.Bytes())
}

func TestDownloadSmallChunks(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	payload := []byte("a payload that spans several tiny chunks")
	cid := uploadPayload(t, node, payload)

	var reported []int64
	var sink bytes.Buffer
	res, err := node.Download(ctx, cid, &sink, &DownloadOptions{
		ChunkSize: 7,
		Progress:  func(received int64) { reported = append(reported, received) },
	})
	require.NoError(t, err)

	assert.Equal(t, payload, sink.Bytes())
	assert.Equal(t, int64(len(payload)), res.Bytes)
	require.NotEmpty(t, reported)
	assert.Equal(t, int64(len(payload)), reported[len(reported)-1])
}

func TestDownloadManifest(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	payload := []byte("manifest payload")
	res, err := node.Upload(ctx, bytes.NewReader(payload), &UploadOptions{Filename: "m.bin"})
	require.NoError(t, err)

	manifest, err := node.Manifest(ctx, res.Cid)
	require.NoError(t, err)

	assert.Equal(t, res.Cid, manifest.Cid)
	assert.Equal(t, uint64(len(payload)), manifest.DatasetSize)
	assert.Equal(t, "m.bin", manifest.Filename)
	assert.NotEmpty(t, manifest.TreeCid)
	assert.NotZero(t, manifest.Blocks())
}

func TestDownloadUnknownCid(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	_, err := node.Manifest(ctx, CID("zmissingcid"))
	assert.ErrorIs(t, err, ErrEngineFailure)

	err = node.DownloadInit(ctx, CID("zmissingcid"), nil)
	assert.ErrorIs(t, err, ErrEngineFailure)
}

func TestDownloadInvalidCid(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	_, err := node.Manifest(ctx, CID("not-a-cid"))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDownloadChunkWithoutInit(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	cid := uploadPayload(t, node, []byte("present but not initialized"))

	_, err := node.DownloadChunk(ctx, cid)
	assert.ErrorIs(t, err, ErrEngineFailure)
}

func TestDownloadCancel(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	cid := uploadPayload(t, node, bytes.Repeat([]byte("x"), 4096))
	require.NoError(t, node.DownloadInit(ctx, cid, &DownloadOptions{ChunkSize: 1024}))

	chunk, err := node.DownloadChunk(ctx, cid)
	require.NoError(t, err)
	assert.Len(t, chunk, 1024)

	require.NoError(t, node.DownloadCancel(ctx, cid))

	// The stream is gone after cancellation.
	_, err = node.DownloadChunk(ctx, cid)
	assert.ErrorIs(t, err, ErrEngineFailure)
}

func TestDownloadFile(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	payload := []byte("download to disk")
	cid := uploadPayload(t, node, payload)

	path := filepath.Join(t.TempDir(), "out.bin")
	res, err := node.DownloadFile(ctx, cid, path, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), res.Bytes)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDownloadLocalOnly(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	payload := []byte("local blocks only")
	cid := uploadPayload(t, node, payload)

	var sink bytes.Buffer
	_, err := node.Download(ctx, cid, &sink, &DownloadOptions{Local: true})
	require.NoError(t, err)
	assert.Equal(t, payload, sink.Bytes())
}
