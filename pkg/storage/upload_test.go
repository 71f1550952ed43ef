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

func TestUploadSmallPayload(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	payload := []byte("hello, world") // 12 bytes
	res, err := node.Upload(ctx, bytes.NewReader(payload), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), res.Bytes)
	assert.NotEmpty(t, res.Cid)
	_, err = ParseCID(string(res.Cid))
	assert.NoError(t, err)
}

func TestUploadDeterministicCid(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	payload := []byte("same bytes, same cid")
	first, err := node.Upload(ctx, bytes.NewReader(payload), nil)
	require.NoError(t, err)
	second, err := node.Upload(ctx, bytes.NewReader(payload), nil)
	require.NoError(t, err)

	assert.Equal(t, first.Cid, second.Cid)
}

func TestUploadChunked(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	payload := bytes.Repeat([]byte("abcdefgh"), 1024)
	var reported []int64
	res, err := node.Upload(ctx, bytes.NewReader(payload), &UploadOptions{
		ChunkSize: 1024,
		Progress:  func(sent int64) { reported = append(reported, sent) },
	})
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), res.Bytes)
	require.NotEmpty(t, reported)
	assert.Equal(t, int64(len(payload)), reported[len(reported)-1])
}

func TestUploadSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	session, err := node.UploadInit(ctx, &UploadOptions{Filename: "notes.txt"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID())

	_, err = session.WriteChunk(ctx, []byte("chunk one "))
	require.NoError(t, err)
	_, err = session.WriteChunk(ctx, []byte("chunk two"))
	require.NoError(t, err)

	cid, err := session.Finalize(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, cid)

	// A settled session rejects further writes.
	_, err = session.WriteChunk(ctx, []byte("more"))
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = session.Finalize(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NoError(t, session.Cancel(ctx))
}

func TestUploadCancelDiscards(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	session, err := node.UploadInit(ctx, nil)
	require.NoError(t, err)
	_, err = session.WriteChunk(ctx, []byte("discard me"))
	require.NoError(t, err)
	require.NoError(t, session.Cancel(ctx))

	manifests, err := node.Manifests(ctx)
	require.NoError(t, err)
	assert.Empty(t, manifests)
}

func TestUploadRequiresStarted(t *testing.T) {
	node, _ := newTestNode(t)

	_, err := node.UploadInit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestUploadFile(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	payload := []byte("file upload payload")
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	res, err := node.UploadFile(ctx, path, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), res.Bytes)

	manifest, err := node.Fetch(ctx, res.Cid)
	require.NoError(t, err)
	assert.Equal(t, "report.txt", manifest.Filename)
	assert.Equal(t, uint64(len(payload)), manifest.DatasetSize)
}

func TestUploadContextCancelled(t *testing.T) {
	node, _ := newStartedNode(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := node.Upload(ctx, bytes.NewReader([]byte("never lands")), nil)
	require.Error(t, err)
}
