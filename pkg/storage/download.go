package storage

import (
	"context"
	"io"
	"os"
)

// DownloadOptions tune a streaming download.
type DownloadOptions struct {
	// ChunkSize is the size of each chunk requested from the engine. Zero
	// means DefaultChunkSize.
	ChunkSize int
	// Local restricts the download to blocks already in the local store.
	Local bool
	// Progress, when set, is called after each chunk with the total number
	// of bytes received so far.
	Progress func(bytesReceived int64)
}

func (o *DownloadOptions) chunkSize() int {
	if o == nil || o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

// DownloadResult reports a completed download.
type DownloadResult struct {
	Cid   CID
	Bytes int64
}

// Manifest fetches the manifest for a stored dataset.
func (n *Node) Manifest(ctx context.Context, cid CID) (*Manifest, error) {
	if _, err := ParseCID(string(cid)); err != nil {
		return nil, &Error{Op: "Manifest", Err: err}
	}
	msg, err := n.invoke(ctx, "Manifest", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.DownloadManifest(ref, string(cid), cb)
	})
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	if err := decode("Manifest", msg, m); err != nil {
		return nil, err
	}
	m.Cid = cid
	return m, nil
}

// DownloadInit prepares the engine to stream the dataset identified by cid.
// It must be called before the first DownloadChunk.
func (n *Node) DownloadInit(ctx context.Context, cid CID, opts *DownloadOptions) error {
	if _, err := ParseCID(string(cid)); err != nil {
		return &Error{Op: "DownloadInit", Err: err}
	}
	var local bool
	if opts != nil {
		local = opts.Local
	}
	_, err := n.invoke(ctx, "DownloadInit", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.DownloadInit(ref, string(cid), opts.chunkSize(), local, cb)
	})
	return err
}

// DownloadChunk fetches the next chunk of an initialized download. The chunk
// bytes arrive through progress notifications; the terminal callback closes
// the request. An empty chunk means the stream is exhausted.
func (n *Node) DownloadChunk(ctx context.Context, cid CID) ([]byte, error) {
	if _, err := ParseCID(string(cid)); err != nil {
		return nil, &Error{Op: "DownloadChunk", Err: err}
	}
	var chunk []byte
	_, err := n.invoke(ctx, "DownloadChunk", true, func(part []byte) {
		chunk = append(chunk, part...)
	}, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.DownloadChunk(ref, string(cid), cb)
	})
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// DownloadCancel abandons an initialized download.
func (n *Node) DownloadCancel(ctx context.Context, cid CID) error {
	if _, err := ParseCID(string(cid)); err != nil {
		return &Error{Op: "DownloadCancel", Err: err}
	}
	_, err := n.invoke(ctx, "DownloadCancel", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.DownloadCancel(ref, string(cid), cb)
	})
	return err
}

// Download streams the dataset identified by cid into w. On any error the
// engine-side download is cancelled.
func (n *Node) Download(ctx context.Context, cid CID, w io.Writer, opts *DownloadOptions) (*DownloadResult, error) {
	manifest, err := n.Manifest(ctx, cid)
	if err != nil {
		return nil, err
	}

	if err := n.DownloadInit(ctx, cid, opts); err != nil {
		return nil, err
	}

	var received int64
	for uint64(received) < manifest.DatasetSize {
		if err := ctx.Err(); err != nil {
			_ = n.DownloadCancel(context.Background(), cid)
			return nil, &Error{Op: "Download", Err: waitErr(ctx)}
		}

		chunk, err := n.DownloadChunk(ctx, cid)
		if err != nil {
			_ = n.DownloadCancel(context.Background(), cid)
			return nil, err
		}
		if len(chunk) == 0 {
			break
		}
		if _, err := w.Write(chunk); err != nil {
			_ = n.DownloadCancel(context.Background(), cid)
			return nil, errorf("Download", "write sink: %v", err)
		}
		received += int64(len(chunk))
		if opts != nil && opts.Progress != nil {
			opts.Progress(received)
		}
	}

	return &DownloadResult{Cid: cid, Bytes: received}, nil
}

// DownloadFile streams the dataset identified by cid into a new file at
// path.
func (n *Node) DownloadFile(ctx context.Context, cid CID, path string, opts *DownloadOptions) (*DownloadResult, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errorf("DownloadFile", "create sink: %v", err)
	}
	defer f.Close()

	res, derr := n.Download(ctx, cid, f, opts)
	if derr != nil {
		return nil, derr
	}
	if err := f.Close(); err != nil {
		return nil, errorf("DownloadFile", "close sink: %v", err)
	}
	return res, nil
}
