package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// DefaultChunkSize is used for streaming transfers when no chunk size is
// given.
const DefaultChunkSize = 1 << 20

// UploadOptions tune a streaming upload.
type UploadOptions struct {
	// Filename is recorded in the dataset manifest. Optional.
	Filename string
	// ChunkSize is the size of each chunk handed to the engine. Zero means
	// DefaultChunkSize.
	ChunkSize int
	// Progress, when set, is called after each chunk with the total number
	// of bytes handed to the engine so far.
	Progress func(bytesSent int64)
}

func (o *UploadOptions) chunkSize() int {
	if o == nil || o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

// UploadResult reports a completed upload.
type UploadResult struct {
	Cid   CID
	Bytes int64
}

// UploadSession is an open chunked upload. Feed it with Write and settle it
// with exactly one of Finalize or Cancel.
type UploadSession struct {
	node   *Node
	id     string
	sent   int64
	closed bool
}

// UploadInit opens a chunked upload session.
func (n *Node) UploadInit(ctx context.Context, opts *UploadOptions) (*UploadSession, error) {
	var filename string
	if opts != nil {
		filename = opts.Filename
	}
	msg, err := n.invoke(ctx, "UploadInit", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.UploadInit(ref, filename, opts.chunkSize(), cb)
	})
	if err != nil {
		return nil, err
	}
	id := string(msg)
	if id == "" {
		return nil, errorf("UploadInit", "engine returned empty session id")
	}
	return &UploadSession{node: n, id: id}, nil
}

// ID returns the engine-side session identifier.
func (s *UploadSession) ID() string { return s.id }

// Write hands one chunk to the engine. It implements io.Writer so a session
// can be the target of io.Copy.
func (s *UploadSession) Write(p []byte) (int, error) {
	return s.WriteChunk(context.Background(), p)
}

// WriteChunk hands one chunk to the engine under the given context.
func (s *UploadSession) WriteChunk(ctx context.Context, p []byte) (int, error) {
	if s.closed {
		return 0, errorf("UploadChunk", "%w: session %s is settled", ErrInvalidState, s.id)
	}
	if len(p) == 0 {
		return 0, nil
	}
	_, err := s.node.invoke(ctx, "UploadChunk", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.UploadChunk(ref, s.id, p, cb)
	})
	if err != nil {
		return 0, err
	}
	s.sent += int64(len(p))
	return len(p), nil
}

// Finalize completes the upload and returns the content identifier of the
// assembled dataset.
func (s *UploadSession) Finalize(ctx context.Context) (CID, error) {
	if s.closed {
		return "", errorf("UploadFinalize", "%w: session %s is settled", ErrInvalidState, s.id)
	}
	msg, err := s.node.invoke(ctx, "UploadFinalize", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.UploadFinalize(ref, s.id, cb)
	})
	if err != nil {
		return "", err
	}
	s.closed = true
	return ParseCID(string(msg))
}

// Cancel abandons the upload and discards any buffered chunks. Cancelling a
// settled session is a no-op.
func (s *UploadSession) Cancel(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	_, err := s.node.invoke(ctx, "UploadCancel", true, nil, func(eng Engine, ref NodeRef, cb Callback) int {
		return eng.UploadCancel(ref, s.id, cb)
	})
	return err
}

// Upload streams r into the node chunk by chunk and returns the resulting
// content identifier. On any error the session is cancelled.
func (n *Node) Upload(ctx context.Context, r io.Reader, opts *UploadOptions) (*UploadResult, error) {
	session, err := n.UploadInit(ctx, opts)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, opts.chunkSize())
	for {
		if err := ctx.Err(); err != nil {
			_ = session.Cancel(context.Background())
			return nil, &Error{Op: "Upload", Err: waitErr(ctx)}
		}

		nr, rerr := r.Read(buf)
		if nr > 0 {
			if _, werr := session.WriteChunk(ctx, buf[:nr]); werr != nil {
				_ = session.Cancel(context.Background())
				return nil, werr
			}
			if opts != nil && opts.Progress != nil {
				opts.Progress(session.sent)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			_ = session.Cancel(context.Background())
			return nil, errorf("Upload", "read source: %v", rerr)
		}
	}

	cid, err := session.Finalize(ctx)
	if err != nil {
		_ = session.Cancel(context.Background())
		return nil, err
	}
	return &UploadResult{Cid: cid, Bytes: session.sent}, nil
}

// UploadFile streams the file at path into the node. The file's base name is
// recorded in the manifest unless opts already names one.
func (n *Node) UploadFile(ctx context.Context, path string, opts *UploadOptions) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errorf("UploadFile", "open source: %v", err)
	}
	defer f.Close()

	local := UploadOptions{}
	if opts != nil {
		local = *opts
	}
	if local.Filename == "" {
		local.Filename = filepath.Base(path)
	}
	return n.Upload(ctx, f, &local)
}
