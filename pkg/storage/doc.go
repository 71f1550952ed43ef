// Package storage provides Go bindings for the libstorage content-addressed
// P2P storage engine.
//
// The package wraps the native C library behind a small facade. A Node is
// created from a Config, started, driven through upload, download, local
// store, and peer operations, and finally destroyed:
//
//	cfg := storage.DefaultConfig()
//	cfg.DataDir = "/var/lib/storage"
//
//	node, err := storage.New(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer node.Destroy()
//
//	if err := node.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	res, err := node.UploadFile(ctx, "photo.jpg", nil)
//
// The native engine is not safe for concurrent entry. All calls into it are
// serialized through a Runtime; results are delivered asynchronously through
// the engine's callback and surface here as ordinary blocking methods that
// honor context cancellation.
//
// Binaries built without cgo (or on Windows) compile but return ErrNotBuilt
// from New. Tests use MockEngine, which implements the same Engine surface
// in memory.
package storage
