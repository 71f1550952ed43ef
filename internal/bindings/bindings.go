//go:build cgo && !windows

package bindings

/*
#cgo CFLAGS: -I${SRCDIR} -I${SRCDIR}/../../native/include
#cgo LDFLAGS: -L${SRCDIR}/../../native/lib -lstorage -ldl
#include <stdlib.h>
#include <string.h>
#include "bridge.h"

extern void libstorageGoCallback(int ret, const char* msg, size_t len, void* userData);

static StorageCallback libstorage_go_trampoline(void) {
	return (StorageCallback)libstorageGoCallback;
}
*/
import "C"

import (
	"sync"
	"unsafe"
)

// Callback registry. The native library receives the registry key disguised
// as a void* user-data pointer; it is never a real Go pointer, which keeps us
// inside the cgo pointer-passing rules. Terminal callbacks remove their
// entry, so a late completion after the caller gave up finds nothing and is
// dropped.
type cbHandle uintptr

var (
	cbMu   sync.Mutex
	cbNext cbHandle = 1
	cbReg           = map[cbHandle]Callback{}
)

func put(cb Callback) (cbHandle, unsafe.Pointer) {
	cbMu.Lock()
	h := cbNext
	cbNext++
	cbReg[h] = cb
	cbMu.Unlock()
	return h, unsafe.Pointer(uintptr(h))
}

func get(ptr unsafe.Pointer) (Callback, bool) {
	h := cbHandle(uintptr(ptr))
	cbMu.Lock()
	cb, ok := cbReg[h]
	cbMu.Unlock()
	return cb, ok
}

func del(h cbHandle) {
	cbMu.Lock()
	delete(cbReg, h)
	cbMu.Unlock()
}

//export libstorageGoCallback
func libstorageGoCallback(ret C.int, msg *C.char, n C.size_t, user unsafe.Pointer) {
	cb, ok := get(user)
	if !ok {
		return
	}
	var buf []byte
	if msg != nil && n > 0 {
		buf = C.GoBytes(unsafe.Pointer(msg), C.int(n))
	}
	code := int(ret)
	if code == RetOK || code == RetErr {
		del(cbHandle(uintptr(user)))
	}
	cb(code, buf)
}

func refPtr(ref NodeRef) unsafe.Pointer {
	return unsafe.Pointer(uintptr(ref))
}

// call issues one native entry point that follows the uniform shape
// (context, callback, user-data). On a non-OK return the callback will never
// fire, so the registry entry is released immediately.
func call(cb Callback, fn func(unsafe.Pointer) C.int) int {
	h, user := put(cb)
	rc := int(fn(user))
	if rc != RetOK {
		del(h)
	}
	return rc
}

// New creates a native storage node context from a JSON configuration. The
// create callback reports readiness asynchronously through cb.
func New(configJSON string, cb Callback) (NodeRef, error) {
	h, user := put(cb)
	cjson := C.CString(configJSON)
	defer C.free(unsafe.Pointer(cjson))

	ctx := C.storage_new(cjson, C.libstorage_go_trampoline(), user)
	if ctx == nil {
		del(h)
		return 0, ErrCreateFailed
	}
	return NodeRef(uintptr(ctx)), nil
}

func Start(ref NodeRef, cb Callback) int {
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_start(refPtr(ref), C.libstorage_go_trampoline(), user)
	})
}

func Stop(ref NodeRef, cb Callback) int {
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_stop(refPtr(ref), C.libstorage_go_trampoline(), user)
	})
}

func Close(ref NodeRef, cb Callback) int {
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_close(refPtr(ref), C.libstorage_go_trampoline(), user)
	})
}

// Destroy frees the native context. It is synchronous and takes no callback.
func Destroy(ref NodeRef) int {
	return int(C.storage_destroy(refPtr(ref), nil, nil))
}

func Version(ref NodeRef, cb Callback) int {
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_version(refPtr(ref), C.libstorage_go_trampoline(), user)
	})
}

func Revision(ref NodeRef, cb Callback) int {
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_revision(refPtr(ref), C.libstorage_go_trampoline(), user)
	})
}

func RepoPath(ref NodeRef, cb Callback) int {
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_repo(refPtr(ref), C.libstorage_go_trampoline(), user)
	})
}

func SPR(ref NodeRef, cb Callback) int {
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_spr(refPtr(ref), C.libstorage_go_trampoline(), user)
	})
}

func PeerID(ref NodeRef, cb Callback) int {
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_peer_id(refPtr(ref), C.libstorage_go_trampoline(), user)
	})
}

func Debug(ref NodeRef, cb Callback) int {
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_debug(refPtr(ref), C.libstorage_go_trampoline(), user)
	})
}

func SetLogLevel(ref NodeRef, level string, cb Callback) int {
	clevel := C.CString(level)
	defer C.free(unsafe.Pointer(clevel))
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_log_level(refPtr(ref), clevel, C.libstorage_go_trampoline(), user)
	})
}

func PeerDebug(ref NodeRef, peerID string, cb Callback) int {
	cpeer := C.CString(peerID)
	defer C.free(unsafe.Pointer(cpeer))
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_peer_debug(refPtr(ref), cpeer, C.libstorage_go_trampoline(), user)
	})
}

func Connect(ref NodeRef, peerID string, addrs []string, cb Callback) int {
	cpeer := C.CString(peerID)
	defer C.free(unsafe.Pointer(cpeer))

	caddrs := make([]*C.char, len(addrs))
	for i, addr := range addrs {
		caddrs[i] = C.CString(addr)
		defer C.free(unsafe.Pointer(caddrs[i]))
	}
	var addrsPtr **C.char
	if len(caddrs) > 0 {
		addrsPtr = (**C.char)(unsafe.Pointer(&caddrs[0]))
	}

	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_connect(refPtr(ref), cpeer, addrsPtr, C.size_t(len(addrs)), C.libstorage_go_trampoline(), user)
	})
}

func UploadInit(ref NodeRef, filename string, chunkSize int, cb Callback) int {
	var cname *C.char
	if filename != "" {
		cname = C.CString(filename)
		defer C.free(unsafe.Pointer(cname))
	}
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_upload_init(refPtr(ref), cname, C.size_t(chunkSize), C.libstorage_go_trampoline(), user)
	})
}

func UploadChunk(ref NodeRef, session string, chunk []byte, cb Callback) int {
	csession := C.CString(session)
	defer C.free(unsafe.Pointer(csession))

	var data *C.uint8_t
	if len(chunk) > 0 {
		data = (*C.uint8_t)(unsafe.Pointer(&chunk[0]))
	}
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_upload_chunk(refPtr(ref), csession, data, C.size_t(len(chunk)), C.libstorage_go_trampoline(), user)
	})
}

func UploadFinalize(ref NodeRef, session string, cb Callback) int {
	csession := C.CString(session)
	defer C.free(unsafe.Pointer(csession))
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_upload_finalize(refPtr(ref), csession, C.libstorage_go_trampoline(), user)
	})
}

func UploadCancel(ref NodeRef, session string, cb Callback) int {
	csession := C.CString(session)
	defer C.free(unsafe.Pointer(csession))
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_upload_cancel(refPtr(ref), csession, C.libstorage_go_trampoline(), user)
	})
}

func DownloadManifest(ref NodeRef, cid string, cb Callback) int {
	ccid := C.CString(cid)
	defer C.free(unsafe.Pointer(ccid))
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_download_manifest(refPtr(ref), ccid, C.libstorage_go_trampoline(), user)
	})
}

func DownloadInit(ref NodeRef, cid string, chunkSize int, local bool, cb Callback) int {
	ccid := C.CString(cid)
	defer C.free(unsafe.Pointer(ccid))
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_download_init(refPtr(ref), ccid, C.size_t(chunkSize), C.bool(local), C.libstorage_go_trampoline(), user)
	})
}

func DownloadChunk(ref NodeRef, cid string, cb Callback) int {
	ccid := C.CString(cid)
	defer C.free(unsafe.Pointer(ccid))
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_download_chunk(refPtr(ref), ccid, C.libstorage_go_trampoline(), user)
	})
}

func DownloadCancel(ref NodeRef, cid string, cb Callback) int {
	ccid := C.CString(cid)
	defer C.free(unsafe.Pointer(ccid))
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_download_cancel(refPtr(ref), ccid, C.libstorage_go_trampoline(), user)
	})
}

func ListManifests(ref NodeRef, cb Callback) int {
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_list(refPtr(ref), C.libstorage_go_trampoline(), user)
	})
}

func StorageFetch(ref NodeRef, cid string, cb Callback) int {
	ccid := C.CString(cid)
	defer C.free(unsafe.Pointer(ccid))
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_fetch(refPtr(ref), ccid, C.libstorage_go_trampoline(), user)
	})
}

func StorageSpace(ref NodeRef, cb Callback) int {
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_space(refPtr(ref), C.libstorage_go_trampoline(), user)
	})
}

func StorageDelete(ref NodeRef, cid string, cb Callback) int {
	ccid := C.CString(cid)
	defer C.free(unsafe.Pointer(ccid))
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_delete(refPtr(ref), ccid, C.libstorage_go_trampoline(), user)
	})
}

func StorageExists(ref NodeRef, cid string, cb Callback) int {
	ccid := C.CString(cid)
	defer C.free(unsafe.Pointer(ccid))
	return call(cb, func(user unsafe.Pointer) C.int {
		return C.storage_exists(refPtr(ref), ccid, C.libstorage_go_trampoline(), user)
	})
}
