//go:build !cgo || windows

package bindings

// Stub implementations for non-CGO builds or Windows. These allow the
// package to compile but fail with ErrNotBuilt (or RetErr for the status
// code entry points) when called.

func New(string, Callback) (NodeRef, error) {
	return 0, ErrNotBuilt
}

func Start(NodeRef, Callback) int { return RetErr }

func Stop(NodeRef, Callback) int { return RetErr }

func Close(NodeRef, Callback) int { return RetErr }

func Destroy(NodeRef) int { return RetErr }

func Version(NodeRef, Callback) int { return RetErr }

func Revision(NodeRef, Callback) int { return RetErr }

func RepoPath(NodeRef, Callback) int { return RetErr }

func SPR(NodeRef, Callback) int { return RetErr }

func PeerID(NodeRef, Callback) int { return RetErr }

func Debug(NodeRef, Callback) int { return RetErr }

func SetLogLevel(NodeRef, string, Callback) int { return RetErr }

func PeerDebug(NodeRef, string, Callback) int { return RetErr }

func Connect(NodeRef, string, []string, Callback) int { return RetErr }

func UploadInit(NodeRef, string, int, Callback) int { return RetErr }

func UploadChunk(NodeRef, string, []byte, Callback) int { return RetErr }

func UploadFinalize(NodeRef, string, Callback) int { return RetErr }

func UploadCancel(NodeRef, string, Callback) int { return RetErr }

func DownloadManifest(NodeRef, string, Callback) int { return RetErr }

func DownloadInit(NodeRef, string, int, bool, Callback) int { return RetErr }

func DownloadChunk(NodeRef, string, Callback) int { return RetErr }

func DownloadCancel(NodeRef, string, Callback) int { return RetErr }

func ListManifests(NodeRef, Callback) int { return RetErr }

func StorageFetch(NodeRef, string, Callback) int { return RetErr }

func StorageSpace(NodeRef, Callback) int { return RetErr }

func StorageDelete(NodeRef, string, Callback) int { return RetErr }

func StorageExists(NodeRef, string, Callback) int { return RetErr }
