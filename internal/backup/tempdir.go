package backup

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

var (
	tempMu  sync.RWMutex
	tempDir string
)

// SetTempDir overrides the directory where scratch dump artifacts are
// created. It takes effect for the next allocation; in-flight operations
// keep the path they already allocated. An empty dir restores the
// system default.
func SetTempDir(dir string) {
	tempMu.Lock()
	defer tempMu.Unlock()
	tempDir = dir
}

// allocTempPath returns a uniquely named scratch path for one operation.
// The file itself is created by whichever collaborator writes it.
func allocTempPath() string {
	tempMu.RLock()
	dir := tempDir
	tempMu.RUnlock()

	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "tablesnap-"+uuid.NewString()+".dump")
}
