package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/maplecart/config"
	"github.com/shashiranjanraj/maplecart/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the storage manager.
// Call once at application startup (internal/server).
func Connect() {
	defaultDisk = config.StorageDefault()

	// Always boot local disk.
	disks["local"] = newLocalDisk()

	// Boot S3 disk only if a bucket is configured.
	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}
}

// Use returns the named disk ("local" or "s3").
func Use(name string) Disk {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// RegisterDisk lets you plug in a custom Disk implementation at boot time.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

// ── Default disk helpers ─────────────────────────────────────────────────────

func defaultD() Disk { return Use(defaultDisk) }

// Put writes content to key on the default disk.
func Put(key string, content []byte) error { return defaultD().Put(key, content) }

// PutStream writes from r to key on the default disk.
func PutStream(key string, r io.Reader) error { return defaultD().PutStream(key, r) }

// Get returns object content from the default disk.
func Get(key string) ([]byte, error) { return defaultD().Get(key) }

// Exists reports whether key exists on the default disk.
func Exists(key string) bool { return defaultD().Exists(key) }

// Delete removes key from the default disk.
func Delete(key string) error { return defaultD().Delete(key) }

// URL returns the public URL for key on the default disk.
func URL(key string) string { return defaultD().URL(key) }
