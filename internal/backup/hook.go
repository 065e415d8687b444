package backup

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// snapshotOnce tracks per-store snapshot state within a session, so a
// command touching a store several times snapshots it once.
var (
	snapshotOnce  = make(map[string]*sync.Once)
	snapshotMutex sync.Mutex
)

// EnsureSnapshot takes a snapshot of the store before a destructive
// operation, at most once per store directory per process.
//
// An empty store is not an error: there is nothing worth snapshotting
// before the first write.
func EnsureSnapshot(storeDir string, opts ...Option) error {
	snapshotMutex.Lock()
	once, exists := snapshotOnce[storeDir]
	if !exists {
		once = &sync.Once{}
		snapshotOnce[storeDir] = once
	}
	snapshotMutex.Unlock()

	var snapErr error
	once.Do(func() {
		_, err := NewManager(storeDir, opts...).Snapshot()
		if err != nil && !errors.Is(err, ErrNoSnapshotsFound) {
			snapErr = err
		}
	})
	return snapErr
}
