package backup

import (
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
)

// Manifest format version for forward compatibility.
const ManifestVersion = 1

// DefaultRetentionCount is the default number of snapshots to retain.
const DefaultRetentionCount = 5

// Sentinel errors for snapshot operations.
var (
	// ErrNoSnapshotsFound indicates no snapshots exist for the store.
	ErrNoSnapshotsFound = errors.New("no snapshots found")

	// ErrSnapshotCorrupted indicates snapshot file integrity verification failed.
	// This occurs when a file's SHA256 hash doesn't match the manifest.
	ErrSnapshotCorrupted = errors.New("snapshot corrupted")
)

// Manifest contains metadata about one store snapshot.
// It is stored as manifest.json in each snapshot directory.
type Manifest struct {
	// Version is the manifest format version for forward compatibility.
	Version int `json:"version"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`

	// StoreDir is the store directory the snapshot was taken from.
	StoreDir string `json:"store_dir"`

	// Files contains metadata for each captured file.
	Files []File `json:"files"`

	// ID is the snapshot identifier (timestamp format: 20260829T100712).
	// This field is populated when loading from disk but not stored in JSON.
	ID string `json:"-"`
}

// File contains metadata for a single captured store file.
type File struct {
	// Name is the file name within the store directory.
	Name string `json:"name"`

	// SHA256Hash is the hex-encoded SHA256 hash of the file contents.
	SHA256Hash string `json:"sha256_hash"`

	// Mode is the file's permission bits.
	Mode fs.FileMode `json:"mode"`
}
