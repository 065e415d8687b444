package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/vaultconfig/internal/paths"
	"github.com/thoreinstein/vaultconfig/pkg/fileutil"
)

// Manager handles snapshot creation, restoration, and pruning for one
// config store.
type Manager struct {
	storeDir       string
	snapshotDir    string
	retentionCount int
}

// Option configures a Manager.
type Option func(*Manager)

// WithSnapshotDir overrides where snapshots are stored.
func WithSnapshotDir(dir string) Option {
	return func(m *Manager) {
		m.snapshotDir = dir
	}
}

// WithRetentionCount sets the number of snapshots to retain.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager creates a snapshot Manager for the given store directory.
// Snapshots default to a ".snapshots" directory inside the store, so an
// encrypted store has encrypted snapshots and a moved store carries its
// history along.
func NewManager(storeDir string, opts ...Option) *Manager {
	m := &Manager{
		storeDir:       storeDir,
		snapshotDir:    filepath.Join(storeDir, ".snapshots"),
		retentionCount: DefaultRetentionCount,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot captures every regular file in the store directory. Each file
// is copied with preserved permissions and verified later with a SHA256
// hash. Returns ErrNoSnapshotsFound when the store holds no files.
func (m *Manager) Snapshot() (*Manifest, error) {
	dirEntries, err := os.ReadDir(m.storeDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNoSnapshotsFound, "store does not exist")
		}
		return nil, errors.Wrap(err, "reading store directory")
	}

	id := time.Now().Format("20060102T150405")
	snapPath := filepath.Join(m.snapshotDir, id)
	if err := paths.EnsureDir(snapPath, 0); err != nil {
		return nil, errors.Wrap(err, "creating snapshot directory")
	}

	var files []File
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		f, err := m.captureFile(de.Name(), snapPath)
		if err != nil {
			os.RemoveAll(snapPath)
			return nil, errors.Wrapf(err, "capturing %s", de.Name())
		}
		files = append(files, *f)
	}

	if len(files) == 0 {
		os.RemoveAll(snapPath)
		return nil, errors.Wrap(ErrNoSnapshotsFound, "store is empty")
	}

	manifest := &Manifest{
		Version:   ManifestVersion,
		CreatedAt: time.Now().UTC(),
		StoreDir:  m.storeDir,
		Files:     files,
		ID:        id,
	}

	manifestPath := filepath.Join(snapPath, "manifest.json")
	if err := fileutil.AtomicWriteJSON(manifestPath, manifest, paths.SecureFilePerm); err != nil {
		os.RemoveAll(snapPath)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(m.retentionCount); err != nil {
		return nil, err
	}
	return manifest, nil
}

// captureFile copies one store file into the snapshot directory.
func (m *Manager) captureFile(name, snapPath string) (*File, error) {
	src := filepath.Join(m.storeDir, name)
	dst := filepath.Join(snapPath, name)

	hash, mode, err := copyFile(src, dst)
	if err != nil {
		return nil, err
	}

	return &File{
		Name:       name,
		SHA256Hash: hash,
		Mode:       mode,
	}, nil
}

// Restore copies every file of a snapshot back into the store directory,
// verifying each file's hash first. Files added to the store after the
// snapshot are left in place.
func (m *Manager) Restore(id string) error {
	manifest, err := m.Get(id)
	if err != nil {
		return err
	}

	snapPath := filepath.Join(m.snapshotDir, id)
	for _, f := range manifest.Files {
		src := filepath.Join(snapPath, f.Name)

		hash, err := hashFile(src)
		if err != nil {
			return errors.Wrapf(err, "reading snapshot file %s", f.Name)
		}
		if hash != f.SHA256Hash {
			return errors.Wrapf(ErrSnapshotCorrupted, "file %s hash mismatch", f.Name)
		}

		dst := filepath.Join(m.storeDir, f.Name)
		if _, _, err := copyFile(src, dst); err != nil {
			return errors.Wrapf(err, "restoring %s", f.Name)
		}
		if err := os.Chmod(dst, f.Mode); err != nil {
			return errors.Wrapf(err, "setting permissions for %s", f.Name)
		}
	}

	return nil
}

// List returns all snapshots, sorted by date (newest first).
func (m *Manager) List() ([]Manifest, error) {
	dirEntries, err := os.ReadDir(m.snapshotDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshotsFound
		}
		return nil, errors.Wrap(err, "reading snapshot directory")
	}

	manifests := make([]Manifest, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		manifest, err := m.Get(de.Name())
		if err != nil {
			// Skip invalid snapshot directories
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoSnapshotsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return manifests, nil
}

// Prune removes old snapshots beyond the retention count, keeping the
// most recent ones.
func (m *Manager) Prune(keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List()
	if err != nil {
		if errors.Is(err, ErrNoSnapshotsFound) {
			return nil
		}
		return err
	}

	// Already sorted newest first, delete everything beyond keep
	for i := keep; i < len(manifests); i++ {
		snapPath := filepath.Join(m.snapshotDir, manifests[i].ID)
		if err := os.RemoveAll(snapPath); err != nil {
			return errors.Wrapf(err, "removing snapshot %s", manifests[i].ID)
		}
	}
	return nil
}

// Get returns the manifest for one snapshot.
func (m *Manager) Get(id string) (*Manifest, error) {
	if id == "" {
		return nil, errors.New("snapshot ID is required")
	}

	manifestPath := filepath.Join(m.snapshotDir, id, "manifest.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoSnapshotsFound, "snapshot %s", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	manifest.ID = id
	return &manifest, nil
}

// copyFile copies src to dst, hashing the content on the way through.
// Returns the hex SHA256 of the content and the source file's mode.
func copyFile(src, dst string) (string, os.FileMode, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source")
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, paths.SecureFilePerm)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening destination")
	}
	defer out.Close()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		return "", 0, errors.Wrap(err, "copying file")
	}

	return hex.EncodeToString(h.Sum(nil)), info.Mode().Perm(), nil
}

// hashFile returns the hex SHA256 of a file's contents.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
