package vault

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/vaultconfig/internal/crypt"
	"github.com/thoreinstein/vaultconfig/internal/format"
	"github.com/thoreinstein/vaultconfig/internal/logging"
	"github.com/thoreinstein/vaultconfig/internal/obscure"
	"github.com/thoreinstein/vaultconfig/internal/paths"
	"github.com/thoreinstein/vaultconfig/internal/schema"
	"github.com/thoreinstein/vaultconfig/pkg/fileutil"
)

// Sentinel errors for manager operations.
var (
	// ErrNotFound indicates the named config does not exist.
	ErrNotFound = errors.New("config not found")

	// ErrExists indicates the named config already exists.
	ErrExists = errors.New("config already exists")

	// ErrEmptyName indicates an empty config name.
	ErrEmptyName = errors.New("config name cannot be empty")

	// ErrEncryption indicates a re-encryption pass over the store failed.
	ErrEncryption = errors.New("encryption failed")
)

// Manager owns a directory of config entries: one file per entry, all in
// the same format and, when a password is held, all encrypted under it.
//
// A Manager assumes exclusive access to its directory for the process
// lifetime. There is no cross-process locking; a concurrent external
// writer to the same directory makes the last writer per file win.
type Manager struct {
	dir     string
	handler format.Handler
	schema  *schema.Schema
	source  *crypt.PasswordSource
	logger  *slog.Logger

	password    string
	hasPassword bool

	entries map[string]*Entry
}

// Option configures a Manager.
type Option func(*Manager)

// WithSchema sets the schema used to validate entries and to identify
// sensitive fields.
func WithSchema(s *schema.Schema) Option {
	return func(m *Manager) {
		m.schema = s
	}
}

// WithPassword sets the encryption password. All writes are encrypted
// under it, and encrypted files are decrypted with it on load.
func WithPassword(password string) Option {
	return func(m *Manager) {
		m.password = password
		m.hasPassword = password != ""
	}
}

// WithPasswordSource replaces the password resolution used when an
// encrypted file is encountered and no password is held yet.
func WithPasswordSource(source *crypt.PasswordSource) Option {
	return func(m *Manager) {
		m.source = source
	}
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// New creates a Manager over dir using the named format and eagerly loads
// every matching file. A file that fails to load is logged and skipped,
// never fatal: one corrupt entry must not block access to the rest.
func New(dir, formatName string, opts ...Option) (*Manager, error) {
	handler, err := format.Get(formatName)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		dir:     paths.ExpandHome(dir),
		handler: handler,
		source:  crypt.DefaultSource(),
		logger:  logging.Default(),
		entries: map[string]*Entry{},
	}
	for _, opt := range opts {
		opt(m)
	}

	m.loadAll()
	return m, nil
}

// Dir returns the store directory.
func (m *Manager) Dir() string { return m.dir }

// Format returns the store's format name.
func (m *Manager) Format() string { return m.handler.Name() }

// ConfigPath returns the backing file path for a config name.
func (m *Manager) ConfigPath(name string) string {
	return filepath.Join(m.dir, name+m.handler.Extension())
}

// ListConfigs returns all loaded config names in lexical order.
func (m *Manager) ListConfigs() []string {
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetConfig returns the named entry, or ErrNotFound.
func (m *Manager) GetConfig(name string) (*Entry, error) {
	entry, ok := m.entries[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return entry, nil
}

// HasConfig reports whether the named config is loaded.
func (m *Manager) HasConfig(name string) bool {
	_, ok := m.entries[name]
	return ok
}

// AddConfig adds or fully replaces a config. The data is validated against
// the schema when one is set. With obscurePasswords (the default for every
// CLI path), each schema-sensitive field holding a plain string is
// obscured in place; already-obscured values are left alone, so the
// operation never double-obscures. The in-memory entry is updated only
// after the backing file has been written, so a failed write leaves memory
// and disk consistent.
func (m *Manager) AddConfig(name string, data map[string]any, obscurePasswords bool) error {
	if name == "" {
		return ErrEmptyName
	}

	var sensitiveFields []string
	if m.schema != nil {
		validated, err := m.schema.Validate(data)
		if err != nil {
			return err
		}
		data = validated
		sensitiveFields = m.schema.SensitiveFields()
	} else {
		data = DeepCopy(data)
	}

	if obscurePasswords {
		for _, field := range sensitiveFields {
			value, ok := Lookup(data, field)
			if !ok {
				continue
			}
			s, isString := value.(string)
			if !isString || obscure.IsObscured(s) {
				continue
			}
			obscured, err := obscure.Obscure(s)
			if err != nil {
				return errors.Wrapf(err, "obscuring field %q", field)
			}
			Set(data, field, obscured)
		}
	}

	entry := NewEntry(name, data, sensitiveFields)
	if err := m.saveEntry(entry); err != nil {
		return err
	}

	m.entries[name] = entry
	m.logger.Debug("added config", "name", name)
	return nil
}

// RemoveConfig deletes the named config's backing file and drops the
// in-memory entry. It reports whether the name previously existed; absence
// is not an error.
func (m *Manager) RemoveConfig(name string) (bool, error) {
	if _, ok := m.entries[name]; !ok {
		return false, nil
	}

	if err := os.Remove(m.ConfigPath(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, errors.Wrapf(err, "removing config %q", name)
	}

	delete(m.entries, name)
	m.logger.Debug("removed config", "name", name)
	return true, nil
}

// SetEncryptionPassword sets or changes the encryption password and
// rewrites every entry under it.
//
// The rewrite is not transactional: there is no multi-file transaction, so
// when re-encryption fails partway, entries already rewritten remain on
// disk under the new password while the rest keep the old one. The manager
// rolls its in-memory password back to the previous value and surfaces the
// failure, leaving the caller to retry; the on-disk inconsistency window
// is accepted and documented rather than hidden.
func (m *Manager) SetEncryptionPassword(password string) error {
	if password == "" {
		return crypt.ErrEmptyPassword
	}

	oldPassword, oldHas := m.password, m.hasPassword
	m.password, m.hasPassword = password, true

	for _, name := range m.ListConfigs() {
		if err := m.saveEntry(m.entries[name]); err != nil {
			m.password, m.hasPassword = oldPassword, oldHas
			return errors.Wrapf(ErrEncryption, "re-encrypting config %q: %v", name, err)
		}
	}

	m.logger.Info("updated encryption password for all configs")
	return nil
}

// RemoveEncryption clears the password and rewrites every entry in
// plaintext.
func (m *Manager) RemoveEncryption() error {
	m.password, m.hasPassword = "", false

	for _, name := range m.ListConfigs() {
		if err := m.saveEntry(m.entries[name]); err != nil {
			return errors.Wrapf(err, "rewriting config %q", name)
		}
	}

	m.logger.Info("removed encryption from all configs")
	return nil
}

// IsEncrypted reports the configured intent: whether the manager holds a
// password. It does not re-probe files on disk.
func (m *Manager) IsEncrypted() bool {
	return m.hasPassword
}

// loadAll loads every file in the store directory matching the format's
// extension. Individual failures are logged and skipped.
func (m *Manager) loadAll() {
	dirEntries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Debug("config directory not found", "dir", m.dir)
			return
		}
		m.logger.Error("failed to read config directory", "dir", m.dir, "error", err)
		return
	}

	ext := m.handler.Extension()
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ext) {
			continue
		}
		name := strings.TrimSuffix(de.Name(), ext)
		if err := m.loadEntry(name); err != nil {
			m.logger.Error("failed to load config", "name", name, "error", err)
		}
	}
}

// loadEntry reads, decrypts, parses, and validates one backing file.
func (m *Manager) loadEntry(name string) error {
	data, err := fileutil.ReadFileWithLimit(m.ConfigPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(ErrNotFound, "%q", name)
		}
		return err
	}

	if crypt.IsEncrypted(data) {
		if !m.hasPassword {
			password, err := m.source.Get("Config password: ", false)
			if err != nil {
				return err
			}
			m.password, m.hasPassword = password, true
		}
		data, err = crypt.Decrypt(data, m.password)
		if err != nil {
			return err
		}
	}

	parsed, err := m.handler.Load(string(data))
	if err != nil {
		return err
	}

	var sensitiveFields []string
	if m.schema != nil {
		parsed, err = m.schema.Validate(parsed)
		if err != nil {
			return err
		}
		sensitiveFields = m.schema.SensitiveFields()
	}

	m.entries[name] = NewEntry(name, parsed, sensitiveFields)
	m.logger.Debug("loaded config", "name", name)
	return nil
}

// saveEntry serializes an entry, encrypts it when a password is held, and
// writes the backing file with owner-only permissions.
func (m *Manager) saveEntry(entry *Entry) error {
	if err := paths.EnsureDir(m.dir, 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	text, err := m.handler.Dump(entry.data)
	if err != nil {
		return err
	}

	blob := []byte(text)
	if m.hasPassword {
		blob, err = crypt.Encrypt(blob, m.password)
		if err != nil {
			return err
		}
	}

	path := m.ConfigPath(entry.name)
	if err := fileutil.AtomicWriteFile(path, blob, paths.SecureFilePerm); err != nil {
		return errors.Wrapf(err, "writing config %q", entry.name)
	}
	return nil
}
