// Package vault manages a directory of named configuration entries.
//
// Each entry is one file, all entries share a serialization format, and
// the whole store can be encrypted under a single password. Sensitive
// fields within an entry are obscured on disk and revealed on read.
package vault
