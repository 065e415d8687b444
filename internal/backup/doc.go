// Package backup takes and restores snapshots of a config store.
//
// A snapshot copies every file in the store directory into a
// timestamped directory under the store's ".snapshots" subdirectory,
// together with a manifest.json recording a SHA256 hash and the
// permission bits per file. Restores verify hashes before writing
// anything back, and retention pruning keeps the snapshot history
// bounded.
//
// Snapshots copy files byte for byte, so an encrypted store yields
// encrypted snapshots and no plaintext ever lands in the snapshot
// directory.
package backup
