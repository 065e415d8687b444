// Package crypt provides authenticated whole-file encryption for config
// entries using the NaCl secretbox construction (XSalsa20 + Poly1305).
//
// The on-disk envelope is a versioned header line followed by the base64
// encoded sealed payload (24-byte nonce, ciphertext, 16-byte MAC). The key
// is derived from a user password with a single salted SHA-256; brute-force
// hardening is explicitly out of scope, and a lost password means lost data.
package crypt

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// Header is the exact version marker on the first line of an encrypted
	// file. The trailing colon is part of the marker. Changing this breaks
	// compatibility with existing stores.
	Header = "VAULTCONFIG_ENCRYPT_V0:"

	// headerPrefix identifies any vaultconfig encryption header regardless
	// of version.
	headerPrefix = "VAULTCONFIG_ENCRYPT_"

	// passwordSalt is mixed into the key derivation hash.
	passwordSalt = "[vaultconfig-secure]"

	// NonceSize is the secretbox nonce length in bytes.
	NonceSize = 24

	// Overhead is the length of the authentication tag appended by
	// secretbox.Seal.
	Overhead = secretbox.Overhead
)

// The decrypt path distinguishes five error kinds so callers can branch on
// "wrong password" separately from every flavor of malformed input.
var (
	// ErrEmptyPassword indicates an empty password was supplied.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrNotEncrypted indicates data without an encryption header.
	ErrNotEncrypted = errors.New("data is not encrypted (missing encryption header)")

	// ErrUnsupportedVersion indicates an encryption header from an unknown
	// format version.
	ErrUnsupportedVersion = errors.New("unsupported encryption version")

	// ErrNoPayload indicates a header with no payload line after it.
	ErrNoPayload = errors.New("no encrypted payload found after header")

	// ErrDecodePayload indicates a payload that is not valid base64 or is
	// too short to contain a nonce and tag.
	ErrDecodePayload = errors.New("invalid encrypted payload encoding")

	// ErrInvalidPassword indicates authentication failure: wrong password
	// or corrupted ciphertext.
	ErrInvalidPassword = errors.New("invalid password or corrupted data")
)

// DeriveKey derives the 32-byte secretbox key from a password.
// An empty password is rejected before derivation.
func DeriveKey(password string) ([32]byte, error) {
	if password == "" {
		return [32]byte{}, ErrEmptyPassword
	}
	return sha256.Sum256([]byte("[" + password + "]" + passwordSalt)), nil
}

// Encrypt seals plaintext under the given password and returns the complete
// envelope: header line, newline, base64(nonce || ciphertext || MAC), newline.
// A fresh random nonce is generated for every call.
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	key, err := DeriveKey(password)
	if err != nil {
		return nil, err
	}

	var nonce [NonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, errors.Wrap(err, "generating nonce")
	}

	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, &key)

	var buf bytes.Buffer
	buf.Grow(len(Header) + 2 + base64.StdEncoding.EncodedLen(len(sealed)))
	buf.WriteString(Header)
	buf.WriteByte('\n')
	buf.WriteString(base64.StdEncoding.EncodeToString(sealed))
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decrypt opens an envelope produced by Encrypt. Blank lines around the
// header and payload are tolerated. The error reports exactly which way the
// input is unusable:
//
//   - ErrNotEncrypted: no data, or the first line carries no encryption header
//   - ErrUnsupportedVersion: a header from a different format version
//     (the message contains the version found)
//   - ErrNoPayload: a header with nothing after it
//   - ErrDecodePayload: a payload that does not decode
//   - ErrInvalidPassword: authentication failure (wrong password or
//     corrupted data)
func Decrypt(blob []byte, password string) ([]byte, error) {
	lines := nonBlankLines(blob)
	if len(lines) == 0 {
		return nil, errors.Wrap(ErrNotEncrypted, "empty data")
	}

	if !strings.HasPrefix(lines[0], headerPrefix) {
		return nil, ErrNotEncrypted
	}
	if lines[0] != Header {
		version, _, _ := strings.Cut(lines[0], ":")
		return nil, errors.Wrapf(ErrUnsupportedVersion, "%s (expected %s)", version, strings.TrimSuffix(Header, ":"))
	}

	if len(lines) < 2 {
		return nil, ErrNoPayload
	}

	sealed, err := base64.StdEncoding.DecodeString(lines[1])
	if err != nil {
		return nil, errors.Wrapf(ErrDecodePayload, "base64: %v", err)
	}
	if len(sealed) < NonceSize+Overhead {
		return nil, errors.Wrap(ErrDecodePayload, "payload too short")
	}

	key, err := DeriveKey(password)
	if err != nil {
		return nil, err
	}

	var nonce [NonceSize]byte
	copy(nonce[:], sealed[:NonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[NonceSize:], &nonce, &key)
	if !ok {
		return nil, ErrInvalidPassword
	}
	return plaintext, nil
}

// IsEncrypted reports whether data carries the current encryption header.
// A header from another version does not count; callers probing with
// IsEncrypted treat such data as not encrypted, and Decrypt reports the
// version mismatch explicitly.
func IsEncrypted(data []byte) bool {
	lines := nonBlankLines(data)
	return len(lines) > 0 && lines[0] == Header
}

// nonBlankLines splits data into trimmed, non-empty lines.
func nonBlankLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
