// Package obscure provides reversible obfuscation for individual config
// values.
//
// This is NOT encryption. The cipher key is a fixed constant compiled into
// every installation, so anyone with a copy of vaultconfig can reveal an
// obscured value. Obscuring exists to stop casual shoulder-surfing of
// passwords in config files, screenshots, and logs; for real protection use
// the whole-file encryption in the crypt package.
package obscure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// cipherKey is the fixed 256-bit AES key shared by every installation.
// It deliberately provides obfuscation only, never security, and is not
// configurable: making it so would imply a protection it cannot give.
var cipherKey = []byte{
	0xA7, 0x3B, 0x9F, 0x2C, 0xE1, 0x5D, 0x4A, 0x8E,
	0xB6, 0xF4, 0xC9, 0x7A, 0x3E, 0x91, 0x5C, 0xD2,
	0x8B, 0x4F, 0xA3, 0x6E, 0x1B, 0xC5, 0x7D, 0x9A,
	0x2F, 0xE8, 0x4B, 0xA6, 0x3C, 0xD1, 0x5E, 0x92,
}

// ivSize is the AES block size, used as the length of the random IV
// prepended to every obscured value.
const ivSize = aes.BlockSize

// ErrNotObscured indicates a value that cannot be revealed because it is
// not an obscured value (or is malformed).
var ErrNotObscured = errors.New("value is not obscured or is malformed")

// crypt applies the AES-CTR keystream to data. Encryption and decryption
// are the same operation.
func crypt(data, iv []byte) []byte {
	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		// The key is a compile-time constant of valid length.
		panic(err)
	}
	out := make([]byte, len(data))
	cipher.NewCTR(block, iv).XORKeyStream(out, data)
	return out
}

// Obscure obscures a value using AES-CTR with a random IV. The result is
// base64 (URL-safe, unpadded) of IV followed by ciphertext. The random IV
// makes the output different on every call; only a round trip through
// Reveal is comparable. An empty input yields an empty output.
func Obscure(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	buf := make([]byte, ivSize+len(value))
	iv := buf[:ivSize]
	if _, err := rand.Read(iv); err != nil {
		return "", errors.Wrap(err, "generating IV")
	}

	copy(buf[ivSize:], crypt([]byte(value), iv))
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Reveal decodes an obscured value back to plaintext. It accepts values
// with or without base64 padding. Inputs that are too short to carry an IV
// or that decrypt to invalid UTF-8 fail with ErrNotObscured. An empty input
// yields an empty output.
func Reveal(obscured string) (string, error) {
	if obscured == "" {
		return "", nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(trimPadding(obscured))
	if err != nil {
		return "", errors.Wrapf(ErrNotObscured, "base64 decode: %v", err)
	}

	if len(decoded) < ivSize {
		return "", errors.Wrap(ErrNotObscured, "input too short")
	}

	plaintext := crypt(decoded[ivSize:], decoded[:ivSize])
	if !utf8.Valid(plaintext) {
		return "", errors.Wrap(ErrNotObscured, "decrypted value is not valid UTF-8")
	}

	return string(plaintext), nil
}

// IsObscured reports whether a value appears to be obscured. It attempts a
// Reveal and checks the result for printability.
//
// This is a best-effort heuristic, kept deliberately lenient: a short
// printable string can false-positive, and an obscured non-printable payload
// will false-negative. Callers treat the answer as advisory only.
func IsObscured(value string) bool {
	if value == "" {
		return false
	}
	revealed, err := Reveal(value)
	if err != nil {
		return false
	}
	return isPrintable(revealed)
}

// isPrintable reports whether every rune in s is printable.
func isPrintable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// trimPadding strips trailing '=' so padded and unpadded encodings both
// decode with the raw URL alphabet.
func trimPadding(s string) string {
	for len(s) > 0 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	return s
}
