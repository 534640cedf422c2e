package crypto

import "errors"

var (
	// ErrInvalidKeySize is returned when a key does not match the size
	// required by the selected cipher suite.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidIVSize is returned when an IV does not match the size
	// required by the selected cipher suite.
	ErrInvalidIVSize = errors.New("invalid iv size")

	// ErrDecryptionFailed is returned when decryption fails. For AEAD
	// suites this covers authentication-tag mismatch; for CBC it covers
	// malformed ciphertext length and bad padding. The cause is
	// deliberately not distinguished.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrUnknownSuite is returned when a cipher suite is not recognized.
	ErrUnknownSuite = errors.New("unknown cipher suite")

	// ErrUnknownDigest is returned when a digest algorithm is not recognized.
	ErrUnknownDigest = errors.New("unknown digest algorithm")
)
