package sealkit

import (
	"errors"

	"github.com/sealkit/sealkit/internal/codec"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrInvalidSignature is returned by [Verifier.Verify] on any
	// verification failure: malformed envelope, MAC mismatch, decode or
	// deserialization failure, purpose mismatch, or expiry. The specific
	// cause is deliberately not exposed.
	ErrInvalidSignature = errors.New("signature verification failed")

	// ErrInvalidMessage is returned by [Encryptor.DecryptAndVerify] on any
	// decryption failure: bad envelope shape, MAC or authentication-tag
	// mismatch, decode or deserialization failure, purpose mismatch, or
	// expiry. The specific cause is deliberately not exposed.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrConfiguration is returned at construction time for unusable
	// configuration: missing secret, wrong key length, unknown cipher,
	// digest, or derivation function.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrMissingSecret is returned, wrapped in ErrConfiguration, when the
	// secret or key is nil or empty.
	ErrMissingSecret = errors.New("secret is required")

	// ErrInvalidKeySize is returned, wrapped in ErrConfiguration, when an
	// encryption key does not match the cipher's key size and no key
	// derivation is configured.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrSerialization is returned when a value cannot be serialized for
	// signing or encryption, or when payload bytes cannot be deserialized
	// into the destination.
	ErrSerialization = errors.New("serialization failed")

	// ErrDecode is returned when text cannot be decoded under the
	// configured codec alphabet.
	ErrDecode = codec.ErrDecode
)
