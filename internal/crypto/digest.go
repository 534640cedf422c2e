package crypto

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"
)

// DigestAlg identifies a keyed digest algorithm for message authentication.
type DigestAlg string

const (
	// DigestSHA1 is HMAC-SHA1. Retained for verifying legacy tokens only;
	// do not select it for new deployments.
	DigestSHA1 DigestAlg = "sha1"
	// DigestSHA256 is HMAC-SHA256, the default.
	DigestSHA256 DigestAlg = "sha256"
	// DigestSHA384 is HMAC-SHA384.
	DigestSHA384 DigestAlg = "sha384"
	// DigestSHA512 is HMAC-SHA512.
	DigestSHA512 DigestAlg = "sha512"
	// DigestBLAKE3 is BLAKE3 in keyed mode.
	DigestBLAKE3 DigestAlg = "blake3"
)

// MACSize returns the digest length in bytes produced by alg.
func MACSize(alg DigestAlg) (int, error) {
	switch alg {
	case DigestSHA1:
		return sha1.Size, nil
	case DigestSHA256, DigestBLAKE3:
		return sha256.Size, nil
	case DigestSHA384:
		return sha512.Size384, nil
	case DigestSHA512:
		return sha512.Size, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDigest, alg)
	}
}

// NewMAC returns a keyed hash computing alg over secret. The secret may be
// of any non-zero length.
func NewMAC(alg DigestAlg, secret []byte) (hash.Hash, error) {
	switch alg {
	case DigestSHA1:
		return hmac.New(sha1.New, secret), nil
	case DigestSHA256:
		return hmac.New(sha256.New, secret), nil
	case DigestSHA384:
		return hmac.New(sha512.New384, secret), nil
	case DigestSHA512:
		return hmac.New(sha512.New, secret), nil
	case DigestBLAKE3:
		// Keyed BLAKE3 requires an exactly 32-byte key; compress the
		// secret through BLAKE3's derive-key mode first.
		key := make([]byte, 32)
		blake3.DeriveKey(blake3KeyContext, secret, key)
		return blake3.NewKeyed(key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDigest, alg)
	}
}

// Sum computes the alg MAC of data under secret.
func Sum(alg DigestAlg, secret, data []byte) ([]byte, error) {
	h, err := NewMAC(alg, secret)
	if err != nil {
		return nil, err
	}
	h.Write(data)
	return h.Sum(nil), nil
}

// Equal compares two MACs in constant time. It does not short-circuit on
// the first differing byte.
func Equal(a, b []byte) bool {
	return hmac.Equal(a, b)
}
