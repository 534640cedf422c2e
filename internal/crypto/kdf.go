package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// DefaultPBKDF2Iterations is the PBKDF2 iteration count used when the
// caller does not configure one.
const DefaultPBKDF2Iterations = 65536

// PBKDF2Key derives keyLen bytes from secret and salt using
// PBKDF2-HMAC-SHA256. iterations <= 0 selects DefaultPBKDF2Iterations.
func PBKDF2Key(secret, salt []byte, iterations, keyLen int) []byte {
	if iterations <= 0 {
		iterations = DefaultPBKDF2Iterations
	}
	return pbkdf2.Key(secret, salt, iterations, keyLen, sha256.New)
}

// HKDFKey derives keyLen bytes from secret using HKDF-SHA-512. An empty
// salt is replaced with a zero-filled block as RFC 5869 prescribes; info
// provides domain separation between keys derived from the same secret.
func HKDFKey(secret, salt, info []byte, keyLen int) ([]byte, error) {
	if len(salt) == 0 {
		salt = make([]byte, sha512.Size)
	}
	r := hkdf.New(sha512.New, secret, salt, info)
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// Argon2idKey derives keyLen bytes from secret and salt using Argon2id
// with the OWASP-recommended parameters (1 iteration, 64 MiB, 4 threads).
func Argon2idKey(secret, salt []byte, keyLen uint32) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, keyLen)
}
