// Package sealkit signs and encrypts serialized messages so they can cross
// untrusted boundaries — cookies, URLs, job queues, hidden form fields —
// and be read back with their integrity guaranteed.
//
// Two primitives are provided:
//
//   - [Verifier] signs a value with a keyed MAC and verifies it on read.
//     The value is visible to anyone holding the token; it just cannot be
//     altered.
//   - [Encryptor] encrypts a value under a symmetric key and, for cipher
//     modes without built-in authentication, signs the ciphertext with an
//     inner [Verifier]. The value is both hidden and tamper-proof.
//
// Basic usage:
//
//	verifier, err := sealkit.NewVerifier([]byte("a long random secret"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	token, err := verifier.Generate(map[string]int{"user": 42},
//	    sealkit.WithPurpose("login"),
//	    sealkit.WithExpiresIn(time.Hour))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var claims map[string]int
//	if err := verifier.Verify(token, &claims, sealkit.ForPurpose("login")); err != nil {
//	    // token was forged, expired, or issued for another purpose
//	}
//
// Encryption works the same way with a fixed-length key:
//
//	enc, err := sealkit.NewEncryptor(key) // 32 bytes for AES-256-GCM
//	token, err := enc.EncryptAndSign("s3cr3t payload")
//	var out string
//	err = enc.DecryptAndVerify(token, &out)
//
// # Failure semantics
//
// The strict APIs ([Verifier.Verify], [Encryptor.DecryptAndVerify]) report
// every failure — malformed envelope, MAC or tag mismatch, decode or
// deserialization error, wrong purpose, expiry — as the single sentinel
// [ErrInvalidSignature] or [ErrInvalidMessage]. The underlying cause is
// never surfaced, so a caller cannot be turned into a verification oracle.
// The soft API [Verifier.Verified] collapses failure to false. No partial
// result is returned on failure; the destination must not be read.
//
// # Concurrency
//
// Verifier and Encryptor are immutable after construction and safe for
// concurrent use. Every call works on local buffers; IVs are drawn fresh
// from the OS CSPRNG on each encryption.
//
// # Secrets
//
// Secrets and keys are held by the instance and never logged or embedded
// in output. HMAC secrets may be of any non-zero length. Encryption keys
// must match the cipher's key size exactly unless a [KeyDerivation] is
// configured, in which case the key material is stretched once at
// construction and cached.
package sealkit
