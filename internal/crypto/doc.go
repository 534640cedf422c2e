// Package crypto provides the symmetric primitives behind sealkit's message
// signing and encryption: cipher suites, keyed message digests, key
// derivation functions, and PKCS#7 padding.
//
// # Cipher suites
//
//   - AES-256-GCM: AEAD, 32-byte key, 12-byte nonce, 16-byte tag. The
//     default suite.
//   - AES-256-CBC: non-AEAD, 32-byte key, 16-byte IV, PKCS#7 padding.
//     Provides no integrity on its own; callers must authenticate the
//     ciphertext with an outer MAC before decrypting.
//   - XChaCha20-Poly1305: AEAD, 32-byte key, 24-byte nonce (RFC 8439
//     extended-nonce variant).
//   - Ascon-128: AEAD, 16-byte key, 16-byte nonce (NIST lightweight
//     cryptography winner).
//
// # Keyed digests
//
// HMAC over SHA-1 (legacy), SHA-256, SHA-384, and SHA-512, plus BLAKE3 in
// keyed mode. BLAKE3's keyed mode requires an exactly 32-byte key, so
// arbitrary-length secrets are first compressed with BLAKE3's own
// derive-key mode under a fixed context string.
//
// # Security notes
//
// MAC comparison must use [Equal]; its execution time does not depend on
// where the inputs first differ. AEAD open is atomic: on tag mismatch no
// plaintext is returned. IVs must be fresh per encryption; use [RandomIV],
// which draws from the OS CSPRNG.
package crypto
