package sealkit

import (
	"github.com/rs/zerolog"

	"github.com/sealkit/sealkit/internal/codec"
	"github.com/sealkit/sealkit/internal/crypto"
)

// Cipher selects the symmetric algorithm used by an [Encryptor].
type Cipher string

const (
	// AES256GCM is AES-256-GCM, an AEAD cipher with a 32-byte key. The
	// default.
	AES256GCM Cipher = "aes-256-gcm"
	// AES256CBC is AES-256-CBC with a 32-byte key. CBC provides no
	// integrity, so the Encryptor signs the ciphertext envelope with an
	// inner [Verifier].
	AES256CBC Cipher = "aes-256-cbc"
	// XChaCha20Poly1305 is XChaCha20-Poly1305, an AEAD cipher with a
	// 32-byte key and extended nonce.
	XChaCha20Poly1305 Cipher = "xchacha20-poly1305"
	// Ascon128 is Ascon-128, a lightweight AEAD cipher with a 16-byte key.
	Ascon128 Cipher = "ascon-128"
)

func (c Cipher) suite() crypto.Suite {
	return crypto.Suite(c)
}

// Digest selects the keyed-hash algorithm used for MACs.
type Digest string

const (
	// SHA1 is HMAC-SHA1. Verify-only legacy; do not issue new tokens with it.
	SHA1 Digest = "sha1"
	// SHA256 is HMAC-SHA256, the default.
	SHA256 Digest = "sha256"
	// SHA384 is HMAC-SHA384.
	SHA384 Digest = "sha384"
	// SHA512 is HMAC-SHA512.
	SHA512 Digest = "sha512"
	// BLAKE3 is keyed BLAKE3.
	BLAKE3 Digest = "blake3"
)

func (d Digest) alg() crypto.DigestAlg {
	return crypto.DigestAlg(d)
}

// KDFFunction names a key derivation function.
type KDFFunction string

const (
	// KDFPBKDF2 is PBKDF2-HMAC-SHA256.
	KDFPBKDF2 KDFFunction = "pbkdf2"
	// KDFHKDF is HKDF-SHA-512.
	KDFHKDF KDFFunction = "hkdf"
	// KDFArgon2id is Argon2id with OWASP parameters.
	KDFArgon2id KDFFunction = "argon2id"
)

// KeyDerivation configures how an [Encryptor] stretches arbitrary-length
// secrets to the cipher's key size. Without it, the secret must already be
// exactly the right length. Derivation runs once at construction; the
// derived keys are cached in the instance.
type KeyDerivation struct {
	// Function selects the KDF.
	Function KDFFunction
	// Salt overrides the default salt. It is combined with a per-use
	// label ("encryption" for the cipher key, "signing" for the inner MAC
	// secret) so the two derived keys never coincide.
	Salt []byte
	// Iterations applies to PBKDF2 only; zero selects the default (65536).
	Iterations int
}

// Rotation is a fallback configuration tried in order when verification or
// decryption with the primary fails, enabling zero-downtime secret
// rotation. Generation always uses the primary configuration only.
//
// Zero-valued fields inherit the primary configuration, so rotating only a
// secret needs nothing but Secret.
type Rotation struct {
	// Secret is the fallback secret (Verifier) or key material (Encryptor).
	Secret []byte
	// Digest overrides the MAC algorithm for this fallback.
	Digest Digest
	// Cipher overrides the cipher suite for this fallback (Encryptor only).
	Cipher Cipher
	// Serializer overrides the serializer for this fallback.
	Serializer Serializer
	// KeyDerivation overrides key derivation for this fallback
	// (Encryptor only).
	KeyDerivation *KeyDerivation
}

// config is the shared configuration assembled by options. Verifier
// construction ignores the cipher- and derivation-specific fields it has
// no use for.
type config struct {
	cipher        Cipher
	digest        Digest
	serializer    Serializer
	encoding      codec.Encoding
	logger        zerolog.Logger
	derivation    *KeyDerivation
	signingSecret []byte
	rotations     []Rotation
}

func newConfig(opts []Option) *config {
	cfg := &config{
		cipher:     AES256GCM,
		digest:     SHA256,
		serializer: JSONSerializer{},
		encoding:   codec.Standard,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures a [Verifier] or [Encryptor] at construction.
type Option func(*config)

// WithCipher selects the cipher suite. Encryptor only.
func WithCipher(c Cipher) Option {
	return func(cfg *config) {
		cfg.cipher = c
	}
}

// WithDigest selects the MAC algorithm — for a Verifier's signatures, and
// for the inner signature of a non-AEAD Encryptor.
func WithDigest(d Digest) Option {
	return func(cfg *config) {
		cfg.digest = d
	}
}

// WithSerializer selects the serializer strategy. Default: [JSONSerializer].
func WithSerializer(s Serializer) Option {
	return func(cfg *config) {
		cfg.serializer = s
	}
}

// WithURLSafe switches the codec to the URL-safe alphabet, so generated
// tokens never need percent-encoding in URL components.
func WithURLSafe() Option {
	return func(cfg *config) {
		cfg.encoding = codec.URLSafe
	}
}

// WithLogger attaches a logger for diagnostic emission: coarse-grained
// events on generation and on verification failure. Secrets, keys, and
// payloads are never logged. Default: a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithKeyDerivation enables stretching of arbitrary-length secrets to the
// cipher's key size. Encryptor only; Verifier MACs accept any secret
// length directly.
func WithKeyDerivation(kd KeyDerivation) Option {
	return func(cfg *config) {
		cfg.derivation = &kd
	}
}

// WithSigningSecret sets a separate secret for the inner signature of a
// non-AEAD Encryptor. Default: the encryption key bytes (or, with key
// derivation, a separately derived signing key).
func WithSigningSecret(secret []byte) Option {
	return func(cfg *config) {
		cfg.signingSecret = secret
	}
}

// WithRotation appends a fallback configuration tried on verification or
// decryption failure. May be given multiple times; fallbacks are tried in
// the order supplied.
func WithRotation(r Rotation) Option {
	return func(cfg *config) {
		cfg.rotations = append(cfg.rotations, r)
	}
}
