package sealkit

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sealkit/sealkit/internal/codec"
	"github.com/sealkit/sealkit/internal/crypto"
)

// Encryptor encrypts serialized values under a symmetric key and verifies
// and decrypts them on read. AEAD suites produce a three-segment token
//
//	<base64(ciphertext)>--<base64(iv)>--<base64(tag)>
//
// whose tag authenticates everything, metadata included. Non-AEAD suites
// (AES-256-CBC) provide no integrity on their own, so the two-segment
// inner envelope is signed by an internal [Verifier] under a secondary
// secret — without the outer MAC an attacker could flip ciphertext bits
// undetected:
//
//	<base64(base64(ciphertext)--base64(iv))>--<hex(mac)>
//
// An Encryptor is immutable after construction and safe for concurrent
// use. Each encryption draws a fresh random IV from the OS CSPRNG.
type Encryptor struct {
	cipher    Cipher
	info      crypto.SuiteInfo
	secret    []byte // as supplied, before any derivation
	key       []byte
	ser       Serializer
	enc       codec.Encoding
	log       zerolog.Logger
	signer    *Verifier // non-AEAD suites only
	fallbacks []*Encryptor
}

// NewEncryptor constructs an Encryptor. Without a [KeyDerivation] the key
// must be exactly the cipher's key size (32 bytes for the default
// AES-256-GCM); a mismatch fails here, at construction, with an error
// wrapping [ErrConfiguration] — it is never silently stretched. With key
// derivation configured, arbitrary-length secrets are accepted and the
// cipher and signing keys are derived once and cached.
func NewEncryptor(key []byte, opts ...Option) (*Encryptor, error) {
	cfg := newConfig(opts)

	e, err := buildEncryptor(key, cfg.cipher, cfg.digest, cfg.serializer, cfg.encoding, cfg.derivation, cfg.signingSecret, cfg.logger)
	if err != nil {
		return nil, err
	}
	for _, r := range cfg.rotations {
		fb, err := e.fallbackFor(r, cfg)
		if err != nil {
			return nil, err
		}
		e.fallbacks = append(e.fallbacks, fb)
	}
	return e, nil
}

func buildEncryptor(secret []byte, cipher Cipher, digest Digest, ser Serializer, enc codec.Encoding, kd *KeyDerivation, signingSecret []byte, log zerolog.Logger) (*Encryptor, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, ErrMissingSecret)
	}
	info, err := crypto.Info(cipher.suite())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	key := secret
	if kd != nil {
		if key, err = deriveKey(kd, secret, "encryption", info.KeySize); err != nil {
			return nil, err
		}
	} else if len(secret) != info.KeySize {
		return nil, fmt.Errorf("%w: %w: cipher %s requires %d bytes, got %d",
			ErrConfiguration, ErrInvalidKeySize, cipher, info.KeySize, len(secret))
	}

	e := &Encryptor{
		cipher: cipher,
		info:   info,
		secret: secret,
		key:    key,
		ser:    ser,
		enc:    enc,
		log:    log,
	}

	if !info.AEAD {
		signSecret := signingSecret
		if len(signSecret) == 0 {
			if kd != nil {
				if signSecret, err = deriveKey(kd, secret, "signing", info.KeySize); err != nil {
					return nil, err
				}
			} else {
				signSecret = key
			}
		}
		// The inner signer sees the envelope as opaque bytes; payload
		// serialization and metadata live inside the encryption.
		e.signer, err = buildVerifier(signSecret, digest, NullSerializer{}, enc, zerolog.Nop())
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func deriveKey(kd *KeyDerivation, secret []byte, label string, size int) ([]byte, error) {
	salt := []byte("sealkit." + label)
	if len(kd.Salt) > 0 {
		salt = append(append([]byte{}, kd.Salt...), []byte("/"+label)...)
	}
	switch kd.Function {
	case KDFPBKDF2:
		return crypto.PBKDF2Key(secret, salt, kd.Iterations, size), nil
	case KDFHKDF:
		return crypto.HKDFKey(secret, salt, []byte("sealkit."+label), size)
	case KDFArgon2id:
		return crypto.Argon2idKey(secret, salt, uint32(size)), nil
	default:
		return nil, fmt.Errorf("%w: unknown key derivation function %q", ErrConfiguration, kd.Function)
	}
}

// fallbackFor resolves a Rotation against the receiver's configuration.
func (e *Encryptor) fallbackFor(r Rotation, cfg *config) (*Encryptor, error) {
	secret := r.Secret
	if len(secret) == 0 {
		secret = e.secret
	}
	cipher := r.Cipher
	if cipher == "" {
		cipher = e.cipher
	}
	digest := r.Digest
	if digest == "" {
		digest = cfg.digest
	}
	ser := r.Serializer
	if ser == nil {
		ser = e.ser
	}
	kd := r.KeyDerivation
	if kd == nil {
		kd = cfg.derivation
	}
	return buildEncryptor(secret, cipher, digest, ser, e.enc, kd, cfg.signingSecret, e.log)
}

// EncryptAndSign serializes value, encrypts it under a fresh IV, and
// returns the text token. Purpose and expiry claims are embedded in the
// plaintext before encryption, so they are covered by the authentication
// tag (or the outer MAC for non-AEAD suites).
func (e *Encryptor) EncryptAndSign(value any, opts ...ClaimOption) (string, error) {
	data, err := dumpPayload(e.ser, value, applyClaims(opts), time.Now())
	if err != nil {
		return "", err
	}

	iv, err := crypto.RandomIV(e.info.IVSize)
	if err != nil {
		return "", err
	}
	ciphertext, tag, err := crypto.Seal(e.cipher.suite(), e.key, iv, data)
	if err != nil {
		return "", err
	}

	e.log.Debug().
		Int("payload_bytes", len(data)).
		Str("cipher", string(e.cipher)).
		Msg("encrypted message")

	if e.info.AEAD {
		return e.enc.Encode(ciphertext) + delimiter + e.enc.Encode(iv) + delimiter + e.enc.Encode(tag), nil
	}
	inner := e.enc.Encode(ciphertext) + delimiter + e.enc.Encode(iv)
	return e.signer.sign([]byte(inner))
}

// DecryptAndVerify checks token, decrypts it, and deserializes the value
// into dest, which must be a non-nil pointer (a nil dest checks validity
// only). Any failure — bad envelope shape, MAC or authentication-tag
// mismatch, decode or deserialization failure, purpose mismatch, expiry —
// is reported as the bare [ErrInvalidMessage]; the cause is never exposed,
// and no plaintext is observable on an authentication failure.
//
// The envelope shape is dispatched on the configured mode: AEAD suites
// require the three-segment form, non-AEAD the signed two-segment form.
// Rotation fallbacks are tried in order after the primary fails.
func (e *Encryptor) DecryptAndVerify(token string, dest any, opts ...VerifyOption) error {
	vo := applyVerifyOptions(opts)
	now := time.Now()

	err := e.decryptToken(token, dest, vo.purpose, now)
	if err == nil {
		return nil
	}
	for _, fb := range e.fallbacks {
		if fbErr := fb.decryptToken(token, dest, vo.purpose, now); fbErr == nil {
			return nil
		}
	}

	e.log.Warn().
		Str("reason", failureReason(err)).
		Msg("message decryption failed")
	return ErrInvalidMessage
}

func (e *Encryptor) decryptToken(token string, dest any, purpose string, now time.Time) error {
	data, err := e.openToken(token)
	if err != nil {
		return err
	}
	return loadPayload(e.ser, data, dest, purpose, now)
}

// openToken authenticates the envelope and returns the plaintext bytes.
func (e *Encryptor) openToken(token string) ([]byte, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", errStructure)
	}

	var ciphertext, iv, tag []byte
	if e.info.AEAD {
		ctSeg, ivSeg, tagSeg, err := e.splitAEAD(token)
		if err != nil {
			return nil, err
		}
		if ciphertext, err = e.enc.Decode(ctSeg); err != nil {
			return nil, fmt.Errorf("%w: %v", errStructure, err)
		}
		if iv, err = e.enc.Decode(ivSeg); err != nil {
			return nil, fmt.Errorf("%w: %v", errStructure, err)
		}
		if tag, err = e.enc.Decode(tagSeg); err != nil {
			return nil, fmt.Errorf("%w: %v", errStructure, err)
		}
	} else {
		// Outer signature first: the inner envelope is untrusted until
		// the MAC over it checks out.
		var inner []byte
		if err := e.signer.verifyToken(token, &inner, "", time.Time{}); err != nil {
			return nil, err
		}
		ctSeg, ivSeg, err := e.splitInner(string(inner))
		if err != nil {
			return nil, err
		}
		if ciphertext, err = e.enc.Decode(ctSeg); err != nil {
			return nil, fmt.Errorf("%w: %v", errStructure, err)
		}
		if iv, err = e.enc.Decode(ivSeg); err != nil {
			return nil, fmt.Errorf("%w: %v", errStructure, err)
		}
	}

	plaintext, err := crypto.Open(e.cipher.suite(), e.key, iv, ciphertext, tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errCrypto, err)
	}
	return plaintext, nil
}

// splitAEAD parses <ct>--<iv>--<tag>. The IV and tag have fixed encoded
// lengths, so the token is parsed from the right by position rather than
// by splitting on the delimiter — URL-safe ciphertext may itself contain
// "--".
func (e *Encryptor) splitAEAD(token string) (ct, iv, tag string, err error) {
	ivChars := e.enc.EncodedLen(e.info.IVSize)
	tagChars := e.enc.EncodedLen(e.info.TagSize)

	tagStart := len(token) - tagChars
	ivStart := tagStart - len(delimiter) - ivChars
	ctEnd := ivStart - len(delimiter)
	if ctEnd < 0 {
		return "", "", "", fmt.Errorf("%w: envelope too short", errStructure)
	}
	if token[ctEnd:ivStart] != delimiter || token[ivStart+ivChars:tagStart] != delimiter {
		return "", "", "", fmt.Errorf("%w: malformed envelope", errStructure)
	}
	return token[:ctEnd], token[ivStart : ivStart+ivChars], token[tagStart:], nil
}

// splitInner parses the signed inner envelope <ct>--<iv> of a non-AEAD
// token.
func (e *Encryptor) splitInner(inner string) (ct, iv string, err error) {
	ivChars := e.enc.EncodedLen(e.info.IVSize)
	ctEnd := len(inner) - ivChars - len(delimiter)
	if ctEnd <= 0 || !strings.HasPrefix(inner[ctEnd:], delimiter) {
		return "", "", fmt.Errorf("%w: malformed inner envelope", errStructure)
	}
	return inner[:ctEnd], inner[ctEnd+len(delimiter):], nil
}
