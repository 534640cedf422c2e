package sealkit

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sealkit/sealkit/internal/codec"
	"github.com/sealkit/sealkit/internal/crypto"
)

// Verifier signs serialized values with a keyed MAC and verifies them on
// read. Tokens have the shape
//
//	<base64(payload)>--<hex(mac)>
//
// where the MAC covers the encoded payload text, so every byte that
// influences the deserialized value — including embedded purpose and
// expiry metadata — is authenticated.
//
// A Verifier is immutable after construction and safe for concurrent use.
type Verifier struct {
	secret    []byte
	digest    Digest
	macSize   int
	ser       Serializer
	enc       codec.Encoding
	log       zerolog.Logger
	fallbacks []*Verifier
}

// NewVerifier constructs a Verifier from a secret of any non-zero length.
// It fails with an error wrapping [ErrConfiguration] for an empty secret
// or an unknown digest.
func NewVerifier(secret []byte, opts ...Option) (*Verifier, error) {
	cfg := newConfig(opts)

	v, err := buildVerifier(secret, cfg.digest, cfg.serializer, cfg.encoding, cfg.logger)
	if err != nil {
		return nil, err
	}
	for _, r := range cfg.rotations {
		fb, err := v.fallbackFor(r)
		if err != nil {
			return nil, err
		}
		v.fallbacks = append(v.fallbacks, fb)
	}
	return v, nil
}

func buildVerifier(secret []byte, digest Digest, ser Serializer, enc codec.Encoding, log zerolog.Logger) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, ErrMissingSecret)
	}
	macSize, err := crypto.MACSize(digest.alg())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return &Verifier{
		secret:  secret,
		digest:  digest,
		macSize: macSize,
		ser:     ser,
		enc:     enc,
		log:     log,
	}, nil
}

// fallbackFor resolves a Rotation against the receiver's configuration.
func (v *Verifier) fallbackFor(r Rotation) (*Verifier, error) {
	secret := r.Secret
	if len(secret) == 0 {
		secret = v.secret
	}
	digest := r.Digest
	if digest == "" {
		digest = v.digest
	}
	ser := r.Serializer
	if ser == nil {
		ser = v.ser
	}
	return buildVerifier(secret, digest, ser, v.enc, v.log)
}

// Generate serializes value, signs it, and returns the text token.
// Purpose and expiry claims are embedded in the signed payload, so
// tampering with them invalidates the token.
func (v *Verifier) Generate(value any, opts ...ClaimOption) (string, error) {
	data, err := dumpPayload(v.ser, value, applyClaims(opts), time.Now())
	if err != nil {
		return "", err
	}
	token, err := v.sign(data)
	if err != nil {
		return "", err
	}
	v.log.Debug().
		Int("payload_bytes", len(data)).
		Str("digest", string(v.digest)).
		Msg("generated signed message")
	return token, nil
}

func (v *Verifier) sign(data []byte) (string, error) {
	encoded := v.enc.Encode(data)
	mac, err := crypto.Sum(v.digest.alg(), v.secret, []byte(encoded))
	if err != nil {
		return "", err
	}
	return encoded + delimiter + hex.EncodeToString(mac), nil
}

// Verify checks token and deserializes the signed value into dest, which
// must be a non-nil pointer (a nil dest checks validity only). Any
// failure — malformed token, MAC mismatch, deserialization failure,
// purpose mismatch, expiry — is reported as the bare [ErrInvalidSignature];
// the cause is never exposed, and dest must not be read on failure.
//
// When rotation fallbacks are configured they are tried in order after the
// primary fails.
func (v *Verifier) Verify(token string, dest any, opts ...VerifyOption) error {
	vo := applyVerifyOptions(opts)
	now := time.Now()

	err := v.verifyToken(token, dest, vo.purpose, now)
	if err == nil {
		return nil
	}
	for _, fb := range v.fallbacks {
		if fbErr := fb.verifyToken(token, dest, vo.purpose, now); fbErr == nil {
			return nil
		}
	}

	v.log.Warn().
		Str("reason", failureReason(err)).
		Msg("message verification failed")
	return ErrInvalidSignature
}

// Verified is the soft variant of [Verify]: it reports whether token is
// valid instead of failing. Use it when an invalid token is an expected
// condition rather than an error.
func (v *Verifier) Verified(token string, dest any, opts ...VerifyOption) bool {
	vo := applyVerifyOptions(opts)
	now := time.Now()

	if v.verifyToken(token, dest, vo.purpose, now) == nil {
		return true
	}
	for _, fb := range v.fallbacks {
		if fb.verifyToken(token, dest, vo.purpose, now) == nil {
			return true
		}
	}
	return false
}

func (v *Verifier) verifyToken(token string, dest any, purpose string, now time.Time) error {
	data, err := v.checkedPayload(token)
	if err != nil {
		return err
	}
	return loadPayload(v.ser, data, dest, purpose, now)
}

// checkedPayload parses the token, verifies the MAC in constant time, and
// returns the decoded payload bytes. The MAC is recomputed over the
// encoded text before anything is decoded, so unauthenticated input never
// reaches the codec or a deserializer.
func (v *Verifier) checkedPayload(token string) ([]byte, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", errStructure)
	}
	// The digest is hex and cannot contain the delimiter, so the last
	// occurrence is the authoritative split. (URL-safe payloads may
	// legitimately contain "--".)
	cut := strings.LastIndex(token, delimiter)
	if cut <= 0 || cut+len(delimiter) >= len(token) {
		return nil, fmt.Errorf("%w: missing delimiter", errStructure)
	}
	encoded, digest := token[:cut], token[cut+len(delimiter):]

	want, err := hex.DecodeString(digest)
	if err != nil || len(want) != v.macSize {
		return nil, fmt.Errorf("%w: malformed digest", errStructure)
	}
	got, err := crypto.Sum(v.digest.alg(), v.secret, []byte(encoded))
	if err != nil {
		return nil, err
	}
	if !crypto.Equal(got, want) {
		return nil, fmt.Errorf("%w: mac mismatch", errCrypto)
	}

	data, err := v.enc.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errStructure, err)
	}
	return data, nil
}

// failureReason maps an internal failure to a coarse label safe for
// diagnostics. It never describes where a comparison diverged.
func failureReason(err error) string {
	switch {
	case errors.Is(err, errCrypto):
		return "authentication failed"
	case errors.Is(err, errClaims):
		return "claims rejected"
	case errors.Is(err, ErrSerialization):
		return "deserialization failed"
	case errors.Is(err, errStructure):
		return "malformed token"
	default:
		return "verification failed"
	}
}
