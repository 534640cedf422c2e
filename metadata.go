package sealkit

import (
	"errors"
	"fmt"
	"time"
)

// delimiter joins the encoded segments of the text envelope.
const delimiter = "--"

// Internal failure kinds. They exist so the package can tell a malformed
// envelope from a failed MAC or a rejected claim, but they are collapsed
// into ErrInvalidSignature / ErrInvalidMessage at the public boundary.
var (
	errStructure = errors.New("structural mismatch")
	errCrypto    = errors.New("cryptographic mismatch")
	errClaims    = errors.New("claims rejected")
)

// claims carries optional per-call metadata: a purpose tag scoping the
// token to one usage context, and an absolute or relative expiry.
type claims struct {
	purpose   string
	expiresAt time.Time
	expiresIn time.Duration
}

// ClaimOption attaches metadata to a generated token.
type ClaimOption func(*claims)

// WithPurpose scopes the token to a usage context. Verification must
// request the same purpose or it fails.
func WithPurpose(purpose string) ClaimOption {
	return func(c *claims) {
		c.purpose = purpose
	}
}

// WithExpiresAt sets an absolute expiry. A token presented at or after
// this instant fails verification.
func WithExpiresAt(t time.Time) ClaimOption {
	return func(c *claims) {
		c.expiresAt = t
	}
}

// WithExpiresIn sets an expiry relative to generation time. It is ignored
// when WithExpiresAt is also given.
func WithExpiresIn(d time.Duration) ClaimOption {
	return func(c *claims) {
		c.expiresIn = d
	}
}

func applyClaims(opts []ClaimOption) *claims {
	c := &claims{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *claims) empty() bool {
	return c.purpose == "" && c.expiresAt.IsZero() && c.expiresIn == 0
}

// expiry resolves the effective expiry instant, if any.
func (c *claims) expiry(now time.Time) (time.Time, bool) {
	if !c.expiresAt.IsZero() {
		return c.expiresAt, true
	}
	if c.expiresIn != 0 {
		return now.Add(c.expiresIn), true
	}
	return time.Time{}, false
}

// verifyOptions carries the read-side expectations.
type verifyOptions struct {
	purpose string
}

// VerifyOption constrains verification.
type VerifyOption func(*verifyOptions)

// ForPurpose requires the token to have been generated with the same
// purpose. Omitting it requires a token generated without a purpose.
func ForPurpose(purpose string) VerifyOption {
	return func(v *verifyOptions) {
		v.purpose = purpose
	}
}

func applyVerifyOptions(opts []VerifyOption) *verifyOptions {
	v := &verifyOptions{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// wrappedMessage is the metadata record embedded in the serialized payload.
// Message holds the inner serialized value, so the MAC (or AEAD tag) over
// the outer payload covers purpose and expiry too: tampering with either
// invalidates the token.
type wrappedMessage struct {
	Message []byte `json:"message"`
	Purpose string `json:"pur,omitempty"`
	Expiry  string `json:"exp,omitempty"`
}

// metadataEnvelope distinguishes wrapped payloads from historical ones.
// Payloads generated without claims are not wrapped at all, keeping them
// byte-compatible with tokens from before metadata existed.
type metadataEnvelope struct {
	Wrapped *wrappedMessage `json:"_sealkit"`
}

// dumpPayload serializes value, wrapping it in a metadata record first when
// any claim is present.
func dumpPayload(s Serializer, value any, c *claims, now time.Time) ([]byte, error) {
	inner, err := s.Dump(value)
	if err != nil {
		return nil, err
	}
	if c.empty() {
		return inner, nil
	}
	if _, ok := s.(NullSerializer); ok {
		return nil, fmt.Errorf("%w: null serializer cannot carry purpose or expiry metadata", ErrConfiguration)
	}
	w := &wrappedMessage{Message: inner, Purpose: c.purpose}
	if exp, ok := c.expiry(now); ok {
		w.Expiry = exp.UTC().Format(time.RFC3339)
	}
	return s.Dump(metadataEnvelope{Wrapped: w})
}

// loadPayload reverses dumpPayload: it detects the metadata record,
// enforces purpose and expiry, and deserializes the inner value into dest.
// It must only be called on authenticated payload bytes. Nothing is
// written to dest unless every check passes; a nil dest skips the final
// deserialization so callers can check validity alone.
func loadPayload(s Serializer, data []byte, dest any, purpose string, now time.Time) error {
	var env metadataEnvelope
	if err := s.Load(data, &env); err == nil && env.Wrapped != nil {
		w := env.Wrapped
		if w.Purpose != purpose {
			return fmt.Errorf("%w: purpose mismatch", errClaims)
		}
		if w.Expiry != "" {
			exp, err := time.Parse(time.RFC3339, w.Expiry)
			if err != nil {
				return fmt.Errorf("%w: unreadable expiry", errStructure)
			}
			if !now.Before(exp) {
				return fmt.Errorf("%w: message expired", errClaims)
			}
		}
		if dest == nil {
			return nil
		}
		return s.Load(w.Message, dest)
	}

	// Historical payload with no metadata record: it carries no purpose,
	// so verification demanding one must fail.
	if purpose != "" {
		return fmt.Errorf("%w: purpose mismatch", errClaims)
	}
	if dest == nil {
		return nil
	}
	return s.Load(data, dest)
}
