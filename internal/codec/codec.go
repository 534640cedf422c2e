// Package codec provides the reversible byte-to-text transform used to embed
// binary ciphertext, IVs, MACs, and authentication tags inside delimited text
// envelopes.
//
// Two alphabets are supported:
//
//   - Standard: base64 with `+`, `/`, and `=` padding (RFC 4648 §4).
//   - URLSafe: base64url with `-`, `_`, and no padding (RFC 4648 §5).
//     Output never requires percent-encoding in URL components.
//
// Encoding never fails. Decoding is strict: inputs with characters outside
// the selected alphabet, bad or non-canonical padding, or embedded
// whitespace are rejected with [ErrDecode]. The stdlib decoders silently
// skip \r and \n, so the codec screens for them explicitly.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrDecode is returned when text cannot be decoded under the selected
// alphabet. It covers wrong-alphabet characters, bad padding, and embedded
// whitespace.
var ErrDecode = errors.New("malformed encoding")

// Encoding selects the codec alphabet.
type Encoding int

const (
	// Standard is base64 with `+`, `/`, and `=` padding.
	Standard Encoding = iota
	// URLSafe is base64url with `-`, `_`, and no padding.
	URLSafe
)

// String returns the canonical name of the encoding.
func (e Encoding) String() string {
	if e == URLSafe {
		return "base64url"
	}
	return "base64"
}

func (e Encoding) impl() *base64.Encoding {
	if e == URLSafe {
		// Strict mode rejects non-zero bits in the trailing partial group,
		// so every byte sequence has exactly one valid encoding.
		return base64.RawURLEncoding.Strict()
	}
	return base64.StdEncoding.Strict()
}

// EncodedLen returns the length in characters of the encoding of n source
// bytes.
func (e Encoding) EncodedLen(n int) int {
	return e.impl().EncodedLen(n)
}

// Encode encodes data to text under the selected alphabet. It never fails.
func (e Encoding) Encode(data []byte) string {
	return e.impl().EncodeToString(data)
}

// Decode decodes text produced by Encode. It fails with an error wrapping
// [ErrDecode] if the input is not a canonical encoding under the selected
// alphabet.
func (e Encoding) Decode(s string) ([]byte, error) {
	// base64.Encoding.Decode skips \r and \n rather than rejecting them,
	// which would let a forged token alias a valid one.
	if strings.ContainsAny(s, " \t\r\n") {
		return nil, fmt.Errorf("%w: embedded whitespace", ErrDecode)
	}
	data, err := e.impl().DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}
