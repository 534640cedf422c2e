package sealkit

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Serializer turns an application value into bytes before signing or
// encryption, and back on the way out. Exactly one serializer is active per
// Generate/EncryptAndSign call; Load is invoked only after the payload has
// been authenticated.
type Serializer interface {
	// Dump serializes v.
	Dump(v any) ([]byte, error)
	// Load deserializes data into dest, which must be a non-nil pointer.
	Load(data []byte, dest any) error
}

// JSONSerializer serializes values as JSON. It is the default strategy.
type JSONSerializer struct{}

// Dump implements [Serializer].
func (JSONSerializer) Dump(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// Load implements [Serializer].
func (JSONSerializer) Load(data []byte, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}

// GobSerializer serializes values with encoding/gob. It is the legacy
// general-object strategy, retained so tokens issued by earlier
// deployments keep verifying; prefer [JSONSerializer] for new tokens.
type GobSerializer struct{}

// Dump implements [Serializer].
func (GobSerializer) Dump(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

// Load implements [Serializer].
func (GobSerializer) Load(data []byte, dest any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(dest); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}

// CBORSerializer serializes values as CBOR (RFC 8949), a compact binary
// alternative to JSON for structured values.
type CBORSerializer struct{}

// Dump implements [Serializer].
func (CBORSerializer) Dump(v any) ([]byte, error) {
	data, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// Load implements [Serializer].
func (CBORSerializer) Load(data []byte, dest any) error {
	if err := cbor.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}

// NullSerializer passes byte payloads through untouched. Dump accepts
// []byte and string; Load fills *[]byte and *string. It cannot carry
// purpose or expiry metadata, since there is no structure to embed them in.
type NullSerializer struct{}

// Dump implements [Serializer].
func (NullSerializer) Dump(v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.Clone(t), nil
	case string:
		return []byte(t), nil
	default:
		return nil, fmt.Errorf("%w: null serializer accepts []byte or string, got %T", ErrSerialization, v)
	}
}

// Load implements [Serializer].
func (NullSerializer) Load(data []byte, dest any) error {
	switch t := dest.(type) {
	case *[]byte:
		*t = bytes.Clone(data)
		return nil
	case *string:
		*t = string(data)
		return nil
	default:
		return fmt.Errorf("%w: null serializer loads into *[]byte or *string, got %T", ErrSerialization, dest)
	}
}

// HybridSerializer writes JSON but can read back payloads produced by the
// legacy gob strategy. It exists for serializer migration: enable the
// fallback while gob-era tokens are still in flight, disable it once they
// have all expired.
type HybridSerializer struct {
	// GobFallback retries deserialization with gob when JSON fails.
	GobFallback bool
}

// Dump implements [Serializer].
func (HybridSerializer) Dump(v any) ([]byte, error) {
	return JSONSerializer{}.Dump(v)
}

// Load implements [Serializer].
func (h HybridSerializer) Load(data []byte, dest any) error {
	err := (JSONSerializer{}).Load(data, dest)
	if err == nil {
		return nil
	}
	if !h.GobFallback {
		return err
	}
	if gobErr := (GobSerializer{}).Load(data, dest); gobErr == nil {
		return nil
	}
	// Report the primary strategy's failure, not the fallback's.
	return err
}
