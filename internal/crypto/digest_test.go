package crypto

import (
	"bytes"
	"errors"
	"testing"
)

var allDigests = []DigestAlg{DigestSHA1, DigestSHA256, DigestSHA384, DigestSHA512, DigestBLAKE3}

func TestSum_DeterministicAndKeyed(t *testing.T) {
	secret := []byte("a secret of arbitrary length, longer than any block size boundary would suggest")
	data := []byte("message body")

	for _, alg := range allDigests {
		a, err := Sum(alg, secret, data)
		if err != nil {
			t.Fatalf("%v: Sum error: %v", alg, err)
		}
		b, err := Sum(alg, secret, data)
		if err != nil {
			t.Fatalf("%v: Sum error: %v", alg, err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("%v: Sum not deterministic", alg)
		}

		size, err := MACSize(alg)
		if err != nil {
			t.Fatalf("%v: MACSize error: %v", alg, err)
		}
		if len(a) != size {
			t.Errorf("%v: digest length = %d, want %d", alg, len(a), size)
		}

		other, err := Sum(alg, []byte("different secret"), data)
		if err != nil {
			t.Fatalf("%v: Sum error: %v", alg, err)
		}
		if bytes.Equal(a, other) {
			t.Errorf("%v: distinct secrets produced identical MACs", alg)
		}

		tampered, err := Sum(alg, secret, []byte("message bodY"))
		if err != nil {
			t.Fatalf("%v: Sum error: %v", alg, err)
		}
		if bytes.Equal(a, tampered) {
			t.Errorf("%v: distinct messages produced identical MACs", alg)
		}
	}
}

func TestSum_ShortSecrets(t *testing.T) {
	// BLAKE3 keyed mode needs a 32-byte key internally; any secret length
	// must still work through the derive-key compression step.
	for _, secret := range [][]byte{[]byte("x"), bytes.Repeat([]byte{0x01}, 31), bytes.Repeat([]byte{0x01}, 64)} {
		if _, err := Sum(DigestBLAKE3, secret, []byte("data")); err != nil {
			t.Errorf("Sum(blake3) with %d-byte secret: %v", len(secret), err)
		}
	}
}

func TestEqual(t *testing.T) {
	a := []byte{1, 2, 3, 4}
	if !Equal(a, []byte{1, 2, 3, 4}) {
		t.Error("Equal on identical slices = false")
	}
	if Equal(a, []byte{1, 2, 3, 5}) {
		t.Error("Equal on differing slices = true")
	}
	if Equal(a, a[:3]) {
		t.Error("Equal on different lengths = true")
	}
}

func TestNewMAC_UnknownDigest(t *testing.T) {
	if _, err := NewMAC(DigestAlg("md5"), []byte("secret")); !errors.Is(err, ErrUnknownDigest) {
		t.Errorf("err = %v, want ErrUnknownDigest", err)
	}
	if _, err := MACSize(DigestAlg("md5")); !errors.Is(err, ErrUnknownDigest) {
		t.Errorf("err = %v, want ErrUnknownDigest", err)
	}
}
