package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cloudflare/circl/cipher/ascon"
	"golang.org/x/crypto/chacha20poly1305"
)

// Suite identifies a symmetric cipher configuration.
type Suite string

const (
	// SuiteAES256GCM is AES-256 in Galois/Counter mode (AEAD).
	SuiteAES256GCM Suite = "aes-256-gcm"
	// SuiteAES256CBC is AES-256 in CBC mode with PKCS#7 padding (non-AEAD).
	SuiteAES256CBC Suite = "aes-256-cbc"
	// SuiteXChaCha20Poly1305 is XChaCha20-Poly1305 (AEAD).
	SuiteXChaCha20Poly1305 Suite = "xchacha20-poly1305"
	// SuiteAscon128 is Ascon-128 (AEAD).
	SuiteAscon128 Suite = "ascon-128"
)

// SuiteInfo describes the fixed parameters of a cipher suite.
type SuiteInfo struct {
	// KeySize is the exact key length in bytes required by the suite.
	KeySize int
	// IVSize is the IV/nonce length in bytes.
	IVSize int
	// TagSize is the authentication tag length in bytes; zero for non-AEAD.
	TagSize int
	// AEAD reports whether the suite authenticates its own ciphertext.
	AEAD bool
}

// Info returns the parameters of suite, or ErrUnknownSuite.
func Info(suite Suite) (SuiteInfo, error) {
	switch suite {
	case SuiteAES256GCM:
		return SuiteInfo{KeySize: AESKeySize, IVSize: GCMNonceSize, TagSize: GCMTagSize, AEAD: true}, nil
	case SuiteAES256CBC:
		return SuiteInfo{KeySize: AESKeySize, IVSize: CBCBlockSize, AEAD: false}, nil
	case SuiteXChaCha20Poly1305:
		return SuiteInfo{KeySize: ChaChaKeySize, IVSize: XChaChaNonceSize, TagSize: Poly1305TagSize, AEAD: true}, nil
	case SuiteAscon128:
		return SuiteInfo{KeySize: AsconKeySize, IVSize: AsconNonceSize, TagSize: AsconTagSize, AEAD: true}, nil
	default:
		return SuiteInfo{}, fmt.Errorf("%w: %q", ErrUnknownSuite, suite)
	}
}

func newAEAD(suite Suite, key []byte) (cipher.AEAD, error) {
	switch suite {
	case SuiteAES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case SuiteXChaCha20Poly1305:
		return chacha20poly1305.NewX(key)
	case SuiteAscon128:
		return ascon.New(key, ascon.Ascon128)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSuite, suite)
	}
}

func checkSizes(info SuiteInfo, key, iv []byte) error {
	if len(key) != info.KeySize {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), info.KeySize)
	}
	if len(iv) != info.IVSize {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidIVSize, len(iv), info.IVSize)
	}
	return nil
}

// Seal encrypts plaintext under key and iv. For AEAD suites it returns the
// ciphertext and the detached authentication tag; for CBC the tag is nil
// and the plaintext is PKCS#7-padded before encryption.
func Seal(suite Suite, key, iv, plaintext []byte) (ciphertext, tag []byte, err error) {
	info, err := Info(suite)
	if err != nil {
		return nil, nil, err
	}
	if err := checkSizes(info, key, iv); err != nil {
		return nil, nil, err
	}

	if !info.AEAD {
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, nil, err
		}
		padded := pad(plaintext, CBCBlockSize)
		out := make([]byte, len(padded))
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
		return out, nil, nil
	}

	aead, err := newAEAD(suite, key)
	if err != nil {
		return nil, nil, err
	}
	sealed := aead.Seal(nil, iv, plaintext, nil)
	split := len(sealed) - aead.Overhead()
	return sealed[:split], sealed[split:], nil
}

// Open decrypts ciphertext under key and iv. For AEAD suites the detached
// tag is verified as part of decryption: on mismatch no plaintext is
// returned. For CBC the tag must be nil; integrity must have been
// established by the caller beforehand. All decryption failures collapse
// into ErrDecryptionFailed.
func Open(suite Suite, key, iv, ciphertext, tag []byte) ([]byte, error) {
	info, err := Info(suite)
	if err != nil {
		return nil, err
	}
	if err := checkSizes(info, key, iv); err != nil {
		return nil, err
	}

	if !info.AEAD {
		if len(tag) != 0 {
			return nil, ErrDecryptionFailed
		}
		if len(ciphertext) == 0 || len(ciphertext)%CBCBlockSize != 0 {
			return nil, ErrDecryptionFailed
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		padded := make([]byte, len(ciphertext))
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)
		plaintext, err := unpad(padded, CBCBlockSize)
		if err != nil {
			return nil, ErrDecryptionFailed
		}
		return plaintext, nil
	}

	if len(tag) != info.TagSize {
		return nil, ErrDecryptionFailed
	}
	aead, err := newAEAD(suite, key)
	if err != nil {
		return nil, err
	}
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	plaintext, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// RandomIV returns n bytes from the OS CSPRNG. Each encryption must use a
// fresh IV; reuse under the same key breaks every suite in this package.
func RandomIV(n int) ([]byte, error) {
	iv := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}
	return iv, nil
}
