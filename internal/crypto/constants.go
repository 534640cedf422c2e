package crypto

const (
	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// GCMNonceSize is the size of an AES-GCM nonce in bytes.
	GCMNonceSize = 12
	// GCMTagSize is the size of an AES-GCM authentication tag in bytes.
	GCMTagSize = 16
	// CBCBlockSize is the AES block size, which is also the CBC IV size.
	CBCBlockSize = 16

	// ChaChaKeySize is the size of an XChaCha20-Poly1305 key in bytes.
	ChaChaKeySize = 32
	// XChaChaNonceSize is the size of an XChaCha20-Poly1305 nonce in bytes.
	XChaChaNonceSize = 24
	// Poly1305TagSize is the size of a Poly1305 authentication tag in bytes.
	Poly1305TagSize = 16

	// AsconKeySize is the size of an Ascon-128 key in bytes.
	AsconKeySize = 16
	// AsconNonceSize is the size of an Ascon-128 nonce in bytes.
	AsconNonceSize = 16
	// AsconTagSize is the size of an Ascon-128 authentication tag in bytes.
	AsconTagSize = 16
)

// blake3KeyContext is the BLAKE3 derive-key context used to compress
// arbitrary-length MAC secrets to the 32-byte key required by keyed mode.
// Changing it invalidates every BLAKE3 MAC ever issued.
const blake3KeyContext = "sealkit v1 blake3 mac key"
