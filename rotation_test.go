package sealkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifierRotation_Secret(t *testing.T) {
	oldV, err := NewVerifier([]byte("old secret"))
	require.NoError(t, err)
	oldToken, err := oldV.Generate("issued before rotation")
	require.NoError(t, err)

	v, err := NewVerifier([]byte("new secret"),
		WithRotation(Rotation{Secret: []byte("old secret")}))
	require.NoError(t, err)

	var out string
	require.NoError(t, v.Verify(oldToken, &out))
	assert.Equal(t, "issued before rotation", out)

	// New tokens use the primary secret only.
	newToken, err := v.Generate("issued after rotation")
	require.NoError(t, err)
	assert.Error(t, oldV.Verify(newToken, nil))

	fresh, err := NewVerifier([]byte("new secret"))
	require.NoError(t, err)
	require.NoError(t, fresh.Verify(newToken, &out))
	assert.Equal(t, "issued after rotation", out)
}

func TestVerifierRotation_Digest(t *testing.T) {
	oldV, err := NewVerifier([]byte("shared secret"), WithDigest(SHA1))
	require.NoError(t, err)
	oldToken, err := oldV.Generate("sha1 era")
	require.NoError(t, err)

	v, err := NewVerifier([]byte("shared secret"),
		WithDigest(SHA256),
		WithRotation(Rotation{Digest: SHA1}))
	require.NoError(t, err)

	var out string
	require.NoError(t, v.Verify(oldToken, &out))
	assert.Equal(t, "sha1 era", out)

	// Without the rotation entry the old token is rejected.
	strict, err := NewVerifier([]byte("shared secret"), WithDigest(SHA256))
	require.NoError(t, err)
	assert.ErrorIs(t, strict.Verify(oldToken, nil), ErrInvalidSignature)
}

func TestVerifierRotation_Serializer(t *testing.T) {
	oldV, err := NewVerifier([]byte("shared secret"), WithSerializer(GobSerializer{}))
	require.NoError(t, err)
	oldToken, err := oldV.Generate(payload{Name: "gob era", Count: 1})
	require.NoError(t, err)

	v, err := NewVerifier([]byte("shared secret"),
		WithRotation(Rotation{Serializer: GobSerializer{}}))
	require.NoError(t, err)

	var out payload
	require.NoError(t, v.Verify(oldToken, &out))
	assert.Equal(t, "gob era", out.Name)
}

func TestVerifierRotation_MultipleFallbacksInOrder(t *testing.T) {
	tokens := make(map[string]string)
	for _, secret := range []string{"gen1", "gen2", "gen3"} {
		gv, err := NewVerifier([]byte(secret))
		require.NoError(t, err)
		tokens[secret], err = gv.Generate("from " + secret)
		require.NoError(t, err)
	}

	v, err := NewVerifier([]byte("gen3"),
		WithRotation(Rotation{Secret: []byte("gen2")}),
		WithRotation(Rotation{Secret: []byte("gen1")}))
	require.NoError(t, err)

	for secret, token := range tokens {
		var out string
		require.NoError(t, v.Verify(token, &out), "token signed with %s", secret)
		assert.Equal(t, "from "+secret, out)
	}

	assert.ErrorIs(t, v.Verify(tokens["gen1"]+"x", nil), ErrInvalidSignature)
}

func TestVerifierRotation_ClaimsCheckedOnFallback(t *testing.T) {
	oldV, err := NewVerifier([]byte("old secret"))
	require.NoError(t, err)
	expired, err := oldV.Generate("stale", WithExpiresIn(-time.Minute))
	require.NoError(t, err)

	v, err := NewVerifier([]byte("new secret"),
		WithRotation(Rotation{Secret: []byte("old secret")}))
	require.NoError(t, err)

	// The fallback authenticates the token but the expiry still applies.
	assert.ErrorIs(t, v.Verify(expired, nil), ErrInvalidSignature)
}

func TestEncryptorRotation_Secret(t *testing.T) {
	oldKey := []byte("oldoldoldoldoldoldoldoldoldold32")
	newKey := []byte("newnewnewnewnewnewnewnewnewnew32")

	oldE, err := NewEncryptor(oldKey)
	require.NoError(t, err)
	oldToken, err := oldE.EncryptAndSign("encrypted before rotation")
	require.NoError(t, err)

	e, err := NewEncryptor(newKey, WithRotation(Rotation{Secret: oldKey}))
	require.NoError(t, err)

	var out string
	require.NoError(t, e.DecryptAndVerify(oldToken, &out))
	assert.Equal(t, "encrypted before rotation", out)

	// New tokens use the primary key only.
	newToken, err := e.EncryptAndSign("encrypted after rotation")
	require.NoError(t, err)
	assert.ErrorIs(t, oldE.DecryptAndVerify(newToken, nil), ErrInvalidMessage)
}

func TestEncryptorRotation_Cipher(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	oldE, err := NewEncryptor(key, WithCipher(AES256CBC))
	require.NoError(t, err)
	oldToken, err := oldE.EncryptAndSign("cbc era")
	require.NoError(t, err)

	e, err := NewEncryptor(key,
		WithCipher(AES256GCM),
		WithRotation(Rotation{Cipher: AES256CBC}))
	require.NoError(t, err)

	var out string
	require.NoError(t, e.DecryptAndVerify(oldToken, &out))
	assert.Equal(t, "cbc era", out)

	gcmToken, err := e.EncryptAndSign("gcm era")
	require.NoError(t, err)
	require.NoError(t, e.DecryptAndVerify(gcmToken, &out))
	assert.Equal(t, "gcm era", out)
}

func TestEncryptorRotation_KeyDerivation(t *testing.T) {
	passphrase := []byte("long-lived passphrase")

	oldE, err := NewEncryptor(passphrase, WithKeyDerivation(KeyDerivation{
		Function:   KDFPBKDF2,
		Salt:       []byte("salt-v1"),
		Iterations: 1000,
	}))
	require.NoError(t, err)
	oldToken, err := oldE.EncryptAndSign("pbkdf2 era")
	require.NoError(t, err)

	// Rotating to HKDF while still reading PBKDF2-era tokens.
	e, err := NewEncryptor(passphrase,
		WithKeyDerivation(KeyDerivation{Function: KDFHKDF, Salt: []byte("salt-v2")}),
		WithRotation(Rotation{KeyDerivation: &KeyDerivation{
			Function:   KDFPBKDF2,
			Salt:       []byte("salt-v1"),
			Iterations: 1000,
		}}))
	require.NoError(t, err)

	var out string
	require.NoError(t, e.DecryptAndVerify(oldToken, &out))
	assert.Equal(t, "pbkdf2 era", out)
}

func TestRotation_ZeroFieldsInheritPrimary(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	// Old deployment: same key, SHA-1 outer digest on a CBC envelope.
	oldE, err := NewEncryptor(key, WithCipher(AES256CBC), WithDigest(SHA1))
	require.NoError(t, err)
	oldToken, err := oldE.EncryptAndSign("inherited key")
	require.NoError(t, err)

	// The rotation names only the digest; secret, cipher and serializer
	// come from the primary configuration.
	e, err := NewEncryptor(key,
		WithCipher(AES256CBC),
		WithDigest(SHA256),
		WithRotation(Rotation{Digest: SHA1}))
	require.NoError(t, err)

	var out string
	require.NoError(t, e.DecryptAndVerify(oldToken, &out))
	assert.Equal(t, "inherited key", out)
}
