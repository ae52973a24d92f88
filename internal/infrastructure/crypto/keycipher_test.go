package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMasterKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestAESKeyCipher_RoundTrip(t *testing.T) {
	cipher, err := NewAESKeyCipher(testMasterKey)
	require.NoError(t, err)

	plaintext := "302e020100300506032b657004220420deadbeef"
	ciphertext, iv, err := cipher.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)
	assert.NotEmpty(t, iv)

	decrypted, err := cipher.Decrypt(ciphertext, iv)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestAESKeyCipher_FreshNoncePerEncryption(t *testing.T) {
	cipher, err := NewAESKeyCipher(testMasterKey)
	require.NoError(t, err)

	c1, iv1, err := cipher.Encrypt("same key material")
	require.NoError(t, err)
	c2, iv2, err := cipher.Encrypt("same key material")
	require.NoError(t, err)

	assert.NotEqual(t, iv1, iv2)
	assert.NotEqual(t, c1, c2)
}

func TestAESKeyCipher_TamperedCiphertextFails(t *testing.T) {
	cipher, err := NewAESKeyCipher(testMasterKey)
	require.NoError(t, err)

	ciphertext, iv, err := cipher.Encrypt("secret")
	require.NoError(t, err)

	_, err = cipher.Decrypt(strings.Repeat("A", len(ciphertext)), iv)
	assert.Error(t, err)
}

func TestNewAESKeyCipher_RejectsBadKeys(t *testing.T) {
	_, err := NewAESKeyCipher("not hex")
	assert.Error(t, err)

	_, err = NewAESKeyCipher("abcd") // too short
	assert.Error(t, err)
}
