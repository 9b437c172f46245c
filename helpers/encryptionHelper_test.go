package helpers

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("SECRET_KEY", "test-secret-key")
	os.Exit(m.Run())
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, plaintext := range []string{
		"cliente@example.com",
		"María José Carvajal",
		"x",
		"a longer value that spans more than one AES block, well beyond sixteen bytes",
	} {
		field, err := Encrypt(plaintext)
		require.NoError(t, err, plaintext)
		assert.Equal(t, plaintext, Decrypt(field), plaintext)
	}
}

func TestEncryptEmptyInputFails(t *testing.T) {
	_, err := Encrypt("")
	assert.Error(t, err)
}

func TestEncryptTagIsAlwaysEmpty(t *testing.T) {
	// CBC produces no authentication tag; the field exists for stored-shape
	// compatibility only.
	field, err := Encrypt("hola")
	require.NoError(t, err)
	assert.Equal(t, "", field.Tag)
}

func TestEncryptUsesFreshIV(t *testing.T) {
	a, err := Encrypt("same value")
	require.NoError(t, err)
	b, err := Encrypt("same value")
	require.NoError(t, err)
	assert.NotEqual(t, a.Iv, b.Iv)
	assert.NotEqual(t, a.Data, b.Data)
}

func TestDecryptMalformedInputReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", Decrypt(nil))
	assert.Equal(t, "", Decrypt(&EncryptedField{}))
	assert.Equal(t, "", Decrypt(&EncryptedField{Iv: "not hex", Data: "zz"}))
	assert.Equal(t, "", Decrypt(&EncryptedField{Iv: "00112233445566778899aabbccddeeff", Data: "abcd"}))
}

func TestHashValueDeterministic(t *testing.T) {
	assert.Equal(t, HashValue("cliente@example.com"), HashValue("cliente@example.com"))
	assert.NotEqual(t, HashValue("cliente@example.com"), HashValue("otro@example.com"))
	assert.Len(t, HashValue("anything"), 64)
}

func TestEncryptWithSaltRoundTrip(t *testing.T) {
	field, err := EncryptWithSalt("cliente@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, field.Salt)
	assert.Equal(t, "cliente@example.com", DecryptWithSalt(field))
}

func TestDecryptWithSaltRejectsMissingSalt(t *testing.T) {
	field, err := Encrypt("sin sal")
	require.NoError(t, err)
	assert.Equal(t, "", DecryptWithSalt(field))
}
