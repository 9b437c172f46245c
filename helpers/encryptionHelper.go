package helpers

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"

	"golang.org/x/crypto/pbkdf2"
)

// Field-level encryption for sensitive values at rest (customer emails,
// login-log emails), plus a deterministic hash for indexed lookup over them.
//
// The cipher is AES-256-CBC. CBC provides confidentiality only: the Tag
// field exists for wire-format compatibility and is always empty, so
// encrypted fields carry no integrity or authenticity guarantee.

const (
	kdfSalt       = "carniceria-field-salt"
	kdfIterations = 100000
	keyLength     = 32
)

// EncryptedField is the stored shape of an encrypted value. Iv and Data are
// hex encoded. Salt is only set by EncryptWithSalt.
type EncryptedField struct {
	Iv   string `json:"iv"`
	Data string `json:"data"`
	Tag  string `json:"tag"`
	Salt string `json:"salt,omitempty"`
}

func secretKey() string {
	return os.Getenv("SECRET_KEY")
}

func derivedKey() []byte {
	return pbkdf2.Key([]byte(secretKey()), []byte(kdfSalt), kdfIterations, keyLength, sha256.New)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-padding], nil
}

// Encrypt encrypts text with a fresh random IV. Empty input is an error.
func Encrypt(text string) (*EncryptedField, error) {
	if text == "" {
		return nil, errors.New("cannot encrypt empty value")
	}
	if secretKey() == "" {
		return nil, errors.New("SECRET_KEY is not set")
	}

	block, err := aes.NewCipher(derivedKey())
	if err != nil {
		return nil, err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	plaintext := pkcs7Pad([]byte(text), aes.BlockSize)
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)

	return &EncryptedField{
		Iv:   hex.EncodeToString(iv),
		Data: hex.EncodeToString(ciphertext),
		Tag:  "",
	}, nil
}

// Decrypt reverses Encrypt. Any malformed input or cryptographic failure
// yields "" rather than an error; callers treat an empty result as
// undecryptable.
func Decrypt(field *EncryptedField) string {
	if field == nil || field.Iv == "" || field.Data == "" {
		return ""
	}
	iv, err := hex.DecodeString(field.Iv)
	if err != nil || len(iv) != aes.BlockSize {
		return ""
	}
	ciphertext, err := hex.DecodeString(field.Data)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return ""
	}

	block, err := aes.NewCipher(derivedKey())
	if err != nil {
		return ""
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return ""
	}
	return string(unpadded)
}

// HashValue returns the hex SHA-256 of value concatenated with the
// application secret. Deterministic, so it serves as a lookup index over
// encrypted fields; always hash the plaintext, never a ciphertext, since
// ciphertexts vary per call with the random IV.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(value + secretKey()))
	return hex.EncodeToString(sum[:])
}

// EncryptWithSalt appends a random salt to the plaintext before encrypting,
// making dictionary attacks on short known values impractical. The salt is
// carried alongside the ciphertext for DecryptWithSalt to strip.
func EncryptWithSalt(text string) (*EncryptedField, error) {
	if text == "" {
		return nil, errors.New("cannot encrypt empty value")
	}
	saltBytes := make([]byte, 8)
	if _, err := rand.Read(saltBytes); err != nil {
		return nil, err
	}
	salt := hex.EncodeToString(saltBytes)

	field, err := Encrypt(text + salt)
	if err != nil {
		return nil, err
	}
	field.Salt = salt
	return field, nil
}

// DecryptWithSalt reverses EncryptWithSalt; "" on any failure.
func DecryptWithSalt(field *EncryptedField) string {
	if field == nil || field.Salt == "" {
		return ""
	}
	plain := Decrypt(field)
	if len(plain) < len(field.Salt) {
		return ""
	}
	if plain[len(plain)-len(field.Salt):] != field.Salt {
		return ""
	}
	return plain[:len(plain)-len(field.Salt)]
}
