// Package crypto encrypts the free-text journal fields (notes, highlights)
// at rest with AES-256-GCM. Scores and metrics stay plaintext; only what the
// user writes in their own words is sealed.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

type Cipher struct {
	gcm cipher.AEAD
}

// New builds a Cipher from a 32-byte key.
func New(key []byte) (*Cipher, error) {
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{gcm: gcm}, nil
}

// Encrypt seals plaintext and returns base64 ciphertext with the nonce
// prepended. Empty input passes through unchanged.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := c.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}
	nonceSize := c.gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}
	plaintext, err := c.gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncryptPtr seals the value behind p in place; nil stays nil.
func (c *Cipher) EncryptPtr(p *string) (*string, error) {
	if p == nil {
		return nil, nil
	}
	enc, err := c.Encrypt(*p)
	if err != nil {
		return nil, err
	}
	return &enc, nil
}

// DecryptPtr is the inverse of EncryptPtr.
func (c *Cipher) DecryptPtr(p *string) (*string, error) {
	if p == nil {
		return nil, nil
	}
	dec, err := c.Decrypt(*p)
	if err != nil {
		return nil, err
	}
	return &dec, nil
}
