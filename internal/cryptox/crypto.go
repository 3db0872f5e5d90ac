// Package cryptox implements the encryption-at-rest codec. File contents are
// sealed with AES-256-GCM under a single process-lifetime key; the key is
// injected through configuration, never held as a package global.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/avcastro/vaultbox/internal/common"
)

const keySize = 32

// Codec encrypts and decrypts raw byte payloads with one fixed symmetric key.
// Encrypting the same plaintext twice yields different ciphertext: a fresh
// random nonce is generated per call and prepended to the sealed bytes.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec builds a Codec from a base64-encoded 32-byte key.
func NewCodec(encodedKey string) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decoding encryption key: %w", err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", keySize, len(key))
	}
	return newCodec(key)
}

// NewCodecFromPassphrase derives the codec key from a passphrase and salt
// using argon2id. Used when the deployment configures a passphrase instead
// of a raw key.
func NewCodecFromPassphrase(passphrase, salt string) (*Codec, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("empty encryption passphrase")
	}
	key := argon2.IDKey([]byte(passphrase), []byte(salt), 1, 64*1024, 4, keySize)
	defer common.WipeByteArray(key)
	return newCodec(key)
}

func newCodec(key []byte) (*Codec, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Codec{aead: aead}, nil
}

// Encrypt seals plaintext and returns nonce||ciphertext. The nonce is random
// per call, so duplicate plaintexts do not produce duplicate ciphertexts.
func (c *Codec) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens nonce||ciphertext produced by Encrypt. Input that is too
// short, sealed under a different key, or altered in transit yields
// common.ErrCiphertextInvalid; no partial plaintext is ever returned.
func (c *Codec) Decrypt(sealed []byte) ([]byte, error) {
	if len(sealed) < c.aead.NonceSize() {
		return nil, common.ErrCiphertextInvalid
	}
	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrCiphertextInvalid
	}
	return plaintext, nil
}
