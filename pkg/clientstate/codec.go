package clientstate

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

var (
	// ErrBadToken covers every way a blob can fail to open: wrong key,
	// truncation, tampering. Callers treat all of them as "no state".
	ErrBadToken = errors.New("client state token is invalid")
)

// Codec seals and opens the opaque blob the client carries. AES-256-GCM with
// a key derived from the application secret via HKDF-SHA256; the client can
// neither read nor forge the bag.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives the sealing key from the application secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("client state secret must not be empty")
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("usim/client-state/v1"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive client state key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// Encode seals a bag into the wire blob.
func (c *Codec) Encode(bag Bag) (string, error) {
	plaintext, err := json.Marshal(bag.Sanitize())
	if err != nil {
		return "", fmt.Errorf("marshal client state: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decode opens a wire blob back into a bag. Any failure (bad base64, short
// payload, failed authentication) comes back as ErrBadToken.
func (c *Codec) Decode(token string) (Bag, error) {
	if token == "" {
		return Bag{}, nil
	}

	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	if len(data) < c.aead.NonceSize() {
		return nil, ErrBadToken
	}

	nonce, sealed := data[:c.aead.NonceSize()], data[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrBadToken
	}

	var bag Bag
	if err := json.Unmarshal(plaintext, &bag); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	return bag.Sanitize(), nil
}
