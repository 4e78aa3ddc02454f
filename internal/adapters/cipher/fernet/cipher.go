// Package fernet encrypts stored vote selections with Fernet tokens.
//
// Keys are supplied by configuration. The first key encrypts, every key is
// tried on decrypt, so rotating means prepending a new key and keeping the
// old ones until the vote log no longer needs them.
package fernet

import (
	"errors"
	"fmt"
	"time"

	fernetgo "github.com/fernet/fernet-go"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

var (
	ErrNoKeys       = errors.New("at least one ballot key is required")
	ErrInvalidToken = errors.New("ballot token could not be decrypted")
)

// noTTL disables token age checks: votes never expire.
const noTTL = -1 * time.Second

type Cipher struct {
	keys []*fernetgo.Key
}

func NewCipher(encodedKeys []string) (ports.BallotCipher, error) {
	if len(encodedKeys) == 0 {
		return nil, ErrNoKeys
	}

	keys, err := fernetgo.DecodeKeys(encodedKeys...)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ballot keys: %w", err)
	}

	return &Cipher{keys: keys}, nil
}

func (c *Cipher) Encrypt(selection string) (string, error) {
	token, err := fernetgo.EncryptAndSign([]byte(selection), c.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to encrypt selection: %w", err)
	}
	return string(token), nil
}

func (c *Cipher) Decrypt(token string) (string, error) {
	msg := fernetgo.VerifyAndDecrypt([]byte(token), noTTL, c.keys)
	if msg == nil {
		return "", ErrInvalidToken
	}
	return string(msg), nil
}

// GenerateKey returns a fresh base64 encoded key, for provisioning BALLOT_KEYS.
func GenerateKey() (string, error) {
	var key fernetgo.Key
	if err := key.Generate(); err != nil {
		return "", err
	}
	return key.Encode(), nil
}
