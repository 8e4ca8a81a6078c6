// Package credential issues one-time login credentials for new members.
package credential

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordBytes = 8
	hashCost      = 10
)

// Credentials carries the plaintext only until the welcome email is composed.
type Credentials struct {
	Plaintext string
	Hash      string
}

type Issuer interface {
	Issue() (Credentials, error)
}

type RandomIssuer struct {
	rand io.Reader
	cost int
}

func NewIssuer() *RandomIssuer { return &RandomIssuer{rand: rand.Reader, cost: hashCost} }

// Issue returns 16 hex characters from 8 random bytes and their bcrypt hash.
func (i *RandomIssuer) Issue() (Credentials, error) {
	buf := make([]byte, passwordBytes)
	if _, err := io.ReadFull(i.rand, buf); err != nil {
		return Credentials{}, fmt.Errorf("read random: %w", err)
	}
	plain := hex.EncodeToString(buf)
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), i.cost)
	if err != nil {
		return Credentials{}, fmt.Errorf("hash password: %w", err)
	}
	return Credentials{Plaintext: plain, Hash: string(hash)}, nil
}
