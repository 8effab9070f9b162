// Package password hashea y verifica contraseñas con bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost equivale a BCRYPT_SALT_ROUNDS sin configurar.
const DefaultCost = 10

// MaxBytes es el largo máximo que bcrypt acepta.
const MaxBytes = 72

var (
	ErrEmptyPassword = errors.New("empty password")
	ErrTooLong       = errors.New("password exceeds 72 bytes")
)

// Hasher es lo que consume la capa de servicios.
type Hasher interface {
	Hash(plain string) (string, error)
	// Verify nunca falla: hash malformado o distinto devuelve false.
	Verify(plain, hash string) bool
}

// Bcrypt implementa Hasher.
type Bcrypt struct {
	cost int
}

// NewBcrypt valida cost contra los límites de bcrypt.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("password: bcrypt cost %d out of range [%d,%d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

func (b *Bcrypt) Cost() int { return b.cost }

func (b *Bcrypt) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	if len(plain) > MaxBytes {
		return "", ErrTooLong
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(h), nil
}

func (b *Bcrypt) Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
