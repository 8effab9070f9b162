package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// SessionIDBytes entropía de un session id (256 bits).
const SessionIDBytes = 32

// GenerateOpaqueToken genera un token opaco aleatorio (base64url sin padding).
func GenerateOpaqueToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewSessionID es GenerateOpaqueToken(SessionIDBytes).
func NewSessionID() (string, error) {
	return GenerateOpaqueToken(SessionIDBytes)
}

// SHA256Hex devuelve sha256(input) en hexadecimal. Se usa como clave de
// cache y en logs para no exponer el id crudo.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
