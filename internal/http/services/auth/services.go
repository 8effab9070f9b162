// Package auth contiene los services de autenticación: alta de usuarios,
// alta de compañías con su usuario creador, validación de credenciales y
// lectura de usuarios por id.
package auth

import (
	"time"

	"github.com/ameyasuite/backend/internal/domain/repository"
	"github.com/ameyasuite/backend/internal/security/password"
)

// Deps contiene las dependencias de los services auth.
type Deps struct {
	Store  repository.Store
	Hasher password.Hasher
	Now    func() time.Time // nil = time.Now
}

// Services agrupa los services del dominio auth.
type Services struct {
	Auth AuthService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	return Services{Auth: NewAuthService(d)}
}
