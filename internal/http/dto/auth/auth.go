// Package auth contiene los DTOs de los endpoints /auth.
package auth

import "github.com/ameyasuite/backend/internal/domain/repository"

// SignupRequest es el body de POST /auth/signup y /auth/register. Si
// faltan firstName y lastName, name se parte en el primer espacio.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Name      string `json:"name,omitempty"`
}

// CompanySignupRequest es el body de POST /auth/company-signup. Email,
// Password y CompanyName son obligatorios.
type CompanySignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`

	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Name      string `json:"name,omitempty"`

	ThemeColor   string `json:"themeColor,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CompanyEmail string `json:"companyEmail,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zipCode,omitempty"`
}

// LoginRequest es el body de POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse envuelve al usuario saneado ({user}).
type UserResponse struct {
	User *repository.PublicUser `json:"user"`
}

type CompanySignupResponse struct {
	User    *repository.PublicUser `json:"user"`
	Company *repository.Company    `json:"company"`
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}
