package helpers

import (
	"net/http"
	"strings"
	"time"
)

// CookieOptions son los atributos compartidos por la cookie de sesión y su
// cookie de borrado. Ambas deben coincidir para que el navegador la elimine.
type CookieOptions struct {
	Name     string
	Domain   string
	SameSite string
	Secure   bool
	MaxAge   time.Duration
}

func ParseSameSite(s string) http.SameSite {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// BuildCookie arma la cookie de sesión (HttpOnly, Path "/").
func BuildCookie(opts CookieOptions, value string, now time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     opts.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: ParseSameSite(opts.SameSite),
	}
	if strings.TrimSpace(opts.Domain) != "" {
		ck.Domain = opts.Domain
	}
	if opts.MaxAge > 0 {
		ck.Expires = now.Add(opts.MaxAge).UTC()
		ck.MaxAge = int(opts.MaxAge.Seconds())
	}
	return ck
}

// BuildDeletionCookie arma la cookie que invalida la sesión en el cliente.
func BuildDeletionCookie(opts CookieOptions) *http.Cookie {
	ck := &http.Cookie{
		Name:     opts.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: ParseSameSite(opts.SameSite),
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
	}
	if strings.TrimSpace(opts.Domain) != "" {
		ck.Domain = opts.Domain
	}
	return ck
}
