package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	httperrors "github.com/ameyasuite/backend/internal/http/errors"
)

// MaxBodyBytes limita el cuerpo de las requests JSON.
const MaxBodyBytes = 1 << 20

// ReadJSON decodifica el body en v de forma tolerante (campos desconocidos se
// ignoran). Un body vacío deja v sin tocar. Devuelve false si ya escribió la
// respuesta de error.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperrors.WriteError(w, httperrors.ErrBodyTooLarge)
			return false
		}
		httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithCause(err))
		return false
	}
	return true
}

// WriteJSON escribe una respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
