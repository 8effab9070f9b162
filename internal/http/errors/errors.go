// Package errors define la taxonomía de errores HTTP y su serialización.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe err como {code, message, detail?}. Errores que no son
// AppError salen como INTERNAL_ERROR.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)
	writeJSON(w, appErr.HTTPStatus, errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}

type debugResponse struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// StackLines es la cantidad de líneas del stack incluidas en respuestas de debug.
const StackLines = 4

// WriteDebug escribe un 500 verboso para entornos de desarrollo: label
// identifica la operación (p.ej. SIGNUP_FAILED), detail lleva el código de
// la causa cuando lo hay y stack las primeras líneas del stack capturado con
// WithStack/Errorf (se omite si la causa no lo tiene). No usar en producción.
func WriteDebug(w http.ResponseWriter, label string, cause error) {
	msg := "Unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	writeJSON(w, http.StatusInternalServerError, debugResponse{
		Code:    ErrInternal.Code,
		Error:   label,
		Message: msg,
		Detail:  causeCode(cause),
		Stack:   firstLines(stackOf(cause), StackLines),
	})
}

// causeCode extrae un código de error de la causa (SQLSTATE en Postgres).
func causeCode(err error) string {
	var coded interface{ SQLState() string }
	if stderrors.As(err, &coded) {
		return coded.SQLState()
	}
	return ""
}

func firstLines(s string, n int) string {
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
