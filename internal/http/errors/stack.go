package errors

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// stackError guarda los frames del punto donde se envolvió el error.
type stackError struct {
	err error
	pcs []uintptr
}

func (e *stackError) Error() string { return e.err.Error() }
func (e *stackError) Unwrap() error { return e.err }

// StackTrace devuelve un frame por línea: "at pkg.Func (file.go:123)".
func (e *stackError) StackTrace() string {
	frames := runtime.CallersFrames(e.pcs)
	var b strings.Builder
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "at %s (%s:%d)\n", shortFunc(f.Function), filepath.Base(f.File), f.Line)
		if !more {
			break
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// WithStack anota err con el stack del caller. nil queda nil y un error que
// ya tiene stack no se vuelve a envolver.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	var st *stackError
	if stderrors.As(err, &st) {
		return err
	}
	return capture(err)
}

// capture salta runtime.Callers, capture y WithStack/Errorf.
func capture(err error) *stackError {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	return &stackError{err: err, pcs: pcs[:n]}
}

// Errorf es fmt.Errorf + WithStack; si algún %w ya trae stack se conserva
// ese, que es el más cercano al origen.
func Errorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	var st *stackError
	if stderrors.As(err, &st) {
		return err
	}
	return capture(err)
}

// stackOf devuelve el stack anotado en la cadena de err, o "".
func stackOf(err error) string {
	var st *stackError
	if stderrors.As(err, &st) {
		return st.StackTrace()
	}
	return ""
}

func shortFunc(fn string) string {
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		return fn[i+1:]
	}
	return fn
}
