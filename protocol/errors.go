package protocol

import (
	"errors"
	"fmt"

	"github.com/njchilds90/geoprover/algebra"
)

// Validation errors: detected structurally, before any algebra runs.
var (
	ErrNilConstruction     = errors.New("protocol: nil construction")
	ErrEmptyLabel          = errors.New("protocol: empty label")
	ErrDuplicateLabel      = errors.New("protocol: duplicate label")
	ErrUnregisteredInput   = errors.New("protocol: input is not registered")
	ErrInputOutOfOrder     = errors.New("protocol: input is not constructed before its user")
	ErrForeignConstruction = errors.New("protocol: construction belongs to another protocol")
	ErrAlreadyRegistered   = errors.New("protocol: construction already registered")
)

// Compilation errors.
var (
	ErrBadPolynomial         = errors.New("protocol: no candidate yields a usable polynomial")
	ErrDegenerate            = errors.New("protocol: degenerate relation")
	ErrUnsupportedDefinition = errors.New("protocol: unsupported point definition")
	ErrOutput                = errors.New("protocol: diagnostic output failed")
)

// CompileError names the construction whose compilation failed. Earlier
// constructions remain compiled.
type CompileError struct {
	Label  string
	Reason string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %s: %v", e.Label, e.Reason, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

func newCompileError(label string, err error) *CompileError {
	return &CompileError{Label: label, Reason: reason(err), Err: err}
}

func reason(err error) string {
	switch {
	case errors.Is(err, algebra.ErrUnboundSlot), errors.Is(err, algebra.ErrUnassignedCoordinates):
		return "instantiation"
	case errors.Is(err, ErrDegenerate):
		return "degenerate"
	case errors.Is(err, ErrBadPolynomial):
		return "bad polynomial"
	case errors.Is(err, ErrOutput):
		return "output"
	case errors.Is(err, ErrUnsupportedDefinition):
		return "unsupported"
	}
	return "general"
}
