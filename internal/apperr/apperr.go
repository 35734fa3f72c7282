// internal/apperr/apperr.go

package apperr

import "fmt"

// Kind classifies an application error for recovery policy purposes.
type Kind int

const (
	Config Kind = iota
	Validation
	Process
	Parse
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Validation:
		return "validation"
	case Process:
		return "process"
	case Parse:
		return "parse"
	default:
		return "unknown"
	}
}

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func Newf(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}
