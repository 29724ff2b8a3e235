package gallery

import (
	"errors"

	"github.com/leca/image-cdn/internal/imageproc"
)

// Validation errors. These map to 400 responses and are never retried.
var (
	ErrEmptyUpload = errors.New("file is empty or incomplete")
	ErrNotAnImage  = errors.New("the file you uploaded is not an image")

	// ErrInvalidSize is re-exported so callers need only this package.
	ErrInvalidSize = imageproc.ErrInvalidSize
)

var (
	// ErrNotFound covers unknown ids and images whose dimensions cannot be
	// probed.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps every Blob Store failure. Details are logged, never
	// shown to clients.
	ErrStorage = errors.New("storage failure")
)

// IsValidation reports whether err is a client-side validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyUpload) ||
		errors.Is(err, ErrNotAnImage) ||
		errors.Is(err, ErrInvalidSize)
}

// notFoundError is a miss with a client-facing message.
type notFoundError struct {
	msg string
	err error
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *notFoundError) Unwrap() error { return e.err }
