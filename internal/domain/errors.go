package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrResolver   = errors.New("resolver failed")
	ErrFetch      = errors.New("fetch failed")
	ErrDecompress = errors.New("decompress failed")
	ErrValidation = errors.New("validation failed")
)

// ErrUnsupportedFormat is wrapped by DecompressError when no codec matches the payload
var ErrUnsupportedFormat = errors.New("unsupported compression format")

type ResolverErrorKind int

const (
	// ResolverStartFailure means the lookup tool could not be spawned at all
	ResolverStartFailure ResolverErrorKind = iota + 1
	// ResolverExitFailure means the lookup tool exited non-zero
	ResolverExitFailure
	// ResolverNoURL means the lookup tool succeeded but printed no http line
	ResolverNoURL
)

// ResolverError reports a failed share code lookup.
type ResolverError struct {
	Code     ShareCode
	Kind     ResolverErrorKind
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ResolverError) Error() string {
	switch e.Kind {
	case ResolverExitFailure:
		return fmt.Sprintf("resolver exited with code %d for %s. Stderr: %s", e.ExitCode, e.Code, e.Stderr)
	case ResolverNoURL:
		return fmt.Sprintf("resolver did not return a valid URL for %s. The share code might be invalid or expired", e.Code)
	default:
		return fmt.Sprintf("failed to run resolver for %s: %v", e.Code, e.Err)
	}
}

func (e *ResolverError) Is(target error) bool { return target == ErrResolver }
func (e *ResolverError) Unwrap() error        { return e.Err }

// FetchError covers network failures, non-2xx responses and timeouts.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download of %s failed: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download of %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Is(target error) bool { return target == ErrFetch }
func (e *FetchError) Unwrap() error        { return e.Err }

// DecompressError covers malformed or truncated streams and disk write failures
// while producing the decompressed file.
type DecompressError struct {
	Path string
	Err  error
}

func (e *DecompressError) Error() string {
	return fmt.Sprintf("decompression of %s failed: %v", e.Path, e.Err)
}

func (e *DecompressError) Is(target error) bool { return target == ErrDecompress }
func (e *DecompressError) Unwrap() error        { return e.Err }

// ValidationError is returned before any work is queued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError is shorthand for the common field/message case.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
