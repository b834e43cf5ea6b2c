package codec

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a hex string could not be decoded.
type ErrorKind int

const (
	// OddLength means the input had an odd number of bytes.
	OddLength ErrorKind = iota + 1
	// InvalidDigit means a two-character window was not valid base-16.
	InvalidDigit
)

// String returns the label used for the kind in metrics and API responses.
func (k ErrorKind) String() string {
	switch k {
	case OddLength:
		return "odd_length"
	case InvalidDigit:
		return "invalid_digit"
	default:
		return "unknown"
	}
}

var (
	// ErrOddLength is matched by errors.Is for every OddLength DecodeError.
	ErrOddLength = errors.New("input string has an odd number of bytes")
	// ErrInvalidDigit is matched by errors.Is for every InvalidDigit DecodeError.
	ErrInvalidDigit = errors.New("invalid hex digit")
)

// DecodeError is returned by HexToBytes.
type DecodeError struct {
	Kind ErrorKind
	// Offset is the byte offset of the failing window. Zero for OddLength.
	Offset int
	// Err is the underlying parse failure for InvalidDigit.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Kind == OddLength {
		return ErrOddLength.Error()
	}
	return fmt.Sprintf("%s at offset %d: %v", ErrInvalidDigit, e.Offset, e.Err)
}

// Unwrap exposes the parse failure.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrOddLength:
		return e.Kind == OddLength
	case ErrInvalidDigit:
		return e.Kind == InvalidDigit
	}
	return false
}

// KindOf extracts the ErrorKind from err if it wraps a *DecodeError.
func KindOf(err error) (ErrorKind, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
