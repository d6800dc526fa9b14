// Package container implements the GIF87a/GIF89a container parser: the
// demuxer that turns a byte slice into a structured sequence of frames and
// extensions, without touching the compressed image data it carries.
package container

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every ParseError wraps one of these so that callers
// can classify a failure with errors.Is instead of matching on strings.
var (
	ErrInvalidSignature = errors.New("gif: invalid signature")
	ErrMalformed        = errors.New("gif: malformed block")
	ErrTruncated        = errors.New("gif: truncated input")
)

// ParseError is returned for any structural failure. Offset is the byte
// position in the input where the failure was detected.
type ParseError struct {
	Kind   error
	Offset int
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

func newErr(kind error, offset int, detail string) *ParseError {
	return &ParseError{Kind: kind, Offset: offset, Detail: detail}
}
