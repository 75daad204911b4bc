package hxmarkup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pthm/hxmarkup/lib/encoding"
)

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// Bundle is an alias for encoding.Bundle for convenience.
type Bundle = encoding.Bundle

// NewEncoder creates a new encoder with the given key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

// LoadBundle reads a bundle written by "hxmarkup compile". Signed and
// encrypted bundles are told apart by their format.
func LoadBundle(r io.Reader, key []byte) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("hxmarkup: read bundle: %w", err)
	}
	enc, err := NewEncoder(key)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(data))
	b, err := enc.DecodeBundle(text, !strings.Contains(text, "."))
	if err != nil {
		return nil, wrapEncodingError(err)
	}
	return b, nil
}

// wrapEncodingError wraps encoding package errors with ErrInvalidBundle.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) ||
		errors.Is(err, encoding.ErrSignatureInvalid) ||
		errors.Is(err, encoding.ErrDecryptFailed) {
		return fmt.Errorf("%w: %w", ErrInvalidBundle, err)
	}
	return err
}
