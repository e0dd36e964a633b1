// Package yamlutil is the one place YAML is decoded. Configuration files and
// smiley set definitions go through it so they share size limits and
// strictness rules.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// DefaultMaxInputSize limits YAML input to prevent memory exhaustion (1MB).
const DefaultMaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

type options struct {
	maxSize int
	strict  bool
}

// Option adjusts a single decode call.
type Option func(*options)

// WithMaxSize overrides DefaultMaxInputSize. Values <= 0 are ignored.
func WithMaxSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

func validateInput(data []byte, v any, limit int) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > limit {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), limit)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func decode(data []byte, v any, o options) error {
	if err := validateInput(data, v, o.maxSize); err != nil {
		return err
	}
	var decodeOpts []yaml.DecodeOption
	if o.strict {
		decodeOpts = append(decodeOpts, yaml.Strict())
	}
	if err := yaml.UnmarshalWithOptions(data, v, decodeOpts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

func collect(strict bool, opts []Option) options {
	o := options{maxSize: DefaultMaxInputSize, strict: strict}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Unmarshal decodes data into v, ignoring unknown fields.
func Unmarshal(data []byte, v any, opts ...Option) error {
	return decode(data, v, collect(false, opts))
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any, opts ...Option) error {
	return decode(data, v, collect(true, opts))
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}
