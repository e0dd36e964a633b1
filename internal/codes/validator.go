package codes

import (
	"errors"
	"fmt"
	"regexp"
)

// Validator checks and normalizes the values substituted into a tag's
// fragments. values[0] is $1, values[1] is $2 and so on. disabled is true
// when the tag renders in its disabled form. An error makes the interpreter
// leave the tag as literal text.
type Validator interface {
	Validate(values []string, disabled bool) ([]string, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(values []string, disabled bool) ([]string, error)

// Validate implements Validator.
func (f ValidatorFunc) Validate(values []string, disabled bool) ([]string, error) {
	return f(values, disabled)
}

// Sentinel errors returned by the built-in validators.
var (
	ErrInvalidValue = errors.New("invalid tag value")
	ErrUnsafeURL    = errors.New("unsafe URL scheme")
	ErrEmptyValue   = errors.New("empty tag value")
)

// RegexValidator rejects $1 values not matching Pattern.
type RegexValidator struct {
	Pattern     *regexp.Regexp
	Description string
}

// Validate implements Validator.
func (v *RegexValidator) Validate(values []string, _ bool) ([]string, error) {
	if len(values) == 0 || !v.Pattern.MatchString(values[0]) {
		return nil, fmt.Errorf("%w: expected %s", ErrInvalidValue, v.Description)
	}
	return values, nil
}

// Chain runs validators in order, feeding each the previous output.
func Chain(validators ...Validator) Validator {
	return ValidatorFunc(func(values []string, disabled bool) ([]string, error) {
		var err error
		for _, v := range validators {
			if v == nil {
				continue
			}
			values, err = v.Validate(values, disabled)
			if err != nil {
				return nil, err
			}
		}
		return values, nil
	})
}

// Run applies v when set, returning values unchanged otherwise.
func Run(v Validator, values []string, disabled bool) ([]string, error) {
	if v == nil {
		return values, nil
	}
	return v.Validate(values, disabled)
}
