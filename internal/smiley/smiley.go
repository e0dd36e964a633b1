// Package smiley replaces smiley codes and emoji shortcodes in rendered
// message text with images and Unicode glyphs.
package smiley

import (
	"errors"
	"fmt"

	"github.com/elkarte/go-bbc/internal/yamlutil"
)

// Marker separates text chunks that must not receive emoji conversion. Only
// the first chunk is scanned for :shortcodes:; the marker itself is dropped.
const Marker = "\uE003"

// Sentinel errors.
var (
	ErrEmptySet     = errors.New("smiley set has no entries")
	ErrInvalidSet   = errors.New("invalid smiley set")
	ErrSetNotFound  = errors.New("smiley set not found")
	ErrSourceFailed = errors.New("smiley source failed")
)

// Smiley is one code to image mapping.
type Smiley struct {
	Code        string `yaml:"code"`
	Filename    string `yaml:"filename"`
	Description string `yaml:"description"`
}

// Set is a named collection of smileys. Order is preserved; the parser
// sorts by code length itself.
type Set struct {
	Name    string   `yaml:"name"`
	Smileys []Smiley `yaml:"smileys"`
}

// Validate checks that every entry has a code and an image.
func (s Set) Validate() error {
	for i, sm := range s.Smileys {
		if sm.Code == "" {
			return fmt.Errorf("%w: entry %d has no code", ErrInvalidSet, i)
		}
		if sm.Filename == "" {
			return fmt.Errorf("%w: %q has no filename", ErrInvalidSet, sm.Code)
		}
	}
	return nil
}

// DecodeSet parses a YAML smiley set definition.
func DecodeSet(data []byte) (Set, error) {
	var s Set
	if err := yamlutil.UnmarshalStrict(data, &s); err != nil {
		return Set{}, fmt.Errorf("%w: %v", ErrInvalidSet, err)
	}
	if err := s.Validate(); err != nil {
		return Set{}, err
	}
	return s, nil
}
