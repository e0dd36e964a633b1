package bbc

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrMessageTooLarge = errors.New("message exceeds maximum size")
	ErrInvalidInput    = errors.New("invalid input")
	ErrRender          = errors.New("rendering failed")

	// Smiley errors.
	ErrSmileySetNotFound = errors.New("smiley set not found")
	ErrSmileySource      = errors.New("smiley source failed")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
