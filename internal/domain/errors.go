package domain

import "errors"

var (
	ErrUnknownSpread   = errors.New("unknown spread type")
	ErrUnknownCard     = errors.New("unknown card")
	ErrInvalidIndex    = errors.New("card index out of range")
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownInput    = errors.New("unknown input event")
	ErrLoopStopped     = errors.New("event loop stopped")
	ErrNoReading       = errors.New("reading not available yet")
	ErrInvalidBounds   = errors.New("invalid container bounds")
)
