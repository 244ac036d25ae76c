package captable

import (
	"errors"
	"fmt"
)

// Domain errors returned by the engine. They are caller-recoverable: the engine
// never mutates its inputs, so nothing needs to be rolled back.
var (
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidRatio       = errors.New("invalid split ratio")
	ErrInvalidRound       = errors.New("invalid round terms")
	ErrMissingTerms       = errors.New("missing terms")
	ErrAlreadyConverted   = errors.New("instrument already converted")
	ErrInvariant          = errors.New("invariant violated")
	ErrParse              = errors.New("parse error")
)

// ParseError reports an input that could not be read as a number.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// Unwrap makes errors.Is(err, ErrParse) true for every ParseError.
func (e *ParseError) Unwrap() error { return ErrParse }
