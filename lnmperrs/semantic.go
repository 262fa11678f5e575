package lnmperrs

import "errors"

// Semantic errors (3000-3099): syntactically valid input whose meaning
// violates a type or value constraint.
var (
	ErrTypeHintMismatch  = errors.New("lnmp: type hint does not match value")
	ErrInvalidValue      = errors.New("lnmp: invalid value for field type")
	ErrChecksumMismatch  = errors.New("lnmp: checksum mismatch")
	ErrDuplicateField    = errors.New("lnmp: duplicate field id")
)
