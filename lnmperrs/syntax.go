package lnmperrs

import "errors"

// Syntactic errors (2000-2099): well-formed tokens arranged in a way the
// grammar in spec §4.4 does not allow.
var (
	ErrInvalidFieldID        = errors.New("lnmp: field id out of range")
	ErrInvalidTypeHint       = errors.New("lnmp: unknown type hint")
	ErrInvalidNestedStruct   = errors.New("lnmp: invalid nested structure")
	ErrUnclosedNestedStruct  = errors.New("lnmp: unclosed nested structure")
	ErrNestingTooDeep        = errors.New("lnmp: nesting exceeds depth limit")
	ErrArrayTooLong          = errors.New("lnmp: array exceeds configured limit")
	ErrStringTooLong         = errors.New("lnmp: string exceeds configured limit")
)
