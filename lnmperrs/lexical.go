// Package lnmperrs defines the sentinel error taxonomy shared by every LNMP
// codec package. Errors are grouped into files by the published error-code
// range (see spec §6.5) purely for navigation; callers match on the sentinel
// itself via errors.Is, never on a numeric code.
package lnmperrs

import "errors"

// Lexical errors (1000-1099): malformed characters/tokens before any
// structural interpretation is attempted.
var (
	ErrInvalidCharacter       = errors.New("lnmp: invalid character")
	ErrUnterminatedString     = errors.New("lnmp: unterminated string")
	ErrInvalidEscapeSequence  = errors.New("lnmp: invalid escape sequence")
	ErrUnexpectedToken        = errors.New("lnmp: unexpected token")
	ErrUnexpectedEOF          = errors.New("lnmp: unexpected end of input")
	ErrInvalidNumberLiteral   = errors.New("lnmp: invalid number literal")
)
