package lnmperrs

import "errors"

// Strict-mode violations (5000-5099): input that loose/standard profiles
// would repair or tolerate but strict profile rejects outright.
var (
	ErrStrictModeViolation  = errors.New("lnmp: strict mode violation")
	ErrNonCanonicalNumber   = errors.New("lnmp: non-canonical number literal")
	ErrNonCanonicalBoolean  = errors.New("lnmp: non-canonical boolean literal")
	ErrExtraneousWhitespace = errors.New("lnmp: extraneous whitespace in strict profile")
	ErrTrailingSeparator    = errors.New("lnmp: trailing separator in strict profile")
	ErrInvalidUTF8          = errors.New("lnmp: invalid utf-8 in strict profile")
)
