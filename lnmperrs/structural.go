package lnmperrs

import "errors"

// Structural errors (4000-4099): the record as a whole cannot be built,
// independent of any single field's lexical or semantic validity.
var (
	ErrOutOfOrderFID     = errors.New("lnmp: fields not in ascending fid order")
	ErrTrailingData      = errors.New("lnmp: trailing data after record")
	ErrEmptyInput        = errors.New("lnmp: empty input")
)
