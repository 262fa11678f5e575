package lnmperrs

import "errors"

// Binary-specific errors (6000-6099): failures from the v0x04/v0x05 frame
// decoder, shared by owned and zero-copy view decode.
var (
	ErrInvalidMagic        = errors.New("lnmp: invalid magic")
	ErrUnsupportedVersion  = errors.New("lnmp: unsupported frame version")
	ErrReservedFlags       = errors.New("lnmp: reserved flag bit set")
	ErrUnknownTypeTag      = errors.New("lnmp: unknown binary type tag")
	ErrNonCanonicalVarInt  = errors.New("lnmp: non-canonical varint encoding")
	ErrVarIntTooLong       = errors.New("lnmp: varint longer than 10 bytes")
	ErrTruncatedPayload    = errors.New("lnmp: truncated binary payload")
	ErrInvalidUtf8Binary   = errors.New("lnmp: invalid utf-8 in binary string payload")
	ErrDepthExceeded       = errors.New("lnmp: nested depth exceeds profile limit")
	ErrMisalignedView      = errors.New("lnmp: buffer misaligned for zero-copy typed slice")
)
