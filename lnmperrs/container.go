package lnmperrs

import "errors"

// Container/stream/delta errors (7000-7099).
var (
	ErrInvalidMetadataLength = errors.New("lnmp: invalid container metadata length")
	ErrInvalidMetadataValue  = errors.New("lnmp: invalid container metadata value")
	ErrTruncatedMetadata     = errors.New("lnmp: truncated container metadata")
	ErrUnknownMode           = errors.New("lnmp: unknown container mode")

	ErrStreamChecksumMismatch = errors.New("lnmp: stream chunk checksum mismatch")
	ErrStreamSequenceGap      = errors.New("lnmp: stream chunk sequence gap")

	ErrDeltaApplyMismatch = errors.New("lnmp: delta apply mismatch")

	ErrCompressionReserved = errors.New("lnmp: compression is reserved and not implemented in this version")
)
