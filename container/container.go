// Package container implements the LNMP Container v1 envelope (spec
// §4.10): a fixed 12-byte header plus mode-specific metadata wrapping a
// text, binary, stream, or delta payload.
package container

import (
	"fmt"

	"github.com/lnmplang/lnmp/endian"
	"github.com/lnmplang/lnmp/lnmperrs"
	"github.com/lnmplang/lnmp/stream"
)

// HeaderEndian is the fixed big-endian byte order of every multi-byte
// container header and metadata field (spec §6.4) — unlike wire.Endian,
// the container header is never little-endian.
var HeaderEndian = endian.GetBigEndianEngine()

const (
	headerSize = 12
	magic      = "LNMP"
	version1   = 0x01
)

// Mode identifies the payload kind a container wraps.
type Mode uint8

const (
	ModeText   Mode = 0x01
	ModeBinary Mode = 0x02
	ModeStream Mode = 0x03
	ModeDelta  Mode = 0x04
	// ModeReserved (0x05) is reserved for future use; decoders reject it.
	ModeReserved Mode = 0x05
)

const (
	streamMetadataLen = 6
	deltaMetadataLen  = 10
)

// reservedFlagMask isolates spec §4.10's named reserved bits: 1-4
// (crypto/compression, unused in this version) and 15 (ext_meta_block).
// Bit 0 (checksum hint) and bits 5-14 are not reserved.
const reservedFlagMask uint16 = 0b1000_0000_0001_1110

// StreamMetadata is the 6-byte metadata block required in Stream mode.
type StreamMetadata struct {
	ChunkSize     uint32
	ChecksumType  stream.ChecksumKind
	Flags         uint8
}

// DeltaMetadata is the 10-byte metadata block required in Delta mode.
type DeltaMetadata struct {
	BaseSnapshot uint64
	Algorithm    uint8
	Compression  uint8
}

// Header is the decoded fixed portion of a container (spec §4.10).
type Header struct {
	Version        uint8
	Mode           Mode
	Flags          uint16
	MetadataLength uint32
}

// Wrap renders a container byte string: the 12-byte header, followed by
// metadata (if mode requires it), followed by payload verbatim.
func Wrap(mode Mode, flags uint16, metadata []byte, payload []byte) ([]byte, error) {
	if flags&reservedFlagMask != 0 {
		return nil, lnmperrs.ErrReservedFlags
	}
	if err := validateModeMetadata(mode, metadata); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, headerSize+len(metadata)+len(payload))
	buf = append(buf, magic...)
	buf = append(buf, version1, byte(mode))
	buf = HeaderEndian.AppendUint16(buf, flags)
	buf = HeaderEndian.AppendUint32(buf, uint32(len(metadata)))
	buf = append(buf, metadata...)
	buf = append(buf, payload...)

	return buf, nil
}

// Unwrap parses a container byte string into its header, mode-specific
// metadata, and payload. It rejects unknown magic/version/mode, any
// reserved flag bit, a metadata length that doesn't match the mode's
// required size, and a metadata/payload split that overflows the buffer
// (spec §4.10).
func Unwrap(data []byte) (Header, []byte, []byte, error) {
	if len(data) < headerSize {
		return Header{}, nil, nil, lnmperrs.ErrTruncatedMetadata
	}
	if string(data[0:4]) != magic {
		return Header{}, nil, nil, lnmperrs.ErrInvalidMagic
	}

	version := data[4]
	if version != version1 {
		return Header{}, nil, nil, fmt.Errorf("%w: 0x%02x", lnmperrs.ErrUnsupportedVersion, version)
	}

	mode := Mode(data[5])
	if !validMode(mode) {
		return Header{}, nil, nil, fmt.Errorf("%w: 0x%02x", lnmperrs.ErrUnknownMode, byte(mode))
	}

	flags := HeaderEndian.Uint16(data[6:8])
	if flags&reservedFlagMask != 0 {
		return Header{}, nil, nil, lnmperrs.ErrReservedFlags
	}

	metaLen := HeaderEndian.Uint32(data[8:12])

	h := Header{Version: version, Mode: mode, Flags: flags, MetadataLength: metaLen}

	if headerSize+int(metaLen) > len(data) {
		return Header{}, nil, nil, lnmperrs.ErrTruncatedMetadata
	}
	metadata := data[headerSize : headerSize+int(metaLen)]
	payload := data[headerSize+int(metaLen):]

	if err := validateModeMetadata(mode, metadata); err != nil {
		return Header{}, nil, nil, err
	}

	return h, metadata, payload, nil
}

func validMode(m Mode) bool {
	switch m {
	case ModeText, ModeBinary, ModeStream, ModeDelta:
		return true
	default:
		return false
	}
}

func validateModeMetadata(mode Mode, metadata []byte) error {
	switch mode {
	case ModeText, ModeBinary:
		if len(metadata) != 0 {
			return fmt.Errorf("%w: mode %v requires no metadata, got %d bytes", lnmperrs.ErrInvalidMetadataLength, mode, len(metadata))
		}
	case ModeStream:
		if len(metadata) != streamMetadataLen {
			return fmt.Errorf("%w: stream mode requires %d bytes, got %d", lnmperrs.ErrInvalidMetadataLength, streamMetadataLen, len(metadata))
		}
		if _, err := ParseStreamMetadata(metadata); err != nil {
			return err
		}
	case ModeDelta:
		if len(metadata) != deltaMetadataLen {
			return fmt.Errorf("%w: delta mode requires %d bytes, got %d", lnmperrs.ErrInvalidMetadataLength, deltaMetadataLen, len(metadata))
		}
		if _, err := ParseDeltaMetadata(metadata); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: 0x%02x", lnmperrs.ErrUnknownMode, byte(mode))
	}

	return nil
}

// ParseStreamMetadata decodes a Stream-mode metadata block, rejecting an
// unrecognized checksum type as ErrInvalidMetadataValue.
func ParseStreamMetadata(metadata []byte) (StreamMetadata, error) {
	if len(metadata) != streamMetadataLen {
		return StreamMetadata{}, fmt.Errorf("%w: expected %d bytes, got %d", lnmperrs.ErrInvalidMetadataLength, streamMetadataLen, len(metadata))
	}

	checksumType := stream.ChecksumKind(metadata[4])
	if checksumType != stream.ChecksumNone && checksumType != stream.ChecksumXOR32 && checksumType != stream.ChecksumSC32 {
		return StreamMetadata{}, fmt.Errorf("%w: unknown checksum type %d", lnmperrs.ErrInvalidMetadataValue, checksumType)
	}

	return StreamMetadata{
		ChunkSize:    HeaderEndian.Uint32(metadata[0:4]),
		ChecksumType: checksumType,
		Flags:        metadata[5],
	}, nil
}

// EncodeStreamMetadata renders m as a 6-byte Stream-mode metadata block.
func EncodeStreamMetadata(m StreamMetadata) []byte {
	buf := make([]byte, 0, streamMetadataLen)
	buf = HeaderEndian.AppendUint32(buf, m.ChunkSize)
	buf = append(buf, byte(m.ChecksumType), m.Flags)
	return buf
}

// ParseDeltaMetadata decodes a Delta-mode metadata block. Compression is
// reserved in this version (spec §4.9: "reserved: 0 raw") — any non-zero
// value is rejected with an error matching both ErrInvalidMetadataValue
// and ErrCompressionReserved.
func ParseDeltaMetadata(metadata []byte) (DeltaMetadata, error) {
	if len(metadata) != deltaMetadataLen {
		return DeltaMetadata{}, fmt.Errorf("%w: expected %d bytes, got %d", lnmperrs.ErrInvalidMetadataLength, deltaMetadataLen, len(metadata))
	}

	compression := metadata[9]
	if compression != 0 {
		return DeltaMetadata{}, fmt.Errorf("%w: %w: compression %d", lnmperrs.ErrInvalidMetadataValue, lnmperrs.ErrCompressionReserved, compression)
	}

	return DeltaMetadata{
		BaseSnapshot: HeaderEndian.Uint64(metadata[0:8]),
		Algorithm:    metadata[8],
		Compression:  compression,
	}, nil
}

// EncodeDeltaMetadata renders m as a 10-byte Delta-mode metadata block.
func EncodeDeltaMetadata(m DeltaMetadata) []byte {
	buf := make([]byte, 0, deltaMetadataLen)
	buf = HeaderEndian.AppendUint64(buf, m.BaseSnapshot)
	buf = append(buf, m.Algorithm, m.Compression)
	return buf
}

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeBinary:
		return "binary"
	case ModeStream:
		return "stream"
	case ModeDelta:
		return "delta"
	case ModeReserved:
		return "reserved"
	default:
		return "unknown"
	}
}
