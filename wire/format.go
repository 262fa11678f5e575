// Package wire implements the LNMP binary frame codec (spec §4.6/§4.7):
// owned encode/decode of frame versions 0x04 (flat) and 0x05 (nested),
// plus zero-copy view decoding.
package wire

import "github.com/lnmplang/lnmp/endian"

// Endian is the fixed byte order of every fixed-width field in a binary
// frame (FID, Float payloads, FloatArray elements). Unlike the reference
// implementation this package generalizes, LNMP's wire endianness is not
// a construction option: spec §6.4 mandates little-endian for the wire
// format and big-endian only for the container header, so each package
// holds its own fixed engine instead of threading one through.
var Endian = endian.GetLittleEndianEngine()

// Version identifies a binary frame's leading version byte.
type Version uint8

const (
	// VersionFlat is emitted when a record contains no NestedRecord or
	// NestedArray values anywhere in its field tree.
	VersionFlat Version = 0x04
	// VersionNested is emitted as soon as any field (at any depth)
	// holds a NestedRecord or NestedArray value.
	VersionNested Version = 0x05
)

// Tag identifies the type of a single entry's payload (spec §4.6).
type Tag uint8

const (
	TagInt                Tag = 0x01
	TagFloat              Tag = 0x02
	TagBool               Tag = 0x03
	TagString             Tag = 0x04
	TagStringArray        Tag = 0x05
	TagNestedRecord       Tag = 0x06
	TagNestedArray        Tag = 0x07
	TagEmbedding          Tag = 0x08
	TagHybridNumericArray Tag = 0x09
	TagQuantizedEmbedding Tag = 0x0A
	TagIntArray           Tag = 0x0B
	TagFloatArray         Tag = 0x0C
	TagBoolArray          Tag = 0x0D
)

// hybrid dtype codes packed into HybridNumericArray's flags byte, bits 0-1.
const (
	hybridDTypeI32 = 0
	hybridDTypeI64 = 1
	hybridDTypeF32 = 2
	hybridDTypeF64 = 3
)

const hybridSparseBit = 1 << 2

// reservedFrameFlags is the only valid flags byte in this version; every
// bit is reserved (spec §4.6).
const reservedFrameFlags = 0x00
