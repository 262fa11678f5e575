// Package lnmp provides convenient top-level wrappers around LNMP's
// codec packages (text, wire, stream, delta, container, checksum),
// covering the core operation contract spec §6.1 names: parse, encode,
// sanitize, checksum, diff/apply, stream chunking, and container
// wrapping.
//
// For advanced usage and fine-grained control, use the underlying
// packages directly — this package only bundles their most common call
// shapes behind one import.
package lnmp

import (
	"github.com/lnmplang/lnmp/checksum"
	"github.com/lnmplang/lnmp/container"
	"github.com/lnmplang/lnmp/delta"
	"github.com/lnmplang/lnmp/profile"
	"github.com/lnmplang/lnmp/record"
	"github.com/lnmplang/lnmp/sanitize"
	"github.com/lnmplang/lnmp/stream"
	"github.com/lnmplang/lnmp/text"
	"github.com/lnmplang/lnmp/wire"
)

// Parse parses canonical or non-canonical LNMP text into a Record under
// the given profile (spec §4.4).
//
// Example:
//
//	r, err := lnmp.Parse([]byte("F1=alice\nF7=1"), profile.Standard())
func Parse(src []byte, prof profile.Profile) (*record.Record, error) {
	return text.Parse(src, prof)
}

// Sanitize repairs LLM-produced text so it parses the way a
// human-authored canonical record would (spec §4.3). dict may be nil to
// disable boolean-synonym normalization.
func Sanitize(src string, dict sanitize.SemanticDictionary) string {
	return sanitize.Sanitize(src, dict)
}

// EncodeText renders r as canonical LNMP text: fields sorted ascending
// by FID, nested records canonicalized recursively, no extraneous
// whitespace (spec §4.5). r is sorted in place as a side effect.
func EncodeText(r *record.Record) (string, error) {
	return text.Encode(r)
}

// CanonicalHash returns a hash stable across textually different but
// semantically equivalent encodings of r, suitable for deduplication or
// change detection (spec §4.5).
func CanonicalHash(r *record.Record) (uint64, error) {
	return text.CanonicalHash(r)
}

// EncodeBinary renders r as an LNMP binary frame (spec §4.6): version
// 0x04 if every value is flat, 0x05 if any field nests a record or
// record array, raised further to prof.MinBinaryVersion if that floor
// is higher. r is sorted in place as a side effect.
func EncodeBinary(r *record.Record, prof profile.Profile) ([]byte, error) {
	return wire.Encode(r, prof)
}

// DecodeBinary parses an LNMP binary frame into an owned Record,
// materializing every string and array (spec §4.7).
func DecodeBinary(data []byte, prof profile.Profile) (*record.Record, error) {
	return wire.Decode(data, prof)
}

// DecodeBinaryView parses an LNMP binary frame into a RecordView: string
// and aligned native-endian float-array fields borrow directly from
// data instead of being copied, so data must outlive the returned view
// (spec §4.7's zero-copy decode path).
func DecodeBinaryView(data []byte, prof profile.Profile) (*wire.RecordView, error) {
	return wire.DecodeView(data, prof)
}

// Checksum computes the SC32 checksum of a single field's canonical
// rendering (spec §4.2): a CRC32/ISO-HDLC value over
// `fid:hint:canonical_value`.
func Checksum(fid uint16, hint string, canonicalValue []byte) uint32 {
	return checksum.Compute(fid, hint, canonicalValue)
}

// Diff produces the Set/Update/Delete operations that transform a into
// b (spec §4.9). Both records are sorted in place as a side effect.
func Diff(a, b *record.Record) []delta.Op {
	return delta.Diff(a, b)
}

// Apply applies ops to r and returns the resulting record, without
// mutating r. Update or Delete of a field absent from r is an error
// (spec §4.9).
func Apply(r *record.Record, ops []delta.Op) (*record.Record, error) {
	return delta.Apply(r, ops)
}

// StreamEncode splits payload into length-prefixed, sequence-numbered
// chunks no larger than chunkSize, each optionally checksummed, followed
// by a zero-length terminator chunk (spec §4.8).
func StreamEncode(payload []byte, chunkSize int, kind stream.ChecksumKind) [][]byte {
	return stream.Encode(payload, chunkSize, kind)
}

// StreamDecode reassembles chunks produced by StreamEncode back into
// the original payload, validating sequence monotonicity and, if kind
// requires it, each chunk's checksum (spec §4.8).
func StreamDecode(frames [][]byte, kind stream.ChecksumKind) ([]byte, error) {
	return stream.Decode(frames, kind)
}

// ContainerWrap wraps payload in a Container v1 envelope (spec §4.10):
// a fixed 12-byte header plus mode-specific metadata.
func ContainerWrap(mode container.Mode, flags uint16, metadata []byte, payload []byte) ([]byte, error) {
	return container.Wrap(mode, flags, metadata, payload)
}

// ContainerUnwrap parses a Container v1 envelope into its header,
// mode-specific metadata, and payload.
func ContainerUnwrap(data []byte) (container.Header, []byte, []byte, error) {
	return container.Unwrap(data)
}
