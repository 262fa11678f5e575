// Package varint implements the minimal LEB128 variable-length integer
// codec used for every VarInt-typed field in LNMP's binary frames:
// entry counts, array counts, string lengths, and Integer payloads
// (zigzag-transformed first).
//
// Encoding mirrors the fast-path style of a delta-of-delta timestamp
// encoder: a one-byte fast path for small values, a two-byte fast path
// for the next magnitude, and a general loop above that. Decoding adds
// what encoding/binary's Uvarint does not provide: detection of
// non-minimal (overlong) encodings, required by spec §4.1.
package varint

import "github.com/lnmplang/lnmp/lnmperrs"

// MaxLen is the maximum number of bytes a 64-bit VarInt can occupy.
const MaxLen = 10

// EncodeUnsigned appends the LEB128 encoding of v to dst and returns the
// extended slice.
func EncodeUnsigned(dst []byte, v uint64) []byte {
	// Fast path: value fits in a single 7-bit group.
	if v < 0x80 {
		return append(dst, byte(v))
	}

	// Fast path: value fits in two 7-bit groups.
	if v < 0x4000 {
		return append(dst, byte(v&0x7f)|0x80, byte(v>>7))
	}

	for v >= 0x80 {
		dst = append(dst, byte(v&0x7f)|0x80)
		v >>= 7
	}

	return append(dst, byte(v))
}

// EncodeSigned zigzag-transforms n and appends its VarInt encoding to dst.
//
//	(n<<1) XOR (n>>63)
//
// maps small-magnitude negative values to small unsigned values just as
// efficiently as small-magnitude positive ones.
func EncodeSigned(dst []byte, n int64) []byte {
	zigzag := uint64(n<<1) ^ uint64(n>>63) //nolint:gosec
	return EncodeUnsigned(dst, zigzag)
}

// DecodeUnsigned reads a VarInt from data starting at offset.
//
// Returns the decoded value, the offset immediately after the VarInt, and
// an error. Fails with ErrTruncatedPayload if the buffer ends mid-value,
// ErrVarIntTooLong if more than MaxLen bytes are consumed, and
// ErrNonCanonicalVarInt if the encoding is not the unique minimal one for
// its value (a continuation byte followed by a terminator that could
// have terminated a shorter encoding).
func DecodeUnsigned(data []byte, offset int) (uint64, int, error) {
	var value uint64

	for i := 0; i < MaxLen; i++ {
		pos := offset + i
		if pos >= len(data) {
			return 0, offset, lnmperrs.ErrTruncatedPayload
		}

		b := data[pos]
		value |= uint64(b&0x7f) << (7 * uint(i))

		if b&0x80 == 0 {
			// Terminal byte. Reject overlong encodings: a terminal byte of
			// zero is only valid as the sole byte of the VarInt (encoding
			// the value 0); any other zero terminal byte means the value
			// could have been represented with one fewer byte.
			if b == 0 && i != 0 {
				return 0, offset, lnmperrs.ErrNonCanonicalVarInt
			}

			return value, pos + 1, nil
		}
	}

	return 0, offset, lnmperrs.ErrVarIntTooLong
}

// DecodeSigned reads a zigzag-encoded VarInt and reverses the zigzag
// transform.
func DecodeSigned(data []byte, offset int) (int64, int, error) {
	zigzag, next, err := DecodeUnsigned(data, offset)
	if err != nil {
		return 0, offset, err
	}

	return int64(zigzag>>1) ^ -int64(zigzag&1), next, nil
}

// Len returns the number of bytes EncodeUnsigned would emit for v,
// without allocating.
func Len(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}

// LenSigned returns the number of bytes EncodeSigned would emit for n.
func LenSigned(n int64) int {
	zigzag := uint64(n<<1) ^ uint64(n>>63) //nolint:gosec
	return Len(zigzag)
}
