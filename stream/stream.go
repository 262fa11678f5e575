// Package stream implements LNMP's chunked streaming layer (spec §4.8):
// splitting a canonical binary payload into sequence-numbered, checksummed
// chunks, and reassembling/validating them on the consumer side.
package stream

import (
	"fmt"
	"hash/crc32"

	"github.com/lnmplang/lnmp/internal/pool"
	"github.com/lnmplang/lnmp/lnmperrs"
	"github.com/lnmplang/lnmp/varint"
)

// ChecksumKind selects the per-chunk checksum algorithm, carried in
// container stream-mode metadata (spec §4.10).
type ChecksumKind uint8

const (
	ChecksumNone  ChecksumKind = 0
	ChecksumXOR32 ChecksumKind = 1
	ChecksumSC32  ChecksumKind = 2
)

func (k ChecksumKind) width() int {
	if k == ChecksumNone {
		return 0
	}
	return 4
}

// Encode splits payload into chunks of at most chunkSize bytes and
// renders each as a self-contained frame: sequence(VarInt) | length
// (VarInt) | checksum (0 or 4 bytes, per kind) | payload bytes. A final
// explicit zero-length chunk terminates the stream (spec §4.8).
func Encode(payload []byte, chunkSize int, kind ChecksumKind) [][]byte {
	if chunkSize <= 0 {
		chunkSize = len(payload)
		if chunkSize == 0 {
			chunkSize = 1
		}
	}

	var frames [][]byte
	seq := uint64(0)

	for offset := 0; offset < len(payload); offset += chunkSize {
		end := offset + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		frames = append(frames, encodeChunk(seq, payload[offset:end], kind))
		seq++
	}
	frames = append(frames, encodeChunk(seq, nil, kind))

	return frames
}

func encodeChunk(seq uint64, data []byte, kind ChecksumKind) []byte {
	buf := make([]byte, 0, 16+len(data))
	buf = varint.EncodeUnsigned(buf, seq)
	buf = varint.EncodeUnsigned(buf, uint64(len(data)))

	switch kind {
	case ChecksumXOR32:
		buf = appendUint32(buf, xor32(data))
	case ChecksumSC32:
		buf = appendUint32(buf, crc32.ChecksumIEEE(data))
	}

	return append(buf, data...)
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func readUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// xor32 folds data into a 32-bit value by XORing successive little-endian
// words, zero-padding the final partial word.
func xor32(data []byte) uint32 {
	var acc uint32
	for i := 0; i < len(data); i += 4 {
		var word [4]byte
		copy(word[:], data[i:min(i+4, len(data))])
		acc ^= readUint32(word[:])
	}
	return acc
}

// Decode validates and reassembles a sequence of chunk frames produced
// by Encode (or an equivalent producer): sequence numbers must be
// strictly monotonic starting at 0, and each chunk's checksum (if any)
// must match its payload. Decoding stops at the first zero-length chunk
// (the stream terminator); any frames after it are ignored, mirroring a
// producer that stops emitting once EOF was observed.
func Decode(frames [][]byte, kind ChecksumKind) ([]byte, error) {
	bb := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(bb)

	var nextSeq uint64

	for _, frame := range frames {
		seq, data, err := decodeChunk(frame, kind)
		if err != nil {
			return nil, err
		}

		if seq != nextSeq {
			return nil, fmt.Errorf("%w: expected sequence %d, got %d", lnmperrs.ErrStreamSequenceGap, nextSeq, seq)
		}
		nextSeq++

		if len(data) == 0 {
			out := make([]byte, bb.Len())
			copy(out, bb.Bytes())
			return out, nil
		}
		bb.MustWrite(data)
	}

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out, nil
}

func decodeChunk(frame []byte, kind ChecksumKind) (uint64, []byte, error) {
	seq, pos, err := varint.DecodeUnsigned(frame, 0)
	if err != nil {
		return 0, nil, err
	}

	length, pos, err := varint.DecodeUnsigned(frame, pos)
	if err != nil {
		return 0, nil, err
	}

	width := kind.width()
	if pos+width > len(frame) {
		return 0, nil, lnmperrs.ErrTruncatedPayload
	}
	var checksum uint32
	if width > 0 {
		checksum = readUint32(frame[pos : pos+width])
		pos += width
	}

	if pos+int(length) > len(frame) {
		return 0, nil, lnmperrs.ErrTruncatedPayload
	}
	data := frame[pos : pos+int(length)]

	switch kind {
	case ChecksumXOR32:
		if xor32(data) != checksum {
			return 0, nil, lnmperrs.ErrStreamChecksumMismatch
		}
	case ChecksumSC32:
		if crc32.ChecksumIEEE(data) != checksum {
			return 0, nil, lnmperrs.ErrStreamChecksumMismatch
		}
	}

	return seq, data, nil
}
