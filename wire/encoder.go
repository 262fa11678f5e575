package wire

import (
	"fmt"
	"math"

	"github.com/lnmplang/lnmp/internal/pool"
	"github.com/lnmplang/lnmp/lnmperrs"
	"github.com/lnmplang/lnmp/profile"
	"github.com/lnmplang/lnmp/record"
	"github.com/lnmplang/lnmp/varint"
)

// Encode renders r as a canonical binary frame (spec §4.6). r is sorted
// in place (as Encode in package text does for canonical text) and
// rejected with ErrDuplicateField if duplicate FIDs remain at any level.
// The version byte is 0x04 unless r contains a NestedRecord or
// NestedArray value at any depth, in which case it is 0x05; either way
// it is raised to prof.MinBinaryVersion if that floor is higher.
func Encode(r *record.Record, prof profile.Profile) ([]byte, error) {
	r.Sort()
	if r.HasDuplicateFID() {
		return nil, lnmperrs.ErrDuplicateField
	}

	if d := r.Depth(); d > prof.DepthLimit {
		return nil, fmt.Errorf("%w: depth %d exceeds limit %d", lnmperrs.ErrDepthExceeded, d, prof.DepthLimit)
	}

	version := VersionFlat
	if hasNested(r) {
		version = VersionNested
	}
	if version < Version(prof.MinBinaryVersion) {
		version = Version(prof.MinBinaryVersion)
	}

	bb := pool.GetFrameBuffer()
	defer pool.PutFrameBuffer(bb)

	buf := append(bb.B, byte(version), reservedFrameFlags)
	buf = varint.EncodeUnsigned(buf, uint64(len(r.Fields)))

	var err error
	for _, f := range r.Fields {
		buf, err = encodeEntry(buf, f)
		if err != nil {
			return nil, err
		}
	}

	out := make([]byte, len(buf))
	copy(out, buf)

	return out, nil
}

// EncodeTaggedValue appends a type tag byte followed by v's binary
// payload, the same "type_tag(1) + payload" shape spec §4.9 uses for a
// delta Set/Update operation's value. Reused by package delta so the
// op wire format and the frame entry wire format share one encoder.
func EncodeTaggedValue(buf []byte, v record.Value) ([]byte, error) {
	tag, err := tagFor(v.Kind())
	if err != nil {
		return nil, err
	}
	buf = append(buf, byte(tag))
	return encodePayload(buf, v)
}

func hasNested(r *record.Record) bool {
	for _, f := range r.Fields {
		switch f.Value.Kind() {
		case record.KindNestedRecord, record.KindNestedArray:
			return true
		}
	}

	return false
}

func encodeEntry(buf []byte, f record.Field) ([]byte, error) {
	buf = Endian.AppendUint16(buf, f.FID)

	tag, err := tagFor(f.Value.Kind())
	if err != nil {
		return nil, err
	}
	buf = append(buf, byte(tag))

	return encodePayload(buf, f.Value)
}

func tagFor(k record.Kind) (Tag, error) {
	switch k {
	case record.KindInteger:
		return TagInt, nil
	case record.KindFloat:
		return TagFloat, nil
	case record.KindBoolean:
		return TagBool, nil
	case record.KindString:
		return TagString, nil
	case record.KindStringArray:
		return TagStringArray, nil
	case record.KindNestedRecord:
		return TagNestedRecord, nil
	case record.KindNestedArray:
		return TagNestedArray, nil
	case record.KindEmbedding:
		return TagEmbedding, nil
	case record.KindHybridNumericArray:
		return TagHybridNumericArray, nil
	case record.KindQuantizedEmbedding:
		return TagQuantizedEmbedding, nil
	case record.KindIntArray:
		return TagIntArray, nil
	case record.KindFloatArray:
		return TagFloatArray, nil
	case record.KindBoolArray:
		return TagBoolArray, nil
	default:
		return 0, fmt.Errorf("%w: %s", lnmperrs.ErrUnknownTypeTag, k)
	}
}

func encodePayload(buf []byte, v record.Value) ([]byte, error) {
	switch v.Kind() {
	case record.KindInteger:
		n, _ := v.AsInt()
		return varint.EncodeSigned(buf, n), nil

	case record.KindFloat:
		f, _ := v.AsFloat()
		return Endian.AppendUint64(buf, math.Float64bits(f)), nil

	case record.KindBoolean:
		b, _ := v.AsBool()
		if b {
			return append(buf, 0x01), nil
		}
		return append(buf, 0x00), nil

	case record.KindString:
		s, _ := v.AsString()
		return encodeString(buf, s), nil

	case record.KindStringArray:
		sa, _ := v.AsStringArray()
		buf = varint.EncodeUnsigned(buf, uint64(len(sa)))
		for _, s := range sa {
			buf = encodeString(buf, s)
		}
		return buf, nil

	case record.KindIntArray:
		ia, _ := v.AsIntArray()
		buf = varint.EncodeUnsigned(buf, uint64(len(ia)))
		for _, n := range ia {
			buf = varint.EncodeSigned(buf, n)
		}
		return buf, nil

	case record.KindFloatArray:
		fa, _ := v.AsFloatArray()
		buf = varint.EncodeUnsigned(buf, uint64(len(fa)))
		for _, f := range fa {
			buf = Endian.AppendUint64(buf, math.Float64bits(f))
		}
		return buf, nil

	case record.KindBoolArray:
		ba, _ := v.AsBoolArray()
		buf = varint.EncodeUnsigned(buf, uint64(len(ba)))
		for _, b := range ba {
			if b {
				buf = append(buf, 0x01)
			} else {
				buf = append(buf, 0x00)
			}
		}
		return buf, nil

	case record.KindEmbedding:
		e, _ := v.AsEmbedding()
		buf = varint.EncodeUnsigned(buf, uint64(len(e)))
		return append(buf, e...), nil

	case record.KindHybridNumericArray:
		h, _ := v.AsHybrid()
		return encodeHybrid(buf, h), nil

	case record.KindQuantizedEmbedding:
		q, _ := v.AsQuantized()
		buf = append(buf, byte(q.Scheme))
		buf = Endian.AppendUint32(buf, math.Float32bits(q.Scale))
		return append(buf, q.Data...), nil

	case record.KindNestedRecord:
		nr, _ := v.AsNestedRecord()
		return encodeNestedRecord(buf, nr)

	case record.KindNestedArray:
		na, _ := v.AsNestedArray()
		buf = varint.EncodeUnsigned(buf, uint64(len(na)))
		var err error
		for _, child := range na {
			buf, err = encodeNestedRecord(buf, child)
			if err != nil {
				return nil, err
			}
		}
		return buf, nil

	default:
		return nil, fmt.Errorf("%w: unknown value kind", lnmperrs.ErrInvalidValue)
	}
}

func encodeString(buf []byte, s string) []byte {
	buf = varint.EncodeUnsigned(buf, uint64(len(s)))
	return append(buf, s...)
}

func encodeHybrid(buf []byte, h record.HybridNumericArray) []byte {
	var flags byte
	switch h.DType {
	case record.DTypeI32:
		flags = hybridDTypeI32
	case record.DTypeI64:
		flags = hybridDTypeI64
	case record.DTypeF32:
		flags = hybridDTypeF32
	case record.DTypeF64:
		flags = hybridDTypeF64
	}
	if h.Sparse {
		flags |= hybridSparseBit
	}

	buf = append(buf, flags)
	buf = varint.EncodeUnsigned(buf, uint64(h.Dimension))
	return append(buf, h.Data...)
}

// encodeNestedRecord writes a nested frame: its own entry_count VarInt
// followed by entries, with no version/flags header of its own — the
// enclosing frame's version byte already commits the whole tree to
// nested-capable encoding (spec §4.6).
func encodeNestedRecord(buf []byte, r *record.Record) ([]byte, error) {
	r.Sort()
	if r.HasDuplicateFID() {
		return nil, lnmperrs.ErrDuplicateField
	}

	buf = varint.EncodeUnsigned(buf, uint64(len(r.Fields)))

	var err error
	for _, f := range r.Fields {
		buf, err = encodeEntry(buf, f)
		if err != nil {
			return nil, err
		}
	}

	return buf, nil
}
