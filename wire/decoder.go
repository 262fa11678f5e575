package wire

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/lnmplang/lnmp/internal/pool"
	"github.com/lnmplang/lnmp/lnmperrs"
	"github.com/lnmplang/lnmp/profile"
	"github.com/lnmplang/lnmp/record"
	"github.com/lnmplang/lnmp/varint"
)

// Decode owns-decodes a binary frame into a Record, validating every
// constraint spec §4.7 assigns to owned decode: known version, no
// reserved flag bits, known type tags, in-bounds payload sizes, UTF-8
// string validity, minimal VarInts, and (when prof requires it)
// ascending FID order with no duplicates.
//
// Frames carry no magic bytes (spec §4.6's layout is version|flags|
// entry_count|entries*); ErrInvalidMagic is reserved for the container
// header (spec §4.10), which does have one.
func Decode(data []byte, prof profile.Profile) (*record.Record, error) {
	d := &decoder{data: data, prof: prof}
	r, err := d.decodeTop()
	if err != nil {
		return nil, err
	}

	if d.pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", lnmperrs.ErrTrailingData, len(data)-d.pos)
	}

	return r, nil
}

type decoder struct {
	data []byte
	pos  int
	prof profile.Profile
}

// DecodeTaggedValue reads a type tag byte followed by its payload
// starting at offset, the symmetric counterpart of EncodeTaggedValue.
// Returns the decoded value and the offset immediately past it. Reused
// by package delta to decode a Set/Update operation's value.
func DecodeTaggedValue(data []byte, offset int, prof profile.Profile) (record.Value, int, error) {
	d := &decoder{data: data, pos: offset, prof: prof}

	tagByte, err := d.readByte()
	if err != nil {
		return record.Value{}, offset, err
	}

	v, err := d.decodeValue(Tag(tagByte), 0)
	if err != nil {
		return record.Value{}, offset, err
	}

	return v, d.pos, nil
}

func (d *decoder) decodeTop() (*record.Record, error) {
	if len(d.data) < 2 {
		return nil, lnmperrs.ErrTruncatedPayload
	}

	version := Version(d.data[0])
	if version != VersionFlat && version != VersionNested {
		return nil, fmt.Errorf("%w: 0x%02x", lnmperrs.ErrUnsupportedVersion, byte(version))
	}
	if version < Version(d.prof.MinBinaryVersion) {
		return nil, fmt.Errorf("%w: frame version 0x%02x below profile minimum 0x%02x",
			lnmperrs.ErrUnsupportedVersion, byte(version), byte(d.prof.MinBinaryVersion))
	}

	flags := d.data[1]
	if flags != reservedFrameFlags {
		return nil, lnmperrs.ErrReservedFlags
	}

	d.pos = 2

	return d.decodeEntries(0)
}

func (d *decoder) decodeEntries(depth int) (*record.Record, error) {
	if depth > d.prof.DepthLimit {
		return nil, fmt.Errorf("%w: depth %d exceeds limit %d", lnmperrs.ErrDepthExceeded, depth, d.prof.DepthLimit)
	}

	count, err := d.readVarint()
	if err != nil {
		return nil, err
	}
	if count > uint64(d.prof.ArrayLimit) {
		return nil, fmt.Errorf("%w: entry count %d exceeds limit", lnmperrs.ErrArrayTooLong, count)
	}

	fields := make([]record.Field, 0, count)
	var lastFID uint16
	haveLast := false

	for i := uint64(0); i < count; i++ {
		f, err := d.decodeEntry(depth)
		if err != nil {
			return nil, err
		}

		if haveLast {
			if f.FID == lastFID {
				return nil, lnmperrs.ErrDuplicateField
			}
			if f.FID < lastFID && d.prof.RejectUnsortedFields {
				return nil, lnmperrs.ErrOutOfOrderFID
			}
		}
		lastFID = f.FID
		haveLast = true

		fields = append(fields, f)
	}

	r := record.New(fields...)
	if d.prof.RejectUnsortedFields {
		if !r.IsSorted() {
			return nil, lnmperrs.ErrOutOfOrderFID
		}
	} else {
		r.Sort()
		if r.HasDuplicateFID() {
			return nil, lnmperrs.ErrDuplicateField
		}
	}

	return r, nil
}

func (d *decoder) decodeEntry(depth int) (record.Field, error) {
	fid, err := d.readUint16()
	if err != nil {
		return record.Field{}, err
	}

	tagByte, err := d.readByte()
	if err != nil {
		return record.Field{}, err
	}

	v, err := d.decodeValue(Tag(tagByte), depth)
	if err != nil {
		return record.Field{}, err
	}

	return record.NewField(fid, v), nil
}

func (d *decoder) decodeValue(tag Tag, depth int) (record.Value, error) {
	switch tag {
	case TagInt:
		n, err := d.readVarintSigned()
		if err != nil {
			return record.Value{}, err
		}
		return record.Int(n), nil

	case TagFloat:
		bits, err := d.readUint64()
		if err != nil {
			return record.Value{}, err
		}
		return record.Float(math.Float64frombits(bits)), nil

	case TagBool:
		b, err := d.readByte()
		if err != nil {
			return record.Value{}, err
		}
		if b != 0x00 && b != 0x01 {
			return record.Value{}, fmt.Errorf("%w: invalid boolean byte 0x%02x", lnmperrs.ErrInvalidValue, b)
		}
		return record.Bool(b == 0x01), nil

	case TagString:
		s, err := d.readString()
		if err != nil {
			return record.Value{}, err
		}
		return record.Str(s), nil

	case TagStringArray:
		count, err := d.readVarint()
		if err != nil {
			return record.Value{}, err
		}
		if count > uint64(d.prof.ArrayLimit) {
			return record.Value{}, fmt.Errorf("%w: string array count %d exceeds limit", lnmperrs.ErrArrayTooLong, count)
		}
		sa, cleanup := pool.GetStringSlice(int(count))
		defer cleanup()
		for i := range sa {
			sa[i], err = d.readString()
			if err != nil {
				return record.Value{}, err
			}
		}
		owned := make([]string, count)
		copy(owned, sa)
		return record.StringArray(owned), nil

	case TagIntArray:
		count, err := d.readVarint()
		if err != nil {
			return record.Value{}, err
		}
		if count > uint64(d.prof.ArrayLimit) {
			return record.Value{}, fmt.Errorf("%w: int array count %d exceeds limit", lnmperrs.ErrArrayTooLong, count)
		}
		ia, cleanup := pool.GetInt64Slice(int(count))
		defer cleanup()
		for i := range ia {
			ia[i], err = d.readVarintSigned()
			if err != nil {
				return record.Value{}, err
			}
		}
		owned := make([]int64, count)
		copy(owned, ia)
		return record.IntArray(owned), nil

	case TagFloatArray:
		count, err := d.readVarint()
		if err != nil {
			return record.Value{}, err
		}
		if count > uint64(d.prof.ArrayLimit) {
			return record.Value{}, fmt.Errorf("%w: float array count %d exceeds limit", lnmperrs.ErrArrayTooLong, count)
		}
		fa, cleanup := pool.GetFloat64Slice(int(count))
		defer cleanup()
		for i := range fa {
			bits, err := d.readUint64()
			if err != nil {
				return record.Value{}, err
			}
			fa[i] = math.Float64frombits(bits)
		}
		owned := make([]float64, count)
		copy(owned, fa)
		return record.FloatArray(owned), nil

	case TagBoolArray:
		count, err := d.readVarint()
		if err != nil {
			return record.Value{}, err
		}
		if count > uint64(d.prof.ArrayLimit) {
			return record.Value{}, fmt.Errorf("%w: bool array count %d exceeds limit", lnmperrs.ErrArrayTooLong, count)
		}
		ba, cleanup := pool.GetBoolSlice(int(count))
		defer cleanup()
		for i := range ba {
			b, err := d.readByte()
			if err != nil {
				return record.Value{}, err
			}
			if b != 0x00 && b != 0x01 {
				return record.Value{}, fmt.Errorf("%w: invalid boolean byte 0x%02x", lnmperrs.ErrInvalidValue, b)
			}
			ba[i] = b == 0x01
		}
		owned := make([]bool, count)
		copy(owned, ba)
		return record.BoolArray(owned), nil

	case TagEmbedding:
		n, err := d.readVarint()
		if err != nil {
			return record.Value{}, err
		}
		if n > uint64(d.prof.StringLimit) {
			return record.Value{}, fmt.Errorf("%w: embedding length %d exceeds limit", lnmperrs.ErrStringTooLong, n)
		}
		raw, err := d.readBytes(int(n))
		if err != nil {
			return record.Value{}, err
		}
		return record.Embedding(append([]byte(nil), raw...)), nil

	case TagHybridNumericArray:
		return d.decodeHybrid()

	case TagQuantizedEmbedding:
		return d.decodeQuantized()

	case TagNestedRecord:
		nr, err := d.decodeEntries(depth + 1)
		if err != nil {
			return record.Value{}, err
		}
		return record.NestedValue(nr), nil

	case TagNestedArray:
		count, err := d.readVarint()
		if err != nil {
			return record.Value{}, err
		}
		if count > uint64(d.prof.ArrayLimit) {
			return record.Value{}, fmt.Errorf("%w: nested array count %d exceeds limit", lnmperrs.ErrArrayTooLong, count)
		}
		na := make([]*record.Record, count)
		for i := range na {
			na[i], err = d.decodeEntries(depth + 1)
			if err != nil {
				return record.Value{}, err
			}
		}
		return record.NestedArrayValue(na), nil

	default:
		return record.Value{}, fmt.Errorf("%w: 0x%02x", lnmperrs.ErrUnknownTypeTag, byte(tag))
	}
}

func (d *decoder) decodeHybrid() (record.Value, error) {
	flags, err := d.readByte()
	if err != nil {
		return record.Value{}, err
	}

	var dtype record.HybridDType
	switch flags & 0x03 {
	case hybridDTypeI32:
		dtype = record.DTypeI32
	case hybridDTypeI64:
		dtype = record.DTypeI64
	case hybridDTypeF32:
		dtype = record.DTypeF32
	case hybridDTypeF64:
		dtype = record.DTypeF64
	}
	sparse := flags&hybridSparseBit != 0

	dim, err := d.readVarint()
	if err != nil {
		return record.Value{}, err
	}

	data := d.data[d.pos:]
	d.pos = len(d.data)

	return record.Hybrid(record.HybridNumericArray{
		DType:     dtype,
		Sparse:    sparse,
		Dimension: int(dim),
		Data:      append([]byte(nil), data...),
	}), nil
}

func (d *decoder) decodeQuantized() (record.Value, error) {
	schemeByte, err := d.readByte()
	if err != nil {
		return record.Value{}, err
	}
	if schemeByte != byte(record.SchemeLinear) {
		return record.Value{}, fmt.Errorf("%w: unknown quantization scheme 0x%02x", lnmperrs.ErrInvalidValue, schemeByte)
	}

	scaleBits, err := d.readUint32()
	if err != nil {
		return record.Value{}, err
	}

	data := d.data[d.pos:]
	d.pos = len(d.data)

	return record.Quantized(record.QuantizedEmbedding{
		Scheme: record.SchemeLinear,
		Scale:  math.Float32frombits(scaleBits),
		Data:   append([]byte(nil), data...),
	}), nil
}

func (d *decoder) readString() (string, error) {
	n, err := d.readVarint()
	if err != nil {
		return "", err
	}
	if n > uint64(d.prof.StringLimit) {
		return "", fmt.Errorf("%w: string length %d exceeds limit", lnmperrs.ErrStringTooLong, n)
	}

	raw, err := d.readBytes(int(n))
	if err != nil {
		return "", err
	}

	if d.prof.StrictUTF8 && !utf8.Valid(raw) {
		return "", lnmperrs.ErrInvalidUtf8Binary
	}

	return string(raw), nil
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, lnmperrs.ErrTruncatedPayload
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) readBytes(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.data) {
		return nil, lnmperrs.ErrTruncatedPayload
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) readUint16() (uint16, error) {
	b, err := d.readBytes(2)
	if err != nil {
		return 0, err
	}
	return Endian.Uint16(b), nil
}

func (d *decoder) readUint32() (uint32, error) {
	b, err := d.readBytes(4)
	if err != nil {
		return 0, err
	}
	return Endian.Uint32(b), nil
}

func (d *decoder) readUint64() (uint64, error) {
	b, err := d.readBytes(8)
	if err != nil {
		return 0, err
	}
	return Endian.Uint64(b), nil
}

// readVarint decodes a VarInt at the current position. varint.DecodeUnsigned
// always rejects overlong encodings (spec §4.1 is unconditional here, not
// profile-gated): any non-minimal LEB128 encoding's terminal byte is zero,
// which DecodeUnsigned already catches regardless of profile.
func (d *decoder) readVarint() (uint64, error) {
	v, next, err := varint.DecodeUnsigned(d.data, d.pos)
	if err != nil {
		return 0, err
	}
	d.pos = next
	return v, nil
}

func (d *decoder) readVarintSigned() (int64, error) {
	v, next, err := varint.DecodeSigned(d.data, d.pos)
	if err != nil {
		return 0, err
	}
	d.pos = next
	return v, nil
}
