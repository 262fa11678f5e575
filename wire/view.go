package wire

import (
	"fmt"
	"math"
	"unicode/utf8"
	"unsafe"

	"github.com/lnmplang/lnmp/endian"
	"github.com/lnmplang/lnmp/lnmperrs"
	"github.com/lnmplang/lnmp/profile"
	"github.com/lnmplang/lnmp/varint"
)

// RecordView is the zero-copy counterpart of record.Record produced by
// DecodeView (spec §4.7). It borrows String and Embedding payloads
// directly from the buffer passed to DecodeView: the view's Fields must
// not outlive that buffer, and the buffer must not be mutated while any
// view over it is live.
type RecordView struct {
	Fields []FieldView
}

// Get returns the field with the given FID, relying on Fields being in
// ascending FID order (spec §4.6) to stop scanning once fid is passed.
func (v *RecordView) Get(fid uint16) (FieldView, bool) {
	for _, f := range v.Fields {
		if f.FID == fid {
			return f, true
		}
		if f.FID > fid {
			break
		}
	}
	return FieldView{}, false
}

// FieldView is the zero-copy counterpart of record.Field. Exactly one
// accessor is meaningful, selected by Tag. String and Embedding payloads
// and StringArray elements borrow from the decoded buffer; FloatArray
// borrows only when 8-byte aligned on a little-endian host; IntArray and
// BoolArray are materialized; scalars are copied by value since they are
// no larger than the pointer that would otherwise alias them.
type FieldView struct {
	FID uint16
	Tag Tag

	i  int64
	f  float64
	b  bool
	s  string // borrowed, unsafe.String over the input buffer
	sa []string
	ia []int64  // materialized: VarInt elements are never aligned for aliasing
	fa []float64 // aliased via unsafe.Slice when 8-byte aligned, else materialized
	ba []bool
	emb []byte // borrowed slice of the input buffer

	nested  *RecordView
	nestedA []RecordView
}

func (f FieldView) AsInt() (int64, bool)     { return f.i, f.Tag == TagInt }
func (f FieldView) AsFloat() (float64, bool) { return f.f, f.Tag == TagFloat }
func (f FieldView) AsBool() (bool, bool)     { return f.b, f.Tag == TagBool }
func (f FieldView) AsString() (string, bool) { return f.s, f.Tag == TagString }

func (f FieldView) AsStringArray() ([]string, bool) { return f.sa, f.Tag == TagStringArray }
func (f FieldView) AsIntArray() ([]int64, bool)     { return f.ia, f.Tag == TagIntArray }
func (f FieldView) AsFloatArray() ([]float64, bool) { return f.fa, f.Tag == TagFloatArray }
func (f FieldView) AsBoolArray() ([]bool, bool)     { return f.ba, f.Tag == TagBoolArray }
func (f FieldView) AsEmbedding() ([]byte, bool)     { return f.emb, f.Tag == TagEmbedding }

func (f FieldView) AsNestedRecord() (*RecordView, bool)  { return f.nested, f.Tag == TagNestedRecord }
func (f FieldView) AsNestedArray() ([]RecordView, bool)  { return f.nestedA, f.Tag == TagNestedArray }

// DecodeView decodes data into a RecordView without copying String or
// Embedding payload bytes. Scalars and arrays whose element width and
// buffer offset are mismatched are materialized into owned slices
// rather than aliased, matching the reference implementation's raw
// numeric decoder, which falls back to a safe path when alignment
// cannot be guaranteed.
func DecodeView(data []byte, prof profile.Profile) (*RecordView, error) {
	d := &viewDecoder{data: data, prof: prof}

	if len(data) < 2 {
		return nil, lnmperrs.ErrTruncatedPayload
	}

	version := Version(data[0])
	if version != VersionFlat && version != VersionNested {
		return nil, fmt.Errorf("%w: 0x%02x", lnmperrs.ErrUnsupportedVersion, byte(version))
	}
	if version < Version(prof.MinBinaryVersion) {
		return nil, fmt.Errorf("%w: frame version 0x%02x below profile minimum 0x%02x",
			lnmperrs.ErrUnsupportedVersion, byte(version), byte(prof.MinBinaryVersion))
	}
	if data[1] != reservedFrameFlags {
		return nil, lnmperrs.ErrReservedFlags
	}

	d.pos = 2
	r, err := d.decodeEntries(0)
	if err != nil {
		return nil, err
	}
	if d.pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", lnmperrs.ErrTrailingData, len(data)-d.pos)
	}

	return r, nil
}

type viewDecoder struct {
	data []byte
	pos  int
	prof profile.Profile
}

func (d *viewDecoder) decodeEntries(depth int) (*RecordView, error) {
	if depth > d.prof.DepthLimit {
		return nil, fmt.Errorf("%w: depth %d exceeds limit %d", lnmperrs.ErrDepthExceeded, depth, d.prof.DepthLimit)
	}

	count, next, err := varint.DecodeUnsigned(d.data, d.pos)
	if err != nil {
		return nil, err
	}
	d.pos = next
	if count > uint64(d.prof.ArrayLimit) {
		return nil, fmt.Errorf("%w: entry count %d exceeds limit", lnmperrs.ErrArrayTooLong, count)
	}

	fields := make([]FieldView, count)
	var lastFID uint16
	haveLast := false

	for i := range fields {
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
		fields[i] = f
	}

	return &RecordView{Fields: fields}, nil
}

func (d *viewDecoder) decodeEntry(depth int) (FieldView, error) {
	fidBytes, err := d.bytes(2)
	if err != nil {
		return FieldView{}, err
	}
	fid := Endian.Uint16(fidBytes)

	tagByte, err := d.byte1()
	if err != nil {
		return FieldView{}, err
	}
	tag := Tag(tagByte)

	fv := FieldView{FID: fid, Tag: tag}

	switch tag {
	case TagInt:
		n, next, err := varint.DecodeSigned(d.data, d.pos)
		if err != nil {
			return FieldView{}, err
		}
		d.pos = next
		fv.i = n

	case TagFloat:
		b, err := d.bytes(8)
		if err != nil {
			return FieldView{}, err
		}
		fv.f = math.Float64frombits(Endian.Uint64(b))

	case TagBool:
		b, err := d.byte1()
		if err != nil {
			return FieldView{}, err
		}
		fv.b = b == 0x01

	case TagString:
		s, err := d.borrowString()
		if err != nil {
			return FieldView{}, err
		}
		fv.s = s

	case TagStringArray:
		count, err := d.arrayCount()
		if err != nil {
			return FieldView{}, err
		}
		sa := make([]string, count)
		for i := range sa {
			sa[i], err = d.borrowString()
			if err != nil {
				return FieldView{}, err
			}
		}
		fv.sa = sa

	case TagIntArray:
		count, err := d.arrayCount()
		if err != nil {
			return FieldView{}, err
		}
		ia := make([]int64, count)
		for i := range ia {
			n, next, err := varint.DecodeSigned(d.data, d.pos)
			if err != nil {
				return FieldView{}, err
			}
			d.pos = next
			ia[i] = n
		}
		fv.ia = ia

	case TagFloatArray:
		count, err := d.arrayCount()
		if err != nil {
			return FieldView{}, err
		}
		fv.fa, err = d.floatSlice(int(count))
		if err != nil {
			return FieldView{}, err
		}

	case TagBoolArray:
		count, err := d.arrayCount()
		if err != nil {
			return FieldView{}, err
		}
		ba := make([]bool, count)
		for i := range ba {
			b, err := d.byte1()
			if err != nil {
				return FieldView{}, err
			}
			ba[i] = b == 0x01
		}
		fv.ba = ba

	case TagEmbedding:
		n, err := d.byteLen()
		if err != nil {
			return FieldView{}, err
		}
		fv.emb, err = d.bytes(int(n))
		if err != nil {
			return FieldView{}, err
		}

	case TagNestedRecord:
		nr, err := d.decodeEntries(depth + 1)
		if err != nil {
			return FieldView{}, err
		}
		fv.nested = nr

	case TagNestedArray:
		count, err := d.arrayCount()
		if err != nil {
			return FieldView{}, err
		}
		na := make([]RecordView, count)
		for i := range na {
			nr, err := d.decodeEntries(depth + 1)
			if err != nil {
				return FieldView{}, err
			}
			na[i] = *nr
		}
		fv.nestedA = na

	default:
		return FieldView{}, fmt.Errorf("%w: 0x%02x", lnmperrs.ErrUnknownTypeTag, byte(tag))
	}

	return fv, nil
}

// borrowString slices the string's UTF-8 bytes directly out of the
// input buffer via unsafe.String instead of the copying string(...)
// conversion, the zero-copy trick spec §4.7 requires for view decode.
func (d *viewDecoder) borrowString() (string, error) {
	n, err := d.byteLen()
	if err != nil {
		return "", err
	}
	raw, err := d.bytes(int(n))
	if err != nil {
		return "", err
	}
	if d.prof.StrictUTF8 && !utf8.Valid(raw) {
		return "", lnmperrs.ErrInvalidUtf8Binary
	}
	if len(raw) == 0 {
		return "", nil
	}

	return unsafe.String(&raw[0], len(raw)), nil
}

// floatSlice returns a slice of count float64s. When the current buffer
// offset is 8-byte aligned it aliases the buffer directly via
// unsafe.Slice, mirroring the reference implementation's raw numeric
// decoder; otherwise it falls back to a materialized, owned slice.
func (d *viewDecoder) floatSlice(count int) ([]float64, error) {
	width := count * 8
	raw, err := d.bytes(width)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	if !endian.CompareNativeEndian(Endian) || uintptr(unsafe.Pointer(&raw[0]))%8 != 0 {
		out := make([]float64, count)
		for i := range out {
			out[i] = math.Float64frombits(Endian.Uint64(raw[i*8 : i*8+8]))
		}
		return out, nil
	}

	ptr := (*float64)(unsafe.Pointer(&raw[0]))
	return unsafe.Slice(ptr, count), nil
}

func (d *viewDecoder) varintCount() (uint64, error) {
	v, next, err := varint.DecodeUnsigned(d.data, d.pos)
	if err != nil {
		return 0, err
	}
	d.pos = next
	return v, nil
}

// arrayCount reads a VarInt repetition count and rejects it before any
// allocation if it exceeds the profile's configured array limit.
func (d *viewDecoder) arrayCount() (uint64, error) {
	count, err := d.varintCount()
	if err != nil {
		return 0, err
	}
	if count > uint64(d.prof.ArrayLimit) {
		return 0, fmt.Errorf("%w: array count %d exceeds limit", lnmperrs.ErrArrayTooLong, count)
	}
	return count, nil
}

// byteLen reads a VarInt byte length and rejects it before any allocation
// if it exceeds the profile's configured string limit.
func (d *viewDecoder) byteLen() (uint64, error) {
	n, err := d.varintCount()
	if err != nil {
		return 0, err
	}
	if n > uint64(d.prof.StringLimit) {
		return 0, fmt.Errorf("%w: byte length %d exceeds limit", lnmperrs.ErrStringTooLong, n)
	}
	return n, nil
}

func (d *viewDecoder) byte1() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, lnmperrs.ErrTruncatedPayload
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *viewDecoder) bytes(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.data) {
		return nil, lnmperrs.ErrTruncatedPayload
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}
