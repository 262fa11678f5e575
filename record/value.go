// Package record implements LNMP's data model (spec §3): the Value
// tagged variant over every supported type, the Field that pairs a FID
// with a Value and optional type hint/checksum, and the Record that
// owns an ordered collection of Fields.
//
// Value, Field, and Record live in one package (rather than split across
// value/field/record packages) because NestedRecord and NestedArray
// values own child Records directly — splitting them would force an
// import cycle for no benefit, the same reason the reference
// implementation keeps NumericBlob/TextBlob/DataPoint together in one
// blob package instead of spreading them thin.
package record

import "math"

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindInteger Kind = iota
	KindFloat
	KindBoolean
	KindString
	KindStringArray
	KindIntArray
	KindFloatArray
	KindBoolArray
	KindEmbedding
	KindHybridNumericArray
	KindQuantizedEmbedding
	KindNestedRecord
	KindNestedArray
)

// String returns a short lowercase name for the kind, used in error
// messages and debug output.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindStringArray:
		return "string_array"
	case KindIntArray:
		return "int_array"
	case KindFloatArray:
		return "float_array"
	case KindBoolArray:
		return "bool_array"
	case KindEmbedding:
		return "embedding"
	case KindHybridNumericArray:
		return "hybrid_numeric_array"
	case KindQuantizedEmbedding:
		return "quantized_embedding"
	case KindNestedRecord:
		return "nested_record"
	case KindNestedArray:
		return "nested_array"
	default:
		return "unknown"
	}
}

// TypeHint returns the type-hint code spec §3/§4.4 associates with the
// kind ("" for embeddings, hybrid numeric arrays and quantized
// embeddings, which have no single-letter text hint and are only ever
// explicitly tagged in binary).
func (k Kind) TypeHint() string {
	switch k {
	case KindInteger:
		return "i"
	case KindFloat:
		return "f"
	case KindBoolean:
		return "b"
	case KindString:
		return "s"
	case KindStringArray:
		return "sa"
	case KindIntArray:
		return "ia"
	case KindFloatArray:
		return "fa"
	case KindBoolArray:
		return "ba"
	case KindNestedRecord:
		return "r"
	case KindNestedArray:
		return "ra"
	default:
		return ""
	}
}

// HintToKind resolves a type-hint code back to its Kind. ok is false for
// an unrecognized hint.
func HintToKind(hint string) (Kind, bool) {
	switch hint {
	case "i":
		return KindInteger, true
	case "f":
		return KindFloat, true
	case "b":
		return KindBoolean, true
	case "s":
		return KindString, true
	case "sa":
		return KindStringArray, true
	case "ia":
		return KindIntArray, true
	case "fa":
		return KindFloatArray, true
	case "ba":
		return KindBoolArray, true
	case "r":
		return KindNestedRecord, true
	case "ra":
		return KindNestedArray, true
	default:
		return 0, false
	}
}

// HybridDType enumerates the element type of a HybridNumericArray.
type HybridDType uint8

const (
	DTypeI32 HybridDType = iota
	DTypeI64
	DTypeF32
	DTypeF64
)

// QuantizationScheme identifies how a QuantizedEmbedding's raw bytes are
// interpreted. Only SchemeLinear is defined; spec §9 Open Questions
// directs unknown schemes to be rejected rather than guessed at.
type QuantizationScheme uint8

const (
	SchemeLinear QuantizationScheme = iota
)

// HybridNumericArray is the (dtype, sparse, dimension, raw data) tuple
// of spec §3.
type HybridNumericArray struct {
	DType     HybridDType
	Sparse    bool
	Dimension int
	Data      []byte
}

// QuantizedEmbedding is the (scheme, scale, data) tuple of spec §3.
type QuantizedEmbedding struct {
	Scheme QuantizationScheme
	Scale  float32
	Data   []byte
}

// Value is a tagged union over every LNMP value variant. Exactly one of
// the typed fields is meaningful for a given Kind; callers switch on
// Kind() before reading a field.
type Value struct {
	kind Kind

	i   int64
	f   float64
	b   bool
	s   string
	sa  []string
	ia  []int64
	fa  []float64
	ba  []bool
	emb []byte
	hna HybridNumericArray
	qe  QuantizedEmbedding
	nr  *Record
	na  []*Record
}

func Int(i int64) Value            { return Value{kind: KindInteger, i: i} }
func Bool(b bool) Value            { return Value{kind: KindBoolean, b: b} }
func Str(s string) Value           { return Value{kind: KindString, s: s} }
func StringArray(sa []string) Value { return Value{kind: KindStringArray, sa: sa} }
func IntArray(ia []int64) Value    { return Value{kind: KindIntArray, ia: ia} }
func FloatArray(fa []float64) Value { return Value{kind: KindFloatArray, fa: fa} }
func BoolArray(ba []bool) Value    { return Value{kind: KindBoolArray, ba: ba} }
func Embedding(b []byte) Value     { return Value{kind: KindEmbedding, emb: b} }

func Hybrid(h HybridNumericArray) Value {
	return Value{kind: KindHybridNumericArray, hna: h}
}

func Quantized(q QuantizedEmbedding) Value {
	return Value{kind: KindQuantizedEmbedding, qe: q}
}

// NestedValue wraps an owned child Record as a Value. The parent takes
// exclusive ownership: r must not be shared with, or later attached to,
// any other Field.
func NestedValue(r *Record) Value { return Value{kind: KindNestedRecord, nr: r} }

// NestedArrayValue wraps an owned, ordered sequence of child Records.
func NestedArrayValue(ra []*Record) Value { return Value{kind: KindNestedArray, na: ra} }

// canonicalNaNBits is IEEE 754's canonical quiet NaN: sign 0, all
// exponent bits set, and the high mantissa bit (the quiet bit) set, all
// other mantissa bits clear.
const canonicalNaNBits uint64 = 0x7FF8000000000000

// Float returns a Float value, normalizing NaN to the canonical quiet
// NaN bit pattern per spec §3/§9 so that differently-produced NaNs
// compare and encode identically.
func Float(f float64) Value {
	if math.IsNaN(f) {
		f = math.Float64frombits(canonicalNaNBits)
	}

	return Value{kind: KindFloat, f: f}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsInt() (int64, bool)     { return v.i, v.kind == KindInteger }
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }
func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBoolean }
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

func (v Value) AsStringArray() ([]string, bool) { return v.sa, v.kind == KindStringArray }
func (v Value) AsIntArray() ([]int64, bool)     { return v.ia, v.kind == KindIntArray }
func (v Value) AsFloatArray() ([]float64, bool) { return v.fa, v.kind == KindFloatArray }
func (v Value) AsBoolArray() ([]bool, bool)     { return v.ba, v.kind == KindBoolArray }
func (v Value) AsEmbedding() ([]byte, bool)     { return v.emb, v.kind == KindEmbedding }

func (v Value) AsHybrid() (HybridNumericArray, bool) {
	return v.hna, v.kind == KindHybridNumericArray
}

func (v Value) AsQuantized() (QuantizedEmbedding, bool) {
	return v.qe, v.kind == KindQuantizedEmbedding
}

func (v Value) AsNestedRecord() (*Record, bool)  { return v.nr, v.kind == KindNestedRecord }
func (v Value) AsNestedArray() ([]*Record, bool) { return v.na, v.kind == KindNestedArray }

// Equal reports whether two values are canonically equal: same kind and
// byte-for-byte/element-for-element equal payload. NaN floats compare
// equal to each other because Float already normalizes them to the same
// bit pattern.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindInteger:
		return v.i == o.i
	case KindFloat:
		return math.Float64bits(v.f) == math.Float64bits(o.f)
	case KindBoolean:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindStringArray:
		return equalSlice(v.sa, o.sa)
	case KindIntArray:
		return equalSlice(v.ia, o.ia)
	case KindFloatArray:
		if len(v.fa) != len(o.fa) {
			return false
		}
		for i := range v.fa {
			if math.Float64bits(v.fa[i]) != math.Float64bits(o.fa[i]) {
				return false
			}
		}
		return true
	case KindBoolArray:
		return equalSlice(v.ba, o.ba)
	case KindEmbedding:
		return string(v.emb) == string(o.emb)
	case KindHybridNumericArray:
		return v.hna.DType == o.hna.DType && v.hna.Sparse == o.hna.Sparse &&
			v.hna.Dimension == o.hna.Dimension && string(v.hna.Data) == string(o.hna.Data)
	case KindQuantizedEmbedding:
		return v.qe.Scheme == o.qe.Scheme && v.qe.Scale == o.qe.Scale && string(v.qe.Data) == string(o.qe.Data)
	case KindNestedRecord:
		return v.nr.Equal(o.nr)
	case KindNestedArray:
		if len(v.na) != len(o.na) {
			return false
		}
		for i := range v.na {
			if !v.na[i].Equal(o.na[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func equalSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
