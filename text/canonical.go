package text

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/lnmplang/lnmp/checksum"
	"github.com/lnmplang/lnmp/lnmperrs"
	"github.com/lnmplang/lnmp/record"
)

// Encode renders r in canonical text form (spec §4.5): fields sorted
// ascending by FID, newline-separated at the top level and
// semicolon-separated within nested records, no incidental whitespace.
// Encode sorts r's fields in place via Record.Sort before rendering —
// callers that need r untouched should pass a cloned Record.
func Encode(r *record.Record) (string, error) {
	r.Sort()
	if r.HasDuplicateFID() {
		return "", lnmperrs.ErrDuplicateField
	}

	var b strings.Builder
	if err := encodeFields(&b, r, true); err != nil {
		return "", err
	}

	return b.String(), nil
}

func encodeFields(b *strings.Builder, r *record.Record, topLevel bool) error {
	sep := ";"
	if topLevel {
		sep = "\n"
	}

	for i, f := range r.Fields {
		if i > 0 {
			b.WriteString(sep)
		}
		if err := encodeField(b, f); err != nil {
			return err
		}
	}

	return nil
}

func encodeField(b *strings.Builder, f record.Field) error {
	fmt.Fprintf(b, "F%d", f.FID)
	if f.HasHint {
		b.WriteByte(':')
		b.WriteString(f.Hint)
	}
	b.WriteByte('=')

	valText, err := EncodeValue(f.Value)
	if err != nil {
		return err
	}
	b.WriteString(valText)

	if f.HasCheck {
		b.WriteByte('#')
		b.WriteString(checksum.Hex(f.Checksum))
	}

	return nil
}

// EncodeValue renders a single Value in canonical form, the same bytes
// SC32 hashes as the value's `canonical_value` component (spec §4.2).
func EncodeValue(v record.Value) (string, error) {
	switch v.Kind() {
	case record.KindInteger:
		n, _ := v.AsInt()
		return strconv.FormatInt(n, 10), nil
	case record.KindFloat:
		f, _ := v.AsFloat()
		return encodeFloat(f), nil
	case record.KindBoolean:
		bv, _ := v.AsBool()
		if bv {
			return "1", nil
		}
		return "0", nil
	case record.KindString:
		s, _ := v.AsString()
		return encodeString(s), nil
	case record.KindStringArray:
		sa, _ := v.AsStringArray()
		parts := make([]string, len(sa))
		for i, s := range sa {
			parts[i] = encodeString(s)
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	case record.KindIntArray:
		ia, _ := v.AsIntArray()
		parts := make([]string, len(ia))
		for i, n := range ia {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	case record.KindFloatArray:
		fa, _ := v.AsFloatArray()
		parts := make([]string, len(fa))
		for i, f := range fa {
			parts[i] = encodeFloat(f)
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	case record.KindBoolArray:
		ba, _ := v.AsBoolArray()
		parts := make([]string, len(ba))
		for i, bv := range ba {
			if bv {
				parts[i] = "1"
			} else {
				parts[i] = "0"
			}
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	case record.KindNestedRecord:
		nr, _ := v.AsNestedRecord()
		nr.Sort()
		if nr.HasDuplicateFID() {
			return "", lnmperrs.ErrDuplicateField
		}
		var b strings.Builder
		b.WriteByte('{')
		if err := encodeFields(&b, nr, false); err != nil {
			return "", err
		}
		b.WriteByte('}')
		return b.String(), nil
	case record.KindNestedArray:
		na, _ := v.AsNestedArray()
		parts := make([]string, len(na))
		for i, child := range na {
			s, err := EncodeValue(record.NestedValue(child))
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	case record.KindEmbedding, record.KindHybridNumericArray, record.KindQuantizedEmbedding:
		return "", fmt.Errorf("%w: %s has no text rendering, binary-only", lnmperrs.ErrTypeHintMismatch, v.Kind())
	default:
		return "", fmt.Errorf("%w: unknown value kind", lnmperrs.ErrInvalidValue)
	}
}

// encodeString applies canonical rule 4 of spec §4.5: unquoted iff the
// string matches [A-Za-z0-9_.-]+ and is not itself parseable as a
// number or boolean literal (which would make it ambiguous on reparse).
func encodeString(s string) string {
	if isBareIdentSafe(s) {
		return s
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')

	return b.String()
}

func isBareIdentSafe(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		safe := r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '.' || r == '-'
		if !safe {
			return false
		}
	}
	if s == "0" || s == "1" {
		return false
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return false
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return false
	}

	return true
}

// encodeFloat applies canonical rules 6 and the NaN/Infinity literal
// convention: shortest round-trip representation, trailing zeros
// trimmed (except the single "1.0" form retaining one), scientific
// notation outside [1e-6, 1e15), lowercase 'e'.
func encodeFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}

	abs := math.Abs(f)
	useSci := abs != 0 && (abs >= 1e15 || abs < 1e-6)

	format := byte('f')
	if useSci {
		format = 'e'
	}

	s := strconv.FormatFloat(f, format, -1, 64)
	if useSci {
		return normalizeExponent(s)
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// normalizeExponent rewrites Go's "1e+20"/"1e-07" exponent form to the
// canonical "1e20"/"1e-7": no '+' sign, no leading zero in the exponent.
func normalizeExponent(s string) string {
	idx := strings.IndexByte(s, 'e')
	if idx < 0 {
		return s
	}
	mantissa, exp := s[:idx], s[idx+1:]
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}

	neg := false
	if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
		neg = exp[0] == '-'
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		exp = "-" + exp
	}

	return mantissa + "e" + exp
}

// CanonicalHash returns a fast, non-cryptographic hash of r's canonical
// text rendering, for use as a map/cache key. It is distinct from SC32
// (spec §4.2), which is a per-field semantic checksum computed over a
// specific, narrower byte string and is never used for hashing whole
// records.
func CanonicalHash(r *record.Record) (uint64, error) {
	text, err := Encode(r)
	if err != nil {
		return 0, err
	}

	return xxhash.Sum64String(text), nil
}
