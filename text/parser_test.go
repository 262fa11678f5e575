package text

import (
	"testing"

	"github.com/lnmplang/lnmp/checksum"
	"github.com/lnmplang/lnmp/profile"
	"github.com/lnmplang/lnmp/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleFields(t *testing.T) {
	r, err := Parse([]byte(`F23=["admin","dev"];F7=1;F12=14532`), profile.Loose())
	require.NoError(t, err)

	f, ok := r.Get(7)
	require.True(t, ok)
	bv, _ := f.Value.AsBool()
	assert.True(t, bv)

	f, ok = r.Get(12)
	require.True(t, ok)
	iv, _ := f.Value.AsInt()
	assert.Equal(t, int64(14532), iv)

	f, ok = r.Get(23)
	require.True(t, ok)
	sa, _ := f.Value.AsStringArray()
	assert.Equal(t, []string{"admin", "dev"}, sa)
}

func TestParse_NestedArray(t *testing.T) {
	r, err := Parse([]byte(`F60=[{F2=bob;F1=user},{F2=alice;F1=admin}]`), profile.Loose())
	require.NoError(t, err)

	f, ok := r.Get(60)
	require.True(t, ok)
	na, ok := f.Value.AsNestedArray()
	require.True(t, ok)
	require.Len(t, na, 2)

	f1, ok := na[0].Get(1)
	require.True(t, ok)
	s1, _ := f1.Value.AsString()
	assert.Equal(t, "user", s1)
}

func TestParse_TypeHintAndChecksum(t *testing.T) {
	r, err := Parse([]byte(`F12:i=14532#36AAE667`), profile.Standard())
	require.NoError(t, err)

	f, ok := r.Get(12)
	require.True(t, ok)
	assert.True(t, f.HasHint)
	assert.Equal(t, "i", f.Hint)
	assert.True(t, f.HasCheck)
	assert.Equal(t, "36AAE667", checksum.Hex(f.Checksum))
}

func TestParse_RejectsUnknownTypeHint(t *testing.T) {
	_, err := Parse([]byte(`F1:zz=1`), profile.Loose())
	assert.Error(t, err)
}

func TestParse_RejectsInvalidEscape(t *testing.T) {
	_, err := Parse([]byte(`F1="a\qb"`), profile.Loose())
	assert.Error(t, err)
}

func TestParse_StrictRejectsUnsortedFields(t *testing.T) {
	_, err := Parse([]byte("F12=1\nF7=1"), profile.Strict())
	assert.Error(t, err)
}

func TestParse_LooseReordersUnsortedFields(t *testing.T) {
	r, err := Parse([]byte("F12=1\nF7=1"), profile.Loose())
	require.NoError(t, err)
	assert.Equal(t, []uint16{7, 12}, fidsOf(r))
}

func TestParse_RejectsDuplicateFields(t *testing.T) {
	_, err := Parse([]byte("F7=1\nF7=2"), profile.Loose())
	assert.Error(t, err)
}

func TestParse_RejectsTrailingData(t *testing.T) {
	_, err := Parse([]byte("F7=1 garbage"), profile.Loose())
	assert.Error(t, err)
}

func TestParse_FloatAndNaN(t *testing.T) {
	r, err := Parse([]byte(`F1:f=3.5;F2:f=NaN;F3:f=Infinity`), profile.Loose())
	require.NoError(t, err)
	f1, _ := r.Get(1)
	v1, _ := f1.Value.AsFloat()
	assert.Equal(t, 3.5, v1)

	f2, _ := r.Get(2)
	v2, _ := f2.Value.AsFloat()
	assert.True(t, v2 != v2) // NaN != NaN
}

func TestParse_RejectsArrayOverLimit(t *testing.T) {
	prof := profile.Loose().WithArrayLimit(2)
	_, err := Parse([]byte(`F1:ia=[1,2,3]`), prof)
	assert.Error(t, err)
}

func TestParse_RejectsNestedArrayOverLimit(t *testing.T) {
	prof := profile.Loose().WithArrayLimit(1)
	_, err := Parse([]byte(`F60=[{F1=1},{F1=2}]`), prof)
	assert.Error(t, err)
}

func TestParse_RejectsStringOverLimit(t *testing.T) {
	prof := profile.Loose().WithStringLimit(3)
	_, err := Parse([]byte(`F1="abcdef"`), prof)
	assert.Error(t, err)
}

func TestParse_AllowsArrayAtLimit(t *testing.T) {
	prof := profile.Loose().WithArrayLimit(3)
	r, err := Parse([]byte(`F1:ia=[1,2,3]`), prof)
	require.NoError(t, err)
	f, ok := r.Get(1)
	require.True(t, ok)
	ia, _ := f.Value.AsIntArray()
	assert.Equal(t, []int64{1, 2, 3}, ia)
}

func fidsOf(r *record.Record) []uint16 {
	out := make([]uint16, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.FID
	}

	return out
}
