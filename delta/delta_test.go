package delta

import (
	"testing"

	"github.com/lnmplang/lnmp/profile"
	"github.com/lnmplang/lnmp/record"
	"github.com/lnmplang/lnmp/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_MatchesSpecScenario(t *testing.T) {
	a, err := text.Parse([]byte("F1=alice\nF7=1\nF12=14532"), profile.Loose())
	require.NoError(t, err)
	b, err := text.Parse([]byte("F1=alice\nF7=0\nF20=42"), profile.Loose())
	require.NoError(t, err)

	ops := Diff(a, b)
	require.Len(t, ops, 3)

	assert.Equal(t, OpUpdate, ops[0].Kind)
	assert.Equal(t, uint16(7), ops[0].FID)
	bv, _ := ops[0].Value.AsBool()
	assert.False(t, bv)

	assert.Equal(t, OpDelete, ops[1].Kind)
	assert.Equal(t, uint16(12), ops[1].FID)

	assert.Equal(t, OpSet, ops[2].Kind)
	assert.Equal(t, uint16(20), ops[2].FID)
	iv, _ := ops[2].Value.AsInt()
	assert.Equal(t, int64(42), iv)
}

func TestApply_TransformsAIntoB(t *testing.T) {
	a, err := text.Parse([]byte("F1=alice\nF7=1\nF12=14532"), profile.Loose())
	require.NoError(t, err)
	b, err := text.Parse([]byte("F1=alice\nF7=0\nF20=42"), profile.Loose())
	require.NoError(t, err)

	ops := Diff(a, b)
	result, err := Apply(a, ops)
	require.NoError(t, err)
	assert.True(t, result.Equal(b))
}

func TestDiff_NoopOnIdenticalRecords(t *testing.T) {
	a, err := text.Parse([]byte("F1=alice\nF7=1"), profile.Loose())
	require.NoError(t, err)
	b, err := text.Parse([]byte("F7=1\nF1=alice"), profile.Loose())
	require.NoError(t, err)

	ops := Diff(a, b)
	assert.Empty(t, ops)
}

func TestApply_RejectsUpdateOfMissingField(t *testing.T) {
	r := record.New(record.NewField(1, record.Int(1)))
	ops := []Op{{Kind: OpUpdate, FID: 99, Value: record.Int(2)}}

	_, err := Apply(r, ops)
	assert.Error(t, err)
}

func TestApply_RejectsDeleteOfMissingField(t *testing.T) {
	r := record.New(record.NewField(1, record.Int(1)))
	ops := []Op{{Kind: OpDelete, FID: 99}}

	_, err := Apply(r, ops)
	assert.Error(t, err)
}

func TestApply_SetOverwritesExisting(t *testing.T) {
	r := record.New(record.NewField(1, record.Int(1)))
	ops := []Op{{Kind: OpSet, FID: 1, Value: record.Int(2)}}

	result, err := Apply(r, ops)
	require.NoError(t, err)
	f, ok := result.Get(1)
	require.True(t, ok)
	iv, _ := f.Value.AsInt()
	assert.Equal(t, int64(2), iv)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	ops := []Op{
		{Kind: OpUpdate, FID: 7, Value: record.Bool(false)},
		{Kind: OpDelete, FID: 12},
		{Kind: OpSet, FID: 20, Value: record.Int(42)},
	}

	buf, err := Encode(ops)
	require.NoError(t, err)

	decoded, err := Decode(buf, profile.Loose())
	require.NoError(t, err)
	require.Equal(t, len(ops), len(decoded))
	for i := range ops {
		assert.Equal(t, ops[i].Kind, decoded[i].Kind)
		assert.Equal(t, ops[i].FID, decoded[i].FID)
		if ops[i].Kind != OpDelete {
			assert.True(t, ops[i].Value.Equal(decoded[i].Value))
		}
	}
}
