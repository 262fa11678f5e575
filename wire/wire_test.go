package wire

import (
	"testing"

	"github.com/lnmplang/lnmp/profile"
	"github.com/lnmplang/lnmp/record"
	"github.com/lnmplang/lnmp/varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crafted builds a minimal flat-frame header followed by a single
// VarInt-encoded entry count, with no entry bytes following it — enough
// to exercise the entry-count limit check without any real payload.
func crafted(count uint64) []byte {
	buf := []byte{byte(VersionFlat), 0x00}
	return varint.EncodeUnsigned(buf, count)
}

func TestDecode_RejectsOversizedEntryCountBeforeAllocating(t *testing.T) {
	buf := crafted(1_000_000_000_000)
	_, err := Decode(buf, profile.Loose())
	assert.Error(t, err)
}

func TestDecodeView_RejectsOversizedEntryCountBeforeAllocating(t *testing.T) {
	buf := crafted(1_000_000_000_000)
	_, err := DecodeView(buf, profile.Loose())
	assert.Error(t, err)
}

// entryWithArrayCount builds a one-entry flat frame whose single field
// carries tag with a VarInt count of count and no further payload bytes,
// to exercise each array-like tag's limit check before it allocates.
func entryWithArrayCount(tag Tag, count uint64) []byte {
	buf := []byte{byte(VersionFlat), 0x00}
	buf = varint.EncodeUnsigned(buf, 1) // one entry
	buf = append(buf, 0x00, 0x01)       // fid = 1
	buf = append(buf, byte(tag))
	return varint.EncodeUnsigned(buf, count)
}

func TestDecode_RejectsOversizedArrayCounts(t *testing.T) {
	for _, tag := range []Tag{TagStringArray, TagIntArray, TagFloatArray, TagBoolArray, TagNestedArray} {
		buf := entryWithArrayCount(tag, 1_000_000_000_000)
		_, err := Decode(buf, profile.Loose())
		assert.Error(t, err, "tag 0x%02x should reject an oversized count", byte(tag))
	}
}

func TestDecodeView_RejectsOversizedArrayCounts(t *testing.T) {
	for _, tag := range []Tag{TagStringArray, TagIntArray, TagFloatArray, TagBoolArray, TagNestedArray} {
		buf := entryWithArrayCount(tag, 1_000_000_000_000)
		_, err := DecodeView(buf, profile.Loose())
		assert.Error(t, err, "tag 0x%02x should reject an oversized count", byte(tag))
	}
}

func TestDecode_RejectsOversizedStringLength(t *testing.T) {
	buf := []byte{byte(VersionFlat), 0x00}
	buf = varint.EncodeUnsigned(buf, 1)
	buf = append(buf, 0x00, 0x01, byte(TagString))
	buf = varint.EncodeUnsigned(buf, 1_000_000_000_000)

	_, err := Decode(buf, profile.Loose())
	assert.Error(t, err)
}

func TestDecodeView_RejectsOversizedStringLength(t *testing.T) {
	buf := []byte{byte(VersionFlat), 0x00}
	buf = varint.EncodeUnsigned(buf, 1)
	buf = append(buf, 0x00, 0x01, byte(TagString))
	buf = varint.EncodeUnsigned(buf, 1_000_000_000_000)

	_, err := DecodeView(buf, profile.Loose())
	assert.Error(t, err)
}

func TestDecode_RejectsOversizedEmbeddingLength(t *testing.T) {
	buf := entryWithArrayCount(TagEmbedding, 1_000_000_000_000)
	_, err := Decode(buf, profile.Loose())
	assert.Error(t, err)
}

func TestEncodeDecode_FlatRoundTrip(t *testing.T) {
	r := record.New(
		record.NewField(7, record.Bool(true)),
		record.NewField(12, record.Int(14532)),
		record.NewField(23, record.StringArray([]string{"admin", "dev"})),
	)

	buf, err := Encode(r, profile.Standard())
	require.NoError(t, err)
	require.Equal(t, byte(VersionFlat), buf[0])

	decoded, err := Decode(buf, profile.Standard())
	require.NoError(t, err)
	assert.True(t, r.Equal(decoded))
}

func TestEncodeDecode_NestedRoundTrip(t *testing.T) {
	child1 := record.New(record.NewField(1, record.Str("user")), record.NewField(2, record.Str("bob")))
	child2 := record.New(record.NewField(1, record.Str("admin")), record.NewField(2, record.Str("alice")))
	r := record.New(record.NewField(60, record.NestedArrayValue([]*record.Record{child1, child2})))

	buf, err := Encode(r, profile.Strict())
	require.NoError(t, err)
	require.Equal(t, byte(VersionNested), buf[0])

	decoded, err := Decode(buf, profile.Strict())
	require.NoError(t, err)
	assert.True(t, r.Equal(decoded))
}

func TestEncodeDecode_FloatArray(t *testing.T) {
	r := record.New(record.NewField(5, record.FloatArray([]float64{1.5, -2.25, 0})))

	buf, err := Encode(r, profile.Loose())
	require.NoError(t, err)

	decoded, err := Decode(buf, profile.Loose())
	require.NoError(t, err)
	assert.True(t, r.Equal(decoded))
}

func TestDecode_RejectsReservedFlags(t *testing.T) {
	buf := []byte{byte(VersionFlat), 0x01, 0x00}
	_, err := Decode(buf, profile.Loose())
	assert.Error(t, err)
}

func TestDecode_RejectsUnknownVersion(t *testing.T) {
	buf := []byte{0x09, 0x00, 0x00}
	_, err := Decode(buf, profile.Loose())
	assert.Error(t, err)
}

func TestDecode_RejectsUnknownTypeTag(t *testing.T) {
	buf := []byte{byte(VersionFlat), 0x00, 0x01, 0x07, 0x00, 0xFF}
	_, err := Decode(buf, profile.Loose())
	assert.Error(t, err)
}

func TestDecode_RejectsTruncatedPayload(t *testing.T) {
	buf := []byte{byte(VersionFlat), 0x00, 0x01, 0x07, 0x00, byte(TagString), 0x05, 'h', 'i'}
	_, err := Decode(buf, profile.Loose())
	assert.Error(t, err)
}

func TestDecodeView_BorrowsStringAndEmbedding(t *testing.T) {
	r := record.New(
		record.NewField(1, record.Str("hello")),
		record.NewField(2, record.Embedding([]byte{1, 2, 3, 4})),
	)
	buf, err := Encode(r, profile.Loose())
	require.NoError(t, err)

	view, err := DecodeView(buf, profile.Loose())
	require.NoError(t, err)
	require.Len(t, view.Fields, 2)

	s, ok := view.Fields[0].AsString()
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	emb, ok := view.Fields[1].AsEmbedding()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, emb)
}

func TestDecodeView_FloatArrayMatchesOwnedDecode(t *testing.T) {
	r := record.New(record.NewField(9, record.FloatArray([]float64{1, 2, 3.5})))
	buf, err := Encode(r, profile.Loose())
	require.NoError(t, err)

	view, err := DecodeView(buf, profile.Loose())
	require.NoError(t, err)
	fa, ok := view.Fields[0].AsFloatArray()
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3.5}, fa)
}

func TestEncode_FlatRecordRaisedToStrictMinimumVersion(t *testing.T) {
	r := record.New(record.NewField(1, record.Int(1)))

	buf, err := Encode(r, profile.Strict())
	require.NoError(t, err)
	assert.Equal(t, byte(VersionNested), buf[0])
}
