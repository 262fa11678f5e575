package varint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lnmplang/lnmp/lnmperrs"
)

func TestEncodeDecodeUnsigned_RoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 63, 64, 127, 128, 8191, 8192, 16383, 16384,
		1 << 20, 1 << 40, 1<<64 - 1,
	}

	for _, v := range values {
		buf := EncodeUnsigned(nil, v)
		got, n, err := DecodeUnsigned(buf, 0)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
		assert.Equal(t, len(buf), Len(v))
	}
}

func TestEncodeDecodeSigned_RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, -64, 14532, -14532, 1 << 40, -(1 << 40)}

	for _, v := range values {
		buf := EncodeSigned(nil, v)
		got, n, err := DecodeSigned(buf, 0)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
	}
}

func TestDecodeUnsigned_NonCanonical(t *testing.T) {
	// 0 encoded with an unnecessary continuation byte.
	_, _, err := DecodeUnsigned([]byte{0x80, 0x00}, 0)
	require.ErrorIs(t, err, lnmperrs.ErrNonCanonicalVarInt)

	// 5 encoded in two bytes instead of one.
	_, _, err = DecodeUnsigned([]byte{0x85, 0x00}, 0)
	require.ErrorIs(t, err, lnmperrs.ErrNonCanonicalVarInt)
}

func TestDecodeUnsigned_Truncated(t *testing.T) {
	_, _, err := DecodeUnsigned([]byte{0x80}, 0)
	require.ErrorIs(t, err, lnmperrs.ErrTruncatedPayload)

	_, _, err = DecodeUnsigned(nil, 0)
	require.ErrorIs(t, err, lnmperrs.ErrTruncatedPayload)
}

func TestDecodeUnsigned_TooLong(t *testing.T) {
	buf := make([]byte, MaxLen+1)
	for i := range buf {
		buf[i] = 0x80
	}

	_, _, err := DecodeUnsigned(buf, 0)
	require.ErrorIs(t, err, lnmperrs.ErrVarIntTooLong)
}

func TestLen_MatchesEncodedLength(t *testing.T) {
	for _, v := range []uint64{0, 63, 64, 8191, 8192, 1 << 35} {
		assert.Equal(t, len(EncodeUnsigned(nil, v)), Len(v))
	}
}
