package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip_NoChecksum(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")
	frames := Encode(payload, 7, ChecksumNone)

	out, err := Decode(frames, ChecksumNone)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestEncodeDecode_RoundTrip_XOR32(t *testing.T) {
	payload := []byte("some canonical binary frame bytes go here")
	frames := Encode(payload, 5, ChecksumXOR32)

	out, err := Decode(frames, ChecksumXOR32)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestEncodeDecode_RoundTrip_SC32(t *testing.T) {
	payload := []byte("a shorter payload")
	frames := Encode(payload, 4, ChecksumSC32)

	out, err := Decode(frames, ChecksumSC32)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestEncode_EmptyPayloadYieldsOnlyTerminator(t *testing.T) {
	frames := Encode(nil, 8, ChecksumNone)
	require.Len(t, frames, 1)

	out, err := Decode(frames, ChecksumNone)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDecode_RejectsSequenceGap(t *testing.T) {
	frames := Encode([]byte("abcdefgh"), 4, ChecksumNone)
	require.GreaterOrEqual(t, len(frames), 3)

	gapped := []([]byte){frames[0], frames[2]}
	_, err := Decode(gapped, ChecksumNone)
	assert.Error(t, err)
}

func TestDecode_RejectsChecksumMismatch(t *testing.T) {
	frames := Encode([]byte("corruptible payload"), 6, ChecksumXOR32)
	corrupted := append([]byte(nil), frames[0]...)
	corrupted[len(corrupted)-1] ^= 0xFF

	_, err := Decode([][]byte{corrupted}, ChecksumXOR32)
	assert.Error(t, err)
}

func TestDecode_StopsAtZeroLengthTerminator(t *testing.T) {
	frames := Encode([]byte("abcd"), 2, ChecksumNone)
	extra := append(frames, encodeChunk(99, []byte("ignored"), ChecksumNone))

	out, err := Decode(extra, ChecksumNone)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), out)
}
