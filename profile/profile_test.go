package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestProfile_Monotonicity encodes spec §8's profile-monotonicity
// property at the configuration level: Strict is at least as
// restrictive as Standard, which is at least as restrictive as Loose.
func TestProfile_Monotonicity(t *testing.T) {
	strict := Strict()
	standard := Standard()
	loose := Loose()

	assert.True(t, strict.RejectUnsortedFields)
	assert.False(t, standard.RejectUnsortedFields)
	assert.False(t, loose.RejectUnsortedFields)

	assert.True(t, strict.RequireTypeHints)
	assert.False(t, standard.RequireTypeHints)

	assert.True(t, strict.CanonicalBoolean)
	assert.True(t, standard.CanonicalBoolean, "standard still normalizes booleans per spec §3")
	assert.False(t, loose.CanonicalBoolean)

	assert.Equal(t, BinaryV5, strict.MinBinaryVersion)
	assert.Equal(t, BinaryV4, standard.MinBinaryVersion)
	assert.Equal(t, BinaryV4, loose.MinBinaryVersion)
}

func TestProfile_WithOverrides(t *testing.T) {
	p := Strict().WithDepthLimit(3).WithArrayLimit(10).WithStringLimit(100)
	assert.Equal(t, 3, p.DepthLimit)
	assert.Equal(t, 10, p.ArrayLimit)
	assert.Equal(t, 100, p.StringLimit)
}
