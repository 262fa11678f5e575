package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeDict struct{}

func (fakeDict) CanonicalBoolean(fid uint16, raw string) (string, bool) {
	if fid != 7 {
		return "", false
	}
	switch raw {
	case "true", "yes", "on":
		return "1", true
	case "false", "no", "off":
		return "0", true
	default:
		return "", false
	}
}

func TestSanitize_Identity_OnCanonical(t *testing.T) {
	in := "F7=1\nF12=14532\nF23=[\"admin\",\"dev\"]"
	assert.Equal(t, in, Sanitize(in, nil))
}

func TestSanitize_Idempotent(t *testing.T) {
	in := "F7 = yes ; F12=14532;  # trailing comment\n"
	once := Sanitize(in, fakeDict{})
	twice := Sanitize(once, fakeDict{})
	assert.Equal(t, once, twice)
}

func TestSanitize_StripsCommentsNotChecksums(t *testing.T) {
	in := "F12=14532#36AAE667"
	assert.Equal(t, "F12=14532#36AAE667", Sanitize(in, nil))

	in2 := "F12=14532 # this is a real comment"
	assert.Equal(t, "F12=14532", Sanitize(in2, nil))
}

func TestSanitize_TrimsTrailingSeparators(t *testing.T) {
	in := "F7=1;F12=14532;;"
	assert.Equal(t, "F7=1;F12=14532", Sanitize(in, nil))
}

func TestSanitize_NormalizesBooleanSynonyms(t *testing.T) {
	in := "F7=yes;F8=true"
	out := Sanitize(in, fakeDict{})
	assert.Equal(t, "F7=1;F8=true", out)
}

func TestSanitize_TrimsWhitespaceAroundOperators(t *testing.T) {
	in := "F7 = 1 ; F12 : i = 14532"
	out := Sanitize(in, nil)
	assert.Equal(t, "F7=1;F12:i=14532", out)
}

func TestSanitize_SkipsNestedSeparators(t *testing.T) {
	in := "F60={F1=1;F2=2};F7=1"
	out := Sanitize(in, nil)
	assert.Equal(t, "F60={F1=1;F2=2};F7=1", out)
}

func TestSanitize_DropsBlankLines(t *testing.T) {
	in := "F7=1\n\n  \nF12=14532"
	out := Sanitize(in, nil)
	assert.Equal(t, "F7=1\nF12=14532", out)
}

func TestSanitize_QuotesTokensWithAmbiguousCharacters(t *testing.T) {
	in := "F1=New York;F12=14532"
	out := Sanitize(in, nil)
	assert.Equal(t, `F1="New York";F12=14532`, out)
}

func TestSanitize_QuotesTokenButKeepsChecksumSuffixBare(t *testing.T) {
	in := "F1=New York#1A2B3C4D"
	out := Sanitize(in, nil)
	assert.Equal(t, `F1="New York"#1A2B3C4D`, out)
}

func TestSanitize_QuotingEscapesEmbeddedQuotesAndBackslashes(t *testing.T) {
	in := `F1=say "hi"\ now`
	out := Sanitize(in, nil)
	assert.Equal(t, `F1="say \"hi\"\\ now"`, out)
}

func TestSanitize_QuotingLeavesAlreadyQuotedValuesAlone(t *testing.T) {
	in := `F1="New York"`
	assert.Equal(t, in, Sanitize(in, nil))
}

func TestSanitize_QuotingLeavesStructuredValuesAlone(t *testing.T) {
	in := "F60={F1=1;F2=2};F23=[\"a\",\"b\"]"
	out := Sanitize(in, nil)
	assert.Equal(t, in, out)
}

func TestSanitize_QuotingIsIdempotent(t *testing.T) {
	in := "F1=New York"
	once := Sanitize(in, nil)
	twice := Sanitize(once, nil)
	assert.Equal(t, once, twice)
}
