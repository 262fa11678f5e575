package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func allTokens(t *testing.T, src string) []Token {
	t.Helper()
	l := New([]byte(src))
	var toks []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == KindEOF {
			return toks
		}
	}
}

func TestLexer_SimpleField(t *testing.T) {
	toks := allTokens(t, "F12=14532")
	require.Equal(t, []Kind{KindFID, KindEquals, KindIdent, KindEOF}, kinds(toks))
	require.Equal(t, "12", toks[0].Text)
	require.Equal(t, "14532", toks[2].Text)
}

func TestLexer_TypeHint(t *testing.T) {
	toks := allTokens(t, "F12:i=14532")
	require.Equal(t, []Kind{KindFID, KindColon, KindIdent, KindEquals, KindIdent, KindEOF}, kinds(toks))
}

func TestLexer_QuotedStringWithEscapes(t *testing.T) {
	toks := allTokens(t, `F1="a\"b\n"`)
	require.Equal(t, KindQuotedString, toks[2].Kind)
	require.Equal(t, "a\"b\n", toks[2].Text)
}

func TestLexer_InvalidEscape(t *testing.T) {
	l := New([]byte(`F1="\q"`))
	for i := 0; i < 2; i++ {
		_, err := l.Next()
		require.NoError(t, err)
	}
	_, err := l.Next()
	require.Error(t, err)
}

func TestLexer_UnterminatedString(t *testing.T) {
	l := New([]byte(`F1="abc`))
	for i := 0; i < 2; i++ {
		_, err := l.Next()
		require.NoError(t, err)
	}
	_, err := l.Next()
	require.Error(t, err)
}

func TestLexer_ArrayAndNested(t *testing.T) {
	toks := allTokens(t, `F23=["admin","dev"]`)
	require.Equal(t, []Kind{
		KindFID, KindEquals, KindLBracket, KindQuotedString, KindComma,
		KindQuotedString, KindRBracket, KindEOF,
	}, kinds(toks))
}

func TestLexer_NegativeAndFloat(t *testing.T) {
	toks := allTokens(t, "F1=-3.14e-2")
	require.Equal(t, KindIdent, toks[2].Kind)
	require.Equal(t, "-3.14e-2", toks[2].Text)
}

func TestLexer_Checksum(t *testing.T) {
	toks := allTokens(t, "F12=14532#36AAE667")
	require.Equal(t, []Kind{KindFID, KindEquals, KindIdent, KindHash, KindIdent, KindEOF}, kinds(toks))
}

func TestLexer_StringLimitRejectsOversizedQuotedString(t *testing.T) {
	l := NewWithStringLimit([]byte(`F1="abcdefghij"`), 5)
	for i := 0; i < 2; i++ {
		_, err := l.Next()
		require.NoError(t, err)
	}
	_, err := l.Next()
	require.Error(t, err)
}

func TestLexer_StringLimitRejectsOversizedIdent(t *testing.T) {
	l := NewWithStringLimit([]byte("F1=abcdefghij"), 5)
	for i := 0; i < 2; i++ {
		_, err := l.Next()
		require.NoError(t, err)
	}
	_, err := l.Next()
	require.Error(t, err)
}

func TestLexer_StringLimitZeroMeansUnbounded(t *testing.T) {
	toks := allTokens(t, `F1="a long value that would exceed a small limit"`)
	require.Equal(t, KindQuotedString, toks[2].Kind)
}

func TestLexer_StringLimitAllowsValueAtExactly(t *testing.T) {
	l := NewWithStringLimit([]byte(`F1="abcde"`), 5)
	for i := 0; i < 2; i++ {
		_, err := l.Next()
		require.NoError(t, err)
	}
	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, "abcde", tok.Text)
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}

	return out
}
