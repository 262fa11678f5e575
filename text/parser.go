// Package text implements the LNMP text parser (spec §4.4) and the
// canonicalizer/text encoder (spec §4.5).
package text

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lnmplang/lnmp/checksum"
	"github.com/lnmplang/lnmp/internal/lexer"
	"github.com/lnmplang/lnmp/lnmperrs"
	"github.com/lnmplang/lnmp/profile"
	"github.com/lnmplang/lnmp/record"
)

// Parse parses src under prof into a Record. The returned Record is not
// guaranteed canonical unless prof rejects unsorted/duplicate input;
// callers that need a canonical Record should call Record.Canonicalize
// afterward (Loose and Standard profiles tolerate unsorted input and
// reorder it rather than reject it).
func Parse(src []byte, prof profile.Profile) (*record.Record, error) {
	p := &parser{lex: lexer.NewWithStringLimit(src, prof.StringLimit), prof: prof}
	if err := p.advance(); err != nil {
		return nil, err
	}

	r, err := p.parseRecord(0)
	if err != nil {
		return nil, err
	}

	if p.tok.Kind != lexer.KindEOF {
		return nil, fmt.Errorf("%w: at byte offset %d", lnmperrs.ErrTrailingData, p.tok.Offset)
	}

	if prof.RejectUnsortedFields {
		if !r.IsSorted() {
			return nil, fmt.Errorf("%w: fields not in ascending FID order", lnmperrs.ErrOutOfOrderFID)
		}
	} else {
		r.Sort()
	}
	if r.HasDuplicateFID() {
		return nil, lnmperrs.ErrDuplicateField
	}

	return r, nil
}

type parser struct {
	lex   *lexer.Lexer
	tok   lexer.Token
	prof  profile.Profile
	depth int
}

func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok

	return nil
}

// parseRecord parses a sequence of fields separated by ';' or newline,
// stopping at EOF (depth 0) or '}' (nested, depth > 0).
func (p *parser) parseRecord(depth int) (*record.Record, error) {
	if depth > p.prof.DepthLimit {
		return nil, lnmperrs.ErrNestingTooDeep
	}

	var fields []record.Field
	sawTopLevelSemicolon := false

	for {
		if p.tok.Kind == lexer.KindEOF || p.tok.Kind == lexer.KindRBrace {
			break
		}
		f, err := p.parseField(depth)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)

		switch p.tok.Kind {
		case lexer.KindSemicolon:
			if depth == 0 {
				sawTopLevelSemicolon = true
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		case lexer.KindNewline:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case lexer.KindEOF, lexer.KindRBrace:
			// trailing separator omitted; loop exits next iteration
		default:
			return nil, fmt.Errorf("%w: unexpected token at offset %d", lnmperrs.ErrUnexpectedToken, p.tok.Offset)
		}
	}

	if depth == 0 && sawTopLevelSemicolon && p.prof.RejectUnsortedFields {
		return nil, fmt.Errorf("%w: semicolon used as top-level separator", lnmperrs.ErrStrictModeViolation)
	}

	return record.New(fields...), nil
}

func (p *parser) parseField(depth int) (record.Field, error) {
	if p.tok.Kind != lexer.KindFID {
		return record.Field{}, fmt.Errorf("%w: expected field id at offset %d", lnmperrs.ErrUnexpectedToken, p.tok.Offset)
	}
	fid64, err := strconv.ParseUint(p.tok.Text, 10, 32)
	if err != nil || fid64 > 65535 {
		return record.Field{}, fmt.Errorf("%w: %q", lnmperrs.ErrInvalidFieldID, p.tok.Text)
	}
	fid := uint16(fid64)
	if err := p.advance(); err != nil {
		return record.Field{}, err
	}

	var hint string
	hasHint := false
	if p.tok.Kind == lexer.KindColon {
		if err := p.advance(); err != nil {
			return record.Field{}, err
		}
		if p.tok.Kind != lexer.KindIdent {
			return record.Field{}, fmt.Errorf("%w: at offset %d", lnmperrs.ErrInvalidTypeHint, p.tok.Offset)
		}
		hint = p.tok.Text
		if _, ok := record.HintToKind(hint); !ok {
			return record.Field{}, fmt.Errorf("%w: %q", lnmperrs.ErrInvalidTypeHint, hint)
		}
		hasHint = true
		if err := p.advance(); err != nil {
			return record.Field{}, err
		}
	}
	if p.prof.RequireTypeHints && !hasHint {
		return record.Field{}, fmt.Errorf("%w: field %d missing required type hint", lnmperrs.ErrStrictModeViolation, fid)
	}

	if p.tok.Kind != lexer.KindEquals {
		return record.Field{}, fmt.Errorf("%w: expected '=' at offset %d", lnmperrs.ErrUnexpectedToken, p.tok.Offset)
	}
	if err := p.advance(); err != nil {
		return record.Field{}, err
	}

	val, err := p.parseValue(depth, hint, hasHint)
	if err != nil {
		return record.Field{}, err
	}

	f := record.NewField(fid, val)
	if hasHint {
		f = f.WithHint(hint)
	}

	if p.tok.Kind == lexer.KindHash {
		sum, err := p.parseChecksum()
		if err != nil {
			return record.Field{}, err
		}
		f = f.WithChecksum(sum)
	}

	return f, nil
}

func (p *parser) parseChecksum() (uint32, error) {
	if err := p.advance(); err != nil {
		return 0, err
	}
	if p.tok.Kind != lexer.KindIdent || len(p.tok.Text) != 8 {
		return 0, fmt.Errorf("%w: checksum must be 8 hex digits", lnmperrs.ErrInvalidValue)
	}
	sum, err := checksum.ParseHex(p.tok.Text)
	if err != nil {
		return 0, err
	}
	if err := p.advance(); err != nil {
		return 0, err
	}

	return sum, nil
}

func (p *parser) parseValue(depth int, hint string, hasHint bool) (record.Value, error) {
	switch p.tok.Kind {
	case lexer.KindLBrace:
		return p.parseNestedRecord(depth)
	case lexer.KindLBracket:
		return p.parseArray(depth, hint, hasHint)
	case lexer.KindQuotedString:
		s := p.tok.Text
		if err := p.advance(); err != nil {
			return record.Value{}, err
		}
		return record.Str(s), nil
	case lexer.KindIdent:
		return p.parseScalarIdent(hint, hasHint)
	default:
		return record.Value{}, fmt.Errorf("%w: at offset %d", lnmperrs.ErrUnexpectedToken, p.tok.Offset)
	}
}

func (p *parser) parseNestedRecord(depth int) (record.Value, error) {
	if err := p.advance(); err != nil { // consume '{'
		return record.Value{}, err
	}
	child, err := p.parseRecord(depth + 1)
	if err != nil {
		return record.Value{}, err
	}
	if p.tok.Kind != lexer.KindRBrace {
		return record.Value{}, fmt.Errorf("%w: expected '}'", lnmperrs.ErrUnclosedNestedStruct)
	}
	if err := p.advance(); err != nil {
		return record.Value{}, err
	}

	return record.NestedValue(child), nil
}

func (p *parser) parseArray(depth int, hint string, hasHint bool) (record.Value, error) {
	if err := p.advance(); err != nil { // consume '['
		return record.Value{}, err
	}

	if p.tok.Kind == lexer.KindLBrace {
		records, err := p.parseNestedArrayElements(depth)
		if err != nil {
			return record.Value{}, err
		}

		return record.NestedArrayValue(records), nil
	}

	return p.parseScalarArray(hint, hasHint)
}

func (p *parser) parseNestedArrayElements(depth int) ([]*record.Record, error) {
	var out []*record.Record
	for {
		if p.tok.Kind == lexer.KindRBracket {
			break
		}
		if p.tok.Kind != lexer.KindLBrace {
			return nil, fmt.Errorf("%w: at offset %d", lnmperrs.ErrInvalidNestedStruct, p.tok.Offset)
		}
		val, err := p.parseNestedRecord(depth)
		if err != nil {
			return nil, err
		}
		r, _ := val.AsNestedRecord()
		out = append(out, r)
		if len(out) > p.prof.ArrayLimit {
			return nil, fmt.Errorf("%w: nested array at offset %d", lnmperrs.ErrArrayTooLong, p.tok.Offset)
		}

		if p.tok.Kind == lexer.KindComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if p.tok.Kind != lexer.KindRBracket {
		return nil, fmt.Errorf("%w: expected ']'", lnmperrs.ErrInvalidNestedStruct)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	return out, nil
}

// parseScalarArray parses a comma-separated scalar array, resolving its
// element kind from an explicit hint if given, else from the shape of
// the first element (spec §4.4 ordered choice).
func (p *parser) parseScalarArray(hint string, hasHint bool) (record.Value, error) {
	var raw []string
	isQuoted := make([]bool, 0)

	for p.tok.Kind != lexer.KindRBracket {
		switch p.tok.Kind {
		case lexer.KindQuotedString:
			raw = append(raw, p.tok.Text)
			isQuoted = append(isQuoted, true)
		case lexer.KindIdent:
			raw = append(raw, p.tok.Text)
			isQuoted = append(isQuoted, false)
		default:
			return record.Value{}, fmt.Errorf("%w: at offset %d", lnmperrs.ErrUnexpectedToken, p.tok.Offset)
		}
		if len(raw) > p.prof.ArrayLimit {
			return record.Value{}, fmt.Errorf("%w: array at offset %d", lnmperrs.ErrArrayTooLong, p.tok.Offset)
		}
		if err := p.advance(); err != nil {
			return record.Value{}, err
		}
		if p.tok.Kind == lexer.KindComma {
			if err := p.advance(); err != nil {
				return record.Value{}, err
			}
			continue
		}
		break
	}
	if p.tok.Kind != lexer.KindRBracket {
		return record.Value{}, fmt.Errorf("%w: expected ']'", lnmperrs.ErrUnexpectedToken)
	}
	if err := p.advance(); err != nil {
		return record.Value{}, err
	}

	return buildScalarArray(raw, isQuoted, hint, hasHint)
}

func buildScalarArray(raw []string, isQuoted []bool, hint string, hasHint bool) (record.Value, error) {
	if hasHint {
		switch hint {
		case "sa":
			return record.StringArray(append([]string{}, raw...)), nil
		case "ia":
			return intArrayFrom(raw)
		case "fa":
			return floatArrayFrom(raw)
		case "ba":
			return boolArrayFrom(raw)
		default:
			return record.Value{}, fmt.Errorf("%w: hint %q is not an array type", lnmperrs.ErrTypeHintMismatch, hint)
		}
	}

	if len(raw) == 0 {
		return record.StringArray(nil), nil
	}
	if isQuoted[0] {
		return record.StringArray(append([]string{}, raw...)), nil
	}
	if strings.ContainsAny(raw[0], ".eE") && !isBoolLiteral(raw[0]) {
		return floatArrayFrom(raw)
	}

	return intArrayFrom(raw)
}

func intArrayFrom(raw []string) (record.Value, error) {
	out := make([]int64, len(raw))
	for i, s := range raw {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return record.Value{}, fmt.Errorf("%w: %q is not an integer", lnmperrs.ErrInvalidValue, s)
		}
		out[i] = n
	}

	return record.IntArray(out), nil
}

func floatArrayFrom(raw []string) (record.Value, error) {
	out := make([]float64, len(raw))
	for i, s := range raw {
		f, err := parseFloatLiteral(s)
		if err != nil {
			return record.Value{}, err
		}
		out[i] = f
	}

	return record.FloatArray(out), nil
}

func boolArrayFrom(raw []string) (record.Value, error) {
	out := make([]bool, len(raw))
	for i, s := range raw {
		switch s {
		case "0":
			out[i] = false
		case "1":
			out[i] = true
		default:
			return record.Value{}, fmt.Errorf("%w: %q is not a canonical boolean", lnmperrs.ErrNonCanonicalBoolean, s)
		}
	}

	return record.BoolArray(out), nil
}

func isBoolLiteral(s string) bool { return s == "0" || s == "1" }

func (p *parser) parseScalarIdent(hint string, hasHint bool) (record.Value, error) {
	text := p.tok.Text
	if err := p.advance(); err != nil {
		return record.Value{}, err
	}

	if hasHint {
		switch hint {
		case "i":
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return record.Value{}, fmt.Errorf("%w: %q is not an integer", lnmperrs.ErrInvalidValue, text)
			}
			return record.Int(n), nil
		case "f":
			f, err := parseFloatLiteral(text)
			if err != nil {
				return record.Value{}, err
			}
			return record.Float(f), nil
		case "b":
			switch text {
			case "0":
				return record.Bool(false), nil
			case "1":
				return record.Bool(true), nil
			default:
				return record.Value{}, fmt.Errorf("%w: %q is not a canonical boolean", lnmperrs.ErrNonCanonicalBoolean, text)
			}
		case "s":
			return record.Str(text), nil
		default:
			return record.Value{}, fmt.Errorf("%w: hint %q is not a scalar type", lnmperrs.ErrTypeHintMismatch, hint)
		}
	}

	if text == "0" || text == "1" {
		return record.Bool(text == "1"), nil
	}
	if f, err := parseFloatLiteral(text); err == nil {
		if !strings.ContainsAny(text, ".eEnN") {
			if n, err := strconv.ParseInt(text, 10, 64); err == nil {
				return record.Int(n), nil
			}
		}
		return record.Float(f), nil
	}

	return record.Str(text), nil
}

func parseFloatLiteral(s string) (float64, error) {
	switch s {
	case "NaN":
		z := zero()
		return z / z, nil
	case "Infinity":
		return positiveInfinity(), nil
	case "-Infinity":
		return negativeInfinity(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", lnmperrs.ErrInvalidNumberLiteral, s)
	}

	return f, nil
}

func zero() float64 { return 0 }

func positiveInfinity() float64 {
	var z float64
	return 1 / z
}

func negativeInfinity() float64 {
	var z float64
	return -1 / z
}
