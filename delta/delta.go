// Package delta implements LNMP's delta engine (spec §4.9): diffing two
// canonically sorted records into a sequence of Set/Update/Delete
// operations via single-pass merge-join, and applying that sequence back
// under strict semantics.
package delta

import (
	"fmt"

	"github.com/lnmplang/lnmp/lnmperrs"
	"github.com/lnmplang/lnmp/profile"
	"github.com/lnmplang/lnmp/record"
	"github.com/lnmplang/lnmp/wire"
)

// OpKind identifies which operation a delta entry performs.
type OpKind uint8

const (
	OpSet OpKind = iota + 1
	OpUpdate
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpSet:
		return "set"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Op is a single delta operation: Value is meaningful only for Set and
// Update.
type Op struct {
	Kind  OpKind
	FID   uint16
	Value record.Value
}

// Diff produces the sequence of operations that transforms a into b, by
// a single merge-join pass over both records' canonically sorted field
// lists (spec §4.9). Both a and b are sorted in place first.
func Diff(a, b *record.Record) []Op {
	a.Sort()
	b.Sort()

	var ops []Op
	i, j := 0, 0

	for i < len(a.Fields) && j < len(b.Fields) {
		af, bf := a.Fields[i], b.Fields[j]

		switch {
		case af.FID == bf.FID:
			if !af.Value.Equal(bf.Value) {
				ops = append(ops, Op{Kind: OpUpdate, FID: bf.FID, Value: bf.Value})
			}
			i++
			j++
		case af.FID < bf.FID:
			ops = append(ops, Op{Kind: OpDelete, FID: af.FID})
			i++
		default:
			ops = append(ops, Op{Kind: OpSet, FID: bf.FID, Value: bf.Value})
			j++
		}
	}

	for ; i < len(a.Fields); i++ {
		ops = append(ops, Op{Kind: OpDelete, FID: a.Fields[i].FID})
	}
	for ; j < len(b.Fields); j++ {
		ops = append(ops, Op{Kind: OpSet, FID: b.Fields[j].FID, Value: b.Fields[j].Value})
	}

	return ops
}

// Apply applies ops to r and returns the resulting record. Apply is
// strict (spec §4.9): Update or Delete of a field absent from r is
// ErrDeltaApplyMismatch; Set of a field already present overwrites it. r
// itself is not mutated; Apply operates on, and returns, a new Record.
func Apply(r *record.Record, ops []Op) (*record.Record, error) {
	out := make([]record.Field, len(r.Fields))
	copy(out, r.Fields)

	for _, op := range ops {
		idx := indexOf(out, op.FID)

		switch op.Kind {
		case OpSet:
			if idx >= 0 {
				out[idx] = record.NewField(op.FID, op.Value)
			} else {
				out = append(out, record.NewField(op.FID, op.Value))
			}
		case OpUpdate:
			if idx < 0 {
				return nil, fmt.Errorf("%w: update of missing field F%d", lnmperrs.ErrDeltaApplyMismatch, op.FID)
			}
			out[idx] = record.NewField(op.FID, op.Value)
		case OpDelete:
			if idx < 0 {
				return nil, fmt.Errorf("%w: delete of missing field F%d", lnmperrs.ErrDeltaApplyMismatch, op.FID)
			}
			out = append(out[:idx], out[idx+1:]...)
		default:
			return nil, fmt.Errorf("%w: unknown delta op kind %d", lnmperrs.ErrInvalidValue, op.Kind)
		}
	}

	result := record.New(out...)
	result.Sort()

	return result, nil
}

func indexOf(fields []record.Field, fid uint16) int {
	for i, f := range fields {
		if f.FID == fid {
			return i
		}
	}
	return -1
}

// Encode serializes ops as spec §4.9's wire form: for each op,
// op_tag(1) + fid(u16 LE) + payload (type_tag+value for Set/Update, no
// payload for Delete).
func Encode(ops []Op) ([]byte, error) {
	buf := make([]byte, 0, len(ops)*8)

	for _, op := range ops {
		buf = append(buf, byte(op.Kind))
		buf = wire.Endian.AppendUint16(buf, op.FID)

		if op.Kind == OpSet || op.Kind == OpUpdate {
			var err error
			buf, err = wire.EncodeTaggedValue(buf, op.Value)
			if err != nil {
				return nil, err
			}
		}
	}

	return buf, nil
}

// Decode parses a byte sequence produced by Encode back into operations.
func Decode(data []byte, prof profile.Profile) ([]Op, error) {
	var ops []Op
	pos := 0

	for pos < len(data) {
		if pos+3 > len(data) {
			return nil, lnmperrs.ErrTruncatedPayload
		}
		kind := OpKind(data[pos])
		fid := wire.Endian.Uint16(data[pos+1 : pos+3])
		pos += 3

		op := Op{Kind: kind, FID: fid}

		switch kind {
		case OpSet, OpUpdate:
			v, next, err := wire.DecodeTaggedValue(data, pos, prof)
			if err != nil {
				return nil, err
			}
			op.Value = v
			pos = next
		case OpDelete:
			// no payload
		default:
			return nil, fmt.Errorf("%w: unknown delta op kind %d", lnmperrs.ErrInvalidValue, kind)
		}

		ops = append(ops, op)
	}

	return ops, nil
}
