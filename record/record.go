package record

import "sort"

// Record is an owned, ordered sequence of Fields (spec §3). A Record
// exclusively owns its Fields; a nested Record reachable through a
// NestedRecord/NestedArray Value is owned by the Field that holds it.
// Record is immutable after Canonicalize: callers that need to mutate a
// canonical Record build a new one instead, mirroring the reference
// implementation's decode-once, immutable-blob discipline.
type Record struct {
	Fields []Field
}

// New builds a Record from the given fields in the order given; it is
// not canonical until Canonicalize is called (or Sort, for ordering only).
func New(fields ...Field) *Record {
	return &Record{Fields: fields}
}

// Get returns the field with the given FID at this nesting level, if
// present.
func (r *Record) Get(fid uint16) (Field, bool) {
	for _, f := range r.Fields {
		if f.FID == fid {
			return f, true
		}
	}

	return Field{}, false
}

// Sort orders Fields ascending by FID in place, without checking for
// duplicates. Canonicalize does this and more; Sort alone is useful for
// Loose-profile recovery of unsorted input (spec §7 propagation policy).
func (r *Record) Sort() {
	sort.Slice(r.Fields, func(i, j int) bool { return r.Fields[i].FID < r.Fields[j].FID })

	for _, f := range r.Fields {
		if nr, ok := f.Value.AsNestedRecord(); ok {
			nr.Sort()
		}
		if na, ok := f.Value.AsNestedArray(); ok {
			for _, child := range na {
				child.Sort()
			}
		}
	}
}

// HasDuplicateFID reports whether any two fields at this nesting level
// (not recursively) share a FID. Canonical records never have duplicate
// FIDs within the same container (spec §3 invariant).
func (r *Record) HasDuplicateFID() bool {
	seen := make(map[uint16]struct{}, len(r.Fields))
	for _, f := range r.Fields {
		if _, ok := seen[f.FID]; ok {
			return true
		}
		seen[f.FID] = struct{}{}
	}

	return false
}

// IsSorted reports whether Fields are in strictly ascending FID order at
// this nesting level.
func (r *Record) IsSorted() bool {
	for i := 1; i < len(r.Fields); i++ {
		if r.Fields[i-1].FID >= r.Fields[i].FID {
			return false
		}
	}

	return true
}

// Canonicalize sorts Fields (recursively into nested records/arrays) and
// reports whether the result contains duplicate FIDs at any level, which
// the caller must treat as an error rather than silently accept — this
// method performs the *ordering* half of canonicalization; byte-level
// canonical value rendering is the text/wire encoders' job.
func (r *Record) Canonicalize() (ok bool) {
	r.Sort()

	return !r.hasDuplicateFIDRecursive()
}

func (r *Record) hasDuplicateFIDRecursive() bool {
	if r.HasDuplicateFID() {
		return true
	}

	for _, f := range r.Fields {
		if nr, isNested := f.Value.AsNestedRecord(); isNested && nr.hasDuplicateFIDRecursive() {
			return true
		}
		if na, isArr := f.Value.AsNestedArray(); isArr {
			for _, child := range na {
				if child.hasDuplicateFIDRecursive() {
					return true
				}
			}
		}
	}

	return false
}

// Equal reports canonical equality: same number of fields, each
// pairwise-equal by FID and Value, in the same order. Per spec §9
// Design Notes, equality is implemented by comparing sorted-field
// sequences recursively, never by hash collision. Callers should
// canonicalize both records (or know them already canonical) before
// calling Equal; comparing unsorted records compares positional order,
// not semantic identity.
func (r *Record) Equal(o *Record) bool {
	if r == o {
		return true
	}
	if r == nil || o == nil {
		return false
	}
	if len(r.Fields) != len(o.Fields) {
		return false
	}

	for i := range r.Fields {
		if !r.Fields[i].Equal(o.Fields[i]) {
			return false
		}
	}

	return true
}

// Depth returns the maximum nesting depth of the record, where a record
// with no nested fields has depth 1. Used to enforce profile depth
// limits before allocation (spec §5 resource policy).
func (r *Record) Depth() int {
	maxChild := 0
	for _, f := range r.Fields {
		if nr, ok := f.Value.AsNestedRecord(); ok {
			if d := nr.Depth(); d > maxChild {
				maxChild = d
			}
		}
		if na, ok := f.Value.AsNestedArray(); ok {
			for _, child := range na {
				if d := child.Depth(); d > maxChild {
					maxChild = d
				}
			}
		}
	}

	return maxChild + 1
}
