// Package registry implements the two external collaborator interfaces
// spec §6.6 names — a field registry (fid → name/type/unit/status) and a
// semantic dictionary (per-fid raw→canonical value equivalence) — plus
// minimal in-memory reference implementations. The core reads these;
// it never writes them (spec §6.6: "Core reads for hint resolution...
// never writes").
package registry

import "strings"

// FieldInfo is what a FieldRegistry knows about a single FID.
type FieldInfo struct {
	Name   string
	Type   string // one of record.Kind's TypeHint codes, e.g. "i", "ba"
	Unit   string
	Status string // e.g. "active", "deprecated"
}

// FieldRegistry resolves a FID to its declared metadata (spec §6.6). In
// this module it is read by SemanticDictionary to find boolean-typed
// fields; package text's parser does not consult it, so a field that
// omits its type hint is not given one from the registry.
type FieldRegistry interface {
	Lookup(fid uint16) (FieldInfo, bool)
}

// MapRegistry is a minimal in-memory FieldRegistry backed by a map.
type MapRegistry map[uint16]FieldInfo

func (m MapRegistry) Lookup(fid uint16) (FieldInfo, bool) {
	info, ok := m[fid]
	return info, ok
}

// SemanticDictionary resolves per-FID boolean value synonyms to the
// canonical "0"/"1" token. It is structurally compatible with package
// sanitize's SemanticDictionary interface (both declare the same
// CanonicalBoolean method) without importing sanitize, avoiding a
// dependency from the core data/registry layer onto the sanitizer.
type SemanticDictionary struct {
	registry FieldRegistry
	synonyms map[string]string // lowercased raw synonym -> "0" or "1"
}

// NewSemanticDictionary builds a dictionary that only normalizes
// synonyms for fields registry declares as boolean-typed ("b" hint).
// registry may be nil, in which case every field is treated as eligible
// for synonym resolution.
func NewSemanticDictionary(registry FieldRegistry) *SemanticDictionary {
	return &SemanticDictionary{
		registry: registry,
		synonyms: map[string]string{
			"true": "1", "false": "0",
			"yes": "1", "no": "0",
			"on": "1", "off": "0",
			"y": "1", "n": "0",
		},
	}
}

// WithSynonym registers an additional raw→canonical synonym, overriding
// any default with the same key, and returns d for chaining.
func (d *SemanticDictionary) WithSynonym(raw, canonical string) *SemanticDictionary {
	d.synonyms[strings.ToLower(raw)] = canonical
	return d
}

// CanonicalBoolean implements sanitize.SemanticDictionary.
func (d *SemanticDictionary) CanonicalBoolean(fid uint16, raw string) (string, bool) {
	if d.registry != nil {
		info, ok := d.registry.Lookup(fid)
		if !ok || info.Type != "b" {
			return "", false
		}
	}

	canonical, ok := d.synonyms[strings.ToLower(strings.TrimSpace(raw))]
	return canonical, ok
}
