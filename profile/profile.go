// Package profile defines the Profile configuration struct (spec §3) and
// its three named presets. Profile is a single immutable record of
// flags passed explicitly to every parse/encode/decode call — never
// global state, never an inheritance hierarchy — matching the reference
// implementation's NumericFlag/TextFlag: a plain value type constructed
// once and threaded through.
package profile

// BinaryVersion identifies a binary frame's version byte (spec §4.6).
type BinaryVersion uint8

const (
	BinaryV4 BinaryVersion = 0x04
	BinaryV5 BinaryVersion = 0x05
)

// Profile is the immutable configuration consulted by the parser,
// canonicalizer, and binary encoder/decoder.
type Profile struct {
	RejectUnsortedFields  bool
	RequireTypeHints      bool
	CanonicalBoolean      bool
	MinBinaryVersion      BinaryVersion
	EnforceChecksumOnParse bool
	StrictUTF8            bool
	NoNonMinimalVarInt    bool

	DepthLimit  int
	ArrayLimit  int
	StringLimit int
}

// defaultLimits apply to all three presets; spec §3 recommends a string
// limit of at least 1 MiB and a depth limit default of 10 (spec §4.4).
const (
	defaultDepthLimit  = 10
	defaultArrayLimit  = 1 << 20   // 1,048,576 elements
	defaultStringLimit = 1 << 20   // 1 MiB
)

// Strict is the maximally validating profile: every strict flag is true
// and the minimum accepted binary version is 0x05 (spec §3).
func Strict() Profile {
	return Profile{
		RejectUnsortedFields:   true,
		RequireTypeHints:       true,
		CanonicalBoolean:       true,
		MinBinaryVersion:       BinaryV5,
		EnforceChecksumOnParse: true,
		StrictUTF8:             true,
		NoNonMinimalVarInt:     true,
		DepthLimit:             defaultDepthLimit,
		ArrayLimit:             defaultArrayLimit,
		StringLimit:            defaultStringLimit,
	}
}

// Standard produces canonical output but accepts lenient input, except
// that booleans are still normalized (spec §3).
func Standard() Profile {
	return Profile{
		RejectUnsortedFields:   false,
		RequireTypeHints:       false,
		CanonicalBoolean:       true,
		MinBinaryVersion:       BinaryV4,
		EnforceChecksumOnParse: false,
		StrictUTF8:             true,
		NoNonMinimalVarInt:     true,
		DepthLimit:             defaultDepthLimit,
		ArrayLimit:             defaultArrayLimit,
		StringLimit:            defaultStringLimit,
	}
}

// Loose accepts maximum input variance but still canonicalizes on
// encode (spec §3).
func Loose() Profile {
	return Profile{
		RejectUnsortedFields:   false,
		RequireTypeHints:       false,
		CanonicalBoolean:       false,
		MinBinaryVersion:       BinaryV4,
		EnforceChecksumOnParse: false,
		StrictUTF8:             false,
		NoNonMinimalVarInt:     false,
		DepthLimit:             defaultDepthLimit,
		ArrayLimit:             defaultArrayLimit,
		StringLimit:            defaultStringLimit,
	}
}

// WithDepthLimit returns a copy of p with DepthLimit overridden.
func (p Profile) WithDepthLimit(n int) Profile {
	p.DepthLimit = n
	return p
}

// WithArrayLimit returns a copy of p with ArrayLimit overridden.
func (p Profile) WithArrayLimit(n int) Profile {
	p.ArrayLimit = n
	return p
}

// WithStringLimit returns a copy of p with StringLimit overridden.
func (p Profile) WithStringLimit(n int) Profile {
	p.StringLimit = n
	return p
}
