package rmatch

import "github.com/la3lma/rmatch/driver"

// Config controls engine-wide matching behavior (spec.md §6's
// Configuration). Unlike nfa.CompilerConfig, which is per-pattern,
// Config governs the shared driver: which prefilters run and how
// aggressively literal extraction searches for hints.
type Config struct {
	// Multiline makes ^ and $ match at line boundaries rather than only
	// at the start and end of the whole buffer. Default: false.
	Multiline bool

	// CaseInsensitive folds ASCII and simple-case Unicode letters for
	// every pattern added under this configuration. Default: false.
	CaseInsensitive bool

	// DotMatchesNewline makes '.' also match '\n'. Default: false.
	DotMatchesNewline bool

	// Prefilter selects which prefilters narrow spawn candidates ahead
	// of the driver's per-position loop. Default: PrefilterBoth.
	Prefilter driver.PrefilterMode

	// LiteralMinLength is the shortest literal the literal extractor
	// will hand to the Aho-Corasick prefilter; shorter literals have
	// too many false positives to be worth the automaton slot. Default: 2.
	LiteralMinLength int

	// MaxNFANodesPerPattern bounds how large a single pattern's compiled
	// NFA may grow before Add rejects it with a CompileError wrapping
	// nfa.ErrLimitExceeded. Default: 16384.
	MaxNFANodesPerPattern int

	// MaxDFAStates bounds how many combined DFA states the shared lazy
	// store may intern across the engine's lifetime. 0 means unbounded.
	// Default: 0.
	MaxDFAStates int
}

// DefaultConfig returns a Config with the defaults used when an engine
// is built with New rather than NewWithConfig.
func DefaultConfig() Config {
	return Config{
		Multiline:             false,
		CaseInsensitive:       false,
		DotMatchesNewline:     false,
		Prefilter:             driver.PrefilterBoth,
		LiteralMinLength:      2,
		MaxNFANodesPerPattern: 16384,
		MaxDFAStates:          0,
	}
}

// validate checks cfg's numeric fields are within the ranges the
// registry and literal extractor can actually operate over (spec.md §7's
// ConfigError).
func (cfg Config) validate() error {
	if cfg.LiteralMinLength < 1 || cfg.LiteralMinLength > 64 {
		return &ConfigError{Field: "LiteralMinLength", Message: "must be between 1 and 64"}
	}
	if cfg.MaxNFANodesPerPattern < 1 {
		return &ConfigError{Field: "MaxNFANodesPerPattern", Message: "must be positive"}
	}
	if cfg.MaxDFAStates < 0 {
		return &ConfigError{Field: "MaxDFAStates", Message: "must be non-negative"}
	}
	if cfg.Prefilter < driver.PrefilterNone || cfg.Prefilter > driver.PrefilterBoth {
		return &ConfigError{Field: "Prefilter", Message: "unrecognized prefilter mode"}
	}
	return nil
}
