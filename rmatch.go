// Package rmatch provides a multi-pattern regex matching engine.
//
// rmatch registers many regexes ahead of time and then scans an input
// buffer once, left to right, reporting every non-overlapping maximal
// match of every pattern (leftmost-longest per pattern) while sharing
// one automaton pass across the whole pattern set — instead of
// re-scanning the input once per pattern the way calling stdlib
// regexp.FindAllIndex in a loop would.
//
// Basic usage:
//
//	eng := rmatch.New()
//	_, err := eng.Add(`\d+`, func(start, end int, id rmatch.PatternID) {
//	    fmt.Println("digits at", start, end)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = eng.Match(charbuf.New("room 404, suite 12"), nil)
//
// Advanced usage:
//
//	cfg := rmatch.DefaultConfig()
//	cfg.CaseInsensitive = true
//	eng := rmatch.NewWithConfig(cfg)
//
// Limitations: no capture groups, back-references, look-around, or
// named captures — every pattern is matched only for its overall
// matched span.
package rmatch

import (
	"github.com/la3lma/rmatch/charbuf"
	"github.com/la3lma/rmatch/driver"
	"github.com/la3lma/rmatch/dfa"
	"github.com/la3lma/rmatch/nfa"
	"github.com/la3lma/rmatch/registry"
)

// PatternID identifies a pattern registered with an Engine.
type PatternID = nfa.PatternID

// Action is invoked once per committed, maximal, non-overlapping match
// of the pattern it was registered for.
type Action = registry.Action

// Engine holds a set of registered patterns and the shared automaton
// state needed to match all of them in a single pass.
//
// An Engine is safe for concurrent Match calls from multiple
// goroutines. Add and Remove take an exclusive lock; Remove is
// rejected with a PreconditionError while any Match call is in flight,
// since a live match pass may still reference the pattern's nodes.
type Engine struct {
	cfg      Config
	reg      *registry.Registry
	dfaStore *dfa.Store
	drv      *driver.Driver
}

// New creates an Engine with DefaultConfig.
func New() *Engine {
	eng, err := NewWithConfig(DefaultConfig())
	if err != nil {
		// DefaultConfig always validates; a failure here would be a bug
		// in DefaultConfig itself.
		panic(&InternalError{Message: "DefaultConfig failed validation", Err: err})
	}
	return eng
}

// NewWithConfig creates an Engine governed by cfg. It returns a
// ConfigError if cfg is out of range.
func NewWithConfig(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	reg := registry.New()
	reg.SetMinLiteralLen(cfg.LiteralMinLength)
	dfaStore := dfa.NewStore(reg.Store(), cfg.MaxDFAStates)
	return &Engine{
		cfg:      cfg,
		reg:      reg,
		dfaStore: dfaStore,
		drv:      driver.New(reg, dfaStore, cfg.Prefilter),
	}, nil
}

// Add compiles pattern and registers it, invoking action on every
// committed match during a later Match call. Compilation failure
// leaves the engine's pattern set unchanged and returns a CompileError.
func (e *Engine) Add(pattern string, action Action) (PatternID, error) {
	ccfg := nfa.CompilerConfig{
		CaseInsensitive: e.cfg.CaseInsensitive,
		Multiline:       e.cfg.Multiline,
		DotNL:           e.cfg.DotMatchesNewline,
		MaxNodes:        e.cfg.MaxNFANodesPerPattern,

		MaxRecursionDepth: nfa.DefaultCompilerConfig().MaxRecursionDepth,
	}
	id, err := e.reg.Add(pattern, ccfg, action)
	if err != nil {
		return 0, wrapCompileError(pattern, err)
	}
	e.drv.Rebuild()
	return id, nil
}

// Remove unregisters a pattern. It returns a PreconditionError if a
// Match call is currently in flight, or if id is not registered.
func (e *Engine) Remove(id PatternID) error {
	if err := e.reg.Remove(id); err != nil {
		return wrapRemoveError(err)
	}
	e.drv.Rebuild()
	return nil
}

// Match scans buf once, left to right, invoking each registered
// pattern's Action at most once per maximal, non-overlapping match
// span. If cancel is non-nil and receives before the scan completes,
// Match commits whatever is already final and returns an error
// matching Cancelled (check with errors.Is).
func (e *Engine) Match(buf *charbuf.Buffer, cancel <-chan struct{}) error {
	return e.drv.Match(buf, cancel)
}

// MatchString is a convenience wrapper that decodes s into a Buffer
// before matching.
func (e *Engine) MatchString(s string, cancel <-chan struct{}) error {
	return e.Match(charbuf.New(s), cancel)
}
