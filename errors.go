package rmatch

import (
	"errors"
	"fmt"

	"github.com/la3lma/rmatch/driver"
	"github.com/la3lma/rmatch/nfa"
	"github.com/la3lma/rmatch/registry"
)

// CompileError reports a pattern that failed to compile. It wraps the
// nfa package's classification of why (bad syntax, an unsupported
// construct, or an exceeded node limit).
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("rmatch: compiling %q: %s", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// ConfigError reports a Configuration value outside its valid range
// (spec.md §6, §7).
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rmatch: invalid configuration field %s: %s", e.Field, e.Message)
}

// PreconditionError reports an operation rejected because the engine is
// in the wrong state to perform it, e.g. removing a pattern while a
// match pass is in flight (spec.md §7).
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

// Cancelled is returned by Engine.Match when the caller's cancellation
// channel fired before the scan reached the end of the buffer (spec.md
// §6's cancel_token).
var Cancelled = driver.Cancelled{}

// InternalError reports a failure that indicates a bug in the engine
// itself rather than bad input (spec.md §7): an invariant the engine is
// supposed to maintain internally was violated.
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rmatch: internal error: %s: %s", e.Message, e.Err)
	}
	return fmt.Sprintf("rmatch: internal error: %s", e.Message)
}

func (e *InternalError) Unwrap() error { return e.Err }

// wrapCompileError translates an nfa.CompileError into the public
// CompileError type, leaving other errors (e.g. a registry
// PreconditionError) untouched.
func wrapCompileError(pattern string, err error) error {
	if err == nil {
		return nil
	}
	var ce *nfa.CompileError
	if errors.As(err, &ce) {
		return &CompileError{Pattern: pattern, Err: ce}
	}
	return err
}

// wrapRemoveError translates a registry.PreconditionError into the
// public PreconditionError type.
func wrapRemoveError(err error) error {
	if err == nil {
		return nil
	}
	var pe *registry.PreconditionError
	if errors.As(err, &pe) {
		return &PreconditionError{Message: pe.Message}
	}
	return err
}
