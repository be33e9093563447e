package nfa

import "fmt"

// BuildError represents an error during NFA construction via the Builder
// API. Mirrors the teacher's BuildError (nfa/error.go).
type BuildError struct {
	Message string
	NodeID  NodeID
}

func (e *BuildError) Error() string {
	if e.NodeID != InvalidNode {
		return fmt.Sprintf("NFA build error at node %d: %s", e.NodeID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}
