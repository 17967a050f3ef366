package solver

import (
	"errors"
	"fmt"
)

// ErrContradiction is returned when the constraints admit no assignment.
var ErrContradiction = errors.New("solver: contradiction found")

// ContradictionError reports the port at which a contradiction was first
// detected. It matches [ErrContradiction] with errors.Is.
type ContradictionError[P comparable] struct {
	Port       P
	Constraint Kind
	Reason     string
}

func (e *ContradictionError[P]) Error() string {
	if e.Constraint == KindNone {
		return fmt.Sprintf("solver: contradiction at port %v: %s", e.Port, e.Reason)
	}
	return fmt.Sprintf("solver: contradiction at port %v (%s): %s", e.Port, e.Constraint, e.Reason)
}

func (e *ContradictionError[P]) Unwrap() error { return ErrContradiction }

func contradiction[P comparable](p P, kind Kind, format string, args ...any) error {
	return &ContradictionError[P]{Port: p, Constraint: kind, Reason: fmt.Sprintf(format, args...)}
}
