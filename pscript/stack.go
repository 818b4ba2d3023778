package pscript

import (
	"fmt"
	"slices"
)

// OperandStack is a strict LIFO of values. Only the top ever moves.
type OperandStack struct {
	items []Value
}

func NewOperandStack() *OperandStack {
	return &OperandStack{}
}

func (s *OperandStack) Push(v Value) {
	s.items = append(s.items, v)
}

func (s *OperandStack) Pop() (Value, error) {
	if len(s.items) == 0 {
		return Value{}, fmt.Errorf("%w: operand stack is empty", ErrStackUnderflow)
	}
	top := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = Value{}
	s.items = s.items[:len(s.items)-1]
	return top, nil
}

// Peek returns the top value without removing it.
func (s *OperandStack) Peek() (Value, bool) {
	if len(s.items) == 0 {
		return Value{}, false
	}
	return s.items[len(s.items)-1], true
}

func (s *OperandStack) Len() int { return len(s.items) }

func (s *OperandStack) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}

// Snapshot copies the stack, bottom to top.
func (s *OperandStack) Snapshot() []Value {
	return slices.Clone(s.items)
}

// Require fails with a stack underflow unless at least n values are present.
// Primitives call it before popping so that a failure mutates nothing.
func (s *OperandStack) Require(op string, n int) error {
	if len(s.items) < n {
		return fmt.Errorf("%w: %s needs %d operand(s), have %d", ErrStackUnderflow, op, n, len(s.items))
	}
	return nil
}

// PopN removes the top n values and returns them bottom to top. It mutates
// nothing when fewer than n values are present.
func (s *OperandStack) PopN(op string, n int) ([]Value, error) {
	if err := s.Require(op, n); err != nil {
		return nil, err
	}
	start := len(s.items) - n
	out := slices.Clone(s.items[start:])
	clear(s.items[start:])
	s.items = s.items[:start]
	return out, nil
}

// PeekN returns copies of the top n values, bottom to top, without removing
// them.
func (s *OperandStack) PeekN(op string, n int) ([]Value, error) {
	if err := s.Require(op, n); err != nil {
		return nil, err
	}
	return slices.Clone(s.items[len(s.items)-n:]), nil
}

// Drop discards the top n values. Callers validate n first.
func (s *OperandStack) Drop(n int) {
	n = min(n, len(s.items))
	start := len(s.items) - n
	clear(s.items[start:])
	s.items = s.items[:start]
}
