package pscript

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSyntax         = errors.New("syntax error")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrType           = errors.New("type error")
	ErrUndefinedName  = errors.New("undefined name")
	ErrScope          = errors.New("scope error")
	ErrRange          = errors.New("range error")
	ErrLimit          = errors.New("recursion limit exceeded")

	// ErrDivisionByZero and ErrIntegerOverflow are range errors.
	ErrDivisionByZero  = fmt.Errorf("%w: division by zero", ErrRange)
	ErrIntegerOverflow = fmt.Errorf("%w: integer overflow", ErrRange)
)

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

// SyntaxError reports malformed source. It matches ErrSyntax.
type SyntaxError struct {
	Pos     Position
	Message string
}

func newSyntaxError(pos Position, message string) *SyntaxError {
	return &SyntaxError{Pos: pos, Message: message}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Message)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// StackFrame names a procedure invocation and where it was called from.
type StackFrame struct {
	Procedure string
	Pos       Position
}

// RuntimeError is returned by evaluation. Type names the error class,
// CodeFrame points at the failing token and Frames lists the procedure call
// stack innermost first. It unwraps to the underlying error so errors.Is
// matches the sentinel errors above.
type RuntimeError struct {
	Type      string
	Message   string
	CodeFrame string
	Frames    []StackFrame
	Err       error
}

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Procedure, frame.Pos.Line, frame.Pos.Column)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Procedure)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

func (re *RuntimeError) Unwrap() error { return re.Err }

// classifyError maps an error onto the taxonomy name shown to users.
func classifyError(err error) string {
	switch {
	case errors.Is(err, ErrSyntax):
		return "SyntaxError"
	case errors.Is(err, ErrStackUnderflow):
		return "StackUnderflow"
	case errors.Is(err, ErrType):
		return "TypeError"
	case errors.Is(err, ErrUndefinedName):
		return "UndefinedName"
	case errors.Is(err, ErrScope):
		return "ScopeError"
	case errors.Is(err, ErrRange):
		return "RangeError"
	case errors.Is(err, ErrLimit):
		return "LimitError"
	default:
		return "Error"
	}
}

func typeError(op, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrType, op, fmt.Sprintf(format, args...))
}

func rangeError(op, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrRange, op, fmt.Sprintf(format, args...))
}

func undefinedName(name string) error {
	return fmt.Errorf("%w: %s", ErrUndefinedName, name)
}

func scopeError(op, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrScope, op, fmt.Sprintf(format, args...))
}

// errExitLoop unwinds the evaluator from exit to the enclosing loop
// primitive. It never escapes a loop.
var errExitLoop = errors.New("exit")

func isExitLoop(err error) bool { return errors.Is(err, errExitLoop) }
