package pscript

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
)

// ScopeMode selects how free names inside procedures are resolved.
type ScopeMode int

const (
	// ScopeDynamic resolves names against the live dictionary stack at call
	// time.
	ScopeDynamic ScopeMode = iota
	// ScopeLexical resolves names inside a bound procedure against the
	// dictionary stack captured when it was defined.
	ScopeLexical
)

func (m ScopeMode) String() string {
	switch m {
	case ScopeDynamic:
		return "dynamic"
	case ScopeLexical:
		return "lexical"
	default:
		return fmt.Sprintf("ScopeMode(%d)", int(m))
	}
}

// ParseScopeMode accepts "dynamic" or "lexical", case-insensitively.
func ParseScopeMode(s string) (ScopeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dynamic":
		return ScopeDynamic, nil
	case "lexical":
		return ScopeLexical, nil
	default:
		return 0, fmt.Errorf("pscript: unknown scope mode %q (want dynamic or lexical)", s)
	}
}

func (m ScopeMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ScopeMode) UnmarshalText(text []byte) error {
	parsed, err := ParseScopeMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Config controls interpreter construction.
type Config struct {
	Scope ScopeMode
	// RecursionLimit bounds procedure call depth, and separately the nesting
	// of procedures run by exec, if, ifelse and the loop operators. Zero
	// leaves both bounded only by the Go stack.
	RecursionLimit int
	// Stdout receives print, =, == and pstack output. Defaults to os.Stdout.
	Stdout io.Writer
}

// Primitive is a built-in operator. It has full access to the interpreter's
// stacks and validates its own operands before mutating anything.
type Primitive func(in *Interpreter) error

// Interpreter holds the operand stack, the dictionary stack and the
// primitive table. It is not safe for concurrent use.
type Interpreter struct {
	config     Config
	stack      *OperandStack
	env        *Env
	primitives map[string]Primitive
	callStack  []callFrame
	active     *Env
	inline     int
	loops      int
	source     string
}

type callFrame struct {
	Procedure string
	Pos       Position
}

// NewInterpreter validates cfg and returns an interpreter with an empty
// operand stack, a single global dictionary and the standard primitives.
func NewInterpreter(cfg Config) (*Interpreter, error) {
	if cfg.Scope != ScopeDynamic && cfg.Scope != ScopeLexical {
		return nil, fmt.Errorf("pscript: invalid scope mode %d", int(cfg.Scope))
	}
	if cfg.RecursionLimit < 0 {
		return nil, fmt.Errorf("pscript: recursion limit must be >= 0, got %d", cfg.RecursionLimit)
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}

	in := &Interpreter{
		config:     cfg,
		stack:      NewOperandStack(),
		env:        NewEnv(),
		primitives: standardPrimitives(),
	}
	return in, nil
}

// MustNewInterpreter constructs an Interpreter or panics if cfg is invalid.
func MustNewInterpreter(cfg Config) *Interpreter {
	in, err := NewInterpreter(cfg)
	if err != nil {
		panic(err)
	}
	return in
}

// RegisterPrimitive adds or replaces a primitive. Primitives take precedence
// over dictionary bindings of the same name.
func (in *Interpreter) RegisterPrimitive(name string, fn Primitive) {
	in.primitives[name] = fn
}

// PrimitiveNames returns the registered primitive names, sorted.
func (in *Interpreter) PrimitiveNames() []string {
	return slices.Sorted(maps.Keys(in.primitives))
}

// EvaluateSource tokenizes text and evaluates it at top level, with no
// defining environment.
func (in *Interpreter) EvaluateSource(text string) error {
	in.source = text
	tokens, err := Tokenize(text)
	if err != nil {
		return in.syntaxFailure(err)
	}
	return in.evaluate(tokens, nil)
}

func (in *Interpreter) ScopeMode() ScopeMode { return in.config.Scope }

func (in *Interpreter) Stack() *OperandStack { return in.stack }

func (in *Interpreter) Env() *Env { return in.env }

// StackDepth reports the number of operands.
func (in *Interpreter) StackDepth() int { return in.stack.Len() }

// StackSnapshot returns the operand stack bottom to top.
func (in *Interpreter) StackSnapshot() []Value { return in.stack.Snapshot() }

// EnvDepth reports the number of frames on the dictionary stack.
func (in *Interpreter) EnvDepth() int { return in.env.Depth() }

// Peek returns the top operand without removing it.
func (in *Interpreter) Peek() (Value, bool) { return in.stack.Peek() }

// Push places v on the operand stack.
func (in *Interpreter) Push(v Value) { in.stack.Push(v) }

// Pop removes the top operand.
func (in *Interpreter) Pop() (Value, error) { return in.stack.Pop() }

// Globals returns a copy of the global frame's bindings.
func (in *Interpreter) Globals() map[string]Value {
	return maps.Clone(in.env.Global().values)
}

func (in *Interpreter) stdout() io.Writer { return in.config.Stdout }
