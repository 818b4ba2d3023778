package pscript

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"fortio.org/log"
)

// Evaluate walks tokens in order. Literals are pushed; executable names are
// tried as primitives first and otherwise resolved through the dictionary
// stack. definingEnv is the environment captured by the procedure whose body
// is being evaluated, or nil at top level.
//
// The first error stops evaluation and is returned as a *RuntimeError.
func (in *Interpreter) Evaluate(tokens []Token, definingEnv *Env) error {
	in.source = ""
	return in.evaluate(tokens, definingEnv)
}

func (in *Interpreter) evaluate(tokens []Token, definingEnv *Env) error {
	saved := in.active
	in.active = definingEnv
	defer func() { in.active = saved }()

	for _, tok := range tokens {
		if tok.IsLiteral() {
			in.stack.Push(literalValue(tok.Value))
			continue
		}
		if err := in.execName(tok, definingEnv); err != nil {
			return in.wrapError(err, tok)
		}
	}
	return nil
}

// literalValue gives each push of a string literal its own buffer so that
// mutating the operand never rewrites the parsed body.
func literalValue(v Value) Value {
	if s := v.Str(); s != nil {
		return NewString(s.String())
	}
	return v
}

func (in *Interpreter) execName(tok Token, definingEnv *Env) error {
	if handled, err := in.tryPrimitive(tok.Name); handled {
		return err
	}

	val, ok := in.resolve(tok.Name, definingEnv)
	if !ok {
		return undefinedName(tok.Name)
	}
	if proc := val.Procedure(); proc != nil {
		return in.call(tok.Name, tok.Pos, proc)
	}
	in.stack.Push(val)
	return nil
}

// tryPrimitive runs name if it is a primitive and reports whether it was.
func (in *Interpreter) tryPrimitive(name string) (bool, error) {
	fn, ok := in.primitives[name]
	if !ok {
		return false, nil
	}
	return true, fn(in)
}

// resolve is the only place the scoping rule forks name lookup.
func (in *Interpreter) resolve(name string, definingEnv *Env) (Value, bool) {
	if in.config.Scope == ScopeLexical && definingEnv != nil {
		return in.env.LookupLexical(name, definingEnv)
	}
	return in.env.LookupDynamic(name)
}

func (in *Interpreter) call(name string, pos Position, proc *Procedure) error {
	if err := in.pushFrame(name, pos); err != nil {
		return err
	}
	defer in.popFrame()

	if log.LogVerbose() {
		log.LogVf("call %s depth=%d captured=%t", name, len(in.callStack), proc.Env != nil)
	}
	return in.evaluate(proc.Body, proc.Env)
}

// runProcedure executes a procedure operand on behalf of a control-flow
// primitive. A procedure without a captured environment runs under the
// environment of the evaluation that invoked the primitive.
func (in *Interpreter) runProcedure(proc *Procedure) error {
	if limit := in.config.RecursionLimit; limit > 0 && in.inline >= limit {
		return fmt.Errorf("%w (limit %d) running procedure operand", ErrLimit, limit)
	}
	in.inline++
	defer func() { in.inline-- }()

	env := proc.Env
	if env == nil {
		env = in.active
	}
	return in.evaluate(proc.Body, env)
}

// define binds name in the top frame. Under lexical scoping a procedure is
// stored with a deep snapshot of the dictionary stack as it stands before
// the binding, so the body never sees its own name unless it was already
// bound.
func (in *Interpreter) define(name string, val Value) {
	proc := val.Procedure()
	if in.config.Scope != ScopeLexical || proc == nil {
		log.Debugf("def %s (%s)", name, val.Kind())
		in.env.Define(name, val)
		return
	}

	captured := in.env.Snapshot()
	in.env.Define(name, proc.withEnv(captured))
	log.LogVf("def %s: captured %d frame(s)", name, captured.Depth())
}

func (in *Interpreter) pushFrame(name string, pos Position) error {
	if limit := in.config.RecursionLimit; limit > 0 && len(in.callStack) >= limit {
		return fmt.Errorf("%w (limit %d) calling %s", ErrLimit, limit, name)
	}
	in.callStack = append(in.callStack, callFrame{Procedure: name, Pos: pos})
	return nil
}

func (in *Interpreter) popFrame() {
	if len(in.callStack) == 0 {
		return
	}
	in.callStack = in.callStack[:len(in.callStack)-1]
}

// wrapError converts err into a *RuntimeError positioned at tok. Errors that
// are already runtime errors pass through so the innermost position wins.
func (in *Interpreter) wrapError(err error, tok Token) error {
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		return err
	}

	frames := make([]StackFrame, 0, len(in.callStack)+1)
	if len(in.callStack) > 0 {
		current := in.callStack[len(in.callStack)-1]
		frames = append(frames, StackFrame{Procedure: current.Procedure, Pos: tok.Pos})
		for i := len(in.callStack) - 1; i >= 0; i-- {
			frames = append(frames, StackFrame(in.callStack[i]))
		}
	} else {
		frames = append(frames, StackFrame{Procedure: "<top>", Pos: tok.Pos})
	}

	// Procedure bodies may come from an earlier source text, so inside a call
	// the frame points at the outermost call site instead.
	framePos, width := tok.Pos, utf8.RuneCountInString(tok.String())
	if len(in.callStack) > 0 {
		outer := in.callStack[0]
		framePos, width = outer.Pos, utf8.RuneCountInString(outer.Procedure)
	}

	return &RuntimeError{
		Type:      classifyError(err),
		Message:   err.Error(),
		CodeFrame: formatCodeFrame(in.source, framePos, width),
		Frames:    frames,
		Err:       err,
	}
}

func (in *Interpreter) syntaxFailure(err error) error {
	var syntaxErr *SyntaxError
	pos := Position{}
	if errors.As(err, &syntaxErr) {
		pos = syntaxErr.Pos
	}
	return &RuntimeError{
		Type:      classifyError(err),
		Message:   err.Error(),
		CodeFrame: formatCodeFrame(in.source, pos, 1),
		Err:       err,
	}
}
