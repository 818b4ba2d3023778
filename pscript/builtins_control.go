package pscript

import "math"

var controlPrimitives = map[string]Primitive{
	"if":     primIf,
	"ifelse": primIfElse,
	"for":    primFor,
	"repeat": primRepeat,
	"loop":   primLoop,
	"exit":   primExit,
	"exec":   primExec,
}

func primIf(in *Interpreter) error {
	args, err := in.args("if", 2)
	if err != nil {
		return err
	}
	cond, err := expectBool("if", args[0])
	if err != nil {
		return err
	}
	body, err := expectProcedure("if", args[1])
	if err != nil {
		return err
	}
	in.stack.Drop(2)
	if !cond {
		return nil
	}
	return in.runProcedure(body)
}

func primIfElse(in *Interpreter) error {
	args, err := in.args("ifelse", 3)
	if err != nil {
		return err
	}
	cond, err := expectBool("ifelse", args[0])
	if err != nil {
		return err
	}
	then, err := expectProcedure("ifelse", args[1])
	if err != nil {
		return err
	}
	otherwise, err := expectProcedure("ifelse", args[2])
	if err != nil {
		return err
	}
	in.stack.Drop(3)
	if cond {
		return in.runProcedure(then)
	}
	return in.runProcedure(otherwise)
}

// primFor runs body once per control value from init toward limit in steps of
// incr, pushing the control value before each run. Integer operands keep the
// control value an integer; any real operand makes it real.
func primFor(in *Interpreter) error {
	args, err := in.args("for", 4)
	if err != nil {
		return err
	}
	for _, v := range args[:3] {
		if !v.IsNumber() {
			return typeError("for", "expects numeric init, increment and limit, got %s", v.Kind())
		}
	}
	body, err := expectProcedure("for", args[3])
	if err != nil {
		return err
	}
	initial, incr, limit := args[0], args[1], args[2]
	in.stack.Drop(4)

	if initial.Kind() == KindInt && incr.Kind() == KindInt && limit.Kind() == KindInt {
		step, end := incr.Int(), limit.Int()
		if step == 0 {
			return nil
		}
		for i := initial.Int(); (step > 0 && i <= end) || (step < 0 && i >= end); i += step {
			in.stack.Push(NewInt(i))
			if stop, err := in.loopBody(body); stop {
				return err
			}
			if step > 0 && i > math.MaxInt64-step || step < 0 && i < math.MinInt64-step {
				break
			}
		}
		return nil
	}

	step, end := incr.Real(), limit.Real()
	if step == 0 {
		return nil
	}
	for x := initial.Real(); (step > 0 && x <= end) || (step < 0 && x >= end); x += step {
		in.stack.Push(NewReal(x))
		if stop, err := in.loopBody(body); stop {
			return err
		}
	}
	return nil
}

func primRepeat(in *Interpreter) error {
	args, err := in.args("repeat", 2)
	if err != nil {
		return err
	}
	n, err := expectInt("repeat", args[0])
	if err != nil {
		return err
	}
	if n < 0 {
		return rangeError("repeat", "count %d is negative", n)
	}
	body, err := expectProcedure("repeat", args[1])
	if err != nil {
		return err
	}
	in.stack.Drop(2)
	for range n {
		if stop, err := in.loopBody(body); stop {
			return err
		}
	}
	return nil
}

// primLoop runs body until it executes exit or fails.
func primLoop(in *Interpreter) error {
	args, err := in.args("loop", 1)
	if err != nil {
		return err
	}
	body, err := expectProcedure("loop", args[0])
	if err != nil {
		return err
	}
	in.stack.Drop(1)
	for {
		if stop, err := in.loopBody(body); stop {
			return err
		}
	}
}

// primExit unwinds to the innermost enclosing for, repeat or loop.
func primExit(in *Interpreter) error {
	if in.loops == 0 {
		return scopeError("exit", "not inside a loop")
	}
	return errExitLoop
}

// primExec runs a procedure operand; any other value is pushed back.
func primExec(in *Interpreter) error {
	args, err := in.args("exec", 1)
	if err != nil {
		return err
	}
	proc := args[0].Procedure()
	if proc == nil {
		return nil
	}
	in.stack.Drop(1)
	return in.runProcedure(proc)
}

// loopBody runs one iteration and reports whether the loop should stop. An
// exit request stops the loop without an error.
func (in *Interpreter) loopBody(body *Procedure) (bool, error) {
	in.loops++
	err := in.runProcedure(body)
	in.loops--
	switch {
	case err == nil:
		return false, nil
	case isExitLoop(err):
		return true, nil
	default:
		return true, err
	}
}

func expectBool(op string, v Value) (bool, error) {
	if v.Kind() != KindBool {
		return false, typeError(op, "expects a boolean, got %s", v.Kind())
	}
	return v.Bool(), nil
}
