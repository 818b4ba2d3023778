package pscript

import "fmt"

var stackPrimitives = map[string]Primitive{
	"dup":   primDup,
	"exch":  primExch,
	"pop":   primPop,
	"copy":  primCopy,
	"index": primIndex,
	"roll":  primRoll,
	"clear": primClear,
	"count": primCount,
}

func primDup(in *Interpreter) error {
	top, ok := in.stack.Peek()
	if !ok {
		return in.stack.Require("dup", 1)
	}
	in.stack.Push(top)
	return nil
}

func primExch(in *Interpreter) error {
	args, err := in.args("exch", 2)
	if err != nil {
		return err
	}
	in.replace(2, args[1], args[0])
	return nil
}

func primPop(in *Interpreter) error {
	if err := in.stack.Require("pop", 1); err != nil {
		return err
	}
	in.stack.Drop(1)
	return nil
}

// primCopy duplicates the top n values, reading them from a full snapshot.
func primCopy(in *Interpreter) error {
	args, err := in.args("copy", 1)
	if err != nil {
		return err
	}
	n, err := expectInt("copy", args[0])
	if err != nil {
		return err
	}
	if n < 0 {
		return rangeError("copy", "count %d is negative", n)
	}
	if err := in.requireBelow("copy", n, 1); err != nil {
		return err
	}
	in.stack.Drop(1)
	snapshot := in.stack.Snapshot()
	for _, v := range snapshot[len(snapshot)-int(n):] {
		in.stack.Push(v)
	}
	return nil
}

// primIndex pushes a copy of the n-th value below the index operand.
func primIndex(in *Interpreter) error {
	args, err := in.args("index", 1)
	if err != nil {
		return err
	}
	n, err := expectIndex("index", args[0])
	if err != nil {
		return err
	}
	if err := in.requireBelow("index", int64(n)+1, 1); err != nil {
		return err
	}
	in.stack.Drop(1)
	snapshot := in.stack.Snapshot()
	in.stack.Push(snapshot[len(snapshot)-1-n])
	return nil
}

// primRoll rotates the top n values by j positions; positive j moves values
// toward the top.
func primRoll(in *Interpreter) error {
	args, err := in.args("roll", 2)
	if err != nil {
		return err
	}
	n, err := expectIndex("roll", args[0])
	if err != nil {
		return err
	}
	j, err := expectInt("roll", args[1])
	if err != nil {
		return err
	}
	if err := in.requireBelow("roll", int64(n), 2); err != nil {
		return err
	}
	in.stack.Drop(2)
	if n == 0 {
		return nil
	}
	window, err := in.stack.PopN("roll", n)
	if err != nil {
		return err
	}
	shift := int(((j % int64(n)) + int64(n)) % int64(n))
	for i := range window {
		in.stack.Push(window[(i-shift+n)%n])
	}
	return nil
}

func primClear(in *Interpreter) error {
	in.stack.Clear()
	return nil
}

func primCount(in *Interpreter) error {
	in.stack.Push(NewInt(int64(in.stack.Len())))
	return nil
}

// requireBelow checks that n values sit beneath the operator's own operands.
func (in *Interpreter) requireBelow(op string, n int64, operands int) error {
	have := int64(in.stack.Len() - operands)
	if n > have {
		return fmt.Errorf("%w: %s needs %d value(s) below its operands, have %d", ErrStackUnderflow, op, n, have)
	}
	return nil
}
