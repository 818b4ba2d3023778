package pscript

import (
	"fmt"
	"io"
)

var outputPrimitives = map[string]Primitive{
	"print":  primPrint,
	"=":      printValue("=", Value.String),
	"==":     printValue("==", Value.Syntax),
	"stack":  printStack("stack", Value.String),
	"pstack": printStack("pstack", Value.Syntax),
}

// primPrint writes a string's bytes without a trailing newline.
func primPrint(in *Interpreter) error {
	args, err := in.args("print", 1)
	if err != nil {
		return err
	}
	s, err := expectString("print", args[0])
	if err != nil {
		return err
	}
	in.stack.Drop(1)
	if _, err := in.stdout().Write(s.Bytes()); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}

// printValue pops one operand and writes its rendering followed by a newline.
func printValue(op string, render func(Value) string) Primitive {
	return func(in *Interpreter) error {
		args, err := in.args(op, 1)
		if err != nil {
			return err
		}
		in.stack.Drop(1)
		if _, err := io.WriteString(in.stdout(), render(args[0])+"\n"); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
}

// printStack writes every operand, top first, one per line, leaving the
// stack untouched.
func printStack(op string, render func(Value) string) Primitive {
	return func(in *Interpreter) error {
		snapshot := in.stack.Snapshot()
		w := in.stdout()
		for i := len(snapshot) - 1; i >= 0; i-- {
			if _, err := io.WriteString(w, render(snapshot[i])+"\n"); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		return nil
	}
}
