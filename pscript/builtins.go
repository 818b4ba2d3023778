package pscript

import "maps"

// standardPrimitives returns a fresh primitive table so that hosts may
// register or override entries per interpreter.
func standardPrimitives() map[string]Primitive {
	table := make(map[string]Primitive, 64)
	for _, group := range []map[string]Primitive{
		numericPrimitives,
		comparePrimitives,
		stackPrimitives,
		dictPrimitives,
		stringPrimitives,
		controlPrimitives,
		outputPrimitives,
	} {
		maps.Copy(table, group)
	}
	return table
}

// args returns the top n operands, bottom to top, leaving the stack as is.
func (in *Interpreter) args(op string, n int) ([]Value, error) {
	return in.stack.PeekN(op, n)
}

// replace drops n operands and pushes results. Primitives call it only after
// every operand has been validated.
func (in *Interpreter) replace(n int, results ...Value) {
	in.stack.Drop(n)
	for _, v := range results {
		in.stack.Push(v)
	}
}

func expectInt(op string, v Value) (int64, error) {
	if v.Kind() != KindInt {
		return 0, typeError(op, "expects an integer, got %s", v.Kind())
	}
	return v.Int(), nil
}

func expectIndex(op string, v Value) (int, error) {
	i, err := expectInt(op, v)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, rangeError(op, "index %d is negative", i)
	}
	return int(i), nil
}

func expectString(op string, v Value) (*String, error) {
	if v.Kind() != KindString {
		return nil, typeError(op, "expects a string, got %s", v.Kind())
	}
	return v.Str(), nil
}

func expectProcedure(op string, v Value) (*Procedure, error) {
	if v.Kind() != KindProcedure {
		return nil, typeError(op, "expects a procedure, got %s", v.Kind())
	}
	return v.Procedure(), nil
}

func expectDict(op string, v Value) (*Dict, error) {
	if v.Kind() != KindDict {
		return nil, typeError(op, "expects a dict, got %s", v.Kind())
	}
	return v.Dict(), nil
}

func expectName(op string, v Value) (string, error) {
	if v.Kind() != KindName {
		return "", typeError(op, "expects a name literal, got %s", v.Kind())
	}
	return v.Name(), nil
}

// dictKey accepts the key forms a dictionary operator takes: a name literal
// or a string.
func dictKey(op string, v Value) (string, error) {
	switch v.Kind() {
	case KindName:
		return v.Name(), nil
	case KindString:
		return v.Str().String(), nil
	default:
		return "", typeError(op, "expects a name or string key, got %s", v.Kind())
	}
}
