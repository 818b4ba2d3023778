package pscript

import "strings"

var comparePrimitives = map[string]Primitive{
	"eq": equality("eq", false),
	"ne": equality("ne", true),
	"gt": ordering("gt", func(c int) bool { return c > 0 }),
	"ge": ordering("ge", func(c int) bool { return c >= 0 }),
	"lt": ordering("lt", func(c int) bool { return c < 0 }),
	"le": ordering("le", func(c int) bool { return c <= 0 }),

	"and": logical("and", func(a, b bool) bool { return a && b }, func(a, b int64) int64 { return a & b }),
	"or":  logical("or", func(a, b bool) bool { return a || b }, func(a, b int64) int64 { return a | b }),
	"xor": logical("xor", func(a, b bool) bool { return a != b }, func(a, b int64) int64 { return a ^ b }),
	"not": primNot,
}

func equality(op string, negate bool) Primitive {
	return func(in *Interpreter) error {
		args, err := in.args(op, 2)
		if err != nil {
			return err
		}
		a, b := args[0], args[1]
		if !eqCompatible(a, b) {
			return typeError(op, "cannot compare %s with %s", a.Kind(), b.Kind())
		}
		in.replace(2, NewBool(a.Equal(b) != negate))
		return nil
	}
}

// ordering compares two numbers or two strings.
func ordering(op string, accept func(cmp int) bool) Primitive {
	return func(in *Interpreter) error {
		args, err := in.args(op, 2)
		if err != nil {
			return err
		}
		a, b := args[0], args[1]
		var cmp int
		switch {
		case a.IsNumber() && b.IsNumber():
			cmp = compareNumbers(a, b)
		case a.Kind() == KindString && b.Kind() == KindString:
			cmp = strings.Compare(a.Str().String(), b.Str().String())
		default:
			return typeError(op, "expects two numbers or two strings, got %s and %s", a.Kind(), b.Kind())
		}
		in.replace(2, NewBool(accept(cmp)))
		return nil
	}
}

func compareNumbers(a, b Value) int {
	if a.Kind() == KindInt && b.Kind() == KindInt {
		x, y := a.Int(), b.Int()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	x, y := a.Real(), b.Real()
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// logical applies boolOp to two booleans or intOp bitwise to two integers.
func logical(op string, boolOp func(a, b bool) bool, intOp func(a, b int64) int64) Primitive {
	return func(in *Interpreter) error {
		args, err := in.args(op, 2)
		if err != nil {
			return err
		}
		a, b := args[0], args[1]
		switch {
		case a.Kind() == KindBool && b.Kind() == KindBool:
			in.replace(2, NewBool(boolOp(a.Bool(), b.Bool())))
		case a.Kind() == KindInt && b.Kind() == KindInt:
			in.replace(2, NewInt(intOp(a.Int(), b.Int())))
		default:
			return typeError(op, "expects two booleans or two integers, got %s and %s", a.Kind(), b.Kind())
		}
		return nil
	}
}

func primNot(in *Interpreter) error {
	args, err := in.args("not", 1)
	if err != nil {
		return err
	}
	switch v := args[0]; v.Kind() {
	case KindBool:
		in.replace(1, NewBool(!v.Bool()))
	case KindInt:
		in.replace(1, NewInt(^v.Int()))
	default:
		return typeError("not", "expects a boolean or integer, got %s", v.Kind())
	}
	return nil
}
