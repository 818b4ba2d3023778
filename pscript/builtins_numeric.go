package pscript

import (
	"fmt"
	"math"
)

var numericPrimitives = map[string]Primitive{
	"add": arith("add", addInt, func(a, b float64) (float64, error) { return a + b, nil }),
	"sub": arith("sub", subInt, func(a, b float64) (float64, error) { return a - b, nil }),
	"mul": arith("mul", mulInt, func(a, b float64) (float64, error) { return a * b, nil }),
	"div": arith("div", intDiv, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	}),
	"idiv": arith("idiv", intDiv, nil),
	"mod": arith("mod", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a % b, nil
	}, nil),
	"abs": unaryNumeric("abs", func(i int64) (int64, error) {
		if i < 0 {
			return negInt(i)
		}
		return i, nil
	}, math.Abs),
	"neg":     unaryNumeric("neg", negInt, func(f float64) float64 { return -f }),
	"ceiling": unaryNumeric("ceiling", nil, math.Ceil),
	"floor":   unaryNumeric("floor", nil, math.Floor),
	"round":   unaryNumeric("round", nil, roundHalfUp),
	"sqrt":    primSqrt,
}

func addInt(a, b int64) (int64, error) {
	r := a + b
	if (r^a)&(r^b) < 0 {
		return 0, ErrIntegerOverflow
	}
	return r, nil
}

func subInt(a, b int64) (int64, error) {
	r := a - b
	if (a^b)&(a^r) < 0 {
		return 0, ErrIntegerOverflow
	}
	return r, nil
}

func mulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrIntegerOverflow
	}
	return r, nil
}

func negInt(i int64) (int64, error) {
	if i == math.MinInt64 {
		return 0, ErrIntegerOverflow
	}
	return -i, nil
}

// intDiv truncates toward zero.
func intDiv(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, ErrIntegerOverflow
	}
	return a / b, nil
}

// arith builds a binary numeric operator. Two integers use intOp; any real
// operand promotes both to real and uses realOp. A nil realOp makes the
// operator integer-only.
func arith(op string, intOp func(a, b int64) (int64, error), realOp func(a, b float64) (float64, error)) Primitive {
	return func(in *Interpreter) error {
		args, err := in.args(op, 2)
		if err != nil {
			return err
		}
		a, b := args[0], args[1]
		if a.Kind() == KindInt && b.Kind() == KindInt {
			r, err := intOp(a.Int(), b.Int())
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			in.replace(2, NewInt(r))
			return nil
		}
		if realOp == nil {
			return typeError(op, "expects two integers, got %s and %s", a.Kind(), b.Kind())
		}
		if !a.IsNumber() || !b.IsNumber() {
			return typeError(op, "expects two numbers, got %s and %s", a.Kind(), b.Kind())
		}
		r, err := realOp(a.Real(), b.Real())
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		in.replace(2, NewReal(r))
		return nil
	}
}

// unaryNumeric builds a one-operand numeric operator. A nil intOp leaves
// integers unchanged.
func unaryNumeric(op string, intOp func(int64) (int64, error), realOp func(float64) float64) Primitive {
	return func(in *Interpreter) error {
		args, err := in.args(op, 1)
		if err != nil {
			return err
		}
		v := args[0]
		switch v.Kind() {
		case KindInt:
			if intOp != nil {
				r, err := intOp(v.Int())
				if err != nil {
					return fmt.Errorf("%s: %w", op, err)
				}
				v = NewInt(r)
			}
		case KindReal:
			v = NewReal(realOp(v.Real()))
		default:
			return typeError(op, "expects a number, got %s", v.Kind())
		}
		in.replace(1, v)
		return nil
	}
}

func roundHalfUp(f float64) float64 {
	return math.Floor(f + 0.5)
}

func primSqrt(in *Interpreter) error {
	args, err := in.args("sqrt", 1)
	if err != nil {
		return err
	}
	v := args[0]
	if !v.IsNumber() {
		return typeError("sqrt", "expects a number, got %s", v.Kind())
	}
	if v.Real() < 0 {
		return rangeError("sqrt", "of negative number %s", v)
	}
	in.replace(1, NewReal(math.Sqrt(v.Real())))
	return nil
}
