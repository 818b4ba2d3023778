package pscript

import (
	"math"
	"strconv"
	"strings"
)

// String renders the value the way the = operator prints it.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case KindReal:
		return formatReal(v.Real())
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindString:
		return v.Str().String()
	case KindName:
		return v.Name()
	default:
		return "--nostringval--"
	}
}

// Syntax renders the value the way the == operator prints it, which reads
// back as the same literal where the language has one.
func (v Value) Syntax() string {
	switch v.kind {
	case KindString:
		return "(" + v.Str().String() + ")"
	case KindName:
		return "/" + v.Name()
	case KindDict:
		return "-dict-"
	case KindProcedure:
		return formatBody(v.Procedure().Body)
	default:
		return v.String()
	}
}

func formatReal(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func formatBody(body []Token) string {
	var b strings.Builder
	b.WriteString("{")
	for i, tok := range body {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(tok.String())
	}
	b.WriteString("}")
	return b.String()
}
