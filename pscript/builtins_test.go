package pscript

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveResults(t *testing.T) {
	tests := []struct {
		source string
		want   []string
	}{
		// numeric
		{"1 2 add", []string{"3"}},
		{"5 3 sub", []string{"2"}},
		{"4 2.5 mul", []string{"10.0"}},
		{"7 2 div", []string{"3"}},
		{"-7 2 div", []string{"-3"}},
		{"7 2.0 div", []string{"3.5"}},
		{"7 3 mod", []string{"1"}},
		{"-7 3 mod", []string{"-1"}},
		{"7 2 idiv", []string{"3"}},
		{"-4 abs", []string{"4"}},
		{"5 neg", []string{"-5"}},
		{"9223372036854775806 1 add", []string{"9223372036854775807"}},
		{"-9223372036854775807 1 sub", []string{"-9223372036854775808"}},
		{"-3 -4 mul", []string{"12"}},
		{"9223372036854775807 1.0 add", []string{"9.223372036854776e+18"}},
		{"2.5 neg", []string{"-2.5"}},
		{"3.2 ceiling", []string{"4.0"}},
		{"3.7 floor", []string{"3.0"}},
		{"7 floor", []string{"7"}},
		{"2.5 round", []string{"3.0"}},
		{"9 sqrt", []string{"3.0"}},

		// comparison and logic
		{"1 1.0 eq", []string{"true"}},
		{"(a) (a) eq", []string{"true"}},
		{"/a /a eq", []string{"true"}},
		{"1 2 ne", []string{"true"}},
		{"3 2 gt", []string{"true"}},
		{"2 2 ge", []string{"true"}},
		{"1 2.5 lt", []string{"true"}},
		{"3 2 le", []string{"false"}},
		{"(abc) (abd) lt", []string{"true"}},
		{"true false and", []string{"false"}},
		{"true false or", []string{"true"}},
		{"true true xor", []string{"false"}},
		{"12 10 and", []string{"8"}},
		{"12 10 or", []string{"14"}},
		{"12 10 xor", []string{"6"}},
		{"true not", []string{"false"}},
		{"5 not", []string{"-6"}},

		// stack
		{"1 dup", []string{"1", "1"}},
		{"1 2 exch", []string{"2", "1"}},
		{"1 2 pop", []string{"1"}},
		{"1 2 3 2 copy", []string{"1", "2", "3", "2", "3"}},
		{"1 2 0 copy", []string{"1", "2"}},
		{"1 2 3 2 index", []string{"1", "2", "3", "1"}},
		{"1 2 3 0 index", []string{"1", "2", "3", "3"}},
		{"1 2 3 3 1 roll", []string{"3", "1", "2"}},
		{"1 2 3 3 -1 roll", []string{"2", "3", "1"}},
		{"1 2 3 clear", []string{}},
		{"1 2 3 count", []string{"1", "2", "3", "3"}},

		// dictionaries
		{"/x 1 def x", []string{"1"}},
		{"/d 2 dict def d begin /x 5 def end d /x known", []string{"true"}},
		{"/d 2 dict def d begin /x 5 def end d length", []string{"1"}},
		{"/x 1 def /x load", []string{"1"}},
		{"/f {1 2} def /f load", []string{"{1 2}"}},
		{"/x 1 def 1 dict begin /x 2 store end x", []string{"2"}},
		{"1 dict begin /y 3 store currentdict /y known end", []string{"true"}},
		{"/x 1 def currentdict /x undef currentdict /x known", []string{"false"}},
		{"/d 1 dict def d /k 7 put d /k get", []string{"7"}},
		{"/d 1 dict def d (k) 7 put d /k get", []string{"7"}},

		// strings
		{"(hello) length", []string{"5"}},
		{"(hello) 1 get", []string{"101"}},
		{"(hello) 1 3 getinterval", []string{"(ell)"}},
		{"(hello) dup 0 (J) putinterval", []string{"(Jello)"}},
		{"/s (abc) def s 1 (XY) putinterval s", []string{"(aXY)"}},
		{"(abc) dup 0 65 put", []string{"(Abc)"}},
		{"3 string length", []string{"3"}},
		{"/name length", []string{"4"}},
		{"{1 2 3} length", []string{"3"}},

		// control flow
		{"true {1} if", []string{"1"}},
		{"false {1} if", []string{}},
		{"true {1} {2} ifelse", []string{"1"}},
		{"false {1} {2} ifelse", []string{"2"}},
		{"0 1 1 4 {add} for", []string{"10"}},
		{"1 1 3 {} for", []string{"1", "2", "3"}},
		{"3 -1 1 {} for", []string{"3", "2", "1"}},
		{"0 0.5 1 {} for", []string{"0.0", "0.5", "1.0"}},
		{"1 1 0 {} for", []string{}},
		{"3 {1} repeat", []string{"1", "1", "1"}},
		{"0 {1} repeat", []string{}},
		{"0 { 1 add dup 5 eq { exit } if } loop", []string{"5"}},
		{"1 1 10 { dup 3 eq { exit } if } for", []string{"1", "2", "3"}},
		{"{1 2 add} exec", []string{"3"}},
		{"5 exec", []string{"5"}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			in, _ := newTestInterpreter(t, ScopeDynamic)
			require.NoError(t, in.EvaluateSource(tt.source))
			assert.Equal(t, tt.want, stackSyntax(in))
		})
	}
}

func TestPrimitiveErrorsLeaveStackUntouched(t *testing.T) {
	tests := []struct {
		source string
		want   error
		depth  int
	}{
		{"add", ErrStackUnderflow, 0},
		{"1 add", ErrStackUnderflow, 1},
		{"1 (a) add", ErrType, 2},
		{"1 0 div", ErrDivisionByZero, 2},
		{"1.0 0 div", ErrDivisionByZero, 2},
		{"1 0 mod", ErrDivisionByZero, 2},
		{"9223372036854775807 1 add", ErrIntegerOverflow, 2},
		{"-9223372036854775808 1 sub", ErrIntegerOverflow, 2},
		{"4611686018427387904 2 mul", ErrIntegerOverflow, 2},
		{"-9223372036854775808 -1 mul", ErrIntegerOverflow, 2},
		{"-9223372036854775808 -1 idiv", ErrIntegerOverflow, 2},
		{"-9223372036854775808 neg", ErrIntegerOverflow, 1},
		{"-9223372036854775808 abs", ErrIntegerOverflow, 1},
		{"1.5 2 idiv", ErrType, 2},
		{"-4 sqrt", ErrRange, 1},
		{"1 (a) eq", ErrType, 2},
		{"(a) 1 lt", ErrType, 2},
		{"true 1 and", ErrType, 2},
		{"(a) not", ErrType, 1},
		{"1 5 copy", ErrStackUnderflow, 2},
		{"1 -1 copy", ErrRange, 2},
		{"1 2 index", ErrStackUnderflow, 2},
		{"1 2 5 1 roll", ErrStackUnderflow, 4},
		{"end", ErrScope, 0},
		{"-1 dict", ErrRange, 1},
		{"5 begin", ErrType, 1},
		{"1 2 def", ErrType, 2},
		{"foo", ErrUndefinedName, 0},
		{"/foo load", ErrUndefinedName, 1},
		{"1 dict /x get", ErrUndefinedName, 2},
		{"(abc) 3 get", ErrRange, 2},
		{"(abc) -1 get", ErrRange, 2},
		{"(abc) 2 2 getinterval", ErrRange, 3},
		{"(ab) 1 (xyz) putinterval", ErrRange, 3},
		{"(abc) 0 300 put", ErrRange, 3},
		{"1 length", ErrType, 1},
		{"1 {1} if", ErrType, 2},
		{"true 1 if", ErrType, 2},
		{"true {1} 2 ifelse", ErrType, 3},
		{"-1 {1} repeat", ErrRange, 2},
		{"1 (a) 3 {} for", ErrType, 4},
		{"1 print", ErrType, 1},
		{"exit", ErrScope, 0},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			in, _ := newTestInterpreter(t, ScopeDynamic)
			var err error
			require.NotPanics(t, func() { err = in.EvaluateSource(tt.source) })
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, tt.depth, in.StackDepth())
		})
	}
}

func TestArithmeticNetDepth(t *testing.T) {
	for _, op := range []string{"add", "sub", "mul", "div", "mod", "idiv"} {
		t.Run(op, func(t *testing.T) {
			in, _ := newTestInterpreter(t, ScopeDynamic)
			require.NoError(t, in.EvaluateSource("100 9 8 "+op))
			assert.Equal(t, 2, in.StackDepth())
		})
	}
}

func TestPutIntervalMutatesEveryAlias(t *testing.T) {
	in, _ := newTestInterpreter(t, ScopeLexical)
	require.NoError(t, in.EvaluateSource("/s (hello) def /t s def s 0 (J) putinterval t"))
	assert.Equal(t, []string{"(Jello)"}, stackSyntax(in))

	s, ok := in.Globals()["s"]
	require.True(t, ok)
	assert.Equal(t, "Jello", s.Str().String())
}

func TestGetIntervalCopies(t *testing.T) {
	in, _ := newTestInterpreter(t, ScopeDynamic)
	require.NoError(t, in.EvaluateSource("/s (hello) def s 0 2 getinterval dup 0 (J) putinterval s"))
	assert.Equal(t, []string{"(Je)", "(hello)"}, stackSyntax(in))
}

func TestOutputPrimitives(t *testing.T) {
	tests := []struct {
		source string
		want   string
		depth  int
	}{
		{"(hi) print", "hi", 0},
		{"42 =", "42\n", 0},
		{"(hi) =", "hi\n", 0},
		{"(hi) ==", "(hi)\n", 0},
		{"/n ==", "/n\n", 0},
		{"{1 (a) /b c} ==", "{1 (a) /b c}\n", 0},
		{"2.0 =", "2.0\n", 0},
		{"true =", "true\n", 0},
		{"1 dict ==", "-dict-\n", 0},
		{"{1} =", "--nostringval--\n", 0},
		{"1 2 3 pstack", "3\n2\n1\n", 3},
		{"1 (a) stack", "a\n1\n", 2},
		{"1 (a) pstack", "(a)\n1\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			in, out := newTestInterpreter(t, ScopeDynamic)
			require.NoError(t, in.EvaluateSource(tt.source))
			assert.Equal(t, tt.want, out.String())
			assert.Equal(t, tt.depth, in.StackDepth())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestOutputWriteFailure(t *testing.T) {
	in := MustNewInterpreter(Config{Stdout: failingWriter{}})
	err := in.EvaluateSource("(x) print")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
