package pscript

type ValueKind int

// KindInvalid is the kind of the zero Value, which Pop and Peek return on
// failure.
const (
	KindInvalid ValueKind = iota
	KindInt
	KindReal
	KindBool
	KindString
	KindName
	KindDict
	KindProcedure
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindInt:       "integer",
	KindReal:      "real",
	KindBool:      "boolean",
	KindString:    "string",
	KindName:      "name",
	KindDict:      "dict",
	KindProcedure: "procedure",
}

func (k ValueKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is the closed union of runtime values held on the operand stack and
// in dictionaries. Strings and dictionaries are reference values; copying a
// Value aliases them.
type Value struct {
	kind ValueKind
	data any
}

// String is a mutable byte string shared by every Value that aliases it.
type String struct {
	bytes []byte
}

// Procedure is a pre-parsed body plus the environment captured when it was
// bound under lexical scoping. Env is nil for procedures that were never
// bound that way.
type Procedure struct {
	Body []Token
	Env  *Env
}

func NewInt(i int64) Value { return Value{kind: KindInt, data: i} }

func NewReal(f float64) Value { return Value{kind: KindReal, data: f} }

func NewBool(b bool) Value { return Value{kind: KindBool, data: b} }

func NewString(s string) Value {
	return Value{kind: KindString, data: &String{bytes: []byte(s)}}
}

// NewStringBuffer wraps an existing buffer without copying it.
func NewStringBuffer(s *String) Value { return Value{kind: KindString, data: s} }

func NewName(name string) Value { return Value{kind: KindName, data: name} }

func NewDictValue(d *Dict) Value { return Value{kind: KindDict, data: d} }

func NewProcedure(body []Token, env *Env) Value {
	return Value{kind: KindProcedure, data: &Procedure{Body: body, Env: env}}
}

// withEnv returns a new procedure value sharing the body but carrying env.
func (p *Procedure) withEnv(env *Env) Value {
	return NewProcedure(p.Body, env)
}

func (s *String) Len() int { return len(s.bytes) }

func (s *String) String() string { return string(s.bytes) }

// At returns the byte at i; callers check bounds first.
func (s *String) At(i int) byte { return s.bytes[i] }

// Slice returns a fresh string holding bytes [start, start+count).
func (s *String) Slice(start, count int) *String {
	out := make([]byte, count)
	copy(out, s.bytes[start:start+count])
	return &String{bytes: out}
}

// Overwrite replaces bytes starting at index with src. It never grows the
// string; callers check that the write fits.
func (s *String) Overwrite(index int, src []byte) {
	copy(s.bytes[index:], src)
}

func (s *String) Bytes() []byte { return s.bytes }
