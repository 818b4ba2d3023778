package pscript

import (
	"fmt"
	"maps"
	"slices"
)

// Dict is one binding frame: a mutable name to value mapping.
type Dict struct {
	values map[string]Value
}

func NewDict() *Dict {
	return &Dict{values: make(map[string]Value)}
}

func (d *Dict) Get(name string) (Value, bool) {
	val, ok := d.values[name]
	return val, ok
}

// Put binds name, replacing any earlier binding in this frame.
func (d *Dict) Put(name string, val Value) {
	d.values[name] = val
}

func (d *Dict) Delete(name string) {
	delete(d.values, name)
}

func (d *Dict) Len() int { return len(d.values) }

// Keys returns the bound names in sorted order.
func (d *Dict) Keys() []string {
	return slices.Sorted(maps.Keys(d.values))
}

// Clone copies the bindings into a new, independently owned frame. Values
// themselves are not deep-copied.
func (d *Dict) Clone() *Dict {
	return &Dict{values: maps.Clone(d.values)}
}

// Env is the dictionary stack. Frame 0 is the global frame and is never
// removed.
type Env struct {
	frames []*Dict
}

func newEnv(global *Dict) *Env {
	return &Env{frames: []*Dict{global}}
}

// NewEnv returns an environment holding only a fresh global frame.
func NewEnv() *Env {
	return newEnv(NewDict())
}

func (e *Env) Depth() int { return len(e.frames) }

func (e *Env) Top() *Dict { return e.frames[len(e.frames)-1] }

func (e *Env) Global() *Dict { return e.frames[0] }

// Frames returns the frames bottom to top. The slice is a copy; the frames
// are not.
func (e *Env) Frames() []*Dict {
	return slices.Clone(e.frames)
}

// Define binds name in the top frame only.
func (e *Env) Define(name string, val Value) {
	e.Top().Put(name, val)
}

// LookupDynamic searches the live frames, most recently opened first.
func (e *Env) LookupDynamic(name string) (Value, bool) {
	return lookup(e, name)
}

// LookupLexical applies the same search to a captured environment instead
// of the live one.
func (e *Env) LookupLexical(name string, captured *Env) (Value, bool) {
	return lookup(captured, name)
}

func lookup(e *Env, name string) (Value, bool) {
	if _, d := e.where(name); d != nil {
		return d.Get(name)
	}
	return Value{}, false
}

// Where returns the frame holding the visible binding for name.
func (e *Env) Where(name string) (*Dict, bool) {
	_, d := e.where(name)
	return d, d != nil
}

func (e *Env) where(name string) (int, *Dict) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if _, ok := e.frames[i].values[name]; ok {
			return i, e.frames[i]
		}
	}
	return -1, nil
}

// Open pushes frame as the new top frame.
func (e *Env) Open(frame *Dict) {
	e.frames = append(e.frames, frame)
}

// Close pops the top frame. The global frame cannot be closed.
func (e *Env) Close() error {
	if len(e.frames) <= 1 {
		return fmt.Errorf("%w: cannot close the global dictionary", ErrScope)
	}
	e.frames[len(e.frames)-1] = nil
	e.frames = e.frames[:len(e.frames)-1]
	return nil
}

// Snapshot deep-copies every frame into a new environment. Strings and
// dictionaries reachable from the frames are copied too, so neither later
// definitions in e nor in-place edits such as putinterval are visible
// through the result. A dictionary reachable twice is copied once.
func (e *Env) Snapshot() *Env {
	seen := make(map[*Dict]*Dict)
	frames := make([]*Dict, len(e.frames))
	for i, d := range e.frames {
		frames[i] = d.deepClone(seen)
	}
	return &Env{frames: frames}
}

func (d *Dict) deepClone(seen map[*Dict]*Dict) *Dict {
	if c, ok := seen[d]; ok {
		return c
	}
	c := &Dict{values: make(map[string]Value, len(d.values))}
	seen[d] = c
	for name, v := range d.values {
		c.values[name] = deepCopyValue(v, seen)
	}
	return c
}

// deepCopyValue copies the mutable parts of v. Procedures are left shared:
// their bodies are never written and their captured environments are
// snapshots already.
func deepCopyValue(v Value, seen map[*Dict]*Dict) Value {
	switch v.Kind() {
	case KindString:
		return NewString(v.Str().String())
	case KindDict:
		return NewDictValue(v.Dict().deepClone(seen))
	default:
		return v
	}
}
