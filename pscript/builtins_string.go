package pscript

import "strings"

var stringPrimitives = map[string]Primitive{
	"string":      primString,
	"length":      primLength,
	"get":         primGet,
	"put":         primPut,
	"getinterval": primGetInterval,
	"putinterval": primPutInterval,
}

// primString pushes a string of n zero bytes.
func primString(in *Interpreter) error {
	args, err := in.args("string", 1)
	if err != nil {
		return err
	}
	n, err := expectIndex("string", args[0])
	if err != nil {
		return err
	}
	in.replace(1, NewString(strings.Repeat("\x00", n)))
	return nil
}

func primLength(in *Interpreter) error {
	args, err := in.args("length", 1)
	if err != nil {
		return err
	}
	var n int
	switch v := args[0]; v.Kind() {
	case KindString:
		n = v.Str().Len()
	case KindDict:
		n = v.Dict().Len()
	case KindName:
		n = len(v.Name())
	case KindProcedure:
		n = len(v.Procedure().Body)
	default:
		return typeError("length", "expects a string, dict, name or procedure, got %s", v.Kind())
	}
	in.replace(1, NewInt(int64(n)))
	return nil
}

// primGet reads a character code from a string or a binding from a dict.
func primGet(in *Interpreter) error {
	args, err := in.args("get", 2)
	if err != nil {
		return err
	}
	switch container := args[0]; container.Kind() {
	case KindString:
		i, err := expectIndex("get", args[1])
		if err != nil {
			return err
		}
		s := container.Str()
		if i >= s.Len() {
			return rangeError("get", "index %d out of bounds for length %d", i, s.Len())
		}
		in.replace(2, NewInt(int64(s.At(i))))
	case KindDict:
		key, err := dictKey("get", args[1])
		if err != nil {
			return err
		}
		val, ok := container.Dict().Get(key)
		if !ok {
			return undefinedName(key)
		}
		in.replace(2, val)
	default:
		return typeError("get", "expects a string or dict, got %s", container.Kind())
	}
	return nil
}

// primPut stores a character code into a string in place, or a binding into
// a dict.
func primPut(in *Interpreter) error {
	args, err := in.args("put", 3)
	if err != nil {
		return err
	}
	switch container := args[0]; container.Kind() {
	case KindString:
		i, err := expectIndex("put", args[1])
		if err != nil {
			return err
		}
		code, err := expectInt("put", args[2])
		if err != nil {
			return err
		}
		s := container.Str()
		if i >= s.Len() {
			return rangeError("put", "index %d out of bounds for length %d", i, s.Len())
		}
		if code < 0 || code > 255 {
			return rangeError("put", "character code %d outside 0..255", code)
		}
		in.stack.Drop(3)
		s.Overwrite(i, []byte{byte(code)})
	case KindDict:
		key, err := dictKey("put", args[1])
		if err != nil {
			return err
		}
		in.stack.Drop(3)
		container.Dict().Put(key, args[2])
	default:
		return typeError("put", "expects a string or dict, got %s", container.Kind())
	}
	return nil
}

// primGetInterval pushes a new string holding count bytes from index.
func primGetInterval(in *Interpreter) error {
	args, err := in.args("getinterval", 3)
	if err != nil {
		return err
	}
	s, err := expectString("getinterval", args[0])
	if err != nil {
		return err
	}
	index, err := expectIndex("getinterval", args[1])
	if err != nil {
		return err
	}
	count, err := expectIndex("getinterval", args[2])
	if err != nil {
		return err
	}
	if index > s.Len() || count > s.Len()-index {
		return rangeError("getinterval", "interval [%d, %d) out of bounds for length %d", index, index+count, s.Len())
	}
	in.replace(3, NewStringBuffer(s.Slice(index, count)))
	return nil
}

// primPutInterval overwrites part of the target string in place. Every value
// aliasing the target observes the change.
func primPutInterval(in *Interpreter) error {
	args, err := in.args("putinterval", 3)
	if err != nil {
		return err
	}
	target, err := expectString("putinterval", args[0])
	if err != nil {
		return err
	}
	index, err := expectIndex("putinterval", args[1])
	if err != nil {
		return err
	}
	source, err := expectString("putinterval", args[2])
	if err != nil {
		return err
	}
	if index > target.Len() || source.Len() > target.Len()-index {
		return rangeError("putinterval", "writing %d byte(s) at %d overflows length %d", source.Len(), index, target.Len())
	}
	in.stack.Drop(3)
	target.Overwrite(index, source.Bytes())
	return nil
}
