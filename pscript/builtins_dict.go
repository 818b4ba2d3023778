package pscript

var dictPrimitives = map[string]Primitive{
	"dict":        primDict,
	"begin":       primBegin,
	"end":         primEnd,
	"def":         primDef,
	"known":       primKnown,
	"load":        primLoad,
	"store":       primStore,
	"undef":       primUndef,
	"currentdict": primCurrentDict,
}

// primDict pushes an empty dictionary. The capacity operand is checked but
// dictionaries grow as needed.
func primDict(in *Interpreter) error {
	args, err := in.args("dict", 1)
	if err != nil {
		return err
	}
	size, err := expectInt("dict", args[0])
	if err != nil {
		return err
	}
	if size < 0 {
		return rangeError("dict", "size %d is negative", size)
	}
	in.replace(1, NewDictValue(NewDict()))
	return nil
}

func primBegin(in *Interpreter) error {
	args, err := in.args("begin", 1)
	if err != nil {
		return err
	}
	d, err := expectDict("begin", args[0])
	if err != nil {
		return err
	}
	in.stack.Drop(1)
	in.env.Open(d)
	return nil
}

func primEnd(in *Interpreter) error {
	return in.env.Close()
}

// primDef binds a name literal (beneath) to a value (on top) in the current
// dictionary.
func primDef(in *Interpreter) error {
	args, err := in.args("def", 2)
	if err != nil {
		return err
	}
	name, err := expectName("def", args[0])
	if err != nil {
		return err
	}
	in.stack.Drop(2)
	in.define(name, args[1])
	return nil
}

// primKnown reports whether a dictionary binds a key.
func primKnown(in *Interpreter) error {
	args, err := in.args("known", 2)
	if err != nil {
		return err
	}
	d, err := expectDict("known", args[0])
	if err != nil {
		return err
	}
	key, err := dictKey("known", args[1])
	if err != nil {
		return err
	}
	_, ok := d.Get(key)
	in.replace(2, NewBool(ok))
	return nil
}

// primLoad pushes the value bound to a name without executing it, resolving
// the name the same way an executable name would be.
func primLoad(in *Interpreter) error {
	args, err := in.args("load", 1)
	if err != nil {
		return err
	}
	key, err := dictKey("load", args[0])
	if err != nil {
		return err
	}
	val, ok := in.resolve(key, in.active)
	if !ok {
		return undefinedName(key)
	}
	in.replace(1, val)
	return nil
}

// primStore rebinds a name in the innermost live frame that already holds it,
// or defines it in the current dictionary.
func primStore(in *Interpreter) error {
	args, err := in.args("store", 2)
	if err != nil {
		return err
	}
	name, err := expectName("store", args[0])
	if err != nil {
		return err
	}
	in.stack.Drop(2)
	if d, ok := in.env.Where(name); ok {
		d.Put(name, args[1])
		return nil
	}
	in.define(name, args[1])
	return nil
}

func primUndef(in *Interpreter) error {
	args, err := in.args("undef", 2)
	if err != nil {
		return err
	}
	d, err := expectDict("undef", args[0])
	if err != nil {
		return err
	}
	key, err := dictKey("undef", args[1])
	if err != nil {
		return err
	}
	in.stack.Drop(2)
	d.Delete(key)
	return nil
}

func primCurrentDict(in *Interpreter) error {
	in.stack.Push(NewDictValue(in.env.Top()))
	return nil
}
