package pscript

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindReal }

func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.data.(int64)
	case KindReal:
		return int64(v.data.(float64))
	default:
		return 0
	}
}

func (v Value) Real() float64 {
	switch v.kind {
	case KindReal:
		return v.data.(float64)
	case KindInt:
		return float64(v.data.(int64))
	default:
		return 0
	}
}

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Str() *String {
	if v.kind != KindString {
		return nil
	}
	return v.data.(*String)
}

func (v Value) Name() string {
	if v.kind != KindName {
		return ""
	}
	return v.data.(string)
}

func (v Value) Dict() *Dict {
	if v.kind != KindDict {
		return nil
	}
	return v.data.(*Dict)
}

func (v Value) Procedure() *Procedure {
	if v.kind != KindProcedure {
		return nil
	}
	return v.data.(*Procedure)
}

// Equal implements eq: numbers compare by value across integer and real,
// strings by content, names by text, dictionaries and procedures by identity.
func (v Value) Equal(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		if v.kind == KindInt && other.kind == KindInt {
			return v.Int() == other.Int()
		}
		return v.Real() == other.Real()
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.Bool() == other.Bool()
	case KindString:
		return v.Str().String() == other.Str().String()
	case KindName:
		return v.Name() == other.Name()
	case KindDict:
		return v.Dict() == other.Dict()
	case KindProcedure:
		return v.Procedure() == other.Procedure()
	default:
		return false
	}
}

// eqCompatible reports whether eq/ne accept the pair. Mixed kinds other than
// integer/real are a type error rather than simply unequal.
func eqCompatible(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return true
	}
	return a.kind == b.kind
}
