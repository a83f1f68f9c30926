package interp

// registerStringLibrary implements the string.h pack (SPEC_FULL §4.7),
// grounded on original_source/Lib/string.c. Every function reads/writes
// through cellsOf's shared character-cell view rather than raw bytes,
// since guest memory here is a slice of tagged Values, not a byte arena.
func registerStringLibrary(in *Interpreter) {
	ty := in.types
	lib := &Library{
		Header: "string.h",
		Functions: []LibraryFunction{
			{Name: "strlen", ParamType: []*ValueType{ty.CharPtr}, ReturnType: ty.UnsignedLong, Fn: libStrlen},
			{Name: "strcpy", ParamType: []*ValueType{ty.CharPtr, ty.CharPtr}, ReturnType: ty.CharPtr, Fn: libStrcpy},
			{Name: "strncpy", ParamType: []*ValueType{ty.CharPtr, ty.CharPtr, ty.UnsignedLong}, ReturnType: ty.CharPtr, Fn: libStrncpy},
			{Name: "strcmp", ParamType: []*ValueType{ty.CharPtr, ty.CharPtr}, ReturnType: ty.Int, Fn: libStrcmp},
			{Name: "strncmp", ParamType: []*ValueType{ty.CharPtr, ty.CharPtr, ty.UnsignedLong}, ReturnType: ty.Int, Fn: libStrncmp},
			{Name: "strcat", ParamType: []*ValueType{ty.CharPtr, ty.CharPtr}, ReturnType: ty.CharPtr, Fn: libStrcat},
			{Name: "memcpy", ParamType: []*ValueType{ty.VoidPtr, ty.VoidPtr, ty.UnsignedLong}, ReturnType: ty.VoidPtr, Fn: libMemcpy},
			{Name: "memset", ParamType: []*ValueType{ty.VoidPtr, ty.Int, ty.UnsignedLong}, ReturnType: ty.VoidPtr, Fn: libMemset},
			{Name: "memcmp", ParamType: []*ValueType{ty.VoidPtr, ty.VoidPtr, ty.UnsignedLong}, ReturnType: ty.Int, Fn: libMemcmp},
		},
	}
	in.IncludeRegister(lib)
}

// writeCString writes s into dst's backing cells, NUL-terminating within
// whatever capacity dst actually has -- picoc-go's strings are always
// backed by a fixed-size array or arena allocation, so, unlike the libc
// original, an over-long write truncates rather than corrupting adjacent
// memory; the simplification is documented in DESIGN.md.
func writeCString(dst *Value, s string, charType *ValueType) {
	cells := cellsOf(dst)
	if cells == nil {
		return
	}
	runes := []rune(s)
	for i := range cells {
		if i < len(runes) {
			cells[i] = Value{Typ: charType, Int: int64(runes[i])}
		} else {
			cells[i] = Value{Typ: charType, Int: 0}
			return
		}
	}
}

func libStrlen(in *Interpreter, args []*Value) (*Value, error) {
	return &Value{Typ: in.types.UnsignedLong, Int: int64(len(cStringOf(args[0])))}, nil
}

func libStrcpy(in *Interpreter, args []*Value) (*Value, error) {
	writeCString(args[0], cStringOf(args[1]), in.types.Char)
	return args[0], nil
}

func libStrncpy(in *Interpreter, args []*Value) (*Value, error) {
	s := cStringOf(args[1])
	n := int(args[2].AsInt64())
	if len(s) > n {
		s = s[:n]
	}
	writeCString(args[0], s, in.types.Char)
	return args[0], nil
}

func libStrcmp(in *Interpreter, args []*Value) (*Value, error) {
	a, b := cStringOf(args[0]), cStringOf(args[1])
	return &Value{Typ: in.types.Int, Int: int64(compareStrings(a, b))}, nil
}

func libStrncmp(in *Interpreter, args []*Value) (*Value, error) {
	n := int(args[2].AsInt64())
	a, b := cStringOf(args[0]), cStringOf(args[1])
	if len(a) > n {
		a = a[:n]
	}
	if len(b) > n {
		b = b[:n]
	}
	return &Value{Typ: in.types.Int, Int: int64(compareStrings(a, b))}, nil
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func libStrcat(in *Interpreter, args []*Value) (*Value, error) {
	writeCString(args[0], cStringOf(args[0])+cStringOf(args[1]), in.types.Char)
	return args[0], nil
}

func libMemcpy(in *Interpreter, args []*Value) (*Value, error) {
	dst, src := cellsOf(args[0]), cellsOf(args[1])
	n := int(args[2].AsInt64())
	for i := 0; i < n && i < len(dst) && i < len(src); i++ {
		dst[i] = src[i]
	}
	return args[0], nil
}

func libMemset(in *Interpreter, args []*Value) (*Value, error) {
	dst := cellsOf(args[0])
	val := args[1].AsInt64()
	n := int(args[2].AsInt64())
	for i := 0; i < n && i < len(dst); i++ {
		dst[i] = Value{Typ: in.types.UnsignedChar, Int: val & 0xff}
	}
	return args[0], nil
}

func libMemcmp(in *Interpreter, args []*Value) (*Value, error) {
	a, b := cellsOf(args[0]), cellsOf(args[1])
	n := int(args[2].AsInt64())
	for i := 0; i < n; i++ {
		var av, bv int64
		if i < len(a) {
			av = a[i].Int
		}
		if i < len(b) {
			bv = b[i].Int
		}
		if av != bv {
			return &Value{Typ: in.types.Int, Int: av - bv}, nil
		}
	}
	return &Value{Typ: in.types.Int, Int: 0}, nil
}
