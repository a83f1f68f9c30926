package interp

import "unicode"

// registerCtypeLibrary implements the ctype.h pack (SPEC_FULL §4.7),
// grounded on original_source/Lib/ctype.c, over Go's unicode package
// rather than a hand-rolled ASCII table.
func registerCtypeLibrary(in *Interpreter) {
	ty := in.types
	pred := func(name string, f func(rune) bool) LibraryFunction {
		return LibraryFunction{Name: name, ParamType: []*ValueType{ty.Int}, ReturnType: ty.Int,
			Fn: func(in *Interpreter, args []*Value) (*Value, error) {
				if f(rune(args[0].AsInt64())) {
					return &Value{Typ: ty.Int, Int: 1}, nil
				}
				return &Value{Typ: ty.Int, Int: 0}, nil
			}}
	}
	conv := func(name string, f func(rune) rune) LibraryFunction {
		return LibraryFunction{Name: name, ParamType: []*ValueType{ty.Int}, ReturnType: ty.Int,
			Fn: func(in *Interpreter, args []*Value) (*Value, error) {
				return &Value{Typ: ty.Int, Int: int64(f(rune(args[0].AsInt64())))}, nil
			}}
	}
	lib := &Library{
		Header: "ctype.h",
		Functions: []LibraryFunction{
			pred("isalpha", unicode.IsLetter),
			pred("isdigit", unicode.IsDigit),
			pred("isspace", unicode.IsSpace),
			conv("toupper", unicode.ToUpper),
			conv("tolower", unicode.ToLower),
		},
	}
	in.IncludeRegister(lib)
}
