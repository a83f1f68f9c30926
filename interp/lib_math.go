package interp

import "math"

// registerMathLibrary implements the math.h pack (SPEC_FULL §4.7),
// grounded on original_source/Lib/math.c: each intrinsic is a thin
// wrapper over the matching function in Go's standard math package.
func registerMathLibrary(in *Interpreter) {
	ty := in.types
	unary := func(name string, f func(float64) float64) LibraryFunction {
		return LibraryFunction{Name: name, ParamType: []*ValueType{ty.FP}, ReturnType: ty.FP,
			Fn: func(in *Interpreter, args []*Value) (*Value, error) {
				return &Value{Typ: ty.FP, FP: f(args[0].AsFloat64())}, nil
			}}
	}
	lib := &Library{
		Header: "math.h",
		Functions: []LibraryFunction{
			unary("sin", math.Sin),
			unary("cos", math.Cos),
			unary("sqrt", math.Sqrt),
			unary("floor", math.Floor),
			unary("ceil", math.Ceil),
			unary("fabs", math.Abs),
			{Name: "pow", ParamType: []*ValueType{ty.FP, ty.FP}, ReturnType: ty.FP, Fn: func(in *Interpreter, args []*Value) (*Value, error) {
				return &Value{Typ: ty.FP, FP: math.Pow(args[0].AsFloat64(), args[1].AsFloat64())}, nil
			}},
		},
	}
	in.IncludeRegister(lib)
}
