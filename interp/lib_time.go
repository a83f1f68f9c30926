package interp

import "time"

// registerTimeLibrary implements the time.h pack (SPEC_FULL §4.7),
// grounded on original_source/Lib/time.c: `time` reads the host wall
// clock, `clock` reports elapsed process time since Interpreter.New the
// way CLOCKS_PER_SEC-scaled clock() reports since program start.
func registerTimeLibrary(in *Interpreter) {
	ty := in.types
	lib := &Library{
		Header: "time.h",
		Functions: []LibraryFunction{
			{Name: "time", ParamType: []*ValueType{ty.VoidPtr}, ReturnType: ty.Long, Fn: func(in *Interpreter, args []*Value) (*Value, error) {
				return &Value{Typ: ty.Long, Int: time.Now().Unix()}, nil
			}},
			{Name: "clock", ReturnType: ty.Long, Fn: func(in *Interpreter, args []*Value) (*Value, error) {
				return &Value{Typ: ty.Long, Int: time.Since(in.startTime).Microseconds()}, nil
			}},
		},
	}
	in.IncludeRegister(lib)
}
