package interp

import "strings"

// registerBaseLibraries wires every bundled standard-library pack into the
// interpreter's include table (SPEC_FULL §4.7); none of their functions
// enter global scope until the guest program (or IncludeAllSystemHeaders)
// actually #includes the corresponding header, mirroring Lib.c's
// per-header SetupFunc registration in original PicoC.
func registerBaseLibraries(in *Interpreter) {
	registerStdioLibrary(in)
	registerStringLibrary(in)
	registerMathLibrary(in)
	registerStdlibLibrary(in)
	registerCtypeLibrary(in)
	registerTimeLibrary(in)
	registerErrnoLibrary(in)
	registerUnistdLibrary(in)
}

// cStringOf reads a NUL-terminated run of characters starting at v,
// whether v is itself a char[] array or a pointer into one -- the shared
// reading half of the string-marshalling contract every stdio/string
// intrinsic needs (the writing half is writeCString, in lib_string.go).
func cStringOf(v *Value) string {
	cells := cellsOf(v)
	if cells == nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range cells {
		if c.Int == 0 {
			break
		}
		sb.WriteRune(rune(c.Int))
	}
	return sb.String()
}

// cellsOf returns the backing character cells a string-typed Value reads
// or writes through: an array's own cells, or the remaining run of an
// owning array a pointer currently indexes into. Returns nil for a value
// with no addressable character storage (e.g. a bare synthetic pointer).
func cellsOf(v *Value) []Value {
	if v == nil {
		return nil
	}
	if v.Typ != nil && v.Typ.Base == TypeArray {
		return v.Array
	}
	if v.Typ != nil && v.Typ.Base == TypePointer && v.Ptr != nil && v.Ptr.owner != nil {
		return v.Ptr.owner[v.Ptr.ownerIdx:]
	}
	return nil
}
