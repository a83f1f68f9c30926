package interp

// BaseType is the root discriminant of every ValueType node, corresponding
// to original_source/Extern.h's BaseType enum.
type BaseType int

const (
	TypeVoid BaseType = iota
	TypeInt
	TypeShort
	TypeChar
	TypeLong
	TypeUnsignedInt
	TypeUnsignedShort
	TypeUnsignedChar
	TypeUnsignedLong
	TypeFP
	TypeFunction
	TypeMacro
	TypePointer
	TypeArray
	TypeStruct
	TypeUnion
	TypeEnum
	TypeGotoLabel
	TypeType // "type of types" -- what a typedef name resolves through.
)

func (b BaseType) String() string {
	switch b {
	case TypeVoid:
		return "void"
	case TypeInt:
		return "int"
	case TypeShort:
		return "short"
	case TypeChar:
		return "char"
	case TypeLong:
		return "long"
	case TypeUnsignedInt:
		return "unsigned int"
	case TypeUnsignedShort:
		return "unsigned short"
	case TypeUnsignedChar:
		return "unsigned char"
	case TypeUnsignedLong:
		return "unsigned long"
	case TypeFP:
		return "double"
	case TypeFunction:
		return "function"
	case TypeMacro:
		return "macro"
	case TypePointer:
		return "pointer"
	case TypeArray:
		return "array"
	case TypeStruct:
		return "struct"
	case TypeUnion:
		return "union"
	case TypeEnum:
		return "enum"
	case TypeGotoLabel:
		return "label"
	case TypeType:
		return "type"
	}
	return "?"
}

// ValueType is one node of the derived-type tree rooted at the Uber type,
// grounded on original_source/Type.c's ValueType struct and TypeGetMatching.
// Two declarations that would be the same C type canonicalize to the same
// *ValueType pointer, which is how the interpreter gets pointer-equality
// type comparisons (T1 in SPEC_FULL/spec.md).
type ValueType struct {
	Base       BaseType
	FromType   *ValueType // the type this one derives from (e.g. pointee for TypePointer).
	ArraySize  int        // -1 for an unsized array ("incomplete").
	Identifier string     // struct/union/enum tag or typedef name; "" for anonymous.

	derived []*ValueType // children of this node in the derived-type tree.

	Members *Table // struct/union member table, or enum constant table.

	Sizeof     int
	AlignBytes int

	OnHeap bool
}

// Types is the type registry: the Uber sentinel root plus the canonical
// set of base types, matching TypeInit's construction of IntType,
// CharType, and friends as direct children of the root.
type Types struct {
	Uber *ValueType

	Int           *ValueType
	Short         *ValueType
	Char          *ValueType
	Long          *ValueType
	UnsignedInt   *ValueType
	UnsignedShort *ValueType
	UnsignedChar  *ValueType
	UnsignedLong  *ValueType
	FP            *ValueType
	Void          *ValueType
	Function      *ValueType
	Macro         *ValueType
	GotoLabel     *ValueType
	TypeType      *ValueType

	CharArray  *ValueType // char[] -- used for string literal typing.
	CharPtr    *ValueType // char*
	CharPtrPtr *ValueType // char**
	VoidPtr    *ValueType // void*
}

func newTypes() *Types {
	t := &Types{}
	t.Uber = &ValueType{Base: TypeVoid, Identifier: "@uber"}

	mk := func(b BaseType, sz, align int) *ValueType {
		vt := &ValueType{Base: b, FromType: t.Uber, Sizeof: sz, AlignBytes: align}
		t.Uber.derived = append(t.Uber.derived, vt)
		return vt
	}

	t.Int = mk(TypeInt, 8, 8)
	t.Short = mk(TypeShort, 2, 2)
	t.Char = mk(TypeChar, 1, 1)
	t.Long = mk(TypeLong, 8, 8)
	t.UnsignedInt = mk(TypeUnsignedInt, 8, 8)
	t.UnsignedShort = mk(TypeUnsignedShort, 2, 2)
	t.UnsignedChar = mk(TypeUnsignedChar, 1, 1)
	t.UnsignedLong = mk(TypeUnsignedLong, 8, 8)
	t.FP = mk(TypeFP, 8, 8)
	t.Void = mk(TypeVoid, 0, 1)
	t.Function = mk(TypeFunction, 0, 1)
	t.Macro = mk(TypeMacro, 0, 1)
	t.GotoLabel = mk(TypeGotoLabel, 0, 1)
	t.TypeType = mk(TypeType, 8, 8)

	t.CharPtr = t.GetMatching(t.Char, TypePointer, 0, "")
	t.CharPtrPtr = t.GetMatching(t.CharPtr, TypePointer, 0, "")
	t.VoidPtr = t.GetMatching(t.Void, TypePointer, 0, "")
	t.CharArray = t.GetMatching(t.Char, TypeArray, -1, "")

	return t
}

// GetMatching finds or creates the derived type (parent, base, arraySize,
// identifier), the Go restatement of TypeGetMatching: canonicalization by
// that tuple is what lets later code compare types with `==`.
func (ts *Types) GetMatching(parent *ValueType, base BaseType, arraySize int, identifier string) *ValueType {
	for _, d := range parent.derived {
		if d.Base == base && d.ArraySize == arraySize && d.Identifier == identifier {
			return d
		}
	}
	vt := &ValueType{Base: base, FromType: parent, ArraySize: arraySize, Identifier: identifier}
	ts.sizeOf(vt)
	parent.derived = append(parent.derived, vt)
	return vt
}

// PointerTo returns the canonical pointer-to-vt type.
func (ts *Types) PointerTo(vt *ValueType) *ValueType {
	return ts.GetMatching(vt, TypePointer, 0, "")
}

// ArrayOf returns the canonical array-of-vt type with the given size, or
// an incomplete array (size -1) if size is negative.
func (ts *Types) ArrayOf(vt *ValueType, size int) *ValueType {
	return ts.GetMatching(vt, TypeArray, size, "")
}

func (ts *Types) sizeOf(vt *ValueType) {
	switch vt.Base {
	case TypePointer:
		vt.Sizeof, vt.AlignBytes = 8, 8
	case TypeArray:
		if vt.ArraySize < 0 {
			vt.Sizeof = 0
		} else {
			vt.Sizeof = vt.ArraySize * vt.FromType.Sizeof
		}
		vt.AlignBytes = vt.FromType.AlignBytes
	case TypeStruct, TypeUnion:
		vt.AlignBytes = 8
	case TypeEnum:
		vt.Sizeof, vt.AlignBytes = 8, 8
	default:
		vt.Sizeof, vt.AlignBytes = vt.FromType.Sizeof, vt.FromType.AlignBytes
	}
}

// IsIntegerLike reports whether vt participates in integer arithmetic and
// promotion rules (everything except floating point, pointers, and the
// aggregate/void types).
func (vt *ValueType) IsIntegerLike() bool {
	switch vt.Base {
	case TypeInt, TypeShort, TypeChar, TypeLong,
		TypeUnsignedInt, TypeUnsignedShort, TypeUnsignedChar, TypeUnsignedLong,
		TypeEnum:
		return true
	}
	return false
}

func (vt *ValueType) IsUnsigned() bool {
	switch vt.Base {
	case TypeUnsignedInt, TypeUnsignedShort, TypeUnsignedChar, TypeUnsignedLong:
		return true
	}
	return false
}

func (vt *ValueType) IsNumeric() bool { return vt.IsIntegerLike() || vt.Base == TypeFP }

func (vt *ValueType) Name() string {
	switch vt.Base {
	case TypePointer:
		return vt.FromType.Name() + "*"
	case TypeArray:
		return vt.FromType.Name() + "[]"
	case TypeStruct:
		return "struct " + vt.Identifier
	case TypeUnion:
		return "union " + vt.Identifier
	case TypeEnum:
		return "enum " + vt.Identifier
	}
	if vt.Identifier != "" {
		return vt.Identifier
	}
	return vt.Base.String()
}
