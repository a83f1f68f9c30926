package interp

// Value is the tagged-union cell described by SPEC_FULL/spec.md §3.2 and
// grounded on original_source/Extern.h's Value struct / AnyValue union.
// Rather than reinterpret a byte blob the way the C union does, the Go
// port keeps one typed field per representation and lets Typ.Base decide
// which is live -- the DESIGN NOTES mapping in spec.md §9 calls this out
// explicitly ("tagged-enum AnyValue").
type Value struct {
	Typ *ValueType

	Int   int64   // integer-family bases, enum constants, bool-as-int.
	FP    float64 // TypeFP.
	Ptr   *Value  // TypePointer: the pointee cell (nil = NULL).
	Array []Value // TypeArray.
	Strct map[string]*Value // TypeStruct/TypeUnion members, keyed by field name.
	Fn    *FuncDef           // TypeFunction.
	Macro *MacroDef          // TypeMacro.

	// LValueFrom, when non-nil, marks this Value as an alias sharing
	// storage with another cell (VariableAllocValueShared in Var.c):
	// assigning through one must be visible through the other.
	LValueFrom *Value

	ScopeID  int
	OutScope bool

	// OnHeap marks a Value as the head cell of a malloc/realloc allocation;
	// heapHandle is then the Arena.AllocMem handle free()/realloc() pass to
	// Arena.FreeMem to return it to the heap freelist.
	OnHeap     bool
	heapHandle int

	// Any carries an opaque host-side resource a library intrinsic needs to
	// stash on a guest value with no native C representation -- a FILE*'s
	// backing *os.File, for instance. Library code is the only code that
	// ever reads or writes it.
	Any interface{}

	// synthAddr/owner/ownerIdx give pointer values an identity without
	// unsafe.Pointer: a pointer either refers into some owning Array
	// slice (owner != nil) or carries a synthetic address used only for
	// equality/difference against other synthetic pointers (e.g. the
	// result of & on a non-array lvalue).
	synthAddr int
	owner     []Value
	ownerIdx  int
}

// FuncDef mirrors Extern.h's FuncDef: a parsed function's signature plus
// its body, ready to be re-parsed under RunModeRun each time it's called
// (picoc-go, like PicoC, has no compiled AST -- the body is kept as source
// text, see BodySrc).
type FuncDef struct {
	Name       string // the declared identifier; used to mangle static locals' global slot.
	ReturnType *ValueType
	ParamType  []*ValueType
	ParamName  []string
	Intrinsic  IntrinsicFunc // non-nil for a registered library function.

	// BodySrc/FileName hold the function body's raw source text ("{ ... }")
	// so a call re-lexes and re-interprets it fresh each time, the same
	// interpret-while-parsing contract PicoC implements by seeking the
	// shared token stream back to a saved position -- picoc-go's lexer
	// positions are per-Lexer rather than global, so the body is carried
	// as text instead of an offset (see MacroDef.Body for the same
	// reasoning applied to #define bodies).
	BodySrc  string
	FileName string

	VarArgs bool
}

// MacroDef mirrors Extern.h's MacroDef: object-like or function-like
// #define bodies. Lex.c stores the body as a token range to re-lex in
// place; picoc-go instead stores the raw replacement text and, on each
// expansion, splices it into the current Lexer's remaining source (see
// expandMacro), since macro bodies here can
// come from different source files (via #include) and a single shared
// token-position space would not survive that.
type MacroDef struct {
	ParamName      []string
	Body           string
	IsFunctionLike bool
}

// IntrinsicFunc is a library function implemented in Go rather than C,
// registered through IncludeRegister (SPEC_FULL §4.7/§6.4).
type IntrinsicFunc func(in *Interpreter, args []*Value) (*Value, error)

func (v *Value) isLValue() bool { return v != nil }

// resolveAlias follows LValueFrom chains to the storage cell assignments
// actually land on (VariableAllocValueShared's aliasing contract).
func (v *Value) resolveAlias() *Value {
	for v.LValueFrom != nil {
		v = v.LValueFrom
	}
	return v
}

// zeroValue builds a fresh, fully zero-initialized instance of vt: a
// declaration with no initializer gets real backing storage rather than a
// bare Value{Typ: vt} with a nil Array/Strct, the way VariableAllocValueAndData
// gives every new declaration its own zeroed memory in Var.c. Arrays get
// ArraySize zeroed elements (each itself zero-initialized, so arrays of
// structs work); structs/unions get one zero field per entry in their
// Members template table.
func zeroValue(vt *ValueType) *Value {
	switch vt.Base {
	case TypeArray:
		n := vt.ArraySize
		if n < 0 {
			n = 0
		}
		arr := make([]Value, n)
		for i := range arr {
			arr[i] = *zeroValue(vt.FromType)
		}
		return &Value{Typ: vt, Array: arr}
	case TypeStruct, TypeUnion:
		strct := make(map[string]*Value)
		if vt.Members != nil {
			vt.Members.Each(func(key string, tmpl *Value) {
				strct[key] = zeroValue(tmpl.Typ)
			})
		}
		return &Value{Typ: vt, Strct: strct}
	default:
		return &Value{Typ: vt}
	}
}

// AsInt64 coerces v to an integer for arithmetic/branching, applying the
// same integer-vs-FP dispatch ExpressionCoerceInteger uses in Exp.c.
func (v *Value) AsInt64() int64 {
	if v.Typ != nil && v.Typ.Base == TypeFP {
		return int64(v.FP)
	}
	if v.Typ != nil && v.Typ.Base == TypePointer {
		if v.Ptr == nil {
			return 0
		}
		return 1
	}
	return v.Int
}

// AsFloat64 coerces v to floating point, mirroring ExpressionCoerceFP.
func (v *Value) AsFloat64() float64 {
	if v.Typ != nil && v.Typ.Base == TypeFP {
		return v.FP
	}
	return float64(v.Int)
}

// Truthy implements C's "any nonzero value is true" rule used by if/while/
// for/ternary/&&/||.
func (v *Value) Truthy() bool {
	if v.Typ != nil && v.Typ.Base == TypeFP {
		return v.FP != 0
	}
	if v.Typ != nil && v.Typ.Base == TypePointer {
		return v.Ptr != nil
	}
	return v.Int != 0
}
