package interp

import "strconv"

// registerStdlibLibrary implements the stdlib.h pack (SPEC_FULL §4.7),
// grounded on original_source/Lib/stdlib.c. malloc/realloc allocate guest
// memory as owner-tagged Value slices (the same representation the arena
// heap and array indexing already use) rather than raw arena bytes, since
// nothing in picoc-go ever reinterprets a byte blob as a typed struct the
// way the C allocator's caller can -- but the allocation is still registered
// with Arena.AllocMem/FreeMem (HeapAllocMem/HeapFreeMem in the original) so
// the bucketed-freelist accounting the arena exists to model (A2/A3) is
// actually exercised by a guest malloc/free rather than only by the
// per-call StackMark/PopStack cleanup in callFunction.
func registerStdlibLibrary(in *Interpreter) {
	ty := in.types
	lib := &Library{
		Header: "stdlib.h",
		Functions: []LibraryFunction{
			{Name: "malloc", ParamType: []*ValueType{ty.UnsignedLong}, ReturnType: ty.VoidPtr, Fn: libMalloc},
			{Name: "free", ParamType: []*ValueType{ty.VoidPtr}, ReturnType: ty.Void, Fn: libFree},
			{Name: "realloc", ParamType: []*ValueType{ty.VoidPtr, ty.UnsignedLong}, ReturnType: ty.VoidPtr, Fn: libRealloc},
			{Name: "atoi", ParamType: []*ValueType{ty.CharPtr}, ReturnType: ty.Int, Fn: libAtoi},
			{Name: "atof", ParamType: []*ValueType{ty.CharPtr}, ReturnType: ty.FP, Fn: libAtof},
			{Name: "exit", ParamType: []*ValueType{ty.Int}, ReturnType: ty.Void, Fn: libExit},
			{Name: "rand", ReturnType: ty.Int, Fn: libRand},
			{Name: "srand", ParamType: []*ValueType{ty.UnsignedInt}, ReturnType: ty.Void, Fn: libSrand},
		},
	}
	in.IncludeRegister(lib)
}

// allocCells builds an owner-tagged Value slice of n bytes and registers it
// with the arena's heap region, returning a VoidPtr whose pointee cell is
// both the slice's owner (for pointer arithmetic/cellsOf) and the arena
// handle's holder (for free/realloc to release it again).
func allocCells(in *Interpreter, n int) *Value {
	if n <= 0 {
		return &Value{Typ: in.types.VoidPtr}
	}
	arr := make([]Value, n)
	for i := range arr {
		arr[i] = Value{Typ: in.types.UnsignedChar}
	}
	cell := &arr[0]
	cell.owner, cell.ownerIdx = arr, 0
	cell.OnHeap = true
	cell.heapHandle = in.arena.AllocMem(arr, n)
	return &Value{Typ: in.types.VoidPtr, Ptr: cell}
}

func libMalloc(in *Interpreter, args []*Value) (*Value, error) {
	return allocCells(in, int(args[0].AsInt64())), nil
}

// freeHeapCell releases p's arena handle, if p is a still-live head cell of
// a malloc/realloc allocation. Freeing NULL, a non-heap pointer (e.g. &x of
// a local), or an already-freed cell is a silent no-op, matching HeapFreeMem
// -- and realloc's own free-then-reallocate step relies on this being safe
// to call on a cell it is about to discard.
func freeHeapCell(in *Interpreter, p *Value) {
	if p != nil && p.OnHeap {
		in.arena.FreeMem(p.heapHandle)
		p.OnHeap = false
	}
}

func libFree(in *Interpreter, args []*Value) (*Value, error) {
	freeHeapCell(in, args[0].Ptr)
	return &Value{Typ: in.types.Void}, nil
}

func libRealloc(in *Interpreter, args []*Value) (*Value, error) {
	newSize := int(args[1].AsInt64())
	out := allocCells(in, newSize)
	old := cellsOf(args[0])
	dst := cellsOf(out)
	for i := 0; i < len(old) && i < len(dst); i++ {
		owner, ownerIdx, synthAddr := dst[i].owner, dst[i].ownerIdx, dst[i].synthAddr
		onHeap, heapHandle := dst[i].OnHeap, dst[i].heapHandle
		dst[i] = old[i]
		dst[i].owner, dst[i].ownerIdx, dst[i].synthAddr = owner, ownerIdx, synthAddr
		dst[i].OnHeap, dst[i].heapHandle = onHeap, heapHandle
	}
	freeHeapCell(in, args[0].Ptr)
	return out, nil
}

func libAtoi(in *Interpreter, args []*Value) (*Value, error) {
	n, _ := strconv.Atoi(cStringOf(args[0]))
	return &Value{Typ: in.types.Int, Int: int64(n)}, nil
}

func libAtof(in *Interpreter, args []*Value) (*Value, error) {
	f, _ := strconv.ParseFloat(cStringOf(args[0]), 64)
	return &Value{Typ: in.types.FP, FP: f}, nil
}

func libExit(in *Interpreter, args []*Value) (*Value, error) {
	return nil, &ExitError{Code: int(args[0].AsInt64())}
}

func libRand(in *Interpreter, args []*Value) (*Value, error) {
	return &Value{Typ: in.types.Int, Int: int64(in.rng.Int31())}, nil
}

func libSrand(in *Interpreter, args []*Value) (*Value, error) {
	in.rng.Seed(args[0].AsInt64())
	return &Value{Typ: in.types.Void}, nil
}
