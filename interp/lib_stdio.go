package interp

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// registerStdioLibrary implements the stdio.h pack named in SPEC_FULL
// §4.7, grounded on original_source/Lib/stdio.c: formatted output goes
// through a small printf-style translator (formatPrintf) rather than a
// hand-rolled C varargs walk, and file handles are real *os.File values
// stashed on a Value's Any field (there being no C struct layout for
// FILE to reproduce).
func registerStdioLibrary(in *Interpreter) {
	ty := in.types
	lib := &Library{
		Header: "stdio.h",
		Functions: []LibraryFunction{
			{Name: "printf", VarArgs: true, ReturnType: ty.Int, Fn: libPrintf},
			{Name: "sprintf", VarArgs: true, ReturnType: ty.Int, Fn: libSprintf},
			{Name: "fprintf", VarArgs: true, ReturnType: ty.Int, Fn: libFprintf},
			{Name: "putchar", ParamType: []*ValueType{ty.Int}, ReturnType: ty.Int, Fn: libPutchar},
			{Name: "getchar", ReturnType: ty.Int, Fn: libGetchar},
			{Name: "puts", ParamType: []*ValueType{ty.CharPtr}, ReturnType: ty.Int, Fn: libPuts},
			{Name: "fopen", ParamType: []*ValueType{ty.CharPtr, ty.CharPtr}, ReturnType: ty.VoidPtr, Fn: libFopen},
			{Name: "fclose", ParamType: []*ValueType{ty.VoidPtr}, ReturnType: ty.Int, Fn: libFclose},
			{Name: "fread", ParamType: []*ValueType{ty.VoidPtr, ty.UnsignedLong, ty.UnsignedLong, ty.VoidPtr}, ReturnType: ty.UnsignedLong, Fn: libFread},
			{Name: "fwrite", ParamType: []*ValueType{ty.VoidPtr, ty.UnsignedLong, ty.UnsignedLong, ty.VoidPtr}, ReturnType: ty.UnsignedLong, Fn: libFwrite},
		},
	}
	in.IncludeRegister(lib)
}

// formatPrintf implements the printf family's format-directive scan: flags
// and width/precision are passed straight through to Go's fmt (which
// accepts the same syntax for numeric verbs), length modifiers (l, h, ll)
// are recognized and discarded since Go's fmt needs no int-width hint, and
// %s reads through cStringOf rather than a Go string argument.
func formatPrintf(format string, args []*Value) string {
	var sb strings.Builder
	ai := 0
	nextArg := func() *Value {
		if ai < len(args) {
			v := args[ai]
			ai++
			return v
		}
		return &Value{}
	}
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}
		start := i + 1
		p := start
		for p < len(format) && strings.ContainsRune("-+ 0#123456789.", rune(format[p])) {
			p++
		}
		flags := format[start:p]
		for p < len(format) && (format[p] == 'l' || format[p] == 'h') {
			p++
		}
		if p >= len(format) {
			break
		}
		verb := format[p]
		i = p
		switch verb {
		case '%':
			sb.WriteByte('%')
		case 'd', 'i':
			sb.WriteString(fmt.Sprintf("%"+flags+"d", nextArg().AsInt64()))
		case 'u':
			sb.WriteString(fmt.Sprintf("%"+flags+"d", uint64(nextArg().AsInt64())))
		case 'x':
			sb.WriteString(fmt.Sprintf("%"+flags+"x", nextArg().AsInt64()))
		case 'X':
			sb.WriteString(fmt.Sprintf("%"+flags+"X", nextArg().AsInt64()))
		case 'o':
			sb.WriteString(fmt.Sprintf("%"+flags+"o", nextArg().AsInt64()))
		case 'c':
			sb.WriteRune(rune(nextArg().AsInt64()))
		case 's':
			sb.WriteString(fmt.Sprintf("%"+flags+"s", cStringOf(nextArg())))
		case 'f', 'F':
			sb.WriteString(fmt.Sprintf("%"+flags+"f", nextArg().AsFloat64()))
		case 'g', 'G', 'e', 'E':
			sb.WriteString(fmt.Sprintf("%"+flags+string(verb), nextArg().AsFloat64()))
		case 'p':
			sb.WriteString(fmt.Sprintf("0x%x", ptrAddr(nextArg().Ptr)))
		default:
			sb.WriteByte('%')
			sb.WriteByte(verb)
		}
	}
	return sb.String()
}

func libPrintf(in *Interpreter, args []*Value) (*Value, error) {
	out := formatPrintf(cStringOf(args[0]), args[1:])
	n, _ := fmt.Fprint(in.opt.Stdout, out)
	return &Value{Typ: in.types.Int, Int: int64(n)}, nil
}

func libFprintf(in *Interpreter, args []*Value) (*Value, error) {
	w := streamOf(in, args[0])
	out := formatPrintf(cStringOf(args[1]), args[2:])
	n, _ := fmt.Fprint(w, out)
	return &Value{Typ: in.types.Int, Int: int64(n)}, nil
}

func libSprintf(in *Interpreter, args []*Value) (*Value, error) {
	out := formatPrintf(cStringOf(args[1]), args[2:])
	writeCString(args[0], out, in.types.Char)
	return &Value{Typ: in.types.Int, Int: int64(len(out))}, nil
}

func libPutchar(in *Interpreter, args []*Value) (*Value, error) {
	fmt.Fprintf(in.opt.Stdout, "%c", rune(args[0].AsInt64()))
	return args[0], nil
}

func libGetchar(in *Interpreter, args []*Value) (*Value, error) {
	r := bufio.NewReader(in.opt.Stdin)
	b, err := r.ReadByte()
	if err != nil {
		return &Value{Typ: in.types.Int, Int: -1}, nil
	}
	return &Value{Typ: in.types.Int, Int: int64(b)}, nil
}

func libPuts(in *Interpreter, args []*Value) (*Value, error) {
	fmt.Fprintln(in.opt.Stdout, cStringOf(args[0]))
	return &Value{Typ: in.types.Int, Int: 0}, nil
}

// streamOf resolves the stdio.h FILE* convention: a pointer whose pointee
// carries an *os.File in Any (as fopen returns) yields that file; any other
// value, NULL included, yields os.Stdout.
func streamOf(in *Interpreter, v *Value) *os.File {
	if v.Ptr != nil {
		if f, ok := v.Ptr.Any.(*os.File); ok {
			return f
		}
	}
	return os.Stdout
}

func libFopen(in *Interpreter, args []*Value) (*Value, error) {
	name := cStringOf(args[0])
	mode := cStringOf(args[1])
	var flag int
	switch {
	case strings.Contains(mode, "a"):
		flag = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	case strings.Contains(mode, "w"):
		flag = os.O_CREATE | os.O_TRUNC | os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(name, flag, 0644)
	if err != nil {
		return &Value{Typ: in.types.VoidPtr}, nil
	}
	handle := &Value{Typ: in.types.Void, Any: f}
	return &Value{Typ: in.types.VoidPtr, Ptr: handle}, nil
}

func libFclose(in *Interpreter, args []*Value) (*Value, error) {
	if args[0].Ptr != nil {
		if f, ok := args[0].Ptr.Any.(*os.File); ok {
			f.Close()
		}
	}
	return &Value{Typ: in.types.Int, Int: 0}, nil
}

func libFread(in *Interpreter, args []*Value) (*Value, error) {
	buf := args[0]
	size := args[1].AsInt64()
	count := args[2].AsInt64()
	f := streamOf(in, args[3])
	cells := cellsOf(buf)
	want := int(size * count)
	if want > len(cells) {
		want = len(cells)
	}
	raw := make([]byte, want)
	n, _ := f.Read(raw)
	for i := 0; i < n; i++ {
		cells[i] = Value{Typ: in.types.UnsignedChar, Int: int64(raw[i])}
	}
	if size == 0 {
		return &Value{Typ: in.types.UnsignedLong, Int: 0}, nil
	}
	return &Value{Typ: in.types.UnsignedLong, Int: int64(n) / size}, nil
}

func libFwrite(in *Interpreter, args []*Value) (*Value, error) {
	buf := args[0]
	size := args[1].AsInt64()
	count := args[2].AsInt64()
	f := streamOf(in, args[3])
	cells := cellsOf(buf)
	want := int(size * count)
	if want > len(cells) {
		want = len(cells)
	}
	raw := make([]byte, want)
	for i := 0; i < want; i++ {
		raw[i] = byte(cells[i].Int)
	}
	n, _ := f.Write(raw)
	if size == 0 {
		return &Value{Typ: in.types.UnsignedLong, Int: 0}, nil
	}
	return &Value{Typ: in.types.UnsignedLong, Int: int64(n) / size}, nil
}
