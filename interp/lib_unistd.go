package interp

import (
	"time"

	"golang.org/x/sys/unix"
)

// registerUnistdLibrary implements the unistd.h pack (SPEC_FULL §4.7),
// grounded on original_source/Lib/unistd.c but backed by real syscalls via
// golang.org/x/sys/unix rather than a simulated filesystem. read, write and
// close reach the host's file descriptors, the surface yaegi's own
// sandboxing gate (Options.Unrestricted, mirroring yaegi's os/exec gating)
// exists to protect: they fail unless the embedder opts in. getpid, sleep,
// usleep and isatty run without that check.
func registerUnistdLibrary(in *Interpreter) {
	ty := in.types
	lib := &Library{
		Header: "unistd.h",
		Functions: []LibraryFunction{
			{Name: "read", ParamType: []*ValueType{ty.Int, ty.VoidPtr, ty.UnsignedLong}, ReturnType: ty.Long, Fn: libRead},
			{Name: "write", ParamType: []*ValueType{ty.Int, ty.VoidPtr, ty.UnsignedLong}, ReturnType: ty.Long, Fn: libWrite},
			{Name: "close", ParamType: []*ValueType{ty.Int}, ReturnType: ty.Int, Fn: libClose},
			{Name: "getpid", ReturnType: ty.Int, Fn: libGetpid},
			{Name: "sleep", ParamType: []*ValueType{ty.UnsignedInt}, ReturnType: ty.UnsignedInt, Fn: libSleep},
			{Name: "usleep", ParamType: []*ValueType{ty.UnsignedLong}, ReturnType: ty.Int, Fn: libUsleep},
			{Name: "isatty", ParamType: []*ValueType{ty.Int}, ReturnType: ty.Int, Fn: libIsatty},
		},
	}
	in.IncludeRegister(lib)
}

func requireUnrestricted(in *Interpreter) error {
	if !in.opt.Unrestricted {
		return &RuntimeError{&ProgramError{Message: "unistd: operation requires Options.Unrestricted"}}
	}
	return nil
}

func libRead(in *Interpreter, args []*Value) (*Value, error) {
	if err := requireUnrestricted(in); err != nil {
		return nil, err
	}
	fd := int(args[0].AsInt64())
	cells := cellsOf(args[1])
	n := int(args[2].AsInt64())
	if n > len(cells) {
		n = len(cells)
	}
	buf := make([]byte, n)
	got, err := unix.Read(fd, buf)
	if err != nil {
		setErrno(in, int64(err.(unix.Errno)))
		return &Value{Typ: in.types.Long, Int: -1}, nil
	}
	for i := 0; i < got; i++ {
		cells[i] = Value{Typ: in.types.UnsignedChar, Int: int64(buf[i])}
	}
	return &Value{Typ: in.types.Long, Int: int64(got)}, nil
}

func libWrite(in *Interpreter, args []*Value) (*Value, error) {
	if err := requireUnrestricted(in); err != nil {
		return nil, err
	}
	fd := int(args[0].AsInt64())
	cells := cellsOf(args[1])
	n := int(args[2].AsInt64())
	if n > len(cells) {
		n = len(cells)
	}
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = byte(cells[i].Int)
	}
	wrote, err := unix.Write(fd, buf)
	if err != nil {
		if errno, ok := err.(unix.Errno); ok {
			setErrno(in, int64(errno))
		}
		return &Value{Typ: in.types.Long, Int: -1}, nil
	}
	return &Value{Typ: in.types.Long, Int: int64(wrote)}, nil
}

func libClose(in *Interpreter, args []*Value) (*Value, error) {
	if err := requireUnrestricted(in); err != nil {
		return nil, err
	}
	fd := int(args[0].AsInt64())
	if err := unix.Close(fd); err != nil {
		return &Value{Typ: in.types.Int, Int: -1}, nil
	}
	return &Value{Typ: in.types.Int, Int: 0}, nil
}

func libGetpid(in *Interpreter, args []*Value) (*Value, error) {
	return &Value{Typ: in.types.Int, Int: int64(unix.Getpid())}, nil
}

func libSleep(in *Interpreter, args []*Value) (*Value, error) {
	time.Sleep(time.Duration(args[0].AsInt64()) * time.Second)
	return &Value{Typ: in.types.UnsignedInt, Int: 0}, nil
}

func libUsleep(in *Interpreter, args []*Value) (*Value, error) {
	time.Sleep(time.Duration(args[0].AsInt64()) * time.Microsecond)
	return &Value{Typ: in.types.Int, Int: 0}, nil
}

func libIsatty(in *Interpreter, args []*Value) (*Value, error) {
	fd := int(args[0].AsInt64())
	_, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return &Value{Typ: in.types.Int, Int: 0}, nil
	}
	return &Value{Typ: in.types.Int, Int: 1}, nil
}
