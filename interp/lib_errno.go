package interp

// registerErrnoLibrary implements the errno.h pack (SPEC_FULL §4.7),
// grounded on original_source/Lib/errno.c: a single `errno` global plus
// the handful of named codes PicoC's own errno.c defines, set by
// unistd.h's syscalls through setErrno.
func registerErrnoLibrary(in *Interpreter) {
	lib := &Library{
		Header: "errno.h",
		Setup:  "int errno; enum { EPERM = 1, ENOENT = 2, EIO = 5, EAGAIN = 11, EACCES = 13, EEXIST = 17, EINVAL = 22 };",
	}
	in.IncludeRegister(lib)
}

// setErrno writes code into the guest `errno` global, a no-op if errno.h
// has not been #include-d yet (mirrors real libc: nothing reads errno
// before including the header that declares it).
func setErrno(in *Interpreter, code int64) {
	if v, _, _, _, ok := in.globals.Get(in.intern.Register("errno")); ok {
		v.Int = code
	}
}
