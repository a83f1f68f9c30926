package interp

// Debugger implements the per-statement breakpoint hook named in §4.5's
// last bullet and §6.3's enable_debugger parameter, grounded on
// original_source/Debug.c's DebugCheckStatement: a set of file:line
// breakpoints plus an optional callback invoked before each statement
// executes under RunModeRun, so a host can single-step or inspect state
// without the interpreter itself growing any debugging UI.
type Debugger struct {
	enabled     bool
	breakpoints map[string]map[int]bool
	onStatement func(ps *ParseState) error
}

// EnableDebugger turns on the per-statement hook. onStatement, if non-nil,
// runs before every statement that is about to execute (Mode == RunModeRun);
// returning an error aborts interpretation the same way any other runtime
// error does.
func (in *Interpreter) EnableDebugger(onStatement func(ps *ParseState) error) {
	in.debugger = &Debugger{
		enabled:     true,
		breakpoints: make(map[string]map[int]bool),
		onStatement: onStatement,
	}
}

func (in *Interpreter) DisableDebugger() {
	in.debugger = nil
}

// SetBreakpoint arms a breakpoint at fileName:line (DebugSetBreakpoint).
func (in *Interpreter) SetBreakpoint(fileName string, line int) {
	if in.debugger == nil {
		in.EnableDebugger(nil)
	}
	lines, ok := in.debugger.breakpoints[fileName]
	if !ok {
		lines = make(map[int]bool)
		in.debugger.breakpoints[fileName] = lines
	}
	lines[line] = true
}

func (in *Interpreter) ClearBreakpoint(fileName string, line int) {
	if in.debugger == nil {
		return
	}
	delete(in.debugger.breakpoints[fileName], line)
}

// atBreakpoint reports whether ps currently sits on an armed breakpoint.
func (d *Debugger) atBreakpoint(ps *ParseState) bool {
	lines, ok := d.breakpoints[ps.FileName]
	return ok && lines[ps.Line]
}

// checkStatement is called from parseStatement immediately before a
// statement that will actually run is dispatched (DebugCheckStatement's
// hook point); it is a no-op unless a debugger has been installed.
func (ps *ParseState) checkStatement() error {
	d := ps.in.debugger
	if d == nil || !d.enabled || ps.Mode != RunModeRun {
		return nil
	}
	if d.onStatement == nil && !d.atBreakpoint(ps) {
		return nil
	}
	if d.onStatement != nil {
		return d.onStatement(ps)
	}
	return nil
}
