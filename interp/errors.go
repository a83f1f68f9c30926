package interp

import "fmt"

// ProgramError is the fatal diagnostic raised by the parser and evaluator.
// It replaces PicoC's ProgramFail/longjmp pair: instead of unwinding via a
// non-local jump, it is constructed once at the failure site and returned
// as an ordinary Go error all the way up to Eval/EvalPath/REPL.
type ProgramError struct {
	FileName   string
	Line       int
	Col        int
	SourceLine string
	Message    string
}

func (e *ProgramError) Error() string {
	if e.SourceLine == "" {
		return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Message)
	}
	caret := make([]byte, 0, e.Col+1)
	for i := 0; i < e.Col-1; i++ {
		if i < len(e.SourceLine) && e.SourceLine[i] == '\t' {
			caret = append(caret, '\t')
		} else {
			caret = append(caret, ' ')
		}
	}
	caret = append(caret, '^')
	return fmt.Sprintf("%s\n%s\n%s:%d:%d: %s", e.SourceLine, caret, e.FileName, e.Line, e.Col, e.Message)
}

// RuntimeError is raised while a program is executing (as opposed to while
// it is being parsed); it carries the same payload as ProgramError but is
// kept distinct so callers can tell parse failures from execution failures.
type RuntimeError struct {
	*ProgramError
}

func newProgramError(ps *ParseState, format string, args ...interface{}) *ProgramError {
	line := ""
	if ps != nil {
		line = ps.currentSourceLine()
	}
	e := &ProgramError{Message: fmt.Sprintf(format, args...)}
	if ps != nil {
		e.FileName = ps.FileName
		e.Line = ps.Line
		e.Col = ps.CharacterPos
	}
	e.SourceLine = line
	return e
}

func newRuntimeError(ps *ParseState, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{newProgramError(ps, format, args...)}
}
