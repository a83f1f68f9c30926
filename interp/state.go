package interp

// ParseState is the parser/evaluator's working context, grounded on
// original_source/Extern.h's ParseState struct: the current lex position
// plus the RunMode state machine and goto/case search targets that make
// the single-pass interpret-while-parsing model work (SPEC_FULL §4.5).
type ParseState struct {
	in  *Interpreter
	lex *Lexer

	FileName     string
	Line         int
	CharacterPos int
	SourceText   string

	Mode            RunMode
	SearchLabel     string
	SearchGotoLabel string
	CaseValue       int64

	scope *Scope
	frame *Frame

	topLevel bool
}

func newParseState(in *Interpreter, lex *Lexer, scope *Scope) *ParseState {
	return &ParseState{in: in, lex: lex, scope: scope, SourceText: lex.src, FileName: lex.fileName, topLevel: true}
}

func (ps *ParseState) sync() {
	ps.Line = ps.lex.line
	ps.CharacterPos = ps.lex.col
	ps.FileName = ps.lex.fileName
}

func (ps *ParseState) currentSourceLine() string {
	return ps.lex.currentSourceLine()
}

func (ps *ParseState) errorf(format string, args ...interface{}) error {
	ps.sync()
	return newProgramError(ps, format, args...)
}

func (ps *ParseState) runtimeErrorf(format string, args ...interface{}) error {
	ps.sync()
	return newRuntimeError(ps, format, args...)
}

// peek/next wrap the lexer, syncing position bookkeeping used for errors.
func (ps *ParseState) peek() (TokenValue, error) {
	tv, err := ps.lex.Peek()
	ps.sync()
	return tv, err
}

func (ps *ParseState) next() (TokenValue, error) {
	tv, err := ps.lex.Next()
	ps.sync()
	return tv, err
}

func (ps *ParseState) expect(t Token, what string) (TokenValue, error) {
	tv, err := ps.next()
	if err != nil {
		return tv, err
	}
	if tv.Tok != t {
		return tv, ps.errorf("expected %s", what)
	}
	return tv, nil
}

// childScope pushes a new lexical scope for a block, the Go restatement
// of VariableScopeBegin.
func (ps *ParseState) childScope() *ParseState {
	child := *ps
	child.scope = newScope(ps.scope)
	return &child
}

// define declares key in the innermost scope if a frame is active,
// otherwise in the interpreter's global table (VariableDefine's
// local-vs-global dispatch in Var.c).
func (ps *ParseState) define(key string, val *Value) error {
	var ok bool
	if ps.frame != nil {
		ok = ps.scope.define(key, val, ps.FileName, ps.Line, ps.CharacterPos)
	} else {
		ok = ps.in.globals.Set(key, val, ps.FileName, ps.Line, ps.CharacterPos)
	}
	if !ok {
		return ps.errorf("'%s' is already defined", key)
	}
	return nil
}

// lookup resolves an identifier through the local scope chain, falling
// back to globals (VariableGet's local-then-global search order).
func (ps *ParseState) lookup(key string) (*Value, bool) {
	if ps.scope != nil {
		if v, ok := ps.scope.lookup(key); ok {
			return v, true
		}
	}
	if v, _, _, _, ok := ps.in.globals.Get(key); ok {
		return v, true
	}
	return nil, false
}
