package interp

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

// LibraryFunction is one entry in a standard-library pack (SPEC_FULL §4.7),
// grounded on original_source/Lib.c's LibraryFunction table: a C-visible
// name bound to a Go implementation, registered into global scope the
// first time its header is #include-d.
type LibraryFunction struct {
	Name      string
	ParamType []*ValueType
	VarArgs   bool
	ReturnType *ValueType
	Fn        IntrinsicFunc
}

// Library is a named collection of functions plus optional C "setup
// source" executed once on first inclusion (mirroring Lib.c's per-header
// SetupFunc table, e.g. to define errno or NULL).
type Library struct {
	Header    string
	Functions []LibraryFunction
	Setup     string
}

// IncludeRegister adds a library pack to the interpreter's include table;
// #include <header> will wire its functions into global scope the first
// time that header name is seen. Mirrors IncludeRegister in Inc.c.
func (in *Interpreter) IncludeRegister(lib *Library) {
	in.libraries[lib.Header] = lib
}

func (in *Interpreter) includeFile(name string, system bool) error {
	if in.included[name] {
		return nil
	}
	in.included[name] = true

	if lib, ok := in.libraries[name]; ok {
		for _, fn := range lib.Functions {
			in.registerIntrinsic(fn)
		}
		if lib.Setup != "" {
			if _, err := in.evalSource("<"+name+">", lib.Setup); err != nil {
				return err
			}
		}
		return nil
	}

	if system {
		// Unknown system header: PicoC silently tolerates headers with no
		// registered pack (e.g. ones only needed for declarations already
		// covered by a sibling header). Mirrors IncludeFile's behavior of
		// not failing on a header with nothing to register.
		return nil
	}

	if in.opt.SourceFS == nil {
		return fmt.Errorf("#include %q: no source filesystem configured", name)
	}
	data, err := fs.ReadFile(in.opt.SourceFS, name)
	if err != nil {
		return fmt.Errorf("#include %q: %w", name, err)
	}
	_, err = in.evalSource(name, string(data))
	return err
}

func (in *Interpreter) registerIntrinsic(fn LibraryFunction) {
	v := &Value{
		Typ: in.types.Function,
		Fn: &FuncDef{
			ReturnType: fn.ReturnType,
			ParamType:  fn.ParamType,
			VarArgs:    fn.VarArgs,
			Intrinsic:  fn.Fn,
		},
	}
	in.globals.Set(in.intern.Register(fn.Name), v, "<library>", 0, 0)
}

// handleDefine implements ParseMacroDefinition/LexGetRawToken's #define
// handling: it reads the macro name, an optional parameter list, and the
// remainder of the logical line as the replacement text.
func (l *Lexer) handleDefine() error {
	l.skipHorizontalSpace()
	name, ok := l.readRawIdentifier()
	if !ok {
		return l.errorf("expected identifier after #define")
	}
	macro := &MacroDef{}
	if l.peekByte() == '(' {
		macro.IsFunctionLike = true
		l.advance()
		for {
			l.skipHorizontalSpace()
			if l.peekByte() == ')' {
				l.advance()
				break
			}
			p, ok := l.readRawIdentifier()
			if !ok {
				return l.errorf("malformed macro parameter list")
			}
			macro.ParamName = append(macro.ParamName, p)
			l.skipHorizontalSpace()
			if l.peekByte() == ',' {
				l.advance()
			}
		}
	}
	l.skipHorizontalSpace()
	start := l.pos
	for l.pos < len(l.src) && l.peekByte() != '\n' {
		if l.peekByte() == '\\' && l.peekByteAt(1) == '\n' {
			l.advance()
			l.advance()
			continue
		}
		l.advance()
	}
	macro.Body = strings.TrimSpace(l.src[start:l.pos])
	l.in.macros[l.in.intern.Register(name)] = macro
	return nil
}

func (l *Lexer) handleInclude() error {
	l.skipHorizontalSpace()
	c := l.peekByte()
	var closeCh byte
	system := false
	switch c {
	case '<':
		closeCh, system = '>', true
	case '"':
		closeCh = '"'
	default:
		return l.errorf("expected \"FILENAME\" or <FILENAME> after #include")
	}
	l.advance()
	start := l.pos
	for l.pos < len(l.src) && l.peekByte() != closeCh {
		l.advance()
	}
	if l.pos >= len(l.src) {
		return l.errorf("unterminated #include filename")
	}
	name := l.src[start:l.pos]
	l.advance()
	return l.in.includeFile(name, system)
}

// readRawIdentifier reads a bare identifier using byte-level scanning,
// bypassing the token scanner (used while parsing directive syntax that
// is not itself part of the token stream).
func (l *Lexer) readRawIdentifier() (string, bool) {
	if !isIdentStart(l.peekByte()) {
		return "", false
	}
	start := l.pos
	for l.pos < len(l.src) && isIdentCont(l.peekByte()) {
		l.advance()
	}
	return l.src[start:l.pos], true
}

func (l *Lexer) skipHorizontalSpace() {
	for l.peekByte() == ' ' || l.peekByte() == '\t' {
		l.advance()
	}
}

// evalHashIf implements LexHashIf/LexHashIfdef: #ifdef/#ifndef test macro
// existence by name; #if evaluates a restricted constant-integer
// expression (defined(), !, &&, ||, comparisons, + - * /, literals, and
// macro names, which expand to 0 if undefined -- the same substitution
// #if performs in standard C preprocessors).
func (l *Lexer) evalHashIf(tok Token) (bool, error) {
	l.skipHorizontalSpace()
	switch tok {
	case TokenHashIfdef, TokenHashIfndef:
		name, ok := l.readRawIdentifier()
		if !ok {
			return false, l.errorf("expected identifier after #ifdef/#ifndef")
		}
		_, defined := l.in.macros[l.in.intern.Register(name)]
		if tok == TokenHashIfndef {
			defined = !defined
		}
		return defined, nil
	default:
		start := l.pos
		for l.pos < len(l.src) && l.peekByte() != '\n' {
			l.advance()
		}
		expr := l.src[start:l.pos]
		v, err := evalPreprocExpr(l.in, expr)
		if err != nil {
			return false, l.errorf("%s", err)
		}
		return v != 0, nil
	}
}

// expandMacro substitutes an object-like or function-like macro at the
// lexer's current token (SPEC_FULL §4.6). Object-like bodies are re-lexed
// as if they appeared in place; function-like ones additionally bind
// argument text to parameter names by raw textual substitution, which is
// as far as PicoC's own macro layer goes (no token-pasting, no variadic
// macros, no nested nested nested nested expansion-order tiebreaking).
func (in *Interpreter) expandMacro(l *Lexer, macro *MacroDef) (bool, error) {
	body := macro.Body
	if macro.IsFunctionLike {
		l.skipSpaceAndComments()
		if l.peekByte() != '(' {
			return false, nil // used without call syntax: leave as identifier.
		}
		l.advance()
		var args []string
		for {
			l.skipSpaceAndComments()
			if l.peekByte() == ')' {
				l.advance()
				break
			}
			start := l.pos
			depth := 0
			for l.pos < len(l.src) {
				c := l.peekByte()
				if c == '(' {
					depth++
				} else if c == ')' {
					if depth == 0 {
						break
					}
					depth--
				} else if c == ',' && depth == 0 {
					break
				}
				l.advance()
			}
			args = append(args, strings.TrimSpace(l.src[start:l.pos]))
			if l.peekByte() == ',' {
				l.advance()
			} else {
				if l.peekByte() != ')' {
					return false, l.errorf("malformed macro invocation")
				}
				l.advance()
				break
			}
		}
		if len(args) != len(macro.ParamName) {
			return false, l.errorf("macro argument count mismatch")
		}
		body = substituteMacroParams(body, macro.ParamName, args)
	}
	// Splice the expansion in place of the macro invocation by prepending
	// it to the remaining source, padded with one space on each side so it
	// cannot join with the tokens around it.
	l.src = l.src[:l.pos] + " " + body + " " + l.src[l.pos:]
	return true, nil
}

func substituteMacroParams(body string, params, args []string) string {
	var sb strings.Builder
	i := 0
	for i < len(body) {
		if isIdentStart(body[i]) {
			j := i + 1
			for j < len(body) && isIdentCont(body[j]) {
				j++
			}
			word := body[i:j]
			replaced := false
			for k, p := range params {
				if p == word {
					sb.WriteString(args[k])
					replaced = true
					break
				}
			}
			if !replaced {
				sb.WriteString(word)
			}
			i = j
			continue
		}
		sb.WriteByte(body[i])
		i++
	}
	return sb.String()
}

// evalPreprocExpr evaluates a #if expression: a small, self-contained
// precedence-climbing evaluator over int64, distinct from the main
// expression evaluator in expr.go because #if runs before a ParseState
// or scope chain exists to evaluate against.
func evalPreprocExpr(in *Interpreter, src string) (int64, error) {
	p := &preprocParser{in: in, src: src}
	p.skipSpace()
	v, err := p.parseOr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return 0, fmt.Errorf("trailing tokens in #if expression")
	}
	return v, nil
}

type preprocParser struct {
	in  *Interpreter
	src string
	pos int
}

func (p *preprocParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *preprocParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *preprocParser) lit(s string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *preprocParser) parseOr() (int64, error) {
	v, err := p.parseAnd()
	if err != nil {
		return 0, err
	}
	for p.lit("||") {
		r, err := p.parseAnd()
		if err != nil {
			return 0, err
		}
		if v != 0 || r != 0 {
			v = 1
		} else {
			v = 0
		}
	}
	return v, nil
}

func (p *preprocParser) parseAnd() (int64, error) {
	v, err := p.parseCompare()
	if err != nil {
		return 0, err
	}
	for p.lit("&&") {
		r, err := p.parseCompare()
		if err != nil {
			return 0, err
		}
		if v != 0 && r != 0 {
			v = 1
		} else {
			v = 0
		}
	}
	return v, nil
}

func (p *preprocParser) parseCompare() (int64, error) {
	v, err := p.parseAdd()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.lit("=="):
			r, err := p.parseAdd()
			if err != nil {
				return 0, err
			}
			v = boolInt(v == r)
		case p.lit("!="):
			r, err := p.parseAdd()
			if err != nil {
				return 0, err
			}
			v = boolInt(v != r)
		case p.lit("<="):
			r, err := p.parseAdd()
			if err != nil {
				return 0, err
			}
			v = boolInt(v <= r)
		case p.lit(">="):
			r, err := p.parseAdd()
			if err != nil {
				return 0, err
			}
			v = boolInt(v >= r)
		case p.lit("<"):
			r, err := p.parseAdd()
			if err != nil {
				return 0, err
			}
			v = boolInt(v < r)
		case p.lit(">"):
			r, err := p.parseAdd()
			if err != nil {
				return 0, err
			}
			v = boolInt(v > r)
		default:
			return v, nil
		}
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (p *preprocParser) parseAdd() (int64, error) {
	v, err := p.parseMul()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.lit("+"):
			r, err := p.parseMul()
			if err != nil {
				return 0, err
			}
			v += r
		case p.lit("-"):
			r, err := p.parseMul()
			if err != nil {
				return 0, err
			}
			v -= r
		default:
			return v, nil
		}
	}
}

func (p *preprocParser) parseMul() (int64, error) {
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.lit("*"):
			r, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			v *= r
		case p.lit("/"):
			r, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if r == 0 {
				return 0, fmt.Errorf("division by zero in #if")
			}
			v /= r
		default:
			return v, nil
		}
	}
}

func (p *preprocParser) parseUnary() (int64, error) {
	p.skipSpace()
	if p.lit("!") {
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return boolInt(v == 0), nil
	}
	if p.lit("-") {
		v, err := p.parseUnary()
		return -v, err
	}
	return p.parsePrimary()
}

func (p *preprocParser) parsePrimary() (int64, error) {
	p.skipSpace()
	if p.lit("defined") {
		p.skipSpace()
		paren := p.lit("(")
		p.skipSpace()
		start := p.pos
		for p.pos < len(p.src) && isIdentCont(p.src[p.pos]) {
			p.pos++
		}
		name := p.src[start:p.pos]
		if paren {
			p.skipSpace()
			if !p.lit(")") {
				return 0, fmt.Errorf("expected ')' after defined(%s", name)
			}
		}
		_, ok := p.in.macros[p.in.intern.Register(name)]
		return boolInt(ok), nil
	}
	if p.lit("(") {
		v, err := p.parseOr()
		if err != nil {
			return 0, err
		}
		if !p.lit(")") {
			return 0, fmt.Errorf("expected ')'")
		}
		return v, nil
	}
	p.skipSpace()
	start := p.pos
	if start < len(p.src) && isDigit(p.src[start]) {
		for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == 'x' || isHexDigit(p.src[p.pos])) {
			p.pos++
		}
		n, err := strconv.ParseInt(p.src[start:p.pos], 0, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed integer in #if")
		}
		return n, nil
	}
	if start < len(p.src) && isIdentStart(p.src[start]) {
		for p.pos < len(p.src) && isIdentCont(p.src[p.pos]) {
			p.pos++
		}
		name := p.src[start:p.pos]
		if macro, ok := p.in.macros[p.in.intern.Register(name)]; ok && !macro.IsFunctionLike {
			// #if substitutes a defined object-like macro with its body
			// before evaluating, same as any other macro expansion site;
			// function-like macros used bare (no call syntax) fall through
			// to the "undefined identifiers evaluate to 0" rule below.
			return evalPreprocExpr(p.in, macro.Body)
		}
		// Undefined identifiers (and bare function-like macro names)
		// evaluate to 0, same as a standard preprocessor's #if
		// substitution rule.
		return 0, nil
	}
	return 0, fmt.Errorf("malformed #if expression")
}
