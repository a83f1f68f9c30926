package interp

// parsePrimary handles literals, parenthesized sub-expressions, and
// identifier references -- the base case the precedence-climbing chain
// in expr.go bottoms out at.
func (ps *ParseState) parsePrimary() (*Value, error) {
	tv, err := ps.next()
	if err != nil {
		return nil, err
	}
	switch tv.Tok {
	case TokenIntValue:
		vt := ps.in.types.Int
		if tv.IsUnsigned && tv.IsLong {
			vt = ps.in.types.UnsignedLong
		} else if tv.IsUnsigned {
			vt = ps.in.types.UnsignedInt
		} else if tv.IsLong {
			vt = ps.in.types.Long
		}
		return &Value{Typ: vt, Int: tv.Int}, nil
	case TokenFPValue:
		return &Value{Typ: ps.in.types.FP, FP: tv.FP}, nil
	case TokenStringLiteral:
		runes := []rune(tv.Str)
		arr := make([]Value, len(runes)+1)
		for i, r := range runes {
			arr[i] = Value{Typ: ps.in.types.Char, Int: int64(r)}
		}
		return &Value{Typ: ps.in.types.ArrayOf(ps.in.types.Char, len(arr)), Array: arr}, nil
	case TokenIdentifier:
		v, ok := ps.lookup(tv.Ident)
		if !ok {
			return nil, ps.errorf("'%s' is undefined", tv.Ident)
		}
		return v, nil
	case TokenLeftParen:
		v, err := ps.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := ps.expect(TokenRightParen, "')'"); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, ps.errorf("expected an expression, found %v", tv.Tok)
}

// tryParseCastType speculatively parses `( type-name )`, restoring the
// lexer to its original position if what follows '(' is not a type --
// the Go equivalent of Exp.c peeking at the token after '(' before
// deciding whether it is looking at a cast or a parenthesized expression.
func (ps *ParseState) tryParseCastType() (*ValueType, bool) {
	snap := ps.lex.save()
	if _, err := ps.next(); err != nil { // '('
		ps.lex.restore(snap)
		return nil, false
	}
	tv, err := ps.peek()
	if err != nil || !isTypeStartToken(ps, tv) {
		ps.lex.restore(snap)
		return nil, false
	}
	vt, err := ps.parseTypeName()
	if err != nil {
		ps.lex.restore(snap)
		return nil, false
	}
	closeTok, err := ps.peek()
	if err != nil || closeTok.Tok != TokenRightParen {
		ps.lex.restore(snap)
		return nil, false
	}
	ps.next() // ')'
	return vt, true
}
