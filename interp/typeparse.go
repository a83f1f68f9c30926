package interp

// Type parsing, grounded on original_source/Type.c's TypeParseFront /
// TypeParseBack / TypeParseIdentPart / TypeParse. picoc-go splits the
// same three phases into Go methods: a base-type specifier parse, a
// pointer/array declarator parse, and (for full declarations in stmt.go)
// the declared identifier in between.

func isTypeStartToken(ps *ParseState, tv TokenValue) bool {
	switch tv.Tok {
	case TokenIntType, TokenCharType, TokenShortType, TokenLongType,
		TokenFloatType, TokenDoubleType, TokenVoidType,
		TokenSignedType, TokenUnsignedType,
		TokenStructType, TokenUnionType, TokenEnumType, TokenConst:
		return true
	case TokenIdentifier:
		_, ok := ps.in.typedefs[tv.Ident]
		return ok
	}
	return false
}

// parseTypeSpecifier consumes the base-type portion of a declaration
// (TypeParseFront): storage-class/qualifier keywords, signed/unsigned,
// struct/union/enum bodies or tags, or a typedef name. Every storage-class
// keyword except `static` is pure noise to this interpreter (no separate
// compilation means `extern`/linkage has nothing to refer to, and `auto`/
// `register` are hints a tree-walking evaluator has no use for); `static`
// is kept in isStatic since it is the one storage-class keyword SPEC_FULL
// §6.1 says changes actual runtime semantics for a local declaration.
func (ps *ParseState) parseTypeSpecifier() (*ValueType, bool, error) {
	ty := ps.in.types
	unsigned := false
	sawUnsigned := false
	isStatic := false

	for {
		tv, err := ps.peek()
		if err != nil {
			return nil, false, err
		}
		switch tv.Tok {
		case TokenStatic:
			ps.next()
			isStatic = true
			continue
		case TokenAuto, TokenRegister, TokenExtern, TokenConst:
			ps.next()
			continue
		case TokenUnsignedType:
			ps.next()
			unsigned, sawUnsigned = true, true
			continue
		case TokenSignedType:
			ps.next()
			sawUnsigned = true
			continue
		}
		break
	}

	tv, err := ps.next()
	if err != nil {
		return nil, false, err
	}

	switch tv.Tok {
	case TokenVoidType:
		return ty.Void, isStatic, nil
	case TokenCharType:
		if unsigned {
			return ty.UnsignedChar, isStatic, nil
		}
		return ty.Char, isStatic, nil
	case TokenShortType:
		if unsigned {
			return ty.UnsignedShort, isStatic, nil
		}
		return ty.Short, isStatic, nil
	case TokenLongType:
		if unsigned {
			return ty.UnsignedLong, isStatic, nil
		}
		return ty.Long, isStatic, nil
	case TokenIntType:
		if unsigned {
			return ty.UnsignedInt, isStatic, nil
		}
		return ty.Int, isStatic, nil
	case TokenFloatType, TokenDoubleType:
		return ty.FP, isStatic, nil
	case TokenStructType, TokenUnionType:
		vt, err := ps.parseStructOrUnion(tv.Tok == TokenUnionType)
		return vt, isStatic, err
	case TokenEnumType:
		vt, err := ps.parseEnum()
		return vt, isStatic, err
	case TokenIdentifier:
		if vt, ok := ps.in.typedefs[tv.Ident]; ok {
			return vt, isStatic, nil
		}
		return nil, false, ps.errorf("'%s' is not a type name", tv.Ident)
	}

	if sawUnsigned {
		if unsigned {
			return ty.UnsignedInt, isStatic, nil
		}
		return ty.Int, isStatic, nil
	}
	return nil, false, ps.errorf("expected a type specifier")
}

// parseDeclaratorTail consumes pointer stars and array brackets around a
// base type (TypeParseBack/TypeParseIdentPart), returning the resulting
// type and, if present, the declared identifier name (empty for abstract
// declarators used in casts and sizeof).
func (ps *ParseState) parseDeclaratorTail(base *ValueType, wantIdent bool) (*ValueType, string, error) {
	vt := base
	for {
		tv, err := ps.peek()
		if err != nil {
			return nil, "", err
		}
		if tv.Tok != TokenAsterisk {
			break
		}
		ps.next()
		vt = ps.in.types.PointerTo(vt)
	}

	name := ""
	if wantIdent {
		tv, err := ps.peek()
		if err != nil {
			return nil, "", err
		}
		if tv.Tok == TokenIdentifier {
			ps.next()
			name = tv.Ident
		}
	}

	for {
		tv, err := ps.peek()
		if err != nil {
			return nil, "", err
		}
		if tv.Tok != TokenLeftSquare {
			break
		}
		ps.next()
		size := -1
		tv2, err := ps.peek()
		if err != nil {
			return nil, "", err
		}
		if tv2.Tok != TokenRightSquare {
			szVal, err := ps.parseAssign()
			if err != nil {
				return nil, "", err
			}
			size = int(szVal.AsInt64())
		}
		if _, err := ps.expect(TokenRightSquare, "']'"); err != nil {
			return nil, "", err
		}
		vt = ps.in.types.ArrayOf(vt, size)
	}

	return vt, name, nil
}

// parseTypeName parses an abstract type (no identifier), as used by
// sizeof(T) and (T)expr casts.
func (ps *ParseState) parseTypeName() (*ValueType, error) {
	base, _, err := ps.parseTypeSpecifier()
	if err != nil {
		return nil, err
	}
	vt, _, err := ps.parseDeclaratorTail(base, false)
	return vt, err
}

// roundUp returns n rounded up to the next multiple of align (align must
// be a positive power of two, true of every Sizeof/AlignBytes this
// interpreter hands out).
func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// parseStructOrUnion implements TypeParseStruct: a tag, an optional
// member-list body, or both. Each member still lands at a byte offset
// rounded up to its own alignment, and the whole struct/union's size is
// rounded up to the widest member's alignment (invariant T2), even though
// picoc-go represents struct/union instances as name-keyed maps rather
// than a flat byte buffer -- no code ever addresses a member by its
// computed offset, only by name through vt.Members, but Sizeof/AlignBytes
// themselves are still observable through sizeof() and must satisfy T2
// for any guest program that checks it.
func (ps *ParseState) parseStructOrUnion(isUnion bool) (*ValueType, error) {
	base := TypeStruct
	if isUnion {
		base = TypeUnion
	}
	tv, err := ps.peek()
	if err != nil {
		return nil, err
	}
	tag := ""
	if tv.Tok == TokenIdentifier {
		ps.next()
		tag = tv.Ident
	}

	tv, err = ps.peek()
	if err != nil {
		return nil, err
	}
	if tv.Tok != TokenLeftBrace {
		if tag == "" {
			return nil, ps.errorf("expected struct/union tag or body")
		}
		if vt, ok := ps.in.tags[tag]; ok {
			return vt, nil
		}
		vt := ps.in.types.GetMatching(ps.in.types.Uber, base, 0, tag)
		vt.Members = newTable()
		ps.in.tags[tag] = vt
		return vt, nil
	}

	ps.next() // '{'
	vt := ps.in.types.GetMatching(ps.in.types.Uber, base, 0, tag)
	vt.Members = newTable()
	offset := 0
	size := 0
	maxAlign := 1
	for {
		tv, err := ps.peek()
		if err != nil {
			return nil, err
		}
		if tv.Tok == TokenRightBrace {
			ps.next()
			break
		}
		memberBase, _, err := ps.parseTypeSpecifier()
		if err != nil {
			return nil, err
		}
		for {
			memberType, memberName, err := ps.parseDeclaratorTail(memberBase, true)
			if err != nil {
				return nil, err
			}
			if memberName == "" {
				return nil, ps.errorf("expected member name")
			}
			mv := &Value{Typ: memberType}
			vt.Members.Set(ps.in.intern.Register(memberName), mv, ps.FileName, ps.Line, ps.CharacterPos)
			align := memberType.AlignBytes
			if align < 1 {
				align = 1
			}
			if align > maxAlign {
				maxAlign = align
			}
			if isUnion {
				if memberType.Sizeof > size {
					size = memberType.Sizeof
				}
			} else {
				offset = roundUp(offset, align) + memberType.Sizeof
			}
			tv, err := ps.peek()
			if err != nil {
				return nil, err
			}
			if tv.Tok == TokenComma {
				ps.next()
				continue
			}
			break
		}
		if _, err := ps.expect(TokenSemicolon, "';'"); err != nil {
			return nil, err
		}
	}
	if isUnion {
		vt.Sizeof = roundUp(size, maxAlign)
	} else {
		vt.Sizeof = roundUp(offset, maxAlign)
	}
	vt.AlignBytes = maxAlign
	if tag != "" {
		ps.in.tags[tag] = vt
	}
	return vt, nil
}

// parseEnum implements TypeParseEnum: a tag plus `{ NAME [= N], ... }`,
// with successive unspecified values one greater than the last.
func (ps *ParseState) parseEnum() (*ValueType, error) {
	tv, err := ps.peek()
	if err != nil {
		return nil, err
	}
	tag := ""
	if tv.Tok == TokenIdentifier {
		ps.next()
		tag = tv.Ident
	}
	vt := ps.in.types.GetMatching(ps.in.types.Uber, TypeEnum, 0, tag)

	tv, err = ps.peek()
	if err != nil {
		return nil, err
	}
	if tv.Tok != TokenLeftBrace {
		if vt2, ok := ps.in.tags[tag]; ok {
			return vt2, nil
		}
		return vt, nil
	}
	ps.next()
	next := int64(0)
	for {
		tv, err := ps.next()
		if err != nil {
			return nil, err
		}
		if tv.Tok == TokenRightBrace {
			break
		}
		if tv.Tok != TokenIdentifier {
			return nil, ps.errorf("expected enum constant name")
		}
		val := next
		peeked, err := ps.peek()
		if err != nil {
			return nil, err
		}
		if peeked.Tok == TokenAssign {
			ps.next()
			v, err := ps.parseAssign()
			if err != nil {
				return nil, err
			}
			val = v.AsInt64()
		}
		next = val + 1
		if err := ps.define(ps.in.intern.Register(tv.Ident), &Value{Typ: vt, Int: val}); err != nil {
			return nil, err
		}
		peeked, err = ps.peek()
		if err != nil {
			return nil, err
		}
		if peeked.Tok == TokenComma {
			ps.next()
			continue
		}
	}
	if tag != "" {
		ps.in.tags[tag] = vt
	}
	return vt, nil
}
