package parser

import (
	"strconv"

	"github.com/tqscript/tqscript/internal/ast"
	"github.com/tqscript/tqscript/internal/lexer"
)

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseInt(tok.Literal, 10, 32)
	if err != nil {
		p.errorf(tok.Pos, "invalid integer literal %q", tok.Literal)
		return nil
	}
	return &ast.IntegerLiteral{Token: tok, Value: int32(v)}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseFloat(tok.Literal, 32)
	if err != nil {
		p.errorf(tok.Pos, "invalid float literal %q", tok.Literal)
		return nil
	}
	return &ast.FloatLiteral{Token: tok, Value: float32(v)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseTaggedStringLiteral() ast.Expression {
	return &ast.TaggedStringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseVarReference() ast.Expression {
	tok := p.curToken
	kind := ast.LocalVar
	if tok.Type == lexer.GLOBALVAR {
		kind = ast.GlobalVar
	}
	ref := &ast.VarReference{Token: tok, Kind: kind, Name: tok.Literal}
	if p.peekIs(lexer.LBRACKET) {
		p.nextToken()
		return p.finishArrayAccess(ref)
	}
	return ref
}

func (p *Parser) finishArrayAccess(target *ast.VarReference) ast.Expression {
	tok := p.curToken // LBRACKET
	indices := p.parseExpressionList(lexer.RBRACKET)
	return &ast.ArrayAccess{Token: tok, Target: target, Indices: indices}
}

// parseArrayAccessInfix handles `[` appearing as an infix op on something
// already parsed as a plain expression (defensive: VarReference's own
// prefix fn normally consumes it first).
func (p *Parser) parseArrayAccessInfix(left ast.Expression) ast.Expression {
	if ref, ok := left.(*ast.VarReference); ok {
		return p.finishArrayAccess(ref)
	}
	p.errorf(p.curToken.Pos, "array indexing is only supported on %%local/$global references")
	p.parseExpressionList(lexer.RBRACKET)
	return left
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return list
	}
	return list
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.curToken
	op := ast.OpNegate
	if tok.Type == lexer.NOT {
		op = ast.OpNot
	}
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	return &ast.UnaryExpression{Token: tok, Operator: op, Operand: operand}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return expr
}

var binaryOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.PLUS:  ast.OpAdd,
	lexer.MINUS: ast.OpSub,
	lexer.STAR:  ast.OpMul,
	lexer.SLASH: ast.OpDiv,
	lexer.MOD:   ast.OpMod,
	lexer.PIPE:  ast.OpBitwiseOr,
	lexer.AND:   ast.OpAnd,
	lexer.OR:    ast.OpOr,
	lexer.EQ:    ast.OpEquals,
	lexer.NE:    ast.OpNotEquals,
	lexer.STREQ: ast.OpStringEquals,
	lexer.STRNE: ast.OpStringNotEquals,
	lexer.LT:    ast.OpLessThan,
	lexer.GT:    ast.OpGreaterThan,
	lexer.GE:    ast.OpGreaterThanOrEqual,
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := binaryOps[tok.Type]
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{Token: tok, Left: left, Operator: op, Right: right}
}

var concatKinds = map[lexer.TokenType]ast.ConcatKind{
	lexer.SPC: ast.ConcatSpace,
	lexer.TAB: ast.ConcatTab,
	lexer.NL:  ast.ConcatNewline,
	lexer.AT:  ast.ConcatNone,
}

func (p *Parser) parseConcatExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	kind := concatKinds[tok.Type]
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.ConcatExpression{Token: tok, Left: left, Right: right, Kind: kind}
}

func (p *Parser) parseTernaryExpression(cond ast.Expression) ast.Expression {
	tok := p.curToken // QUESTION
	p.nextToken()
	ifTrue := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	ifFalse := p.parseExpression(TERNARY - 1)
	return &ast.TernaryExpression{Token: tok, Condition: cond, IfTrue: ifTrue, IfFalse: ifFalse}
}

func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Literal
	p.nextToken()
	value := p.parseExpression(ASSIGN - 1)
	return &ast.AssignExpression{Token: tok, Target: left, Operator: op, Value: value}
}

func (p *Parser) parseIncrementInfix(left ast.Expression) ast.Expression {
	return &ast.IncrementExpression{Token: p.curToken, Operand: left, Delta: 1}
}

// parseSubreferenceInfix handles `.name`, optional `[indices]`, and a
// trailing call `(args)` which turns the whole chain into a bound call.
func (p *Parser) parseSubreferenceInfix(left ast.Expression) ast.Expression {
	tok := p.curToken // DOT
	if !p.expectPeek(lexer.IDENT) {
		return left
	}
	name := p.curToken.Literal

	var indices []ast.Expression
	if p.peekIs(lexer.LBRACKET) {
		p.nextToken()
		indices = p.parseExpressionList(lexer.RBRACKET)
	}

	if p.peekIs(lexer.LPAREN) {
		p.nextToken()
		args := p.parseExpressionList(lexer.RPAREN)
		return &ast.BoundFunctionCall{Token: tok, Target: left, Name: name, Args: args}
	}

	return &ast.Subreference{Token: tok, Left: left, Name: name, Indices: indices}
}

// parseIdentifierCall handles bare `f(args)`, qualified `NS::f(args)`, and
// `parent::f(args)`. An unqualified identifier with no call parens is a
// bare name constant (the usual way a named console object is referenced,
// as in `Sword.damage`); it evaluates to its own text.
func (p *Parser) parseIdentifierCall() ast.Expression {
	tok := p.curToken
	namespace := ""
	name := tok.Literal

	if p.peekIs(lexer.DOUBLECOLON) {
		namespace = name
		p.nextToken() // consume '::'
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		name = p.curToken.Literal
	}

	if namespace == "" && !p.peekIs(lexer.LPAREN) {
		return &ast.TypeNameExpr{Token: tok, Name: name}
	}

	if !p.expectPeek(lexer.LPAREN) {
		p.errorf(tok.Pos, "expected a call after qualified name %s::%s", namespace, name)
		return nil
	}
	args := p.parseExpressionList(lexer.RPAREN)
	return &ast.FunctionCall{Token: tok, Namespace: namespace, Name: name, Args: args}
}
