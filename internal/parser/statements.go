package parser

import (
	"github.com/tqscript/tqscript/internal/ast"
	"github.com/tqscript/tqscript/internal/lexer"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		p.skipSemi()
		return stmt
	case lexer.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		p.skipSemi()
		return stmt
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.NEW:
		tok := p.curToken
		expr := p.parseObjectDeclaration()
		p.skipSemi()
		if decl, ok := expr.(*ast.ObjectDeclaration); ok {
			return decl
		}
		return &ast.ExpressionStatement{Token: tok, Expr: expr}
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	p.skipSemi()
	return &ast.ExpressionStatement{Token: tok, Expr: expr}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

// parseBody parses a control-flow body: a braced block, or the brace-less
// single-statement form TorqueScript allows everywhere a body can appear
// (`if (1) $x = 2; else $x = 3;`). The single statement is wrapped in a
// one-element BlockStatement so the AST and compiler see one body shape.
func (p *Parser) parseBody() *ast.BlockStatement {
	if p.peekIs(lexer.LBRACE) {
		p.nextToken()
		return p.parseBlockStatement()
	}
	p.nextToken()
	block := &ast.BlockStatement{Token: p.curToken}
	if stmt := p.parseStatement(); stmt != nil {
		block.Statements = append(block.Statements, stmt)
	}
	return block
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	then := p.parseBody()

	stmt := &ast.IfStatement{Token: tok, Condition: cond, Then: then}

	for p.peekIs(lexer.ELSE) {
		p.nextToken() // ELSE
		if p.peekIs(lexer.IF) {
			p.nextToken() // IF
			if !p.expectPeek(lexer.LPAREN) {
				return stmt
			}
			p.nextToken()
			elifCond := p.parseExpression(LOWEST)
			if !p.expectPeek(lexer.RPAREN) {
				return stmt
			}
			body := p.parseBody()
			stmt.ElseIfs = append(stmt.ElseIfs, ast.ElseIfClause{Condition: elifCond, Body: body})
			continue
		}
		stmt.Else = p.parseBody()
		break
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: p.parseBody()}
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}

	stmt := &ast.ForStatement{Token: tok}

	p.nextToken()
	if !p.curIs(lexer.SEMI) {
		stmt.Init = p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.SEMI) {
			return stmt
		}
	}

	p.nextToken()
	if !p.curIs(lexer.SEMI) {
		stmt.Condition = p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.SEMI) {
			return stmt
		}
	}

	p.nextToken()
	if !p.curIs(lexer.RPAREN) {
		stmt.Advance = p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.RPAREN) {
			return stmt
		}
	}

	stmt.Body = p.parseBody()
	return stmt
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	subject := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	p.nextToken()

	stmt := &ast.SwitchStatement{Token: tok, Subject: subject}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		switch p.curToken.Type {
		case lexer.CASE:
			stmt.Cases = append(stmt.Cases, p.parseSwitchCase())
		case lexer.DEFAULT:
			if !p.expectPeek(lexer.COLON) {
				return stmt
			}
			p.nextToken()
			stmt.Default = p.parseCaseBody()
			continue
		default:
			p.errorf(p.curToken.Pos, "expected 'case' or 'default' inside switch body, got %s", p.curToken.Type)
			p.nextToken()
		}
	}
	return stmt
}

func (p *Parser) parseSwitchCase() ast.SwitchCase {
	var c ast.SwitchCase
	p.nextToken()
	c.Exprs = append(c.Exprs, p.parseExpression(LOWEST))
	for p.peekIs(lexer.OR_KW) {
		p.nextToken() // 'or'
		p.nextToken()
		c.Exprs = append(c.Exprs, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(lexer.COLON) {
		return c
	}
	p.nextToken()
	c.Body = p.parseCaseBody()
	return c
}

// parseCaseBody consumes statements until the next case/default/closing
// brace, without requiring an explicit block — switch bodies fall through
// syntactically into the next `case`/`default` keyword per spec.md §4.3.
func (p *Parser) parseCaseBody() []ast.Statement {
	var body []ast.Statement
	for !p.curIs(lexer.CASE) && !p.curIs(lexer.DEFAULT) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			body = append(body, stmt)
		}
		p.nextToken()
	}
	return body
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	tok := p.curToken
	stmt := &ast.ReturnStatement{Token: tok}
	if p.peekIs(lexer.SEMI) {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	p.skipSemi()
	return stmt
}

// parseFunctionDeclaration parses `function [ns::]name(%a, %b) { body }`.
// pkg is the enclosing PackageDeclaration's name, or "" at top level.
func (p *Parser) parseFunctionDeclaration(pkg string) *ast.FunctionDeclaration {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	namespace := ""
	name := p.curToken.Literal
	if p.peekIs(lexer.DOUBLECOLON) {
		namespace = name
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		name = p.curToken.Literal
	}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	params := p.parseParameterList()

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()

	return &ast.FunctionDeclaration{
		Token: tok, Package: pkg, Namespace: namespace, Name: name, Params: params, Body: body,
	}
}

func (p *Parser) parseParameterList() []string {
	var params []string
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.curToken.Literal)
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.curToken.Literal)
	}
	if !p.expectPeek(lexer.RPAREN) {
		return params
	}
	return params
}

func (p *Parser) parsePackageDeclaration() *ast.PackageDeclaration {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	p.nextToken()

	decl := &ast.PackageDeclaration{Token: tok, Name: name}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.FUNCTION) {
			if fn := p.parseFunctionDeclaration(name); fn != nil {
				decl.Declarations = append(decl.Declarations, fn)
			}
		} else {
			p.errorf(p.curToken.Pos, "only function declarations are allowed inside a package body, got %s", p.curToken.Type)
		}
		p.nextToken()
	}
	return decl
}

// parseDatablockDeclaration parses `datablock Type(Name : Parent) { fields };`.
func (p *Parser) parseDatablockDeclaration() *ast.DatablockDeclaration {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	typeName := p.curToken.Literal
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	parent := ""
	if p.peekIs(lexer.COLON) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		parent = p.curToken.Literal
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	p.nextToken()

	decl := &ast.DatablockDeclaration{Token: tok, TypeName: typeName, Name: name, ParentName: parent}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		decl.Fields = append(decl.Fields, p.parseFieldAssign())
		p.nextToken()
	}
	p.skipSemi()
	return decl
}

// parseFieldAssign parses one `name[indices] = value;` line inside an
// object or datablock body.
func (p *Parser) parseFieldAssign() ast.FieldAssign {
	name := p.curToken.Literal
	var indices []ast.Expression
	if p.peekIs(lexer.LBRACKET) {
		p.nextToken()
		indices = p.parseExpressionList(lexer.RBRACKET)
	}
	if !p.expectPeek(lexer.ASSIGN) {
		return ast.FieldAssign{Name: name, Indices: indices}
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	p.skipSemi()
	return ast.FieldAssign{Name: name, Indices: indices, Value: value}
}

// parseObjectDeclaration parses `new TypeExpr(NameExpr : Parent) { body };`.
// It is registered as the NEW prefix parse function so it can also appear
// in plain expression position (an object literal used as a value).
func (p *Parser) parseObjectDeclaration() ast.Expression {
	tok := p.curToken // NEW
	p.nextToken()
	typeExpr := p.parseTypeOrNameExpr()

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}

	decl := &ast.ObjectDeclaration{Token: tok, TypeExpr: typeExpr}
	if !p.peekIs(lexer.RPAREN) {
		p.nextToken()
		decl.NameExpr = p.parseTypeOrNameExpr()
		if p.peekIs(lexer.COLON) {
			p.nextToken()
			if !p.expectPeek(lexer.IDENT) {
				return decl
			}
			decl.ParentName = p.curToken.Literal
		}
	}
	if !p.expectPeek(lexer.RPAREN) {
		return decl
	}

	if !p.peekIs(lexer.LBRACE) {
		return decl
	}
	p.nextToken()
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.NEW) {
			child := p.parseObjectDeclaration()
			if childDecl, ok := child.(*ast.ObjectDeclaration); ok {
				decl.Children = append(decl.Children, childDecl)
			}
			p.skipSemi()
		} else if p.curIs(lexer.IDENT) {
			decl.Fields = append(decl.Fields, p.parseFieldAssign())
		} else {
			p.errorf(p.curToken.Pos, "expected a field assignment or nested object inside %q body, got %s", decl.TypeExpr.String(), p.curToken.Type)
		}
		p.nextToken()
	}
	return decl
}

// parseTypeOrNameExpr parses the bare-identifier or %/$-variable form
// TorqueScript allows as a type-name or instance-name in `new`/`datablock`
// headers, where an identifier is not a function call.
func (p *Parser) parseTypeOrNameExpr() ast.Expression {
	switch p.curToken.Type {
	case lexer.IDENT:
		return &ast.TypeNameExpr{Token: p.curToken, Name: p.curToken.Literal}
	case lexer.STRING:
		return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	case lexer.LOCALVAR, lexer.GLOBALVAR:
		return p.parseVarReference()
	default:
		p.errorf(p.curToken.Pos, "expected a type/object name, got %s", p.curToken.Type)
		return &ast.TypeNameExpr{Token: p.curToken, Name: p.curToken.Literal}
	}
}
