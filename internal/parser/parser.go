// Package parser implements a Pratt (precedence-climbing) parser that
// turns a TorqueScript token stream into an internal/ast.Program.
package parser

import (
	"fmt"

	"github.com/tqscript/tqscript/internal/ast"
	"github.com/tqscript/tqscript/internal/errors"
	"github.com/tqscript/tqscript/internal/lexer"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	ASSIGN      // = +=
	TERNARY     // ?:
	LOGICOR     // ||
	LOGICAND    // &&
	EQUALITY    // == != $= !$=
	RELATIONAL  // < > >=
	CONCATENATE // SPC TAB NL @
	SUM         // + -
	PRODUCT     // * / % |
	PREFIX      // unary - !
	CALL        // f(...)
	INDEX       // x[...]
	MEMBER      // x.y
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:       ASSIGN,
	lexer.PLUSASSIGN:   ASSIGN,
	lexer.QUESTION:     TERNARY,
	lexer.OR:           LOGICOR,
	lexer.AND:          LOGICAND,
	lexer.EQ:           EQUALITY,
	lexer.NE:           EQUALITY,
	lexer.STREQ:        EQUALITY,
	lexer.STRNE:        EQUALITY,
	lexer.LT:           RELATIONAL,
	lexer.GT:           RELATIONAL,
	lexer.GE:           RELATIONAL,
	lexer.SPC:          CONCATENATE,
	lexer.TAB:          CONCATENATE,
	lexer.NL:           CONCATENATE,
	lexer.AT:           CONCATENATE,
	lexer.PLUS:         SUM,
	lexer.MINUS:        SUM,
	lexer.STAR:         PRODUCT,
	lexer.SLASH:        PRODUCT,
	lexer.MOD:          PRODUCT,
	lexer.PIPE:         PRODUCT,
	lexer.LPAREN:       CALL,
	lexer.LBRACKET:     INDEX,
	lexer.DOT:          MEMBER,
	lexer.INCREMENT:    INDEX, // postfix, binds tighter than arithmetic
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser is a hand-written recursive-descent/Pratt parser over a single
// TorqueScript source unit.
type Parser struct {
	l      *lexer.Lexer
	source string
	file   string

	curToken  lexer.Token
	peekToken lexer.Token

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn

	errs []*errors.CompilerError
}

// New constructs a Parser reading from l. source/file are retained only
// for error reporting (source snippet + file name in diagnostics).
func New(l *lexer.Lexer, source, file string) *Parser {
	p := &Parser{l: l, source: source, file: file}

	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.INT:           p.parseIntegerLiteral,
		lexer.FLOAT:         p.parseFloatLiteral,
		lexer.STRING:        p.parseStringLiteral,
		lexer.TAGGED_STRING: p.parseTaggedStringLiteral,
		lexer.LOCALVAR:      p.parseVarReference,
		lexer.GLOBALVAR:     p.parseVarReference,
		lexer.IDENT:         p.parseIdentifierCall,
		lexer.PARENT:        p.parseIdentifierCall,
		lexer.MINUS:         p.parseUnaryExpression,
		lexer.NOT:           p.parseUnaryExpression,
		lexer.LPAREN:        p.parseGroupedExpression,
		lexer.NEW:           p.parseObjectDeclaration,
	}

	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:       p.parseBinaryExpression,
		lexer.MINUS:      p.parseBinaryExpression,
		lexer.STAR:       p.parseBinaryExpression,
		lexer.SLASH:      p.parseBinaryExpression,
		lexer.MOD:        p.parseBinaryExpression,
		lexer.PIPE:       p.parseBinaryExpression,
		lexer.AND:        p.parseBinaryExpression,
		lexer.OR:         p.parseBinaryExpression,
		lexer.EQ:         p.parseBinaryExpression,
		lexer.NE:         p.parseBinaryExpression,
		lexer.STREQ:      p.parseBinaryExpression,
		lexer.STRNE:      p.parseBinaryExpression,
		lexer.LT:         p.parseBinaryExpression,
		lexer.GT:         p.parseBinaryExpression,
		lexer.GE:         p.parseBinaryExpression,
		lexer.SPC:        p.parseConcatExpression,
		lexer.TAB:        p.parseConcatExpression,
		lexer.NL:         p.parseConcatExpression,
		lexer.AT:         p.parseConcatExpression,
		lexer.QUESTION:   p.parseTernaryExpression,
		lexer.ASSIGN:     p.parseAssignExpression,
		lexer.PLUSASSIGN: p.parseAssignExpression,
		lexer.LBRACKET:   p.parseArrayAccessInfix,
		lexer.DOT:        p.parseSubreferenceInfix,
		lexer.INCREMENT:  p.parseIncrementInfix,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the diagnostics collected during parsing.
func (p *Parser) Errors() []*errors.CompilerError { return p.errs }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.errorf(p.peekToken.Pos, "expected next token to be %s, got %s (%q) instead",
		t, p.peekToken.Type, p.peekToken.Literal)
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...interface{}) {
	p.errs = append(p.errs, errors.NewCompilerError(pos, fmt.Sprintf(format, args...), p.source, p.file))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses an entire source unit and returns its AST. Parse
// errors are collected (see Errors) rather than returned directly, per
// spec.md §4.3: compilation fails cleanly (no CodeBlock) when any are
// present, decided one layer up by the compiler/embedding facade.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(lexer.EOF) {
		if node := p.parseTopLevel(); node != nil {
			prog.Nodes = append(prog.Nodes, node)
		}
		p.nextToken()
	}
	return prog
}

// ParseStandaloneExpression parses a single expression with no trailing
// statement machinery, for pkg/torque's Evaluate entry point (spec.md §6
// "Evaluate a string in-place").
func (p *Parser) ParseStandaloneExpression() ast.Expression {
	return p.parseExpression(LOWEST)
}

func (p *Parser) parseTopLevel() ast.Node {
	switch p.curToken.Type {
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration("")
	case lexer.PACKAGE:
		return p.parsePackageDeclaration()
	case lexer.DATABLOCK:
		return p.parseDatablockDeclaration()
	default:
		return p.parseStatement()
	}
}

// parseExpression is the Pratt loop: parse one prefix production, then
// keep absorbing infix operators while the upcoming operator binds
// tighter than minPrecedence.
func (p *Parser) parseExpression(minPrecedence int) ast.Expression {
	prefix, ok := p.prefixFns[p.curToken.Type]
	if !ok {
		p.errorf(p.curToken.Pos, "no prefix parse function for %s (%q)", p.curToken.Type, p.curToken.Literal)
		return nil
	}
	left := prefix()

	for !p.peekIs(lexer.SEMI) && minPrecedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) skipSemi() {
	if p.peekIs(lexer.SEMI) {
		p.nextToken()
	}
}
