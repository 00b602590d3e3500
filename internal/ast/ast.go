// Package ast defines the Abstract Syntax Tree node types for TorqueScript.
package ast

import (
	"bytes"
	"strings"

	"github.com/tqscript/tqscript/internal/lexer"
)

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without itself producing a
// value (though it may wrap an expression-statement).
type Statement interface {
	Node
	statementNode()
}

// Declaration is a top-level or package-level construct: a function,
// package, datablock, or object declaration.
type Declaration interface {
	Node
	declarationNode()
}

// Program is the root of the AST: an ordered sequence of top-level
// declarations and statements.
type Program struct {
	Nodes []Node
}

func (p *Program) TokenLiteral() string {
	if len(p.Nodes) > 0 {
		return p.Nodes[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, n := range p.Nodes {
		out.WriteString(n.String())
	}
	return out.String()
}

func (p *Program) Pos() lexer.Position {
	if len(p.Nodes) > 0 {
		return p.Nodes[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

// ---- Literals ----

type IntegerLiteral struct {
	Token lexer.Token
	Value int32
}

func (n *IntegerLiteral) expressionNode()      {}
func (n *IntegerLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *IntegerLiteral) String() string       { return n.Token.Literal }
func (n *IntegerLiteral) Pos() lexer.Position  { return n.Token.Pos }

type FloatLiteral struct {
	Token lexer.Token
	Value float32
}

func (n *FloatLiteral) expressionNode()      {}
func (n *FloatLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *FloatLiteral) String() string       { return n.Token.Literal }
func (n *FloatLiteral) Pos() lexer.Position  { return n.Token.Pos }

// StringLiteral is a double-quoted literal pushed as an owned string.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (n *StringLiteral) expressionNode()      {}
func (n *StringLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *StringLiteral) String() string       { return "\"" + n.Value + "\"" }
func (n *StringLiteral) Pos() lexer.Position  { return n.Token.Pos }

// TypeNameExpr is a bare identifier used as a name rather than a call: the
// type/object name in a `new`/`datablock` header, or an unqualified
// identifier in expression position, which evaluates to its own text (the
// usual way a named console object is referenced, as in `Sword.damage`).
type TypeNameExpr struct {
	Token lexer.Token
	Name  string
}

func (n *TypeNameExpr) expressionNode()      {}
func (n *TypeNameExpr) TokenLiteral() string { return n.Token.Literal }
func (n *TypeNameExpr) String() string       { return n.Name }
func (n *TypeNameExpr) Pos() lexer.Position  { return n.Token.Pos }

// TaggedStringLiteral is a single-quoted literal. Per spec §9, it compiles
// to its interned string-table ID pushed as an integer, not the raw text.
type TaggedStringLiteral struct {
	Token lexer.Token
	Value string
}

func (n *TaggedStringLiteral) expressionNode()      {}
func (n *TaggedStringLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *TaggedStringLiteral) String() string       { return "'" + n.Value + "'" }
func (n *TaggedStringLiteral) Pos() lexer.Position  { return n.Token.Pos }

// ---- Variable references ----

// VarKind distinguishes %local from $global references.
type VarKind byte

const (
	LocalVar VarKind = iota
	GlobalVar
)

// VarReference is a `::`-joined identifier path prefixed by % or $.
type VarReference struct {
	Token lexer.Token
	Kind  VarKind
	Name  string // dotted path, e.g. "a::b::c", sigil stripped
}

func (n *VarReference) expressionNode()      {}
func (n *VarReference) TokenLiteral() string { return n.Token.Literal }
func (n *VarReference) Pos() lexer.Position  { return n.Token.Pos }
func (n *VarReference) String() string {
	if n.Kind == LocalVar {
		return "%" + n.Name
	}
	return "$" + n.Name
}

// ArrayAccess is `target[i, j, k]`; the compiled AccessArray instruction
// folds the evaluated indices into a synthetic flat identifier at runtime.
type ArrayAccess struct {
	Token   lexer.Token
	Target  *VarReference
	Indices []Expression
}

func (n *ArrayAccess) expressionNode()      {}
func (n *ArrayAccess) TokenLiteral() string { return n.Token.Literal }
func (n *ArrayAccess) Pos() lexer.Position  { return n.Token.Pos }
func (n *ArrayAccess) String() string {
	var out bytes.Buffer
	out.WriteString(n.Target.String())
	out.WriteString("[")
	parts := make([]string, len(n.Indices))
	for i, idx := range n.Indices {
		parts[i] = idx.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("]")
	return out.String()
}

// ---- Operators ----

type BinaryOp string

const (
	OpAdd                BinaryOp = "+"
	OpSub                BinaryOp = "-"
	OpMul                BinaryOp = "*"
	OpDiv                BinaryOp = "/"
	OpMod                BinaryOp = "%"
	OpBitwiseOr          BinaryOp = "|"
	OpBitwiseAnd         BinaryOp = "&"
	OpEquals             BinaryOp = "=="
	OpNotEquals          BinaryOp = "!="
	OpStringEquals       BinaryOp = "$="
	OpStringNotEquals    BinaryOp = "!$="
	OpLessThan           BinaryOp = "<"
	OpGreaterThan        BinaryOp = ">"
	OpGreaterThanOrEqual BinaryOp = ">="
	OpAnd                BinaryOp = "&&"
	OpOr                 BinaryOp = "||"
)

// ConcatKind names the literal separator a Concat expression joins with.
type ConcatKind byte

const (
	ConcatNone ConcatKind = iota
	ConcatSpace
	ConcatTab
	ConcatNewline
)

func (k ConcatKind) Separator() string {
	switch k {
	case ConcatSpace:
		return " "
	case ConcatTab:
		return "\t"
	case ConcatNewline:
		return "\n"
	default:
		return ""
	}
}

// BinaryExpression is any two-operand arithmetic/comparison/logical op.
type BinaryExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator BinaryOp
	Right    Expression
}

func (n *BinaryExpression) expressionNode()      {}
func (n *BinaryExpression) TokenLiteral() string { return n.Token.Literal }
func (n *BinaryExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *BinaryExpression) String() string {
	return "(" + n.Left.String() + " " + string(n.Operator) + " " + n.Right.String() + ")"
}

// ConcatExpression is `a SPC b`, `a TAB b`, `a NL b`, or `a @ b`.
type ConcatExpression struct {
	Token lexer.Token
	Left  Expression
	Right Expression
	Kind  ConcatKind
}

func (n *ConcatExpression) expressionNode()      {}
func (n *ConcatExpression) TokenLiteral() string { return n.Token.Literal }
func (n *ConcatExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *ConcatExpression) String() string {
	return "(" + n.Left.String() + " @ " + n.Right.String() + ")"
}

// UnaryOp names a prefix unary operator.
type UnaryOp string

const (
	OpNegate UnaryOp = "-"
	OpNot    UnaryOp = "!"
)

type UnaryExpression struct {
	Token    lexer.Token
	Operator UnaryOp
	Operand  Expression
}

func (n *UnaryExpression) expressionNode()      {}
func (n *UnaryExpression) TokenLiteral() string { return n.Token.Literal }
func (n *UnaryExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *UnaryExpression) String() string {
	return "(" + string(n.Operator) + n.Operand.String() + ")"
}

// IncrementExpression is `lhs++`; `Decrement` is not part of the surface
// grammar per spec.md §6, but the AST node is kept generic via Delta for
// symmetry with the compiler's `AddAssignment`-based lowering.
type IncrementExpression struct {
	Token   lexer.Token
	Operand Expression
	Delta   int32
}

func (n *IncrementExpression) expressionNode()      {}
func (n *IncrementExpression) TokenLiteral() string { return n.Token.Literal }
func (n *IncrementExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *IncrementExpression) String() string       { return n.Operand.String() + "++" }

// AssignExpression covers plain `=` and compound `+=`.
type AssignExpression struct {
	Token    lexer.Token
	Target   Expression // VarReference, ArrayAccess, or Subreference
	Operator string     // "=" or "+="
	Value    Expression
}

func (n *AssignExpression) expressionNode()      {}
func (n *AssignExpression) TokenLiteral() string { return n.Token.Literal }
func (n *AssignExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *AssignExpression) String() string {
	return "(" + n.Target.String() + " " + n.Operator + " " + n.Value.String() + ")"
}

// TernaryExpression is `cond ? a : b`.
type TernaryExpression struct {
	Token     lexer.Token
	Condition Expression
	IfTrue    Expression
	IfFalse   Expression
}

func (n *TernaryExpression) expressionNode()      {}
func (n *TernaryExpression) TokenLiteral() string { return n.Token.Literal }
func (n *TernaryExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *TernaryExpression) String() string {
	return "(" + n.Condition.String() + " ? " + n.IfTrue.String() + " : " + n.IfFalse.String() + ")"
}

// Subreference is one link of a `.`-chained spine: `left.Name[indices]`.
// Chains lower left-associatively per spec.md §4.3, so `a.b.c` becomes
// Subreference{Left: Subreference{Left: a, Name: b}, Name: c}.
type Subreference struct {
	Token   lexer.Token
	Left    Expression
	Name    string
	Indices []Expression
}

func (n *Subreference) expressionNode()      {}
func (n *Subreference) TokenLiteral() string { return n.Token.Literal }
func (n *Subreference) Pos() lexer.Position  { return n.Token.Pos }
func (n *Subreference) String() string {
	return n.Left.String() + "." + n.Name
}

// ---- Calls ----

// FunctionCall covers both the unqualified `f(args)` and the
// namespace-qualified `NS::f(args)` forms; Namespace is empty for the bare
// form.
type FunctionCall struct {
	Token     lexer.Token
	Namespace string
	Name      string
	Args      []Expression
}

func (n *FunctionCall) expressionNode()      {}
func (n *FunctionCall) TokenLiteral() string { return n.Token.Literal }
func (n *FunctionCall) Pos() lexer.Position  { return n.Token.Pos }
func (n *FunctionCall) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	name := n.Name
	if n.Namespace != "" {
		name = n.Namespace + "::" + name
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// BoundFunctionCall is `target.method(args)`.
type BoundFunctionCall struct {
	Token  lexer.Token
	Target Expression
	Name   string
	Args   []Expression
}

func (n *BoundFunctionCall) expressionNode()      {}
func (n *BoundFunctionCall) TokenLiteral() string { return n.Token.Literal }
func (n *BoundFunctionCall) Pos() lexer.Position  { return n.Token.Pos }
func (n *BoundFunctionCall) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Target.String() + "." + n.Name + "(" + strings.Join(parts, ", ") + ")"
}

// ---- Statements ----

type ExpressionStatement struct {
	Token lexer.Token
	Expr  Expression
}

func (n *ExpressionStatement) statementNode()      {}
func (n *ExpressionStatement) TokenLiteral() string { return n.Token.Literal }
func (n *ExpressionStatement) Pos() lexer.Position  { return n.Token.Pos }
func (n *ExpressionStatement) String() string       { return n.Expr.String() + ";" }

type BlockStatement struct {
	Token      lexer.Token
	Statements []Statement
}

func (n *BlockStatement) statementNode()      {}
func (n *BlockStatement) TokenLiteral() string { return n.Token.Literal }
func (n *BlockStatement) Pos() lexer.Position  { return n.Token.Pos }
func (n *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	for _, s := range n.Statements {
		out.WriteString(s.String())
	}
	out.WriteString("}")
	return out.String()
}

// ElseIfClause is one `else if (cond) body` arm of an If chain.
type ElseIfClause struct {
	Condition Expression
	Body      *BlockStatement
}

type IfStatement struct {
	Token     lexer.Token
	Condition Expression
	Then      *BlockStatement
	ElseIfs   []ElseIfClause
	Else      *BlockStatement // nil if absent
}

func (n *IfStatement) statementNode()      {}
func (n *IfStatement) TokenLiteral() string { return n.Token.Literal }
func (n *IfStatement) Pos() lexer.Position  { return n.Token.Pos }
func (n *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(n.Condition.String())
	out.WriteString(") ")
	out.WriteString(n.Then.String())
	for _, ei := range n.ElseIfs {
		out.WriteString(" else if (")
		out.WriteString(ei.Condition.String())
		out.WriteString(") ")
		out.WriteString(ei.Body.String())
	}
	if n.Else != nil {
		out.WriteString(" else ")
		out.WriteString(n.Else.String())
	}
	return out.String()
}

type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      *BlockStatement
}

func (n *WhileStatement) statementNode()      {}
func (n *WhileStatement) TokenLiteral() string { return n.Token.Literal }
func (n *WhileStatement) Pos() lexer.Position  { return n.Token.Pos }
func (n *WhileStatement) String() string {
	return "while (" + n.Condition.String() + ") " + n.Body.String()
}

type ForStatement struct {
	Token     lexer.Token
	Init      Expression // may be nil
	Condition Expression // may be nil (treated as always-true)
	Advance   Expression // may be nil
	Body      *BlockStatement
}

func (n *ForStatement) statementNode()      {}
func (n *ForStatement) TokenLiteral() string { return n.Token.Literal }
func (n *ForStatement) Pos() lexer.Position  { return n.Token.Pos }
func (n *ForStatement) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if n.Init != nil {
		out.WriteString(n.Init.String())
	}
	out.WriteString("; ")
	if n.Condition != nil {
		out.WriteString(n.Condition.String())
	}
	out.WriteString("; ")
	if n.Advance != nil {
		out.WriteString(n.Advance.String())
	}
	out.WriteString(") ")
	out.WriteString(n.Body.String())
	return out.String()
}

// SwitchCase is one `case e1 or e2 or ...: body` arm. Per spec.md §4.3 a
// case may list multiple matching expressions joined by the `or` keyword.
type SwitchCase struct {
	Exprs []Expression
	Body  []Statement
}

type SwitchStatement struct {
	Token      lexer.Token
	Subject    Expression
	Cases      []SwitchCase
	Default    []Statement // nil if absent
}

func (n *SwitchStatement) statementNode()      {}
func (n *SwitchStatement) TokenLiteral() string { return n.Token.Literal }
func (n *SwitchStatement) Pos() lexer.Position  { return n.Token.Pos }
func (n *SwitchStatement) String() string {
	var out bytes.Buffer
	out.WriteString("switch (")
	out.WriteString(n.Subject.String())
	out.WriteString(") {")
	for _, c := range n.Cases {
		parts := make([]string, len(c.Exprs))
		for i, e := range c.Exprs {
			parts[i] = e.String()
		}
		out.WriteString("case " + strings.Join(parts, " or ") + ": ")
		for _, s := range c.Body {
			out.WriteString(s.String())
		}
	}
	if n.Default != nil {
		out.WriteString("default: ")
		for _, s := range n.Default {
			out.WriteString(s.String())
		}
	}
	out.WriteString("}")
	return out.String()
}

type BreakStatement struct{ Token lexer.Token }

func (n *BreakStatement) statementNode()      {}
func (n *BreakStatement) TokenLiteral() string { return n.Token.Literal }
func (n *BreakStatement) Pos() lexer.Position  { return n.Token.Pos }
func (n *BreakStatement) String() string       { return "break;" }

type ContinueStatement struct{ Token lexer.Token }

func (n *ContinueStatement) statementNode()      {}
func (n *ContinueStatement) TokenLiteral() string { return n.Token.Literal }
func (n *ContinueStatement) Pos() lexer.Position  { return n.Token.Pos }
func (n *ContinueStatement) String() string       { return "continue;" }

type ReturnStatement struct {
	Token lexer.Token
	Value Expression // nil means implicit 0
}

func (n *ReturnStatement) statementNode()      {}
func (n *ReturnStatement) TokenLiteral() string { return n.Token.Literal }
func (n *ReturnStatement) Pos() lexer.Position  { return n.Token.Pos }
func (n *ReturnStatement) String() string {
	if n.Value == nil {
		return "return;"
	}
	return "return " + n.Value.String() + ";"
}

// ---- Declarations ----

type FunctionDeclaration struct {
	Token     lexer.Token
	Package   string // set by the enclosing PackageDeclaration, else ""
	Namespace string
	Name      string
	Params    []string
	Body      *BlockStatement
}

func (n *FunctionDeclaration) declarationNode()      {}
func (n *FunctionDeclaration) statementNode()        {}
func (n *FunctionDeclaration) TokenLiteral() string  { return n.Token.Literal }
func (n *FunctionDeclaration) Pos() lexer.Position   { return n.Token.Pos }
func (n *FunctionDeclaration) String() string {
	name := n.Name
	if n.Namespace != "" {
		name = n.Namespace + "::" + name
	}
	return "function " + name + "(" + strings.Join(n.Params, ", ") + ") " + n.Body.String()
}

type PackageDeclaration struct {
	Token        lexer.Token
	Name         string
	Declarations []*FunctionDeclaration
}

func (n *PackageDeclaration) declarationNode()     {}
func (n *PackageDeclaration) statementNode()       {}
func (n *PackageDeclaration) TokenLiteral() string { return n.Token.Literal }
func (n *PackageDeclaration) Pos() lexer.Position  { return n.Token.Pos }
func (n *PackageDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("package " + n.Name + " {")
	for _, d := range n.Declarations {
		out.WriteString(d.String())
	}
	out.WriteString("}")
	return out.String()
}

// FieldAssign is one `name[indices] = value;` line inside an object or
// datablock declaration body.
type FieldAssign struct {
	Name    string
	Indices []Expression
	Value   Expression
}

// DatablockDeclaration is `datablock Type(Name : Parent) { fields }`.
type DatablockDeclaration struct {
	Token      lexer.Token
	TypeName   string
	Name       string
	ParentName string // empty if absent
	Fields     []FieldAssign
}

func (n *DatablockDeclaration) declarationNode()     {}
func (n *DatablockDeclaration) statementNode()       {}
func (n *DatablockDeclaration) TokenLiteral() string { return n.Token.Literal }
func (n *DatablockDeclaration) Pos() lexer.Position  { return n.Token.Pos }
func (n *DatablockDeclaration) String() string {
	return "datablock " + n.TypeName + "(" + n.Name + ")"
}

// ObjectDeclaration is `new Type(Name : Parent) { fields; children... };`.
// TypeExpr/NameExpr are expressions (not bare identifiers) per spec.md §4.4
// ("lower the type-name expression, then the name expression").
type ObjectDeclaration struct {
	Token      lexer.Token
	TypeExpr   Expression
	NameExpr   Expression // nil if the object is anonymous
	ParentName string     // empty if absent; `new Type(Name : Parent)`
	Fields     []FieldAssign
	Children   []*ObjectDeclaration
}

func (n *ObjectDeclaration) declarationNode()     {}
func (n *ObjectDeclaration) expressionNode()      {}
func (n *ObjectDeclaration) statementNode()       {}
func (n *ObjectDeclaration) TokenLiteral() string { return n.Token.Literal }
func (n *ObjectDeclaration) Pos() lexer.Position  { return n.Token.Pos }
func (n *ObjectDeclaration) String() string {
	return "new " + n.TypeExpr.String() + "(...)"
}
