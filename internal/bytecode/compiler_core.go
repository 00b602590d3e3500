package bytecode

import (
	"github.com/tqscript/tqscript/internal/ast"
	"github.com/tqscript/tqscript/internal/errors"
	"github.com/tqscript/tqscript/internal/stringtable"
)

// Compiler is a single-pass AST-to-bytecode visitor. Per spec.md §4.4 it
// keeps durable mutable state across a compilation unit — the enclosing
// package name, the declared-function table and the error list — plus,
// while compiling one function's
// or the top level's body, a scratch register-allocation map that resets
// at each function boundary.
type Compiler struct {
	strings *stringtable.Table

	pkg string

	locals  map[string]int32
	nextReg int32

	functions []*Function

	errs []*errors.CompilerError
}

// New builds a Compiler. strings is the shared interning table used for
// global variable names and tagged-string literals (spec.md §9's decision
// to push a tagged string's table ID rather than its text).
func New(strings *stringtable.Table) *Compiler {
	c := &Compiler{strings: strings}
	c.resetLocals()
	return c
}

func (c *Compiler) resetLocals() {
	c.locals = make(map[string]int32)
	c.nextReg = 0
}

// localReg returns the stable register index for a %name within the
// function (or top-level unit) currently being compiled, allocating a new
// one on first sight. Names are folded through the shared string table so
// %Count and %count share a register in case-insensitive mode.
func (c *Compiler) localReg(name string) int32 {
	key := c.strings.Fold(name)
	if reg, ok := c.locals[key]; ok {
		return reg
	}
	reg := c.nextReg
	c.locals[key] = reg
	c.nextReg++
	return reg
}

func (c *Compiler) globalID(name string) int32 {
	return int32(c.strings.Intern(name))
}

// Errors returns diagnostics collected during compilation. Today the
// compiler has no rejecting checks of its own (a parser-produced AST is
// always lowerable), so this is always empty; it exists so callers can
// treat parser and compiler diagnostics uniformly.
func (c *Compiler) Errors() []*errors.CompilerError { return c.errs }

// Compile lowers an entire program into a CodeBlock. It never fails: a
// lowering that hits something it cannot express (should not happen given
// a parser-produced AST) emits NOP rather than panicking, since bytecode
// generation has no meaningful partial-failure mode once parsing already
// succeeded.
func (c *Compiler) Compile(prog *ast.Program) *CodeBlock {
	var code InstructionSequence
	for _, n := range prog.Nodes {
		code = append(code, c.compileTopLevel(n)...)
	}
	return &CodeBlock{Code: code, Functions: c.functions}
}

// CompileExpression lowers a single expression into a standalone CodeBlock
// ending in an explicit Return, for pkg/torque's Evaluate entry point:
// unlike a statement-level expression (always followed by Pop), the
// expression's value must survive to the embedder.
func (c *Compiler) CompileExpression(e ast.Expression) *CodeBlock {
	code := append(c.compileExpr(e), simple(Return))
	return &CodeBlock{Code: code, Functions: c.functions}
}

func (c *Compiler) compileTopLevel(n ast.Node) InstructionSequence {
	switch node := n.(type) {
	case *ast.FunctionDeclaration:
		return c.compileFunctionDeclaration(node)
	case *ast.PackageDeclaration:
		return c.compilePackageDeclaration(node)
	case *ast.DatablockDeclaration:
		return c.compileDatablockDeclaration(node)
	case ast.Statement:
		return c.compileStatement(node)
	default:
		return nil
	}
}

func (c *Compiler) compilePackageDeclaration(decl *ast.PackageDeclaration) InstructionSequence {
	prevPkg := c.pkg
	c.pkg = decl.Name
	var code InstructionSequence
	for _, fn := range decl.Declarations {
		code = append(code, c.compileFunctionDeclaration(fn)...)
	}
	c.pkg = prevPkg
	return code
}

// compileFunctionDeclaration lowers the body, appends an implicit `return
// 0`, registers the Function, and emits RegisterFunction(index) into the
// enclosing sequence, per spec.md §4.4 "Function declaration".
func (c *Compiler) compileFunctionDeclaration(decl *ast.FunctionDeclaration) InstructionSequence {
	savedLocals, savedNext := c.locals, c.nextReg
	c.resetLocals()
	for _, p := range decl.Params {
		c.localReg(p)
	}

	body := c.compileStatements(decl.Body.Statements)
	body = append(body, withInt(PushInteger, 0), simple(Return))

	thisReg := int32(-1)
	if reg, ok := c.locals[c.strings.Fold("this")]; ok {
		thisReg = reg
	}

	c.locals, c.nextReg = savedLocals, savedNext

	pkg := decl.Package
	if pkg == "" {
		pkg = c.pkg
	}
	fn := &Function{
		Package:   pkg,
		Namespace: decl.Namespace,
		Name:      decl.Name,
		Params:    decl.Params,
		Body:      body,
		ThisReg:   thisReg,
	}
	idx := int32(len(c.functions))
	c.functions = append(c.functions, fn)
	return InstructionSequence{withInt(RegisterFunction, idx)}
}

// compileDatablockDeclaration lowers exactly like an ObjectDeclaration
// whose type/name are literal strings and which has no children, per
// spec.md §4.4 ("Object declaration" covers both forms; a datablock is an
// object declaration with a fixed single level). The descriptor is tagged
// as a datablock via PushObjectInstantiation's second immediate so the
// materialiser can apply datablock re-declaration rules, and the trailing
// Pop discards the materialised ID: a datablock is only ever a statement,
// never an expression.
func (c *Compiler) compileDatablockDeclaration(decl *ast.DatablockDeclaration) InstructionSequence {
	var seq InstructionSequence
	seq = append(seq, withString(PushString, decl.TypeName))
	seq = append(seq, withString(PushString, decl.Name))
	seq = append(seq, withStringInt(PushObjectInstantiation, decl.ParentName, 1))
	for _, f := range decl.Fields {
		seq = append(seq, c.compileFieldAssign(f)...)
	}
	seq = append(seq, withInt(PopObjectInstantiation, 0))
	seq = append(seq, simple(Pop))
	return seq
}

func (c *Compiler) compileFieldAssign(f ast.FieldAssign) InstructionSequence {
	var seq InstructionSequence
	seq = append(seq, withString(PushString, f.Name))
	for _, idx := range f.Indices {
		seq = append(seq, c.compileExpr(idx)...)
	}
	if f.Value != nil {
		seq = append(seq, c.compileExpr(f.Value)...)
	} else {
		seq = append(seq, withInt(PushInteger, 0))
	}
	seq = append(seq, withInt(PushObjectField, int32(len(f.Indices))))
	return seq
}
