package bytecode

import (
	"github.com/tqscript/tqscript/internal/ast"
	"github.com/tqscript/tqscript/internal/value"
)

var binaryOpcodes = map[ast.BinaryOp]OpCode{
	ast.OpAdd:                Add,
	ast.OpSub:                Minus,
	ast.OpMul:                Multiply,
	ast.OpDiv:                Divide,
	ast.OpMod:                Modulus,
	ast.OpBitwiseOr:          BitwiseOr,
	ast.OpBitwiseAnd:         BitwiseAnd, // no surface syntax reaches this; kept for opcode-table completeness.
	ast.OpEquals:             Equals,
	ast.OpNotEquals:          NotEquals,
	ast.OpStringEquals:       StringEquals,
	ast.OpStringNotEquals:    StringNotEquals,
	ast.OpLessThan:           LessThan,
	ast.OpGreaterThan:        GreaterThan,
	ast.OpGreaterThanOrEqual: GreaterThanOrEqual,
	ast.OpAnd:                LogicalAnd,
	ast.OpOr:                 LogicalOr,
}

var concatSeparators = map[ast.ConcatKind]string{
	ast.ConcatNone:    "",
	ast.ConcatSpace:   " ",
	ast.ConcatTab:     "\t",
	ast.ConcatNewline: "\n",
}

// compileExpr lowers one expression. Variable references (VarReference,
// ArrayAccess, Subreference) always compile to a Ref push regardless of
// whether they end up read or written: consumers that want a plain value
// (arithmetic, argument passing, string conversion) rely on value.Value's
// own Deref-on-read behaviour, and Assignment/AddAssignment/Increment
// consume the pushed Ref directly as an lvalue. This keeps one lowering
// path per node type instead of a separate lvalue/rvalue split.
func (c *Compiler) compileExpr(e ast.Expression) InstructionSequence {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return InstructionSequence{withInt(PushInteger, n.Value)}
	case *ast.FloatLiteral:
		return InstructionSequence{withFloat(PushFloat, n.Value)}
	case *ast.StringLiteral:
		return InstructionSequence{withString(PushString, n.Value)}
	case *ast.TaggedStringLiteral:
		// spec.md §9: pushed as the string's interned table ID, not its text.
		id := int32(c.strings.Intern(n.Value))
		return InstructionSequence{withInt(PushInteger, id)}
	case *ast.TypeNameExpr:
		return InstructionSequence{withString(PushString, n.Name)}
	case *ast.VarReference:
		return c.compileVarReference(n)
	case *ast.ArrayAccess:
		return c.compileArrayAccess(n)
	case *ast.BinaryExpression:
		seq := append(InstructionSequence{}, c.compileExpr(n.Left)...)
		seq = append(seq, c.compileExpr(n.Right)...)
		return append(seq, simple(binaryOpcodes[n.Operator]))
	case *ast.ConcatExpression:
		seq := append(InstructionSequence{}, c.compileExpr(n.Left)...)
		seq = append(seq, c.compileExpr(n.Right)...)
		return append(seq, withString(Concat, concatSeparators[n.Kind]))
	case *ast.UnaryExpression:
		seq := append(InstructionSequence{}, c.compileExpr(n.Operand)...)
		if n.Operator == ast.OpNot {
			return append(seq, simple(Not))
		}
		return append(seq, simple(Negate))
	case *ast.IncrementExpression:
		return c.compileIncrement(n)
	case *ast.AssignExpression:
		return c.compileAssign(n)
	case *ast.TernaryExpression:
		return c.compileTernary(n)
	case *ast.Subreference:
		return c.compileSubreference(n)
	case *ast.FunctionCall:
		return c.compileFunctionCall(n)
	case *ast.BoundFunctionCall:
		return c.compileBoundFunctionCall(n)
	case *ast.ObjectDeclaration:
		return c.compileObjectDeclaration(n)
	default:
		return InstructionSequence{simple(NOP)}
	}
}

// compileVarReference lowers a %local or $global reference to a Ref push.
// `%this` inside a bound method's body allocates an ordinary register like
// any other local; compileFunctionDeclaration records that register as the
// Function's ThisReg so the VM can bind the bound object's ID into it on a
// bound call, whether or not %this is also declared as the first parameter
// (spec.md §4.6's marshalling rule covers the declared-parameter case).
func (c *Compiler) compileVarReference(n *ast.VarReference) InstructionSequence {
	if n.Kind == ast.LocalVar {
		return InstructionSequence{withInt(PushLocalReference, c.localReg(n.Name))}
	}
	return InstructionSequence{withInt(PushGlobalReference, c.globalID(n.Name))}
}

// compileArrayAccess folds `name[i, j, k]` into the synthetic identifier
// `name_<i>_<j>_<k>` at runtime, per spec.md §4.4: the compiler only emits
// the index expressions and an AccessArray carrying the base name, index
// count, and whether the target is a %local or $global reference.
func (c *Compiler) compileArrayAccess(n *ast.ArrayAccess) InstructionSequence {
	var seq InstructionSequence
	for _, idx := range n.Indices {
		seq = append(seq, c.compileExpr(idx)...)
	}
	isGlobal := int32(0)
	if n.Target.Kind == ast.GlobalVar {
		isGlobal = 1
	}
	instr := Instruction{
		Op: AccessArray,
		Operands: [4]value.Value{
			value.String(n.Target.Name),
			value.Integer(int32(len(n.Indices))),
			value.Integer(isGlobal),
		},
	}
	return append(seq, instr)
}

func (c *Compiler) compileIncrement(n *ast.IncrementExpression) InstructionSequence {
	seq := append(InstructionSequence{}, c.compileExpr(n.Operand)...)
	seq = append(seq, withInt(PushInteger, n.Delta))
	return append(seq, simple(AddAssignment))
}

func (c *Compiler) compileAssign(n *ast.AssignExpression) InstructionSequence {
	seq := append(InstructionSequence{}, c.compileExpr(n.Target)...)
	seq = append(seq, c.compileExpr(n.Value)...)
	if n.Operator == "+=" {
		return append(seq, simple(AddAssignment))
	}
	return append(seq, simple(Assignment))
}

// compileTernary implements `cond ? a : b` as:
//
//	cond; JumpFalse(len(trueCode)+2); trueCode; Jump(len(falseCode)+1); falseCode; NOP
//
// These offsets are derived directly from the VM's jump-delta convention
// (an instruction normally advances the IP by 1; a jump instruction's
// operand IS the delta, so skipping N instructions to land on the one
// right after them needs delta N+1, and skipping N instructions plus one
// more trailing unconditional Jump needs N+2) rather than quoted verbatim
// from spec.md's prose, whose true/false length labels do not square with
// that arithmetic.
func (c *Compiler) compileTernary(n *ast.TernaryExpression) InstructionSequence {
	cond := c.compileExpr(n.Condition)
	trueCode := c.compileExpr(n.IfTrue)
	falseCode := c.compileExpr(n.IfFalse)

	seq := append(InstructionSequence{}, cond...)
	seq = append(seq, withInt(JumpFalse, int32(len(trueCode)+2)))
	seq = append(seq, trueCode...)
	seq = append(seq, withInt(Jump, int32(len(falseCode)+1)))
	seq = append(seq, falseCode...)
	seq = append(seq, simple(NOP))
	return seq
}

func (c *Compiler) compileSubreference(n *ast.Subreference) InstructionSequence {
	seq := append(InstructionSequence{}, c.compileExpr(n.Left)...)
	for _, idx := range n.Indices {
		seq = append(seq, c.compileExpr(idx)...)
	}
	instr := Instruction{
		Op: Subreference,
		Operands: [4]value.Value{
			value.String(n.Name),
			value.Integer(int32(len(n.Indices))),
		},
	}
	return append(seq, instr)
}

func (c *Compiler) compileFunctionCall(n *ast.FunctionCall) InstructionSequence {
	var seq InstructionSequence
	for _, arg := range n.Args {
		seq = append(seq, c.compileExpr(arg)...)
	}
	instr := Instruction{
		Op: CallFunction,
		Operands: [4]value.Value{
			value.String(n.Namespace),
			value.String(n.Name),
			value.Integer(int32(len(n.Args))),
		},
	}
	return append(seq, instr)
}

func (c *Compiler) compileBoundFunctionCall(n *ast.BoundFunctionCall) InstructionSequence {
	seq := append(InstructionSequence{}, c.compileExpr(n.Target)...)
	for _, arg := range n.Args {
		seq = append(seq, c.compileExpr(arg)...)
	}
	instr := Instruction{
		Op: CallBoundFunction,
		Operands: [4]value.Value{
			value.String(n.Name),
			value.Integer(int32(len(n.Args))),
		},
	}
	return append(seq, instr)
}

// compileObjectDeclaration lowers `new Type(Name : Parent) { fields;
// children... };` per spec.md §4.4: type-name, then name (or empty string
// if absent), then PushObjectInstantiation; each field as
// (name, indices..., value) + PushObjectField(idx-count); children
// recursively; finally PopObjectInstantiation(child-count). ParentName is
// known statically (it is a bare identifier in the grammar, never an
// expression), so it travels as PushObjectInstantiation's immediate operand
// rather than through the operand stack; the materialising runtime copies
// the named parent object's fields into the new instance before applying
// the declaration's own.
func (c *Compiler) compileObjectDeclaration(n *ast.ObjectDeclaration) InstructionSequence {
	var seq InstructionSequence
	seq = append(seq, c.compileExpr(n.TypeExpr)...)
	if n.NameExpr != nil {
		seq = append(seq, c.compileExpr(n.NameExpr)...)
	} else {
		seq = append(seq, withString(PushString, ""))
	}
	seq = append(seq, withStringInt(PushObjectInstantiation, n.ParentName, 0))

	for _, f := range n.Fields {
		seq = append(seq, c.compileFieldAssign(f)...)
	}
	for _, child := range n.Children {
		seq = append(seq, c.compileObjectDeclaration(child)...)
	}
	seq = append(seq, withInt(PopObjectInstantiation, int32(len(n.Children))))
	return seq
}
