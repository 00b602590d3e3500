// Package bytecode implements the single-pass AST-to-bytecode compiler and
// its instruction set; the stack-based virtual machine that executes its
// output lives in internal/runtime.
//
// Unlike the teacher's packed 32-bit instruction format ([8-bit opcode][8-bit
// A][16-bit B]), TorqueScript instructions sometimes carry string or Value
// literal operands directly (PushString, CallFunction's namespace/name,
// Subreference's field name), which cannot be packed into 24 bits. Cross-
// checked against original_source/include/tribalscript/instructions.hpp,
// whose own Instruction carries `InstructionType` plus `StoredValue
// mOperands[4]` for exactly this reason: each Instruction here carries up to
// four Value-typed operand slots instead.
package bytecode

import "github.com/tqscript/tqscript/internal/value"

// OpCode is a single bytecode operation. The set is exactly the opcode list
// named in spec.md's external-interfaces section: some (BitwiseAnd,
// PopObjectField) have no compiler lowering that ever emits them, and
// Break/Continue are compiler-internal placeholders always rewritten to
// Jump before a sequence is considered final (see compiler_statements.go).
type OpCode byte

const (
	PushFloat OpCode = iota
	PushInteger
	PushLocalReference
	PushString
	PushGlobalReference
	AddAssignment
	Assignment
	Concat
	Negate
	Not
	CallFunction
	LogicalAnd
	LogicalOr
	Add
	Minus
	Modulus
	LessThan
	GreaterThan
	GreaterThanOrEqual
	Equals
	NotEquals
	StringEquals
	StringNotEquals
	BitwiseAnd
	BitwiseOr
	Multiply
	Divide
	Pop
	Jump
	JumpTrue
	JumpFalse
	NOP
	RegisterFunction
	Subreference
	Return
	Break
	Continue
	AccessArray
	CallBoundFunction
	PushObjectInstantiation
	PushObjectField
	PopObjectField
	PopObjectInstantiation
)

var opCodeNames = [...]string{
	PushFloat:               "PushFloat",
	PushInteger:             "PushInteger",
	PushLocalReference:      "PushLocalReference",
	PushString:              "PushString",
	PushGlobalReference:     "PushGlobalReference",
	AddAssignment:           "AddAssignment",
	Assignment:              "Assignment",
	Concat:                  "Concat",
	Negate:                  "Negate",
	Not:                     "Not",
	CallFunction:            "CallFunction",
	LogicalAnd:              "LogicalAnd",
	LogicalOr:               "LogicalOr",
	Add:                     "Add",
	Minus:                   "Minus",
	Modulus:                 "Modulus",
	LessThan:                "LessThan",
	GreaterThan:             "GreaterThan",
	GreaterThanOrEqual:      "GreaterThanOrEqual",
	Equals:                  "Equals",
	NotEquals:               "NotEquals",
	StringEquals:            "StringEquals",
	StringNotEquals:         "StringNotEquals",
	BitwiseAnd:              "BitwiseAnd",
	BitwiseOr:               "BitwiseOr",
	Multiply:                "Multiply",
	Divide:                  "Divide",
	Pop:                     "Pop",
	Jump:                    "Jump",
	JumpTrue:                "JumpTrue",
	JumpFalse:               "JumpFalse",
	NOP:                     "NOP",
	RegisterFunction:        "RegisterFunction",
	Subreference:            "Subreference",
	Return:                  "Return",
	Break:                   "Break",
	Continue:                "Continue",
	AccessArray:             "AccessArray",
	CallBoundFunction:       "CallBoundFunction",
	PushObjectInstantiation: "PushObjectInstantiation",
	PushObjectField:         "PushObjectField",
	PopObjectField:          "PopObjectField",
	PopObjectInstantiation:  "PopObjectInstantiation",
}

func (op OpCode) String() string {
	if int(op) < len(opCodeNames) && opCodeNames[op] != "" {
		return opCodeNames[op]
	}
	return "UNKNOWN"
}

// Instruction is one bytecode operation plus up to four Value-typed operand
// slots. Which slots are populated, and what they mean, depends on Op; see
// the per-opcode comments in compiler_expressions.go/compiler_statements.go
// where each is emitted, and internal/runtime's dispatch loop where each is
// executed.
type Instruction struct {
	Op       OpCode
	Operands [4]value.Value
}

func simple(op OpCode) Instruction { return Instruction{Op: op} }

func withInt(op OpCode, n int32) Instruction {
	return Instruction{Op: op, Operands: [4]value.Value{value.Integer(n)}}
}

func withFloat(op OpCode, f float32) Instruction {
	return Instruction{Op: op, Operands: [4]value.Value{value.Float(f)}}
}

func withString(op OpCode, s string) Instruction {
	return Instruction{Op: op, Operands: [4]value.Value{value.String(s)}}
}

func withStringInt(op OpCode, s string, n int32) Instruction {
	return Instruction{Op: op, Operands: [4]value.Value{value.String(s), value.Integer(n)}}
}

// InstructionSequence is a flat, linear instruction stream. Jumps within a
// sequence are relative offsets in units of instructions, per spec.md §4.4/
// §4.5: there is no separate label-resolution pass, only already-known body
// lengths computed while lowering.
type InstructionSequence []Instruction
