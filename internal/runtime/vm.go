package runtime

import (
	"fmt"
	"strings"

	"github.com/tqscript/tqscript/internal/bytecode"
	"github.com/tqscript/tqscript/internal/stringtable"
	"github.com/tqscript/tqscript/internal/value"
)

// run executes one instruction sequence in a fresh frame and returns the
// value a Return instruction left (or 0 if control fell off the end,
// which only happens for hand-built sequences and top-level code — every
// compiler-generated function body ends with an explicit `return 0`, per
// Compiler.compileFunctionDeclaration). functions is the declared-function
// table RegisterFunction indexes into. args are bound to registers 0..n-1,
// matching the parameter order Compiler.compileFunctionDeclaration
// allocates them in; when bound is true, this is prepended ahead of args
// so the first declared parameter receives the bound object's integer ID,
// per spec.md §4.6's argument-marshalling rule, and every other parameter
// shifts down by one register. Independently of the parameter list, a
// bound call also writes the object's ID into the register the body's
// `%this` local compiled to (FunctionValue.ThisReg), so `%this` works in
// methods that never declare it.
func (s *State) run(code bytecode.InstructionSequence, functions []*bytecode.Function, fnVal *FunctionValue, this value.Value, bound bool, args []value.Value) (value.Value, error) {
	if s.MaxRecursionDepth > 0 && int32(len(s.frames)) >= s.MaxRecursionDepth {
		return value.Integer(0), fmt.Errorf("tqscript: max recursion depth %d exceeded", s.MaxRecursionDepth)
	}

	frame := NewFrame(fnVal)
	frame.This = this
	frame.Bound = bound
	frame.Functions = functions

	effectiveArgs := args
	if bound {
		effectiveArgs = make([]value.Value, 0, len(args)+1)
		effectiveArgs = append(effectiveArgs, this)
		effectiveArgs = append(effectiveArgs, args...)
	}
	if fnVal != nil && len(effectiveArgs) > len(fnVal.Params) {
		// Excess arguments are discarded rather than bound: registers past
		// the parameter list belong to the body's other locals.
		effectiveArgs = effectiveArgs[:len(fnVal.Params)]
	}
	for i, a := range effectiveArgs {
		*frame.Register(int32(i)) = a.Deref()
	}
	if bound && fnVal != nil && fnVal.ThisReg >= 0 {
		// The implicit `%this` local, bound regardless of the declared
		// parameter list (covers methods that never declare %this, and a
		// parameterless method where the prepended argument was truncated).
		*frame.Register(fnVal.ThisReg) = this.Deref()
	}

	s.frames = append(s.frames, frame)
	defer func() { s.frames = s.frames[:len(s.frames)-1] }()

	ip := 0
	for ip < len(code) {
		instr := code[ip]
		switch instr.Op {
		case bytecode.Jump:
			ip += int(instr.Operands[0].ToInteger())
			continue
		case bytecode.JumpTrue:
			if frame.Pop().ToBool() {
				ip += int(instr.Operands[0].ToInteger())
				continue
			}
		case bytecode.JumpFalse:
			if !frame.Pop().ToBool() {
				ip += int(instr.Operands[0].ToInteger())
				continue
			}
		case bytecode.Return:
			return frame.Pop().Deref(), nil

		case bytecode.NOP, bytecode.Break, bytecode.Continue, bytecode.PopObjectField:
			// Break/Continue reaching the VM means they had no enclosing
			// loop/switch to rewrite them into a Jump; treat as a NOP
			// rather than faulting, matching §4.8's non-fatal posture.

		case bytecode.PushFloat, bytecode.PushInteger, bytecode.PushString:
			frame.Push(instr.Operands[0])

		case bytecode.PushLocalReference:
			frame.Push(value.Ref(frame.Register(instr.Operands[0].ToInteger())))

		case bytecode.PushGlobalReference:
			id := stringtable.ID(instr.Operands[0].ToInteger())
			frame.Push(value.Ref(s.GlobalByID(id)))

		case bytecode.Pop:
			frame.Pop()

		case bytecode.Negate:
			frame.Push(value.Negate(frame.Pop()))

		case bytecode.Not:
			frame.Push(value.Not(frame.Pop()))

		case bytecode.Add, bytecode.Minus, bytecode.Multiply, bytecode.Divide,
			bytecode.Modulus, bytecode.BitwiseOr, bytecode.BitwiseAnd,
			bytecode.LessThan, bytecode.GreaterThan, bytecode.GreaterThanOrEqual,
			bytecode.Equals, bytecode.NotEquals, bytecode.StringEquals,
			bytecode.StringNotEquals, bytecode.LogicalAnd, bytecode.LogicalOr:
			vs := frame.PopN(2)
			frame.Push(applyBinary(instr.Op, vs[0], vs[1]))

		case bytecode.Concat:
			vs := frame.PopN(2)
			frame.Push(value.Concat(vs[0], vs[1], instr.Operands[0].ToString()))

		case bytecode.Assignment:
			vs := frame.PopN(2)
			target, val := vs[0], vs[1]
			result := val.Deref()
			if target.Writable() {
				target.SetValue(val)
			} else {
				s.logWarning("assignment to a non-lvalue is a no-op")
			}
			frame.Push(result)

		case bytecode.AddAssignment:
			vs := frame.PopN(2)
			target, delta := vs[0], vs[1]
			result := value.Add(target.Deref(), delta)
			if target.Writable() {
				target.SetValue(result)
			} else {
				s.logWarning("increment of a non-lvalue is a no-op")
			}
			frame.Push(result)

		case bytecode.AccessArray:
			base := instr.Operands[0].ToString()
			count := instr.Operands[1].ToInteger()
			isGlobal := instr.Operands[2].ToInteger()
			indices := frame.PopN(count)
			name := foldArrayName(base, indices)
			if isGlobal != 0 {
				frame.Push(value.Ref(s.Global(name)))
			} else {
				frame.Push(value.Ref(frame.Named(s.Strings.Fold(name))))
			}

		case bytecode.Subreference:
			name := instr.Operands[0].ToString()
			count := instr.Operands[1].ToInteger()
			indices := frame.PopN(count)
			target := frame.Pop()
			key := foldArrayName(name, indices)
			obj, ok := s.Objects.Resolve(target.Deref())
			if !ok {
				s.logWarning("field access to %q on an unresolved object", key)
				frame.Push(value.Integer(0))
				break
			}
			frame.Push(obj.FieldRef(s.Strings.Fold(key)))

		case bytecode.CallFunction:
			ns := instr.Operands[0].ToString()
			name := instr.Operands[1].ToString()
			argc := instr.Operands[2].ToInteger()
			callArgs := frame.PopN(argc)

			var fn *FunctionValue
			var found bool
			isParent := strings.EqualFold(ns, "parent")
			if isParent {
				if frame.Function == nil {
					s.logError("parent:: called with no enclosing function")
					frame.Push(value.Integer(0))
					break
				}
				fn, found = s.Functions.ResolveParent(frame.Function.Package, frame.Function.Namespace, frame.Function.Name)
			} else {
				fn, found = s.Functions.Resolve(ns, name)
			}
			if !found {
				s.logError("unknown function %q", qualifiedName(ns, name))
				frame.Push(value.Integer(0))
				break
			}
			if isParent {
				// parent::name carries forward the caller's own binding, so
				// a parent-chain method call keeps seeing the same `this`.
				frame.Push(s.invoke(fn, frame.This, frame.Bound, callArgs))
			} else {
				frame.Push(s.invoke(fn, value.Integer(0), false, callArgs))
			}

		case bytecode.CallBoundFunction:
			name := instr.Operands[0].ToString()
			argc := instr.Operands[1].ToInteger()
			callArgs := frame.PopN(argc)
			target := frame.Pop()

			obj, ok := s.Objects.Resolve(target.Deref())
			if !ok {
				s.logError("unable to resolve bound call target for %q", name)
				frame.Push(value.Integer(0))
				break
			}
			var fn *FunctionValue
			for _, cls := range s.Objects.Hierarchy(obj.Class) {
				if f, found := s.Functions.Resolve(cls, name); found {
					fn = f
					break
				}
			}
			if fn == nil {
				s.logError("unable to find method %q on class %q", name, obj.Class)
				frame.Push(value.Integer(0))
				break
			}
			frame.Push(s.invoke(fn, value.Integer(obj.ID), true, callArgs))

		case bytecode.PushObjectInstantiation:
			vs := frame.PopN(2)
			frame.PushPending(&ObjectInstantiation{
				TypeName:    vs[0].ToString(),
				Name:        vs[1].ToString(),
				Parent:      instr.Operands[0].ToString(),
				IsDatablock: instr.Operands[1].ToInteger() != 0,
			})

		case bytecode.PushObjectField:
			count := instr.Operands[0].ToInteger()
			vs := frame.PopN(count + 2)
			name := vs[0].ToString()
			key := foldArrayName(name, vs[1:1+count])
			val := vs[1+count]
			if pending := frame.TopPending(); pending != nil {
				pending.Fields = append(pending.Fields, FieldAssignment{Name: key, Value: val.Deref()})
			}

		case bytecode.PopObjectInstantiation:
			desc := frame.PopPending()
			if desc == nil {
				break
			}
			if frame.PendingDepth() > 0 {
				parent := frame.TopPending()
				parent.Children = append(parent.Children, desc)
				break
			}
			obj, ok := s.Objects.Instantiate(desc)
			if !ok {
				s.logError("unable to instantiate object of type %q", desc.TypeName)
				frame.Push(value.Integer(0))
				break
			}
			frame.Push(value.Integer(obj.ID))

		case bytecode.RegisterFunction:
			idx := instr.Operands[0].ToInteger()
			if idx >= 0 && int(idx) < len(functions) {
				s.registerFunctionFrom(functions[idx], functions)
			}

		default:
			// Unreachable for a compiler-produced sequence; tolerated as a
			// NOP so a hand-built InstructionSequence never panics the VM.
		}
		ip++
	}
	return frame.ReturnValue(), nil
}

// invoke calls fn with the given bound receiver (Integer(0) for an unbound
// call) and arguments, routing through Trace if one is attached and never
// letting a recursion-depth overflow propagate past a single call — it is
// logged and treated as a 0 result, per spec.md §4.8. bound indicates a
// CallBoundFunction invocation, per spec.md §4.6's "first declared
// parameter receives the this object's integer ID" marshalling rule;
// native functions still receive `this` directly since they read their own
// argument vector rather than a register file.
func (s *State) invoke(fn *FunctionValue, this value.Value, bound bool, args []value.Value) value.Value {
	if s.Trace != nil {
		s.Trace.OnCall(fn.Package, fn.Namespace, fn.Name, args)
	}

	var result value.Value
	switch {
	case fn.Native != nil:
		result = fn.Native(s, this, args)
	default:
		v, err := s.run(fn.Body, fn.Functions, fn, this, bound, args)
		if err != nil {
			s.logError("%s", err)
			result = value.Integer(0)
		} else {
			result = v
		}
	}

	if s.Trace != nil {
		s.Trace.OnReturn(fn.Package, fn.Namespace, fn.Name, result)
	}
	return result
}

// foldArrayName folds a base identifier and its index values into the
// synthetic identifier the compiler's AccessArray/Subreference/
// PushObjectField operands describe, per spec.md §4.4's array-name-folding
// rule: name_i_j_k, built from the indices' string forms, or the bare name
// when there are no indices.
func foldArrayName(base string, indices []value.Value) string {
	if len(indices) == 0 {
		return base
	}
	var sb strings.Builder
	sb.WriteString(base)
	for _, idx := range indices {
		sb.WriteByte('_')
		sb.WriteString(idx.ToString())
	}
	return sb.String()
}

func qualifiedName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "::" + name
}

// applyBinary dispatches the two-operand arithmetic/comparison opcodes to
// their internal/value implementation.
func applyBinary(op bytecode.OpCode, a, b value.Value) value.Value {
	switch op {
	case bytecode.Add:
		return value.Add(a, b)
	case bytecode.Minus:
		return value.Sub(a, b)
	case bytecode.Multiply:
		return value.Mul(a, b)
	case bytecode.Divide:
		return value.Div(a, b)
	case bytecode.Modulus:
		return value.Mod(a, b)
	case bytecode.BitwiseOr:
		return value.BitwiseOr(a, b)
	case bytecode.BitwiseAnd:
		return value.Integer(a.ToInteger() & b.ToInteger())
	case bytecode.LessThan:
		return value.LessThan(a, b)
	case bytecode.GreaterThan:
		return value.GreaterThan(a, b)
	case bytecode.GreaterThanOrEqual:
		return value.GreaterThanOrEqual(a, b)
	case bytecode.Equals:
		return value.Equals(a, b)
	case bytecode.NotEquals:
		return value.NotEquals(a, b)
	case bytecode.StringEquals:
		return value.StringEquals(a, b)
	case bytecode.StringNotEquals:
		return value.StringNotEquals(a, b)
	case bytecode.LogicalAnd:
		return value.LogicalAnd(a, b)
	case bytecode.LogicalOr:
		return value.LogicalOr(a, b)
	default:
		return value.Integer(0)
	}
}
