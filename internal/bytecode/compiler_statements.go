package bytecode

import "github.com/tqscript/tqscript/internal/ast"

// compileStatements lowers an ordered list of statements by concatenation;
// each statement leaves the operand stack at its pre-statement height, per
// spec.md §3 invariant 2.
func (c *Compiler) compileStatements(stmts []ast.Statement) InstructionSequence {
	var seq InstructionSequence
	for _, s := range stmts {
		seq = append(seq, c.compileStatement(s)...)
	}
	return seq
}

func (c *Compiler) compileStatement(s ast.Statement) InstructionSequence {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		seq := c.compileExpr(n.Expr)
		return append(seq, simple(Pop))
	case *ast.BlockStatement:
		return c.compileStatements(n.Statements)
	case *ast.IfStatement:
		return c.compileIfStatement(n)
	case *ast.WhileStatement:
		return c.compileWhileStatement(n)
	case *ast.ForStatement:
		return c.compileForStatement(n)
	case *ast.SwitchStatement:
		return c.compileSwitchStatement(n)
	case *ast.BreakStatement:
		// Placeholder opcode; rewritten to a Jump by the nearest enclosing
		// loop/switch once that construct's body length is known. A Break
		// with no enclosing construct is simply never rewritten and falls
		// through the VM's default (+1) handling, a harmless NOP.
		return InstructionSequence{simple(Break)}
	case *ast.ContinueStatement:
		return InstructionSequence{simple(Continue)}
	case *ast.ReturnStatement:
		if n.Value != nil {
			return append(c.compileExpr(n.Value), simple(Return))
		}
		return InstructionSequence{withInt(PushInteger, 0), simple(Return)}
	case *ast.FunctionDeclaration:
		return c.compileFunctionDeclaration(n)
	case *ast.PackageDeclaration:
		return c.compilePackageDeclaration(n)
	case *ast.DatablockDeclaration:
		return c.compileDatablockDeclaration(n)
	case *ast.ObjectDeclaration:
		// `new Type(...) { };` used as a bare statement: the parser hands
		// this back as a Statement directly rather than wrapping it in an
		// ExpressionStatement (see parser/statements.go), so the Pop that
		// an ExpressionStatement would normally contribute is added here.
		return append(c.compileObjectDeclaration(n), simple(Pop))
	default:
		return InstructionSequence{simple(NOP)}
	}
}

// rewriteBreak patches every placeholder Break opcode within seq[start:
// start+length) into a Jump to target. Used by loops and switch alike;
// switch does not also rewrite Continue, so a continue inside a switch
// case body passes through unresolved to whatever loop encloses the
// switch, matching C-family break/continue scoping.
func rewriteBreak(seq InstructionSequence, start, length int, target int32) {
	for local := 0; local < length; local++ {
		abs := start + local
		if seq[abs].Op == Break {
			seq[abs] = withInt(Jump, target-int32(abs))
		}
	}
}

// rewriteBreakContinue additionally resolves Continue placeholders to
// continueTarget; used by while/for, where continue has loop semantics
// rather than switch semantics.
func rewriteBreakContinue(seq InstructionSequence, start, length int, breakTarget, continueTarget int32) {
	for local := 0; local < length; local++ {
		abs := start + local
		switch seq[abs].Op {
		case Break:
			seq[abs] = withInt(Jump, breakTarget-int32(abs))
		case Continue:
			seq[abs] = withInt(Jump, continueTarget-int32(abs))
		}
	}
}

// compileIfStatement lowers `if (cond) then [else if (cond) body]* [else
// body]` into a cascade of JumpFalse-guarded branches each terminated by a
// Jump to a shared end NOP, per spec.md §4.4. The branches are assembled
// forward with their JumpFalse/Jump targets backpatched once known, rather
// than the teacher's emit-in-reverse order; the resulting bytecode shape
// is identical.
func (c *Compiler) compileIfStatement(n *ast.IfStatement) InstructionSequence {
	var seq InstructionSequence
	var endFixups []int32

	emitBranch := func(cond ast.Expression, body *ast.BlockStatement) {
		seq = append(seq, c.compileExpr(cond)...)
		jfIdx := int32(len(seq))
		seq = append(seq, simple(NOP))
		seq = append(seq, c.compileStatements(body.Statements)...)
		jIdx := int32(len(seq))
		seq = append(seq, simple(NOP))
		endFixups = append(endFixups, jIdx)
		nextStart := int32(len(seq))
		seq[jfIdx] = withInt(JumpFalse, nextStart-jfIdx)
	}

	emitBranch(n.Condition, n.Then)
	for _, ei := range n.ElseIfs {
		emitBranch(ei.Condition, ei.Body)
	}
	if n.Else != nil {
		seq = append(seq, c.compileStatements(n.Else.Statements)...)
	}

	endIdx := int32(len(seq))
	seq = append(seq, simple(NOP))
	for _, idx := range endFixups {
		seq[idx] = withInt(Jump, endIdx-idx)
	}
	return seq
}

// compileWhileStatement lowers `while (cond) body` per spec.md §4.4: cond;
// JumpFalse(past the loop); body; Jump(back to cond); NOP. break targets
// the trailing NOP, continue targets the condition.
func (c *Compiler) compileWhileStatement(n *ast.WhileStatement) InstructionSequence {
	var seq InstructionSequence
	condStart := int32(len(seq))
	seq = append(seq, c.compileExpr(n.Condition)...)

	jfIdx := int32(len(seq))
	seq = append(seq, simple(NOP))

	bodyStart := int(len(seq))
	body := c.compileStatements(n.Body.Statements)
	seq = append(seq, body...)

	backJumpIdx := int32(len(seq))
	seq = append(seq, withInt(Jump, condStart-backJumpIdx))

	nopIdx := int32(len(seq))
	seq = append(seq, simple(NOP))

	seq[jfIdx] = withInt(JumpFalse, nopIdx-jfIdx)
	rewriteBreakContinue(seq, bodyStart, len(body), nopIdx, condStart)
	return seq
}

// compileForStatement lowers `for (init; cond; advance) body` per
// spec.md §4.4. continue targets the advance code, not the condition,
// which is the one place for's lowering diverges from while's.
func (c *Compiler) compileForStatement(n *ast.ForStatement) InstructionSequence {
	var seq InstructionSequence
	if n.Init != nil {
		seq = append(seq, c.compileExpr(n.Init)...)
		seq = append(seq, simple(Pop))
	}

	condStart := int32(len(seq))
	if n.Condition != nil {
		seq = append(seq, c.compileExpr(n.Condition)...)
	} else {
		seq = append(seq, withInt(PushInteger, 1))
	}

	jfIdx := int32(len(seq))
	seq = append(seq, simple(NOP))

	bodyStart := int(len(seq))
	body := c.compileStatements(n.Body.Statements)
	seq = append(seq, body...)

	advanceStart := int32(len(seq))
	if n.Advance != nil {
		seq = append(seq, c.compileExpr(n.Advance)...)
		seq = append(seq, simple(Pop))
	}

	backJumpIdx := int32(len(seq))
	seq = append(seq, withInt(Jump, condStart-backJumpIdx))

	nopIdx := int32(len(seq))
	seq = append(seq, simple(NOP))

	seq[jfIdx] = withInt(JumpFalse, nopIdx-jfIdx)
	rewriteBreakContinue(seq, bodyStart, len(body), nopIdx, advanceStart)
	return seq
}

// compileSwitchStatement lowers `switch (subject) { case e1 or e2: body;
// ... default: body; }` per spec.md §4.4. Each case's expressions are
// probed left to right: every probe but the last uses JumpTrue to enter
// the body early; the last probe uses JumpFalse to fall through to the
// next case's probes (or the default body, for the last case). Every
// case body ends with an unconditional Jump to the shared end NOP, which
// also serves as break's target.
func (c *Compiler) compileSwitchStatement(n *ast.SwitchStatement) InstructionSequence {
	var seq InstructionSequence
	var endFixups []int32

	for _, cs := range n.Cases {
		var trueFixups []int32
		var falseFixup int32 = -1

		for i, expr := range cs.Exprs {
			seq = append(seq, c.compileExpr(expr)...)
			seq = append(seq, c.compileExpr(n.Subject)...)
			seq = append(seq, simple(Equals))
			idx := int32(len(seq))
			seq = append(seq, simple(NOP))
			if i < len(cs.Exprs)-1 {
				trueFixups = append(trueFixups, idx)
			} else {
				falseFixup = idx
			}
		}

		bodyStart := int32(len(seq))
		for _, idx := range trueFixups {
			seq[idx] = withInt(JumpTrue, bodyStart-idx)
		}

		body := c.compileStatements(cs.Body)
		seq = append(seq, body...)
		endJumpIdx := int32(len(seq))
		seq = append(seq, simple(NOP))
		endFixups = append(endFixups, endJumpIdx)

		nextStart := int32(len(seq))
		if falseFixup >= 0 {
			seq[falseFixup] = withInt(JumpFalse, nextStart-falseFixup)
		}
	}

	body := c.compileStatements(n.Default)
	seq = append(seq, body...)

	endIdx := int32(len(seq))
	seq = append(seq, simple(NOP))
	for _, idx := range endFixups {
		seq[idx] = withInt(Jump, endIdx-idx)
	}
	// Break placeholders anywhere in the switch (case bodies and default)
	// target the end NOP; continue is left untouched for an enclosing loop.
	rewriteBreak(seq, 0, len(seq), endIdx)
	return seq
}
