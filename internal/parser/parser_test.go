package parser

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/tqscript/tqscript/internal/ast"
	"github.com/tqscript/tqscript/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src, true), src, "test.cs")
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return prog
}

func TestParseForLoopScenario(t *testing.T) {
	prog := parse(t, `$g = 0; for (%i = 0; %i < 10; %i++) { $g = $g + 5; }`)
	if len(prog.Nodes) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d: %s", len(prog.Nodes), prog.String())
	}
	forStmt, ok := prog.Nodes[1].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected second node to be a for statement, got %T", prog.Nodes[1])
	}
	if forStmt.Init == nil || forStmt.Condition == nil || forStmt.Advance == nil {
		t.Fatalf("expected all three for-header clauses to be present: %s", forStmt.String())
	}
}

func TestParseBracelessBodies(t *testing.T) {
	prog := parse(t, `if (1) $three = 200; else $three = 0; if (0) $four = 0; else $four = 500;`)
	if len(prog.Nodes) != 2 {
		t.Fatalf("expected 2 top-level if statements, got %d: %s", len(prog.Nodes), prog.String())
	}
	for i, n := range prog.Nodes {
		stmt, ok := n.(*ast.IfStatement)
		if !ok {
			t.Fatalf("node %d: expected IfStatement, got %T", i, n)
		}
		if len(stmt.Then.Statements) != 1 {
			t.Fatalf("node %d: expected one then statement, got %d", i, len(stmt.Then.Statements))
		}
		if stmt.Else == nil || len(stmt.Else.Statements) != 1 {
			t.Fatalf("node %d: expected one else statement, got %+v", i, stmt.Else)
		}
	}

	whileProg := parse(t, `while (%i) %i = %i - 1;`)
	ws, ok := whileProg.Nodes[0].(*ast.WhileStatement)
	if !ok || len(ws.Body.Statements) != 1 {
		t.Fatalf("expected brace-less while body with one statement, got %s", whileProg.String())
	}

	forProg := parse(t, `for (%i = 0; %i < 3; %i++) $g = $g + %i;`)
	fs, ok := forProg.Nodes[0].(*ast.ForStatement)
	if !ok || len(fs.Body.Statements) != 1 {
		t.Fatalf("expected brace-less for body with one statement, got %s", forProg.String())
	}
}

func TestParseBareIdentifierIsNameConstant(t *testing.T) {
	prog := parse(t, `$dmg = Sword.damage;`)
	stmt, ok := prog.Nodes[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", prog.Nodes[0])
	}
	assign, ok := stmt.Expr.(*ast.AssignExpression)
	if !ok {
		t.Fatalf("expected AssignExpression, got %T", stmt.Expr)
	}
	sub, ok := assign.Value.(*ast.Subreference)
	if !ok {
		t.Fatalf("expected Subreference value, got %T", assign.Value)
	}
	name, ok := sub.Left.(*ast.TypeNameExpr)
	if !ok || name.Name != "Sword" {
		t.Fatalf("expected bare name constant Sword as subreference target, got %T (%s)", sub.Left, sub.Left.String())
	}
}

func TestParseWhileLoop(t *testing.T) {
	prog := parse(t, `while (%i) { $g = $g + 1; %i = %i - 1; }`)
	stmt, ok := prog.Nodes[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("expected WhileStatement, got %T", prog.Nodes[0])
	}
	if len(stmt.Body.Statements) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(stmt.Body.Statements))
	}
}

func TestParseIfElseIfElse(t *testing.T) {
	prog := parse(t, `if (1) { $three = 200; } else if (0) { $three = 1; } else { $three = 0; }`)
	stmt, ok := prog.Nodes[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected IfStatement, got %T", prog.Nodes[0])
	}
	if len(stmt.ElseIfs) != 1 {
		t.Fatalf("expected one else-if arm, got %d", len(stmt.ElseIfs))
	}
	if stmt.Else == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestParseFunctionDeclarationWithPackage(t *testing.T) {
	prog := parse(t, `package A { function f() { return 2; } }`)
	pkg, ok := prog.Nodes[0].(*ast.PackageDeclaration)
	if !ok {
		t.Fatalf("expected PackageDeclaration, got %T", prog.Nodes[0])
	}
	if len(pkg.Declarations) != 1 || pkg.Declarations[0].Name != "f" {
		t.Fatalf("expected one function 'f', got %+v", pkg.Declarations)
	}
}

func TestParseArrayFold(t *testing.T) {
	prog := parse(t, `$result[1,2,3] = 5;`)
	stmt, ok := prog.Nodes[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", prog.Nodes[0])
	}
	assign, ok := stmt.Expr.(*ast.AssignExpression)
	if !ok {
		t.Fatalf("expected AssignExpression, got %T", stmt.Expr)
	}
	access, ok := assign.Target.(*ast.ArrayAccess)
	if !ok {
		t.Fatalf("expected ArrayAccess target, got %T", assign.Target)
	}
	if len(access.Indices) != 3 {
		t.Fatalf("expected 3 indices, got %d", len(access.Indices))
	}
}

func TestParseSwitchWithOrCaseAndDefault(t *testing.T) {
	prog := parse(t, `switch($x) { case 1: $r=10; case 2 or 3: $r=20; default: $r=-10; }`)
	stmt, ok := prog.Nodes[0].(*ast.SwitchStatement)
	if !ok {
		t.Fatalf("expected SwitchStatement, got %T", prog.Nodes[0])
	}
	if len(stmt.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(stmt.Cases))
	}
	if len(stmt.Cases[1].Exprs) != 2 {
		t.Fatalf("expected second case to have 2 matching expressions, got %d", len(stmt.Cases[1].Exprs))
	}
	if stmt.Default == nil {
		t.Fatalf("expected a default body")
	}
}

func TestParseQualifiedAndParentCalls(t *testing.T) {
	prog := parse(t, `A::f(); parent::f();`)
	if len(prog.Nodes) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Nodes))
	}
	first := prog.Nodes[0].(*ast.ExpressionStatement).Expr.(*ast.FunctionCall)
	if first.Namespace != "A" || first.Name != "f" {
		t.Fatalf("got namespace=%q name=%q", first.Namespace, first.Name)
	}
	second := prog.Nodes[1].(*ast.ExpressionStatement).Expr.(*ast.FunctionCall)
	if second.Namespace != "parent" {
		t.Fatalf("expected parent:: namespace, got %q", second.Namespace)
	}
}

func TestParseBoundMethodCall(t *testing.T) {
	prog := parse(t, `%obj.setName("foo");`)
	stmt := prog.Nodes[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expr.(*ast.BoundFunctionCall)
	if !ok {
		t.Fatalf("expected BoundFunctionCall, got %T", stmt.Expr)
	}
	if call.Name != "setName" || len(call.Args) != 1 {
		t.Fatalf("got name=%q args=%d", call.Name, len(call.Args))
	}
}

func TestParseSubreferenceChain(t *testing.T) {
	prog := parse(t, `%x = %obj.a.b;`)
	stmt := prog.Nodes[0].(*ast.ExpressionStatement)
	assign := stmt.Expr.(*ast.AssignExpression)
	sub, ok := assign.Value.(*ast.Subreference)
	if !ok {
		t.Fatalf("expected Subreference, got %T", assign.Value)
	}
	if sub.Name != "b" {
		t.Fatalf("expected outer name 'b', got %q", sub.Name)
	}
	inner, ok := sub.Left.(*ast.Subreference)
	if !ok || inner.Name != "a" {
		t.Fatalf("expected inner Subreference 'a', got %+v", sub.Left)
	}
}

func TestParseTernary(t *testing.T) {
	prog := parse(t, `%x = 1 ? 2 : 3;`)
	stmt := prog.Nodes[0].(*ast.ExpressionStatement)
	assign := stmt.Expr.(*ast.AssignExpression)
	tern, ok := assign.Value.(*ast.TernaryExpression)
	if !ok {
		t.Fatalf("expected TernaryExpression, got %T", assign.Value)
	}
	_ = tern
}

func TestParseObjectDeclarationWithNestedChild(t *testing.T) {
	prog := parse(t, `new SimGroup(MyGroup) { field = 1; new SimObject(Child) { other = 2; }; };`)
	decl, ok := prog.Nodes[0].(*ast.ObjectDeclaration)
	if !ok {
		t.Fatalf("expected ObjectDeclaration, got %T", prog.Nodes[0])
	}
	if len(decl.Fields) != 1 || len(decl.Children) != 1 {
		t.Fatalf("expected 1 field and 1 child, got %d fields %d children", len(decl.Fields), len(decl.Children))
	}
}

func TestParseDatablockWithParent(t *testing.T) {
	prog := parse(t, `datablock ItemData(Gun : Weapon) { damage = 10; };`)
	decl, ok := prog.Nodes[0].(*ast.DatablockDeclaration)
	if !ok {
		t.Fatalf("expected DatablockDeclaration, got %T", prog.Nodes[0])
	}
	if decl.ParentName != "Weapon" || len(decl.Fields) != 1 {
		t.Fatalf("got parent=%q fields=%d", decl.ParentName, len(decl.Fields))
	}
}

func TestParseConcatOperators(t *testing.T) {
	prog := parse(t, `%x = "a" SPC "b" TAB "c" NL "d" @ "e";`)
	stmt := prog.Nodes[0].(*ast.ExpressionStatement)
	assign := stmt.Expr.(*ast.AssignExpression)
	if _, ok := assign.Value.(*ast.ConcatExpression); !ok {
		t.Fatalf("expected ConcatExpression, got %T", assign.Value)
	}
}

func TestProgramStringSnapshot(t *testing.T) {
	prog := parse(t, `function f(%a, %b) { if (%a < %b) { return %a; } else { return %b; } }`)
	snaps.MatchSnapshot(t, prog.String())
}
