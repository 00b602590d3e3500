package ast

import (
	"testing"

	"github.com/tqscript/tqscript/internal/lexer"
)

func ident(lit string) lexer.Token {
	return lexer.Token{Type: lexer.IDENT, Literal: lit}
}

func TestProgramStringConcatenatesNodes(t *testing.T) {
	prog := &Program{Nodes: []Node{
		&ExpressionStatement{Token: ident("a"), Expr: &IntegerLiteral{Token: ident("1"), Value: 1}},
		&ExpressionStatement{Token: ident("b"), Expr: &IntegerLiteral{Token: ident("2"), Value: 2}},
	}}
	if got := prog.String(); got != "1;2;" {
		t.Fatalf("Program.String() = %q", got)
	}
}

func TestVarReferenceStringUsesSigil(t *testing.T) {
	local := &VarReference{Kind: LocalVar, Name: "a::b"}
	global := &VarReference{Kind: GlobalVar, Name: "g"}
	if local.String() != "%a::b" {
		t.Fatalf("local.String() = %q", local.String())
	}
	if global.String() != "$g" {
		t.Fatalf("global.String() = %q", global.String())
	}
}

func TestIfStatementStringIncludesElseIfAndElse(t *testing.T) {
	stmt := &IfStatement{
		Token:     ident("if"),
		Condition: &IntegerLiteral{Token: ident("1"), Value: 1},
		Then:      &BlockStatement{Token: ident("{")},
		ElseIfs: []ElseIfClause{
			{Condition: &IntegerLiteral{Token: ident("2"), Value: 2}, Body: &BlockStatement{Token: ident("{")}},
		},
		Else: &BlockStatement{Token: ident("{")},
	}
	got := stmt.String()
	if got == "" {
		t.Fatalf("expected non-empty String()")
	}
	for _, want := range []string{"if (1)", "else if (2)", "else {}"} {
		if !contains(got, want) {
			t.Fatalf("String() = %q, missing %q", got, want)
		}
	}
}

func TestFunctionCallStringQualifiesNamespace(t *testing.T) {
	call := &FunctionCall{Token: ident("f"), Namespace: "NS", Name: "f", Args: []Expression{
		&IntegerLiteral{Token: ident("1"), Value: 1},
	}}
	if got := call.String(); got != "NS::f(1)" {
		t.Fatalf("got %q", got)
	}
}

func TestSubreferenceChainIsLeftAssociative(t *testing.T) {
	base := &VarReference{Kind: LocalVar, Name: "obj"}
	chain := &Subreference{Left: &Subreference{Left: base, Name: "b"}, Name: "c"}
	if got := chain.String(); got != "%obj.b.c" {
		t.Fatalf("got %q", got)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (func() bool {
		for i := 0; i+len(needle) <= len(haystack); i++ {
			if haystack[i:i+len(needle)] == needle {
				return true
			}
		}
		return false
	})()
}
