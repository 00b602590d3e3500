package errors

import (
	"strings"
	"testing"

	"github.com/tqscript/tqscript/internal/lexer"
)

func TestFormatIncludesFileLineColumnAndCaret(t *testing.T) {
	err := NewCompilerError(lexer.Position{Line: 2, Column: 5}, "unexpected token", "a = 1;\nb = ;", "script.cs")
	out := err.Format(false)
	if !strings.Contains(out, "script.cs:2:5") {
		t.Fatalf("missing location header: %q", out)
	}
	if !strings.Contains(out, "b = ;") {
		t.Fatalf("missing source line: %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("missing caret: %q", out)
	}
	if !strings.Contains(out, "unexpected token") {
		t.Fatalf("missing message: %q", out)
	}
}

func TestFormatErrorsNumbersMultiple(t *testing.T) {
	errs := []*CompilerError{
		NewCompilerError(lexer.Position{Line: 1, Column: 1}, "first", "", ""),
		NewCompilerError(lexer.Position{Line: 2, Column: 1}, "second", "", ""),
	}
	out := FormatErrors(errs, false)
	if !strings.Contains(out, "2 error(s)") || !strings.Contains(out, "[Error 1 of 2]") {
		t.Fatalf("expected numbered errors, got %q", out)
	}
}

func TestFormatErrorsEmptyIsEmpty(t *testing.T) {
	if got := FormatErrors(nil, false); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
