package semantic

import (
	"strings"
	"testing"

	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/semtype"
)

func TestErrDuplicateSymbolWireFormat(t *testing.T) {
	got := ErrDuplicateSymbol(ast.Position{Line: 1, Column: 2}, "global", "x")
	want := "error:1:2: duplicate global 'x' [O3S200]"
	if got != want {
		t.Fatalf("ErrDuplicateSymbol() = %q, want %q", got, want)
	}
}

func TestErrTypeMismatch(t *testing.T) {
	got := ErrTypeMismatch(ast.Position{Line: 4, Column: 5}, semtype.Scalar(semtype.I32), semtype.Scalar(semtype.Bool))
	want := "error:4:5: expected type 'i32', got 'bool' [O3S206]"
	if got != want {
		t.Fatalf("ErrTypeMismatch() = %q, want %q", got, want)
	}
}

func TestErrMissingReturn(t *testing.T) {
	got := ErrMissingReturn(ast.Position{Line: 10, Column: 1}, "compute")
	if !strings.Contains(got, "'compute'") || !strings.HasSuffix(got, "[O3S205]") {
		t.Fatalf("ErrMissingReturn() = %q, missing expected name/code", got)
	}
}

func TestErrPureContractViolationExactWording(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 1}
	causePos := ast.Position{Line: 9, Column: 3}
	got := ErrPureContractViolation(pos, "compute", "global-write", causePos)
	want := "error:1:1: pure contract violation: function 'compute' declared 'pure' has side effects (cause: global-write; cause-site:9:3; detail:global-write@9:3) [O3S215]"
	if got != want {
		t.Fatalf("ErrPureContractViolation() = %q, want %q", got, want)
	}
}

func TestErrArityMismatch(t *testing.T) {
	got := ErrArityMismatch(ast.Position{Line: 2, Column: 2}, "f", 2, 1)
	if !strings.Contains(got, "expects 2 argument(s), got 1") {
		t.Fatalf("ErrArityMismatch() = %q, missing expected counts", got)
	}
}
