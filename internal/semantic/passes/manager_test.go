package passes

import (
	"testing"

	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/config"
	"github.com/gkampitakis/go-snaps/snaps"
)

func TestPassManagerNilProgram(t *testing.T) {
	result := NewPassManager(config.DefaultOptions()).Run(nil)
	if result.Executed {
		t.Fatalf("result.Executed = true, want false for a nil program")
	}
	if result.Surface != nil {
		t.Fatalf("result.Surface = %v, want nil", result.Surface)
	}
}

func TestPassManagerRunsAllThreePassesUnconditionally(t *testing.T) {
	// Even though the surface pass reports a duplicate global, bodies and
	// pure-contract still run over the rest of the program unconditionally.
	program := &ast.Program{
		Globals: []*ast.GlobalDecl{
			{Name: "g", Value: numExpr(1)},
			{Name: "g", Value: numExpr(2)},
		},
		Functions: []*ast.FunctionDecl{
			pureFn("compute", &ast.ReturnStmt{Value: &ast.MessageSendExpr{Receiver: numExpr(1), Selector: "s"}}),
		},
	}
	result := NewPassManager(config.DefaultOptions()).Run(program)

	if !result.Executed {
		t.Fatalf("result.Executed = false, want true")
	}
	if result.DiagnosticsEmittedByPass[0] == 0 {
		t.Fatalf("pass 0 (surface) emitted no diagnostics, want the duplicate-global diagnostic")
	}
	if result.DiagnosticsEmittedByPass[2] == 0 {
		t.Fatalf("pass 2 (pure-contract) emitted no diagnostics, want the message-send violation")
	}
	if result.DiagnosticsAfterPass[2] != len(result.Diagnostics) {
		t.Fatalf("DiagnosticsAfterPass[2] = %d, want %d (total diagnostic count)", result.DiagnosticsAfterPass[2], len(result.Diagnostics))
	}
}

func TestPassManagerBuildsDeterministicHandoff(t *testing.T) {
	program := &ast.Program{
		Globals: []*ast.GlobalDecl{{Name: "a", Value: numExpr(1)}},
		Functions: []*ast.FunctionDecl{
			fn("get", i32Ann(), nil, &ast.ReturnStmt{Value: numExpr(1)}),
		},
	}
	result := NewPassManager(config.DefaultOptions()).Run(program)
	if !result.DeterministicHandoff {
		t.Fatalf("result.DeterministicHandoff = false, want true")
	}
	if len(result.Handoff.Globals) != 1 || result.Handoff.Globals[0].Name != "a" {
		t.Fatalf("result.Handoff.Globals = %+v, want [a]", result.Handoff.Globals)
	}
}

func TestPassManagerSnapshotCleanProgram(t *testing.T) {
	program := &ast.Program{
		Globals: []*ast.GlobalDecl{{Name: "counter", Value: numExpr(0)}},
		Functions: []*ast.FunctionDecl{
			pureFn("square", &ast.ReturnStmt{Value: &ast.BinaryExpr{Op: "*", Left: &ast.Identifier{Name: "x"}, Right: &ast.Identifier{Name: "x"}}}),
		},
		Interfaces: []*ast.InterfaceDecl{
			{Name: "Shape", Methods: []ast.MethodDecl{{Selector: "area", Return: i32Ann()}}},
		},
		Implementations: []*ast.ImplementationDecl{
			{Name: "Shape", Methods: []ast.MethodDecl{{Selector: "area", Return: i32Ann(), Body: &ast.BlockStmt{Statements: []ast.Stmt{&ast.ReturnStmt{Value: numExpr(1)}}}}}},
		},
	}
	// square's param "x" is never declared, so this program is expected to
	// carry exactly one undefined-identifier diagnostic per use, folded into
	// an otherwise representative handoff snapshot.
	result := NewPassManager(config.DefaultOptions()).Run(program)
	snaps.MatchSnapshot(t, "diagnostics", result.Diagnostics)
	snaps.MatchSnapshot(t, "handoff", result.Handoff)
}
