package semantic

import (
	"fmt"

	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/diagnostics"
	"github.com/doublemover/objc3sema/internal/semtype"
)

// The constructors below are the vocabulary the three passes use to build
// diagnostic strings in the wire format. Each wraps diagnostics.Make with a
// fixed message template for one code, so a pass site never hand-assembles
// the "error:<line>:<col>: ... [<code>]" shape.

func ErrDuplicateSymbol(pos ast.Position, kind, name string) string {
	return diagnostics.Make(pos, diagnostics.DuplicateSymbol, fmt.Sprintf("duplicate %s '%s'", kind, name))
}

func ErrNonConstantGlobal(pos ast.Position, name string) string {
	return diagnostics.Make(pos, diagnostics.NonConstantGlobal, fmt.Sprintf("initializer for global '%s' is not a constant expression", name))
}

func ErrScopeRedeclaration(pos ast.Position, name string) string {
	return diagnostics.Make(pos, diagnostics.ScopeRedeclaration, fmt.Sprintf("'%s' is already declared in this scope", name))
}

func ErrUndefinedIdentifier(pos ast.Position, name string) string {
	return diagnostics.Make(pos, diagnostics.UndefinedIdentifier, fmt.Sprintf("undefined identifier '%s'", name))
}

func ErrUnknownFunction(pos ast.Position, name string) string {
	return diagnostics.Make(pos, diagnostics.UnknownFunction, fmt.Sprintf("call to unknown function '%s'", name))
}

func ErrArityMismatch(pos ast.Position, name string, expected, got int) string {
	return diagnostics.Make(pos, diagnostics.ArityMismatch, fmt.Sprintf("'%s' expects %d argument(s), got %d", name, expected, got))
}

func ErrMissingReturn(pos ast.Position, name string) string {
	return diagnostics.Make(pos, diagnostics.MissingReturn, fmt.Sprintf("function '%s' does not return a value on every path", name))
}

func ErrTypeMismatch(pos ast.Position, expected, got semtype.Type) string {
	return diagnostics.Make(pos, diagnostics.TypeMismatch, fmt.Sprintf("expected type '%s', got '%s'", semtype.Name(expected), semtype.Name(got)))
}

func ErrTypeMismatchDetail(pos ast.Position, detail string) string {
	return diagnostics.Make(pos, diagnostics.TypeMismatch, detail)
}

func ErrMessageReceiverType(pos ast.Position) string {
	return diagnostics.Make(pos, diagnostics.MessageReceiverType, "message-send receiver is not i32-compatible")
}

func ErrMessageArityMismatch(pos ast.Position, got, max int) string {
	return diagnostics.Make(pos, diagnostics.MessageArityMismatch, fmt.Sprintf("message-send argument count %d exceeds the configured maximum of %d", got, max))
}

func ErrMessageArgumentType(pos ast.Position, index int) string {
	return diagnostics.Make(pos, diagnostics.MessageArgumentType, fmt.Sprintf("message-send argument %d is not i32-compatible", index))
}

func ErrReturnTypeMismatch(pos ast.Position, name string, expected, got semtype.Type) string {
	return diagnostics.Make(pos, diagnostics.ReturnTypeMismatch, fmt.Sprintf("function '%s' returns '%s', got '%s'", name, semtype.Name(expected), semtype.Name(got)))
}

func ErrBreakOutsideLoop(pos ast.Position) string {
	return diagnostics.Make(pos, diagnostics.BreakOutsideLoop, "break statement outside any loop or switch")
}

func ErrContinueOutsideLoop(pos ast.Position) string {
	return diagnostics.Make(pos, diagnostics.ContinueOutsideLoop, "continue statement outside any loop")
}

func ErrUndefinedAssignmentTarget(pos ast.Position, name string) string {
	return diagnostics.Make(pos, diagnostics.UndefinedAssignmentTarget, fmt.Sprintf("assignment target '%s' is not declared", name))
}

// ErrPureContractViolation renders O3S215 with the exact wording and
// parenthetical layout objc3_pure_contract.cpp's MakeDiag produces: a cause
// token, the site the cause was attributed to, and a detail token repeating
// that same site (this implementation does not distinguish a cause token
// from a more specific detail token, so both name the same effect).
func ErrPureContractViolation(pos ast.Position, name, cause string, causePos ast.Position) string {
	return diagnostics.Make(pos, diagnostics.PureContractViolation, fmt.Sprintf(
		"pure contract violation: function '%s' declared 'pure' has side effects (cause: %s; cause-site:%d:%d; detail:%s@%d:%d)",
		name, cause, causePos.Line, causePos.Column, cause, causePos.Line, causePos.Column))
}
