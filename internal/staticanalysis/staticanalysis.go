// Package staticanalysis implements the static "always returns" analysis:
// deciding whether a statement or block is guaranteed to reach a return on
// every execution path, and the companion "returns-or-falls-through"
// predicate used for switch-case chaining.
package staticanalysis

import (
	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/consteval"
)

// BlockAlwaysReturns reports whether every execution path through block is
// guaranteed to reach a return, given the supplied static-scalar bindings.
func BlockAlwaysReturns(block *ast.BlockStmt, bindings consteval.Bindings) bool {
	if block == nil {
		return false
	}
	for _, s := range block.Statements {
		if StmtAlwaysReturns(s, bindings) {
			return true
		}
	}
	return false
}

// StmtAlwaysReturns reports whether stmt alone is guaranteed to return.
func StmtAlwaysReturns(stmt ast.Stmt, bindings consteval.Bindings) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.LetStmt, *ast.AssignStmt, *ast.ExprStmt, *ast.EmptyStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return false
	case *ast.BlockStmt:
		return BlockAlwaysReturns(s, bindings)
	case *ast.IfStmt:
		return ifAlwaysReturns(s, bindings)
	case *ast.WhileStmt:
		return condStaticallyTrue(s.Cond, bindings) && BlockAlwaysReturns(s.Body, bindings)
	case *ast.ForStmt:
		condOK := s.Cond == nil || condStaticallyTrue(s.Cond, bindings)
		return condOK && BlockAlwaysReturns(s.Body, bindings)
	case *ast.DoWhileStmt:
		return BlockAlwaysReturns(s.Body, bindings)
	case *ast.SwitchStmt:
		return switchAlwaysReturns(s, bindings)
	default:
		return false
	}
}

func ifAlwaysReturns(s *ast.IfStmt, bindings consteval.Bindings) bool {
	if v, ok := consteval.Eval(s.Cond, bindings); ok {
		if v != 0 {
			return BlockAlwaysReturns(s.Then, bindings)
		}
		if s.Else == nil {
			return false
		}
		return BlockAlwaysReturns(s.Else, bindings)
	}
	if s.Else == nil {
		return false
	}
	thenReturns := BlockAlwaysReturns(s.Then, bindings)
	elseReturns := BlockAlwaysReturns(s.Else, bindings)
	thenNonEmpty := len(s.Then.Statements) > 0
	elseNonEmpty := len(s.Else.Statements) > 0
	return thenReturns && elseReturns && thenNonEmpty && elseNonEmpty
}

func condStaticallyTrue(cond ast.Expr, bindings consteval.Bindings) bool {
	if cond == nil {
		return true
	}
	v, ok := consteval.Eval(cond, bindings)
	return ok && v != 0
}

func switchAlwaysReturns(s *ast.SwitchStmt, bindings consteval.Bindings) bool {
	n := len(s.Cases)
	if n == 0 {
		return false
	}
	guarantee := make([]bool, n)
	next := false
	for i := n - 1; i >= 0; i-- {
		arm := s.Cases[i]
		armAlwaysReturns := BlockAlwaysReturns(arm.Body, bindings)
		armRoF := BlockReturnsOrFallsThrough(arm.Body, bindings)
		guarantee[i] = armAlwaysReturns || (armRoF && next)
		next = guarantee[i]
	}

	if v, ok := consteval.Eval(s.Cond, bindings); ok {
		defaultIndex := -1
		for i, arm := range s.Cases {
			if arm.IsDefault {
				if defaultIndex == -1 {
					defaultIndex = i
				}
				continue
			}
			if arm.Value == v {
				return guarantee[i]
			}
		}
		if defaultIndex != -1 {
			return guarantee[defaultIndex]
		}
		return false
	}

	hasDefault := false
	for i, arm := range s.Cases {
		if arm.IsDefault {
			hasDefault = true
		}
		if !guarantee[i] {
			return false
		}
	}
	return hasDefault
}

// BlockReturnsOrFallsThrough reports whether every statement in block
// either always returns or is "fallthrough compatible":
// let/assign/expr/empty, a nested block that is itself
// returns-or-falls-through, an if whose every reachable branch
// always-returns-or-falls-through, or a nested switch (which unconditionally
// counts as falling through here, regardless of its own guarantee).
func BlockReturnsOrFallsThrough(block *ast.BlockStmt, bindings consteval.Bindings) bool {
	if block == nil {
		return true
	}
	for _, s := range block.Statements {
		if !stmtReturnsOrFallsThrough(s, bindings) {
			return false
		}
	}
	return true
}

func stmtReturnsOrFallsThrough(stmt ast.Stmt, bindings consteval.Bindings) bool {
	if StmtAlwaysReturns(stmt, bindings) {
		return true
	}
	switch s := stmt.(type) {
	case *ast.LetStmt, *ast.AssignStmt, *ast.ExprStmt, *ast.EmptyStmt:
		return true
	case *ast.BlockStmt:
		return BlockReturnsOrFallsThrough(s, bindings)
	case *ast.IfStmt:
		return ifReturnsOrFallsThrough(s, bindings)
	case *ast.SwitchStmt:
		return true
	default:
		// Break, Continue, and loop statements (While/For/DoWhile) that do
		// not already satisfy "always returns" disqualify fallthrough.
		return false
	}
}

func ifReturnsOrFallsThrough(s *ast.IfStmt, bindings consteval.Bindings) bool {
	if v, ok := consteval.Eval(s.Cond, bindings); ok {
		if v != 0 {
			return BlockReturnsOrFallsThrough(s.Then, bindings)
		}
		if s.Else == nil {
			return true
		}
		return BlockReturnsOrFallsThrough(s.Else, bindings)
	}
	thenOK := BlockReturnsOrFallsThrough(s.Then, bindings)
	elseOK := s.Else == nil || BlockReturnsOrFallsThrough(s.Else, bindings)
	return thenOK && elseOK
}
