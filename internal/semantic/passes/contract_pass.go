package passes

import (
	"sort"

	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/config"
	"github.com/doublemover/objc3sema/internal/semantic"
	"github.com/doublemover/objc3sema/internal/semtype"
)

// PureContractPass implements Pass 3: Pure-Contract Validation.
//
// A function declared pure may not write a global, send a message, or call
// (transitively) anything that isn't provably pure itself. Purity is an
// interprocedural fixpoint: a function's own direct effects are collected
// first, then impurity propagates along the call graph until nothing
// changes. Only free functions carry the pure annotation; implementation
// methods are out of scope, matching the annotation's grammar.
type PureContractPass struct{}

// NewPureContractPass creates a new pure-contract validation pass.
func NewPureContractPass() *PureContractPass { return &PureContractPass{} }

// Name returns this pass's identifier.
func (p *PureContractPass) Name() string { return "pure-contract" }

// Run computes the effect set of every function, propagates impurity across
// the call graph to a fixpoint, and reports O3S215 for every function
// annotated pure that turns out not to be.
func (p *PureContractPass) Run(program *ast.Program, surface *semantic.Surface, opts config.Options) []string {
	effects := make(map[string]functionEffects, len(program.Functions))
	// First declaration wins: a function redeclared later (whose merged
	// surface entry already reflects the OR of all declarations) still only
	// contributes effects from its first body.
	for _, fn := range program.Functions {
		if _, seen := effects[fn.Name]; seen {
			continue
		}
		effects[fn.Name] = collectFunctionEffects(fn, surface.Globals)
	}

	names := make([]string, 0, len(effects))
	for name := range effects {
		names = append(names, name)
	}
	sort.Strings(names)

	impure := make(map[string]bool, len(names))
	cause := make(map[string]string, len(names))
	causePos := make(map[string]ast.Position, len(names))

	for _, name := range names {
		eff := effects[name]
		// Global-write always takes priority over message-send when a
		// function has both, regardless of which occurs first in source
		// order.
		if eff.HasDirectGlobalWrite {
			impure[name], cause[name], causePos[name] = true, "global-write", eff.DirectGlobalWritePos
		} else if eff.HasDirectMessageSend {
			impure[name], cause[name], causePos[name] = true, "message-send", eff.DirectMessageSendPos
		}
	}

	for changed := true; changed; {
		changed = false
		for _, name := range names {
			if impure[name] {
				continue
			}
			for _, call := range effects[name].Calls {
				if _, known := effects[call.Callee]; !known {
					impure[name] = true
					cause[name] = "unannotated-extern-call:" + call.Callee
					causePos[name] = call.Pos
					changed = true
					break
				}
				if impure[call.Callee] {
					impure[name] = true
					cause[name] = "impure-callee:" + call.Callee
					causePos[name] = call.Pos
					changed = true
					break
				}
			}
		}
	}

	var diags []string
	for _, fn := range program.Functions {
		info := surface.Functions[fn.Name]
		if info == nil || !info.IsPureAnnotation {
			continue
		}
		if impure[fn.Name] {
			diags = append(diags, semantic.ErrPureContractViolation(fn.Location, fn.Name, cause[fn.Name], causePos[fn.Name]))
		}
	}
	return diags
}

type call struct {
	Callee string
	Pos    ast.Position
}

type functionEffects struct {
	HasDirectGlobalWrite bool
	DirectGlobalWritePos ast.Position
	HasDirectMessageSend bool
	DirectMessageSendPos ast.Position
	Calls                []call
	seenCallees          map[string]bool
}

// collectFunctionEffects walks fn's body tracking which names are locally
// bound so an assignment target resolves to either a local (no effect) or a
// global (a direct impurity), recording the first call site per distinct
// callee and the first message-send site encountered anywhere in the body.
func collectFunctionEffects(fn *ast.FunctionDecl, globals map[string]semtype.ValueType) functionEffects {
	eff := &functionEffects{seenCallees: map[string]bool{}}
	if fn.Body == nil {
		return *eff
	}
	scope := semantic.NewSymbolTable()
	for _, p := range fn.Params {
		scope.Define(p.Name, semtype.Type{})
	}
	collectBlock(fn.Body, scope, globals, eff)
	return *eff
}

func collectBlock(block *ast.BlockStmt, scope *semantic.SymbolTable, globals map[string]semtype.ValueType, eff *functionEffects) {
	if block == nil {
		return
	}
	for _, s := range block.Statements {
		collectStmt(s, scope, globals, eff)
	}
}

func collectStmt(stmt ast.Stmt, scope *semantic.SymbolTable, globals map[string]semtype.ValueType, eff *functionEffects) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		collectExpr(s.Value, scope, globals, eff)
		scope.Define(s.Name, semtype.Type{})
	case *ast.AssignStmt:
		if _, local := scope.Resolve(s.Target); !local {
			if _, isGlobal := globals[s.Target]; isGlobal {
				if !eff.HasDirectGlobalWrite {
					eff.HasDirectGlobalWrite, eff.DirectGlobalWritePos = true, s.Location
				}
			}
		}
		collectExpr(s.Value, scope, globals, eff)
	case *ast.ReturnStmt:
		collectExpr(s.Value, scope, globals, eff)
	case *ast.ExprStmt:
		collectExpr(s.Value, scope, globals, eff)
	case *ast.BlockStmt:
		collectBlock(s, semantic.NewEnclosedSymbolTable(scope), globals, eff)
	case *ast.IfStmt:
		collectExpr(s.Cond, scope, globals, eff)
		collectBlock(s.Then, semantic.NewEnclosedSymbolTable(scope), globals, eff)
		if s.Else != nil {
			collectBlock(s.Else, semantic.NewEnclosedSymbolTable(scope), globals, eff)
		}
	case *ast.WhileStmt:
		collectExpr(s.Cond, scope, globals, eff)
		collectBlock(s.Body, semantic.NewEnclosedSymbolTable(scope), globals, eff)
	case *ast.DoWhileStmt:
		collectBlock(s.Body, semantic.NewEnclosedSymbolTable(scope), globals, eff)
		collectExpr(s.Cond, scope, globals, eff)
	case *ast.ForStmt:
		inner := semantic.NewEnclosedSymbolTable(scope)
		collectForClause(s.Init, inner, globals, eff)
		if s.Cond != nil {
			collectExpr(s.Cond, inner, globals, eff)
		}
		collectBlock(s.Body, semantic.NewEnclosedSymbolTable(inner), globals, eff)
		collectForClause(s.Step, inner, globals, eff)
	case *ast.SwitchStmt:
		collectExpr(s.Cond, scope, globals, eff)
		for _, c := range s.Cases {
			collectBlock(c.Body, semantic.NewEnclosedSymbolTable(scope), globals, eff)
		}
	}
}

func collectForClause(clause ast.ForClause, scope *semantic.SymbolTable, globals map[string]semtype.ValueType, eff *functionEffects) {
	switch clause.Kind {
	case ast.ForClauseExpr:
		collectExpr(clause.Expr, scope, globals, eff)
	case ast.ForClauseLet:
		collectExpr(clause.LetValue, scope, globals, eff)
		scope.Define(clause.LetName, semtype.Type{})
	case ast.ForClauseAssign:
		collectStmt(&ast.AssignStmt{
			Target: clause.AssignTarget, Op: clause.AssignOp, Value: clause.AssignValue, Location: clause.Location,
		}, scope, globals, eff)
	}
}

func collectExpr(expr ast.Expr, scope *semantic.SymbolTable, globals map[string]semtype.ValueType, eff *functionEffects) {
	switch e := expr.(type) {
	case nil:
		return
	case *ast.BinaryExpr:
		collectExpr(e.Left, scope, globals, eff)
		collectExpr(e.Right, scope, globals, eff)
	case *ast.ConditionalExpr:
		collectExpr(e.Cond, scope, globals, eff)
		collectExpr(e.Then, scope, globals, eff)
		collectExpr(e.Else, scope, globals, eff)
	case *ast.CallExpr:
		for _, a := range e.Args {
			collectExpr(a, scope, globals, eff)
		}
		if !eff.seenCallees[e.Callee] {
			eff.seenCallees[e.Callee] = true
			eff.Calls = append(eff.Calls, call{Callee: e.Callee, Pos: e.Location})
		}
	case *ast.MessageSendExpr:
		if !eff.HasDirectMessageSend {
			eff.HasDirectMessageSend, eff.DirectMessageSendPos = true, e.Location
		}
		collectExpr(e.Receiver, scope, globals, eff)
		for _, a := range e.Args {
			collectExpr(a, scope, globals, eff)
		}
	}
}
