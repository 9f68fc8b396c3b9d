// Package consteval implements the constant-expression evaluator: a pure
// function over AST expressions and an optional name→integer binding map,
// used both to fold global initializers and to drive the static "always
// returns" proofs in internal/staticanalysis.
package consteval

import "github.com/doublemover/objc3sema/internal/ast"

// Bindings maps identifier names to already-known integer values.
type Bindings map[string]int64

// Eval evaluates expr to a 32-bit signed integer under bindings, enforcing
// overflow/shift-bounds checks appropriate for static-analysis proofs. It
// reports ok=false whenever the expression is not a constant expression
// under the given bindings.
func Eval(expr ast.Expr, bindings Bindings) (value int64, ok bool) {
	return eval(expr, bindings, true)
}

// EvalLenient evaluates expr the way the surface builder folds global
// initializers: truncating rather than overflow-checked, used only for
// global-initializer folding.
func EvalLenient(expr ast.Expr, bindings Bindings) (value int64, ok bool) {
	return eval(expr, bindings, false)
}

const (
	int32Min = -(1 << 31)
	int32Max = (1 << 31) - 1
)

func truncate32(v int64) int64 {
	return int64(int32(v))
}

func eval(expr ast.Expr, bindings Bindings, strict bool) (int64, bool) {
	if expr == nil {
		return 0, false
	}

	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return e.Value, true
	case *ast.NilLiteral:
		return 0, true
	case *ast.BoolLiteral:
		if e.Value {
			return 1, true
		}
		return 0, true
	case *ast.Identifier:
		if bindings == nil {
			return 0, false
		}
		v, found := bindings[e.Name]
		if !found {
			return 0, false
		}
		return v, true
	case *ast.ConditionalExpr:
		cond, ok := eval(e.Cond, bindings, strict)
		if !ok {
			return 0, false
		}
		if cond != 0 {
			return eval(e.Then, bindings, strict)
		}
		return eval(e.Else, bindings, strict)
	case *ast.BinaryExpr:
		return evalBinary(e, bindings, strict)
	default:
		return 0, false
	}
}

func evalBinary(e *ast.BinaryExpr, bindings Bindings, strict bool) (int64, bool) {
	lhs, ok := eval(e.Left, bindings, strict)
	if !ok {
		return 0, false
	}
	// && and || short-circuit: the right operand need not be evaluable if
	// the left side already determines the result.
	switch e.Op {
	case "&&":
		if lhs == 0 {
			return 0, true
		}
		rhs, ok := eval(e.Right, bindings, strict)
		if !ok {
			return 0, false
		}
		if rhs != 0 {
			return 1, true
		}
		return 0, true
	case "||":
		if lhs != 0 {
			return 1, true
		}
		rhs, ok := eval(e.Right, bindings, strict)
		if !ok {
			return 0, false
		}
		if rhs != 0 {
			return 1, true
		}
		return 0, true
	}

	rhs, ok := eval(e.Right, bindings, strict)
	if !ok {
		return 0, false
	}

	switch e.Op {
	case "+":
		return boundedArith(lhs+rhs, strict)
	case "-":
		return boundedArith(lhs-rhs, strict)
	case "*":
		return boundedArith(lhs*rhs, strict)
	case "/":
		if rhs == 0 {
			return 0, false
		}
		return truncate32(lhs / rhs), true
	case "%":
		if rhs == 0 {
			return 0, false
		}
		return truncate32(lhs % rhs), true
	case "&":
		return truncate32(lhs & rhs), true
	case "|":
		return truncate32(lhs | rhs), true
	case "^":
		return truncate32(lhs ^ rhs), true
	case "<<":
		return evalShift(lhs, rhs, true, strict)
	case ">>":
		return evalShift(lhs, rhs, false, strict)
	case "==":
		return boolInt(lhs == rhs), true
	case "!=":
		return boolInt(lhs != rhs), true
	case "<":
		return boolInt(lhs < rhs), true
	case "<=":
		return boolInt(lhs <= rhs), true
	case ">":
		return boolInt(lhs > rhs), true
	case ">=":
		return boolInt(lhs >= rhs), true
	default:
		return 0, false
	}
}

// boundedArith applies 32-bit two's-complement overflow checking in strict
// mode (widen to 64-bit, check bounds, then narrow); in lenient mode it
// truncates unconditionally.
func boundedArith(v int64, strict bool) (int64, bool) {
	if strict && (v < int32Min || v > int32Max) {
		return 0, false
	}
	return truncate32(v), true
}

// evalShift folds a shift expression. A negative left operand or out-of-range
// shift count always fails the fold — driving static-analysis proofs off an
// arithmetic right-shift of a negative number would silently hide the sign
// bit's influence. The shifted-value overflow check on << only applies in
// strict mode: lenient folding (global-initializer truncation) accepts any
// bit pattern the 32-bit narrowing produces.
func evalShift(lhs, rhs int64, left, strict bool) (int64, bool) {
	if lhs < 0 || rhs < 0 || rhs >= 32 {
		return 0, false
	}
	if left {
		shifted := lhs << uint(rhs)
		if strict && (shifted < int32Min || shifted > int32Max) {
			return 0, false
		}
		return truncate32(shifted), true
	}
	return truncate32(lhs >> uint(rhs)), true
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// ResolveGlobalOrder folds a list of globals in declaration order, feeding
// each resolved value forward as a binding for subsequent globals, so a
// later global can refer to an earlier one by name.
func ResolveGlobalOrder(globals []*ast.GlobalDecl) (values []int64, resolved []bool) {
	bindings := Bindings{}
	values = make([]int64, len(globals))
	resolved = make([]bool, len(globals))
	for i, g := range globals {
		v, ok := EvalLenient(g.Value, bindings)
		if !ok {
			continue
		}
		values[i] = v
		resolved[i] = true
		if _, dup := bindings[g.Name]; !dup {
			bindings[g.Name] = v
		}
	}
	return values, resolved
}
