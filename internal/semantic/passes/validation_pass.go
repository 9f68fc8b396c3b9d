package passes

import (
	"fmt"
	"strconv"

	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/config"
	"github.com/doublemover/objc3sema/internal/consteval"
	"github.com/doublemover/objc3sema/internal/semantic"
	"github.com/doublemover/objc3sema/internal/semtype"
	"github.com/doublemover/objc3sema/internal/staticanalysis"
)

// compoundAssignOps requires its target and value to be exactly scalar i32 —
// unlike `=`, it grants no Bool/i32 coercion at all.
var compoundAssignOps = map[string]bool{
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

// BodyPass implements Pass 2: Body Validation.
//
// Walks every function and implementation-method body that carries a
// definition, resolving identifiers against a scope stack seeded with the
// parameter list, type-checking every expression and statement against the
// surface Pass 1 built, and finally running the missing-return proof over
// non-void bodies.
type BodyPass struct{}

// NewBodyPass creates a new body-validation pass.
func NewBodyPass() *BodyPass { return &BodyPass{} }

// Name returns this pass's identifier.
func (p *BodyPass) Name() string { return "bodies" }

// Run validates every function and implementation-method body in program
// against surface, returning diagnostics in discovery order.
func (p *BodyPass) Run(program *ast.Program, surface *semantic.Surface, opts config.Options) []string {
	v := &bodyValidator{surface: surface, opts: opts}
	var diags []string

	for _, fn := range program.Functions {
		if fn.Body == nil {
			continue
		}
		diags = append(diags, v.validateFunctionBody(fn)...)
	}
	for _, impl := range program.Implementations {
		for _, m := range impl.Methods {
			if m.Body == nil {
				continue
			}
			diags = append(diags, v.validateMethodBody(m)...)
		}
	}
	return diags
}

type bodyValidator struct {
	surface *semantic.Surface
	opts    config.Options

	loopDepth   int
	switchDepth int
}

func (v *bodyValidator) validateFunctionBody(fn *ast.FunctionDecl) []string {
	scope := semantic.NewSymbolTable()
	fnInfo := v.surface.Functions[fn.Name]
	for i, p := range fn.Params {
		if i < len(fnInfo.ParamTypes) {
			scope.Define(p.Name, fnInfo.ParamTypes[i])
		} else {
			scope.Define(p.Name, annotationToType(p.Type))
		}
	}
	retType := fnInfo.Return

	diags := v.validateBlock(fn.Body, scope, retType)

	if retType.Base != semtype.Void {
		if !staticanalysis.BlockAlwaysReturns(fn.Body, consteval.Bindings{}) {
			diags = append(diags, semantic.ErrMissingReturn(fn.Location, fn.Name))
		}
	}
	return diags
}

func (v *bodyValidator) validateMethodBody(m ast.MethodDecl) []string {
	scope := semantic.NewSymbolTable()
	for _, p := range m.Params {
		scope.Define(p.Name, annotationToType(p.Type))
	}
	retType := annotationToType(m.Return)

	diags := v.validateBlock(m.Body, scope, retType)

	if retType.Base != semtype.Void {
		if !staticanalysis.BlockAlwaysReturns(m.Body, consteval.Bindings{}) {
			diags = append(diags, semantic.ErrMissingReturn(m.Location, m.Selector))
		}
	}
	return diags
}

func (v *bodyValidator) validateBlock(block *ast.BlockStmt, scope *semantic.SymbolTable, retType semtype.Type) []string {
	if block == nil {
		return nil
	}
	var diags []string
	for _, s := range block.Statements {
		diags = append(diags, v.validateStmt(s, scope, retType)...)
	}
	return diags
}

func (v *bodyValidator) validateStmt(stmt ast.Stmt, scope *semantic.SymbolTable, retType semtype.Type) []string {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return v.validateLet(s, scope)
	case *ast.AssignStmt:
		return v.validateAssign(s, scope)
	case *ast.ReturnStmt:
		return v.validateReturn(s, scope, retType)
	case *ast.ExprStmt:
		_, diags := v.typeOf(s.Value, scope)
		return diags
	case *ast.EmptyStmt:
		return nil
	case *ast.BlockStmt:
		return v.validateBlock(s, semantic.NewEnclosedSymbolTable(scope), retType)
	case *ast.IfStmt:
		return v.validateIf(s, scope, retType)
	case *ast.WhileStmt:
		return v.validateWhile(s, scope, retType)
	case *ast.DoWhileStmt:
		return v.validateDoWhile(s, scope, retType)
	case *ast.ForStmt:
		return v.validateFor(s, scope, retType)
	case *ast.SwitchStmt:
		return v.validateSwitch(s, scope, retType)
	case *ast.BreakStmt:
		if v.loopDepth == 0 && v.switchDepth == 0 {
			return []string{semantic.ErrBreakOutsideLoop(s.Location)}
		}
		return nil
	case *ast.ContinueStmt:
		if v.loopDepth == 0 {
			return []string{semantic.ErrContinueOutsideLoop(s.Location)}
		}
		return nil
	default:
		return nil
	}
}

func (v *bodyValidator) validateLet(s *ast.LetStmt, scope *semantic.SymbolTable) []string {
	valType, diags := v.typeOf(s.Value, scope)
	if scope.IsDeclaredInCurrentScope(s.Name) {
		diags = append(diags, semantic.ErrScopeRedeclaration(s.Location, s.Name))
	}
	scope.Define(s.Name, valType)
	return diags
}

func (v *bodyValidator) validateAssign(s *ast.AssignStmt, scope *semantic.SymbolTable) []string {
	targetType, ok := scope.Resolve(s.Target)
	if !ok {
		if gType, isGlobal := v.surface.Globals[s.Target]; isGlobal {
			targetType = semtype.Scalar(gType)
			ok = true
		}
	}
	if !ok {
		return []string{semantic.ErrUndefinedAssignmentTarget(s.Location, s.Target)}
	}

	if s.Value == nil {
		// `++`/`--`: the target itself must already be I32-shaped.
		if !semtype.Equal(targetType, semtype.Scalar(semtype.I32)) {
			return []string{semantic.ErrTypeMismatch(s.Location, semtype.Scalar(semtype.I32), targetType)}
		}
		return nil
	}

	valType, diags := v.typeOf(s.Value, scope)
	if valType.IsUnknown() || targetType.IsUnknown() {
		return diags
	}

	if compoundAssignOps[s.Op] {
		if !semtype.Equal(targetType, semtype.Scalar(semtype.I32)) || !semtype.Equal(valType, semtype.Scalar(semtype.I32)) {
			diags = append(diags, semantic.ErrTypeMismatchDetail(s.Location, fmt.Sprintf(
				"expected type '%s', got '%s'; %s",
				semtype.Name(targetType), semtype.Name(valType), semantic.FormatAtomicMemoryOrderMappingHint(s.Op))))
		}
		return diags
	}

	if !assignCompatible(targetType, valType, s.Value) {
		diags = append(diags, semantic.ErrTypeMismatch(s.Location, targetType, valType))
	}
	return diags
}

// assignCompatible is the Assign/Return coercion rule: an I32 value always
// flows into a Bool target, but a Bool target only accepts an I32 value when
// the value expression is a bool-like literal (0, 1, or nil) — a non-literal
// I32 expression carries no evidence it's actually 0/1-valued.
func assignCompatible(target, value semtype.Type, valueExpr ast.Expr) bool {
	if semtype.Equal(target, value) {
		return true
	}
	if !target.IsScalar() || !value.IsScalar() {
		return false
	}
	if target.Base == semtype.I32 && value.Base == semtype.Bool {
		return true
	}
	if target.Base == semtype.Bool && value.Base == semtype.I32 {
		return isBoolLikeI32Literal(valueExpr)
	}
	return false
}

// callArgCompatible is the Call-argument coercion rule: only a Bool
// parameter accepts an I32 argument (unconditionally, no literal check); the
// reverse — an I32 parameter fed a Bool argument — is never allowed.
func callArgCompatible(param, arg semtype.Type) bool {
	if semtype.Equal(param, arg) {
		return true
	}
	if !param.IsScalar() || !arg.IsScalar() {
		return false
	}
	return param.Base == semtype.Bool && arg.Base == semtype.I32
}

// isBoolLikeI32Literal reports whether expr is a literal that can stand in
// for a Bool value: the i32 literals 0 and 1, or nil.
func isBoolLikeI32Literal(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return e.Value == 0 || e.Value == 1
	case *ast.NilLiteral:
		return true
	default:
		return false
	}
}

// isBoolI32LiteralComparison is the equality-operator exception: a Bool
// value may be compared against an I32 value when the I32 side is a
// bool-like literal (0, 1, or nil) — e.g. `boolVar == 0`.
func isBoolI32LiteralComparison(lhs, rhs semtype.Type, leftExpr, rightExpr ast.Expr) bool {
	if !lhs.IsScalar() || !rhs.IsScalar() {
		return false
	}
	if lhs.Base == semtype.Bool && rhs.Base == semtype.I32 {
		return isBoolLikeI32Literal(rightExpr)
	}
	if lhs.Base == semtype.I32 && rhs.Base == semtype.Bool {
		return isBoolLikeI32Literal(leftExpr)
	}
	return false
}

func (v *bodyValidator) validateReturn(s *ast.ReturnStmt, scope *semantic.SymbolTable, retType semtype.Type) []string {
	if s.Value == nil {
		if retType.Base != semtype.Void {
			return []string{semantic.ErrReturnTypeMismatch(s.Location, "", retType, semtype.Scalar(semtype.Void))}
		}
		return nil
	}
	valType, diags := v.typeOf(s.Value, scope)
	if valType.IsUnknown() {
		return diags
	}
	if !assignCompatible(retType, valType, s.Value) {
		diags = append(diags, semantic.ErrReturnTypeMismatch(s.Location, "", retType, valType))
	}
	return diags
}

func (v *bodyValidator) validateIf(s *ast.IfStmt, scope *semantic.SymbolTable, retType semtype.Type) []string {
	condType, diags := v.typeOf(s.Cond, scope)
	if !condType.IsUnknown() && !condType.IsBoolCompatibleScalar() {
		diags = append(diags, semantic.ErrTypeMismatch(s.Cond.Pos(), semtype.Scalar(semtype.Bool), condType))
	}
	diags = append(diags, v.validateBlock(s.Then, semantic.NewEnclosedSymbolTable(scope), retType)...)
	if s.Else != nil {
		diags = append(diags, v.validateBlock(s.Else, semantic.NewEnclosedSymbolTable(scope), retType)...)
	}
	return diags
}

func (v *bodyValidator) validateWhile(s *ast.WhileStmt, scope *semantic.SymbolTable, retType semtype.Type) []string {
	condType, diags := v.typeOf(s.Cond, scope)
	if !condType.IsUnknown() && !condType.IsBoolCompatibleScalar() {
		diags = append(diags, semantic.ErrTypeMismatch(s.Cond.Pos(), semtype.Scalar(semtype.Bool), condType))
	}
	v.loopDepth++
	diags = append(diags, v.validateBlock(s.Body, semantic.NewEnclosedSymbolTable(scope), retType)...)
	v.loopDepth--
	return diags
}

func (v *bodyValidator) validateDoWhile(s *ast.DoWhileStmt, scope *semantic.SymbolTable, retType semtype.Type) []string {
	v.loopDepth++
	diags := v.validateBlock(s.Body, semantic.NewEnclosedSymbolTable(scope), retType)
	v.loopDepth--

	condType, condDiags := v.typeOf(s.Cond, scope)
	diags = append(diags, condDiags...)
	if !condType.IsUnknown() && !condType.IsBoolCompatibleScalar() {
		diags = append(diags, semantic.ErrTypeMismatch(s.Cond.Pos(), semtype.Scalar(semtype.Bool), condType))
	}
	return diags
}

func (v *bodyValidator) validateFor(s *ast.ForStmt, scope *semantic.SymbolTable, retType semtype.Type) []string {
	inner := semantic.NewEnclosedSymbolTable(scope)
	var diags []string

	switch s.Init.Kind {
	case ast.ForClauseExpr:
		_, d := v.typeOf(s.Init.Expr, inner)
		diags = append(diags, d...)
	case ast.ForClauseLet:
		valType, d := v.typeOf(s.Init.LetValue, inner)
		diags = append(diags, d...)
		inner.Define(s.Init.LetName, valType)
	case ast.ForClauseAssign:
		diags = append(diags, v.validateAssign(&ast.AssignStmt{
			Target: s.Init.AssignTarget, Op: s.Init.AssignOp, Value: s.Init.AssignValue, Location: s.Init.Location,
		}, inner)...)
	}

	if s.Cond != nil {
		condType, d := v.typeOf(s.Cond, inner)
		diags = append(diags, d...)
		if !condType.IsUnknown() && !condType.IsBoolCompatibleScalar() {
			diags = append(diags, semantic.ErrTypeMismatch(s.Cond.Pos(), semtype.Scalar(semtype.Bool), condType))
		}
	}

	v.loopDepth++
	diags = append(diags, v.validateBlock(s.Body, semantic.NewEnclosedSymbolTable(inner), retType)...)
	v.loopDepth--

	switch s.Step.Kind {
	case ast.ForClauseExpr:
		_, d := v.typeOf(s.Step.Expr, inner)
		diags = append(diags, d...)
	case ast.ForClauseAssign:
		diags = append(diags, v.validateAssign(&ast.AssignStmt{
			Target: s.Step.AssignTarget, Op: s.Step.AssignOp, Value: s.Step.AssignValue, Location: s.Step.Location,
		}, inner)...)
	}

	return diags
}

func (v *bodyValidator) validateSwitch(s *ast.SwitchStmt, scope *semantic.SymbolTable, retType semtype.Type) []string {
	condType, diags := v.typeOf(s.Cond, scope)
	if !condType.IsUnknown() && !semtype.Equal(condType, semtype.Scalar(semtype.I32)) {
		diags = append(diags, semantic.ErrTypeMismatch(s.Cond.Pos(), semtype.Scalar(semtype.I32), condType))
	}
	seenLabels := map[int64]bool{}
	sawDefault := false
	for _, c := range s.Cases {
		if c.IsDefault {
			if sawDefault {
				diags = append(diags, semantic.ErrTypeMismatchDetail(c.Location, "switch statement has more than one 'default' case"))
			}
			sawDefault = true
		} else if seenLabels[c.Value] {
			diags = append(diags, semantic.ErrTypeMismatchDetail(c.Location, fmt.Sprintf("duplicate case label '%d'", c.Value)))
		} else {
			seenLabels[c.Value] = true
		}
	}

	v.switchDepth++
	for _, c := range s.Cases {
		diags = append(diags, v.validateBlock(c.Body, semantic.NewEnclosedSymbolTable(scope), retType)...)
	}
	v.switchDepth--
	return diags
}

// typeOf computes the semantic type of expr, resolving identifiers against
// scope, then globals, then function names (which type as the Function
// sentinel). An Unknown result suppresses cascading diagnostics at the call
// site.
func (v *bodyValidator) typeOf(expr ast.Expr, scope *semantic.SymbolTable) (semtype.Type, []string) {
	switch e := expr.(type) {
	case nil:
		return semtype.Scalar(semtype.Unknown), nil
	case *ast.NumberLiteral:
		return semtype.Scalar(semtype.I32), nil
	case *ast.BoolLiteral:
		return semtype.Scalar(semtype.Bool), nil
	case *ast.NilLiteral:
		return semtype.Scalar(semtype.I32), nil
	case *ast.Identifier:
		return v.typeOfIdentifier(e, scope)
	case *ast.BinaryExpr:
		return v.typeOfBinary(e, scope)
	case *ast.ConditionalExpr:
		return v.typeOfConditional(e, scope)
	case *ast.CallExpr:
		return v.typeOfCall(e, scope)
	case *ast.MessageSendExpr:
		return v.typeOfMessageSend(e, scope)
	default:
		return semtype.Scalar(semtype.Unknown), nil
	}
}

func (v *bodyValidator) typeOfIdentifier(e *ast.Identifier, scope *semantic.SymbolTable) (semtype.Type, []string) {
	if t, ok := scope.Resolve(e.Name); ok {
		return t, nil
	}
	if g, ok := v.surface.Globals[e.Name]; ok {
		return semtype.Scalar(g), nil
	}
	if _, ok := v.surface.Functions[e.Name]; ok {
		return semtype.Scalar(semtype.Function), nil
	}
	return semtype.Scalar(semtype.Unknown), []string{semantic.ErrUndefinedIdentifier(e.Location, e.Name)}
}

func (v *bodyValidator) typeOfBinary(e *ast.BinaryExpr, scope *semantic.SymbolTable) (semtype.Type, []string) {
	lhs, diags := v.typeOf(e.Left, scope)
	rhs, rhsDiags := v.typeOf(e.Right, scope)
	diags = append(diags, rhsDiags...)

	if lhs.IsUnknown() || rhs.IsUnknown() {
		return semtype.Scalar(semtype.Unknown), diags
	}

	switch e.Op {
	case "+", "-", "*", "/", "%", "&", "|", "^", "<<", ">>":
		if !semtype.Equal(lhs, semtype.Scalar(semtype.I32)) || !semtype.Equal(rhs, semtype.Scalar(semtype.I32)) {
			diags = append(diags, semantic.ErrTypeMismatchDetail(e.Location, "operator '"+e.Op+"' requires i32 operands"))
			return semtype.Scalar(semtype.Unknown), diags
		}
		return semtype.Scalar(semtype.I32), diags
	case "==", "!=":
		if !semtype.Equal(lhs, rhs) && !isBoolI32LiteralComparison(lhs, rhs, e.Left, e.Right) {
			diags = append(diags, semantic.ErrTypeMismatchDetail(e.Location, "operator '"+e.Op+"' requires operands of the same type"))
			return semtype.Scalar(semtype.Unknown), diags
		}
		return semtype.Scalar(semtype.Bool), diags
	case "<", "<=", ">", ">=":
		if !semtype.Equal(lhs, semtype.Scalar(semtype.I32)) || !semtype.Equal(rhs, semtype.Scalar(semtype.I32)) {
			diags = append(diags, semantic.ErrTypeMismatchDetail(e.Location, "operator '"+e.Op+"' requires i32 operands"))
			return semtype.Scalar(semtype.Unknown), diags
		}
		return semtype.Scalar(semtype.Bool), diags
	case "&&", "||":
		if !lhs.IsBoolCompatibleScalar() || !rhs.IsBoolCompatibleScalar() {
			diags = append(diags, semantic.ErrTypeMismatchDetail(e.Location, "operator '"+e.Op+"' requires bool-compatible operands"))
			return semtype.Scalar(semtype.Unknown), diags
		}
		return semtype.Scalar(semtype.Bool), diags
	default:
		return semtype.Scalar(semtype.Unknown), diags
	}
}

func (v *bodyValidator) typeOfConditional(e *ast.ConditionalExpr, scope *semantic.SymbolTable) (semtype.Type, []string) {
	condType, diags := v.typeOf(e.Cond, scope)
	if !condType.IsUnknown() && !condType.IsBoolCompatibleScalar() {
		diags = append(diags, semantic.ErrTypeMismatch(e.Cond.Pos(), semtype.Scalar(semtype.Bool), condType))
	}
	thenType, thenDiags := v.typeOf(e.Then, scope)
	diags = append(diags, thenDiags...)
	elseType, elseDiags := v.typeOf(e.Else, scope)
	diags = append(diags, elseDiags...)

	if thenType.IsUnknown() || elseType.IsUnknown() {
		return semtype.Scalar(semtype.Unknown), diags
	}
	if !semtype.Equal(thenType, elseType) {
		diags = append(diags, semantic.ErrTypeMismatchDetail(e.Location, "conditional branches must have the same type"))
		return semtype.Scalar(semtype.Unknown), diags
	}
	return thenType, diags
}

func (v *bodyValidator) typeOfCall(e *ast.CallExpr, scope *semantic.SymbolTable) (semtype.Type, []string) {
	var diags []string
	argTypes := make([]semtype.Type, len(e.Args))
	for i, a := range e.Args {
		t, d := v.typeOf(a, scope)
		argTypes[i] = t
		diags = append(diags, d...)
	}

	fn, ok := v.surface.Functions[e.Callee]
	if !ok {
		diags = append(diags, semantic.ErrUnknownFunction(e.Location, e.Callee))
		return semtype.Scalar(semtype.Unknown), diags
	}
	if len(e.Args) != fn.Arity {
		diags = append(diags, semantic.ErrArityMismatch(e.Location, e.Callee, fn.Arity, len(e.Args)))
		return semtype.Scalar(semtype.Unknown), diags
	}
	for i, argType := range argTypes {
		if argType.IsUnknown() || i >= len(fn.ParamTypes) {
			continue
		}
		if i < len(fn.ParamHasInvalidSuffix) && fn.ParamHasInvalidSuffix[i] {
			// Already diagnosed in Pass 1 — don't pile on a second O3S206.
			continue
		}
		if !callArgCompatible(fn.ParamTypes[i], argType) {
			diags = append(diags, semantic.ErrTypeMismatchDetail(e.Args[i].Pos(),
				"argument "+strconv.Itoa(i+1)+" of '"+e.Callee+"' expects '"+semtype.Name(fn.ParamTypes[i])+"', got '"+semtype.Name(argType)+"'"))
		}
	}
	return fn.Return, diags
}

func (v *bodyValidator) typeOfMessageSend(e *ast.MessageSendExpr, scope *semantic.SymbolTable) (semtype.Type, []string) {
	var diags []string
	recvType, recvDiags := v.typeOf(e.Receiver, scope)
	diags = append(diags, recvDiags...)
	if !recvType.IsUnknown() && !recvType.IsMessageCompatibleScalar() {
		diags = append(diags, semantic.ErrMessageReceiverType(e.Location))
	}

	if len(e.Args) > v.opts.MaxMessageSendArgs {
		diags = append(diags, semantic.ErrMessageArityMismatch(e.Location, len(e.Args), v.opts.MaxMessageSendArgs))
	}

	for i, a := range e.Args {
		argType, argDiags := v.typeOf(a, scope)
		diags = append(diags, argDiags...)
		if !argType.IsUnknown() && !argType.IsMessageCompatibleScalar() {
			diags = append(diags, semantic.ErrMessageArgumentType(a.Pos(), i+1))
		}
	}

	return semtype.Scalar(semtype.I32), diags
}
