package diagnostics

// Code is the closed set of diagnostic codes the core may emit. Any string
// outside this set must never be produced.
type Code string

const (
	DuplicateSymbol           Code = "O3S200"
	ScopeRedeclaration        Code = "O3S201"
	UndefinedIdentifier       Code = "O3S202"
	UnknownFunction           Code = "O3S203"
	ArityMismatch             Code = "O3S204"
	MissingReturn             Code = "O3S205"
	TypeMismatch              Code = "O3S206"
	MessageReceiverType       Code = "O3S207"
	MessageArityMismatch      Code = "O3S208"
	MessageArgumentType       Code = "O3S209"
	NonConstantGlobal         Code = "O3S210"
	ReturnTypeMismatch        Code = "O3S211"
	BreakOutsideLoop          Code = "O3S212"
	ContinueOutsideLoop       Code = "O3S213"
	UndefinedAssignmentTarget Code = "O3S214"
	PureContractViolation     Code = "O3S215"
)

// Info describes a single diagnostic code: the pass that emits it and a
// short human-facing description, mirroring the registry pattern used for
// phase-tagged error codes elsewhere in the ecosystem.
type Info struct {
	Code        Code
	Pass        string
	Description string
}

// Registry is the full, closed set of diagnostics the core may produce.
var Registry = map[Code]Info{
	DuplicateSymbol:           {DuplicateSymbol, "surface", "duplicate global, function, interface, implementation, or selector"},
	ScopeRedeclaration:        {ScopeRedeclaration, "bodies", "redeclaration of a name already bound in the current scope frame"},
	UndefinedIdentifier:       {UndefinedIdentifier, "bodies", "identifier not found in scope, globals, or functions"},
	UnknownFunction:           {UnknownFunction, "bodies", "call to a function with no surface entry"},
	ArityMismatch:             {ArityMismatch, "bodies", "call argument count does not match the callee's arity"},
	MissingReturn:             {MissingReturn, "bodies", "non-void function body does not always return"},
	TypeMismatch:              {TypeMismatch, "surface+bodies", "incompatible semantic types in a declaration, expression, or assignment"},
	MessageReceiverType:       {MessageReceiverType, "bodies", "message-send receiver is not i32-compatible"},
	MessageArityMismatch:      {MessageArityMismatch, "bodies", "message-send argument count exceeds the configured maximum"},
	MessageArgumentType:       {MessageArgumentType, "bodies", "message-send argument is not i32-compatible"},
	NonConstantGlobal:         {NonConstantGlobal, "surface", "global initializer does not fold to a constant"},
	ReturnTypeMismatch:        {ReturnTypeMismatch, "bodies", "return statement's value does not match the function's return type"},
	BreakOutsideLoop:          {BreakOutsideLoop, "bodies", "break statement outside any loop or switch"},
	ContinueOutsideLoop:       {ContinueOutsideLoop, "bodies", "continue statement outside any loop"},
	UndefinedAssignmentTarget: {UndefinedAssignmentTarget, "bodies", "assignment target not found in scope or globals"},
	PureContractViolation:     {PureContractViolation, "purecontract", "function declared pure has an attributable side effect"},
}

// Lookup returns the registry entry for code, if known.
func Lookup(code Code) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}

// IsSurfacePass reports whether code is ever emitted by the surface-builder
// pass.
func IsSurfacePass(code Code) bool {
	info, ok := Lookup(code)
	return ok && (info.Pass == "surface" || info.Pass == "surface+bodies")
}

// IsBodiesPass reports whether code is ever emitted by the body-validator
// pass.
func IsBodiesPass(code Code) bool {
	info, ok := Lookup(code)
	return ok && (info.Pass == "bodies" || info.Pass == "surface+bodies")
}

// IsPureContractPass reports whether code is ever emitted by the
// pure-contract validator pass.
func IsPureContractPass(code Code) bool {
	info, ok := Lookup(code)
	return ok && info.Pass == "purecontract"
}
