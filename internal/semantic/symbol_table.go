package semantic

import "github.com/doublemover/objc3sema/internal/semtype"

// SymbolTable is one frame of a scope stack: a single hash map of locally
// bound names, chained to its enclosing frame. Every compound construct
// (if/while/do-while/for/switch-case/function body) pushes exactly one
// frame per block it owns; a nested if pushes two frames in sequence (one
// per branch), matching the enclosed-scope idiom used throughout the tree
// walk.
type SymbolTable struct {
	symbols map[string]semtype.Type
	outer   *SymbolTable
}

// NewSymbolTable creates a new, empty root symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]semtype.Type)}
}

// NewEnclosedSymbolTable creates a new frame nested inside outer.
func NewEnclosedSymbolTable(outer *SymbolTable) *SymbolTable {
	return &SymbolTable{symbols: make(map[string]semtype.Type), outer: outer}
}

// Define binds name to typ in this frame, shadowing any binding of the same
// name in an enclosing frame.
func (st *SymbolTable) Define(name string, typ semtype.Type) {
	st.symbols[name] = typ
}

// Resolve looks up name in this frame and every enclosing frame, innermost
// first.
func (st *SymbolTable) Resolve(name string) (semtype.Type, bool) {
	if typ, ok := st.symbols[name]; ok {
		return typ, true
	}
	if st.outer != nil {
		return st.outer.Resolve(name)
	}
	return semtype.Type{}, false
}

// IsDeclaredInCurrentScope reports whether name is bound in this frame
// specifically, ignoring enclosing frames — used for the O3S201 scope
// redeclaration check, which only fires on a same-frame collision.
func (st *SymbolTable) IsDeclaredInCurrentScope(name string) bool {
	_, ok := st.symbols[name]
	return ok
}

// Outer returns the enclosing frame, or nil at the root.
func (st *SymbolTable) Outer() *SymbolTable {
	return st.outer
}
