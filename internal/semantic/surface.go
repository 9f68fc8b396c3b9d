// Package semantic holds the data model shared across the three analysis
// passes (the integration surface and type-metadata handoff) plus the pass
// orchestration contract. Concrete pass implementations live in
// internal/semantic/passes.
package semantic

import (
	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/semtype"
)

// FunctionInfo is the surface's per-function record.
type FunctionInfo struct {
	Arity                 int
	ParamTypes            []semtype.Type
	ParamHasInvalidSuffix []bool
	Return                semtype.Type
	HasDefinition         bool
	IsPureAnnotation      bool
	// Location is the first declaration's location — used to anchor
	// pure-contract diagnostics when a function is redeclared under the
	// same name.
	Location ast.Position
}

// MethodInfo is the surface's per-method record, shared by interfaces and
// implementations.
type MethodInfo struct {
	Selector      string
	Arity         int
	ParamTypes    []semtype.Type
	Return        semtype.Type
	IsClassMethod bool
	HasDefinition bool
	Location      ast.Position
}

// IsCompatibleSignature reports whether two method records have an
// interchangeable signature: same arity, return type, and per-parameter
// type, and the same is_class_method flag.
func IsCompatibleSignature(a, b MethodInfo) bool {
	if a.Arity != b.Arity || !semtype.Equal(a.Return, b.Return) || a.IsClassMethod != b.IsClassMethod {
		return false
	}
	if len(a.ParamTypes) != len(b.ParamTypes) {
		return false
	}
	for i := range a.ParamTypes {
		if !semtype.Equal(a.ParamTypes[i], b.ParamTypes[i]) {
			return false
		}
	}
	return true
}

// InterfaceInfo is the surface's record for a declared interface.
type InterfaceInfo struct {
	SuperName string
	Methods   map[string]MethodInfo
	Location  ast.Position
}

// ImplementationInfo is the surface's record for a declared implementation.
type ImplementationInfo struct {
	HasMatchingInterface bool
	Methods              map[string]MethodInfo
	Location             ast.Position
}

// InterfaceImplementationSummary is the structural interface/implementation
// linkage summary. Declared* counts every AST declaration, including ones
// later rejected as duplicates; Resolved* counts only the ones that made it
// into the surface's maps, i.e. what's actually visible to Pass 2 and Pass 3.
type InterfaceImplementationSummary struct {
	DeclaredInterfaces          int
	DeclaredImplementations     int
	ResolvedInterfaces          int
	ResolvedImplementations     int
	InterfaceMethodSymbols      int
	ImplementationMethodSymbols int
	LinkedImplementationSymbols int
	Deterministic               bool
}

// Surface is the integration surface built by Pass 1 and read thereafter by
// Pass 2 and Pass 3.
type Surface struct {
	Globals                        map[string]semtype.ValueType
	Functions                      map[string]*FunctionInfo
	Interfaces                     map[string]*InterfaceInfo
	Implementations                map[string]*ImplementationInfo
	InterfaceImplementationSummary InterfaceImplementationSummary
	Built                          bool
}

// NewSurface returns an empty, unbuilt surface.
func NewSurface() *Surface {
	return &Surface{
		Globals:         map[string]semtype.ValueType{},
		Functions:       map[string]*FunctionInfo{},
		Interfaces:      map[string]*InterfaceInfo{},
		Implementations: map[string]*ImplementationInfo{},
	}
}
